// Package directory resolves institution names to ledger addresses.
package directory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/LeJamon/campuspay/internal/wallet"
)

// Entry is one named recipient.
type Entry struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Directory is a read-only name → address table. Names are matched exactly
// after trimming surrounding whitespace.
type Directory struct {
	byName  map[string]string
	entries []Entry
}

// New validates every address and builds the table.
func New(entries map[string]string) (*Directory, error) {
	d := &Directory{byName: make(map[string]string, len(entries))}
	for name, addr := range entries {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("directory: empty name for %s", addr)
		}
		if err := wallet.ValidateAddress(addr); err != nil {
			return nil, fmt.Errorf("directory: %s: %w", name, err)
		}
		if _, dup := d.byName[name]; dup {
			return nil, fmt.Errorf("directory: duplicate name %q", name)
		}
		d.byName[name] = addr
		d.entries = append(d.entries, Entry{Name: name, Address: addr})
	}
	sort.Slice(d.entries, func(i, j int) bool { return d.entries[i].Name < d.entries[j].Name })
	return d, nil
}

func (d *Directory) Lookup(name string) (string, bool) {
	addr, ok := d.byName[strings.TrimSpace(name)]
	return addr, ok
}

// Entries returns the table sorted by name.
func (d *Directory) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}
