package receipts

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

type pebbleBackend struct {
	db *pebble.DB
}

// OpenPebble opens (creating if needed) a pebble-backed store at path.
func OpenPebble(path string) (Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble %s: %w", path, err)
	}
	return newKVStore(&pebbleBackend{db: db}), nil
}

func (p *pebbleBackend) get(key []byte) ([]byte, error) {
	val, closer, err := p.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errKeyNotFound
		}
		return nil, err
	}
	defer closer.Close()

	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (p *pebbleBackend) apply(puts map[string][]byte, deletes []string) error {
	batch := p.db.NewBatch()
	defer batch.Close()

	for _, k := range deletes {
		if err := batch.Delete([]byte(k), nil); err != nil {
			return err
		}
	}
	for k, v := range puts {
		if err := batch.Set([]byte(k), v, nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

func (p *pebbleBackend) scan(prefix []byte, fn func(key, value []byte) bool) error {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixEnd(prefix),
	})
	if err != nil {
		return err
	}
	for iter.First(); iter.Valid(); iter.Next() {
		if !fn(iter.Key(), iter.Value()) {
			break
		}
	}
	if err := iter.Error(); err != nil {
		iter.Close()
		return err
	}
	return iter.Close()
}

func (p *pebbleBackend) close() error {
	return p.db.Close()
}
