package receipts

import (
	"sort"
	"strings"
)

type memoryBackend struct {
	data map[string][]byte
}

// NewMemory returns a Store that lives only as long as the process.
func NewMemory() Store {
	return newKVStore(&memoryBackend{data: make(map[string][]byte)})
}

func (m *memoryBackend) get(key []byte) ([]byte, error) {
	v, ok := m.data[string(key)]
	if !ok {
		return nil, errKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memoryBackend) apply(puts map[string][]byte, deletes []string) error {
	for _, k := range deletes {
		delete(m.data, k)
	}
	for k, v := range puts {
		m.data[k] = append([]byte(nil), v...)
	}
	return nil
}

func (m *memoryBackend) scan(prefix []byte, fn func(key, value []byte) bool) error {
	p := string(prefix)
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !fn([]byte(k), m.data[k]) {
			break
		}
	}
	return nil
}

func (m *memoryBackend) close() error {
	m.data = nil
	return nil
}
