package receipts

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

type leveldbBackend struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if needed) a LevelDB-backed store at path.
func OpenLevelDB(path string) (Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return newKVStore(&leveldbBackend{db: db}), nil
}

func (l *leveldbBackend) get(key []byte) ([]byte, error) {
	v, err := l.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, errKeyNotFound
	}
	return v, err
}

func (l *leveldbBackend) apply(puts map[string][]byte, deletes []string) error {
	batch := new(leveldb.Batch)
	for _, k := range deletes {
		batch.Delete([]byte(k))
	}
	for k, v := range puts {
		batch.Put([]byte(k), v)
	}
	return l.db.Write(batch, &opt.WriteOptions{Sync: true})
}

func (l *leveldbBackend) scan(prefix []byte, fn func(key, value []byte) bool) error {
	iter := l.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		if !fn(iter.Key(), iter.Value()) {
			break
		}
	}
	return iter.Error()
}

func (l *leveldbBackend) close() error {
	return l.db.Close()
}
