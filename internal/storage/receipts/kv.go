package receipts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
)

// backend is the minimal ordered key-value surface the receipt log needs.
type backend interface {
	get(key []byte) ([]byte, error)
	// apply writes puts and deletes atomically.
	apply(puts map[string][]byte, deletes []string) error
	// scan visits keys with prefix in ascending order until fn returns false.
	scan(prefix []byte, fn func(key, value []byte) bool) error
	close() error
}

var errKeyNotFound = errors.New("key not found")

const (
	receiptPrefix = "r/"
	accountPrefix = "a/"
)

func receiptKey(hash string) []byte {
	return []byte(receiptPrefix + strings.ToUpper(hash))
}

// accountKey sorts newest first within an account.
func accountKey(account string, r *Receipt) string {
	inv := uint64(math.MaxInt64 - r.CreatedAt.UnixNano())
	return fmt.Sprintf("%s%s/%016x/%s", accountPrefix, account, inv, strings.ToUpper(r.Hash))
}

func indexKeys(r *Receipt) []string {
	keys := []string{accountKey(r.Account, r)}
	if r.Counterparty != "" && r.Counterparty != r.Account {
		keys = append(keys, accountKey(r.Counterparty, r))
	}
	return keys
}

// kvStore implements Store over any backend.
type kvStore struct {
	mu     sync.RWMutex
	db     backend
	closed bool
}

func newKVStore(db backend) *kvStore {
	return &kvStore{db: db}
}

func (s *kvStore) Put(ctx context.Context, r *Receipt) error {
	if err := r.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := encodeReceipt(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	key := receiptKey(r.Hash)
	var deletes []string
	if old, err := s.db.get(key); err == nil {
		prev, err := decodeReceipt(old)
		if err != nil {
			return err
		}
		deletes = indexKeys(prev)
	} else if !errors.Is(err, errKeyNotFound) {
		return err
	}

	puts := map[string][]byte{string(key): value}
	for _, k := range indexKeys(r) {
		puts[k] = []byte{}
	}
	return s.db.apply(puts, deletes)
}

func (s *kvStore) Get(ctx context.Context, hash string) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.get(hash)
}

func (s *kvStore) get(hash string) (*Receipt, error) {
	b, err := s.db.get(receiptKey(hash))
	if errors.Is(err, errKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeReceipt(b)
}

func (s *kvStore) ListByAccount(ctx context.Context, account string, limit int) ([]*Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var hashes []string
	prefix := []byte(accountPrefix + account + "/")
	err := s.db.scan(prefix, func(key, _ []byte) bool {
		k := string(key)
		hashes = append(hashes, k[strings.LastIndexByte(k, '/')+1:])
		return limit <= 0 || len(hashes) < limit
	})
	if err != nil {
		return nil, err
	}

	out := make([]*Receipt, 0, len(hashes))
	for _, h := range hashes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := s.get(h)
		if err != nil {
			return nil, fmt.Errorf("receipt %s: %w", h, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *kvStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.close()
}

// prefixEnd returns the smallest key greater than every key with prefix.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
