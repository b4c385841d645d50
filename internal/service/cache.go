package service

import (
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/LeJamon/campuspay/internal/ledger"
)

// TxCache keeps recently read validated transactions. A validated
// transaction never changes, so entries need no expiry.
type TxCache struct {
	byHash *lru.Cache[string, *ledger.TxResponse]

	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewTxCache(size int) (*TxCache, error) {
	if size <= 0 {
		size = 512
	}
	c, err := lru.New[string, *ledger.TxResponse](size)
	if err != nil {
		return nil, err
	}
	return &TxCache{byHash: c}, nil
}

func (c *TxCache) Get(hash string) (*ledger.TxResponse, bool) {
	tx, ok := c.byHash.Get(strings.ToUpper(hash))
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return tx, ok
}

// Put stores tx if it is validated; anything else may still change.
func (c *TxCache) Put(tx *ledger.TxResponse) {
	if tx == nil || !tx.Validated || tx.Hash == "" {
		return
	}
	c.byHash.Add(strings.ToUpper(tx.Hash), tx)
}

// Stats returns hit and miss counts since creation.
func (c *TxCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
