// Package receipts keeps a durable log of transactions submitted by the
// service so they can be listed per account without querying the ledger.
package receipts

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound       = errors.New("receipt not found")
	ErrClosed         = errors.New("receipt store is closed")
	ErrInvalidReceipt = errors.New("invalid receipt")
)

type Kind string

const (
	KindPayment Kind = "payment"
	KindTuition Kind = "tuition"
	KindMint    Kind = "mint"
)

// Receipt records one submission. Raw is the normalized result JSON; stores
// compress it at rest.
type Receipt struct {
	Hash         string    `json:"hash"`
	Kind         Kind      `json:"kind"`
	Account      string    `json:"account"`
	Counterparty string    `json:"counterparty,omitempty"`
	AmountDrops  int64     `json:"amountDrops"`
	Outcome      string    `json:"outcome"`
	Code         string    `json:"code,omitempty"`
	LedgerIndex  uint32    `json:"ledgerIndex,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Raw          []byte    `json:"-"`
}

func (r *Receipt) validate() error {
	switch {
	case r == nil:
		return fmt.Errorf("%w: nil", ErrInvalidReceipt)
	case r.Hash == "":
		return fmt.Errorf("%w: empty hash", ErrInvalidReceipt)
	case r.Account == "":
		return fmt.Errorf("%w: empty account", ErrInvalidReceipt)
	}
	switch r.Kind {
	case KindPayment, KindTuition, KindMint:
		return nil
	default:
		return fmt.Errorf("%w: kind %q", ErrInvalidReceipt, r.Kind)
	}
}

// Store persists receipts. Put replaces a receipt with the same hash.
// ListByAccount returns receipts where the account is either party, newest
// first; limit <= 0 means no limit.
type Store interface {
	Put(ctx context.Context, r *Receipt) error
	Get(ctx context.Context, hash string) (*Receipt, error)
	ListByAccount(ctx context.Context, account string, limit int) ([]*Receipt, error)
	Close() error
}
