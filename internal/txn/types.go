// Package txn builds, signs and submits ledger transactions and reports
// their final outcome.
package txn

import (
	"github.com/Peersyst/xrpl-go/xrpl/transaction"

	"github.com/LeJamon/campuspay/internal/ledger"
	"github.com/LeJamon/campuspay/internal/xrpamount"
)

// ResultSuccess is the only engine result that counts as success.
const ResultSuccess = "tesSUCCESS"

// Signer is an identity able to sign for its account.
type Signer interface {
	Address() string
	Sign(tx transaction.FlatTransaction) (blob string, hash string, err error)
}

// PaymentIntent is a request to send XRP. Amount is a decimal XRP string.
// An empty Memo adds no memo to the transaction.
type PaymentIntent struct {
	Signer      Signer
	Destination string
	Amount      string
	Memo        string
}

// MintIntent is a request to mint a transferable NFT for Recipient.
// Metadata is marshalled to JSON and stored hex-encoded in the URI field.
type MintIntent struct {
	Signer    Signer
	Recipient string
	Metadata  any
	Taxon     uint32
}

// Outcome is the final state of a submitted transaction.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSuccess
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Classify maps an engine result code to an outcome.
func Classify(code string) Outcome {
	switch code {
	case "":
		return OutcomeUnknown
	case ResultSuccess:
		return OutcomeSuccess
	default:
		return OutcomeFailed
	}
}

// Result describes a submitted transaction. Hash is always set once the
// transaction was signed. Tx holds the validated record when one was seen.
type Result struct {
	Outcome     Outcome
	Code        string
	Hash        string
	Account     string
	LedgerIndex uint32
	Fee         xrpamount.XRPAmount
	Amount      xrpamount.XRPAmount
	NFTokenID   string
	Tx          *ledger.TxResponse
}
