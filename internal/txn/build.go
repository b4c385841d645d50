package txn

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Peersyst/xrpl-go/xrpl/transaction"
	"github.com/Peersyst/xrpl-go/xrpl/transaction/types"

	"github.com/LeJamon/campuspay/internal/apperr"
	"github.com/LeJamon/campuspay/internal/wallet"
	"github.com/LeJamon/campuspay/internal/xrpamount"
)

const (
	// TfTransferable lets the NFT be transferred to third parties.
	TfTransferable uint32 = 0x00000008

	// MaxURILength is the ledger limit on the decoded URI field.
	MaxURILength = 256
)

// EncodeHex returns the upper-case hex form the ledger uses for blobs.
func EncodeHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// ParseAmount validates a decimal XRP amount and returns it in drops.
func ParseAmount(op, amount string) (xrpamount.XRPAmount, error) {
	drops, err := xrpamount.FromDecimalXRP(amount)
	if err != nil {
		return 0, apperr.Validationf(op, "invalid amount %q: %v", amount, err)
	}
	if !drops.IsPositive() {
		return 0, apperr.Validationf(op, "amount must be greater than zero")
	}
	return drops, nil
}

// CheckAddress validates a classic address field.
func CheckAddress(op, field, address string) error {
	if err := wallet.ValidateAddress(address); err != nil {
		return apperr.Validationf(op, "%s: %v", field, err)
	}
	return nil
}

// BuildPayment returns the unsigned Payment for intent sent from account.
func BuildPayment(account string, intent PaymentIntent) (transaction.FlatTransaction, xrpamount.XRPAmount, error) {
	const op = "txn.payment"

	if err := CheckAddress(op, "destination", intent.Destination); err != nil {
		return nil, 0, err
	}
	drops, err := ParseAmount(op, intent.Amount)
	if err != nil {
		return nil, 0, err
	}

	payment := transaction.Payment{
		BaseTx: transaction.BaseTx{
			Account: types.Address(account),
			Memos:   memos(intent.Memo),
		},
		Destination: types.Address(intent.Destination),
		Amount:      types.XRPCurrencyAmount(uint64(drops)),
	}
	return payment.Flatten(), drops, nil
}

// BuildMint returns the unsigned NFTokenMint for intent issued by account.
func BuildMint(account string, intent MintIntent) (transaction.FlatTransaction, error) {
	const op = "txn.mint"

	if err := CheckAddress(op, "recipient", intent.Recipient); err != nil {
		return nil, err
	}
	meta, err := json.Marshal(intent.Metadata)
	if err != nil {
		return nil, apperr.Validationf(op, "metadata is not JSON encodable: %v", err)
	}
	if len(meta) > MaxURILength {
		return nil, apperr.Validationf(op, "metadata is %d bytes, the URI field holds at most %d", len(meta), MaxURILength)
	}

	base := transaction.BaseTx{
		Account: types.Address(account),
		Flags:   TfTransferable,
	}
	tx := base.Flatten()
	tx["TransactionType"] = "NFTokenMint"
	tx["Flags"] = TfTransferable
	tx["NFTokenTaxon"] = intent.Taxon
	// The binary codec reads UInt16 fields as int.
	tx["TransferFee"] = 0
	tx["URI"] = EncodeHex(meta)
	tx["Destination"] = intent.Recipient
	return tx, nil
}

func memos(text string) []types.MemoWrapper {
	if text == "" {
		return nil
	}
	return []types.MemoWrapper{{
		Memo: types.Memo{MemoData: EncodeHex([]byte(text))},
	}}
}
