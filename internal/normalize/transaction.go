package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Peersyst/xrpl-go/xrpl/transaction"

	"github.com/LeJamon/campuspay/internal/ledger"
	"github.com/LeJamon/campuspay/internal/xrpamount"
)

var ErrMissingField = errors.New("missing required field")

// Amount is either an XRP amount (decimal XRP) or an issued-currency amount.
type Amount struct {
	XRP      string
	Currency string
	Issuer   string
	Value    string
}

func (a Amount) IsXRP() bool { return a.Currency == "" }

func (a Amount) MarshalJSON() ([]byte, error) {
	if a.IsXRP() {
		return json.Marshal(a.XRP)
	}
	return json.Marshal(map[string]string{
		"currency": a.Currency,
		"issuer":   a.Issuer,
		"value":    a.Value,
	})
}

// Details is the type-specific part of a Transaction: one of *PaymentDetails,
// *MintDetails or *OtherDetails.
type Details interface {
	fields() map[string]any
}

type PaymentDetails struct {
	Destination     string
	Amount          *Amount
	DeliveredAmount *Amount
}

func (d *PaymentDetails) fields() map[string]any {
	m := map[string]any{"destination": d.Destination}
	if d.Amount != nil {
		m["amount"] = d.Amount
	}
	if d.DeliveredAmount != nil {
		m["deliveredAmount"] = d.DeliveredAmount
	}
	return m
}

// MintDetails describes an NFTokenMint. URI stays hex; Metadata holds the
// decoded form.
type MintDetails struct {
	Taxon       uint32
	TransferFee uint16
	Flags       uint32
	URI         string
	Metadata    *Payload
}

func (d *MintDetails) fields() map[string]any {
	m := map[string]any{
		"taxon":       d.Taxon,
		"transferFee": d.TransferFee,
		"flags":       d.Flags,
	}
	if d.URI != "" {
		m["uri"] = d.URI
	}
	if d.Metadata != nil {
		switch d.Metadata.Kind {
		case PayloadJSON:
			m["metadata"] = d.Metadata.Value
		case PayloadText:
			m["decodedUri"] = d.Metadata.Text
		case PayloadRaw:
			m["metadata"] = d.Metadata.Metadata()
		}
	}
	return m
}

type OtherDetails struct{}

func (*OtherDetails) fields() map[string]any { return nil }

// Transaction is the normalized view of a ledger transaction.
type Transaction struct {
	Hash        string
	Type        string
	Account     string
	Date        string
	Fee         string
	LedgerIndex uint32
	Status      string
	Validated   bool
	Memos       []Payload
	Details     Details
}

func (t *Transaction) Payment() (*PaymentDetails, bool) {
	d, ok := t.Details.(*PaymentDetails)
	return d, ok
}

func (t *Transaction) Mint() (*MintDetails, bool) {
	d, ok := t.Details.(*MintDetails)
	return d, ok
}

func (t *Transaction) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"hash":        t.Hash,
		"type":        t.Type,
		"account":     t.Account,
		"fee":         t.Fee,
		"ledgerIndex": t.LedgerIndex,
		"status":      t.Status,
		"validated":   t.Validated,
	}
	if t.Date != "" {
		m["date"] = t.Date
	}
	if len(t.Memos) > 0 {
		memos := make([]any, len(t.Memos))
		for i, p := range t.Memos {
			memos[i] = p.Memo()
		}
		m["memos"] = memos
	}
	if t.Details != nil {
		for k, v := range t.Details.fields() {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

// FromRecord normalizes a transaction record: the transaction fields with
// hash, ledger_index, date, validated and meta alongside.
func FromRecord(record transaction.FlatTransaction) (*Transaction, error) {
	hash, _ := record["hash"].(string)
	txType, _ := record["TransactionType"].(string)
	account, _ := record["Account"].(string)
	switch {
	case hash == "":
		return nil, fmt.Errorf("%w: hash", ErrMissingField)
	case txType == "":
		return nil, fmt.Errorf("%w: TransactionType", ErrMissingField)
	case account == "":
		return nil, fmt.Errorf("%w: Account", ErrMissingField)
	}

	t := &Transaction{
		Hash:    hash,
		Type:    txType,
		Account: account,
	}
	if d, ok := uint32Of(record["date"]); ok {
		t.Date = RippleTimeToISO(d)
	}
	if fee, ok := record["Fee"].(string); ok {
		if drops, err := xrpamount.ParseDrops(fee); err == nil {
			t.Fee = drops.DecimalXRP()
		}
	}
	t.LedgerIndex, _ = uint32Of(record["ledger_index"])
	t.Validated, _ = record["validated"].(bool)

	meta, _ := record["meta"].(map[string]any)
	if meta != nil {
		t.Status, _ = meta["TransactionResult"].(string)
	}
	t.Memos = memosOf(record["Memos"])

	switch txType {
	case "Payment":
		d := &PaymentDetails{}
		d.Destination, _ = record["Destination"].(string)
		d.Amount = amountOf(record["Amount"])
		if meta != nil {
			d.DeliveredAmount = amountOf(meta["delivered_amount"])
			if d.DeliveredAmount == nil {
				d.DeliveredAmount = amountOf(meta["DeliveredAmount"])
			}
		}
		t.Details = d
	case "NFTokenMint":
		d := &MintDetails{}
		d.Taxon, _ = uint32Of(record["NFTokenTaxon"])
		fee, _ := uint32Of(record["TransferFee"])
		d.TransferFee = uint16(fee)
		d.Flags, _ = uint32Of(record["Flags"])
		d.URI, _ = record["URI"].(string)
		if d.URI != "" {
			p := DecodePayload(d.URI)
			d.Metadata = &p
		}
		t.Details = d
	default:
		t.Details = &OtherDetails{}
	}
	return t, nil
}

// FromTx normalizes a tx command response.
func FromTx(tx *ledger.TxResponse) (*Transaction, error) {
	if tx == nil {
		return nil, fmt.Errorf("%w: transaction", ErrMissingField)
	}
	record, err := decodeRecord(tx.Raw)
	if err != nil {
		return nil, err
	}
	return FromRecord(record)
}

// FromAccountTx normalizes one account_tx entry by merging its meta and
// validated flag into the transaction fields.
func FromAccountTx(entry ledger.AccountTxEntry) (*Transaction, error) {
	record, err := decodeRecord(entry.Tx)
	if err != nil {
		return nil, err
	}
	if len(entry.Meta) > 0 && !bytes.Equal(entry.Meta, []byte("null")) {
		meta, err := decodeRecord(entry.Meta)
		if err == nil {
			record["meta"] = map[string]any(meta)
		}
	}
	record["validated"] = entry.Validated
	return FromRecord(record)
}

func decodeRecord(raw json.RawMessage) (transaction.FlatTransaction, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: transaction", ErrMissingField)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: transaction", ErrMissingField)
	}
	return transaction.FlatTransaction(m), nil
}

func memosOf(v any) []Payload {
	list, _ := v.([]any)
	var out []Payload
	for _, item := range list {
		wrapper, _ := item.(map[string]any)
		memo, _ := wrapper["Memo"].(map[string]any)
		data, ok := memo["MemoData"].(string)
		if !ok {
			continue
		}
		out = append(out, DecodePayload(data))
	}
	return out
}

func amountOf(v any) *Amount {
	switch a := v.(type) {
	case string:
		drops, err := xrpamount.ParseDrops(a)
		if err != nil {
			return nil
		}
		return &Amount{XRP: drops.DecimalXRP()}
	case map[string]any:
		currency, _ := a["currency"].(string)
		if currency == "" {
			return nil
		}
		issuer, _ := a["issuer"].(string)
		value, _ := a["value"].(string)
		return &Amount{Currency: currency, Issuer: issuer, Value: value}
	default:
		return nil
	}
}

func uint32Of(v any) (uint32, bool) {
	var n uint64
	var err error
	switch x := v.(type) {
	case json.Number:
		n, err = strconv.ParseUint(x.String(), 10, 32)
	case float64:
		if x < 0 || x > float64(^uint32(0)) || x != float64(uint64(x)) {
			return 0, false
		}
		n = uint64(x)
	case uint32:
		return x, true
	case int:
		if x < 0 || uint64(x) > uint64(^uint32(0)) {
			return 0, false
		}
		n = uint64(x)
	case string:
		n, err = strconv.ParseUint(x, 10, 32)
	default:
		return 0, false
	}
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}
