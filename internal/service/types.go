package service

import (
	"encoding/json"

	"github.com/LeJamon/campuspay/internal/normalize"
	"github.com/LeJamon/campuspay/internal/storage/receipts"
)

// WalletInfo describes an identity. Seed is only set for a wallet created by
// the call that returns it.
type WalletInfo struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
	Seed      string `json:"seed,omitempty"`
	Balance   string `json:"balance,omitempty"`
}

type PaymentRequest struct {
	SenderSeed  string `json:"senderSeed"`
	Destination string `json:"destination"`
	Amount      string `json:"amount"`
	Memo        string `json:"memo,omitempty"`
}

type TuitionDetails struct {
	StudentID string `json:"studentId"`
	Semester  string `json:"semester"`
}

type TuitionRequest struct {
	StudentSeed    string         `json:"studentSeed"`
	UniversityName string         `json:"universityName"`
	Amount         string         `json:"amount"`
	PaymentInfo    TuitionDetails `json:"paymentInfo"`
}

// TuitionInfo is echoed back with a tuition payment.
type TuitionInfo struct {
	University  string `json:"university"`
	StudentID   string `json:"studentId"`
	Semester    string `json:"semester"`
	Description string `json:"description"`
}

// tuitionMemo is the JSON memo attached to tuition payments.
type tuitionMemo struct {
	Type        string `json:"type"`
	University  string `json:"university"`
	StudentID   string `json:"studentId"`
	Semester    string `json:"semester"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

const tuitionMemoType = "tuition_payment"

// PaymentReceipt is returned for a validated successful payment.
type PaymentReceipt struct {
	Hash        string       `json:"hash"`
	Sender      string       `json:"sender"`
	Receiver    string       `json:"receiver"`
	Amount      string       `json:"amount"`
	Fee         string       `json:"fee"`
	LedgerIndex uint32       `json:"ledgerIndex"`
	Timestamp   string       `json:"timestamp"`
	PaymentInfo *TuitionInfo `json:"paymentInfo,omitempty"`
}

type StudentInfo struct {
	Name       string `json:"name"`
	School     string `json:"school"`
	StudentID  string `json:"studentId"`
	Department string `json:"department,omitempty"`
}

type MintRequest struct {
	StudentInfo     StudentInfo `json:"studentInfo"`
	ReceiverAddress string      `json:"receiverAddress"`
}

type MintReceipt struct {
	NFTID           string      `json:"nftId"`
	Issuer          string      `json:"issuer"`
	Owner           string      `json:"owner"`
	URI             string      `json:"uri"`
	StudentInfo     StudentInfo `json:"studentInfo"`
	TransactionHash string      `json:"transactionHash"`
}

const (
	StatusCompleted = "Completed"
	StatusFailed    = "Failed"
	StatusPending   = "Pending"

	PaymentTuition = "Tuition"
	PaymentGeneral = "General"
)

// PaymentStatus summarizes a Payment transaction.
type PaymentStatus struct {
	Hash            string            `json:"hash"`
	Sender          string            `json:"sender"`
	Receiver        string            `json:"receiver"`
	Amount          *normalize.Amount `json:"amount,omitempty"`
	DeliveredAmount *normalize.Amount `json:"deliveredAmount,omitempty"`
	Fee             string            `json:"fee"`
	Date            string            `json:"date,omitempty"`
	LedgerIndex     uint32            `json:"ledgerIndex,omitempty"`
	Code            string            `json:"code,omitempty"`
	Status          string            `json:"status"`
	Memo            any               `json:"memo"`
	PaymentType     string            `json:"paymentType"`
	University      string            `json:"university,omitempty"`
	StudentID       string            `json:"studentId,omitempty"`
	Semester        string            `json:"semester,omitempty"`
	Description     string            `json:"description,omitempty"`
}

// HistoryQuery pages through an account's transactions. Marker is the opaque
// token from a previous page.
type HistoryQuery struct {
	Limit   int
	Marker  string
	Forward bool
}

type TransactionPage struct {
	Transactions []*normalize.Transaction `json:"transactions"`
	Marker       string                   `json:"marker,omitempty"`
	HasMore      bool                     `json:"hasMore"`
}

// ReceiptView is a stored receipt with its recorded result.
type ReceiptView struct {
	*receipts.Receipt
	Result json.RawMessage `json:"result,omitempty"`
}
