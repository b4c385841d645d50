// Package apperr defines the error kinds surfaced by service operations.
// Lower layers wrap their own errors with fmt.Errorf; the service boundary
// converts them into *Error so the API can render a stable kind and message.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is a stable error category.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConnection
	KindNetwork
	KindSubmission
	KindTransactionFailed
	KindInconsistentResult
	KindInvalidSeed
	KindFunding
	KindNotFound
	KindUnknownOutcome
)

var kindNames = map[Kind]string{
	KindInternal:           "INTERNAL_ERROR",
	KindValidation:         "VALIDATION_ERROR",
	KindConnection:         "CONNECTION_ERROR",
	KindNetwork:            "NETWORK_ERROR",
	KindSubmission:         "SUBMISSION_ERROR",
	KindTransactionFailed:  "TRANSACTION_FAILED",
	KindInconsistentResult: "INCONSISTENT_RESULT",
	KindInvalidSeed:        "INVALID_SEED",
	KindFunding:            "FUNDING_ERROR",
	KindNotFound:           "NOT_FOUND",
	KindUnknownOutcome:     "UNKNOWN_OUTCOME",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// Error carries a kind plus enough context for the caller to act on it.
// Code is the ledger result code for TransactionFailed. Hash is set whenever
// a transaction reached the network, so an Unknown outcome can be followed up.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Code    string
	Hash    string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Code)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error of the same kind, so errors.Is(err, &Error{Kind: k})
// works as a kind check.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Cause: cause}
}

func Validation(op, message string) *Error {
	return New(KindValidation, op, message, nil)
}

func Validationf(op, format string, args ...any) *Error {
	return New(KindValidation, op, fmt.Sprintf(format, args...), nil)
}

func Connection(op string, cause error) *Error {
	return New(KindConnection, op, "could not connect to the ledger network", cause)
}

func Network(op string, cause error) *Error {
	return New(KindNetwork, op, "ledger request failed", cause)
}

func Submission(op string, cause error) *Error {
	return New(KindSubmission, op, "transaction submission failed", cause)
}

// TransactionFailed reports a final non-success ledger result.
func TransactionFailed(op, code, hash string) *Error {
	return &Error{
		Kind:    KindTransactionFailed,
		Op:      op,
		Message: "transaction failed",
		Code:    code,
		Hash:    hash,
	}
}

func InconsistentResult(op, message, hash string) *Error {
	return &Error{Kind: KindInconsistentResult, Op: op, Message: message, Hash: hash}
}

func InvalidSeed(op string, cause error) *Error {
	return New(KindInvalidSeed, op, "invalid secret seed", cause)
}

func Funding(op string, cause error) *Error {
	return New(KindFunding, op, "test network funding failed", cause)
}

func NotFound(op, message string) *Error {
	return New(KindNotFound, op, message, nil)
}

// UnknownOutcome reports a submitted transaction whose final state could not
// be observed. It must be resolved by querying hash later, not by resubmitting.
func UnknownOutcome(op, hash string, cause error) *Error {
	return &Error{
		Kind:    KindUnknownOutcome,
		Op:      op,
		Message: "transaction outcome unknown, query the hash later",
		Hash:    hash,
		Cause:   cause,
	}
}

func Internal(op string, cause error) *Error {
	return New(KindInternal, op, "internal error", cause)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As is a shorthand for errors.As on *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
