package ledger

import (
	"errors"
	"fmt"

	"github.com/LeJamon/campuspay/internal/apperr"
)

// rippled error tokens the service reacts to.
const (
	ErrActNotFound = "actNotFound"
	ErrTxnNotFound = "txnNotFound"
	ErrLgrNotFound = "lgrNotFound"
	ErrObjNotFound = "objectNotFound"
	ErrNotSynced   = "noNetwork"
	ErrUnknownCmd  = "unknownCmd"
)

// rippled numeric error codes for the tokens above.
const (
	CodeLgrNotFound = 15
	CodeActNotFound = 19
	CodeTxnNotFound = 24
	CodeUnknownCmd  = 32
)

// RPCError is an error response returned by the ledger server.
type RPCError struct {
	Code    int    `json:"error_code"`
	Err     string `json:"error"`
	Message string `json:"error_message,omitempty"`
	Command string `json:"-"`
}

func (e *RPCError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Err
	}
	if e.Command != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Command, msg, e.Err)
	}
	return fmt.Sprintf("%s (%s)", msg, e.Err)
}

// IsNotFound reports whether the server said the requested object does not exist.
func (e *RPCError) IsNotFound() bool {
	switch e.Err {
	case ErrActNotFound, ErrTxnNotFound, ErrLgrNotFound, ErrObjNotFound:
		return true
	}
	return false
}

// ConnectionError means no session could be established.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NetworkError means a request was sent (or attempted) on an established
// session but no response was obtained.
type NetworkError struct {
	Command string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

var (
	ErrClosed   = errors.New("ledger connection closed")
	ErrReleased = errors.New("ledger manager released")
)

// IsRPCError reports whether err carries an RPCError with the given token.
func IsRPCError(err error, token string) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Err == token
}

// IsTransient reports whether err is a transport problem worth one retry.
func IsTransient(err error) bool {
	var connErr *ConnectionError
	var netErr *NetworkError
	return errors.As(err, &connErr) || errors.As(err, &netErr)
}

// AppError converts a ledger-layer error into the service error taxonomy.
// Errors that already carry an apperr kind pass through.
func AppError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}

	var connErr *ConnectionError
	var netErr *NetworkError
	var rpcErr *RPCError
	switch {
	case errors.As(err, &connErr):
		return apperr.Connection(op, err)
	case errors.As(err, &netErr):
		return apperr.Network(op, err)
	case errors.As(err, &rpcErr):
		if rpcErr.IsNotFound() {
			e := apperr.NotFound(op, rpcErr.Message)
			if e.Message == "" {
				e.Message = rpcErr.Err
			}
			e.Code = rpcErr.Err
			return e
		}
		e := apperr.Network(op, err)
		e.Code = rpcErr.Err
		return e
	default:
		return apperr.Internal(op, err)
	}
}
