// Package normalize turns raw ledger records into stable response DTOs.
package normalize

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrInvalidHex  = errors.New("invalid hex")
	ErrInvalidUTF8 = errors.New("decoded bytes are not UTF-8")
	ErrInvalidJSON = errors.New("invalid JSON")
)

// DecodeHex decodes a hex field into UTF-8 text.
func DecodeHex(s string) (string, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// DecodeJSON parses text as a single JSON value.
func DecodeJSON(s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidJSON)
	}
	return v, nil
}

// PayloadKind tells how far a hex payload could be decoded.
type PayloadKind int

const (
	// PayloadRaw: the hex stage failed; Raw holds the input.
	PayloadRaw PayloadKind = iota
	// PayloadText: hex decoded but the text is not JSON.
	PayloadText
	// PayloadJSON: both stages succeeded.
	PayloadJSON
)

// Payload is the result of DecodePayload. Decoding never fails; it stops at
// the last stage that succeeded.
type Payload struct {
	Kind  PayloadKind
	Raw   string
	Text  string
	Value any
}

func DecodePayload(hexStr string) Payload {
	p := Payload{Kind: PayloadRaw, Raw: hexStr}
	text, err := DecodeHex(hexStr)
	if err != nil {
		return p
	}
	p.Kind, p.Text = PayloadText, text
	v, err := DecodeJSON(text)
	if err != nil {
		return p
	}
	p.Kind, p.Value = PayloadJSON, v
	return p
}

// Memo renders the payload the way memos are reported: the JSON value, else
// the text, else {"raw": hex}.
func (p Payload) Memo() any {
	switch p.Kind {
	case PayloadJSON:
		return p.Value
	case PayloadText:
		return p.Text
	default:
		return map[string]any{"raw": p.Raw}
	}
}

// Metadata renders the payload the way NFT metadata is reported: the JSON
// value, else {"raw": text}, else {"raw": hex}.
func (p Payload) Metadata() any {
	switch p.Kind {
	case PayloadJSON:
		return p.Value
	case PayloadText:
		return map[string]any{"raw": p.Text}
	default:
		return map[string]any{"raw": p.Raw}
	}
}

func (p Payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Memo())
}
