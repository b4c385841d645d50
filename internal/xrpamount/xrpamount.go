package xrpamount

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type XRPAmount int64

const DropsPerXRP XRPAmount = 1_000_000

// MaxDrops is the total XRP supply expressed in drops.
const MaxDrops XRPAmount = 100_000_000_000 * DropsPerXRP

const decimals = 6

var (
	ErrInvalidAmount = errors.New("invalid XRP amount")
	ErrTooPrecise    = errors.New("XRP amount has more than 6 decimal places")
	ErrOutOfRange    = errors.New("XRP amount exceeds total supply")
)

// FromDecimalXRP parses a non-negative decimal XRP string ("10", "0.5",
// "12.000001") into drops without going through floating point.
func FromDecimalXRP(s string) (XRPAmount, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	if s == "" || s == "." {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if !allDigits(whole) || !allDigits(frac) || (whole == "" && frac == "") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	if len(frac) > decimals {
		if strings.Trim(frac[decimals:], "0") != "" {
			return 0, fmt.Errorf("%w: %q", ErrTooPrecise, s)
		}
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", decimals-len(frac))

	whole = strings.TrimLeft(whole, "0")
	if len(whole) > 12 {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, s)
	}

	drops, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if XRPAmount(drops) > MaxDrops {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, s)
	}
	return XRPAmount(drops), nil
}

// ParseDrops parses an integer drops string as returned by the ledger.
func ParseDrops(s string) (XRPAmount, error) {
	drops, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: drops %q", ErrInvalidAmount, s)
	}
	return XRPAmount(drops), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (x XRPAmount) Drops() int64 {
	return int64(x)
}

// DecimalXRP renders the amount in XRP with trailing fractional zeros removed.
func (x XRPAmount) DecimalXRP() string {
	sign := ""
	v := int64(x)
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := v / int64(DropsPerXRP)
	frac := v % int64(DropsPerXRP)
	if frac == 0 {
		return sign + strconv.FormatInt(whole, 10)
	}
	fs := strings.TrimRight(fmt.Sprintf("%06d", frac), "0")
	return sign + strconv.FormatInt(whole, 10) + "." + fs
}

func (x XRPAmount) Min(other XRPAmount) XRPAmount {
	if other < x {
		return other
	}
	return x
}

func (x XRPAmount) IsPositive() bool {
	return x > 0
}

// String returns the amount in drops, the ledger's wire representation.
func (x XRPAmount) String() string {
	return strconv.FormatInt(int64(x), 10)
}
