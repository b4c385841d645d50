package xrpamount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDecimalXRP(t *testing.T) {
	tests := []struct {
		in   string
		want XRPAmount
	}{
		{"10", 10_000_000},
		{"0.5", 500_000},
		{"0.000001", 1},
		{"12.3456789000", 12_345_678},
		{".25", 250_000},
		{"7.", 7_000_000},
		{"+3", 3_000_000},
		{"000100", 100_000_000},
		{"100000000000", MaxDrops},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := FromDecimalXRP(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromDecimalXRPRejects(t *testing.T) {
	tests := []struct {
		in  string
		err error
	}{
		{"", ErrInvalidAmount},
		{"abc", ErrInvalidAmount},
		{"-1", ErrInvalidAmount},
		{"1e6", ErrInvalidAmount},
		{"1.2.3", ErrInvalidAmount},
		{"0.0000001", ErrTooPrecise},
		{"100000000000.000001", ErrOutOfRange},
		{"9999999999999", ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := FromDecimalXRP(tt.in)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDropsRoundTrip(t *testing.T) {
	for _, s := range []string{"10", "0.5", "1.000001", "0", "99999.999999"} {
		amt, err := FromDecimalXRP(s)
		require.NoError(t, err)
		assert.Equal(t, s, amt.DecimalXRP())
	}
}

func TestParseDrops(t *testing.T) {
	amt, err := ParseDrops("12")
	require.NoError(t, err)
	assert.Equal(t, "0.000012", amt.DecimalXRP())
	assert.Equal(t, "12", amt.String())

	_, err = ParseDrops("1.5")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMinAndSign(t *testing.T) {
	a, b := XRPAmount(15), XRPAmount(10)
	assert.Equal(t, b, a.Min(b))
	assert.Equal(t, b, b.Min(a))
	assert.True(t, a.IsPositive())
	assert.False(t, XRPAmount(0).IsPositive())
	assert.Equal(t, "-0.00001", XRPAmount(-10).DecimalXRP())
}
