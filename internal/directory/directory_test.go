package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory(t *testing.T) {
	d, err := New(map[string]string{
		"Yonsei University":           "rDsbeomae4FXwgQTJp9Rs64Qg9vDiTCdBv",
		" Seoul National University ": "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh",
	})
	require.NoError(t, err)

	addr, ok := d.Lookup("Seoul National University")
	assert.True(t, ok)
	assert.Equal(t, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", addr)

	_, ok = d.Lookup("Unknown University")
	assert.False(t, ok)

	entries := d.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Seoul National University", entries[0].Name)
	assert.Equal(t, "Yonsei University", entries[1].Name)
	entries[0].Name = "mutated"
	assert.Equal(t, "Seoul National University", d.Entries()[0].Name)
}

func TestDirectoryRejectsBadEntries(t *testing.T) {
	_, err := New(map[string]string{"Bad": "rNotAnAddress"})
	assert.Error(t, err)

	_, err = New(map[string]string{"  ": "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"})
	assert.Error(t, err)

	_, err = New(map[string]string{
		"A":  "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh",
		"A ": "rDsbeomae4FXwgQTJp9Rs64Qg9vDiTCdBv",
	})
	assert.Error(t, err)
}
