package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/campuspay/internal/apperr"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "t"}
	addSeedFlag(cmd)
	return cmd
}

func TestReadSeedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed")
	require.NoError(t, os.WriteFile(path, []byte("  sEdSecret \n"), 0o600))

	cmd := seedCmd()
	require.NoError(t, cmd.Flags().Set("seed-file", path))
	seed, err := readSeed(cmd)
	require.NoError(t, err)
	assert.Equal(t, "sEdSecret", seed)
}

func TestReadSeedFromEnv(t *testing.T) {
	t.Setenv(seedEnv, "sEdFromEnv")
	seed, err := readSeed(seedCmd())
	require.NoError(t, err)
	assert.Equal(t, "sEdFromEnv", seed)
}

func TestReadSeedMissing(t *testing.T) {
	t.Setenv(seedEnv, "")
	_, err := readSeed(seedCmd())
	assert.ErrorContains(t, err, seedEnv)

	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	cmd := seedCmd()
	require.NoError(t, cmd.Flags().Set("seed-file", path))
	_, err = readSeed(cmd)
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	err := describe(apperr.UnknownOutcome("txn.pay", "ABCD", context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "UNKNOWN_OUTCOME")
	assert.Contains(t, err.Error(), "hash ABCD")
	assert.Equal(t, apperr.KindUnknownOutcome, apperr.KindOf(err))

	err = describe(apperr.Validation("op", "bad amount"))
	assert.True(t, strings.HasPrefix(err.Error(), "VALIDATION_ERROR: "))

	plain := context.Canceled
	assert.Same(t, plain, describe(plain))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]string{"address": "r1"}))
	assert.Equal(t, "{\n  \"address\": \"r1\"\n}\n", buf.String())
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"server"},
		{"version"},
		{"wallet", "create"},
		{"wallet", "recover"},
		{"wallet", "balance"},
		{"pay", "send"},
		{"pay", "tuition"},
		{"pay", "status"},
		{"pay", "universities"},
		{"nft", "mint"},
		{"nft", "list"},
		{"nft", "info"},
		{"tx", "get"},
		{"tx", "history"},
		{"receipts"},
	} {
		cmd, rest, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Empty(t, rest, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestSeedIsNeverAFlagValue(t *testing.T) {
	for _, cmd := range []*cobra.Command{walletRecoverCmd, paySendCmd, payTuitionCmd} {
		assert.Nil(t, cmd.Flags().Lookup("seed"), cmd.Name())
		assert.NotNil(t, cmd.Flags().Lookup("seed-file"), cmd.Name())
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "campuspay version "+version)
	assert.Contains(t, buf.String(), "Go version:")
}
