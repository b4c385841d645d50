package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LeJamon/campuspay/internal/apperr"
)

// seedEnv is read when no --seed-file is given. Seeds are never accepted as
// plain flags, which would leave them in shell history and the process list.
const seedEnv = "CAMPUSPAY_SEED"

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readSeed returns the signing seed from the file named by the seed-file flag,
// else from CAMPUSPAY_SEED.
func readSeed(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("seed-file")
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read seed file: %w", err)
		}
		seed := strings.TrimSpace(string(data))
		if seed == "" {
			return "", fmt.Errorf("seed file %s is empty", path)
		}
		return seed, nil
	}
	if seed := strings.TrimSpace(os.Getenv(seedEnv)); seed != "" {
		return seed, nil
	}
	return "", fmt.Errorf("no seed: pass --seed-file or set %s", seedEnv)
}

func addSeedFlag(cmd *cobra.Command) {
	cmd.Flags().String("seed-file", "", "file holding the signing seed (default $"+seedEnv+")")
}

// describe adds the ledger result code and transaction hash to err so an
// unknown outcome can be followed up with "campuspay tx get".
func describe(err error) error {
	e, ok := apperr.As(err)
	if !ok {
		return err
	}
	if e.Hash != "" {
		return fmt.Errorf("%s: %w (hash %s)", e.Kind, err, e.Hash)
	}
	return fmt.Errorf("%s: %w", e.Kind, err)
}
