package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LeJamon/campuspay/internal/config"
	"github.com/LeJamon/campuspay/internal/di"
	"github.com/LeJamon/campuspay/internal/logging"
)

var (
	// Global flags
	configFile string
	logLevel   string
	logFormat  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "campuspay",
	Short: "campuspay - campus payments and student IDs on the XRP Ledger",
	Long: `campuspay sends XRP payments and tuition payments to registered universities,
issues student ID NFTs and reports on ledger transactions. Run "campuspay server"
for the HTTP API, or use the subcommands directly against the ledger.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path (default ./"+config.DefaultConfigFile+" when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log.format (json or console)")
}

// runtime is what a command needs: configuration, a logger and the wired
// components.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	provider *di.Provider
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	p := di.NewProvider(di.New(), cfg, logger)
	p.RegisterAll()
	return &runtime{cfg: cfg, logger: logger, provider: p}, nil
}

func (r *runtime) close() {
	if err := r.provider.Close(); err != nil {
		r.logger.Warn("shutdown incomplete", zap.Error(err))
	}
	_ = r.logger.Sync()
}

// withRuntime builds a runtime, runs fn and tears the runtime down.
func withRuntime(cmd *cobra.Command, fn func(ctx context.Context, rt *runtime) error) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()
	return fn(cmd.Context(), rt)
}
