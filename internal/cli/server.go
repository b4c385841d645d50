package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/campuspay/internal/grpc"
)

var (
	// Server flags
	httpAddr string
	grpcAddr string
	noGRPC   bool
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the campuspay HTTP API",
	Long: `Start campuspay, which provides:
- the HTTP JSON API under /api
- a health check endpoint at /health
- the gRPC health service, unless disabled
and keeps the ledger connection alive until interrupted.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVar(&httpAddr, "addr", "", "override server.addr")
	serverCmd.Flags().StringVar(&grpcAddr, "grpc-addr", "", "override grpc.addr")
	serverCmd.Flags().BoolVar(&noGRPC, "no-grpc", false, "do not start the gRPC health service")
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if httpAddr != "" {
		rt.cfg.Server.Addr = httpAddr
	}
	if grpcAddr != "" {
		rt.cfg.GRPC.Addr = grpcAddr
	}

	mgr, err := rt.provider.LedgerManager()
	if err != nil {
		return err
	}
	httpServer, err := rt.provider.HTTPServer()
	if err != nil {
		return err
	}

	rt.logger.Info("starting campuspay",
		zap.String("version", version),
		zap.String("ledger", mgr.URL()),
		zap.String("addr", rt.cfg.Server.Addr),
		zap.String("storage", rt.cfg.Storage.Backend))

	var grpcServer *grpc.Server
	if rt.cfg.GRPC.Enabled && !noGRPC {
		if grpcServer, err = rt.provider.GRPCServer(); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return mgr.Supervise(gctx) })
	g.Go(func() error { return httpServer.Run(gctx) })
	if grpcServer != nil {
		g.Go(func() error { return grpcServer.Run(gctx) })
	}
	return g.Wait()
}
