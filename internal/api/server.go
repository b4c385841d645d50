// Package api exposes the campus payment operations as a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/LeJamon/campuspay/internal/directory"
	"github.com/LeJamon/campuspay/internal/normalize"
	"github.com/LeJamon/campuspay/internal/service"
)

// Service is the operation set the API dispatches to.
type Service interface {
	CreateWallet(ctx context.Context) (*service.WalletInfo, error)
	RecoverWallet(seed string) (*service.WalletInfo, error)
	Balance(ctx context.Context, address string) (string, error)
	SendPayment(ctx context.Context, req service.PaymentRequest) (*service.PaymentReceipt, error)
	ProcessTuitionPayment(ctx context.Context, req service.TuitionRequest) (*service.PaymentReceipt, error)
	MintStudentID(ctx context.Context, req service.MintRequest) (*service.MintReceipt, error)
	AccountNFTs(ctx context.Context, address string) ([]normalize.NFT, error)
	NFTInfo(ctx context.Context, nftID string) (*normalize.NFT, error)
	GetTransaction(ctx context.Context, hash string) (*normalize.Transaction, error)
	CheckPaymentStatus(ctx context.Context, hash string) (*service.PaymentStatus, error)
	AccountTransactions(ctx context.Context, address string, q service.HistoryQuery) (*service.TransactionPage, error)
	Receipts(ctx context.Context, address string, limit int) ([]service.ReceiptView, error)
	Universities() []directory.Entry
}

// LedgerStatus reports whether the ledger session is up.
type LedgerStatus interface {
	Connected() bool
}

type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Server struct {
	svc     Service
	ledger  LedgerStatus
	opts    Options
	logger  *zap.Logger
	handler http.Handler
}

func NewServer(svc Service, ledger LedgerStatus, opts Options, logger *zap.Logger) *Server {
	s := &Server{
		svc:    svc,
		ledger: ledger,
		opts:   opts,
		logger: logger.Named("api"),
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/wallet/create", s.handleCreateWallet).Methods(http.MethodPost)
	r.HandleFunc("/api/wallet/recover", s.handleRecoverWallet).Methods(http.MethodPost)
	r.HandleFunc("/api/wallet/{address}/balance", s.handleBalance).Methods(http.MethodGet)

	r.HandleFunc("/api/payment/send", s.handleSendPayment).Methods(http.MethodPost)
	r.HandleFunc("/api/payment/tuition", s.handleTuition).Methods(http.MethodPost)

	r.HandleFunc("/api/nft/mint", s.handleMint).Methods(http.MethodPost)
	r.HandleFunc("/api/nft/account/{address}", s.handleAccountNFTs).Methods(http.MethodGet)
	r.HandleFunc("/api/nft/{id}", s.handleNFTInfo).Methods(http.MethodGet)

	r.HandleFunc("/api/transaction/{hash}", s.handleTransaction).Methods(http.MethodGet)
	r.HandleFunc("/api/transaction/{hash}/status", s.handlePaymentStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/account/{address}/transactions", s.handleAccountTransactions).Methods(http.MethodGet)
	r.HandleFunc("/api/receipts/{address}", s.handleReceipts).Methods(http.MethodGet)
	r.HandleFunc("/api/universities", s.handleUniversities).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.writeJSON(w, req, http.StatusMethodNotAllowed, envelope{Message: "method not allowed"})
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.writeJSON(w, req, http.StatusNotFound, envelope{Message: "route not found", Code: "NOT_FOUND"})
	})

	return withRequestID(withCORS(s.withLogging(s.withRecovery(r))))
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}
