// Package wallet creates, recovers and inspects ledger identities.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/LeJamon/campuspay/internal/apperr"
	"github.com/LeJamon/campuspay/internal/ledger"
	"github.com/LeJamon/campuspay/internal/xrpamount"
)

// Ledger is the part of the ledger client the wallet service reads from.
type Ledger interface {
	AccountInfo(ctx context.Context, account, ledgerIndex string) (*ledger.AccountInfoResult, error)
}

// Funder credits a new account on a test network.
type Funder interface {
	Fund(ctx context.Context, address string) error
}

// Options configures faucet polling and where the NFT issuer seed comes from.
type Options struct {
	FundingTimeout time.Duration
	PollInterval   time.Duration
	IssuerSeed     string
	IssuerSeedFile string
}

// Service creates funded identities, reads balances and owns the NFT issuer.
type Service struct {
	ledger Ledger
	funder Funder
	opts   Options
	logger *zap.Logger

	issuerLoad singleflight.Group

	issuerMu sync.Mutex
	issuer   *Identity
	closed   bool
}

// NewService applies defaults to opts and returns a Service using l and f.
func NewService(l Ledger, f Funder, opts Options, logger *zap.Logger) *Service {
	if opts.FundingTimeout <= 0 {
		opts.FundingTimeout = 60 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	return &Service{
		ledger: l,
		funder: f,
		opts:   opts,
		logger: logger.Named("wallet"),
	}
}

// CreateFunded generates an identity, funds it from the faucet and waits
// until the account is visible in a validated ledger. It returns the
// identity and its balance in XRP.
func (s *Service) CreateFunded(ctx context.Context) (*Identity, string, error) {
	const op = "wallet.create"

	id, err := Generate()
	if err != nil {
		return nil, "", apperr.Internal(op, err)
	}

	if err := s.funder.Fund(ctx, id.Address()); err != nil {
		id.Close()
		return nil, "", apperr.Funding(op, err)
	}

	balance, err := s.awaitFunding(ctx, id.Address())
	if err != nil {
		id.Close()
		return nil, "", apperr.Funding(op, err)
	}

	s.logger.Info("wallet created", zap.String("address", id.Address()), zap.String("balance", balance))
	return id, balance, nil
}

func (s *Service) awaitFunding(ctx context.Context, address string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.FundingTimeout)
	defer cancel()

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		info, err := s.ledger.AccountInfo(ctx, address, "validated")
		switch {
		case err == nil:
			amt, perr := xrpamount.ParseDrops(info.AccountData.Balance)
			if perr != nil {
				return "", perr
			}
			if amt.IsPositive() {
				return amt.DecimalXRP(), nil
			}
		case ledger.IsRPCError(err, ledger.ErrActNotFound):
		default:
			s.logger.Debug("funding poll failed", zap.String("address", address), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("account %s not funded: %w", address, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Balance returns the validated XRP balance of address. An account that does
// not exist yet has balance "0".
func (s *Service) Balance(ctx context.Context, address string) (string, error) {
	const op = "wallet.balance"

	if err := ValidateAddress(address); err != nil {
		return "", apperr.Validation(op, err.Error())
	}

	info, err := s.ledger.AccountInfo(ctx, address, "validated")
	if err != nil {
		if ledger.IsRPCError(err, ledger.ErrActNotFound) {
			return "0", nil
		}
		return "", ledger.AppError(op, err)
	}

	amt, err := xrpamount.ParseDrops(info.AccountData.Balance)
	if err != nil {
		return "", apperr.Internal(op, err)
	}
	return amt.DecimalXRP(), nil
}

// Issuer returns the identity that mints NFTs. It comes from the configured
// seed, else from the seed file, else a new funded identity is created and
// its seed written to the seed file for the operator to secure. The result
// is cached for the life of the process.
//
// Concurrent callers share one load. A caller whose ctx ends stops waiting
// without cancelling the load for the others.
func (s *Service) Issuer(ctx context.Context) (*Identity, error) {
	s.issuerMu.Lock()
	id, closed := s.issuer, s.closed
	s.issuerMu.Unlock()
	if closed {
		return nil, apperr.Internal("wallet.issuer", ErrIdentityClosed)
	}
	if id != nil {
		return id, nil
	}

	ch := s.issuerLoad.DoChan("issuer", func() (any, error) {
		return s.loadIssuer(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Identity), nil
	case <-ctx.Done():
		return nil, apperr.Funding("wallet.issuer", ctx.Err())
	}
}

func (s *Service) loadIssuer(ctx context.Context) (*Identity, error) {
	const op = "wallet.issuer"

	s.issuerMu.Lock()
	cached := s.issuer
	s.issuerMu.Unlock()
	if cached != nil {
		return cached, nil
	}

	seed := strings.TrimSpace(s.opts.IssuerSeed)
	source := "config"
	if seed == "" && s.opts.IssuerSeedFile != "" {
		data, err := os.ReadFile(s.opts.IssuerSeedFile)
		switch {
		case err == nil:
			seed = strings.TrimSpace(string(data))
			source = "file"
		case !errors.Is(err, os.ErrNotExist):
			return nil, apperr.Internal(op, fmt.Errorf("read issuer seed file: %w", err))
		}
	}

	if seed != "" {
		id, err := RecoverFromSeed(seed)
		if err != nil {
			return nil, err
		}
		s.logger.Info("nft issuer loaded", zap.String("address", id.Address()), zap.String("source", source))
		return s.storeIssuer(id)
	}

	id, _, err := s.CreateFunded(ctx)
	if err != nil {
		return nil, err
	}
	if s.opts.IssuerSeedFile != "" {
		if err := writeSeedFile(s.opts.IssuerSeedFile, id.Seed()); err != nil {
			id.Close()
			return nil, apperr.Internal(op, err)
		}
	}
	s.logger.Warn("created a new nft issuer; move its seed to secure storage and set nft.issuer_seed",
		zap.String("address", id.Address()),
		zap.String("seed_file", s.opts.IssuerSeedFile))
	return s.storeIssuer(id)
}

// storeIssuer caches id unless the service was closed while it loaded.
func (s *Service) storeIssuer(id *Identity) (*Identity, error) {
	s.issuerMu.Lock()
	defer s.issuerMu.Unlock()
	if s.closed {
		id.Close()
		return nil, apperr.Internal("wallet.issuer", ErrIdentityClosed)
	}
	s.issuer = id
	return id, nil
}

func writeSeedFile(path, seed string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create seed directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(seed+"\n"), 0o600); err != nil {
		return fmt.Errorf("write issuer seed file: %w", err)
	}
	return nil
}

// Close erases the cached issuer seed. Issuer fails after Close.
func (s *Service) Close() {
	s.issuerMu.Lock()
	defer s.issuerMu.Unlock()
	s.closed = true
	if s.issuer != nil {
		s.issuer.Close()
		s.issuer = nil
	}
}
