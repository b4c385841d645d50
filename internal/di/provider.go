package di

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/LeJamon/campuspay/internal/api"
	"github.com/LeJamon/campuspay/internal/config"
	"github.com/LeJamon/campuspay/internal/directory"
	"github.com/LeJamon/campuspay/internal/grpc"
	"github.com/LeJamon/campuspay/internal/ledger"
	"github.com/LeJamon/campuspay/internal/service"
	"github.com/LeJamon/campuspay/internal/storage/receipts"
	"github.com/LeJamon/campuspay/internal/txn"
	"github.com/LeJamon/campuspay/internal/wallet"
	"github.com/LeJamon/campuspay/internal/xrpamount"
)

const storageOpenTimeout = 30 * time.Second

// Provider configures and registers services in the container.
type Provider struct {
	container *Container
	config    *config.Config
	logger    *zap.Logger
}

// NewProvider creates a new service provider.
func NewProvider(container *Container, cfg *config.Config, logger *zap.Logger) *Provider {
	return &Provider{
		container: container,
		config:    cfg,
		logger:    logger,
	}
}

// RegisterAll registers all services.
func (p *Provider) RegisterAll() {
	p.container.Register(ServiceConfig, p.config)
	p.container.Register(ServiceLogger, p.logger)

	p.registerLedgerBuilders()
	p.registerStorageBuilders()
	p.registerServiceBuilders()
	p.registerServerBuilders()
}

func (p *Provider) registerLedgerBuilders() {
	p.container.RegisterBuilder(ServiceLedgerManager, func(c *Container) (any, error) {
		lc := p.config.Ledger
		mgr := ledger.NewManager(ledger.Options{
			URL:            lc.URL,
			DialTimeout:    lc.DialTimeout,
			RequestTimeout: lc.RequestTimeout,
			ReconnectMin:   lc.ReconnectMin,
			ReconnectMax:   lc.ReconnectMax,
		}, p.logger)
		c.OnClose(ServiceLedgerManager, mgr.Release)
		return mgr, nil
	})

	p.container.RegisterBuilder(ServiceLedgerClient, func(c *Container) (any, error) {
		mgr, err := Resolve[*ledger.Manager](c, ServiceLedgerManager)
		if err != nil {
			return nil, err
		}
		return ledger.NewClient(mgr), nil
	})
}

func (p *Provider) registerStorageBuilders() {
	p.container.RegisterBuilder(ServiceReceipts, func(c *Container) (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), storageOpenTimeout)
		defer cancel()

		sc := p.config.Storage
		store, err := receipts.Open(ctx, receipts.Config{
			Backend: sc.Backend,
			Path:    sc.Path,
			DSN:     sc.DSN,
		}, p.logger)
		if err != nil {
			return nil, err
		}
		c.OnClose(ServiceReceipts, store.Close)
		return store, nil
	})

	p.container.RegisterBuilder(ServiceDirectory, func(c *Container) (any, error) {
		return directory.New(p.config.DirectoryMap())
	})
}

func (p *Provider) registerServiceBuilders() {
	p.container.RegisterBuilder(ServiceWallets, func(c *Container) (any, error) {
		client, err := Resolve[*ledger.Client](c, ServiceLedgerClient)
		if err != nil {
			return nil, err
		}
		lc, nc := p.config.Ledger, p.config.NFT
		wallets := wallet.NewService(client, wallet.NewFaucet(lc.FaucetURL, p.logger), wallet.Options{
			FundingTimeout: lc.FundingTimeout,
			PollInterval:   lc.PollInterval,
			IssuerSeed:     nc.IssuerSeed,
			IssuerSeedFile: nc.IssuerSeedFile,
		}, p.logger)
		c.OnClose(ServiceWallets, func() error {
			wallets.Close()
			return nil
		})
		return wallets, nil
	})

	p.container.RegisterBuilder(ServiceSubmitter, func(c *Container) (any, error) {
		client, err := Resolve[*ledger.Client](c, ServiceLedgerClient)
		if err != nil {
			return nil, err
		}
		lc := p.config.Ledger
		opts := txn.DefaultOptions()
		opts.LastLedgerOffset = lc.LastLedgerOffset
		opts.MaxFee = xrpamount.XRPAmount(lc.MaxFeeDrops)
		opts.FinalityTimeout = lc.FinalityTimeout
		opts.PollInterval = lc.PollInterval
		return txn.NewSubmitter(client, opts, p.logger), nil
	})

	p.container.RegisterBuilder(ServiceApp, func(c *Container) (any, error) {
		client, err := Resolve[*ledger.Client](c, ServiceLedgerClient)
		if err != nil {
			return nil, err
		}
		wallets, err := Resolve[*wallet.Service](c, ServiceWallets)
		if err != nil {
			return nil, err
		}
		sub, err := Resolve[*txn.Submitter](c, ServiceSubmitter)
		if err != nil {
			return nil, err
		}
		dir, err := Resolve[*directory.Directory](c, ServiceDirectory)
		if err != nil {
			return nil, err
		}
		store, err := Resolve[receipts.Store](c, ServiceReceipts)
		if err != nil {
			return nil, err
		}
		return service.New(client, wallets, sub, dir, store, service.Options{
			StudentTaxon: p.config.NFT.StudentTaxon,
			CacheSize:    p.config.Cache.Transactions,
		}, p.logger)
	})
}

func (p *Provider) registerServerBuilders() {
	p.container.RegisterBuilder(ServiceHTTPServer, func(c *Container) (any, error) {
		app, err := p.App()
		if err != nil {
			return nil, err
		}
		mgr, err := p.LedgerManager()
		if err != nil {
			return nil, err
		}
		sc := p.config.Server
		return api.NewServer(app, mgr, api.Options{
			Addr:         sc.Addr,
			ReadTimeout:  sc.ReadTimeout,
			WriteTimeout: sc.WriteTimeout,
		}, p.logger), nil
	})

	p.container.RegisterBuilder(ServiceGRPCServer, func(c *Container) (any, error) {
		mgr, err := p.LedgerManager()
		if err != nil {
			return nil, err
		}
		cfg := grpc.DefaultServerConfig()
		cfg.Address = p.config.GRPC.Addr
		return grpc.NewServer(cfg, mgr, p.logger)
	})
}

// App returns the service layer.
func (p *Provider) App() (*service.Service, error) {
	return Resolve[*service.Service](p.container, ServiceApp)
}

func (p *Provider) LedgerManager() (*ledger.Manager, error) {
	return Resolve[*ledger.Manager](p.container, ServiceLedgerManager)
}

func (p *Provider) HTTPServer() (*api.Server, error) {
	return Resolve[*api.Server](p.container, ServiceHTTPServer)
}

func (p *Provider) GRPCServer() (*grpc.Server, error) {
	return Resolve[*grpc.Server](p.container, ServiceGRPCServer)
}

// GetConfig returns the configuration from the container.
func (p *Provider) GetConfig() *config.Config {
	return p.config
}

// Close releases everything the provider built.
func (p *Provider) Close() error {
	return p.container.Close()
}
