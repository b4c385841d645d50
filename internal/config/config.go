package config

import "time"

// Config is the complete campuspay configuration.
type Config struct {
	Ledger    LedgerConfig     `mapstructure:"ledger"`
	NFT       NFTConfig        `mapstructure:"nft"`
	Server    ServerConfig     `mapstructure:"server"`
	GRPC      GRPCConfig       `mapstructure:"grpc"`
	Storage   StorageConfig    `mapstructure:"storage"`
	Cache     CacheConfig      `mapstructure:"cache"`
	Log       LogConfig        `mapstructure:"log"`
	Directory []DirectoryEntry `mapstructure:"directory"`

	configPath string
}

// LedgerConfig describes how the service reaches the ledger network.
type LedgerConfig struct {
	URL              string        `mapstructure:"url"`
	FaucetURL        string        `mapstructure:"faucet_url"`
	DialTimeout      time.Duration `mapstructure:"dial_timeout"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	ReconnectMin     time.Duration `mapstructure:"reconnect_min"`
	ReconnectMax     time.Duration `mapstructure:"reconnect_max"`
	LastLedgerOffset uint32        `mapstructure:"last_ledger_offset"`
	MaxFeeDrops      int64         `mapstructure:"max_fee_drops"`
	FinalityTimeout  time.Duration `mapstructure:"finality_timeout"`
	PollInterval     time.Duration `mapstructure:"poll_interval"`
	FundingTimeout   time.Duration `mapstructure:"funding_timeout"`
}

type NFTConfig struct {
	IssuerSeed     string `mapstructure:"issuer_seed"`
	IssuerSeedFile string `mapstructure:"issuer_seed_file"`
	StudentTaxon   uint32 `mapstructure:"student_taxon"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type GRPCConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// StorageConfig selects the receipt store backend. Path is used by the
// embedded key-value backends and sqlite, DSN by postgres.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	DSN     string `mapstructure:"dsn"`
}

type CacheConfig struct {
	Transactions int `mapstructure:"transactions"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DirectoryEntry maps a university display name to its receiving address.
type DirectoryEntry struct {
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
}

// Path returns the file the configuration was read from, if any.
func (c *Config) Path() string {
	return c.configPath
}

// DirectoryMap returns the directory as name -> address.
func (c *Config) DirectoryMap() map[string]string {
	m := make(map[string]string, len(c.Directory))
	for _, e := range c.Directory {
		m[e.Name] = e.Address
	}
	return m
}
