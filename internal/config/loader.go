package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultConfigFile is read when Load is called without a path and the file
// exists in the working directory.
const DefaultConfigFile = "campuspay.toml"

// Load reads configuration in priority order:
// 1. Default values
// 2. Configuration file (TOML), when present
// 3. Environment variables (CAMPUSPAY_ prefix, plus XRPL_TESTNET_URL and NFT_ISSUER_SEED)
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := readFile(v, path, explicit); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if v.ConfigFileUsed() != "" {
		cfg.configPath = v.ConfigFileUsed()
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func readFile(v *viper.Viper, path string, required bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if required {
			return fmt.Errorf("config file does not exist: %s", path)
		}
		return nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix("CAMPUSPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Names used by existing deployments.
	if err := v.BindEnv("ledger.url", "CAMPUSPAY_LEDGER_URL", "XRPL_TESTNET_URL"); err != nil {
		return err
	}
	return v.BindEnv("nft.issuer_seed", "CAMPUSPAY_NFT_ISSUER_SEED", "NFT_ISSUER_SEED")
}
