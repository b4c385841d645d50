package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultLedgerURL = "wss://s.altnet.rippletest.net:51233"
	DefaultFaucetURL = "https://faucet.altnet.rippletest.net/accounts"
)

// setDefaults sets values used when neither the file nor the environment
// provide one.
func setDefaults(v *viper.Viper) {
	v.SetDefault("ledger.url", DefaultLedgerURL)
	v.SetDefault("ledger.faucet_url", DefaultFaucetURL)
	v.SetDefault("ledger.dial_timeout", 10*time.Second)
	v.SetDefault("ledger.request_timeout", 20*time.Second)
	v.SetDefault("ledger.reconnect_min", time.Second)
	v.SetDefault("ledger.reconnect_max", 30*time.Second)
	v.SetDefault("ledger.last_ledger_offset", 20)
	v.SetDefault("ledger.max_fee_drops", 2_000_000)
	v.SetDefault("ledger.finality_timeout", 60*time.Second)
	v.SetDefault("ledger.poll_interval", time.Second)
	v.SetDefault("ledger.funding_timeout", 60*time.Second)

	v.SetDefault("nft.issuer_seed", "")
	v.SetDefault("nft.issuer_seed_file", "data/issuer.seed")
	v.SetDefault("nft.student_taxon", 0)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)

	v.SetDefault("grpc.enabled", true)
	v.SetDefault("grpc.addr", "127.0.0.1:50051")

	v.SetDefault("storage.backend", "pebble")
	v.SetDefault("storage.path", "data/receipts")
	v.SetDefault("storage.dsn", "")

	v.SetDefault("cache.transactions", 512)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("directory", defaultDirectory())
}

func defaultDirectory() []map[string]any {
	return []map[string]any{
		{"name": "Seoul National University", "address": "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"},
		{"name": "Yonsei University", "address": "rDsbeomae4FXwgQTJp9Rs64Qg9vDiTCdBv"},
		{"name": "Korea University", "address": "rJb5KsHsDHF1YS5B5DU6QCkH5NsPaKQTcy"},
	}
}
