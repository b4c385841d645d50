package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrMissingLedgerURL   = errors.New("ledger.url is required")
	ErrInvalidLedgerURL   = errors.New("ledger.url must be a ws:// or wss:// URL")
	ErrInvalidTimeout     = errors.New("timeout must be positive")
	ErrInvalidBackoff     = errors.New("ledger.reconnect_max must be >= ledger.reconnect_min")
	ErrInvalidStorage     = errors.New("unknown storage.backend")
	ErrMissingStorageDSN  = errors.New("storage.dsn is required for postgres")
	ErrMissingStoragePath = errors.New("storage.path is required")
	ErrInvalidLogFormat   = errors.New("log.format must be json or console")
	ErrEmptyDirectoryName = errors.New("directory entry name is empty")
)

var storageBackends = map[string]bool{
	"memory":   true,
	"pebble":   true,
	"leveldb":  true,
	"postgres": true,
	"sqlite":   true,
}

// Validate checks the whole configuration and reports every problem found.
// Address checksums in the directory are checked when the directory is built.
func Validate(cfg *Config) error {
	var errs []error

	l := cfg.Ledger
	if l.URL == "" {
		errs = append(errs, ErrMissingLedgerURL)
	} else if u, err := url.Parse(l.URL); err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLedgerURL, l.URL))
	}
	for name, d := range map[string]int64{
		"ledger.dial_timeout":     int64(l.DialTimeout),
		"ledger.request_timeout":  int64(l.RequestTimeout),
		"ledger.finality_timeout": int64(l.FinalityTimeout),
		"ledger.poll_interval":    int64(l.PollInterval),
		"ledger.reconnect_min":    int64(l.ReconnectMin),
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s: %w", name, ErrInvalidTimeout))
		}
	}
	if l.ReconnectMax < l.ReconnectMin {
		errs = append(errs, ErrInvalidBackoff)
	}
	if l.LastLedgerOffset == 0 {
		errs = append(errs, errors.New("ledger.last_ledger_offset must be positive"))
	}
	if l.MaxFeeDrops <= 0 {
		errs = append(errs, errors.New("ledger.max_fee_drops must be positive"))
	}

	s := cfg.Storage
	switch {
	case !storageBackends[strings.ToLower(s.Backend)]:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidStorage, s.Backend))
	case strings.EqualFold(s.Backend, "postgres") && s.DSN == "":
		errs = append(errs, ErrMissingStorageDSN)
	case !strings.EqualFold(s.Backend, "postgres") && !strings.EqualFold(s.Backend, "memory") && s.Path == "":
		errs = append(errs, ErrMissingStoragePath)
	}

	if cfg.Cache.Transactions < 0 {
		errs = append(errs, errors.New("cache.transactions must be >= 0"))
	}

	if f := cfg.Log.Format; f != "json" && f != "console" {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogFormat, f))
	}

	seen := make(map[string]bool, len(cfg.Directory))
	for i, e := range cfg.Directory {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("directory[%d]: %w", i, ErrEmptyDirectoryName))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("directory[%d]: duplicate name %q", i, name))
		}
		seen[name] = true
	}

	return errors.Join(errs...)
}
