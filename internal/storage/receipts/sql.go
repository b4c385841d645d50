package receipts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// dialect covers the differences between the SQL backends.
type dialect struct {
	driver   string
	blobType string
	numbered bool // $1 placeholders instead of ?
}

var (
	postgresDialect = dialect{driver: "postgres", blobType: "BYTEA", numbered: true}
	sqliteDialect   = dialect{driver: "sqlite", blobType: "BLOB"}
)

// rebind rewrites ? placeholders for dialects that number them.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (d dialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS receipts (
			hash          TEXT PRIMARY KEY,
			kind          TEXT NOT NULL,
			account       TEXT NOT NULL,
			counterparty  TEXT NOT NULL DEFAULT '',
			amount_drops  BIGINT NOT NULL DEFAULT 0,
			outcome       TEXT NOT NULL,
			code          TEXT NOT NULL DEFAULT '',
			ledger_index  BIGINT NOT NULL DEFAULT 0,
			created_at    BIGINT NOT NULL,
			raw           ` + d.blobType + `
		)`,
		`CREATE INDEX IF NOT EXISTS receipts_account_idx ON receipts (account, created_at)`,
		`CREATE INDEX IF NOT EXISTS receipts_counterparty_idx ON receipts (counterparty, created_at)`,
	}
}

const receiptColumns = `hash, kind, account, counterparty, amount_drops, outcome, code, ledger_index, created_at, raw`

type sqlStore struct {
	mu      sync.RWMutex
	db      *sql.DB
	dialect dialect
}

// OpenPostgres connects to dsn and creates the receipts table if missing.
func OpenPostgres(ctx context.Context, dsn string) (Store, error) {
	return openSQL(ctx, postgresDialect, dsn)
}

// OpenSQLite opens the database file at path.
func OpenSQLite(ctx context.Context, path string) (Store, error) {
	return openSQL(ctx, sqliteDialect, path)
}

func openSQL(ctx context.Context, d dialect, dsn string) (Store, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	if d.driver == sqliteDialect.driver {
		// one writer at a time avoids SQLITE_BUSY on concurrent puts
		db.SetMaxOpenConns(1)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.driver, err)
	}
	for _, stmt := range d.schema() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init %s schema: %w", d.driver, err)
		}
	}
	return &sqlStore{db: db, dialect: d}, nil
}

func (s *sqlStore) conn() (*sql.DB, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	return s.db, nil
}

func (s *sqlStore) Put(ctx context.Context, r *Receipt) error {
	if err := r.validate(); err != nil {
		return err
	}
	raw, err := compress(r.Raw)
	if err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return err
	}

	q := s.dialect.rebind(`INSERT INTO receipts (` + receiptColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (hash) DO UPDATE SET
			kind = excluded.kind,
			account = excluded.account,
			counterparty = excluded.counterparty,
			amount_drops = excluded.amount_drops,
			outcome = excluded.outcome,
			code = excluded.code,
			ledger_index = excluded.ledger_index,
			created_at = excluded.created_at,
			raw = excluded.raw`)
	_, err = db.ExecContext(ctx, q,
		strings.ToUpper(r.Hash), string(r.Kind), r.Account, r.Counterparty, r.AmountDrops,
		r.Outcome, r.Code, int64(r.LedgerIndex), r.CreatedAt.UnixNano(), raw)
	if err != nil {
		return fmt.Errorf("insert receipt %s: %w", r.Hash, err)
	}
	return nil
}

func (s *sqlStore) Get(ctx context.Context, hash string) (*Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	q := s.dialect.rebind(`SELECT ` + receiptColumns + ` FROM receipts WHERE hash = ?`)
	r, err := scanReceipt(db.QueryRowContext(ctx, q, strings.ToUpper(hash)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

func (s *sqlStore) ListByAccount(ctx context.Context, account string, limit int) ([]*Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	q := `SELECT ` + receiptColumns + ` FROM receipts
		WHERE account = ? OR counterparty = ?
		ORDER BY created_at DESC, hash`
	args := []any{account, account}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, s.dialect.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var out []*Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqlStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row rowScanner) (*Receipt, error) {
	var (
		r           Receipt
		kind        string
		ledgerIndex int64
		createdAt   int64
		raw         []byte
	)
	err := row.Scan(&r.Hash, &kind, &r.Account, &r.Counterparty, &r.AmountDrops,
		&r.Outcome, &r.Code, &ledgerIndex, &createdAt, &raw)
	if err != nil {
		return nil, err
	}
	r.Kind = Kind(kind)
	r.LedgerIndex = uint32(ledgerIndex)
	r.CreatedAt = time.Unix(0, createdAt).UTC()
	if len(raw) > 0 {
		data, err := decompress(raw)
		if err != nil {
			return nil, fmt.Errorf("receipt %s: %w", r.Hash, err)
		}
		r.Raw = nilIfEmpty(data)
	}
	return &r, nil
}
