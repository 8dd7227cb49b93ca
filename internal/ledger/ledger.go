package ledger

import (
	"context"
	"fmt"
	"time"

	"tribodash/domain/core"
	"tribodash/internal/errors"
	"tribodash/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported ledger drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const defaultRecentLimit = 20

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Entry records one load of the dataset source
type Entry struct {
	ID          core.LoadID      `db:"id" json:"id"`
	Source      string           `db:"source" json:"source"`
	Hash        core.DatasetHash `db:"dataset_hash" json:"dataset_hash"`
	RowsRead    int              `db:"rows_read" json:"rows_read"`
	RowsKept    int              `db:"rows_kept" json:"rows_kept"`
	RowsDropped int              `db:"rows_dropped" json:"rows_dropped"`
	ShapeCount  int              `db:"shape_count" json:"shape_count"`
	LoadedAtMs  int64            `db:"loaded_at" json:"-"`
	LoadedAt    time.Time        `db:"-" json:"loaded_at"`
}

// Ledger keeps a history of dataset loads
type Ledger interface {
	Record(ctx context.Context, entry Entry) (Entry, error)
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Enabled() bool
	Close() error
}

// Open connects to the ledger database and migrates it. An empty driver
// returns a ledger that records nothing.
func Open(ctx context.Context, driver, dsn string) (Ledger, error) {
	switch driver {
	case "":
		return Noop{}, nil
	case DriverPostgres, DriverSQLite:
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unsupported ledger driver %q", driver))
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.DatabaseError("failed to open ledger database", err)
	}
	if driver == DriverSQLite {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.DatabaseError("failed to connect to ledger database", err)
	}

	store := NewStore(db)
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to migrate %s ledger", driver)
	}
	return store, nil
}

// Store is a Ledger backed by sqlx
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an already migrated database
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Record inserts entry, filling in its ID and timestamp when unset
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if entry.ID == "" {
		entry.ID = core.NewLoadID()
	} else {
		id, err := core.ParseLoadID(entry.ID.String())
		if err != nil {
			return Entry{}, errors.InvalidInput(err.Error())
		}
		entry.ID = id
	}
	if entry.LoadedAt.IsZero() {
		entry.LoadedAt = time.Now()
	}
	entry.LoadedAtMs = entry.LoadedAt.UnixMilli()

	query := `INSERT INTO dataset_loads (
		id, source, dataset_hash, rows_read, rows_kept, rows_dropped, shape_count, loaded_at
	) VALUES (
		:id, :source, :dataset_hash, :rows_read, :rows_kept, :rows_dropped, :shape_count, :loaded_at
	)`

	if _, err := s.db.NamedExecContext(ctx, query, entry); err != nil {
		return Entry{}, errors.DatabaseError("failed to record dataset load", err)
	}
	return entry, nil
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	query := s.db.Rebind(`SELECT
		id, source, dataset_hash, rows_read, rows_kept, rows_dropped, shape_count, loaded_at
	FROM dataset_loads
	ORDER BY loaded_at DESC, id DESC
	LIMIT ?`)

	entries := []Entry{}
	if err := s.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, errors.DatabaseError("failed to query dataset loads", err)
	}
	for i := range entries {
		entries[i].LoadedAt = time.UnixMilli(entries[i].LoadedAtMs)
	}
	return entries, nil
}

// Enabled reports true for a database-backed ledger
func (s *Store) Enabled() bool { return true }

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Noop is the ledger used when no driver is configured
type Noop struct{}

func (Noop) Record(_ context.Context, entry Entry) (Entry, error) { return entry, nil }
func (Noop) Recent(context.Context, int) ([]Entry, error)         { return []Entry{}, nil }
func (Noop) Enabled() bool                                       { return false }
func (Noop) Close() error                                        { return nil }
