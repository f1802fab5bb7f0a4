// FilePath: internal/store/sqlstore.go
package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"

	"github.com/roomsense/hub/internal/errors"
)

// SQLConfig holds connection parameters for the durable backend.
type SQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// SQLStore is the durable Store backend. It translates every operation
// into a parameterized statement, verifies the connection before each
// statement and transparently reconnects when it is gone.
//
// Retry policy: an operation is re-executed after a reconnect only when
// the original statement is known not to have reached the server, so a
// retry can never duplicate the effect of a write.
type SQLStore struct {
	mu      sync.Mutex
	connect func() (*sqlx.DB, error)
	db      *sqlx.DB
}

// NewSQLStore creates a store for the given connection parameters. The
// connection is established lazily on first use.
func NewSQLStore(cfg SQLConfig) *SQLStore {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	return &SQLStore{
		connect: func() (*sqlx.DB, error) {
			db, err := sqlx.Connect("postgres", dsn)
			if err != nil {
				return nil, err
			}
			nuts.L.Infof("[SQLStore] Connected to %s:%d/%s", cfg.Host, cfg.Port, cfg.DBName)
			return db, nil
		},
	}
}

// newSQLStoreWithConnector is used by tests to inject a connection.
func newSQLStoreWithConnector(connect func() (*sqlx.DB, error)) *SQLStore {
	return &SQLStore{connect: connect}
}

// Close releases the current connection.
func (s *SQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Select implements Store.
func (s *SQLStore) Select(ctx context.Context, collection string, filters Filters, opts *SelectOptions) ([]Record, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	if err := checkColumns("filter", filters); err != nil {
		return nil, err
	}
	terms, err := checkSelectOptions(opts)
	if err != nil {
		return nil, err
	}

	query, args := buildSelect(collection, filters, terms, opts)

	var records []Record
	// reads are side-effect free, so a full retry is safe
	err = s.run(ctx, true, func(db *sqlx.DB) error {
		rows, qerr := db.QueryxContext(ctx, query, args...)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()

		records = nil
		for rows.Next() {
			row := map[string]any{}
			if serr := rows.MapScan(row); serr != nil {
				return serr
			}
			records = append(records, normalizeRecord(row))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Insert implements Store.
func (s *SQLStore) Insert(ctx context.Context, collection string, fields Fields) (int64, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		return 0, errors.NewValidationError("insert requires at least one field", nil)
	}
	if err := checkColumns("field", fields); err != nil {
		return 0, err
	}

	query, args := buildInsert(collection, fields)

	var id int64
	err := s.run(ctx, false, func(db *sqlx.DB) error {
		return db.QueryRowxContext(ctx, query, args...).Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update implements Store.
func (s *SQLStore) Update(ctx context.Context, collection string, fields Fields, where Filters) (int64, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		return 0, errors.NewValidationError("update requires at least one field", nil)
	}
	if len(where) == 0 {
		return 0, errors.NewValidationError("unscoped update rejected: where filters required", nil)
	}
	if err := checkColumns("field", fields); err != nil {
		return 0, err
	}
	if err := checkColumns("filter", where); err != nil {
		return 0, err
	}

	query, args := buildUpdate(collection, fields, where)
	return s.exec(ctx, query, args)
}

// Delete implements Store.
func (s *SQLStore) Delete(ctx context.Context, collection string, where Filters) (int64, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	if len(where) == 0 {
		return 0, errors.NewValidationError("unscoped delete rejected: where filters required", nil)
	}
	if err := checkColumns("filter", where); err != nil {
		return 0, err
	}

	query, args := buildDelete(collection, where)
	return s.exec(ctx, query, args)
}

func (s *SQLStore) exec(ctx context.Context, query string, args []any) (int64, error) {
	var affected int64
	err := s.run(ctx, false, func(db *sqlx.DB) error {
		res, xerr := db.ExecContext(ctx, query, args...)
		if xerr != nil {
			return xerr
		}
		n, xerr := res.RowsAffected()
		if xerr != nil {
			return xerr
		}
		affected = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// run executes fn against a live connection. Connecting is always
// retried once; the statement itself is retried only when retryable.
func (s *SQLStore) run(ctx context.Context, retryable bool, fn func(db *sqlx.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.ensure(ctx)
	if err != nil {
		// no statement has executed yet, one reconnect attempt is safe
		if db, err = s.reconnect(); err != nil {
			return errors.NewTransportError("store connection failed", err)
		}
	}

	err = fn(db)
	if err == nil {
		return nil
	}
	if !isConnFault(err) {
		return errors.NewDatabaseError("statement failed", err)
	}

	s.drop()
	if !retryable {
		// the statement may have reached the server; retrying could
		// duplicate its effect
		return errors.NewTransportError("connection lost during statement", err)
	}

	if db, err = s.reconnect(); err != nil {
		return errors.NewTransportError("store reconnect failed", err)
	}
	if err = fn(db); err == nil {
		return nil
	}
	if isConnFault(err) {
		s.drop()
		return errors.NewTransportError("connection lost after retry", err)
	}
	return errors.NewDatabaseError("statement failed", err)
}

// ensure returns a verified-live connection, connecting if needed.
func (s *SQLStore) ensure(ctx context.Context) (*sqlx.DB, error) {
	if s.db != nil {
		if err := s.db.PingContext(ctx); err == nil {
			return s.db, nil
		}
		s.drop()
	}
	db, err := s.connect()
	if err != nil {
		return nil, err
	}
	s.db = db
	return s.db, nil
}

func (s *SQLStore) reconnect() (*sqlx.DB, error) {
	s.drop()
	nuts.L.Warnf("[SQLStore] Reconnecting")
	db, err := s.connect()
	if err != nil {
		return nil, err
	}
	s.db = db
	return s.db, nil
}

func (s *SQLStore) drop() {
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
}

// isConnFault classifies connection-level failures as opposed to
// statement-level ones.
func isConnFault(err error) bool {
	if err == nil {
		return false
	}
	if err == driver.ErrBadConn || err == io.EOF || err == io.ErrUnexpectedEOF {
		return true
	}
	var netErr net.Error
	if ok := asNetError(err, &netErr); ok {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe")
}

func asNetError(err error, target *net.Error) bool {
	for err != nil {
		if ne, ok := err.(net.Error); ok {
			*target = ne
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// normalizeRecord converts driver-specific scan values into the plain
// scalar set the Store contract promises.
func normalizeRecord(row map[string]any) Record {
	rec := make(Record, len(row))
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			rec[k] = string(b)
			continue
		}
		rec[k] = v
	}
	return rec
}
