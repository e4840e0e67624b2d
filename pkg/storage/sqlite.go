package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS blobs (
	locator TEXT PRIMARY KEY,
	data    BLOB NOT NULL
)`

type sqliteStorage struct {
	db *sql.DB
}

var _ BlobStore = &sqliteStorage{}

// NewSQLiteStorage opens (creating if needed) a single-table key-value
// database at fpath.
func NewSQLiteStorage(fpath string) (*sqliteStorage, error) {
	if strings.TrimSpace(fpath) == "" {
		return nil, errors.New("sqlite path is required")
	}

	dsn := filepath.Clean(fpath) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "fail to open sqlite db")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "fail to ping sqlite db")
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "fail to create blobs table")
	}

	return &sqliteStorage{db: db}, nil
}

func (ss *sqliteStorage) Close() error {
	return ss.db.Close()
}

func (ss *sqliteStorage) Read(ctx context.Context, key string) ([]byte, error) {
	hclog.FromContext(ctx).Debug("Reading blob from sqlite", "key", key)

	var data []byte
	err := ss.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE locator = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "%s", key)
	}

	return data, errors.Wrapf(err, "fail to read %s from sqlite", key)
}

func (ss *sqliteStorage) Write(ctx context.Context, key string, data []byte) error {
	hclog.FromContext(ctx).Debug("Writing blob to sqlite", "key", key, "bytes", len(data))

	if data == nil {
		data = []byte{}
	}

	_, err := ss.db.ExecContext(
		ctx,
		`INSERT INTO blobs (locator, data) VALUES (?, ?)
		 ON CONFLICT(locator) DO UPDATE SET data = excluded.data`,
		key,
		data,
	)
	return errors.Wrapf(err, "fail to write %s to sqlite", key)
}

func (ss *sqliteStorage) Delete(ctx context.Context, key string) error {
	hclog.FromContext(ctx).Debug("Deleting blob from sqlite", "key", key)

	res, err := ss.db.ExecContext(ctx, `DELETE FROM blobs WHERE locator = ?`, key)
	if err != nil {
		return errors.Wrapf(err, "fail to delete %s from sqlite", key)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "fail to count deleted rows")
	}

	if n == 0 {
		return errors.Wrapf(ErrNotFound, "%s", key)
	}

	return nil
}

func (ss *sqliteStorage) Exists(ctx context.Context, key string) (bool, error) {
	var one int
	err := ss.db.QueryRowContext(ctx, `SELECT 1 FROM blobs WHERE locator = ?`, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, errors.Wrapf(err, "fail to look up %s in sqlite", key)
	}

	return true, nil
}
