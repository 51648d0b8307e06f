// Package source loads the relational database embedded in a backup archive
// and reads its item and label tables.
package source

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ALT-F4-LLC/salvage/internal/archive"
)

// DatabaseName is the file name of the embedded database member.
const DatabaseName = "Database.sqlite"

// ErrDatabaseNotFound is returned when no member matches DatabaseName.
var ErrDatabaseNotFound = errors.New(DatabaseName + " not found in the archive")

// ErrCorruptDatabase is returned when the embedded engine rejects the
// database bytes or the item table is missing.
var ErrCorruptDatabase = errors.New("database is corrupt or unreadable")

// FindDatabase returns the path of the embedded database member. The
// first match in path order wins.
func FindDatabase(a *archive.Archive) (string, error) {
	for _, name := range a.Members() {
		if archive.IsResourceFork(name) {
			continue
		}
		if name == DatabaseName || strings.HasSuffix(name, "/"+DatabaseName) {
			return name, nil
		}
	}
	return "", ErrDatabaseNotFound
}

// DB is a read-only handle on an embedded source database held entirely in
// memory.
type DB struct {
	pool *sql.DB
	conn *sql.Conn
}

// deserializer is implemented by modernc.org/sqlite driver connections.
type deserializer interface {
	Deserialize(buf []byte) error
}

// Load opens data as an in-memory database on a single pinned connection
// with writes disabled. Nothing touches the filesystem. The caller must
// Close the returned DB.
func Load(data []byte) (*DB, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty database", ErrCorruptDatabase)
	}

	pool, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory engine: %w", err)
	}
	pool.SetMaxOpenConns(1)

	ctx := context.Background()
	conn, err := pool.Conn(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("opening in-memory engine: %w", err)
	}
	db := &DB{pool: pool, conn: conn}

	err = conn.Raw(func(dc any) error {
		d, ok := dc.(deserializer)
		if !ok {
			return fmt.Errorf("driver %T cannot load database images", dc)
		}
		return d.Deserialize(rollbackImage(data))
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrCorruptDatabase, err)
	}
	if _, err := conn.ExecContext(ctx, "PRAGMA query_only=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrCorruptDatabase, err)
	}

	if err := db.verify(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// rollbackImage returns a copy of data whose header declares the rollback
// journal. An in-memory image cannot be opened in WAL mode.
func rollbackImage(data []byte) []byte {
	img := bytes.Clone(data)
	if len(img) >= 100 && bytes.HasPrefix(img, []byte("SQLite format 3\x00")) &&
		img[18] == 2 && img[19] == 2 {
		img[18], img[19] = 1, 1
	}
	return img
}

func (d *DB) query(q string, args ...any) (*sql.Rows, error) {
	return d.conn.QueryContext(context.Background(), q, args...)
}

func (d *DB) queryRow(q string, args ...any) *sql.Row {
	return d.conn.QueryRowContext(context.Background(), q, args...)
}

// verify checks that the engine accepts the file and that it has an item
// table.
func (d *DB) verify() error {
	var result string
	if err := d.queryRow("PRAGMA quick_check").Scan(&result); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptDatabase, err)
	}
	if result != "ok" {
		return fmt.Errorf("%w: integrity check: %s", ErrCorruptDatabase, result)
	}

	ok, err := d.hasTable(itemTable)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptDatabase, err)
	}
	if !ok {
		return fmt.Errorf("%w: missing %s table", ErrCorruptDatabase, itemTable)
	}
	return nil
}

// Close releases the in-memory database.
func (d *DB) Close() error {
	var err error
	if d.conn != nil {
		err = d.conn.Close()
	}
	if perr := d.pool.Close(); err == nil {
		err = perr
	}
	return err
}

func (d *DB) hasTable(name string) (bool, error) {
	var exists bool
	err := d.queryRow(
		`SELECT EXISTS(SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", name, err)
	}
	return exists, nil
}

// columns returns the set of column names of table, or nil if the table
// does not exist.
func (d *DB) columns(table string) (map[string]bool, error) {
	ok, err := d.hasTable(table)
	if err != nil || !ok {
		return nil, err
	}

	rows, err := d.query(fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   sql.NullString
			notnull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scanning column of %s: %w", table, err)
		}
		cols[strings.ToUpper(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating columns of %s: %w", table, err)
	}
	return cols, nil
}
