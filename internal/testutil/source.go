// Package testutil builds synthetic backup archives for tests.
package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// SourceSchema is the subset of the source application's schema the
// decoder reads.
const SourceSchema = `
CREATE TABLE ZLABEL (
	Z_PK          INTEGER PRIMARY KEY,
	Z_ENT         INTEGER,
	ZNAME         VARCHAR,
	ZDISPLAYINDEX INTEGER
);

CREATE TABLE ZBLOB (
	Z_PK   INTEGER PRIMARY KEY,
	ZBYTES BLOB
);

CREATE TABLE ZBLOBSTRINGREP (
	Z_PK    INTEGER PRIMARY KEY,
	ZBLOB   INTEGER,
	ZSTRING VARCHAR
);

CREATE TABLE ZITEM (
	Z_PK             INTEGER PRIMARY KEY,
	Z_ENT            INTEGER,
	ZNAME            VARCHAR,
	ZENCRYPTED       INTEGER,
	ZFLAGGED         INTEGER,
	ZINTRASH         INTEGER,
	ZLABEL           INTEGER,
	ZBLOB            INTEGER,
	ZDATECREATED     TIMESTAMP,
	ZDATEMODIFIED    TIMESTAMP,
	ZURLSTRING       VARCHAR,
	ZSOURCEURLSTRING VARCHAR,
	ZLOCATION        VARCHAR,
	ZACCOUNT         VARCHAR,
	ZSERIALNUMBER    VARCHAR,
	ZOWNERNAME       VARCHAR,
	ZOWNEREMAIL      VARCHAR,
	ZORGANIZATION    VARCHAR
);
`

// Entity codes used by the source application.
const (
	EntImage        = 17
	EntNote         = 18
	EntPDF          = 19
	EntWebArchive   = 20
	EntPassword     = 21
	EntSerialNumber = 22
	EntBookmark     = 23
)

// Label is a row of the source label table.
type Label struct {
	PK           int64
	Name         string
	DisplayIndex int
}

// Item is a row of the source item table together with its blob.
type Item struct {
	PK           int64
	Ent          int64
	Name         string
	Encrypted    bool
	Flagged      bool
	Trashed      bool
	Label        *int64
	Created      *float64
	Modified     *float64
	URL          string
	SourceURL    string
	Location     string
	Account      string
	SerialNumber string
	OwnerName    string
	OwnerEmail   string
	Organization string
	StringRep    string
	Blob         []byte
}

// Int64 returns a pointer to n.
func Int64(n int64) *int64 { return &n }

// Float64 returns a pointer to f.
func Float64(f float64) *float64 { return &f }

// SQLiteBytes executes stmts against a fresh database file and returns the
// file's bytes.
func SQLiteBytes(t testing.TB, stmts ...string) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Database.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening source database: %v", err)
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			db.Close()
			t.Fatalf("executing %q: %v", s, err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("closing source database: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading source database: %v", err)
	}
	return data
}

// SourceDatabase builds a source database containing the given labels and
// items and returns its bytes.
func SourceDatabase(t testing.TB, labels []Label, items []Item) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Database.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening source database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(SourceSchema); err != nil {
		t.Fatalf("creating source schema: %v", err)
	}

	for _, l := range labels {
		if _, err := db.Exec(
			`INSERT INTO ZLABEL (Z_PK, Z_ENT, ZNAME, ZDISPLAYINDEX) VALUES (?, 5, ?, ?)`,
			l.PK, l.Name, l.DisplayIndex,
		); err != nil {
			t.Fatalf("inserting label %q: %v", l.Name, err)
		}
	}

	for i, it := range items {
		var blobPK any
		if it.Blob != nil || it.StringRep != "" {
			pk := int64(i + 1)
			blobPK = pk
			if _, err := db.Exec(`INSERT INTO ZBLOB (Z_PK, ZBYTES) VALUES (?, ?)`, pk, it.Blob); err != nil {
				t.Fatalf("inserting blob: %v", err)
			}
			if it.StringRep != "" {
				if _, err := db.Exec(
					`INSERT INTO ZBLOBSTRINGREP (ZBLOB, ZSTRING) VALUES (?, ?)`, pk, it.StringRep,
				); err != nil {
					t.Fatalf("inserting string rep: %v", err)
				}
			}
		}

		var label, created, modified any
		if it.Label != nil {
			label = *it.Label
		}
		if it.Created != nil {
			created = *it.Created
		}
		if it.Modified != nil {
			modified = *it.Modified
		}

		_, err := db.Exec(`INSERT INTO ZITEM (
			Z_PK, Z_ENT, ZNAME, ZENCRYPTED, ZFLAGGED, ZINTRASH, ZLABEL, ZBLOB,
			ZDATECREATED, ZDATEMODIFIED, ZURLSTRING, ZSOURCEURLSTRING, ZLOCATION,
			ZACCOUNT, ZSERIALNUMBER, ZOWNERNAME, ZOWNEREMAIL, ZORGANIZATION
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			it.PK, it.Ent, nullString(it.Name), boolInt(it.Encrypted), boolInt(it.Flagged),
			boolInt(it.Trashed), label, blobPK, created, modified,
			nullString(it.URL), nullString(it.SourceURL), nullString(it.Location),
			nullString(it.Account), nullString(it.SerialNumber), nullString(it.OwnerName),
			nullString(it.OwnerEmail), nullString(it.Organization),
		)
		if err != nil {
			t.Fatalf("inserting item %q: %v", it.Name, err)
		}
	}

	if err := db.Close(); err != nil {
		t.Fatalf("closing source database: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading source database: %v", err)
	}
	return data
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
