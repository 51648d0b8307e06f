package db

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ALT-F4-LLC/salvage/internal/model"
)

// DefaultBatchSize is the number of records committed per import transaction.
const DefaultBatchSize = 50

// safeIdentifier matches valid SQL column identifiers (lowercase letters and underscores only).
var safeIdentifier = regexp.MustCompile(`^[a-z_]+$`)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// scanner abstracts *sql.Row and *sql.Rows for scanning a single row.
type scanner interface {
	Scan(dest ...any) error
}

// ListOptions holds filtering, sorting, and pagination options for ListItems.
type ListOptions struct {
	Types          []string // filter by type (multiple = OR)
	Labels         []string // filter by label name (multiple = AND)
	IncludeTrashed bool     // include trashed items (default: exclude)
	Sort           string   // field name
	SortDir        string   // "asc" or "desc"
	Limit          int      // max results
	Offset         int      // for pagination
}

// validSortFields is the set of columns allowed for sorting.
// WARNING: These keys are interpolated directly into SQL ORDER BY clauses.
var validSortFields = map[string]bool{
	"id":         true,
	"name":       true,
	"type":       true,
	"created_at": true,
	"updated_at": true,
}

// ImportStats reports what an ImportRecords call changed.
type ImportStats struct {
	Inserted    int `json:"inserted"`
	Updated     int `json:"updated"`
	Attachments int `json:"attachments"`
	Labeled     int `json:"labeled"`
	Batches     int `json:"batches"`
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// NoteHTML converts plain note text to the library's HTML paragraph form:
// one <p> per line, empty lines holding a <br>.
func NoteHTML(content string) string {
	if content == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		b.WriteString("<p>")
		if line == "" {
			b.WriteString("<br>")
		} else {
			b.WriteString(htmlEscaper.Replace(line))
		}
		b.WriteString("</p>")
	}
	return b.String()
}

// ImportRecords persists decoded records in transactions of batchSize
// records. Records are identified by (name, created_at): an existing item has
// its content refreshed instead of being inserted again. labelIDs maps label
// names to library IDs as returned by ImportLabels.
func ImportRecords(db *sql.DB, records []*model.Record, labelIDs map[string]int, batchSize int) (ImportStats, error) {
	var stats ImportStats
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		if err := importBatch(db, records[start:end], labelIDs, &stats); err != nil {
			return stats, fmt.Errorf("importing batch %d: %w", stats.Batches+1, err)
		}
		stats.Batches++
	}

	return stats, nil
}

func importBatch(db *sql.DB, batch []*model.Record, labelIDs map[string]int, stats *ImportStats) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var s ImportStats
	for _, r := range batch {
		if r.Encrypted {
			continue
		}
		if err := importRecord(tx, r, labelIDs, &s); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	stats.Inserted += s.Inserted
	stats.Updated += s.Updated
	stats.Attachments += s.Attachments
	stats.Labeled += s.Labeled
	return nil
}

func importRecord(tx *sql.Tx, r *model.Record, labelIDs map[string]int, stats *ImportStats) error {
	content, format := r.Content, model.ContentPlain
	if r.Type == model.KindNote {
		content, format = NoteHTML(r.Content), model.ContentHTML
	}
	created := model.FormatTimestamp(r.CreatedAt)

	var itemID int
	err := tx.QueryRow(
		`SELECT id FROM items WHERE name = ? AND created_at = ?`, r.Name, created,
	).Scan(&itemID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.Exec(
			`INSERT INTO items (name, type, content, content_format, is_flagged, is_trashed,
			 created_at, updated_at, url, source_url, location, account, serial_number,
			 owner_name, owner_email, organization)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Name, string(r.Type), content, string(format), r.Flagged, r.Trashed,
			created, model.FormatTimestamp(r.UpdatedAt),
			r.Hints.URL, r.Hints.SourceURL, r.Hints.Location, r.Hints.Account,
			r.Hints.SerialNumber, r.Hints.OwnerName, r.Hints.OwnerEmail, r.Hints.Organization,
		)
		if err != nil {
			return fmt.Errorf("inserting item %q: %w", r.Name, err)
		}
		id64, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting item id: %w", err)
		}
		itemID = int(id64)
		stats.Inserted++
	case err != nil:
		return fmt.Errorf("querying item %q: %w", r.Name, err)
	default:
		_, err := tx.Exec(
			`UPDATE items SET content = ?, content_format = ?, is_flagged = ?, is_trashed = ?,
			 updated_at = ?, url = ?, source_url = ?,
			 location = ?, account = ?, serial_number = ?, owner_name = ?,
			 owner_email = ?, organization = ?
			 WHERE id = ?`,
			content, string(format), r.Flagged, r.Trashed, model.FormatTimestamp(r.UpdatedAt),
			r.Hints.URL, r.Hints.SourceURL,
			r.Hints.Location, r.Hints.Account, r.Hints.SerialNumber, r.Hints.OwnerName,
			r.Hints.OwnerEmail, r.Hints.Organization, itemID,
		)
		if err != nil {
			return fmt.Errorf("updating item %d: %w", itemID, err)
		}
		stats.Updated++
	}

	if att := r.Attachment; att != nil {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO attachments (item_id, file_name, content_type, size, data)
			 VALUES (?, ?, ?, ?, ?)`,
			itemID, att.FileName, att.ContentType, len(att.Data), att.Data,
		); err != nil {
			return fmt.Errorf("storing attachment for item %d: %w", itemID, err)
		}
		stats.Attachments++
	}

	if r.LabelName == nil {
		return nil
	}
	labelID, ok := labelIDs[*r.LabelName]
	if !ok {
		err := tx.QueryRow(`SELECT id FROM labels WHERE name = ?`, *r.LabelName).Scan(&labelID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("querying label: %w", err)
		}
	}
	res, err := tx.Exec(
		`INSERT OR IGNORE INTO item_labels (item_id, label_id) VALUES (?, ?)`,
		itemID, labelID,
	)
	if err != nil {
		return fmt.Errorf("linking label: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		stats.Labeled++
	}
	return nil
}

// ListItems retrieves items matching the given filters. It returns the
// matching items, the total count of matching rows (ignoring Limit/Offset),
// and an error.
func ListItems(db *sql.DB, opts ListOptions) ([]*model.Item, int, error) {
	var (
		whereClauses []string
		args         []any
		joinClause   string
	)

	if !opts.IncludeTrashed {
		whereClauses = append(whereClauses, "i.is_trashed = 0")
	}

	if len(opts.Types) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("i.type IN (%s)", makePlaceholders(len(opts.Types))))
		for _, t := range opts.Types {
			args = append(args, t)
		}
	}

	// Labels filter: AND logic, an item must have ALL specified labels.
	if len(opts.Labels) > 0 {
		joinClause = `JOIN item_labels il ON il.item_id = i.id
		              JOIN labels l ON l.id = il.label_id`
		whereClauses = append(whereClauses, fmt.Sprintf("l.name IN (%s)", makePlaceholders(len(opts.Labels))))
		for _, l := range opts.Labels {
			args = append(args, l)
		}
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	havingSQL := ""
	groupBySQL := ""
	if len(opts.Labels) > 0 {
		groupBySQL = "GROUP BY i.id"
		havingSQL = fmt.Sprintf("HAVING COUNT(DISTINCT l.name) = %d", len(opts.Labels))
	}

	countQuery := fmt.Sprintf(
		`SELECT COUNT(*) FROM (SELECT i.id FROM items i %s %s %s %s)`,
		joinClause, whereSQL, groupBySQL, havingSQL,
	)
	var totalCount int
	if err := db.QueryRow(countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("counting items: %w", err)
	}

	sortField := "updated_at"
	if opts.Sort != "" && validSortFields[opts.Sort] {
		sortField = opts.Sort
	}
	if !safeIdentifier.MatchString(sortField) {
		return nil, 0, fmt.Errorf("invalid sort field %q", sortField)
	}
	sortDir := "DESC"
	if strings.EqualFold(opts.SortDir, "asc") {
		sortDir = "ASC"
	}

	// Safe: sortField validated against validSortFields and safeIdentifier; sortDir is "ASC" or "DESC".
	mainQuery := fmt.Sprintf(
		`SELECT i.id, i.name, i.type, i.content, i.content_format, i.is_flagged, i.is_trashed,
		        i.created_at, i.updated_at, i.url, i.source_url, i.location, i.account,
		        i.serial_number, i.owner_name, i.owner_email, i.organization,
		        a.file_name, a.content_type, a.size
		 FROM items i LEFT JOIN attachments a ON a.item_id = i.id
		 %s %s %s %s ORDER BY i.%s %s, i.id`,
		joinClause, whereSQL, groupBySQL, havingSQL, sortField, sortDir,
	)

	mainArgs := make([]any, len(args))
	copy(mainArgs, args)

	if opts.Limit > 0 {
		mainQuery += " LIMIT ?"
		mainArgs = append(mainArgs, opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			mainQuery += " LIMIT -1"
		}
		mainQuery += " OFFSET ?"
		mainArgs = append(mainArgs, opts.Offset)
	}

	rows, err := db.Query(mainQuery, mainArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []*model.Item
	for rows.Next() {
		item, err := scanItemFrom(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating item rows: %w", err)
	}

	if err := HydrateLabels(db, items); err != nil {
		return nil, 0, err
	}

	return items, totalCount, nil
}

func scanItemFrom(s scanner) (*model.Item, error) {
	var (
		item                 model.Item
		typ, format          string
		created, updated     string
		fileName, contentTyp sql.NullString
		size                 sql.NullInt64
	)
	err := s.Scan(
		&item.ID, &item.Name, &typ, &item.Content, &format, &item.Flagged, &item.Trashed,
		&created, &updated, &item.Hints.URL, &item.Hints.SourceURL, &item.Hints.Location,
		&item.Hints.Account, &item.Hints.SerialNumber, &item.Hints.OwnerName,
		&item.Hints.OwnerEmail, &item.Hints.Organization,
		&fileName, &contentTyp, &size,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning item: %w", err)
	}

	item.Type = model.Kind(typ)
	item.ContentFormat = model.ContentFormat(format)
	if item.CreatedAt, err = time.Parse(model.TimestampLayout, created); err != nil {
		return nil, fmt.Errorf("parsing created_at for item %d: %w", item.ID, err)
	}
	if item.UpdatedAt, err = time.Parse(model.TimestampLayout, updated); err != nil {
		return nil, fmt.Errorf("parsing updated_at for item %d: %w", item.ID, err)
	}
	item.FileName = fileName.String
	item.ContentType = contentTyp.String
	item.Size = size.Int64
	return &item, nil
}

// HydrateLabels bulk-loads label names for a set of items, populating each
// item's Labels field.
func HydrateLabels(db *sql.DB, items []*model.Item) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]any, len(items))
	byID := make(map[int]*model.Item, len(items))
	for i, item := range items {
		ids[i] = item.ID
		byID[item.ID] = item
	}

	rows, err := db.Query(
		fmt.Sprintf(
			`SELECT il.item_id, l.name FROM item_labels il
			 JOIN labels l ON l.id = il.label_id
			 WHERE il.item_id IN (%s)
			 ORDER BY l.name`,
			makePlaceholders(len(ids)),
		),
		ids...,
	)
	if err != nil {
		return fmt.Errorf("querying item labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return fmt.Errorf("scanning item label: %w", err)
		}
		if item, ok := byID[id]; ok {
			item.Labels = append(item.Labels, name)
		}
	}
	return rows.Err()
}

// GetAttachmentData returns the stored payload bytes of an item.
func GetAttachmentData(db *sql.DB, itemID int) ([]byte, error) {
	var data []byte
	err := db.QueryRow(`SELECT data FROM attachments WHERE item_id = ?`, itemID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying attachment: %w", err)
	}
	return data, nil
}

// CountItems returns the total number of items in the library.
func CountItems(db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return count, nil
}

// CountTrashed returns the number of trashed items.
func CountTrashed(db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM items WHERE is_trashed = 1`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting trashed items: %w", err)
	}
	return count, nil
}

// AttachmentBytes returns the total size of stored payloads.
func AttachmentBytes(db *sql.DB) (int64, error) {
	var total int64
	if err := db.QueryRow(`SELECT COALESCE(SUM(size), 0) FROM attachments`).Scan(&total); err != nil {
		return 0, fmt.Errorf("summing attachment sizes: %w", err)
	}
	return total, nil
}

// CountByType returns a map of type -> count for all items.
func CountByType(db *sql.DB) (map[string]int, error) {
	rows, err := db.Query(`SELECT type, COUNT(*) FROM items GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("counting by type: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("scanning type count: %w", err)
		}
		result[key] = count
	}
	return result, rows.Err()
}

// ClearAllData deletes all items, labels, and attachments within a single
// transaction. The schema and meta table are preserved.
func ClearAllData(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	tables := []string{
		"attachments",
		"item_labels",
		"items",
		"labels",
	}
	for _, table := range tables {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	return tx.Commit()
}

// makePlaceholders returns "?, ?, ..." with n placeholders.
func makePlaceholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
