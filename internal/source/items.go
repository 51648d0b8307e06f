package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ALT-F4-LLC/salvage/internal/model"
)

const (
	itemTable      = "ZITEM"
	blobTable      = "ZBLOB"
	stringRepTable = "ZBLOBSTRINGREP"
)

// itemColumns lists the item columns read for each row, in scan order.
// Every column except Z_PK is optional; archives written by older versions
// of the source application lack some of them.
var itemColumns = []string{
	"Z_PK",
	"Z_ENT",
	"ZNAME",
	"ZENCRYPTED",
	"ZFLAGGED",
	"ZINTRASH",
	"ZLABEL",
	"ZDATECREATED",
	"ZDATEMODIFIED",
	"ZURLSTRING",
	"ZSOURCEURLSTRING",
	"ZLOCATION",
	"ZACCOUNT",
	"ZSERIALNUMBER",
	"ZOWNERNAME",
	"ZOWNEREMAIL",
	"ZORGANIZATION",
}

// Rows reads every item row joined with its blob bytes and string
// representation, most recently modified first.
func (d *DB) Rows() ([]model.RawItemRow, error) {
	query, err := d.itemQuery()
	if err != nil {
		return nil, err
	}

	rows, err := d.query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying items: %v", ErrCorruptDatabase, err)
	}
	defer rows.Close()

	var out []model.RawItemRow
	for rows.Next() {
		vals := make([]any, len(itemColumns)+2)
		ptrs := make([]any, len(vals))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: scanning item: %v", ErrCorruptDatabase, err)
		}
		out = append(out, rowFromValues(vals))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating items: %v", ErrCorruptDatabase, err)
	}

	return out, nil
}

// itemQuery builds the item SELECT, substituting NULL for absent columns.
func (d *DB) itemQuery() (string, error) {
	itemCols, err := d.columns(itemTable)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDatabase, err)
	}
	if !itemCols["Z_PK"] {
		return "", fmt.Errorf("%w: %s has no Z_PK column", ErrCorruptDatabase, itemTable)
	}
	blobCols, err := d.columns(blobTable)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDatabase, err)
	}
	repCols, err := d.columns(stringRepTable)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDatabase, err)
	}

	selects := make([]string, 0, len(itemColumns)+2)
	for _, c := range itemColumns {
		if itemCols[c] {
			selects = append(selects, "i."+c)
		} else {
			selects = append(selects, "NULL")
		}
	}

	hasBlobFK := itemCols["ZBLOB"]
	if hasBlobFK && repCols["ZBLOB"] && repCols["ZSTRING"] {
		repOrder := ""
		if repCols["Z_PK"] {
			repOrder = " ORDER BY bs.Z_PK"
		}
		selects = append(selects,
			"(SELECT bs.ZSTRING FROM "+stringRepTable+" bs WHERE bs.ZBLOB = i.ZBLOB"+repOrder+" LIMIT 1)")
	} else {
		selects = append(selects, "NULL")
	}
	if hasBlobFK && blobCols["Z_PK"] && blobCols["ZBYTES"] {
		selects = append(selects,
			"(SELECT b.ZBYTES FROM "+blobTable+" b WHERE b.Z_PK = i.ZBLOB)")
	} else {
		selects = append(selects, "NULL")
	}

	order := "i.Z_PK"
	if itemCols["ZDATEMODIFIED"] {
		order = "i.ZDATEMODIFIED DESC, i.Z_PK"
	}

	return fmt.Sprintf("SELECT %s FROM %s i ORDER BY %s",
		strings.Join(selects, ", "), itemTable, order), nil
}

// rowFromValues converts loosely-typed column values into a RawItemRow.
// Values are coerced leniently since the source schema does not enforce
// column affinity.
func rowFromValues(v []any) model.RawItemRow {
	row := model.RawItemRow{
		Name:      asString(v[2]),
		Encrypted: asBool(v[3]),
		Flagged:   asBool(v[4]),
		Trashed:   asBool(v[5]),
		LabelPK:   asInt(v[6]),
		Created:   asFloat(v[7]),
		Modified:  asFloat(v[8]),
		Hints: model.Hints{
			URL:          asString(v[9]),
			SourceURL:    asString(v[10]),
			Location:     asString(v[11]),
			Account:      asString(v[12]),
			SerialNumber: asString(v[13]),
			OwnerName:    asString(v[14]),
			OwnerEmail:   asString(v[15]),
			Organization: asString(v[16]),
		},
		StringRep: asString(v[17]),
		Blob:      asBytes(v[18]),
	}
	if pk := asInt(v[0]); pk != nil {
		row.PK = *pk
	}
	if ent := asInt(v[1]); ent != nil {
		row.EntityCode = *ent
	}
	return row
}

func asInt(v any) *int64 {
	var n int64
	switch x := v.(type) {
	case int64:
		n = x
	case float64:
		n = int64(x)
	case bool:
		if x {
			n = 1
		}
	case []byte:
		p, err := strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64)
		if err != nil {
			return nil
		}
		n = p
	case string:
		p, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return nil
		}
		n = p
	default:
		return nil
	}
	return &n
}

func asFloat(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int64:
		f = float64(x)
	case []byte:
		p, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		if err != nil {
			return nil
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		f = p
	default:
		return nil
	}
	return &f
}

func asBool(v any) bool {
	n := asInt(v)
	return n != nil && *n != 0
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}

func asBytes(v any) []byte {
	switch x := v.(type) {
	case []byte:
		return x
	case string:
		return []byte(x)
	default:
		return nil
	}
}
