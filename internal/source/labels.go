package source

import (
	"fmt"

	"github.com/ALT-F4-LLC/salvage/internal/model"
)

const labelTable = "ZLABEL"

// LabelIndex maps source label primary keys to label names. It is built
// once per decode and is read-only afterwards, so it is safe to share
// between goroutines.
type LabelIndex struct {
	Labels []model.Label
	names  map[int64]string
}

// Lookup returns the label name for a label foreign key, or nil when the
// key is absent or unknown.
func (li *LabelIndex) Lookup(pk *int64) *string {
	if li == nil || pk == nil {
		return nil
	}
	name, ok := li.names[*pk]
	if !ok {
		return nil
	}
	return &name
}

// Len returns the number of indexed labels.
func (li *LabelIndex) Len() int {
	if li == nil {
		return 0
	}
	return len(li.names)
}

// LabelIndex reads the label table. A missing label table yields an empty
// index.
func (d *DB) LabelIndex() (*LabelIndex, error) {
	idx := &LabelIndex{names: make(map[int64]string)}

	cols, err := d.columns(labelTable)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDatabase, err)
	}
	if !cols["Z_PK"] || !cols["ZNAME"] {
		return idx, nil
	}

	displayCol := "NULL"
	order := "Z_PK"
	if cols["ZDISPLAYINDEX"] {
		displayCol = "ZDISPLAYINDEX"
		order = "ZDISPLAYINDEX, Z_PK"
	}

	rows, err := d.query(fmt.Sprintf(
		"SELECT Z_PK, ZNAME, %s FROM %s ORDER BY %s", displayCol, labelTable, order,
	))
	if err != nil {
		return nil, fmt.Errorf("%w: querying labels: %v", ErrCorruptDatabase, err)
	}
	defer rows.Close()

	for rows.Next() {
		var pk, name, display any
		if err := rows.Scan(&pk, &name, &display); err != nil {
			return nil, fmt.Errorf("%w: scanning label: %v", ErrCorruptDatabase, err)
		}
		key := asInt(pk)
		labelName := asString(name)
		if key == nil || labelName == "" {
			continue
		}

		var displayIndex int
		if n := asInt(display); n != nil {
			displayIndex = int(*n)
		}

		idx.names[*key] = labelName
		idx.Labels = append(idx.Labels, model.Label{Name: labelName, DisplayIndex: displayIndex})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating labels: %v", ErrCorruptDatabase, err)
	}

	return idx, nil
}
