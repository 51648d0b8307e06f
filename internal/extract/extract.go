// Package extract turns source item rows into decoded records.
package extract

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ALT-F4-LLC/salvage/internal/blob"
	"github.com/ALT-F4-LLC/salvage/internal/logging"
	"github.com/ALT-F4-LLC/salvage/internal/model"
	"github.com/ALT-F4-LLC/salvage/internal/resolve"
	"github.com/ALT-F4-LLC/salvage/internal/source"
)

// DefaultWorkers is the worker pool size used when Workers is unset.
const DefaultWorkers = 4

// Untitled names records whose source name is empty.
const Untitled = "Untitled"

// Outcome is the result of extracting one row.
type Outcome struct {
	// Record is nil when the row was encrypted.
	Record    *model.Record
	Encrypted bool
	// Dangling is set when the row's file reference did not resolve.
	Dangling bool
	// Unreadable is set when the row's blob had an unknown encoding or a
	// malformed file reference.
	Unreadable bool
}

// Extractor assembles records from rows. Its indexes are shared read-only
// between workers.
type Extractor struct {
	Resolver *resolve.Resolver
	Labels   *source.LabelIndex
	Workers  int
	Now      func() time.Time
	Logger   logging.Logger
}

// Extract processes every row and returns one Outcome per row, in row
// order. A malformed row never fails the extraction.
func (e *Extractor) Extract(rows []model.RawItemRow) []Outcome {
	now := time.Now()
	if e.Now != nil {
		now = e.Now()
	}
	workers := e.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	out := make([]Outcome, len(rows))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range rows {
		g.Go(func() error {
			out[i] = e.extractRow(&rows[i], now)
			return nil
		})
	}
	g.Wait()

	return out
}

func (e *Extractor) logger() logging.Logger {
	if e.Logger == nil {
		return logging.NewNopLogger()
	}
	return e.Logger
}

func (e *Extractor) extractRow(row *model.RawItemRow, now time.Time) Outcome {
	if row.Encrypted {
		return Outcome{Encrypted: true}
	}

	log := e.logger()
	var o Outcome

	name := row.Name
	if name == "" {
		name = Untitled
	}

	cls := blob.Classify(row.Blob, false)

	var payload *resolve.Payload
	switch cls.Kind {
	case blob.KindFileRef:
		var ok bool
		if e.Resolver != nil {
			payload, ok = e.Resolver.Resolve(cls.UUID)
		}
		if !ok {
			o.Dangling = true
			log.Debug("dangling file reference", "pk", row.PK, "uuid", cls.UUID)
		}
	case blob.KindUnknown:
		o.Unreadable = true
		log.Debug("unreadable blob", "pk", row.PK, "size", len(row.Blob))
	}

	sniffed := model.FormatNone
	if payload != nil {
		sniffed = payload.Format
	}
	kind := InferKind(row.Hints, sniffed)
	if nominal, ok := EntityKind(row.EntityCode); ok && nominal != kind {
		log.Debug("entity code disagrees with inferred type",
			"pk", row.PK, "entity", row.EntityCode, "nominal", nominal, "inferred", kind)
	}

	r := &model.Record{
		Name:      name,
		Type:      kind,
		Flagged:   row.Flagged,
		Trashed:   row.Trashed,
		CreatedAt: ConvertTimestamp(row.Created, now),
		UpdatedAt: ConvertTimestamp(row.Modified, now),
		LabelName: e.Labels.Lookup(row.LabelPK),
		Hints:     row.Hints,
	}

	switch {
	case payload != nil:
		r.Attachment = payload.Attachment(name)
	case !blob.IsFileRef(row.Blob):
		r.Content = row.StringRep
		if r.Content == "" {
			r.Content = cls.Text
		}
	}

	o.Record = r
	return o
}
