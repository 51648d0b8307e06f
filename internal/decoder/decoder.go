// Package decoder converts a legacy organizer backup archive into
// normalized records.
package decoder

import (
	"time"

	"github.com/ALT-F4-LLC/salvage/internal/archive"
	"github.com/ALT-F4-LLC/salvage/internal/extract"
	"github.com/ALT-F4-LLC/salvage/internal/logging"
	"github.com/ALT-F4-LLC/salvage/internal/model"
	"github.com/ALT-F4-LLC/salvage/internal/resolve"
	"github.com/ALT-F4-LLC/salvage/internal/source"
)

type options struct {
	workers int
	logger  logging.Logger
	now     func() time.Time
}

// Option configures Decode.
type Option func(*options)

// WithWorkers bounds the number of rows processed concurrently.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLogger sets the logger for per-row diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the time source used for missing timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Decode decodes a complete backup archive held in memory. It fails only
// when the archive cannot be read or its database is unusable; every other
// anomaly is absorbed per row and reflected in the summary.
func Decode(data []byte, opts ...Option) (*model.Result, error) {
	o := options{
		workers: extract.DefaultWorkers,
		logger:  logging.NewNopLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	a, err := archive.Open(data)
	if err != nil {
		return nil, archiveErr(err)
	}

	dbPath, err := source.FindDatabase(a)
	if err != nil {
		return nil, archiveErr(err)
	}
	dbBytes, err := a.ReadMember(dbPath)
	if err != nil {
		return nil, archiveErr(err)
	}

	db, err := source.Load(dbBytes)
	if err != nil {
		return nil, databaseErr(err)
	}
	defer db.Close()

	labels, err := db.LabelIndex()
	if err != nil {
		return nil, databaseErr(err)
	}
	rows, err := db.Rows()
	if err != nil {
		return nil, databaseErr(err)
	}

	files := resolve.BuildIndex(a)
	dbSize, err := a.Size(dbPath)
	if err != nil {
		o.logger.Warn("sizing database member", "database", dbPath, "error", err)
	}
	o.logger.Debug("indexed archive",
		"database", dbPath, "database_bytes", dbSize,
		"rows", len(rows), "labels", labels.Len(), "files", len(files))

	ex := &extract.Extractor{
		Resolver: resolve.New(a, files),
		Labels:   labels,
		Workers:  o.workers,
		Now:      o.now,
		Logger:   o.logger,
	}
	outcomes := ex.Extract(rows)

	result := collect(outcomes)
	result.Labels = labels.Labels
	if result.Labels == nil {
		result.Labels = []model.Label{}
	}

	o.logger.Info("decoded archive",
		"total", result.Summary.Total,
		"imported", result.Summary.Imported,
		"encrypted", result.Summary.Encrypted,
		"dangling_refs", result.Summary.DanglingRefs,
		"unreadable_blobs", result.Summary.UnreadableBlobs,
	)

	return result, nil
}

// collect folds per-row outcomes into the final result.
func collect(outcomes []extract.Outcome) *model.Result {
	records := make([]*model.Record, 0, len(outcomes))
	var encrypted, dangling, unreadable int
	for _, o := range outcomes {
		if o.Encrypted {
			encrypted++
			continue
		}
		if o.Dangling {
			dangling++
		}
		if o.Unreadable {
			unreadable++
		}
		records = append(records, o.Record)
	}

	return &model.Result{
		Records: records,
		Summary: model.NewSummary(records, encrypted, dangling, unreadable),
	}
}
