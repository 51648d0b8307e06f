package main

import (
	"fmt"

	"github.com/ALT-F4-LLC/salvage/internal/db"
	"github.com/ALT-F4-LLC/salvage/internal/model"
	"github.com/ALT-F4-LLC/salvage/internal/output"
	"github.com/ALT-F4-LLC/salvage/internal/render"
	"github.com/spf13/cobra"
)

type importResult struct {
	Summary model.Summary  `json:"summary"`
	Import  db.ImportStats `json:"import"`
	Labels  int            `json:"labels"`
}

var importCmd = &cobra.Command{
	Use:   "import <archive>",
	Short: "Decode a backup archive and add its records to the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		conn := getDB(cmd)
		cfg := getCfg(cmd)

		batchSize, _ := cmd.Flags().GetInt("batch-size")
		if !cmd.Flags().Changed("batch-size") {
			batchSize = cfg.Settings.BatchSize
		}
		if batchSize <= 0 {
			return cmdErr(fmt.Errorf("--batch-size must be positive, got %d", batchSize), output.ErrValidation)
		}

		res, err := decodeArchive(cmd, args[0])
		if err != nil {
			return err
		}

		labelIDs, err := db.ImportLabels(conn, res.Labels)
		if err != nil {
			return cmdErr(fmt.Errorf("importing labels: %w", err), output.ErrGeneral)
		}

		stats, err := db.ImportRecords(conn, res.Records, labelIDs, batchSize)
		if err != nil {
			return cmdErr(fmt.Errorf("importing records: %w", err), output.ErrGeneral)
		}

		msg := fmt.Sprintf("Imported %d new records (%d refreshed, %d attachments) in %d batches",
			stats.Inserted, stats.Updated, stats.Attachments, stats.Batches)
		if !w.JSONMode {
			msg = render.RenderSummary(res.Summary) + "\n" + msg
		}
		w.Success(importResult{Summary: res.Summary, Import: stats, Labels: len(labelIDs)}, msg)

		if res.Summary.Encrypted > 0 {
			w.Warn("%d encrypted records were skipped", res.Summary.Encrypted)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().Int("batch-size", 0, "Records per transaction (default from config.toml)")
	rootCmd.AddCommand(importCmd)
}
