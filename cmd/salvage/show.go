package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ALT-F4-LLC/salvage/internal/filter"
	"github.com/ALT-F4-LLC/salvage/internal/model"
	"github.com/ALT-F4-LLC/salvage/internal/output"
	"github.com/ALT-F4-LLC/salvage/internal/render"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:         "show <archive> <name>",
	Short:       "Show the records with the given name",
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{"skipDB": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		extractDir, _ := cmd.Flags().GetString("extract")

		res, err := decodeArchive(cmd, args[0])
		if err != nil {
			return err
		}

		matches := filter.FindByName(res.Records, args[1])
		if len(matches) == 0 {
			return cmdErr(fmt.Errorf("no record named %q", args[1]), output.ErrNotFound)
		}

		if extractDir != "" {
			if err := extractAttachments(w, matches, extractDir); err != nil {
				return cmdErr(err, output.ErrGeneral)
			}
		}

		var message string
		if !w.JSONMode {
			views := make([]string, len(matches))
			for i, r := range matches {
				views[i] = render.RenderRecordDetail(r)
			}
			message = strings.Join(views, "\n\n---\n\n")
		}
		w.Success(matches, message)
		return nil
	},
}

// extractAttachments writes each record payload into dir under its file name.
func extractAttachments(w *output.Writer, records []*model.Record, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	for _, r := range records {
		att := r.Attachment
		if att == nil {
			continue
		}
		path := filepath.Join(dir, filepath.Base(att.FileName))
		if err := os.WriteFile(path, att.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		w.Info("Extracted %s", path)
	}
	return nil
}

func init() {
	showCmd.Flags().String("extract", "", "Write image and pdf payloads into this directory")
	rootCmd.AddCommand(showCmd)
}
