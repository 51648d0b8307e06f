package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ALT-F4-LLC/salvage/internal/db"
	"github.com/ALT-F4-LLC/salvage/internal/filter"
	"github.com/ALT-F4-LLC/salvage/internal/model"
	"github.com/ALT-F4-LLC/salvage/internal/output"
	"github.com/ALT-F4-LLC/salvage/internal/render"
	"github.com/spf13/cobra"
)

type itemsResult struct {
	Items []*model.Item `json:"items"`
	Total int           `json:"total"`
}

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List items stored in the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		conn := getDB(cmd)

		types, _ := cmd.Flags().GetStringSlice("type")
		labels, _ := cmd.Flags().GetStringSlice("label")
		trashed, _ := cmd.Flags().GetBool("trashed")
		sortFlag, _ := cmd.Flags().GetString("sort")
		limit, _ := cmd.Flags().GetInt("limit")
		extractDir, _ := cmd.Flags().GetString("extract")

		if err := (filter.Options{Types: types}).Validate(); err != nil {
			return cmdErr(err, output.ErrValidation)
		}

		sortField, sortDir := sortFlag, "desc"
		if len(sortField) > 0 && sortField[0] == '-' {
			sortField = sortField[1:]
		} else if sortField != "" {
			sortDir = "asc"
		}

		items, total, err := db.ListItems(conn, db.ListOptions{
			Types:          types,
			Labels:         labels,
			IncludeTrashed: trashed,
			Sort:           sortField,
			SortDir:        sortDir,
			Limit:          limit,
		})
		if err != nil {
			return cmdErr(err, output.ErrGeneral)
		}
		if items == nil {
			items = []*model.Item{}
		}

		if extractDir != "" {
			if err := extractStored(w, conn, items, extractDir); err != nil {
				return cmdErr(err, output.ErrGeneral)
			}
		}

		var message string
		if !w.JSONMode {
			message = render.RenderTable(render.ItemRows(items))
			if limit > 0 && total > len(items) {
				w.Info("Showing %d of %d items", len(items), total)
			}
		}
		w.Success(itemsResult{Items: items, Total: total}, message)
		return nil
	},
}

// extractStored writes the stored attachment of each listed item into dir.
func extractStored(w *output.Writer, conn *sql.DB, items []*model.Item, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	for _, it := range items {
		if it.FileName == "" {
			continue
		}
		data, err := db.GetAttachmentData(conn, it.ID)
		if err != nil {
			return fmt.Errorf("reading attachment for %q: %w", it.Name, err)
		}
		path := filepath.Join(dir, filepath.Base(it.FileName))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		w.Info("Extracted %s", path)
	}
	return nil
}

func init() {
	itemsCmd.Flags().StringSliceP("type", "t", nil, "Filter by type")
	itemsCmd.Flags().StringSliceP("label", "l", nil, "Filter by label name (all must match)")
	itemsCmd.Flags().Bool("trashed", false, "Include trashed items")
	itemsCmd.Flags().String("sort", "", "Sort field (name, type, created_at, updated_at); prefix with - for descending")
	itemsCmd.Flags().Int("limit", 0, "Maximum number of items to show")
	itemsCmd.Flags().String("extract", "", "Write stored image and pdf attachments into this directory")
	rootCmd.AddCommand(itemsCmd)
}
