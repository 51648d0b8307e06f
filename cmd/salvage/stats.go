package main

import (
	"fmt"

	"github.com/ALT-F4-LLC/salvage/internal/db"
	"github.com/ALT-F4-LLC/salvage/internal/model"
	"github.com/ALT-F4-LLC/salvage/internal/output"
	"github.com/ALT-F4-LLC/salvage/internal/render"
	"github.com/spf13/cobra"
)

type statsResult struct {
	model.LibraryStats
	LabelList []*model.LabelWithCount `json:"label_list"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary statistics for the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		conn := getDB(cmd)

		total, err := db.CountItems(conn)
		if err != nil {
			return cmdErr(err, output.ErrGeneral)
		}
		trashed, err := db.CountTrashed(conn)
		if err != nil {
			return cmdErr(err, output.ErrGeneral)
		}
		byType, err := db.CountByType(conn)
		if err != nil {
			return cmdErr(err, output.ErrGeneral)
		}
		attachmentBytes, err := db.AttachmentBytes(conn)
		if err != nil {
			return cmdErr(err, output.ErrGeneral)
		}
		labels, err := db.ListAllLabels(conn)
		if err != nil {
			return cmdErr(fmt.Errorf("listing labels: %w", err), output.ErrGeneral)
		}

		result := statsResult{
			LibraryStats: model.LibraryStats{
				Items:           total,
				Trashed:         trashed,
				Labels:          len(labels),
				AttachmentBytes: attachmentBytes,
				ByType:          make(map[model.Kind]int, len(byType)),
			},
			LabelList: labels,
		}
		for k, n := range byType {
			result.ByType[model.Kind(k)] = n
		}
		if result.LabelList == nil {
			result.LabelList = []*model.LabelWithCount{}
		}

		var message string
		if !w.JSONMode {
			message = render.RenderStats(result.LibraryStats)
			if total > 0 && len(labels) > 0 {
				message += "\n\n" + render.RenderLibraryLabels(labels)
			}
		}
		w.Success(result, message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
