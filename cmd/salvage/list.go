package main

import (
	"github.com/ALT-F4-LLC/salvage/internal/filter"
	"github.com/ALT-F4-LLC/salvage/internal/model"
	"github.com/ALT-F4-LLC/salvage/internal/output"
	"github.com/ALT-F4-LLC/salvage/internal/render"
	"github.com/spf13/cobra"
)

type listResult struct {
	Records []*model.Record `json:"items"`
	Total   int             `json:"total"`
}

var listCmd = &cobra.Command{
	Use:         "list <archive>",
	Short:       "List the records decoded from a backup archive",
	Aliases:     []string{"ls"},
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{"skipDB": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)

		types, _ := cmd.Flags().GetStringSlice("type")
		labels, _ := cmd.Flags().GetStringSlice("label")
		trashed, _ := cmd.Flags().GetBool("trashed")

		opts := filter.Options{Types: types, Labels: labels, IncludeTrashed: trashed}
		if err := opts.Validate(); err != nil {
			return cmdErr(err, output.ErrValidation)
		}

		res, err := decodeArchive(cmd, args[0])
		if err != nil {
			return err
		}

		records := filter.Records(res.Records, opts)
		if records == nil {
			records = []*model.Record{}
		}

		var message string
		if !w.JSONMode {
			message = render.RenderTable(render.RecordRows(records))
		}
		w.Success(listResult{Records: records, Total: len(records)}, message)
		return nil
	},
}

func init() {
	listCmd.Flags().StringSliceP("type", "t", nil, "Filter by type (note, bookmark, password, serial_number, image, pdf)")
	listCmd.Flags().StringSliceP("label", "l", nil, "Filter by label name")
	listCmd.Flags().Bool("trashed", false, "Include trashed records")
	rootCmd.AddCommand(listCmd)
}
