package main

import (
	"path/filepath"

	"github.com/ALT-F4-LLC/salvage/internal/model"
	"github.com/ALT-F4-LLC/salvage/internal/render"
	"github.com/spf13/cobra"
)

type labelCount struct {
	model.Label
	Count int `json:"count"`
}

var labelsCmd = &cobra.Command{
	Use:         "labels <archive>",
	Short:       "List the labels defined in a backup archive",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{"skipDB": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)

		res, err := decodeArchive(cmd, args[0])
		if err != nil {
			return err
		}

		counts := make(map[string]int)
		for _, r := range res.Records {
			if r.LabelName != nil {
				counts[*r.LabelName]++
			}
		}

		result := make([]labelCount, len(res.Labels))
		for i, l := range res.Labels {
			result[i] = labelCount{Label: l, Count: counts[l.Name]}
		}

		var message string
		if !w.JSONMode {
			message = render.RenderLabelTree(filepath.Base(args[0]), res.Labels, counts)
		}
		w.Success(result, message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}
