package main

import (
	"fmt"
	"os"

	"github.com/ALT-F4-LLC/salvage/internal/model"
	"github.com/ALT-F4-LLC/salvage/internal/output"
	"github.com/ALT-F4-LLC/salvage/internal/render"
	"github.com/spf13/cobra"
)

type decodeFileResult struct {
	Path    string        `json:"path"`
	Summary model.Summary `json:"summary"`
}

var decodeCmd = &cobra.Command{
	Use:         "decode <archive>",
	Short:       "Decode a backup archive and report what it contains",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{"skipDB": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		outPath, _ := cmd.Flags().GetString("out")

		res, err := decodeArchive(cmd, args[0])
		if err != nil {
			return err
		}

		if outPath == "" {
			var message string
			if !w.JSONMode {
				message = render.RenderSummary(res.Summary)
			}
			w.Success(res, message)
			return nil
		}

		f, err := os.Create(outPath)
		if err != nil {
			return cmdErr(fmt.Errorf("creating output file: %w", err), output.ErrGeneral)
		}
		if err := output.EncodeJSON(f, res, true); err != nil {
			f.Close()
			return cmdErr(fmt.Errorf("writing %s: %w", outPath, err), output.ErrGeneral)
		}
		if err := f.Close(); err != nil {
			return cmdErr(fmt.Errorf("closing %s: %w", outPath, err), output.ErrGeneral)
		}

		var message string
		if !w.JSONMode {
			message = render.RenderSummary(res.Summary)
		}
		w.Success(decodeFileResult{Path: outPath, Summary: res.Summary}, message)
		w.Info("Wrote %d records to %s", res.Summary.Imported, outPath)
		return nil
	},
}

func init() {
	decodeCmd.Flags().StringP("out", "o", "", "Write the full decode result as JSON to this file")
	rootCmd.AddCommand(decodeCmd)
}
