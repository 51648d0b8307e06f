package main

import (
	"errors"
	"fmt"

	"github.com/ALT-F4-LLC/salvage/internal/db"
	"github.com/ALT-F4-LLC/salvage/internal/output"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete every item and label from the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		conn := getDB(cmd)
		yes, _ := cmd.Flags().GetBool("yes")

		count, err := db.CountItems(conn)
		if err != nil {
			return cmdErr(err, output.ErrGeneral)
		}

		if !yes && !w.JSONMode {
			var confirmed bool
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("This will delete %d items and all labels from the library. Continue?", count)).
						Affirmative("Yes, wipe the library").
						Negative("Cancel").
						Value(&confirmed),
				),
			)

			if err := form.Run(); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					w.Info("Cancelled.")
					return nil
				}
				return cmdErr(fmt.Errorf("interactive form failed: %w", err), output.ErrGeneral)
			}

			if !confirmed {
				w.Info("Cancelled.")
				return nil
			}
		}

		if err := db.ClearAllData(conn); err != nil {
			return cmdErr(fmt.Errorf("clearing library: %w", err), output.ErrGeneral)
		}

		w.Success(struct {
			Deleted int `json:"deleted"`
		}{Deleted: count}, fmt.Sprintf("Deleted %d items", count))
		return nil
	},
}

func init() {
	wipeCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(wipeCmd)
}
