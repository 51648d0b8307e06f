package main

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/salvage/internal/render"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print build information",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{"skipDB": "true"},
	Run: func(cmd *cobra.Command, args []string) {
		info := versionInfo{
			Version:   version,
			Commit:    commit,
			BuildDate: buildDate,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		}

		detail := fmt.Sprintf("(commit %s, built %s, %s %s)",
			info.Commit, info.BuildDate, info.GoVersion, info.Platform)
		msg := "salvage " +
			render.StyledText(info.Version, lipgloss.NewStyle().Bold(true)) + " " +
			render.StyledText(detail, lipgloss.NewStyle().Foreground(lipgloss.Color("8")))

		getWriter(cmd).Success(info, msg)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
