package main

import (
	"fmt"
	"os"
	"strings"

	humanize "github.com/dustin/go-humanize"

	"github.com/ALT-F4-LLC/salvage/internal/config"
	"github.com/ALT-F4-LLC/salvage/internal/db"
	"github.com/ALT-F4-LLC/salvage/internal/output"
	"github.com/spf13/cobra"
)

type configInfo struct {
	DBPath         string `json:"db_path"`
	DBSizeBytes    int64  `json:"db_size_bytes"`
	SchemaVersion  int    `json:"schema_version"`
	SettingsPath   string `json:"settings_path"`
	Workers        int    `json:"workers"`
	BatchSize      int    `json:"batch_size"`
	SalvagePathEnv string `json:"salvage_path_env"`
	SalvagePathSet bool   `json:"salvage_path_set"`
}

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Display salvage configuration",
	Annotations: map[string]string{"skipDB": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		cfg := getCfg(cmd)

		info := configInfo{
			DBPath:         cfg.DBPath,
			SettingsPath:   cfg.SettingsPath,
			Workers:        cfg.Settings.Workers,
			BatchSize:      cfg.Settings.BatchSize,
			SalvagePathEnv: os.Getenv(config.EnvPath),
			SalvagePathSet: cfg.EnvVarSet,
		}

		exists, err := cfg.Exists()
		if err != nil {
			return cmdErr(fmt.Errorf("checking database: %w", err), output.ErrGeneral)
		}

		if !exists {
			w.Warn("No salvage library found. Run 'salvage init' to create one.")
			w.Success(info, formatConfigHuman(info, true))
			return nil
		}

		conn, err := db.Open(cfg.DBPath)
		if err != nil {
			return cmdErr(fmt.Errorf("opening database: %w", err), output.ErrGeneral)
		}
		defer conn.Close()

		info.SchemaVersion, err = db.SchemaVersion(conn)
		if err != nil {
			return cmdErr(fmt.Errorf("reading schema version: %w", err), output.ErrGeneral)
		}

		stat, err := os.Stat(cfg.DBPath)
		if err != nil {
			return cmdErr(fmt.Errorf("reading database file: %w", err), output.ErrGeneral)
		}
		info.DBSizeBytes = stat.Size()

		w.Success(info, formatConfigHuman(info, false))
		return nil
	},
}

func formatEnvValue(val string) string {
	if val == "" {
		return "(not set)"
	}
	return val
}

func formatConfigHuman(info configInfo, notFound bool) string {
	dbPath := info.DBPath
	if notFound {
		dbPath = fmt.Sprintf("%s (not found)", info.DBPath)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Database path:   %s\n", dbPath)
	if !notFound {
		fmt.Fprintf(&b, "Database size:   %s\n", humanize.Bytes(uint64(info.DBSizeBytes)))
		fmt.Fprintf(&b, "Schema version:  %d\n", info.SchemaVersion)
	}
	fmt.Fprintf(&b, "Settings file:   %s\n", info.SettingsPath)
	fmt.Fprintf(&b, "Workers:         %d\n", info.Workers)
	fmt.Fprintf(&b, "Batch size:      %d\n", info.BatchSize)
	fmt.Fprintf(&b, "%s:    %s", config.EnvPath, formatEnvValue(info.SalvagePathEnv))

	return b.String()
}

func init() {
	rootCmd.AddCommand(configCmd)
}
