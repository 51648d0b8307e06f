package main

import (
	"fmt"
	"os"

	"github.com/ALT-F4-LLC/salvage/internal/db"
	"github.com/ALT-F4-LLC/salvage/internal/output"
	"github.com/spf13/cobra"
)

type initResult struct {
	Path          string `json:"path"`
	DBPath        string `json:"db_path"`
	SchemaVersion int    `json:"schema_version"`
	Created       bool   `json:"created"`
}

var initCmd = &cobra.Command{
	Use:         "init",
	Short:       "Initialize a new salvage library",
	Annotations: map[string]string{"skipDB": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		cfg := getCfg(cmd)

		exists, err := cfg.Exists()
		if err != nil {
			return cmdErr(fmt.Errorf("checking database: %w", err), output.ErrGeneral)
		}

		if exists {
			w.Warn("Library already exists at %s", cfg.DBPath)
		} else if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return cmdErr(fmt.Errorf("creating directory: %w", err), output.ErrGeneral)
		}

		conn, err := db.Open(cfg.DBPath)
		if err != nil {
			return cmdErr(fmt.Errorf("opening database: %w", err), output.ErrGeneral)
		}
		defer conn.Close()

		if !exists {
			if err := db.Initialize(conn); err != nil {
				return cmdErr(fmt.Errorf("initializing schema: %w", err), output.ErrGeneral)
			}
		}

		if err := db.Migrate(conn); err != nil {
			return cmdErr(fmt.Errorf("migrating schema: %w", err), output.ErrGeneral)
		}

		schemaVersion, err := db.SchemaVersion(conn)
		if err != nil {
			return cmdErr(fmt.Errorf("reading schema version: %w", err), output.ErrGeneral)
		}

		wroteSettings, err := cfg.WriteSettings()
		if err != nil {
			return cmdErr(err, output.ErrGeneral)
		}

		result := initResult{
			Path:          cfg.Dir,
			DBPath:        cfg.DBPath,
			SchemaVersion: schemaVersion,
			Created:       !exists,
		}
		if exists {
			w.Success(result, "Library already initialized")
			return nil
		}

		w.Success(result, "Initialized salvage library")
		w.Info("Initialized salvage library at %s", cfg.DBPath)
		if wroteSettings {
			w.Info("Wrote default settings to %s", cfg.SettingsPath)
		}
		w.Info("Consider adding .salvage/ to your .gitignore")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
