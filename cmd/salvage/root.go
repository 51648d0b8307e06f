package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ALT-F4-LLC/salvage/internal/config"
	"github.com/ALT-F4-LLC/salvage/internal/db"
	"github.com/ALT-F4-LLC/salvage/internal/decoder"
	"github.com/ALT-F4-LLC/salvage/internal/logging"
	"github.com/ALT-F4-LLC/salvage/internal/model"
	"github.com/ALT-F4-LLC/salvage/internal/output"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

type contextKey string

const (
	dbKey  contextKey = "db"
	cfgKey contextKey = "cfg"
)

// CmdError wraps an error with a machine-readable error code for structured output.
type CmdError struct {
	Err  error
	Code output.ErrorCode
}

func (e *CmdError) Error() string { return e.Err.Error() }

func (e *CmdError) Unwrap() error { return e.Err }

func cmdErr(err error, code output.ErrorCode) *CmdError {
	return &CmdError{Err: err, Code: code}
}

var rootCmd = &cobra.Command{
	Use:     "salvage",
	Short:   "Recover records from legacy organizer backup archives",
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Resolve()
		if err != nil {
			return cmdErr(err, output.ErrValidation)
		}

		ctx := context.WithValue(cmd.Context(), cfgKey, cfg)

		if _, ok := cmd.Annotations["skipDB"]; ok {
			cmd.SetContext(ctx)
			return nil
		}

		if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
			return cmdErr(
				fmt.Errorf("no salvage library found, run 'salvage init' to create one"),
				output.ErrNotFound,
			)
		}

		conn, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Migrate(conn); err != nil {
			conn.Close()
			return fmt.Errorf("migrating database: %w", err)
		}

		cmd.SetContext(context.WithValue(ctx, dbKey, conn))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		conn, ok := cmd.Context().Value(dbKey).(*sql.DB)
		if ok && conn != nil {
			return conn.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log per-row decode diagnostics to stderr")
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func getWriter(cmd *cobra.Command) *output.Writer {
	jsonMode, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return output.New(jsonMode, quietMode)
}

func getLogger(cmd *cobra.Command) logging.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return logging.NewNopLogger()
	}
	return logging.New(os.Stderr, true)
}

func getCfg(cmd *cobra.Command) *config.Config {
	cfg, _ := cmd.Context().Value(cfgKey).(*config.Config)
	return cfg
}

func getDB(cmd *cobra.Command) *sql.DB {
	conn, _ := cmd.Context().Value(dbKey).(*sql.DB)
	return conn
}

// decodeErrCode maps a decode failure to its output error code.
func decodeErrCode(err error) output.ErrorCode {
	switch {
	case errors.Is(err, decoder.ErrArchiveUnreadable):
		return output.ErrArchiveUnreadable
	case errors.Is(err, decoder.ErrDatabaseCorrupt):
		return output.ErrDatabaseCorrupt
	case errors.Is(err, fs.ErrNotExist):
		return output.ErrNotFound
	default:
		return output.ErrGeneral
	}
}

// decodeArchive reads and decodes the archive at path using the configured
// worker count.
func decodeArchive(cmd *cobra.Command, path string) (*model.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cmdErr(fmt.Errorf("reading archive: %w", err), decodeErrCode(err))
	}

	workers := config.DefaultWorkers
	if cfg := getCfg(cmd); cfg != nil {
		workers = cfg.Settings.Workers
	}

	res, err := decoder.Decode(data,
		decoder.WithWorkers(workers),
		decoder.WithLogger(getLogger(cmd)),
	)
	if err != nil {
		return nil, cmdErr(err, decodeErrCode(err))
	}
	return res, nil
}

// Execute runs the root command and returns an exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		jsonMode, _ := rootCmd.PersistentFlags().GetBool("json")
		quietMode, _ := rootCmd.PersistentFlags().GetBool("quiet")
		w := output.New(jsonMode, quietMode)

		var ce *CmdError
		if errors.As(err, &ce) {
			return w.Error(ce.Err, ce.Code)
		}
		return w.Error(err, output.ErrGeneral)
	}
	return 0
}
