package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dmitrijs2005/photodiary/internal/logging"
	"github.com/dmitrijs2005/photodiary/internal/server/blobstore"
	"github.com/dmitrijs2005/photodiary/internal/server/config"
	"github.com/dmitrijs2005/photodiary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/photodiary/internal/server/services"
	"github.com/spf13/cobra"
)

// cliApp carries the persistent flags shared by every subcommand.
type cliApp struct {
	configPath  string
	driver      string
	dsn         string
	blobBackend string
	blobDir     string
	userID      string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	app := &cliApp{}

	root := &cobra.Command{
		Use:   "diaryctl",
		Short: "Manage photo diary entries and collages",
		Long: `diaryctl talks to the diary database and blob store directly.
Settings come from the JSON config (-c), .env, DIARY_* variables and the flags below.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&app.configPath, "config", "c", "", "path to JSON config file")
	pf.StringVar(&app.driver, "driver", "", "database driver (postgres|sqlite)")
	pf.StringVar(&app.dsn, "dsn", "", "database DSN")
	pf.StringVar(&app.blobBackend, "blob-backend", "", "blob backend (memory|filesystem|s3)")
	pf.StringVar(&app.blobDir, "blob-dir", "", "blob directory for the filesystem backend")
	pf.StringVarP(&app.userID, "user", "u", "", "user id the command acts for")
	pf.BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newMigrateCmd(app),
		newDayCmd(app),
		newSaveCmd(app),
		newUploadCmd(app),
		newMoveCmd(app),
		newRemoveCmd(app),
		newTokenCmd(app),
	)
	return root
}

func (a *cliApp) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath, ".env")
	if err != nil {
		return nil, err
	}
	if a.driver != "" {
		cfg.DatabaseDriver = a.driver
	}
	if a.dsn != "" {
		cfg.DatabaseDSN = a.dsn
	}
	if a.blobBackend != "" {
		cfg.BlobBackend = a.blobBackend
	}
	if a.blobDir != "" {
		cfg.BlobDir = a.blobDir
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func (a *cliApp) logger(cmd *cobra.Command, cfg *config.Config) logging.Logger {
	return logging.NewTextLogger(cmd.ErrOrStderr(), cfg.LogLevel)
}

// withDB opens the configured database and hands it to fn.
func (a *cliApp) withDB(ctx context.Context, fn func(*config.Config, *sql.DB, repomanager.RepositoryManager) error) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	db, rm, err := repomanager.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(cfg, db, rm)
}

// withService builds a DiaryService over the configured stores.
func (a *cliApp) withService(cmd *cobra.Command, fn func(*services.DiaryService) error) error {
	ctx := cmd.Context()
	return a.withDB(ctx, func(cfg *config.Config, db *sql.DB, rm repomanager.RepositoryManager) error {
		blobs, err := blobstore.New(ctx, cfg)
		if err != nil {
			return err
		}
		return fn(services.NewDiaryService(db, rm, blobs, a.logger(cmd, cfg), cfg))
	})
}

func (a *cliApp) requireUser() error {
	if a.userID == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
