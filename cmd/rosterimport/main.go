package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	app "github.com/mohammadpnp/roster-import/internal/application/roster"
	"github.com/mohammadpnp/roster-import/internal/bootstrap"
	"github.com/mohammadpnp/roster-import/internal/config"
	"github.com/mohammadpnp/roster-import/internal/infrastructure/memstore"
	"github.com/mohammadpnp/roster-import/internal/logging"
)

func main() {
	os.Exit(execute())
}

func execute() int {
	sourcePath := flag.String("file", "", "Required: path of the .xlsx roster, relative to IMPORT_BASE_DIR")
	dryRun := flag.Bool("dry-run", false, "Run the import against an in-memory store (no database writes)")
	envFile := flag.String("env-file", ".env", "Optional .env file to load")
	flag.Parse()

	if strings.TrimSpace(*sourcePath) == "" {
		fmt.Fprintln(os.Stderr, "-file is required")
		return 2
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configure logging: %v\n", err)
		return 1
	}

	ctx := context.Background()

	var importer bootstrap.Importer
	if *dryRun {
		importer = bootstrap.NewInMemoryImporter(cfg, memstore.New(), logger)
	} else {
		db, pool, err := bootstrap.OpenPostgres(ctx, cfg)
		if err != nil {
			logging.LogError(logger, "rosterimport", "main", "open database", nil, err)
			return 1
		}
		defer pool.Close()

		locker, closeLocker, err := bootstrap.NewRunLocker(ctx, cfg, logger)
		if err != nil {
			logging.LogError(logger, "rosterimport", "main", "connect redis", cfg.Redis.Address, err)
			return 1
		}
		defer closeLocker()

		importer = bootstrap.NewPostgresImporter(cfg, db, pool, locker, logger)
	}

	return run(ctx, importer.ImportRoster, *sourcePath)
}

// run prints the run summary as JSON on stdout and returns the exit code.
func run(ctx context.Context, useCase app.ImportRoster, sourcePath string) int {
	out, err := useCase.Execute(ctx, app.ImportRosterInput{SourcePath: sourcePath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "import %s: %v\n", sourcePath, err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "write summary: %v\n", err)
		return 1
	}

	if out.Status != app.StatusSucceeded {
		return 1
	}
	return 0
}
