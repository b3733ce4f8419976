// Command importtransports loads a transport CSV catalogue into PostgreSQL,
// replacing whatever the transports table held before.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/tilepath/internal/config"
	"github.com/udisondev/tilepath/internal/db"
	"github.com/udisondev/tilepath/internal/transport"
)

func main() {
	csvPath := flag.String("csv", "", "transport catalogue CSV (default: data.transports_csv from config)")
	dryRun := flag.Bool("dry-run", false, "parse the catalogue without writing")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *csvPath, *dryRun); err != nil {
		slog.Error("import failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, csvPath string, dryRun bool) error {
	cfg, err := config.LoadPathServer(config.Path())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if csvPath == "" {
		csvPath = cfg.Data.TransportsCSV
	}

	records, err := transport.LoadCSV(csvPath)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Printf("%d records parsed from %s\n", len(records), csvPath)
		return nil
	}

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return err
	}
	return database.Transports().ReplaceAll(ctx, records)
}
