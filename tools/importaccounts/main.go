package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/icewatch/x-monitor/internal/importer"
	"github.com/icewatch/x-monitor/internal/repositories/account"
	"github.com/icewatch/x-monitor/pkg/config"
	"github.com/icewatch/x-monitor/pkg/logger"
)

func main() {
	file := flag.String("file", "accounts.csv", "path to the accounts CSV")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg := logger.New(logger.Opts{Env: cfg.App.Env})

	ctx := context.Background()

	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User, cfg.Postgres.Pass, cfg.Postgres.Host,
		cfg.Postgres.Port, cfg.Postgres.Name, cfg.Postgres.SslMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	imp := importer.New(account.NewPgx(pool, logg), logg)
	result, err := imp.ImportCSV(ctx, f)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("Accounts imported. created=%d, updated=%d, skipped=%d\n",
		result.Created, result.Updated, result.Skipped)
}
