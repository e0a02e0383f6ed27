// Command seed-stock loads a catalogue JSON file into the PostgreSQL stock
// backend, creating the schema first when needed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ministore/till/internal/domain/catalogue"
	"github.com/ministore/till/internal/storage/postgres"
)

type productJSON struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	ImageRef    string          `json:"imageRef"`
}

func main() {
	var (
		databaseURL   string
		catalogueFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogueFile, "catalogue-file", "db/seed/catalogue.json", "path to catalogue JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogueFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogueFile string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	slog.Info("reading catalogue file", slog.String("path", catalogueFile))

	data, err := os.ReadFile(catalogueFile)
	if err != nil {
		return errors.Wrap(err, "read catalogue file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse catalogue JSON")
	}

	store := postgres.NewStock(pool)

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		entry := catalogue.Product{
			Code:        p.Code,
			Description: p.Description,
			UnitPrice:   p.UnitPrice,
			Quantity:    p.Quantity,
			ImageRef:    p.ImageRef,
		}
		if err := store.Upsert(ctx, entry); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.Code)
		}
		slog.Info("upserted product",
			slog.String("code", p.Code), slog.String("description", p.Description))
	}

	return nil
}
