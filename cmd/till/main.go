// Command till runs an interactive till session, cashier or customer, against
// the order service and a stock backend.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ministore/till/internal/customer"
	"github.com/ministore/till/internal/domain/catalogue"
	dstock "github.com/ministore/till/internal/domain/stock"
	olc "github.com/ministore/till/internal/orders"
	"github.com/ministore/till/internal/remote"
	"github.com/ministore/till/internal/storage/memory"
	"github.com/ministore/till/internal/storage/postgres"
	"github.com/ministore/till/internal/till"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "till:", err)
		os.Exit(1)
	}

	lg, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "till:", err)
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, lg, cfg); err != nil {
		lg.Error("till exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, lg *zap.Logger, cfg *Config) error {
	gateway, err := stockGateway(ctx, cfg)
	if err != nil {
		return err
	}

	processor := olc.NewFacade(remote.Dialer(cfg.OrderURL, nil), lg.Named("olc"))

	switch cfg.Role {
	case "customer":
		return runCustomer(ctx, gateway, processor, lg)
	default:
		return runCashier(ctx, gateway, processor, lg)
	}
}

// stockGateway selects the PostgreSQL backend when a database URL is given,
// falling back to an in-memory catalogue loaded from the seed file.
func stockGateway(ctx context.Context, cfg *Config) (dstock.Gateway, error) {
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "stock backend")
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return nil, errors.Wrap(err, "stock backend")
		}
		return postgres.NewStock(pool), nil
	}

	products, err := loadCatalogue(cfg.CatalogueFile)
	if err != nil {
		return nil, err
	}
	mem := memory.New()
	for _, p := range products {
		mem.Seed(p)
	}
	return mem, nil
}

type catalogueEntry struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	ImageRef    string          `json:"imageRef"`
}

func loadCatalogue(path string) ([]catalogue.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalogue file")
	}
	var entries []catalogueEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "parse catalogue JSON")
	}

	products := make([]catalogue.Product, len(entries))
	for i, e := range entries {
		products[i] = catalogue.Product{
			Code:        e.Code,
			Description: e.Description,
			UnitPrice:   e.UnitPrice,
			Quantity:    e.Quantity,
			ImageRef:    e.ImageRef,
		}
	}
	return products, nil
}

func runCashier(ctx context.Context, gateway dstock.Gateway, processor *olc.Facade, lg *zap.Logger) error {
	session := till.NewSession(gateway, processor, lg.Named("cashier"))
	session.Subscribe(func(msg string) { fmt.Println(msg) })
	session.AskForUpdate()

	fmt.Println("commands: check <code> | buy | bought | refund | recall <n> | basket | total | quit")
	return repl(ctx, func(cmd, arg string) bool {
		switch cmd {
		case "check":
			session.Check(ctx, arg)
		case "buy":
			session.Buy(ctx)
		case "bought":
			session.Bought(ctx)
		case "refund":
			session.Refund(ctx)
		case "recall":
			session.RecallOrder(ctx, arg)
		case "basket":
			if b := session.Basket(); b != nil {
				fmt.Print(b.Describe())
			}
		case "total":
			fmt.Println(catalogue.FormatSales(session.SessionSales()))
		case "quit", "exit":
			return false
		default:
			fmt.Println("unknown command:", cmd)
		}
		fmt.Println(catalogue.FormatSales(session.SessionSales()))
		return true
	})
}

func runCustomer(ctx context.Context, gateway dstock.Gateway, processor *olc.Facade, lg *zap.Logger) error {
	session := customer.NewSession(gateway, processor, lg.Named("customer"))
	session.Subscribe(func(msg string) { fmt.Println(msg) })
	session.AskForUpdate()

	fmt.Println("commands: check <code> | place | recall <n> | clear | basket | quit")
	return repl(ctx, func(cmd, arg string) bool {
		switch cmd {
		case "check":
			session.Check(ctx, arg)
		case "place":
			session.PlaceOrder(ctx)
		case "recall":
			session.RecallOrder(ctx, arg)
		case "clear":
			session.Clear()
		case "basket":
			fmt.Print(session.Basket().Describe())
		case "quit", "exit":
			return false
		default:
			fmt.Println("unknown command:", cmd)
		}
		return true
	})
}

// repl reads commands line by line until EOF, quit, or context cancellation.
func repl(ctx context.Context, handle func(cmd, arg string) bool) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd := fields[0]
		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}
		if !handle(cmd, arg) {
			return nil
		}
	}
}
