package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"orderdesk/internal/analytics"
	"orderdesk/internal/config"
	"orderdesk/internal/database"
	"orderdesk/internal/model"
	"orderdesk/internal/repository"
	"orderdesk/internal/service"
	"orderdesk/internal/transfer"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const usage = `usage: orderdesk <command> [flags]

commands:
  report  -kind top-customers|sales-trend|top-products|network|geography [-limit N] [-period day|week|month]
  export  -table NAME -format csv|json -file PATH
  import  -table NAME -format csv|json -file PATH
  seed
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired layers for the subcommands.
type app struct {
	logger   zerolog.Logger
	customer service.CustomerService
	product  service.ProductService
	order    service.OrderService
	analyzer *analytics.Analyzer
	transfer *transfer.Service
}

func run(args []string) error {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	if err := database.InitSchema(ctx, db, logger); err != nil {
		return fmt.Errorf("failed to initialise schema: %w", err)
	}

	a := &app{
		logger:   logger,
		customer: service.NewCustomerService(repository.NewCustomerRepository(db, logger), logger),
		product:  service.NewProductService(repository.NewProductRepository(db, logger), logger),
		order:    service.NewOrderService(repository.NewOrderRepository(db, logger), logger),
		analyzer: analytics.NewAnalyzer(db, logger),
		transfer: transfer.NewService(db, logger),
	}

	switch args[0] {
	case "report":
		return a.report(ctx, args[1:])
	case "export":
		return a.transferCmd(ctx, "export", args[1:])
	case "import":
		return a.transferCmd(ctx, "import", args[1:])
	case "seed":
		return a.seed(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) report(ctx context.Context, args []string) error {
	fs := newFlagSet("report")
	kind := fs.String("kind", "", "report kind")
	limit := fs.Int("limit", 10, "row cap for ranked reports")
	period := fs.String("period", "day", "sales trend bucket: day, week or month")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		result any
		err    error
	)
	switch *kind {
	case "top-customers":
		result, err = a.analyzer.TopCustomers(ctx, *limit)
	case "sales-trend":
		result, err = a.analyzer.SalesTrend(ctx, analytics.ParsePeriod(*period))
	case "top-products":
		result, err = a.analyzer.TopProducts(ctx, *limit)
	case "network":
		result, err = a.analyzer.CustomerNetwork(ctx)
	case "geography":
		result, err = a.analyzer.CustomerGeography(ctx)
	default:
		return fmt.Errorf("unknown report kind %q", *kind)
	}
	if err != nil {
		return err
	}

	return writeJSON(result)
}

func (a *app) transferCmd(ctx context.Context, direction string, args []string) error {
	fs := newFlagSet(direction)
	table := fs.String("table", "", "table name")
	format := fs.String("format", "csv", "file format: csv or json")
	file := fs.String("file", "", "file path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *table == "" || *file == "" {
		return fmt.Errorf("%s requires -table and -file", direction)
	}

	switch {
	case direction == "export" && *format == "csv":
		return a.transfer.ExportCSV(ctx, *table, *file)
	case direction == "export" && *format == "json":
		return a.transfer.ExportJSON(ctx, *table, *file)
	case direction == "import" && *format == "csv":
		return a.transfer.ImportCSV(ctx, *table, *file)
	case direction == "import" && *format == "json":
		return a.transfer.ImportJSON(ctx, *table, *file)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

// seed loads a small demo dataset so the reports have something to show.
func (a *app) seed(ctx context.Context) error {
	customers := []*model.Customer{
		model.NewCustomer("Alice Carter", "alice@example.com", "+12025550101", "Boston, 12 Beacon St"),
		model.NewCustomer("Boris Ivanov", "boris@example.com", "+74951234567", "Moscow, Main St 1"),
		model.NewCustomer("Chen Wei", "chen@example.com", "", "Shanghai, Nanjing Rd 8"),
	}
	for _, c := range customers {
		if _, err := a.customer.Create(ctx, c); err != nil {
			return err
		}
	}

	products := []*model.Product{
		model.NewProduct("Desk Lamp", "LED lamp", decimal.NewFromInt(45), "Lighting", 20),
		model.NewProduct("Notebook", "A5, dotted", decimal.NewFromInt(6), "Stationery", 100),
		model.NewProduct("Office Chair", "Ergonomic", decimal.NewFromInt(220), "Furniture", 5),
	}
	for _, p := range products {
		if _, err := a.product.Create(ctx, p); err != nil {
			return err
		}
	}

	type line struct {
		product  int // index into products
		quantity int
	}
	orders := []struct {
		customer *model.Customer
		lines    []line
	}{
		{customers[0], []line{{0, 1}, {1, 3}}},
		{customers[0], []line{{2, 1}}},
		{customers[1], []line{{0, 2}}},
		{customers[2], []line{{1, 5}}},
	}
	for _, def := range orders {
		order := model.NewOrder(def.customer)
		for _, l := range def.lines {
			order.AddItem(*products[l.product], l.quantity)
		}
		if _, err := a.order.Create(ctx, order); err != nil {
			return err
		}
	}

	a.logger.Info().
		Int("customers", len(customers)).
		Int("products", len(products)).
		Int("orders", len(orders)).
		Msg("demo data seeded")

	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func writeJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
