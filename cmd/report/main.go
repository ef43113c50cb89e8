package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/application/analytics"
	"github.com/laundry/backend/internal/infrastructure/config"
	"github.com/laundry/backend/internal/infrastructure/logger"
	"github.com/laundry/backend/internal/infrastructure/persistence"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

func main() {
	var (
		tenant   string
		from     string
		to       string
		branch   string
		daily    bool
		logLevel string
	)

	flag.StringVar(&tenant, "tenant", "", "Tenant ID (default: app.default_tenant_id)")
	flag.StringVar(&from, "from", "", "First day, YYYY-MM-DD (default: first of the current month)")
	flag.StringVar(&to, "to", "", "Last day, YYYY-MM-DD (default: today)")
	flag.StringVar(&branch, "branch", "", "Restrict to one branch ID")
	flag.BoolVar(&daily, "daily", false, "Print the per-day breakdown")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if tenant == "" {
		tenant = cfg.App.DefaultTenantID
	}
	tenantID, err := uuid.Parse(tenant)
	if err != nil {
		log.Fatal("Invalid tenant ID", zap.String("tenant", tenant))
	}

	req := analytics.RevenueRequest{From: from, To: to}
	if branch != "" {
		branchID, err := uuid.Parse(branch)
		if err != nil {
			log.Fatal("Invalid branch ID", zap.String("branch", branch))
		}
		req.BranchID = &branchID
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	service := analytics.NewAnalyticsService(persistence.NewGormRevenueRepository(db.DB),
		nil, nil, nil, nil, 0, log)
	service.SetLocation(cfg.App.Location())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	report, err := service.Revenue(ctx, tenantID, req)
	if err != nil {
		log.Fatal("Failed to build revenue report", zap.Error(err))
	}

	if err := printSummary(report, cfg.Billing.Currency); err != nil {
		log.Fatal("Failed to print report", zap.Error(err))
	}
	if len(report.ByBranch) > 0 {
		if err := printBranches(report); err != nil {
			log.Fatal("Failed to print report", zap.Error(err))
		}
	}
	if daily {
		if err := printDaily(report); err != nil {
			log.Fatal("Failed to print report", zap.Error(err))
		}
	}
}

func printSummary(r *analytics.RevenueReportResponse, currency string) error {
	fmt.Printf("Revenue %s to %s (%s)\n", r.From, r.To, currency)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Metric", "Value")
	rows := [][]string{
		{"Invoiced revenue", r.InvoicedRevenue.StringFixed(2)},
		{"Invoices", fmt.Sprint(r.InvoiceCount)},
		{"Collected revenue", r.CollectedRevenue.StringFixed(2)},
		{"Payments", fmt.Sprint(r.PaymentCount)},
		{"Outstanding", r.Outstanding.StringFixed(2)},
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func printBranches(r *analytics.RevenueReportResponse) error {
	fmt.Println("\nBy branch")

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Branch", "Invoiced", "Collected")
	for _, b := range r.ByBranch {
		if err := table.Append(b.BranchID.String(), b.Invoiced.StringFixed(2), b.Collected.StringFixed(2)); err != nil {
			return err
		}
	}
	return table.Render()
}

func printDaily(r *analytics.RevenueReportResponse) error {
	fmt.Println("\nBy day")

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Date", "Invoiced", "Collected")
	for _, d := range r.Daily {
		if err := table.Append(d.Date, d.Invoiced.StringFixed(2), d.Collected.StringFixed(2)); err != nil {
			return err
		}
	}
	table.Footer("Total", r.InvoicedRevenue.StringFixed(2), r.CollectedRevenue.StringFixed(2))
	return table.Render()
}
