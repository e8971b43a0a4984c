package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/storefront/internal/billingcycle"
	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	cycleservice "github.com/railzwaylabs/storefront/internal/billingcycle/service"
	"github.com/railzwaylabs/storefront/internal/catalog"
	"github.com/railzwaylabs/storefront/internal/clock"
	"github.com/railzwaylabs/storefront/internal/config"
	"github.com/railzwaylabs/storefront/internal/migration"
	"github.com/railzwaylabs/storefront/internal/observability"
	"github.com/railzwaylabs/storefront/internal/plandraft"
	"github.com/railzwaylabs/storefront/internal/pricing"
	pricingdomain "github.com/railzwaylabs/storefront/internal/pricing/domain"
	pricingservice "github.com/railzwaylabs/storefront/internal/pricing/service"
	"github.com/railzwaylabs/storefront/internal/quota"
	"github.com/railzwaylabs/storefront/internal/quotesheet"
	"github.com/railzwaylabs/storefront/internal/redis"
	"github.com/railzwaylabs/storefront/internal/server"
	"github.com/railzwaylabs/storefront/pkg/db"
	"github.com/railzwaylabs/storefront/pkg/money"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "storefront",
		Short:   "Hosting storefront and admin API",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newQuoteCmd(), newCyclesCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the pricing and admin API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and record the schema state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newQuoteCmd() *cobra.Command {
	var (
		monthly string
		cycle   string
		table   string
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a monthly amount for one billing cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cycles, err := loadCycles()
			if err != nil {
				return err
			}
			c, err := cycledomain.Parse(cycle)
			if err != nil {
				return fmt.Errorf("%w: %q", err, cycle)
			}
			kind := cycledomain.TableKind(strings.ToLower(strings.TrimSpace(table)))
			if kind != cycledomain.Customer && kind != cycledomain.Autofill {
				return fmt.Errorf("unknown discount table %q", table)
			}
			q := pricingservice.ComputeQuote(money.ParseRupees(monthly), c, cycles.Table(kind))
			return printQuote(cmd.OutOrStdout(), q.Response())
		},
	}
	cmd.Flags().StringVar(&monthly, "monthly", "", "monthly price in rupees")
	cmd.Flags().StringVar(&cycle, "cycle", string(cycledomain.Monthly), "billing cycle id")
	cmd.Flags().StringVar(&table, "table", string(cycledomain.Customer), "discount table: customer or autofill")
	_ = cmd.MarkFlagRequired("monthly")
	return cmd
}

func newCyclesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cycles",
		Short: "List billing cycles with both discount schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cycles, err := loadCycles()
			if err != nil {
				return err
			}
			autofill := cycles.Autofill()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMONTHS\tCUSTOMER\tAUTOFILL")
			for _, info := range cycles.Cycles() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d%%\t%d%%\n", info.ID, info.Name, info.Months, info.Discount, autofill.Percent(info.ID))
			}
			return w.Flush()
		},
	}
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		clock.Module,
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runServe() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		clock.Module,
		db.Module,
		fx.Invoke(migration.EnforceSchemaGate),
		redis.Module,
		billingcycle.Module,
		catalog.Module,
		pricing.Module,
		plandraft.Module,
		quotesheet.Module,
		quota.Module,
		server.Module,
	)
	app.Run()
}

func loadCycles() (cycledomain.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return cycleservice.NewService(cycleservice.Params{Cfg: cfg, Log: zap.NewNop()})
}

func printQuote(out io.Writer, q pricingdomain.QuoteResponse) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Cycle\t%s (%d months)\n", q.CycleLabel, q.CycleMonths)
	fmt.Fprintf(w, "Discount\t%d%%\n", q.DiscountPercent)
	fmt.Fprintf(w, "Monthly base\t%s\n", q.Display.MonthlyBase)
	fmt.Fprintf(w, "Total before discount\t%s\n", q.Display.CycleTotalBefore)
	fmt.Fprintf(w, "Total after discount\t%s\n", q.Display.CycleTotalAfter)
	fmt.Fprintf(w, "Per month\t%s\n", q.Display.EffectiveMonthlyAfter)
	fmt.Fprintf(w, "Total paise\t%d\n", q.CycleTotalAfterPaise)
	return w.Flush()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
