package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/utafrali/gearcatalog/internal/app"
	"github.com/utafrali/gearcatalog/internal/batch"
	"github.com/utafrali/gearcatalog/internal/config"
	pkgconfig "github.com/utafrali/gearcatalog/pkg/config"
	"github.com/utafrali/gearcatalog/pkg/logger"
)

const serviceName = "catalogctl"

// cli holds the state shared by every subcommand.
type cli struct {
	cfg    *config.Config
	logger *slog.Logger

	envFile      string
	productsFile string
	dryRun       bool
}

// jobBuilder constructs a job once configuration and repositories exist.
type jobBuilder func(ctx context.Context, repos *app.Repositories) (batch.Job, error)

func newRootCmd() *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Maintenance jobs for the product catalog",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	cmd.PersistentFlags().StringVar(&c.productsFile, "products", "", "products file (default: PRODUCTS_FILE)")
	cmd.PersistentFlags().BoolVar(&c.dryRun, "dry-run", false, "run the job without writing the products file")

	cmd.AddCommand(
		newNormalizeCmd(c),
		newEnrichCmd(c),
		newPopulateCmd(c),
		newSyncCmd(c),
		newWarmupCmd(c),
		newImportCmd(c),
	)
	return cmd
}

func (c *cli) init(logOut io.Writer) error {
	if err := pkgconfig.LoadDotenv(c.envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.productsFile != "" {
		cfg.ProductsFile = c.productsFile
	}
	c.cfg = cfg
	c.logger = logger.NewWithWriter(serviceName, cfg.LogLevel, cfg.LogFormat, logOut)
	return nil
}

// run builds and executes one job and prints its report.
func (c *cli) run(cmd *cobra.Command, build jobBuilder) error {
	ctx := cmd.Context()

	repos, err := app.NewRepositories(c.cfg, c.logger)
	if err != nil {
		return err
	}

	job, err := build(ctx, repos)
	if err != nil {
		return err
	}
	ctx = logger.WithJob(ctx, job.Name())

	events := app.NewEventProducer(c.cfg, c.logger)
	defer func() {
		if err := events.Close(); err != nil {
			c.logger.Warn("event producer close error", slog.String("error", err.Error()))
		}
	}()
	if err := events.Check(ctx); err != nil {
		c.logger.WarnContext(ctx, "kafka brokers unreachable, update event will likely fail",
			slog.String("error", err.Error()))
	}

	runner := batch.NewRunner(repos.Products, events, c.cfg.ProductsFile, c.logger).WithDryRun(c.dryRun)
	report, err := runner.Run(ctx, job)
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(w io.Writer, r *batch.Report) {
	fmt.Fprintf(w, "%s: %d products, %d items, %d matched, %d failed, %d changed",
		r.Job, r.Products, r.Items, r.Matched, r.Failed, len(r.Changed))
	if r.Bytes > 0 {
		fmt.Fprintf(w, ", %d bytes", r.Bytes)
	}
	if r.DryRun {
		fmt.Fprint(w, " (dry run, nothing written)")
	}
	fmt.Fprintf(w, " in %s\n", r.Duration.Round(time.Millisecond))
}
