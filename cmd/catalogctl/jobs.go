package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/utafrali/gearcatalog/internal/app"
	"github.com/utafrali/gearcatalog/internal/batch"
)

func newNormalizeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize-categories",
		Short: "Map raw category labels to the taxonomy and store category ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context, repos *app.Repositories) (batch.Job, error) {
				enricher, err := repos.Taxonomy.Enricher(ctx, repos.Normalizer)
				if err != nil {
					return nil, fmt.Errorf("load taxonomy: %w", err)
				}
				return batch.NewNormalizeCategories(enricher), nil
			})
		},
	}
}

func newEnrichCmd(c *cli) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "enrich-ai",
		Short: "Attach AI tags and analysis from the storage objects of each product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("concurrency") {
				concurrency = c.cfg.EnrichConcurrency
			}

			objects, closeCache, err := app.NewObjectCache(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeCache(); err != nil {
					c.logger.Warn("object cache close error", slog.String("error", err.Error()))
				}
			}()

			return c.run(cmd, func(context.Context, *app.Repositories) (batch.Job, error) {
				client := app.NewStorageClient(c.cfg, c.logger)
				return batch.NewEnrichAI(client, objects, concurrency, c.logger), nil
			})
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", batch.DefaultEnrichConcurrency, "parallel storage object fetches (default: ENRICH_CONCURRENCY)")
	return cmd
}

func newPopulateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "populate-storage-ids",
		Short: "Link media items to existing storage objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(context.Context, *app.Repositories) (batch.Job, error) {
				return batch.NewPopulateStorageIDs(app.NewStorageClient(c.cfg, c.logger), c.logger), nil
			})
		},
	}
}

func newSyncCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-storage",
		Short: "Register every media source URL as an external storage object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(context.Context, *app.Repositories) (batch.Job, error) {
				return batch.NewSyncStorage(app.NewStorageClient(c.cfg, c.logger), c.dryRun, c.logger), nil
			})
		},
	}
}

func newWarmupCmd(c *cli) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "warmup-cache",
		Short: "Request every stored image once per rendition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("concurrency") {
				concurrency = c.cfg.WarmupConcurrency
			}
			return c.run(cmd, func(context.Context, *app.Repositories) (batch.Job, error) {
				return batch.NewWarmupCache(app.NewStorageClient(c.cfg, c.logger), concurrency, c.logger), nil
			})
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", batch.DefaultWarmupConcurrency, "parallel media requests (default: WARMUP_CONCURRENCY)")
	return cmd
}

func newImportCmd(c *cli) *cobra.Command {
	var mtbFile, mxFile string

	cmd := &cobra.Command{
		Use:   "import-csv",
		Short: "Rebuild the products file from MTB and MX shop exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var sources []batch.CSVSource
			if mtbFile != "" {
				sources = append(sources, batch.CSVSource{Path: mtbFile, Type: "mtb"})
			}
			if mxFile != "" {
				sources = append(sources, batch.CSVSource{Path: mxFile, Type: "mx"})
			}
			if len(sources) == 0 {
				return errors.New("at least one of --mtb or --mx is required")
			}
			return c.run(cmd, func(context.Context, *app.Repositories) (batch.Job, error) {
				return batch.NewImportCSV(sources...), nil
			})
		},
	}

	cmd.Flags().StringVar(&mtbFile, "mtb", "", "MTB shop export CSV")
	cmd.Flags().StringVar(&mxFile, "mx", "", "MX shop export CSV")
	return cmd
}
