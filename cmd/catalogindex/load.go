package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/techstore/catalogqa/internal/app"
	"github.com/techstore/catalogqa/internal/usecase/indexing"
)

type loadOptions struct {
	products   string
	recreate   bool
	workers    int
	noProgress bool
}

func newLoadCmd(root *rootOptions) *cobra.Command {
	opts := &loadOptions{}
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Chunk, embed and store products from a JSONL export",
		Example: `  catalogindex load --products ingestion/output/products.jsonl
  catalogindex load --products products.jsonl --recreate`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoad(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.products, "products", "p", "", "path to products.jsonl")
	cmd.Flags().BoolVar(&opts.recreate, "recreate", false, "drop and rebuild the index first")
	cmd.Flags().IntVar(&opts.workers, "workers", indexing.DefaultWorkers, "concurrent embedding batches")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "disable the progress bar")
	_ = cmd.MarkFlagRequired("products")
	return cmd
}

func runLoad(cmd *cobra.Command, root *rootOptions, opts *loadOptions) error {
	ctx := cmd.Context()

	f, err := os.Open(filepath.Clean(opts.products))
	if err != nil {
		return fmt.Errorf("open products: %w", err)
	}
	defer f.Close()

	s, err := root.open(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	skipped := 0
	products, err := indexing.ReadProducts(f, func(line int, err error) {
		skipped++
		s.logger.Warn("Skipping product record", zap.Int("line", line), zap.Error(err))
	})
	if err != nil {
		return err
	}
	s.logger.Info("Products loaded",
		zap.String("path", opts.products),
		zap.Int("products", len(products)),
		zap.Int("skipped", skipped),
	)

	app.RegisterMetrics()
	embedders, err := app.BuildEmbedders(ctx, s.cfg.Embedding, s.stores.KV(), s.logger)
	if err != nil {
		return err
	}

	svc := indexing.New(embedders.Document, s.writer, indexing.Config{
		ChunkSize:    s.cfg.Index.ChunkSize,
		ChunkOverlap: s.cfg.Index.ChunkOverlap,
		BatchSize:    s.cfg.Index.BatchSize,
		Workers:      opts.workers,
		M:            s.cfg.Index.HNSWM,
		EFConstruct:  s.cfg.Index.HNSWEFConstruct,
	}, s.logger)

	chunks := svc.Chunk(products)
	runOpts := indexing.RunOptions{Recreate: opts.recreate}
	if !opts.noProgress {
		bar := progressbar.NewOptions(len(chunks),
			progressbar.OptionSetDescription("embedding chunks"),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("chunks"),
			progressbar.OptionFullWidth(),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(cmd.ErrOrStderr()) }),
		)
		defer func() { _ = bar.Finish() }()
		runOpts.OnBatch = func(n int) { _ = bar.Add(n) }
	}

	stats, err := svc.Run(ctx, products, runOpts)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d chunks from %d products (dim %d, model %s) in %s\n",
		stats.Chunks, stats.Products, stats.Dim,
		embedders.Selection.Backend.Model(), stats.Duration.Round(time.Millisecond))
	return nil
}
