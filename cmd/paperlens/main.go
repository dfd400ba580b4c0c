// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/paperlens/ai"
	"github.com/poiesic/paperlens/ai/googleai"
	"github.com/poiesic/paperlens/ai/mock"
	"github.com/poiesic/paperlens/ai/openai"
	"github.com/poiesic/paperlens/config"
	"github.com/poiesic/paperlens/core"
	"github.com/poiesic/paperlens/export"
	"github.com/poiesic/paperlens/ingestion"
	"github.com/poiesic/paperlens/normalize"
	"github.com/poiesic/paperlens/reembed"
	"github.com/poiesic/paperlens/search"
	"github.com/poiesic/paperlens/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "paperlens",
		Usage: "Semantic retrieval over academic paper corpora",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to YAML configuration file",
				Value: "paperlens.yml",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Normalize and index raw paper records from a JSON file",
				Action: ingestCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "JSON file holding an array of raw records",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "schema",
						Usage: "Source schema (openreview, ojs, cvf, canonical)",
						Value: "canonical",
					},
					&cli.StringFlag{
						Name:  "venue",
						Usage: "Default venue for records that carry none",
					},
					&cli.IntFlag{
						Name:  "year",
						Usage: "Default year for records that carry none",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records embedded per batch",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding workers",
					},
				),
			},
			{
				Name:   "search",
				Usage:  "Query the corpus and export the ranked results",
				Action: searchCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Natural-language query text",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
					},
					&cli.StringSliceFlag{
						Name:  "venue",
						Usage: "Restrict results to these venues (repeatable)",
					},
					&cli.IntSliceFlag{
						Name:  "year",
						Usage: "Restrict results to these years (repeatable)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (text, csv, json)",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write results to this file instead of stdout",
					},
					&cli.BoolFlag{
						Name:  "filenames",
						Usage: "Print the derived download file name for each hit",
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Rebuild the vector index with a new embedding model",
				Action: reembedCommand,
				Flags: append(embeddingFlags(),
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of papers to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N papers",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:   "stats",
				Usage:  "Show corpus counts per venue and year",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Also show the index checkpoint for this model",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// embeddingFlags are shared by every command that needs an embedder.
func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-kind",
			Usage: "Embedding backend (openai, googleai, mock)",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
		&cli.IntFlag{
			Name:  "dimension",
			Usage: "Embedding vector dimension",
		},
	}
}

// loadConfig reads the YAML config file and overlays any flags that were
// set explicitly. A .env file in the working directory is loaded first so
// api_key_env variables resolve without exporting them by hand.
func loadConfig(c *cli.Context) (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("embedding-kind") {
		cfg.Embedding.Kind = c.String("embedding-kind")
	}
	if c.IsSet("embedding-host") {
		cfg.Embedding.Host = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.Embedding.Model = c.String("embedding-model")
	}
	if c.IsSet("dimension") {
		cfg.Embedding.Dimension = c.Int("dimension")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEmbedder builds the embedding backend selected by the config.
func newEmbedder(ctx context.Context, cfg *config.Config) (ai.Embedder, error) {
	switch cfg.Embedding.Kind {
	case config.KindMock:
		embedder := mock.NewMockEmbedderWithDimension(cfg.Embedding.Dimension)
		if cfg.Embedding.Model != "" {
			embedder.SetModelID(cfg.Embedding.Model)
		}
		return embedder, nil
	case config.KindGoogleAI:
		return googleai.NewEmbedder(ctx, cfg.AIConfig())
	default:
		return openai.NewEmbedder(cfg.AIConfig())
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	schema := normalize.SourceSchema{
		Kind:  normalize.SchemaKind(c.String("schema")),
		Venue: c.String("venue"),
		Year:  c.Int("year"),
	}
	switch schema.Kind {
	case normalize.SchemaOpenReview, normalize.SchemaOJS, normalize.SchemaCVF, normalize.SchemaCanonical:
	default:
		return fmt.Errorf("unknown schema %q", schema.Kind)
	}

	raws, err := readRawRecords(c.String("source"))
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	backend, err := badger.OpenBackend(cfg.DBPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	normalizer, err := normalize.NewNormalizer()
	if err != nil {
		return err
	}

	opts := []ingestion.Option{ingestion.WithBatchSize(c.Int("batch-size"))}
	if c.IsSet("pool-size") {
		opts = append(opts, ingestion.WithPoolSize(c.Int("pool-size")))
	}

	pipeline, err := ingestion.NewPipeline(
		badger.NewPaperRepository(backend),
		badger.NewVectorIndex(backend),
		badger.NewCheckpointRepository(backend),
		embedder,
		normalizer,
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	summary, err := pipeline.Ingest(ctx, raws, schema)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %d of %d records (%d skipped)\n",
		summary.Indexed, summary.Total, len(summary.Skipped))
	for _, skip := range summary.Skipped {
		fmt.Fprintf(os.Stderr, "  skipped [%s] %s: %v\n", skip.Stage, skip.Title, skip.Err)
	}
	return nil
}

// readRawRecords loads a JSON array of raw source records.
func readRawRecords(path string) ([]normalize.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var raws []normalize.RawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return raws, nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	query := &core.QuerySpec{
		Text:   strings.TrimSpace(c.String("query")),
		Venues: cfg.Search.Venues,
		Years:  cfg.Search.Years,
		TopK:   cfg.Search.TopK,
	}
	if c.IsSet("venue") {
		query.Venues = c.StringSlice("venue")
	}
	if c.IsSet("year") {
		query.Years = c.IntSlice("year")
	}
	if c.IsSet("top-k") {
		query.TopK = c.Int("top-k")
	}

	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	backend, err := badger.OpenBackend(cfg.DBPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	searcher, err := search.NewSearcher(
		badger.NewPaperRepository(backend),
		badger.NewVectorIndex(backend),
		embedder,
	)
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	results, err := searcher.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	formatted, err := export.Format(results, export.Kind(c.String("format")))
	if err != nil {
		return err
	}

	if output := c.String("output"); output != "" {
		if err := os.WriteFile(output, []byte(formatted), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
	} else {
		fmt.Print(formatted)
	}

	if c.Bool("filenames") {
		for _, name := range export.FileNames(results) {
			fmt.Fprintln(os.Stderr, name)
		}
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	backend, err := badger.OpenBackend(cfg.DBPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	reembedder := reembed.NewReembedder(
		badger.NewPaperRepository(backend),
		badger.NewVectorIndex(backend),
		badger.NewCheckpointRepository(backend),
		embedder,
		reembedConfig,
		os.Stderr,
	)

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.DBPath)
	fmt.Fprintf(os.Stderr, "Embedding backend: %s\n", cfg.Embedding.Kind)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", embedder.ModelID())
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	dbPath := c.String("db")
	if dbPath == "" {
		return fmt.Errorf("database path is required")
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	papers := badger.NewPaperRepository(backend)

	total, err := papers.CountPapers(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Papers: %d\n", total)

	counts, err := countByVenueYear(ctx, papers)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		fmt.Printf("  %s: %d\n", key, counts[key])
	}

	if model := c.String("embedding-model"); model != "" {
		checkpoint, err := badger.NewCheckpointRepository(backend).GetCheckpoint(ctx, model)
		if err != nil {
			return fmt.Errorf("no checkpoint for model %q: %w", model, err)
		}
		fmt.Printf("Checkpoint %s: %d vectors, dimension %d, updated %s\n",
			checkpoint.ModelID, checkpoint.Papers, checkpoint.Dimension,
			checkpoint.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}

// countByVenueYear tallies the corpus by "venue year" in batches so large
// corpora never load into memory at once.
func countByVenueYear(ctx context.Context, papers *badger.PaperRepository) (map[string]int, error) {
	ids, err := papers.ListPaperIDs(ctx)
	if err != nil {
		return nil, err
	}

	const batchSize = 256
	counts := make(map[string]int)
	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))
		records, err := papers.GetPapers(ctx, ids[start:end]...)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			counts[fmt.Sprintf("%s %d", record.Venue, record.Year)]++
		}
	}
	return counts, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
