// Command embeddings builds and queries the season-summary vector index.
//
// Usage:
//
//	scoracle-embeddings migrate
//	scoracle-embeddings generate --batch-size 100 --workers 4
//	scoracle-embeddings sample --limit 5
//	scoracle-embeddings status
//	scoracle-embeddings search "power-hitting first baseman" --min-power-grade 70 --position 1B
//	scoracle-embeddings similar "speedy leadoff hitter"
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/scoracle-baseball/internal/config"
	"github.com/albapepper/scoracle-baseball/internal/db"
	"github.com/albapepper/scoracle-baseball/internal/embedding"
	"github.com/albapepper/scoracle-baseball/internal/grading"
	"github.com/albapepper/scoracle-baseball/internal/maintenance"
	"github.com/albapepper/scoracle-baseball/internal/pipeline"
	"github.com/albapepper/scoracle-baseball/internal/search"
	"github.com/albapepper/scoracle-baseball/internal/store"
	"github.com/albapepper/scoracle-baseball/internal/summary"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "scoracle-embeddings",
		Short:        "Build and query the player-season embedding index",
		SilenceUsage: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(generateCmd())
	root.AddCommand(sampleCmd())
	root.AddCommand(statusCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(similarCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the embeddings schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return db.Migrate(ctx, cfg.DatabaseURL, logger)
		},
	}
}

// --------------------------------------------------------------------------
// generate command
// --------------------------------------------------------------------------

func generateCmd() *cobra.Command {
	var batchSize, limit, workers, minPA int
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Embed every eligible season summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(func(ctx context.Context, cfg *config.Config, pg *store.Postgres) error {
				if !cmd.Flags().Changed("batch-size") {
					batchSize = cfg.EmbeddingBatchSize
				}
				if !cmd.Flags().Changed("workers") {
					workers = cfg.EmbeddingWorkers
				}
				if !cmd.Flags().Changed("min-pa") {
					minPA = cfg.MinPlateAppearances
				}

				embedder := newEmbedder(cfg)
				p := pipeline.New(pg, embedder, pipeline.Options{
					EmbeddingType:       cfg.EmbeddingType,
					Model:               embedder.Model(),
					BatchSize:           batchSize,
					MinPlateAppearances: minPA,
					Limit:               limit,
					Workers:             workers,
				}, logger)

				start := time.Now()
				result, err := p.Run(ctx)
				if result != nil {
					logger.Info("Embedding generation finished",
						"run_id", result.RunID,
						"duration", time.Since(start).Round(time.Second),
						"summary", result.Summary())
				}
				if err != nil {
					return err
				}
				return maintenance.AfterIndex(ctx, pg, []string{config.EmbeddingsTable}, logger)
			})
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", 100, "Seasons per transaction")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum seasons to index (0 = all)")
	cmd.Flags().IntVar(&workers, "workers", 1, "Concurrent embedding requests per batch")
	cmd.Flags().IntVar(&minPA, "min-pa", 50, "Minimum plate appearances (-1 = no minimum)")
	return cmd
}

// --------------------------------------------------------------------------
// sample command
// --------------------------------------------------------------------------

func sampleCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print generated summaries without embedding them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(func(ctx context.Context, cfg *config.Config, pg *store.Postgres) error {
				seasons, err := pg.FetchSeasons(ctx, cfg.MinPlateAppearances, limit)
				if err != nil {
					return err
				}
				for _, s := range seasons {
					g := grading.Compute(s)
					fmt.Printf("[%s] %s %d  overall=%d power=%d hit=%d\n",
						s.PlayerSeasonID, s.PlayerName, s.Year,
						g.Overall.Standard(), g.Power.Standard(), g.Hit.Standard())
					fmt.Printf("  %s\n\n", summary.Generate(s, g))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "Number of seasons to print")
	return cmd
}

// --------------------------------------------------------------------------
// status command
// --------------------------------------------------------------------------

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored vector count and the latest run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(func(ctx context.Context, cfg *config.Config, pg *store.Postgres) error {
				n, err := pg.CountEmbeddings(ctx, cfg.EmbeddingType)
				if err != nil {
					return err
				}
				fmt.Printf("%s embeddings: %d\n", cfg.EmbeddingType, n)

				run, err := pg.LatestRun(ctx, cfg.EmbeddingType)
				if err != nil {
					return err
				}
				if run == nil {
					fmt.Println("no runs recorded")
					return nil
				}
				fmt.Printf("latest run %s: %s, model=%s, indexed=%d, skipped=%d, batches=%d, started=%s\n",
					run.ID, run.Status, run.Model, run.SeasonsIndexed, run.SeasonsSkipped,
					run.BatchesCommitted, run.StartedAt.Format(time.RFC3339))
				if run.Error != "" {
					fmt.Printf("  error: %s\n", run.Error)
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// search / similar commands
// --------------------------------------------------------------------------

func searchCmd() *cobra.Command {
	var (
		position           string
		limit              int
		yearStart, yearEnd int
	)
	floats := map[string]**float64{}
	var filters search.Filters
	bind := func(name string, dst **float64) { floats[name] = dst }
	bind("min-war", &filters.MinWAR)
	bind("max-war", &filters.MaxWAR)
	bind("min-overall-grade", &filters.MinOverallGrade)
	bind("max-overall-grade", &filters.MaxOverallGrade)
	bind("min-hit-grade", &filters.MinHitGrade)
	bind("max-hit-grade", &filters.MaxHitGrade)
	bind("min-power-grade", &filters.MinPowerGrade)
	bind("max-power-grade", &filters.MaxPowerGrade)
	bind("min-fielding-grade", &filters.MinFieldingGrade)
	bind("max-fielding-grade", &filters.MaxFieldingGrade)
	bind("min-speed-grade", &filters.MinSpeedGrade)
	bind("max-speed-grade", &filters.MaxSpeedGrade)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Hybrid search: semantic similarity constrained by filters",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("position") {
				filters.Position = &position
			}
			for name, dst := range floats {
				if cmd.Flags().Changed(name) {
					v, err := cmd.Flags().GetFloat64(name)
					if err != nil {
						return err
					}
					*dst = &v
				}
			}
			startSet, endSet := cmd.Flags().Changed("year-start"), cmd.Flags().Changed("year-end")
			if startSet || endSet {
				r := yearRange(yearStart, yearEnd, startSet, endSet, time.Now().Year())
				filters.YearRange = &r
			}
			if err := filters.Validate(); err != nil {
				return err
			}
			return runSearch(strings.Join(args, " "), filters, limit)
		},
	}
	cmd.Flags().StringVar(&position, "position", "", "Position substring (e.g. SS, 1B)")
	for name := range floats {
		cmd.Flags().Float64(name, 0, strings.ReplaceAll(name, "-", " "))
	}
	cmd.Flags().IntVar(&yearStart, "year-start", config.FirstIndexedYear, "First season")
	cmd.Flags().IntVar(&yearEnd, "year-end", 0, "Last season (default current year)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum results")
	return cmd
}

func similarCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "similar <query>",
		Short: "Unfiltered similarity search",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(strings.Join(args, " "), search.Filters{}, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "Maximum results")
	return cmd
}

// yearRange fills in whichever end of the range was not given.
func yearRange(start, end int, startSet, endSet bool, currentYear int) search.YearRange {
	if !startSet {
		start = config.FirstIndexedYear
	}
	if !endSet {
		end = currentYear
	}
	return search.YearRange{start, end}
}

func runSearch(query string, filters search.Filters, limit int) error {
	return runWithStore(func(ctx context.Context, cfg *config.Config, pg *store.Postgres) error {
		engine := search.NewEngine(newEmbedder(cfg), pg, search.Options{
			EmbeddingType: cfg.EmbeddingType,
			DefaultLimit:  cfg.SearchDefaultLimit,
			MaxLimit:      cfg.SearchMaxLimit,
		}, logger)

		results, err := engine.Search(ctx, query, filters, limit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("no matching seasons")
			return nil
		}
		for i, r := range results {
			fmt.Printf("%2d. %s %d (%s) WAR %.1f wRC+ %.0f  similarity %.3f\n",
				i+1, r.PlayerName, r.Year, r.Position, r.WAR, r.WRCPlus, r.Similarity)
			fmt.Printf("    %s\n", r.SummaryText)
		}
		return nil
	})
}

// --------------------------------------------------------------------------
// shared setup
// --------------------------------------------------------------------------

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return cfg, nil
}

func newEmbedder(cfg *config.Config) *embedding.Ollama {
	return embedding.NewOllama(embedding.OllamaConfig{
		BaseURL:           cfg.OllamaBaseURL,
		Model:             cfg.EmbeddingModel,
		Dimension:         cfg.EmbeddingDim,
		Timeout:           cfg.EmbeddingTimeout,
		RequestsPerMinute: cfg.EmbeddingRequestsPerMinute,
	}, logger)
}

func runWithStore(fn func(ctx context.Context, cfg *config.Config, pg *store.Postgres) error) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	pg := store.NewPostgres(pool, logger)
	if err := pg.VerifySchema(ctx); err != nil {
		return fmt.Errorf("%w (run `scoracle-embeddings migrate` first)", err)
	}
	return fn(ctx, cfg, pg)
}
