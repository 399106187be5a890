package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"lotogrid/adapters/excel"
	"lotogrid/adapters/postgres"
	"lotogrid/adapters/report"
	"lotogrid/adapters/stats/montecarlo"
	"lotogrid/adapters/stats/validate"
	"lotogrid/app"
	"lotogrid/domain/draw"
	"lotogrid/domain/features"
	"lotogrid/internal/config"
	"lotogrid/internal/testkit"
	"lotogrid/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lotogrid",
		Short: "Spatial feature extraction and statistical validation for lottery draws",
	}

	rootCmd.AddCommand(
		newIngestCmd(),
		newFeaturesCmd(),
		newSimulateCmd(),
		newValidateCmd(),
		newRunCmd(),
		newGenerateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// repos opens the configured database, or returns nil repositories when no
// URL is set.
func repos(ctx context.Context, cfg *config.Config) (ports.DrawRepository, ports.RunRepository, error) {
	if cfg.Database.URL == "" {
		return nil, nil, nil
	}
	db, err := postgres.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, nil, err
	}
	return postgres.NewDrawRepository(db), postgres.NewRunRepository(db), nil
}

// loadHistory reads the draw history from the given file, the configured
// history file, or the database, in that order of preference.
func loadHistory(ctx context.Context, cfg *config.Config, file string, drawRepo ports.DrawRepository) ([]draw.Draw, error) {
	if file == "" {
		file = cfg.Paths.HistoryFile
	}
	if file != "" {
		return excel.NewDrawReader(cfg.Shape(), file).ReadDraws()
	}
	if drawRepo != nil {
		return drawRepo.History(ctx, cfg.Shape())
	}
	return nil, fmt.Errorf("no draw history: pass a file argument, set paths.history_file, or configure a database")
}

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [file]",
		Short: "Read a draw history file, validate it, and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			file := ""
			if len(args) > 0 {
				file = args[0]
			}
			if file == "" {
				file = cfg.Paths.HistoryFile
			}
			if file == "" {
				return fmt.Errorf("no history file: pass a file argument or set paths.history_file")
			}

			draws, err := excel.NewDrawReader(cfg.Shape(), file).ReadDraws()
			if err != nil {
				return err
			}
			fmt.Printf("Validated %d draws from %s\n", len(draws), file)

			drawRepo, _, err := repos(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if drawRepo == nil {
				fmt.Println("No database configured; nothing persisted.")
				return nil
			}
			if err := drawRepo.SaveAll(cmd.Context(), cfg.Shape(), draws); err != nil {
				return err
			}
			fmt.Printf("Stored %d draws for shape %s\n", len(draws), cfg.Shape().Slug)
			return nil
		},
	}
}

func newFeaturesCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "features [file]",
		Short: "Extract the observed feature table and write it as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			drawRepo, _, err := repos(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			file := ""
			if len(args) > 0 {
				file = args[0]
			}
			draws, err := loadHistory(cmd.Context(), cfg, file, drawRepo)
			if err != nil {
				return err
			}

			service, err := app.NewAnalysisService(cfg.Shape(), nil)
			if err != nil {
				return err
			}
			table, err := service.ExtractTable(draws)
			if err != nil {
				return err
			}

			payload := map[string]any{
				"shape":    cfg.Shape().Slug,
				"features": table.FeatureNames,
				"contests": table.RowIDs,
				"rows":     table.Rows,
			}
			if out == "" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			}
			return writeJSON(out, payload)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")
	return cmd
}

func newSimulateCmd() *cobra.Command {
	var nDraws int
	var out string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate the Monte Carlo baseline and write its summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if nDraws < 1 {
				return fmt.Errorf("--draws must be positive")
			}

			simulator, err := montecarlo.New(cfg.Shape())
			if err != nil {
				return err
			}
			simulator.OnProgress = progressLogger(cfg.Analysis.NSimulations)

			baseline, err := simulator.Run(cmd.Context(), montecarlo.Params{
				NSimulations:        cfg.Analysis.NSimulations,
				NDrawsPerSimulation: nDraws,
				Seed:                cfg.Analysis.Seed,
				Shards:              cfg.Analysis.Shards,
				RawSampleSize:       cfg.Analysis.RawSampleSize,
			})
			if err != nil {
				return err
			}

			payload := map[string]any{
				"shape": cfg.Shape().Slug,
				"stats": baseline.Stats,
			}
			if out == "" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			}
			return writeJSON(out, payload)
		},
	}

	cmd.Flags().IntVar(&nDraws, "draws", 1000, "Draws per simulation")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate observed features against a fresh baseline and print the report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			drawRepo, _, err := repos(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			file := ""
			if len(args) > 0 {
				file = args[0]
			}
			draws, err := loadHistory(cmd.Context(), cfg, file, drawRepo)
			if err != nil {
				return err
			}

			service, err := app.NewAnalysisService(cfg.Shape(), nil)
			if err != nil {
				return err
			}
			service.Simulator().OnProgress = progressLogger(cfg.Analysis.NSimulations)

			correction, err := features.ParseCorrectionMethod(cfg.Analysis.Correction)
			if err != nil {
				return err
			}
			result, err := service.Run(cmd.Context(), app.AnalysisRequest{
				Draws: draws,
				Simulation: montecarlo.Params{
					NSimulations:        cfg.Analysis.NSimulations,
					NDrawsPerSimulation: cfg.Analysis.NDrawsPerSimulation,
					Seed:                cfg.Analysis.Seed,
					Shards:              cfg.Analysis.Shards,
					RawSampleSize:       cfg.Analysis.RawSampleSize,
				},
				Validation: validate.Config{
					Alpha:               cfg.Analysis.Alpha,
					Correction:          correction,
					EffectSizeThreshold: cfg.Analysis.EffectSizeThreshold,
				},
			})
			if err != nil {
				return err
			}

			if out == "" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result.Run.Report)
			}
			return writeJSON(out, result.Run.Report)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Report JSON output file (default stdout)")
	return cmd
}

func newRunCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:     "run-all [file]",
		Aliases: []string{"run"},
		Short:   "Run the full pipeline: extract, simulate, validate, report",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			drawRepo, runRepo, err := repos(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			file := ""
			if len(args) > 0 {
				file = args[0]
			}
			draws, err := loadHistory(cmd.Context(), cfg, file, drawRepo)
			if err != nil {
				return err
			}

			service, err := app.NewAnalysisService(cfg.Shape(), runRepo)
			if err != nil {
				return err
			}
			service.Simulator().OnProgress = progressLogger(cfg.Analysis.NSimulations)

			correction, err := features.ParseCorrectionMethod(cfg.Analysis.Correction)
			if err != nil {
				return err
			}
			result, err := service.Run(cmd.Context(), app.AnalysisRequest{
				Draws: draws,
				Simulation: montecarlo.Params{
					NSimulations:        cfg.Analysis.NSimulations,
					NDrawsPerSimulation: cfg.Analysis.NDrawsPerSimulation,
					Seed:                cfg.Analysis.Seed,
					Shards:              cfg.Analysis.Shards,
					RawSampleSize:       cfg.Analysis.RawSampleSize,
				},
				Validation: validate.Config{
					Alpha:               cfg.Analysis.Alpha,
					Correction:          correction,
					EffectSizeThreshold: cfg.Analysis.EffectSizeThreshold,
				},
			})
			if err != nil {
				return err
			}

			summary := result.Run.Report.Summary
			fmt.Printf("Run %s: %d/%d features significant (%s, alpha=%g) in %dms\n",
				result.Run.ID, summary.SignificantCount, summary.TestedCount,
				summary.CorrectionMethod, summary.Alpha, result.RuntimeMs)

			if out == "" {
				out = filepath.Join(cfg.Paths.ReportDir, "report_"+string(result.Run.ID)+".md")
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, []byte(report.Markdown(result.Run)), 0o644); err != nil {
				return err
			}
			fmt.Printf("Report written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Report output path (default reports/report_<run-id>.md)")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var count int
	var seed int64
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic uniform draw history CSV for development",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			gen := testkit.NewGenerator(cfg.Shape(), testkit.GeneratorConfig{
				DrawCount: count,
				StartDate: time.Date(1996, 3, 11, 0, 0, 0, 0, time.UTC),
				Seed:      seed,
			})
			draws, err := gen.Generate()
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			w := csv.NewWriter(f)
			header := []string{"contest", "date"}
			for i := 1; i <= cfg.Shape().DrawSize; i++ {
				header = append(header, "ball"+strconv.Itoa(i))
			}
			if err := w.Write(header); err != nil {
				return err
			}
			for _, d := range draws {
				row := []string{strconv.Itoa(d.Contest), d.Date.Format("2006-01-02")}
				for _, n := range d.Numbers {
					row = append(row, strconv.Itoa(n))
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
			w.Flush()
			if err := w.Error(); err != nil {
				return err
			}
			fmt.Printf("Wrote %d synthetic draws to %s\n", len(draws), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 1000, "Number of draws to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	cmd.Flags().StringVar(&out, "out", "history.csv", "Output CSV path")
	return cmd
}

func progressLogger(total int) func(completed, total int) {
	step := total / 10
	if step == 0 {
		step = 1
	}
	return func(completed, total int) {
		if completed%step == 0 || completed == total {
			log.Printf("[Simulator] %d/%d simulations", completed, total)
		}
	}
}

func writeJSON(path string, payload any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
