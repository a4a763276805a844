package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"refund-evaluator/config"
	"refund-evaluator/models"
	"refund-evaluator/report"
	"refund-evaluator/services"
	"refund-evaluator/storage"
	"refund-evaluator/utils"
)

func main() {
	if err := rootCmd(config.Load()).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refund-evaluator",
		Short: "Evaluate customer refund requests against the refund policy",
		Long: "refund-evaluator reads a batch of customer records, normalizes their US or European " +
			"dates, and reports whether each refund request falls within its allowed window.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := utils.NewLoggerWithLevel(cfg.LogLevel)
			if err := run(cmd.Context(), cfg, logger); err != nil {
				logger.Error("%v", err)
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.InputPath, "input", "i", cfg.InputPath, "Customer records file (.csv, .yaml, .json). Empty uses the built-in batch.")
	flags.StringVar(&cfg.CSVOutputPath, "csv-out", cfg.CSVOutputPath, "Where to write the results CSV. Empty disables it.")
	flags.StringVar(&cfg.HTMLOutputPath, "html-out", cfg.HTMLOutputPath, "Where to write the HTML report. Empty disables it.")
	flags.StringVar(&cfg.PDFOutputPath, "pdf-out", cfg.PDFOutputPath, "Where to write the PDF report. Requires --html-out and Chrome.")
	flags.BoolVar(&cfg.StoreResults, "store", cfg.StoreResults, "Persist results to PostgreSQL.")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, `Log level: "debug", "info", "warn" or "error".`)

	return cmd
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	runID := uuid.New()
	logger.Info("=== Refund evaluation %s starting ===", runID)

	loader := storage.NewLoader(logger)
	var (
		raw []*models.RawCustomer
		err error
	)
	if cfg.InputPath != "" {
		raw, err = loader.LoadFile(cfg.InputPath)
	} else {
		raw, err = loader.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("load customers: %w", err)
	}

	processor := services.NewProcessor(logger,
		services.NewNormalizer(logger),
		services.NewEvaluator(services.DefaultTOSCutoff))
	result := processor.Process(raw)

	reporter := services.NewReporter(logger)
	summary := reporter.Summarize(result)
	reporter.Print(result, summary)

	if cfg.CSVOutputPath != "" {
		if err := writeResults(ctx, cfg.CSVOutputPath, runID, result.Evaluations); err != nil {
			logger.Error("CSV write failed: %v", err)
		} else {
			logger.Info("Results saved to %s", cfg.CSVOutputPath)
		}
	}

	if cfg.HTMLOutputPath != "" {
		page := report.Page{
			Title:       "Refund request evaluation",
			RunID:       runID,
			Evaluations: result.Evaluations,
			Failures:    result.Failures,
			Summary:     summary,
		}
		if err := report.WriteHTML(cfg.HTMLOutputPath, page); err != nil {
			logger.Error("HTML report failed: %v", err)
		} else {
			logger.Info("HTML report saved to %s", cfg.HTMLOutputPath)

			if cfg.PDFOutputPath != "" {
				exp := report.NewPDFExporter(cfg.ChromeBin, logger)
				if err := exp.Export(ctx, cfg.HTMLOutputPath, cfg.PDFOutputPath); err != nil {
					logger.Error("PDF export failed: %v", err)
				}
			}
		}
	}

	if cfg.StoreResults {
		if err := storeResults(ctx, cfg, logger, runID, result.Evaluations); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else {
			logger.Info("Results stored in PostgreSQL (table: refund_evaluations, run %s)", runID)
		}
	}

	return nil
}

func writeResults(ctx context.Context, path string, runID uuid.UUID, evals []*models.Evaluation) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Write(ctx, runID, evals)
}

func storeResults(ctx context.Context, cfg *config.Config, logger *utils.Logger, runID uuid.UUID, evals []*models.Evaluation) error {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pw, err := storage.NewPostgresWriter(connectCtx, cfg.DSN(), &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer pw.Close()

	return pw.Write(ctx, runID, evals)
}
