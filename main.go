package main

import (
	"fmt"
	"os"

	"catalog-trends/config"
	"catalog-trends/loader"
	"catalog-trends/services"
	"catalog-trends/storage"
	"catalog-trends/utils"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:           "catalog-trends",
		Short:         "Analyze product co-purchase relationships in a catalog dump",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.DataPath, "data", cfg.DataPath, "path to the catalog metadata dump")
	f.IntVar(&cfg.TopProducts, "top", cfg.TopProducts, "number of most connected products to report")
	f.IntVar(&cfg.ClusterMinSize, "min-cluster", cfg.ClusterMinSize, "minimum products per trend cluster")
	f.IntVar(&cfg.ClusterSamples, "clusters", cfg.ClusterSamples, "number of trend clusters to show")
	f.IntVar(&cfg.Opportunities, "opportunities", cfg.Opportunities, "number of low competition products to report")
	f.StringVar(&cfg.ReportCSVPath, "csv", cfg.ReportCSVPath, "write the report to this CSV file")
	f.StringVar(&cfg.SQLitePath, "sqlite", cfg.SQLitePath, "store the report in this SQLite database")
	f.StringVar(&cfg.MetricsTextfile, "metrics-file", cfg.MetricsTextfile, "write Prometheus metrics to this file")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	return cmd
}

func run(cfg *config.Config) error {
	// ================== Bootstrap ====================
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Catalog Trend Analyzer")
	logger.Info("Top products: %d | Cluster min size: %d | Opportunities: %d",
		cfg.TopProducts, cfg.ClusterMinSize, cfg.Opportunities)

	metrics := utils.NewMetrics("catalog_trends")

	// =============== Loading ===================================
	dataset, err := loader.NewLoader(logger).Load(cfg.DataPath)
	if err != nil {
		logger.Error("Fatal error during data loading: %v", err)
		return err
	}
	stats := dataset.Stats()
	metrics.ObserveLoad(stats)

	// =========== Analysis ======================
	analyzer := services.NewAnalyzer(dataset, services.WithMaxOpportunityRank(cfg.MaxOpportunityRank))
	insightSvc := services.NewInsightService(logger, metrics, services.InsightLimits{
		TopProducts:           cfg.TopProducts,
		ClusterMinSize:        cfg.ClusterMinSize,
		ClusterSamples:        cfg.ClusterSamples,
		ClusterSampleProducts: cfg.ClusterSampleProducts,
		Opportunities:         cfg.Opportunities,
	})
	report := insightSvc.Generate(analyzer, stats)
	services.PrintInsightReport(report)

	// ========= Report sinks ============================
	for _, sink := range openSinks(cfg, logger) {
		if err := sink.SaveReport(report); err != nil {
			// Non-fatal: the report was already printed
			logger.Error("Failed to store report: %v", err)
		}
		if err := sink.Close(); err != nil {
			logger.Warn("Failed to close report sink: %v", err)
		}
	}

	// ==== Metrics ============================
	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("Failed to write metrics: %v", err)
		} else {
			logger.Info("Metrics written to: %s", cfg.MetricsTextfile)
		}
	}
	return nil
}

// openSinks opens every configured report store. Stores that fail to open
// are logged and skipped.
func openSinks(cfg *config.Config, logger *utils.Logger) []storage.ReportStorage {
	var sinks []storage.ReportStorage

	if cfg.ReportCSVPath != "" {
		sinks = append(sinks, storage.NewCSVWriter(cfg.ReportCSVPath, logger))
	}

	if cfg.SQLitePath != "" {
		if w, err := storage.NewSQLiteWriter(cfg.SQLitePath, logger); err != nil {
			logger.Error("SQLite report store unavailable: %v", err)
		} else if err := w.CreateTable(); err != nil {
			logger.Error("SQLite report store unavailable: %v", err)
			_ = w.Close()
		} else {
			sinks = append(sinks, w)
		}
	}

	if cfg.DatabaseURL != "" {
		if w, err := storage.NewPostgresWriter(cfg.DatabaseURL, cfg.DBMaxRetries, logger); err != nil {
			logger.Error("PostgreSQL report store unavailable: %v", err)
		} else if err := w.CreateTable(); err != nil {
			logger.Error("PostgreSQL report store unavailable: %v", err)
			_ = w.Close()
		} else {
			sinks = append(sinks, w)
		}
	}

	return sinks
}
