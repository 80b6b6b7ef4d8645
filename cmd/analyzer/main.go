package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tfcli/internal/config"
	"tfcli/internal/feedback"
	"tfcli/internal/infrastructure"
	"tfcli/internal/ingest"
	"tfcli/internal/report"
	"tfcli/internal/validation"
	"tfcli/pkg/contracts"
	"tfcli/pkg/contracts/domain"
)

func main() {
	configFile := flag.String("config", "", "path to config file (defaults to config.yaml if present)")
	inputFile := flag.String("input", "", "feedback export to analyze (overrides config)")
	outputDir := flag.String("out", "", "output directory for report artifacts (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	// .env is optional; real env vars still win inside envconfig
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if *inputFile != "" {
		cfg.Input.File = *inputFile
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogger()

	ctx := infrastructure.ContextWithRunID(context.Background())
	runID := infrastructure.GetRunID(ctx)
	logger = infrastructure.WithComponent(infrastructure.LoggerWithContext(ctx), "analyzer")

	// Fail on a missing or unusable input before anything is written
	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputFile(cfg.Input.File); err != nil {
		logger.Error("Input validation failed", "error", err)
		os.Exit(1)
	}

	paths := config.NewPaths(cfg)
	if err := validator.ValidateOutputDir(paths.OutputDir); err != nil {
		logger.Error("Output directory validation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Analyzing feedback export", "input", cfg.Input.File)

	parser := ingest.NewParser(cfg, logger)
	parsed, err := parser.ParseFile(ctx, cfg.Input.File)
	if err != nil {
		logger.Error("Failed to parse input", "error", err)
		os.Exit(1)
	}

	aggregator := feedback.NewAggregator(cfg, logger)
	aggregated := aggregator.Aggregate(ctx, parsed.Records)

	result := feedback.BuildResult(feedback.BuildInput{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Aggregates:  aggregated,
		Issues:      parsed.Issues,
		Columns:     parsed.Columns,
		RowsRead:    parsed.RowsRead,
	})

	// Render every projection before writing any of them, so a rendering
	// failure leaves no partial artifact set behind
	artifacts := []struct {
		format report.Format
		path   string
	}{
		{report.FormatJSON, paths.ResultsJSONPath()},
		{report.FormatCSV, paths.ResultsCSVPath()},
		{report.FormatHTML, paths.ResultsHTMLPath()},
	}

	payloads := make([][]byte, len(artifacts))
	for i, artifact := range artifacts {
		payload, err := report.Render(result, artifact.format)
		if err != nil {
			logger.Error("Failed to render report",
				"format", string(artifact.format),
				"error", err)
			os.Exit(1)
		}
		payloads[i] = payload
	}

	for i, artifact := range artifacts {
		if err := report.WriteArtifact(artifact.path, payloads[i]); err != nil {
			logger.Error("Failed to write report",
				"path", artifact.path,
				"error", err)
			os.Exit(1)
		}
		logger.Info("Report written",
			"format", string(artifact.format),
			"path", artifact.path)
	}

	logger.Info("Analysis complete",
		"trainers", len(result.Trainers),
		"rows", result.RowsRead,
		"accepted", result.Accepted,
		"rejected", result.Rejected)

	printSummary(result)
}

// printSummary prints a console table of the per-trainer results
func printSummary(result domain.AnalysisResult) {
	fmt.Println("\n=== TRAINER FEEDBACK SUMMARY ===")
	fmt.Println("Trainer                        | Responses |  Mean |   Min |   Max | Trend  | Bucket")
	fmt.Println("-------------------------------|-----------|-------|-------|-------|--------|----------------")

	for _, ta := range result.Trainers {
		trend := "     -"
		if ta.Trend != nil {
			trend = fmt.Sprintf("%+6.2f", ta.Trend.Improvement)
		}
		fmt.Printf("%-30s | %9d | %5.2f | %5.2f | %5.2f | %s | %s\n",
			truncate(ta.Trainer, 30), ta.Stats.Count,
			ta.Stats.Mean, ta.Stats.Min, ta.Stats.Max, trend, ta.Bucket)
	}

	fmt.Printf("\nOverall: %d responses", result.Overall.Count)
	if result.Overall.Count > 0 {
		fmt.Printf(", mean %.2f", result.Overall.Mean)
	}
	fmt.Printf("\nRows read: %d, accepted: %d, rejected: %d\n",
		result.RowsRead, result.Accepted, result.Rejected)

	if len(result.Issues) > 0 {
		fmt.Println("\nParse issues:")
		for _, issue := range result.Issues {
			fmt.Printf("  %s  %-16s %s\n", issue.RowRef, issue.Reason, issue.Detail)
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
