package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"tfcli/internal/config"
	"tfcli/internal/infrastructure"
	"tfcli/internal/outreach"
	"tfcli/internal/report"
	"tfcli/pkg/contracts"
	"tfcli/pkg/contracts/domain"
)

func main() {
	configFile := flag.String("config", "", "path to config file (defaults to config.yaml if present)")
	resultsFile := flag.String("results", "", "analysis results JSON to read (defaults to <output dir>/results.json)")
	outputDir := flag.String("out", "", "output directory for the drafts artifact (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
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
	logger = infrastructure.WithComponent(infrastructure.LoggerWithContext(ctx), "outreach")

	paths := config.NewPaths(cfg)
	if *resultsFile == "" {
		*resultsFile = paths.ResultsJSONPath()
	}

	logger.Info("Loading analysis results", "path", *resultsFile)
	data, err := os.ReadFile(*resultsFile)
	if err != nil {
		logger.Error("Failed to read analysis results",
			"path", *resultsFile,
			"hint", "run the analyzer first to generate results.json",
			"error", err)
		os.Exit(1)
	}

	result, err := report.ParseJSON(data)
	if err != nil {
		logger.Error("Failed to decode analysis results", "error", err)
		os.Exit(1)
	}
	if result.FormatVersion != contracts.DataFormatVersion {
		logger.Warn("Results were written by a different format version",
			"found", result.FormatVersion,
			"expected", contracts.DataFormatVersion)
	}

	templateText, err := cfg.OutreachTemplate()
	if err != nil {
		logger.Error("Failed to load outreach template", "error", err)
		os.Exit(1)
	}

	engine := outreach.NewEngine(cfg, templateText, logger)
	drafts := engine.GenerateDrafts(ctx, result)

	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create output directory", "error", err)
		os.Exit(1)
	}

	outputPath := paths.OutreachJSONPath()
	payload, err := encodeDrafts(drafts)
	if err != nil {
		logger.Error("Failed to encode drafts", "error", err)
		os.Exit(1)
	}
	if err := report.WriteArtifact(outputPath, payload); err != nil {
		logger.Error("Failed to write drafts", "path", outputPath, "error", err)
		os.Exit(1)
	}

	logger.Info("Outreach drafts written",
		"path", outputPath,
		"drafts", len(drafts))

	printDrafts(drafts)
}

func encodeDrafts(drafts []domain.OutreachDraft) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(drafts); err != nil {
		return nil, fmt.Errorf("encode drafts: %w", err)
	}
	return buf.Bytes(), nil
}

// printDrafts prints each draft to the console for manual review; sending
// is always a human decision
func printDrafts(drafts []domain.OutreachDraft) {
	if len(drafts) == 0 {
		fmt.Println("\nNo trainers matched the outreach inclusion predicate.")
		return
	}

	for i, draft := range drafts {
		fmt.Printf("\n%s\n", divider)
		fmt.Printf("DRAFT %d/%d\n", i+1, len(drafts))
		fmt.Printf("TO:      %s\n", draft.Trainer)
		fmt.Printf("SUBJECT: %s\n", draft.Subject)
		fmt.Printf("\n%s\n", draft.Body)
		if draft.EvidenceRow != "" {
			fmt.Printf("\nEvidence quote from row %s\n", draft.EvidenceRow)
		}
		if len(draft.Unresolved) > 0 {
			fmt.Printf("Needs manual personalization: %v\n", draft.Unresolved)
		}
	}
	fmt.Printf("%s\n", divider)
	fmt.Printf("%d draft(s) ready for review. Nothing has been sent.\n", len(drafts))
}

const divider = "================================================================"
