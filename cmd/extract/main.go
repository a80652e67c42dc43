package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/docextract/internal/extract"
	"github.com/joseph-ayodele/docextract/internal/pipeline"
	"github.com/joseph-ayodele/docextract/internal/provider"
	"github.com/joseph-ayodele/docextract/internal/registry"
	"github.com/joseph-ayodele/docextract/internal/sink"
	"github.com/joseph-ayodele/docextract/internal/tablezone"
)

// One-shot extraction: run a single document through the pipeline and print
// the results as JSON. Optionally store them in a local sqlite file and/or
// write an XLSX report.
func main() {
	_ = godotenv.Load()

	var (
		regPath    = flag.String("registry", "companies.json", "path to the registry config file")
		multiPage  = flag.Bool("multipage", false, "use the asynchronous multi-page flow")
		sqlitePath = flag.String("sqlite", "", "store results in this sqlite file")
		xlsxPath   = flag.String("xlsx", "", "write an XLSX report to this path")
		headers    = flag.String("headers", "", "comma-separated table header labels for line-item reconstruction")
		timeout    = flag.Duration("timeout", 5*time.Minute, "overall processing timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "extract [flags] <document-uri>")
		os.Exit(2)
	}
	docURI := flag.Arg(0)

	baseURL := os.Getenv("ANALYZER_URL")
	if baseURL == "" {
		logger.Error("ANALYZER_URL env var is required")
		os.Exit(2)
	}

	reg, err := registry.OpenFile(*regPath)
	if err != nil {
		logger.Error("load registry config", "path", *regPath, "error", err)
		os.Exit(1)
	}

	analyzer := provider.NewHTTPClient(baseURL, logger,
		provider.WithAPIKey(os.Getenv("ANALYZER_API_KEY")),
		provider.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	)
	fields := extract.NewFieldExtractor(logger)

	var tables *tablezone.Extractor
	if *headers != "" {
		var labels []string
		for _, h := range strings.Split(*headers, ",") {
			if h = strings.TrimSpace(h); h != "" {
				labels = append(labels, h)
			}
		}
		tables = tablezone.NewExtractor(labels, nil, logger)
	}

	var orch pipeline.Orchestrator
	if *multiPage {
		orch = pipeline.NewAsyncJob(pipeline.AsyncConfig{}, analyzer, reg, fields, tables, logger)
	} else {
		orch = pipeline.NewSinglePage(analyzer, reg, fields, tables, logger)
	}

	var resSink pipeline.Sink
	if *sqlitePath != "" {
		s, err := sink.OpenSQLite(*sqlitePath, logger)
		if err != nil {
			logger.Error("open sqlite sink", "path", *sqlitePath, "error", err)
			os.Exit(1)
		}
		defer func() { _ = s.Close() }()
		resSink = s
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	proc := pipeline.NewProcessor(orch, resSink, logger)
	results, err := proc.ProcessDocument(ctx, docURI)
	if err != nil {
		logger.Error("extraction failed", "doc", docURI, "error", err)
		os.Exit(1)
	}

	if *xlsxPath != "" {
		data, err := sink.BuildResultsXLSX(docURI, results)
		if err != nil {
			logger.Error("build xlsx report", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxPath, data, 0o644); err != nil {
			logger.Error("write xlsx report", "path", *xlsxPath, "error", err)
			os.Exit(1)
		}
		logger.Info("report written", "path", *xlsxPath)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		logger.Error("encode results", "error", err)
		os.Exit(1)
	}
}
