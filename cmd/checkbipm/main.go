// Command checkbipm checks BIPM clock files and performs quickview
// diagnostics: it parses clock-value and jump records, step-corrects and
// differences the per-clock series, exports the dataset as CSV, and can
// serve it over a JSON API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/TheBIPM/check-bipm-data/internal/config"
	"github.com/TheBIPM/check-bipm-data/internal/dataprocessing"
	"github.com/TheBIPM/check-bipm-data/internal/exporter"
	"github.com/TheBIPM/check-bipm-data/internal/infrastructure"
	transport "github.com/TheBIPM/check-bipm-data/internal/transport/http"
	"github.com/TheBIPM/check-bipm-data/pkg/contracts"
)

func main() {
	configFile := flag.String("config", "", "optional YAML config file")
	outDir := flag.String("out", "", "output directory for CSV reports (overrides config)")
	serveAddr := flag.String("serve", "", "serve the quickview API on this address after checking (e.g. :8600)")
	verbose := flag.Bool("v", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionString())
		return
	}

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: checkbipm [flags] file [file ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *serveAddr != "" {
		cfg.Server.Addr = *serveAddr
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	// One trace ID per run, stamped on every log record.
	ctx := infrastructure.ContextWithTraceID(context.Background())

	metrics := infrastructure.NewMetrics()
	diags := dataprocessing.NewCollector(logger, metrics)
	batch := dataprocessing.NewBatch(logger, diags, metrics)

	logger.InfoContext(ctx, "starting clock file check",
		slog.String("version", contracts.Version),
		slog.Int("files", len(files)))

	if err := batch.Run(ctx, files); err != nil {
		logger.ErrorContext(ctx, "batch aborted", "error", err)
		os.Exit(1)
	}

	dataset := batch.Dataset()
	logger.InfoContext(ctx, "check complete",
		slog.Int("clock_records", len(dataset.Records)),
		slog.Int("jump_records", len(dataset.Jumps)),
		slog.Int("clocks", len(dataset.Clocks)),
		slog.Int("warnings", diags.Count(dataprocessing.SeverityWarning)),
		slog.Int("errors", diags.Count(dataprocessing.SeverityError)))

	writer := exporter.NewCSVWriter(cfg.Output.Dir, logger)
	if err := writer.WriteDataset(dataset); err != nil {
		logger.ErrorContext(ctx, "CSV export failed", "error", err)
		os.Exit(1)
	}

	if *serveAddr != "" {
		srv := transport.NewServer(cfg.Server, logger, dataset, batch.Diagnostics(), metrics)
		serveCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := srv.ListenAndServe(serveCtx); err != nil {
			logger.ErrorContext(ctx, "quickview server failed", "error", err)
			os.Exit(1)
		}
	}
}
