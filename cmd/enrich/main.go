package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/comparador-racao/backend/internal/domain"
	"github.com/comparador-racao/backend/internal/infrastructure/catalog"
	"github.com/comparador-racao/backend/internal/infrastructure/export"
	"github.com/comparador-racao/backend/internal/usecase"
)

type options struct {
	Input     string `long:"input" short:"i" env:"ENRICH_INPUT" default:"data/cobasi-products.jsonl" description:"Scraped products, one JSON object per line"`
	OutputDir string `long:"output-dir" short:"o" env:"ENRICH_OUTPUT_DIR" default:"data" description:"Directory for products.json and filter-options.json"`
	SQLite    string `long:"sqlite" env:"ENRICH_SQLITE" description:"Also write a SQLite snapshot to this path"`
	XLSX      string `long:"xlsx" env:"ENRICH_XLSX" description:"Also write a spreadsheet snapshot to this path"`
	Debug     bool   `long:"debug" env:"ENRICH_DEBUG" description:"Log the scores of every record"`
}

// parseOptions returns nil options when help was requested
func parseOptions(args []string) (*options, error) {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, err
	}
	return &opts, nil
}

// buildSinks lists the outputs in write order: JSON catalog first, snapshots after
func buildSinks(opts *options) []domain.CatalogSink {
	sinks := []domain.CatalogSink{catalog.NewFileSink(opts.OutputDir)}
	if opts.SQLite != "" {
		sinks = append(sinks, export.NewSQLiteSink(opts.SQLite))
	}
	if opts.XLSX != "" {
		sinks = append(sinks, export.NewXLSXSink(opts.XLSX))
	}
	return sinks
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if opts == nil {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("[ENRICH] Reading %s", opts.Input)
	pipeline := usecase.NewPipeline(usecase.PipelineConfig{
		InputPath:          opts.Input,
		EnableDebugLogging: opts.Debug,
	}, buildSinks(opts)...)

	report, err := pipeline.Run(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrInputNotFound) {
			log.Printf("[ENRICH] Input file not found: %v", err)
		} else {
			log.Printf("[ENRICH] Enrichment failed: %v", err)
		}
		stop()
		os.Exit(1)
	}

	log.Printf("[ENRICH] Done: %d products, %d brands, %d species",
		report.Accepted, len(report.Options.Marcas), len(report.Options.Especies))
}
