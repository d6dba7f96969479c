package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/comparador-racao/backend/internal/domain"
)

var errMissingLink = errors.New("missing link_origem")

// PipelineConfig holds configuration for the enrichment pipeline
type PipelineConfig struct {
	InputPath          string
	EnableDebugLogging bool
}

// PipelineReport summarizes one enrichment run
type PipelineReport struct {
	Lines      int
	Accepted   int
	Skipped    int
	RenamedIDs int
	Products   []domain.Product
	Options    domain.FilterOptions
}

// Pipeline turns raw scraped JSONL records into the enriched catalog
type Pipeline struct {
	inputPath string
	sinks     []domain.CatalogSink
	debug     bool
}

// NewPipeline creates a pipeline writing to sinks in order
func NewPipeline(config PipelineConfig, sinks ...domain.CatalogSink) *Pipeline {
	return &Pipeline{
		inputPath: config.InputPath,
		sinks:     sinks,
		debug:     config.EnableDebugLogging,
	}
}

// Run reads the whole input, enriches every parseable record and only then
// hands the complete catalog to the sinks. A missing input file aborts the run
// before anything is written; malformed lines are logged and skipped.
func (p *Pipeline) Run(ctx context.Context) (*PipelineReport, error) {
	content, err := os.ReadFile(p.inputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInputNotFound, p.inputPath)
		}
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	report := p.Enrich(content)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, sink := range p.sinks {
		if err := sink.Save(ctx, report.Products, report.Options); err != nil {
			return report, fmt.Errorf("failed to write %s output: %w", sink.Name(), err)
		}
		log.Printf("[ENRICH] Wrote %d products to %s", len(report.Products), sink.Name())
	}

	return report, nil
}

// Enrich processes newline-delimited JSON records held in memory
func (p *Pipeline) Enrich(content []byte) *PipelineReport {
	report := &PipelineReport{}
	products := make([]domain.Product, 0)

	lines := bytes.Split(bytes.TrimSpace(content), []byte("\n"))
	for index, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		report.Lines++

		product, err := EnrichRecord(line, index)
		if err != nil {
			log.Printf("[ENRICH] Skipping line %d: %v", index+1, err)
			report.Skipped++
			continue
		}
		if p.debug {
			log.Printf("[ENRICH] Line %d: id=%s quality=%d costBenefit=%.1f",
				index+1, product.ID, product.Analise.Qualidade, product.Analise.CustoBeneficio)
		}
		products = append(products, *product)
	}

	report.RenamedIDs = AssignUniqueIDs(products)
	report.Accepted = len(products)
	report.Products = products
	report.Options = domain.NewFilterOptions(products)

	log.Printf("[ENRICH] Processed %d lines: %d accepted, %d skipped, %d ids disambiguated",
		report.Lines, report.Accepted, report.Skipped, report.RenamedIDs)

	return report
}

// EnrichRecord parses one JSON line and attaches id and analysis.
// index is the zero-based line position, used for the fallback id.
func EnrichRecord(line []byte, index int) (*domain.Product, error) {
	var raw domain.RawProduct
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if raw.LinkOrigem == "" {
		return nil, errMissingLink
	}

	analysis := Analyze(&raw)
	product := &domain.Product{
		RawProduct: raw,
		ID:         DeriveID(raw.LinkOrigem, index),
		Analise:    &analysis,
	}

	if w, ok := ExtractWeight(deref(raw.Peso)); ok && w > 0 {
		product.PesoNormalizado = &w
	}
	if perKg, ok := PricePerKg(&raw); ok {
		product.PrecoNormalizado = &perKg
	} else {
		log.Printf("[ENRICH] Line %d: %s unparseable, cost-benefit defaulted to %.0f",
			index+1, unparseableCostField(&raw), neutralCostBenefit)
	}
	if missing := ExtractGuaranteedLevels(raw.Especificacoes).Missing(); len(missing) > 0 {
		log.Printf("[ENRICH] Line %d: estimated nutrients: %s", index+1, strings.Join(missing, ", "))
	}

	return product, nil
}

// AssignUniqueIDs disambiguates colliding ids in place by appending "-2", "-3", ...
// in list order. The first occurrence keeps its id. Returns the number of renamed products.
func AssignUniqueIDs(products []domain.Product) int {
	taken := make(map[string]bool, len(products))
	for i := range products {
		taken[products[i].ID] = true
	}

	seen := make(map[string]bool, len(products))
	renamed := 0
	for i := range products {
		id := products[i].ID
		if !seen[id] {
			seen[id] = true
			continue
		}

		for n := 2; ; n++ {
			candidate := id + "-" + strconv.Itoa(n)
			if !taken[candidate] {
				log.Printf("[ENRICH] Duplicate id %q (%s) renamed to %q", id, products[i].LinkOrigem, candidate)
				products[i].ID = candidate
				taken[candidate] = true
				seen[candidate] = true
				renamed++
				break
			}
		}
	}
	return renamed
}
