package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/comparador-racao/backend/internal/domain"
)

// Default output file names
const (
	ProductsFile      = "products.json"
	FilterOptionsFile = "filter-options.json"
)

// FileSink writes the catalog as pretty-printed JSON files into a directory
type FileSink struct {
	dir string
}

// NewFileSink creates a sink writing into dir
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) Name() string {
	return "json:" + s.dir
}

// Save writes products.json then filter-options.json. Each file is replaced
// atomically, so readers never observe a partial catalog.
func (s *FileSink) Save(ctx context.Context, products []domain.Product, options domain.FilterOptions) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}

	if err := writeJSONAtomic(filepath.Join(s.dir, ProductsFile), products); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeJSONAtomic(filepath.Join(s.dir, FilterOptionsFile), options)
}

func writeJSONAtomic(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
