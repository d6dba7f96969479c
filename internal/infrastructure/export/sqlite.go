package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/comparador-racao/backend/internal/domain"
)

const sqliteSchema = `
CREATE TABLE products (
  id TEXT PRIMARY KEY,
  nome TEXT,
  marca TEXT,
  especie TEXT,
  porte TEXT,
  idade TEXT,
  tipo TEXT,
  preco TEXT,
  peso TEXT,
  preco_kg REAL,
  peso_kg REAL,
  qualidade INTEGER,
  custobeneficio REAL,
  proteina REAL,
  gordura REAL,
  fibra REAL,
  umidade REAL,
  calcio REAL,
  fosforo REAL,
  link_origem TEXT NOT NULL,
  raw_json TEXT NOT NULL
);
CREATE INDEX idx_products_especie ON products(especie);
CREATE INDEX idx_products_marca ON products(marca);

CREATE TABLE filter_options (
  category TEXT NOT NULL,
  position INTEGER NOT NULL,
  value TEXT NOT NULL,
  PRIMARY KEY (category, position)
);
`

// SQLiteSink writes a queryable snapshot of the catalog into a fresh SQLite file
type SQLiteSink struct {
	path string
}

// NewSQLiteSink creates a sink writing to path. An existing file is replaced.
func NewSQLiteSink(path string) *SQLiteSink {
	return &SQLiteSink{path: path}
}

func (s *SQLiteSink) Name() string {
	return "sqlite:" + s.path
}

// Save builds the snapshot in a temp file and renames it over the target
func (s *SQLiteSink) Save(ctx context.Context, products []domain.Product, options domain.FilterOptions) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	tmpPath := s.path + ".tmp"
	if err := os.Remove(tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := writeSQLite(ctx, tmpPath, products, options); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.path)
}

func writeSQLite(ctx context.Context, path string, products []domain.Product, options domain.FilterOptions) error {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO products (
  id, nome, marca, especie, porte, idade, tipo, preco, peso, preco_kg, peso_kg,
  qualidade, custobeneficio, proteina, gordura, fibra, umidade, calcio, fosforo,
  link_origem, raw_json
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range products {
		p := &products[i]
		raw, err := json.Marshal(p.RawProduct)
		if err != nil {
			return fmt.Errorf("failed to encode product %s: %w", p.ID, err)
		}
		a := p.Analise
		if a == nil {
			a = &domain.Analysis{}
		}
		if _, err := stmt.ExecContext(ctx,
			p.ID, nullString(p.Nome), nullString(p.Marca), nullString(p.Especie),
			nullString(p.Porte), nullString(p.Idade), nullString(p.Tipo),
			nullString(p.Preco), nullString(p.Peso),
			nullFloat(p.PrecoNormalizado), nullFloat(p.PesoNormalizado),
			a.Qualidade, a.CustoBeneficio,
			a.Proteina, a.Gordura, a.Fibra, a.Umidade, a.Calcio, a.Fosforo,
			p.LinkOrigem, string(raw),
		); err != nil {
			return fmt.Errorf("failed to insert product %s: %w", p.ID, err)
		}
	}

	for _, c := range domain.Categories {
		for pos, v := range options.Values(c) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO filter_options (category, position, value) VALUES (?, ?, ?)`,
				string(c), pos, v,
			); err != nil {
				return fmt.Errorf("failed to insert filter option: %w", err)
			}
		}
	}

	return tx.Commit()
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
