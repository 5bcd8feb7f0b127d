// Package store persists anomaly detection results in SQLite.
package store

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"sjsage522/propertydealworker/pkg/errors"
	"sjsage522/propertydealworker/services/classifier"
)

const schema = `
CREATE TABLE IF NOT EXISTS property (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	district        TEXT,
	price           REAL,
	area            REAL,
	price_per_meter REAL,
	category        TEXT,
	is_anomaly      BOOLEAN NOT NULL DEFAULT 0,
	anomaly_score   REAL NOT NULL DEFAULT 0,
	date_added      DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS property_date_added ON property (date_added);
`

// Property is one stored row
type Property struct {
	ID            int64     `json:"id"`
	District      string    `json:"district"`
	Price         *float64  `json:"price"`
	Area          *float64  `json:"area"`
	PricePerMeter *float64  `json:"price_per_meter"`
	Category      *string   `json:"category"`
	IsAnomaly     bool      `json:"is_anomaly"`
	AnomalyScore  float64   `json:"anomaly_score"`
	DateAdded     time.Time `json:"date_added"`
}

// Store persists anomaly results
type Store interface {
	// SaveAnomalyResults inserts every result in one transaction and
	// returns the number of rows written
	SaveAnomalyResults(ctx context.Context, results []classifier.AnomalyResult, addedAt time.Time) (int, error)

	// Recent returns up to limit rows, newest first
	Recent(ctx context.Context, limit int) ([]Property, error)

	Close() error
}

// SQLiteStore implements Store on a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// Open opens (or creates) the database at path and ensures the schema
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewStorage("failed to open database", err)
	}
	// sqlite allows one writer; a single connection also keeps ":memory:" shared
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.NewStorage("failed to create schema", err)
	}
	return &SQLiteStore{db: db}, nil
}

// SaveAnomalyResults implements Store
func (s *SQLiteStore) SaveAnomalyResults(ctx context.Context, results []classifier.AnomalyResult, addedAt time.Time) (int, error) {
	if len(results) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.NewStorage("failed to begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO property (district, price, area, price_per_meter, category, is_anomaly, anomaly_score, date_added)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.NewStorage("failed to prepare insert", err)
	}
	defer stmt.Close()

	for _, r := range results {
		var category sql.NullString
		if r.Category != "" {
			category = sql.NullString{String: r.Category, Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			r.District,
			nullFloat(r.Price),
			nullFloat(r.Area),
			nullFloat(r.PricePerMeter),
			category,
			r.IsAnomaly,
			r.AnomalyScore,
			addedAt.UTC(),
		)
		if err != nil {
			return 0, errors.NewStorage("failed to insert property", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.NewStorage("failed to commit", err)
	}
	return len(results), nil
}

// Recent implements Store
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Property, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, district, price, area, price_per_meter, category, is_anomaly, anomaly_score, date_added
		FROM property
		ORDER BY date_added DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.NewStorage("failed to query properties", err)
	}
	defer rows.Close()

	out := []Property{}
	for rows.Next() {
		var (
			p                       Property
			district, category      sql.NullString
			price, area, pricePerM2 sql.NullFloat64
		)
		if err := rows.Scan(&p.ID, &district, &price, &area, &pricePerM2, &category, &p.IsAnomaly, &p.AnomalyScore, &p.DateAdded); err != nil {
			return nil, errors.NewStorage("failed to scan property", err)
		}
		p.District = district.String
		p.Price = floatPtr(price)
		p.Area = floatPtr(area)
		p.PricePerMeter = floatPtr(pricePerM2)
		if category.Valid {
			p.Category = &category.String
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorage("failed to read properties", err)
	}
	return out, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
