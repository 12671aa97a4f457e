package store

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/stratiq/diagnostic-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS reviews (
	id           TEXT PRIMARY KEY,
	company_name TEXT NOT NULL,
	industry     TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS kpi_inputs (
	review_id TEXT NOT NULL REFERENCES reviews(id),
	kpi_id    TEXT NOT NULL,
	value     REAL NOT NULL,
	PRIMARY KEY (review_id, kpi_id)
);

CREATE TABLE IF NOT EXISTS scores (
	review_id TEXT NOT NULL REFERENCES reviews(id),
	kpi_id    TEXT NOT NULL,
	raw_value REAL NOT NULL,
	score     INTEGER NOT NULL,
	pillar    TEXT NOT NULL,
	PRIMARY KEY (review_id, kpi_id)
);

CREATE INDEX IF NOT EXISTS idx_kpi_inputs_review ON kpi_inputs(review_id);
CREATE INDEX IF NOT EXISTS idx_scores_review ON scores(review_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateReview(ctx context.Context, companyName, industry string) (*model.Review, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reviews (id, company_name, industry, created_at) VALUES (?, ?, ?, ?)`,
		id, companyName, industry, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert review")
	}

	return &model.Review{
		ID:          id,
		CompanyName: companyName,
		Industry:    industry,
		CreatedAt:   now,
	}, nil
}

func (s *SQLiteStore) GetReview(ctx context.Context, reviewID string) (*model.Review, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, company_name, industry, created_at FROM reviews WHERE id = ?`,
		reviewID,
	)

	var r model.Review
	err := row.Scan(&r.ID, &r.CompanyName, &r.Industry, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(model.ErrInvalidReview, "sqlite: review %s", reviewID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan review")
	}
	return &r, nil
}

func (s *SQLiteStore) ListReviews(ctx context.Context, limit int) ([]model.Review, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company_name, industry, created_at FROM reviews ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reviews")
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.CompanyName, &r.Industry, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan review row")
		}
		reviews = append(reviews, r)
	}
	return reviews, eris.Wrap(rows.Err(), "sqlite: list reviews iterate")
}

func (s *SQLiteStore) SaveKPIValue(ctx context.Context, reviewID, kpiID string, value float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kpi_inputs (review_id, kpi_id, value) VALUES (?, ?, ?)
		 ON CONFLICT(review_id, kpi_id) DO UPDATE SET value = excluded.value`,
		reviewID, kpiID, value,
	)
	return eris.Wrapf(err, "sqlite: save kpi value %s/%s", reviewID, kpiID)
}

func (s *SQLiteStore) SaveKPIValues(ctx context.Context, reviewID string, values map[string]float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	// Deterministic insert order keeps the write path reproducible.
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, kpiID := range ids {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO kpi_inputs (review_id, kpi_id, value) VALUES (?, ?, ?)
			 ON CONFLICT(review_id, kpi_id) DO UPDATE SET value = excluded.value`,
			reviewID, kpiID, values[kpiID],
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: save kpi value %s/%s", reviewID, kpiID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit kpi values")
}

func (s *SQLiteStore) GetKPIInputs(ctx context.Context, reviewID string) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kpi_id, value FROM kpi_inputs WHERE review_id = ?`,
		reviewID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get kpi inputs")
	}
	defer rows.Close()

	inputs := make(map[string]float64)
	for rows.Next() {
		var kpiID string
		var value float64
		if err := rows.Scan(&kpiID, &value); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan kpi input")
		}
		inputs[kpiID] = value
	}
	return inputs, eris.Wrap(rows.Err(), "sqlite: kpi inputs iterate")
}

func (s *SQLiteStore) SaveScores(ctx context.Context, reviewID string, records []model.ScoreRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE review_id = ?`, reviewID); err != nil {
		return eris.Wrap(err, "sqlite: clear scores")
	}

	for _, rec := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO scores (review_id, kpi_id, raw_value, score, pillar) VALUES (?, ?, ?, ?, ?)`,
			reviewID, rec.KPIID, rec.RawValue, rec.Score, rec.Pillar,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert score %s/%s", reviewID, rec.KPIID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit scores")
}

func (s *SQLiteStore) GetScores(ctx context.Context, reviewID string) ([]model.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kpi_id, raw_value, score, pillar FROM scores WHERE review_id = ? ORDER BY kpi_id`,
		reviewID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get scores")
	}
	defer rows.Close()

	var records []model.ScoreRecord
	for rows.Next() {
		var rec model.ScoreRecord
		if err := rows.Scan(&rec.KPIID, &rec.RawValue, &rec.Score, &rec.Pillar); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan score")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: scores iterate")
}
