package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/stratiq/diagnostic-cli/internal/db"
	"github.com/stratiq/diagnostic-cli/internal/model"
)

// PostgresStore implements Store using a pgx connection pool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS reviews (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	company_name TEXT NOT NULL,
	industry     TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS kpi_inputs (
	review_id TEXT NOT NULL REFERENCES reviews(id),
	kpi_id    TEXT NOT NULL,
	value     DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (review_id, kpi_id)
);

CREATE TABLE IF NOT EXISTS scores (
	review_id TEXT NOT NULL REFERENCES reviews(id),
	kpi_id    TEXT NOT NULL,
	raw_value DOUBLE PRECISION NOT NULL,
	score     INTEGER NOT NULL,
	pillar    TEXT NOT NULL,
	PRIMARY KEY (review_id, kpi_id)
);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateReview(ctx context.Context, companyName, industry string) (*model.Review, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO reviews (id, company_name, industry, created_at) VALUES ($1, $2, $3, $4)`,
		id, companyName, industry, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert review")
	}

	return &model.Review{
		ID:          id,
		CompanyName: companyName,
		Industry:    industry,
		CreatedAt:   now,
	}, nil
}

func (s *PostgresStore) GetReview(ctx context.Context, reviewID string) (*model.Review, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, company_name, industry, created_at FROM reviews WHERE id = $1`,
		reviewID,
	)

	var r model.Review
	err := row.Scan(&r.ID, &r.CompanyName, &r.Industry, &r.CreatedAt)
	if eris.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(model.ErrInvalidReview, "postgres: review %s", reviewID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan review")
	}
	return &r, nil
}

func (s *PostgresStore) ListReviews(ctx context.Context, limit int) ([]model.Review, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, company_name, industry, created_at FROM reviews ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reviews")
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.CompanyName, &r.Industry, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan review row")
		}
		reviews = append(reviews, r)
	}
	return reviews, eris.Wrap(rows.Err(), "postgres: list reviews iterate")
}

func (s *PostgresStore) SaveKPIValue(ctx context.Context, reviewID, kpiID string, value float64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO kpi_inputs (review_id, kpi_id, value) VALUES ($1, $2, $3)
		 ON CONFLICT (review_id, kpi_id) DO UPDATE SET value = EXCLUDED.value`,
		reviewID, kpiID, value,
	)
	return eris.Wrapf(err, "postgres: save kpi value %s/%s", reviewID, kpiID)
}

func (s *PostgresStore) SaveKPIValues(ctx context.Context, reviewID string, values map[string]float64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, kpiID := range ids {
		_, err := tx.Exec(ctx,
			`INSERT INTO kpi_inputs (review_id, kpi_id, value) VALUES ($1, $2, $3)
			 ON CONFLICT (review_id, kpi_id) DO UPDATE SET value = EXCLUDED.value`,
			reviewID, kpiID, values[kpiID],
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: save kpi value %s/%s", reviewID, kpiID)
		}
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit kpi values")
}

func (s *PostgresStore) GetKPIInputs(ctx context.Context, reviewID string) (map[string]float64, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT kpi_id, value FROM kpi_inputs WHERE review_id = $1`,
		reviewID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get kpi inputs")
	}
	defer rows.Close()

	inputs := make(map[string]float64)
	for rows.Next() {
		var kpiID string
		var value float64
		if err := rows.Scan(&kpiID, &value); err != nil {
			return nil, eris.Wrap(err, "postgres: scan kpi input")
		}
		inputs[kpiID] = value
	}
	return inputs, eris.Wrap(rows.Err(), "postgres: kpi inputs iterate")
}

func (s *PostgresStore) SaveScores(ctx context.Context, reviewID string, records []model.ScoreRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM scores WHERE review_id = $1`, reviewID); err != nil {
		return eris.Wrap(err, "postgres: clear scores")
	}

	for _, rec := range records {
		_, err := tx.Exec(ctx,
			`INSERT INTO scores (review_id, kpi_id, raw_value, score, pillar) VALUES ($1, $2, $3, $4, $5)`,
			reviewID, rec.KPIID, rec.RawValue, rec.Score, rec.Pillar,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert score %s/%s", reviewID, rec.KPIID)
		}
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit scores")
}

func (s *PostgresStore) GetScores(ctx context.Context, reviewID string) ([]model.ScoreRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT kpi_id, raw_value, score, pillar FROM scores WHERE review_id = $1 ORDER BY kpi_id`,
		reviewID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get scores")
	}
	defer rows.Close()

	var records []model.ScoreRecord
	for rows.Next() {
		var rec model.ScoreRecord
		if err := rows.Scan(&rec.KPIID, &rec.RawValue, &rec.Score, &rec.Pillar); err != nil {
			return nil, eris.Wrap(err, "postgres: scan score")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: scores iterate")
}
