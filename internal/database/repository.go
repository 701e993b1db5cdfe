package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-lancers-notifier/internal/models"
	"go-lancers-notifier/internal/record"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                 UUID PRIMARY KEY,
	started_at         TIMESTAMPTZ NOT NULL,
	total_jobs         INT NOT NULL,
	displayed          INT NOT NULL,
	no_skill_match     INT NOT NULL,
	multi_skill_match  INT NOT NULL,
	high_priority      INT NOT NULL,
	skill_match_rate   DOUBLE PRECISION NOT NULL,
	skill_summary      JSONB NOT NULL DEFAULT '[]',
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS listings (
	id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	link            TEXT NOT NULL UNIQUE,
	title           TEXT NOT NULL,
	price           TEXT NOT NULL,
	priority_score  INT NOT NULL,
	skill_count     INT NOT NULL,
	skill_matches   JSONB NOT NULL DEFAULT '[]',
	recruitment     JSONB NOT NULL DEFAULT '{}',
	first_run_id    UUID NOT NULL REFERENCES runs(id),
	last_run_id     UUID NOT NULL REFERENCES runs(id),
	scraped_at      TIMESTAMPTZ NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// transaction poolers (PgBouncer, Supabase) reject cached prepared statements
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// Migrate creates the tables if they do not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// SaveRun stores the run summary and upserts every listing, keyed by link.
func (r *Repository) SaveRun(ctx context.Context, rec record.Record, displayed int) error {
	summary, err := json.Marshal(rec.SkillSummary)
	if err != nil {
		return fmt.Errorf("failed to marshal skill summary: %w", err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO runs (id, started_at, total_jobs, displayed, no_skill_match, multi_skill_match, high_priority, skill_match_rate, skill_summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.RunID, rec.Timestamp, rec.Distribution.TotalJobs, displayed,
		rec.Distribution.NoSkillMatchCount, rec.Distribution.MultiSkillMatchCount,
		rec.Distribution.HighPriorityCount, rec.Distribution.SkillMatchRatePercent, summary,
	)

	for _, job := range rec.Jobs {
		matches, err := json.Marshal(job.SkillMatches)
		if err != nil {
			return fmt.Errorf("failed to marshal skill matches: %w", err)
		}
		details, err := json.Marshal(job.Recruitment)
		if err != nil {
			return fmt.Errorf("failed to marshal recruitment details: %w", err)
		}
		batch.Queue(`
			INSERT INTO listings (link, title, price, priority_score, skill_count, skill_matches, recruitment, first_run_id, last_run_id, scraped_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, $9)
			ON CONFLICT (link)
			DO UPDATE SET title = EXCLUDED.title, price = EXCLUDED.price, priority_score = EXCLUDED.priority_score,
				skill_count = EXCLUDED.skill_count, skill_matches = EXCLUDED.skill_matches,
				recruitment = EXCLUDED.recruitment, last_run_id = EXCLUDED.last_run_id, scraped_at = EXCLUDED.scraped_at`,
			job.Link, job.Title, job.Recruitment.Price, job.Score, job.SkillCount(), matches, details, rec.RunID, job.ScrapedAt,
		)
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		return nil
	})
}

// RecentRuns returns the newest runs first.
func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]models.RunRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, started_at, total_jobs, displayed, no_skill_match, multi_skill_match, high_priority, skill_match_rate, created_at
		FROM runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	runs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.RunRow, error) {
		var run models.RunRow
		err := row.Scan(&run.ID, &run.StartedAt, &run.TotalJobs, &run.Displayed, &run.NoSkillMatchCount,
			&run.MultiSkillMatchCount, &run.HighPriorityCount, &run.SkillMatchRatePercent, &run.CreatedAt)
		return run, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan runs: %w", err)
	}
	return runs, nil
}

// GetListing looks up a stored listing by its link.
func (r *Repository) GetListing(ctx context.Context, link string) (*models.ListingRow, error) {
	var l models.ListingRow
	err := r.db.QueryRow(ctx, `
		SELECT id, link, title, price, priority_score, skill_count, first_run_id, last_run_id, scraped_at, created_at
		FROM listings WHERE link = $1`, link).
		Scan(&l.ID, &l.Link, &l.Title, &l.Price, &l.Score, &l.SkillCount, &l.FirstRunID, &l.LastRunID, &l.ScrapedAt, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &l, nil
}
