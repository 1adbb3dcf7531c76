// Package migration creates and upgrades the postgres schema backing
// stored analysis configurations.
package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	apperrors "zyra/internal/errors"
)

// Runner executes schema migrations in order. Statements are idempotent so
// the runner is safe to invoke on every startup.
type Runner struct {
	version string
}

// NewRunner creates a migration runner.
func NewRunner() *Runner {
	return &Runner{version: "1.0.0"}
}

// Version returns the schema version the runner produces.
func (r *Runner) Version() string {
	return r.version
}

// Run executes all migrations against the connected database.
func (r *Runner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createConfigurationsTable(ctx, db); err != nil {
		return apperrors.Wrap(err, "failed to create analysis_configurations table")
	}
	if err := r.createIndexes(ctx, db); err != nil {
		return apperrors.Wrap(err, "failed to create indexes")
	}
	return nil
}

func (r *Runner) createConfigurationsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_configurations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			name VARCHAR(100) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_default BOOLEAN NOT NULL DEFAULT false,
			version INTEGER NOT NULL DEFAULT 1,
			include_dataset_info BOOLEAN NOT NULL DEFAULT true,
			include_missing_analysis BOOLEAN NOT NULL DEFAULT true,
			include_correlation_data BOOLEAN NOT NULL DEFAULT true,
			include_statistical_summary BOOLEAN NOT NULL DEFAULT true,
			include_model_recommendations BOOLEAN NOT NULL DEFAULT true,
			include_preprocessing_recs BOOLEAN NOT NULL DEFAULT true,
			include_ai_insights BOOLEAN NOT NULL DEFAULT false,
			include_visualizations BOOLEAN NOT NULL DEFAULT true,
			include_advanced_stats BOOLEAN NOT NULL DEFAULT false,
			max_correlation_pairs INTEGER NOT NULL DEFAULT 10,
			max_model_recommendations INTEGER NOT NULL DEFAULT 5,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			UNIQUE (user_id, name)
		)
	`)
	return err
}

func (r *Runner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	// The partial unique index enforces at most one default per user even
	// under concurrent writers.
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_configurations_user_id
			ON analysis_configurations(user_id)
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_configurations_one_default
			ON analysis_configurations(user_id) WHERE is_default
	`)
	return err
}
