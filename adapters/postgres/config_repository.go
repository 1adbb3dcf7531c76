// Package postgres persists analysis configurations.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"zyra/domain/analytics"
	apperrors "zyra/internal/errors"
	"zyra/ports"
)

const configColumns = `
	id, user_id, name, description, is_default, version,
	include_dataset_info, include_missing_analysis, include_correlation_data,
	include_statistical_summary, include_model_recommendations,
	include_preprocessing_recs, include_ai_insights, include_visualizations,
	include_advanced_stats, max_correlation_pairs, max_model_recommendations,
	created_at, updated_at`

type configRepository struct {
	db *sqlx.DB
}

// NewConfigRepository creates the sqlx-backed configuration repository.
func NewConfigRepository(db *sqlx.DB) ports.ConfigRepository {
	return &configRepository{db: db}
}

func (r *configRepository) Create(ctx context.Context, cfg *analytics.Configuration) error {
	if err := cfg.Validate(); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	now := time.Now().UTC()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if cfg.IsDefault {
			if err := clearDefault(ctx, tx, cfg.UserID); err != nil {
				return err
			}
		}
		query := `INSERT INTO analysis_configurations (` + configColumns + `) VALUES (
			:id, :user_id, :name, :description, :is_default, :version,
			:include_dataset_info, :include_missing_analysis, :include_correlation_data,
			:include_statistical_summary, :include_model_recommendations,
			:include_preprocessing_recs, :include_ai_insights, :include_visualizations,
			:include_advanced_stats, :max_correlation_pairs, :max_model_recommendations,
			:created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, cfg); err != nil {
			return fmt.Errorf("failed to create configuration: %w", err)
		}
		return nil
	})
}

func (r *configRepository) GetByID(ctx context.Context, id uuid.UUID) (*analytics.Configuration, error) {
	var cfg analytics.Configuration
	query := `SELECT ` + configColumns + ` FROM analysis_configurations WHERE id = $1`
	if err := r.db.GetContext(ctx, &cfg, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound(fmt.Sprintf("configuration %s", id))
		}
		return nil, fmt.Errorf("failed to get configuration: %w", err)
	}
	return &cfg, nil
}

func (r *configRepository) GetDefault(ctx context.Context, userID uuid.UUID) (*analytics.Configuration, error) {
	var cfg analytics.Configuration
	query := `SELECT ` + configColumns + ` FROM analysis_configurations
		WHERE user_id = $1 AND is_default = true`
	if err := r.db.GetContext(ctx, &cfg, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("default configuration")
		}
		return nil, fmt.Errorf("failed to get default configuration: %w", err)
	}
	return &cfg, nil
}

func (r *configRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*analytics.Configuration, error) {
	var cfgs []*analytics.Configuration
	query := `SELECT ` + configColumns + ` FROM analysis_configurations
		WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &cfgs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list configurations: %w", err)
	}
	return cfgs, nil
}

func (r *configRepository) Update(ctx context.Context, cfg *analytics.Configuration) error {
	if err := cfg.Validate(); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	cfg.UpdatedAt = time.Now().UTC()
	cfg.Version++

	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if cfg.IsDefault {
			if err := clearDefault(ctx, tx, cfg.UserID); err != nil {
				return err
			}
		}
		query := `UPDATE analysis_configurations SET
			name = :name, description = :description, is_default = :is_default,
			version = :version,
			include_dataset_info = :include_dataset_info,
			include_missing_analysis = :include_missing_analysis,
			include_correlation_data = :include_correlation_data,
			include_statistical_summary = :include_statistical_summary,
			include_model_recommendations = :include_model_recommendations,
			include_preprocessing_recs = :include_preprocessing_recs,
			include_ai_insights = :include_ai_insights,
			include_visualizations = :include_visualizations,
			include_advanced_stats = :include_advanced_stats,
			max_correlation_pairs = :max_correlation_pairs,
			max_model_recommendations = :max_model_recommendations,
			updated_at = :updated_at
		WHERE id = :id`
		res, err := tx.NamedExecContext(ctx, query, cfg)
		if err != nil {
			return fmt.Errorf("failed to update configuration: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperrors.NotFound(fmt.Sprintf("configuration %s", cfg.ID))
		}
		return nil
	})
}

// SetDefault marks one configuration as the user's default, clearing any
// previous default in the same transaction.
func (r *configRepository) SetDefault(ctx context.Context, userID, configID uuid.UUID) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := clearDefault(ctx, tx, userID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE analysis_configurations SET is_default = true, updated_at = $1
				WHERE id = $2 AND user_id = $3`,
			time.Now().UTC(), configID, userID)
		if err != nil {
			return fmt.Errorf("failed to set default configuration: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperrors.NotFound(fmt.Sprintf("configuration %s", configID))
		}
		return nil
	})
}

func (r *configRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analysis_configurations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete configuration: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound(fmt.Sprintf("configuration %s", id))
	}
	return nil
}

func (r *configRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func clearDefault(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE analysis_configurations SET is_default = false WHERE user_id = $1 AND is_default = true`,
		userID)
	if err != nil {
		return fmt.Errorf("failed to clear previous default: %w", err)
	}
	return nil
}
