package app

import (
	"context"

	"github.com/google/uuid"

	"zyra/domain/analytics"
	apperrors "zyra/internal/errors"
	"zyra/ports"
)

// ConfigService manages stored analysis configurations.
type ConfigService struct {
	repo ports.ConfigRepository
}

// NewConfigService wraps the configuration repository.
func NewConfigService(repo ports.ConfigRepository) *ConfigService {
	return &ConfigService{repo: repo}
}

// Create validates and stores a configuration.
func (s *ConfigService) Create(ctx context.Context, cfg *analytics.Configuration) error {
	if cfg.UserID == uuid.Nil {
		return apperrors.InvalidInput("user_id is required")
	}
	return s.repo.Create(ctx, cfg)
}

// CreateFromPreset instantiates a preset into a user-owned configuration.
func (s *ConfigService) CreateFromPreset(ctx context.Context, userID uuid.UUID, preset string) (*analytics.Configuration, error) {
	if userID == uuid.Nil {
		return nil, apperrors.InvalidInput("user_id is required")
	}
	cfg, err := analytics.Preset(preset)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	cfg.UserID = userID
	if err := s.repo.Create(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns one configuration by ID.
func (s *ConfigService) Get(ctx context.Context, id uuid.UUID) (*analytics.Configuration, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a user's configurations.
func (s *ConfigService) List(ctx context.Context, userID uuid.UUID) ([]*analytics.Configuration, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update persists configuration changes.
func (s *ConfigService) Update(ctx context.Context, cfg *analytics.Configuration) error {
	return s.repo.Update(ctx, cfg)
}

// SetDefault marks a configuration as the user's default.
func (s *ConfigService) SetDefault(ctx context.Context, userID, configID uuid.UUID) error {
	return s.repo.SetDefault(ctx, userID, configID)
}

// Delete removes a configuration.
func (s *ConfigService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Presets lists the built-in preset names.
func (s *ConfigService) Presets() []string {
	return analytics.PresetNames()
}
