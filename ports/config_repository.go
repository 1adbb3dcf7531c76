package ports

import (
	"context"

	"github.com/google/uuid"

	"zyra/domain/analytics"
)

// ConfigRepository persists analysis configurations. Implementations must
// keep at most one default configuration per user.
type ConfigRepository interface {
	Create(ctx context.Context, cfg *analytics.Configuration) error
	GetByID(ctx context.Context, id uuid.UUID) (*analytics.Configuration, error)
	GetDefault(ctx context.Context, userID uuid.UUID) (*analytics.Configuration, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*analytics.Configuration, error)
	Update(ctx context.Context, cfg *analytics.Configuration) error
	SetDefault(ctx context.Context, userID, configID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
