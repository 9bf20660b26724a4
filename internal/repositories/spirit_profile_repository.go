package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
)

// SpiritProfileRepository stores scored quiz results and the spirit
// details administrators attach to them
type SpiritProfileRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, record *models.SpiritProfileRecord) error
	GetByID(ctx context.Context, id uint) (*models.SpiritProfileRecord, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.SpiritProfileRecord, error) // nil when none

	// Query operations, newest first
	ListByUser(ctx context.Context, userID string, filters SpiritProfileFilters) ([]*models.SpiritProfileRecord, int64, error)
	GetLatestByUser(ctx context.Context, userID string) (*models.SpiritProfileRecord, error)          // nil when none
	GetLatestGeneratedByUser(ctx context.Context, userID string) (*models.SpiritProfileRecord, error) // nil when none
	ListPending(ctx context.Context, filters SpiritProfileFilters) ([]*models.SpiritProfileRecord, int64, error)

	// Spirit details
	UpdateSpiritDetails(ctx context.Context, id uint, details models.SpiritDetails, generatedBy string, generatedAt time.Time) error

	// Statistics
	CountPrimaryTraits(ctx context.Context) ([]TraitCount, error)
}
