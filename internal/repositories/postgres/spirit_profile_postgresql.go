package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/spirit-profile-service/internal/models"
	"github.com/SAP-F-2025/spirit-profile-service/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var sortableColumns = []string{"created_at", "primary_score", "generated_at"}

type SpiritProfilePostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewSpiritProfilePostgreSQL(db *gorm.DB) repositories.SpiritProfileRepository {
	return &SpiritProfilePostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (s SpiritProfilePostgreSQL) Create(ctx context.Context, record *models.SpiritProfileRecord) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s SpiritProfilePostgreSQL) GetByID(ctx context.Context, id uint) (*models.SpiritProfileRecord, error) {
	var record models.SpiritProfileRecord
	if err := s.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (s SpiritProfilePostgreSQL) GetBySessionID(ctx context.Context, sessionID string) (*models.SpiritProfileRecord, error) {
	return s.latest(s.db.WithContext(ctx).Where("session_id = ?", sessionID), "created_at")
}

func (s SpiritProfilePostgreSQL) ListByUser(ctx context.Context, userID string, filters repositories.SpiritProfileFilters) ([]*models.SpiritProfileRecord, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.SpiritProfileRecord{}).Where("user_id = ?", userID)
	return s.list(query, filters)
}

func (s SpiritProfilePostgreSQL) GetLatestByUser(ctx context.Context, userID string) (*models.SpiritProfileRecord, error) {
	return s.latest(s.db.WithContext(ctx).Where("user_id = ?", userID), "created_at")
}

func (s SpiritProfilePostgreSQL) GetLatestGeneratedByUser(ctx context.Context, userID string) (*models.SpiritProfileRecord, error) {
	return s.latest(s.db.WithContext(ctx).Where("user_id = ? AND spirit_generated = ?", userID, true), "generated_at")
}

func (s SpiritProfilePostgreSQL) ListPending(ctx context.Context, filters repositories.SpiritProfileFilters) ([]*models.SpiritProfileRecord, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.SpiritProfileRecord{}).Where("spirit_generated = ?", false)
	return s.list(query, filters)
}

func (s SpiritProfilePostgreSQL) UpdateSpiritDetails(ctx context.Context, id uint, details models.SpiritDetails, generatedBy string, generatedAt time.Time) error {
	appearance, err := toJSON(details.Appearance)
	if err != nil {
		return err
	}
	amnesia, err := toJSON(details.Amnesia)
	if err != nil {
		return err
	}
	growth, err := toJSON(details.Growth)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&models.SpiritProfileRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"spirit_generated":  true,
			"spirit_title":      details.Title,
			"spirit_appearance": appearance,
			"spirit_essence":    details.Essence,
			"spirit_amnesia":    amnesia,
			"spirit_growth":     growth,
			"spirit_poem":       details.Poem,
			"generated_by":      generatedBy,
			"generated_at":      generatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (s SpiritProfilePostgreSQL) CountPrimaryTraits(ctx context.Context) ([]repositories.TraitCount, error) {
	var counts []repositories.TraitCount
	if err := s.db.WithContext(ctx).
		Model(&models.SpiritProfileRecord{}).
		Select("primary_trait AS trait, COUNT(*) AS count").
		Group("primary_trait").
		Order("count DESC, primary_trait").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	return counts, nil
}

// ===== HELPERS =====

func (s SpiritProfilePostgreSQL) list(query *gorm.DB, filters repositories.SpiritProfileFilters) ([]*models.SpiritProfileRecord, int64, error) {
	var records []*models.SpiritProfileRecord
	var total int64

	query = query.Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = s.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset, sortableColumns...)
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (s SpiritProfilePostgreSQL) latest(query *gorm.DB, column string) (*models.SpiritProfileRecord, error) {
	var record models.SpiritProfileRecord
	if err := query.Order(column + " DESC").Order("id DESC").Take(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}

func toJSON(v interface{}) (datatypes.JSON, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode spirit details: %w", err)
	}
	return datatypes.JSON(data), nil
}
