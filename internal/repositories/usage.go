package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"matchmycv/backend/internal/models"
)

type UsageRepository interface {
	Create(record *models.UsageRecord) error
	UpdateTokens(record *models.UsageRecord) error
	Delete(id uuid.UUID) error
	CountSince(userID uuid.UUID, since time.Time) (map[models.UsageKind]int64, error)
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) Create(record *models.UsageRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create usage record: %w", err)
	}
	return nil
}

// UpdateTokens fills in the model and token counts of a reserved record.
func (r *usageRepository) UpdateTokens(record *models.UsageRecord) error {
	err := r.db.Model(&models.UsageRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"model":         record.Model,
			"input_tokens":  record.InputTokens,
			"output_tokens": record.OutputTokens,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update usage record: %w", err)
	}
	return nil
}

func (r *usageRepository) Delete(id uuid.UUID) error {
	if err := r.db.Where("id = ?", id).Delete(&models.UsageRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete usage record: %w", err)
	}
	return nil
}

// CountSince groups the user's usage records created at or after since by kind.
func (r *usageRepository) CountSince(userID uuid.UUID, since time.Time) (map[models.UsageKind]int64, error) {
	var rows []struct {
		Kind  models.UsageKind
		Total int64
	}

	err := r.db.Model(&models.UsageRecord{}).
		Select("kind, COUNT(*) AS total").
		Where("user_id = ? AND created_at >= ?", userID, since).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count usage: %w", err)
	}

	counts := make(map[models.UsageKind]int64, len(rows))
	for _, row := range rows {
		counts[row.Kind] = row.Total
	}
	return counts, nil
}
