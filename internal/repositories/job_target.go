package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"matchmycv/backend/internal/models"
)

type JobTargetRepository interface {
	Create(target *models.JobTarget) error
	FindByID(userID, id uuid.UUID) (*models.JobTarget, error)
	ListByUser(userID uuid.UUID) ([]models.JobTarget, error)
	Update(target *models.JobTarget) error
	Delete(userID, id uuid.UUID) error
}

type jobTargetRepository struct {
	db *gorm.DB
}

func NewJobTargetRepository(db *gorm.DB) JobTargetRepository {
	return &jobTargetRepository{db: db}
}

func (r *jobTargetRepository) Create(target *models.JobTarget) error {
	if err := r.db.Create(target).Error; err != nil {
		return fmt.Errorf("failed to create job target: %w", err)
	}
	return nil
}

func (r *jobTargetRepository) FindByID(userID, id uuid.UUID) (*models.JobTarget, error) {
	var target models.JobTarget
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&target).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find job target: %w", err)
	}
	return &target, nil
}

func (r *jobTargetRepository) ListByUser(userID uuid.UUID) ([]models.JobTarget, error) {
	var targets []models.JobTarget
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&targets).Error; err != nil {
		return nil, fmt.Errorf("failed to list job targets: %w", err)
	}
	return targets, nil
}

func (r *jobTargetRepository) Update(target *models.JobTarget) error {
	result := r.db.Model(&models.JobTarget{}).
		Where("id = ? AND user_id = ?", target.ID, target.UserID).
		Updates(map[string]interface{}{
			"title":       target.Title,
			"company":     target.Company,
			"description": target.Description,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update job target: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *jobTargetRepository) Delete(userID, id uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.JobTarget{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete job target: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
