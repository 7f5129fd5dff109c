package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"matchmycv/backend/internal/models"
)

type VersionRepository interface {
	Create(version *models.Version) error
	FindByID(userID, id uuid.UUID) (*models.Version, error)
	ListByDocument(userID, documentID uuid.UUID) ([]models.Version, error)
	Update(version *models.Version) error
	Delete(userID, id uuid.UUID) error
}

type versionRepository struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

func (r *versionRepository) Create(version *models.Version) error {
	if err := r.db.Create(version).Error; err != nil {
		return fmt.Errorf("failed to create version: %w", err)
	}
	return nil
}

func (r *versionRepository) FindByID(userID, id uuid.UUID) (*models.Version, error) {
	var version models.Version
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&version).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find version: %w", err)
	}
	return &version, nil
}

func (r *versionRepository) ListByDocument(userID, documentID uuid.UUID) ([]models.Version, error) {
	var versions []models.Version
	err := r.db.
		Where("user_id = ? AND document_id = ?", userID, documentID).
		Order("created_at DESC").
		Find(&versions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	return versions, nil
}

// Update writes name and content of an existing version owned by version.UserID.
func (r *versionRepository) Update(version *models.Version) error {
	version.UpdatedAt = time.Now()
	result := r.db.Model(&models.Version{}).
		Where("id = ? AND user_id = ?", version.ID, version.UserID).
		Select("name", "content", "updated_at").
		Updates(version)

	if result.Error != nil {
		return fmt.Errorf("failed to update version: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *versionRepository) Delete(userID, id uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Version{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete version: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
