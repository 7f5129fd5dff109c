package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"matchmycv/backend/internal/models"
)

type DocumentRepository interface {
	Create(document *models.Document) error
	FindByID(userID, id uuid.UUID) (*models.Document, error)
	ListByUser(userID uuid.UUID) ([]models.Document, error)
	Delete(userID, id uuid.UUID) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create implements DocumentRepository.
func (d *documentRepository) Create(document *models.Document) error {
	if err := d.db.Create(document).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// FindByID implements DocumentRepository.
func (d *documentRepository) FindByID(userID, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := d.db.Where("id = ? AND user_id = ?", id, userID).First(&doc).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return &doc, nil
}

// ListByUser returns documents newest first, without their extracted text.
func (d *documentRepository) ListByUser(userID uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	err := d.db.
		Omit("extracted_text").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return docs, nil
}

// Delete implements DocumentRepository.
func (d *documentRepository) Delete(userID, id uuid.UUID) error {
	result := d.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Document{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
