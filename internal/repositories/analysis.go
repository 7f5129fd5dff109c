package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"matchmycv/backend/internal/models"
)

type AnalysisRepository interface {
	Create(analysis *models.Analysis) error
	FindByID(userID, id uuid.UUID) (*models.Analysis, error)
	List(userID uuid.UUID, documentID *uuid.UUID) ([]models.Analysis, error)
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(analysis *models.Analysis) error {
	if err := r.db.Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *analysisRepository) FindByID(userID, id uuid.UUID) (*models.Analysis, error) {
	var analysis models.Analysis
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&analysis).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return &analysis, nil
}

// List returns the user's analyses newest first, optionally for one document.
func (r *analysisRepository) List(userID uuid.UUID, documentID *uuid.UUID) ([]models.Analysis, error) {
	query := r.db.Where("user_id = ?", userID)
	if documentID != nil {
		query = query.Where("document_id = ?", *documentID)
	}

	var analyses []models.Analysis
	if err := query.Order("created_at DESC").Find(&analyses).Error; err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return analyses, nil
}
