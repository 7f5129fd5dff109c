package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"matchmycv/backend/internal/models"
)

type CVAnalysisRepository interface {
	Create(analysis *models.CVAnalysis) error
	FindByID(id uuid.UUID) (*models.CVAnalysis, error)
	FindForUser(userID, id uuid.UUID) (*models.CVAnalysis, error)
	UpdateStatus(id uuid.UUID, status models.CVAnalysisStatus) error
	UpdateResult(id uuid.UUID, result *CVAnalysisResult) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.CVAnalysis, error)
}

type CVAnalysisResult struct {
	OverallScore int
	Strengths    []string
	Weaknesses   []string
	Suggestions  []models.Suggestion
}

type cvAnalysisRepository struct {
	db *gorm.DB
}

func NewCVAnalysisRepository(db *gorm.DB) CVAnalysisRepository {
	return &cvAnalysisRepository{db: db}
}

func (r *cvAnalysisRepository) Create(analysis *models.CVAnalysis) error {
	if err := r.db.Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to create cv analysis: %w", err)
	}
	return nil
}

// FindByID loads a job regardless of owner; only the worker calls it.
func (r *cvAnalysisRepository) FindByID(id uuid.UUID) (*models.CVAnalysis, error) {
	var analysis models.CVAnalysis
	if err := r.db.Where("id = ?", id).First(&analysis).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cv analysis: %w", err)
	}
	return &analysis, nil
}

func (r *cvAnalysisRepository) FindForUser(userID, id uuid.UUID) (*models.CVAnalysis, error) {
	var analysis models.CVAnalysis
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&analysis).Error; err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cv analysis: %w", err)
	}
	return &analysis, nil
}

func (r *cvAnalysisRepository) UpdateStatus(id uuid.UUID, status models.CVAnalysisStatus) error {
	result := r.db.Model(&models.CVAnalysis{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *cvAnalysisRepository) UpdateResult(id uuid.UUID, data *CVAnalysisResult) error {
	score := data.OverallScore
	updates := &models.CVAnalysis{
		Status:       models.StatusCompleted,
		OverallScore: &score,
		Strengths:    data.Strengths,
		Weaknesses:   data.Weaknesses,
		Suggestions:  data.Suggestions,
		UpdatedAt:    time.Now(),
	}

	result := r.db.Model(&models.CVAnalysis{}).
		Where("id = ?", id).
		Select("status", "overall_score", "strengths", "weaknesses", "suggestions", "updated_at").
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *cvAnalysisRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.CVAnalysis{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *cvAnalysisRepository) FindPendingJobs(limit int) ([]models.CVAnalysis, error) {
	var analyses []models.CVAnalysis
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&analyses).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return analyses, nil
}
