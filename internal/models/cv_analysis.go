package models

import (
	"time"

	"github.com/google/uuid"
)

type CVAnalysisStatus string

const (
	StatusQueued     CVAnalysisStatus = "queued"
	StatusProcessing CVAnalysisStatus = "processing"
	StatusCompleted  CVAnalysisStatus = "completed"
	StatusFailed     CVAnalysisStatus = "failed"
)

// CVAnalysis is a job-independent review of a CV, produced by the background worker.
type CVAnalysis struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	DocumentID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"document_id"`
	Status       CVAnalysisStatus `gorm:"not null;default:'queued'" json:"status"`
	OverallScore *int             `json:"overall_score,omitempty"`
	Strengths    []string         `gorm:"type:jsonb;serializer:json" json:"strengths,omitempty"`
	Weaknesses   []string         `gorm:"type:jsonb;serializer:json" json:"weaknesses,omitempty"`
	Suggestions  []Suggestion     `gorm:"type:jsonb;serializer:json" json:"suggestions,omitempty"`
	ErrorMessage *string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Document Document `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (CVAnalysis) TableName() string {
	return "cv_analyses"
}
