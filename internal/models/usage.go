package models

import (
	"time"

	"github.com/google/uuid"
)

type UsageKind string

const (
	UsageAnalysis   UsageKind = "analysis"
	UsageCVAnalysis UsageKind = "cv_analysis"
	UsageStructure  UsageKind = "structure"
)

type UsageRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index:idx_usage_user_created" json:"user_id"`
	Kind         UsageKind `gorm:"type:text;not null" json:"kind"`
	Provider     string    `gorm:"type:text" json:"provider"`
	Model        string    `gorm:"type:text" json:"model"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_usage_user_created" json:"created_at"`
}

func (UsageRecord) TableName() string {
	return "usage_records"
}
