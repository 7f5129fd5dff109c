package models

import (
	"time"

	"github.com/google/uuid"
)

type Suggestion struct {
	Section   string `json:"section"`
	Original  string `json:"original,omitempty"`
	Suggested string `json:"suggested"`
	Reason    string `json:"reason,omitempty"`
}

// Analysis is the match of one CV (optionally one of its versions) against a job target.
type Analysis struct {
	ID             uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	DocumentID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"document_id"`
	VersionID      *uuid.UUID   `gorm:"type:uuid" json:"version_id,omitempty"`
	JobTargetID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"job_target_id"`
	Score          int          `gorm:"not null" json:"score"`
	Summary        string       `gorm:"type:text" json:"summary"`
	MatchingSkills []string     `gorm:"type:jsonb;serializer:json" json:"matching_skills"`
	MissingSkills  []string     `gorm:"type:jsonb;serializer:json" json:"missing_skills"`
	Suggestions    []Suggestion `gorm:"type:jsonb;serializer:json" json:"suggestions"`
	Provider       string       `gorm:"type:text" json:"provider"`
	Model          string       `gorm:"type:text" json:"model"`
	ParseFallback  bool         `json:"parse_fallback"`
	RawResponse    string       `gorm:"type:text" json:"-"`
	CreatedAt      time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	Document  Document  `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"-"`
	JobTarget JobTarget `gorm:"foreignKey:JobTargetID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Analysis) TableName() string {
	return "analyses"
}
