package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded CV. ExtractedText is filled at upload time.
type Document struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	StorageKey       string    `gorm:"type:text;not null" json:"-"`
	ContentType      string    `gorm:"type:text" json:"content_type"`
	Size             int64     `json:"size"`
	ExtractedText    string    `gorm:"type:text" json:"extracted_text,omitempty"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (d *Document) TableName() string {
	return "documents"
}
