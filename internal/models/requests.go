package models

import (
	"strings"
	"time"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type UploadResponse struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	ContentType  string `json:"content_type"`
	Size         int64  `json:"size"`
	TextLength   int    `json:"text_length"`
}

type CreateVersionRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Content *Resume `json:"content"`
}

type UpdateVersionRequest struct {
	Name    string  `json:"name" validate:"omitempty,max=200"`
	Content *Resume `json:"content"`
}

type JobTargetRequest struct {
	Title       string `json:"title" validate:"required,max=300"`
	Company     string `json:"company" validate:"max=300"`
	Description string `json:"description" validate:"required,min=20"`
}

type AnalyzeRequest struct {
	DocumentID  string `json:"document_id" validate:"required,uuid"`
	JobTargetID string `json:"job_target_id" validate:"required,uuid"`
	VersionID   string `json:"version_id" validate:"omitempty,uuid"`
}

type CVAnalysisRequest struct {
	DocumentID string `json:"document_id" validate:"required,uuid"`
}

type CVAnalysisResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ExportRequest struct {
	Format   string  `json:"format" validate:"required,oneof=pdf docx"`
	Paper    string  `json:"paper" validate:"omitempty,oneof=a4 letter"`
	MarginMM float64 `json:"margin_mm" validate:"omitempty,min=5,max=50"`
}

// NormalizeRequest lower-cases the format and paper names.
func (r *ExportRequest) NormalizeRequest() {
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	r.Paper = strings.ToLower(strings.TrimSpace(r.Paper))
}

type UsageResponse struct {
	Plan        Plan             `json:"plan"`
	PeriodStart time.Time        `json:"period_start"`
	Used        int64            `json:"used"`
	Limit       int              `json:"limit"`
	ByKind      map[string]int64 `json:"by_kind"`
}
