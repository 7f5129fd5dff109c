package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"matchmycv/backend/internal/models"
	"matchmycv/backend/internal/repositories"
	"matchmycv/backend/internal/services"
)

type AnalysisHandler struct {
	analysisRepo repositories.AnalysisRepository
	docRepo      repositories.DocumentRepository
	versionRepo  repositories.VersionRepository
	jobRepo      repositories.JobTargetRepository
	analyzer     services.AnalyzerService
	logger       *zap.Logger
}

func NewAnalysisHandler(
	analysisRepo repositories.AnalysisRepository,
	docRepo repositories.DocumentRepository,
	versionRepo repositories.VersionRepository,
	jobRepo repositories.JobTargetRepository,
	analyzer services.AnalyzerService,
	logger *zap.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		analysisRepo: analysisRepo,
		docRepo:      docRepo,
		versionRepo:  versionRepo,
		jobRepo:      jobRepo,
		analyzer:     analyzer,
		logger:       logger,
	}
}

// HandleCreate handles POST /analyses. The match runs synchronously.
func (h *AnalysisHandler) HandleCreate(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req models.AnalyzeRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	docID, _ := uuid.Parse(req.DocumentID)
	targetID, _ := uuid.Parse(req.JobTargetID)

	doc, err := h.docRepo.FindByID(userID, docID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	target, err := h.jobRepo.FindByID(userID, targetID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	cvText := doc.ExtractedText
	var versionID *uuid.UUID
	if req.VersionID != "" {
		id, _ := uuid.Parse(req.VersionID)
		version, err := h.versionRepo.FindByID(userID, id)
		if err != nil {
			return respondError(c, h.logger, err)
		}
		if version.DocumentID != doc.ID {
			return respondError(c, h.logger, repositories.ErrNotFound)
		}
		cvText = version.Content.PlainText()
		versionID = &version.ID
	}

	match, err := h.analyzer.AnalyzeMatch(c.UserContext(), userID, cvText, target)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	analysis := models.Analysis{
		ID:             uuid.New(),
		UserID:         userID,
		DocumentID:     doc.ID,
		VersionID:      versionID,
		JobTargetID:    target.ID,
		Score:          match.Score,
		Summary:        match.Summary,
		MatchingSkills: match.MatchingSkills,
		MissingSkills:  match.MissingSkills,
		Suggestions:    match.Suggestions,
		Provider:       match.Provider,
		Model:          match.Model,
		ParseFallback:  match.Fallback,
		RawResponse:    match.Raw,
	}
	if err := h.analysisRepo.Create(&analysis); err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Info("analysis completed",
		zap.String("user_id", userID.String()),
		zap.String("analysis_id", analysis.ID.String()),
		zap.Int("score", analysis.Score),
	)
	return c.Status(fiber.StatusCreated).JSON(analysis)
}

// HandleList handles GET /analyses?document_id=
func (h *AnalysisHandler) HandleList(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var docID *uuid.UUID
	if raw := c.Query("document_id"); raw != "" {
		id, err := parseID(raw, "document_id")
		if err != nil {
			return respondError(c, h.logger, err)
		}
		docID = &id
	}

	analyses, err := h.analysisRepo.List(userID, docID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"analyses": analyses})
}

// HandleGet handles GET /analyses/:id
func (h *AnalysisHandler) HandleGet(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	analysis, err := h.analysisRepo.FindByID(userID, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(analysis)
}
