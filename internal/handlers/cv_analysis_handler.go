package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"matchmycv/backend/internal/models"
	"matchmycv/backend/internal/repositories"
	"matchmycv/backend/internal/services"
)

type CVAnalysisHandler struct {
	cvRepo  repositories.CVAnalysisRepository
	docRepo repositories.DocumentRepository
	usage   services.UsageService
	worker  services.Worker
	logger  *zap.Logger
}

func NewCVAnalysisHandler(
	cvRepo repositories.CVAnalysisRepository,
	docRepo repositories.DocumentRepository,
	usage services.UsageService,
	worker services.Worker,
	logger *zap.Logger,
) *CVAnalysisHandler {
	return &CVAnalysisHandler{
		cvRepo:  cvRepo,
		docRepo: docRepo,
		usage:   usage,
		worker:  worker,
		logger:  logger,
	}
}

// HandleCreate handles POST /cv-analyses. The review is queued for the worker.
func (h *CVAnalysisHandler) HandleCreate(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req models.CVAnalysisRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	docID, _ := uuid.Parse(req.DocumentID)

	if _, err := h.docRepo.FindByID(userID, docID); err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.usage.CheckQuota(userID); err != nil {
		return respondError(c, h.logger, err)
	}

	job := &models.CVAnalysis{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: docID,
		Status:     models.StatusQueued,
	}
	if err := h.cvRepo.Create(job); err != nil {
		return respondError(c, h.logger, err)
	}

	// Enqueue job to worker
	h.worker.EnqueueJob(job.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.CVAnalysisResponse{
		ID:     job.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// HandleGet handles GET /cv-analyses/:id
func (h *CVAnalysisHandler) HandleGet(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	job, err := h.cvRepo.FindForUser(userID, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(job)
}
