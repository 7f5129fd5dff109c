package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"matchmycv/backend/internal/models"
	"matchmycv/backend/internal/repositories"
	"matchmycv/backend/internal/services"
)

type JobTargetHandler struct {
	jobRepo repositories.JobTargetRepository
	logger  *zap.Logger
}

func NewJobTargetHandler(jobRepo repositories.JobTargetRepository, logger *zap.Logger) *JobTargetHandler {
	return &JobTargetHandler{jobRepo: jobRepo, logger: logger}
}

// parseTarget validates the body and strips pasted HTML from the description.
func parseTarget(c *fiber.Ctx) (*models.JobTargetRequest, error) {
	var req models.JobTargetRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Company = strings.TrimSpace(req.Company)
	req.Description = services.CleanJobDescription(req.Description)
	if req.Description == "" {
		return nil, &requestError{msg: "Validation failed", fields: map[string]string{"description": "required"}}
	}
	return &req, nil
}

// HandleCreate handles POST /job-targets
func (h *JobTargetHandler) HandleCreate(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	req, err := parseTarget(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	target := models.JobTarget{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       req.Title,
		Company:     req.Company,
		Description: req.Description,
	}
	if err := h.jobRepo.Create(&target); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(target)
}

// HandleList handles GET /job-targets
func (h *JobTargetHandler) HandleList(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	targets, err := h.jobRepo.ListByUser(userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"job_targets": targets})
}

// HandleGet handles GET /job-targets/:id
func (h *JobTargetHandler) HandleGet(c *fiber.Ctx) error {
	target, err := h.find(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(target)
}

// HandleUpdate handles PUT /job-targets/:id
func (h *JobTargetHandler) HandleUpdate(c *fiber.Ctx) error {
	target, err := h.find(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	req, err := parseTarget(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	target.Title = req.Title
	target.Company = req.Company
	target.Description = req.Description
	if err := h.jobRepo.Update(target); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(target)
}

// HandleDelete handles DELETE /job-targets/:id
func (h *JobTargetHandler) HandleDelete(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.jobRepo.Delete(userID, id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *JobTargetHandler) find(c *fiber.Ctx) (*models.JobTarget, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	return h.jobRepo.FindByID(userID, id)
}
