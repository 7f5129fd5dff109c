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

type VersionHandler struct {
	versionRepo repositories.VersionRepository
	docRepo     repositories.DocumentRepository
	analyzer    services.AnalyzerService
	logger      *zap.Logger
}

func NewVersionHandler(
	versionRepo repositories.VersionRepository,
	docRepo repositories.DocumentRepository,
	analyzer services.AnalyzerService,
	logger *zap.Logger,
) *VersionHandler {
	return &VersionHandler{
		versionRepo: versionRepo,
		docRepo:     docRepo,
		analyzer:    analyzer,
		logger:      logger,
	}
}

// HandleCreate handles POST /documents/:id/versions. Without content, the
// document's extracted text is structured by the AI provider.
func (h *VersionHandler) HandleCreate(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	docID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req models.CreateVersionRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	doc, err := h.docRepo.FindByID(userID, docID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var content models.Resume
	if req.Content != nil {
		content = *req.Content
		content.Normalize()
	} else {
		structured, err := h.analyzer.StructureCV(c.UserContext(), userID, doc.ExtractedText)
		if err != nil {
			return respondError(c, h.logger, err)
		}
		content = *structured
	}

	version := models.Version{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: doc.ID,
		Name:       strings.TrimSpace(req.Name),
		Content:    content,
	}
	if err := h.versionRepo.Create(&version); err != nil {
		return respondError(c, h.logger, err)
	}

	h.logger.Info("version created",
		zap.String("user_id", userID.String()),
		zap.String("version_id", version.ID.String()),
		zap.Bool("structured", req.Content == nil),
	)
	return c.Status(fiber.StatusCreated).JSON(version)
}

// HandleList handles GET /documents/:id/versions
func (h *VersionHandler) HandleList(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	docID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if _, err := h.docRepo.FindByID(userID, docID); err != nil {
		return respondError(c, h.logger, err)
	}

	versions, err := h.versionRepo.ListByDocument(userID, docID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"versions": versions})
}

// HandleGet handles GET /versions/:id
func (h *VersionHandler) HandleGet(c *fiber.Ctx) error {
	version, err := h.find(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(version)
}

// HandleUpdate handles PUT /versions/:id
func (h *VersionHandler) HandleUpdate(c *fiber.Ctx) error {
	version, err := h.find(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req models.UpdateVersionRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	if req.Name == "" && req.Content == nil {
		return respondError(c, h.logger, badRequest("nothing to update"))
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		version.Name = name
	}
	if req.Content != nil {
		version.Content = *req.Content
		version.Content.Normalize()
	}

	if err := h.versionRepo.Update(version); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(version)
}

// HandleDelete handles DELETE /versions/:id
func (h *VersionHandler) HandleDelete(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.versionRepo.Delete(userID, id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *VersionHandler) find(c *fiber.Ctx) (*models.Version, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	return h.versionRepo.FindByID(userID, id)
}
