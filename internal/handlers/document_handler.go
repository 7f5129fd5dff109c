package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"matchmycv/backend/internal/models"
	"matchmycv/backend/internal/repositories"
	"matchmycv/backend/internal/services"
)

type DocumentHandler struct {
	docRepo     repositories.DocumentRepository
	storage     services.Storage
	extractor   services.TextExtractor
	maxFileSize int64
	logger      *zap.Logger
}

func NewDocumentHandler(
	docRepo repositories.DocumentRepository,
	storage services.Storage,
	extractor services.TextExtractor,
	maxFileSize int64,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		docRepo:     docRepo,
		storage:     storage,
		extractor:   extractor,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func readUpload(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, badRequest("CV file too large. Max size: %d bytes", limit)
	}
	return data, nil
}

// HandleUpload handles POST /documents (multipart field "cv")
func (h *DocumentHandler) HandleUpload(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	fh, err := c.FormFile("cv")
	if err != nil {
		return respondError(c, h.logger, badRequest("No file uploaded. Please upload a PDF, DOCX or TXT file as 'cv'."))
	}
	if fh.Size > h.maxFileSize {
		return respondError(c, h.logger, badRequest("CV file too large. Max size: %d bytes", h.maxFileSize))
	}

	data, err := readUpload(fh, h.maxFileSize)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	extracted, err := h.extractor.Extract(fh.Filename, data)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	key := services.NewStorageKey(userID, fh.Filename)
	if err := h.storage.Save(c.UserContext(), key, bytes.NewReader(data), int64(len(data)), extracted.ContentType); err != nil {
		return respondError(c, h.logger, fmt.Errorf("failed to save CV file: %w", err))
	}

	doc := models.Document{
		ID:               uuid.New(),
		UserID:           userID,
		OriginalFileName: fh.Filename,
		StorageKey:       key,
		ContentType:      extracted.ContentType,
		Size:             int64(len(data)),
		ExtractedText:    extracted.Text,
	}

	if err := h.docRepo.Create(&doc); err != nil {
		// Cleanup stored file if database insert fails
		if delErr := h.storage.Delete(c.UserContext(), key); delErr != nil {
			h.logger.Warn("failed to clean up stored file", zap.String("key", key), zap.Error(delErr))
		}
		return respondError(c, h.logger, err)
	}

	h.logger.Info("document uploaded",
		zap.String("user_id", userID.String()),
		zap.String("document_id", doc.ID.String()),
		zap.String("content_type", doc.ContentType),
		zap.Int("pages", extracted.PageCount),
	)

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		ID:           doc.ID.String(),
		OriginalName: doc.OriginalFileName,
		ContentType:  doc.ContentType,
		Size:         doc.Size,
		TextLength:   len([]rune(doc.ExtractedText)),
	})
}

// HandleList handles GET /documents
func (h *DocumentHandler) HandleList(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	docs, err := h.docRepo.ListByUser(userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	for i := range docs {
		docs[i].ExtractedText = ""
	}
	return c.JSON(fiber.Map{"documents": docs})
}

// HandleGet handles GET /documents/:id
func (h *DocumentHandler) HandleGet(c *fiber.Ctx) error {
	doc, err := h.find(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(doc)
}

// HandleDownload handles GET /documents/:id/download
func (h *DocumentHandler) HandleDownload(c *fiber.Ctx) error {
	doc, err := h.find(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	rc, err := h.storage.Open(c.UserContext(), doc.StorageKey)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return respondError(c, h.logger, fmt.Errorf("failed to read stored file: %w", err))
	}

	c.Attachment(doc.OriginalFileName)
	c.Set(fiber.HeaderContentType, doc.ContentType)
	return c.Send(data)
}

// HandleDelete handles DELETE /documents/:id
func (h *DocumentHandler) HandleDelete(c *fiber.Ctx) error {
	doc, err := h.find(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.docRepo.Delete(doc.UserID, doc.ID); err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.storage.Delete(c.UserContext(), doc.StorageKey); err != nil {
		h.logger.Warn("failed to delete stored file",
			zap.String("document_id", doc.ID.String()),
			zap.Error(err),
		)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DocumentHandler) find(c *fiber.Ctx) (*models.Document, error) {
	userID, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}
	return h.docRepo.FindByID(userID, id)
}
