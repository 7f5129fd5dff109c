package handlers

import (
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"matchmycv/backend/internal/layout"
	"matchmycv/backend/internal/models"
	"matchmycv/backend/internal/repositories"
	"matchmycv/backend/internal/render"
)

type ExportObserver interface {
	ObserveExport(format, renderer string, success bool)
}

type ExportHandler struct {
	versionRepo  repositories.VersionRepository
	registry     *render.Registry
	observer     ExportObserver
	defaultPaper string
	logger       *zap.Logger
}

func NewExportHandler(
	versionRepo repositories.VersionRepository,
	registry *render.Registry,
	observer ExportObserver,
	defaultPaper string,
	logger *zap.Logger,
) *ExportHandler {
	return &ExportHandler{
		versionRepo:  versionRepo,
		registry:     registry,
		observer:     observer,
		defaultPaper: defaultPaper,
		logger:       logger,
	}
}

func (h *ExportHandler) settings(paper string, marginMM float64) (layout.Settings, error) {
	s := layout.DefaultSettings()
	if paper == "" {
		paper = h.defaultPaper
	}
	p, err := layout.PaperByName(paper)
	if err != nil {
		return s, badRequest("%s", err.Error())
	}
	s.Paper = p
	if marginMM > 0 {
		s.Margins = layout.UniformMarginsMM(marginMM)
	}
	return s, nil
}

// exportFilename turns a version name into a safe attachment name.
func exportFilename(name, format string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '.':
			b.WriteRune('-')
		}
	}
	base := strings.Trim(b.String(), "-")
	if base == "" {
		base = "resume"
	}
	return base + "." + format
}

// HandleExport handles POST /versions/:id/export
func (h *ExportHandler) HandleExport(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req models.ExportRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	format := req.Format

	settings, err := h.settings(req.Paper, req.MarginMM)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	version, err := h.versionRepo.FindByID(userID, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	doc := layout.FromResume(version.Content)
	out, renderer, err := h.registry.Render(c.UserContext(), format, doc, settings)
	if err != nil {
		if h.observer != nil {
			h.observer.ObserveExport(format, "", false)
		}
		return respondError(c, h.logger, err)
	}
	if h.observer != nil {
		h.observer.ObserveExport(format, renderer.Name(), true)
	}

	h.logger.Info("version exported",
		zap.String("user_id", userID.String()),
		zap.String("version_id", version.ID.String()),
		zap.String("format", format),
		zap.String("renderer", renderer.Name()),
		zap.Int("bytes", len(out)),
	)

	c.Attachment(exportFilename(version.Name, format))
	c.Set(fiber.HeaderContentType, renderer.ContentType())
	return c.Send(out)
}
