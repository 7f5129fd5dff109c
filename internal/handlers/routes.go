package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth       *AuthHandler
	Documents  *DocumentHandler
	Versions   *VersionHandler
	JobTargets *JobTargetHandler
	Analyses   *AnalysisHandler
	CVAnalyses *CVAnalysisHandler
	Export     *ExportHandler
	Usage      *UsageHandler
}

// Register mounts the API routes on api. Everything except register and
// login runs behind requireAuth; routes that call the AI provider also run
// behind aiLimit when it is non-nil.
func (h *Handlers) Register(api fiber.Router, requireAuth, aiLimit fiber.Handler) {
	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.HandleRegister)
	auth.Post("/login", h.Auth.HandleLogin)

	protected := func(handler fiber.Handler) []fiber.Handler {
		return []fiber.Handler{requireAuth, handler}
	}
	metered := func(handler fiber.Handler) []fiber.Handler {
		if aiLimit == nil {
			return protected(handler)
		}
		return []fiber.Handler{requireAuth, aiLimit, handler}
	}

	auth.Get("/me", protected(h.Auth.HandleMe)...)

	api.Post("/documents", protected(h.Documents.HandleUpload)...)
	api.Get("/documents", protected(h.Documents.HandleList)...)
	api.Get("/documents/:id", protected(h.Documents.HandleGet)...)
	api.Get("/documents/:id/download", protected(h.Documents.HandleDownload)...)
	api.Delete("/documents/:id", protected(h.Documents.HandleDelete)...)

	api.Post("/documents/:id/versions", metered(h.Versions.HandleCreate)...)
	api.Get("/documents/:id/versions", protected(h.Versions.HandleList)...)
	api.Get("/versions/:id", protected(h.Versions.HandleGet)...)
	api.Put("/versions/:id", protected(h.Versions.HandleUpdate)...)
	api.Delete("/versions/:id", protected(h.Versions.HandleDelete)...)
	api.Post("/versions/:id/export", protected(h.Export.HandleExport)...)

	api.Post("/job-targets", protected(h.JobTargets.HandleCreate)...)
	api.Get("/job-targets", protected(h.JobTargets.HandleList)...)
	api.Get("/job-targets/:id", protected(h.JobTargets.HandleGet)...)
	api.Put("/job-targets/:id", protected(h.JobTargets.HandleUpdate)...)
	api.Delete("/job-targets/:id", protected(h.JobTargets.HandleDelete)...)

	api.Post("/analyses", metered(h.Analyses.HandleCreate)...)
	api.Get("/analyses", protected(h.Analyses.HandleList)...)
	api.Get("/analyses/:id", protected(h.Analyses.HandleGet)...)

	api.Post("/cv-analyses", metered(h.CVAnalyses.HandleCreate)...)
	api.Get("/cv-analyses/:id", protected(h.CVAnalyses.HandleGet)...)

	api.Get("/usage", protected(h.Usage.HandleGetUsage)...)
}
