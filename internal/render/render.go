// Package render draws a paginated layout.Document as PDF or DOCX.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/common/license"
	"go.uber.org/zap"

	"matchmycv/backend/internal/config"
	"matchmycv/backend/internal/layout"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
)

type Renderer interface {
	Format() string
	ContentType() string
	Name() string
	Render(ctx context.Context, doc layout.Document, settings layout.Settings) ([]byte, error)
}

// Registry resolves a format to its renderer chain. The first renderer is
// tried first; later ones run only when earlier ones fail.
type Registry struct {
	chains map[string][]Renderer
	logger *zap.Logger
}

// NewRegistry builds the renderers configured by cfg. With a LibreOffice
// binary, PDFs are converted from DOCX and the native PDF writer is the fallback.
func NewRegistry(cfg config.ExportConfig, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.UnidocLicenseKey != "" {
		if err := license.SetMeteredKey(cfg.UnidocLicenseKey); err != nil {
			return nil, fmt.Errorf("failed to set unidoc license: %w", err)
		}
	}

	docx := NewDOCXRenderer()
	native := NewPDFRenderer()

	r := NewRegistryWith(logger, docx, native)
	if cfg.LibreOfficePath != "" {
		office := NewLibreOfficeRenderer(cfg.LibreOfficePath, docx, cfg.Timeout)
		r.chains[FormatPDF] = []Renderer{office, native}
		logger.Info("pdf export via libreoffice", zap.String("binary", cfg.LibreOfficePath))
	}
	return r, nil
}

// NewRegistryWith registers renderers in priority order per format.
func NewRegistryWith(logger *zap.Logger, renderers ...Renderer) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{chains: map[string][]Renderer{}, logger: logger}
	for _, rd := range renderers {
		r.chains[rd.Format()] = append(r.chains[rd.Format()], rd)
	}
	return r
}

func (r *Registry) Get(format string) (Renderer, error) {
	chain := r.chains[strings.ToLower(format)]
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return chain[0], nil
}

// Render runs the chain for format and returns the output with the renderer that produced it.
func (r *Registry) Render(ctx context.Context, format string, doc layout.Document, settings layout.Settings) ([]byte, Renderer, error) {
	chain := r.chains[strings.ToLower(format)]
	if len(chain) == 0 {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	var errs []error
	for _, rd := range chain {
		out, err := rd.Render(ctx, doc, settings)
		if err == nil {
			return out, rd, nil
		}
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		r.logger.Warn("renderer failed", zap.String("renderer", rd.Name()), zap.String("format", format), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", rd.Name(), err))
	}
	return nil, nil, errors.Join(errs...)
}
