package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"matchmycv/backend/internal/layout"
)

// LibreOfficeRenderer renders DOCX and converts it to PDF with a headless
// soffice process.
type LibreOfficeRenderer struct {
	binary  string
	source  Renderer
	timeout time.Duration
}

func NewLibreOfficeRenderer(binary string, source Renderer, timeout time.Duration) *LibreOfficeRenderer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &LibreOfficeRenderer{binary: binary, source: source, timeout: timeout}
}

func (LibreOfficeRenderer) Format() string      { return FormatPDF }
func (LibreOfficeRenderer) ContentType() string { return "application/pdf" }
func (LibreOfficeRenderer) Name() string        { return "libreoffice" }

func (r *LibreOfficeRenderer) Render(ctx context.Context, doc layout.Document, s layout.Settings) ([]byte, error) {
	input, err := r.source.Render(ctx, doc, s)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "matchmycv-export-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "resume.docx")
	if err := os.WriteFile(inPath, input, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write conversion input: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary,
		"--headless", "--norestore",
		"-env:UserInstallation=file://"+filepath.ToSlash(filepath.Join(dir, "profile")),
		"--convert-to", "pdf",
		"--outdir", dir,
		inPath,
	)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("soffice conversion failed: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	out, err := os.ReadFile(filepath.Join(dir, "resume.pdf"))
	if err != nil {
		return nil, fmt.Errorf("soffice produced no output: %w", err)
	}
	return out, nil
}
