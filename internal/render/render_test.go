package render

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchmycv/backend/internal/config"
	"matchmycv/backend/internal/layout"
	"matchmycv/backend/internal/models"
)

func longResume() models.Resume {
	r := models.Resume{
		Name:     "Ada Lovelace",
		Headline: "Backend Engineer",
		Contact:  models.Contact{Email: "ada@example.com", Location: "London"},
		Summary:  "Engineer with a long record of shipping reliable distributed systems — and writing about them.",
		Skills:   []string{"Go", "PostgreSQL", "Kubernetes", "gRPC"},
	}
	for i := 0; i < 10; i++ {
		exp := models.Experience{Title: "Senior Engineer", Company: "Analytical Engines Ltd", StartDate: "2015", EndDate: "2018"}
		for j := 0; j < 6; j++ {
			exp.Bullets = append(exp.Bullets, "Designed and operated payment services handling millions of requests per day with strict latency budgets.")
		}
		r.Experience = append(r.Experience, exp)
	}
	return r
}

var pageObject = regexp.MustCompile(`/Type /Page[^s]`)

func TestPDFRendererOnePagePerLayoutPage(t *testing.T) {
	doc := layout.FromResume(longResume())
	s := layout.DefaultSettings()

	pages, err := layout.Paginate(doc, s, NewFontMeasurer())
	require.NoError(t, err)
	require.Greater(t, len(pages), 1)

	out, err := NewPDFRenderer().Render(context.Background(), doc, s)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Len(t, pageObject.FindAll(out, -1), len(pages))
}

func TestPDFRendererEmptyDocument(t *testing.T) {
	out, err := NewPDFRenderer().Render(context.Background(), layout.Document{Title: "Resume"}, layout.DefaultSettings())
	require.NoError(t, err)
	assert.Len(t, pageObject.FindAll(out, -1), 1)
}

func TestPDFRendererRejectsBadSettings(t *testing.T) {
	s := layout.DefaultSettings()
	s.Margins = layout.UniformMarginsMM(200)
	_, err := NewPDFRenderer().Render(context.Background(), layout.Document{}, s)
	assert.ErrorIs(t, err, layout.ErrInvalidSettings)
}

func TestFontMeasurerWraps(t *testing.T) {
	m := NewFontMeasurer()
	st := layout.StyleFor(layout.KindParagraph)

	assert.Equal(t, 1, m.Lines("Short line", st, 400))
	assert.Greater(t, m.Lines(strings.Repeat("wrap these words ", 40), st, 400), 3)
	assert.Equal(t, 2, m.Lines("one\ntwo", st, 400))
}

func TestDOCXRendererPageBreaks(t *testing.T) {
	doc := layout.FromResume(longResume())
	s := layout.DefaultSettings()

	out, err := NewDOCXRenderer().Render(context.Background(), doc, s)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "licen") {
		t.Skip("unioffice needs a license key in this environment")
	}
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)

	var body string
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			body = string(data)
		}
	}
	require.NotEmpty(t, body)

	pages, err := layout.Paginate(doc, s, NewFontMeasurer())
	require.NoError(t, err)
	assert.Equal(t, len(pages)-1, strings.Count(body, `w:type="page"`))
	assert.Contains(t, body, "Ada Lovelace")
}

func accentedResume() models.Resume {
	return models.Resume{
		Name:     "Renée Dupré",
		Headline: "Ingénieure logiciel • Paris",
		Summary:  "Café-driven engineer — ten years of “reliable” systems.",
		Experience: []models.Experience{{
			Title:     "Développeuse",
			Company:   "Société Générale",
			StartDate: "2015",
			EndDate:   "2020",
			Bullets:   []string{"Réduit la latence de 40 % • migré vers Go", "Opéré des services 24/7 – sans incident"},
		}},
		Skills: []string{"Go", "Élixir", "SQL"},
	}
}

func TestFontMeasurerHandlesNonASCII(t *testing.T) {
	m := NewFontMeasurer()
	st := layout.StyleFor(layout.KindEntryTitle)

	assert.NotPanics(t, func() {
		assert.Equal(t, 1, m.Lines("Engineer — Acme", st, 400))
		assert.Equal(t, 1, m.Lines("2015 – 2020 • Zürich", st, 400))
		assert.Equal(t, 1, m.Lines("日本語", st, 400))
	})
	assert.Greater(t, m.Lines(strings.Repeat("Réduit — la latence ", 30), st, 300), 2)
	assert.Greater(t, m.Lines(strings.Repeat("é", 400), st, 100), 1)
}

func TestRenderersHandleNonASCII(t *testing.T) {
	doc := layout.FromResume(accentedResume())
	s := layout.DefaultSettings()

	out, err := NewPDFRenderer().Render(context.Background(), doc, s)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Len(t, pageObject.FindAll(out, -1), 1)

	out, err = NewDOCXRenderer().Render(context.Background(), doc, s)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "licen") {
		t.Skip("unioffice needs a license key in this environment")
	}
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("PK")))
}

type stubRenderer struct {
	format string
	name   string
	out    []byte
	err    error
	calls  int
}

func (s *stubRenderer) Format() string      { return s.format }
func (s *stubRenderer) ContentType() string { return "application/octet-stream" }
func (s *stubRenderer) Name() string        { return s.name }

func (s *stubRenderer) Render(context.Context, layout.Document, layout.Settings) ([]byte, error) {
	s.calls++
	return s.out, s.err
}

func TestRegistryFallsBack(t *testing.T) {
	primary := &stubRenderer{format: FormatPDF, name: "primary", err: errors.New("boom")}
	fallback := &stubRenderer{format: FormatPDF, name: "fallback", out: []byte("pdf")}
	reg := NewRegistryWith(nil, primary, fallback)

	out, used, err := reg.Render(context.Background(), "PDF", layout.Document{}, layout.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf"), out)
	assert.Equal(t, "fallback", used.Name())
	assert.Equal(t, 1, primary.calls)

	fallback.err = errors.New("also boom")
	_, _, err = reg.Render(context.Background(), FormatPDF, layout.Document{}, layout.DefaultSettings())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary: boom")
	assert.Contains(t, err.Error(), "fallback: also boom")
}

func TestRegistryUnsupportedFormat(t *testing.T) {
	reg, err := NewRegistry(config.ExportConfig{}, nil)
	require.NoError(t, err)

	_, err = reg.Get("odt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, _, err = reg.Render(context.Background(), "html", layout.Document{}, layout.DefaultSettings())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	pdf, err := reg.Get(FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "fpdf", pdf.Name())
	docx, err := reg.Get(FormatDOCX)
	require.NoError(t, err)
	assert.Equal(t, "unioffice", docx.Name())
}

func TestRegistryPrefersLibreOffice(t *testing.T) {
	reg, err := NewRegistry(config.ExportConfig{LibreOfficePath: "/usr/bin/soffice"}, nil)
	require.NoError(t, err)

	pdf, err := reg.Get(FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "libreoffice", pdf.Name())
}

// fakeSoffice writes a script that "converts" by copying the input file.
func fakeSoffice(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "soffice")
	script := `#!/bin/sh
outdir=""
input=""
while [ $# -gt 0 ]; do
  case "$1" in
    --outdir) outdir="$2"; shift ;;
    *) input="$1" ;;
  esac
  shift
done
base=$(basename "$input" .docx)
cp "$input" "$outdir/$base.pdf"
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestLibreOfficeRendererConverts(t *testing.T) {
	source := &stubRenderer{format: FormatDOCX, name: "docx", out: []byte("docx bytes")}
	r := NewLibreOfficeRenderer(fakeSoffice(t), source, 0)

	out, err := r.Render(context.Background(), layout.Document{}, layout.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, []byte("docx bytes"), out)
}

func TestLibreOfficeRendererMissingBinary(t *testing.T) {
	source := &stubRenderer{format: FormatDOCX, name: "docx", out: []byte("x")}
	r := NewLibreOfficeRenderer(filepath.Join(t.TempDir(), "missing"), source, 0)

	_, err := r.Render(context.Background(), layout.Document{}, layout.DefaultSettings())
	assert.Error(t, err)
}
