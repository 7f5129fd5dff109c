package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"matchmycv/backend/internal/layout"
)

const pdfFont = "Helvetica"

type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

func (PDFRenderer) Format() string      { return FormatPDF }
func (PDFRenderer) ContentType() string { return "application/pdf" }
func (PDFRenderer) Name() string        { return "fpdf" }

func newPDF(s layout.Settings) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: s.Paper.Width, Ht: s.Paper.Height},
	})
	pdf.SetMargins(s.Margins.Left, s.Margins.Top, s.Margins.Right)
	pdf.SetAutoPageBreak(false, s.Margins.Bottom)
	pdf.SetCellMargin(0)
	return pdf
}

func fontStyle(st layout.Style) string {
	var b strings.Builder
	if st.Bold {
		b.WriteString("B")
	}
	if st.Italic {
		b.WriteString("I")
	}
	return b.String()
}

// FontMeasurer counts wrapped lines with the core font metrics fpdf draws with.
type FontMeasurer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func NewFontMeasurer() *FontMeasurer {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCellMargin(0)
	return &FontMeasurer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (m *FontMeasurer) Lines(text string, st layout.Style, width float64) int {
	m.pdf.SetFont(pdfFont, fontStyle(st), st.FontSize)
	if n := len(wrapText(m.pdf, m.tr(text), width)); n > 0 {
		return n
	}
	return 1
}

// wrapText breaks cp1252 text into lines no wider than width in the current
// font. Widths come from GetStringWidth, which reads the text byte by byte.
func wrapText(pdf *fpdf.Fpdf, text string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(pdf, para, width)...)
	}
	return lines
}

func wrapParagraph(pdf *fpdf.Fpdf, para string, width float64) []string {
	var (
		lines []string
		cur   string
		curW  float64
	)
	space := pdf.GetStringWidth(" ")
	for _, word := range strings.Split(para, " ") {
		if word == "" {
			continue
		}
		for _, piece := range splitWord(pdf, word, width) {
			w := pdf.GetStringWidth(piece)
			switch {
			case cur == "":
				cur, curW = piece, w
			case curW+space+w <= width:
				cur += " " + piece
				curW += space + w
			default:
				lines = append(lines, cur)
				cur, curW = piece, w
			}
		}
	}
	return append(lines, cur)
}

// splitWord hard-splits a word wider than width.
func splitWord(pdf *fpdf.Fpdf, word string, width float64) []string {
	if pdf.GetStringWidth(word) <= width {
		return []string{word}
	}
	var out []string
	start := 0
	for end := start + 1; end <= len(word); end++ {
		if end-start > 1 && pdf.GetStringWidth(word[start:end]) > width {
			out = append(out, word[start:end-1])
			start = end - 1
		}
	}
	return append(out, word[start:])
}

func (r PDFRenderer) Render(ctx context.Context, doc layout.Document, s layout.Settings) ([]byte, error) {
	measurer := NewFontMeasurer()
	pages, err := layout.Paginate(doc, s, measurer)
	if err != nil {
		return nil, err
	}

	pdf := newPDF(s)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("MatchMyCV", true)

	if len(pages) == 0 {
		pdf.AddPage()
	}

	width := s.ContentWidth()
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pdf.AddPage()
		for _, pl := range layout.Place(doc, s, measurer, page) {
			st := pl.Style
			lineHeight := st.FontSize * s.LineHeight
			x := s.Margins.Left + st.Indent
			y := s.Margins.Top + pl.Y

			pdf.SetFont(pdfFont, fontStyle(st), st.FontSize)

			if pl.Block.Kind == layout.KindBullet {
				pdf.SetXY(s.Margins.Left+st.Indent/3, y)
				pdf.CellFormat(st.Indent, lineHeight, tr("•"), "", 0, "L", false, 0, "")
			}

			align := "L"
			if st.Align == layout.AlignCenter {
				align = "C"
			}
			// Lines are drawn one cell each so they match what the measurer counted.
			for n, line := range wrapText(pdf, tr(layout.DisplayText(pl.Block)), width-st.Indent) {
				pdf.SetXY(x, y+float64(n)*lineHeight)
				pdf.CellFormat(width-st.Indent, lineHeight, line, "", 0, align, false, 0, "")
			}

			if pl.Block.Kind == layout.KindSection {
				ruleY := y + lineHeight + 1
				pdf.SetLineWidth(0.5)
				pdf.Line(s.Margins.Left, ruleY, s.Margins.Left+width, ruleY)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}
