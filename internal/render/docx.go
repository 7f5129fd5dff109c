package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unioffice/schema/soo/wml"

	"matchmycv/backend/internal/layout"
)

const docxFont = "Calibri"

// DOCXRenderer writes one paragraph per block and an explicit page break
// before the first block of every page after the first, so Word opens the
// document with the same pagination as the PDF.
type DOCXRenderer struct{}

func NewDOCXRenderer() *DOCXRenderer { return &DOCXRenderer{} }

func (DOCXRenderer) Format() string { return FormatDOCX }
func (DOCXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
func (DOCXRenderer) Name() string { return "unioffice" }

func pt(v float64) measurement.Distance {
	return measurement.Distance(v) * measurement.Point
}

func (r *DOCXRenderer) Render(ctx context.Context, doc layout.Document, s layout.Settings) ([]byte, error) {
	pages, err := layout.Paginate(doc, s, NewFontMeasurer())
	if err != nil {
		return nil, err
	}

	breaks := map[int]bool{}
	for _, idx := range layout.Breaks(pages) {
		breaks[idx] = true
	}

	out := document.New()
	defer out.Close()

	out.CoreProperties.SetTitle(doc.Title)

	section := out.BodySection()
	section.SetPageSizeAndOrientation(pt(s.Paper.Width), pt(s.Paper.Height), wml.ST_PageOrientationPortrait)
	section.SetPageMargins(pt(s.Margins.Top), pt(s.Margins.Right), pt(s.Margins.Bottom), pt(s.Margins.Left), 0, 0, 0)

	for i, block := range doc.Blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		st := layout.StyleFor(block.Kind)
		para := out.AddParagraph()
		props := para.Properties()

		spacing := props.Spacing()
		before := st.SpaceBefore
		if breaks[i] {
			before = 0
		}
		spacing.SetBefore(pt(before))
		spacing.SetAfter(pt(st.SpaceAfter))
		spacing.SetLineSpacing(pt(st.FontSize*s.LineHeight), wml.ST_LineSpacingRuleExact)

		if st.Align == layout.AlignCenter {
			props.SetAlignment(wml.ST_JcCenter)
		}
		if st.Indent > 0 {
			props.SetStartIndent(pt(st.Indent))
			props.SetHangingIndent(pt(st.Indent / 1.5))
		}

		if breaks[i] {
			para.AddRun().AddPageBreak()
		}

		text := layout.DisplayText(block)
		if block.Kind == layout.KindBullet {
			text = "•\t" + text
		}

		run := para.AddRun()
		rp := run.Properties()
		rp.SetFontFamily(docxFont)
		rp.SetSize(pt(st.FontSize))
		rp.SetBold(st.Bold)
		rp.SetItalic(st.Italic)
		run.AddText(text)
	}

	var buf bytes.Buffer
	if err := out.Save(&buf); err != nil {
		return nil, fmt.Errorf("failed to write DOCX: %w", err)
	}
	return buf.Bytes(), nil
}
