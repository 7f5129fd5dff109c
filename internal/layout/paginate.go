package layout

import (
	"strings"
	"unicode/utf8"
)

// Measurer reports how many lines text occupies when wrapped at width points.
type Measurer interface {
	Lines(text string, style Style, width float64) int
}

// EstimateMeasurer wraps words using an average glyph width, a fixed fraction of
// the font size. It needs no font files and is deterministic.
type EstimateMeasurer struct {
	// GlyphWidth is the average glyph width as a fraction of the font size.
	GlyphWidth float64
}

const defaultGlyphWidth = 0.5

func (m EstimateMeasurer) Lines(text string, style Style, width float64) int {
	glyph := m.GlyphWidth
	if glyph <= 0 {
		glyph = defaultGlyphWidth
	}
	if style.Bold {
		glyph *= 1.1
	}
	charWidth := style.FontSize * glyph
	if charWidth <= 0 || width <= 0 {
		return 1
	}

	perLine := int(width / charWidth)
	if perLine < 1 {
		perLine = 1
	}

	total := 0
	for _, line := range strings.Split(text, "\n") {
		total += wrapCount(strings.Fields(line), perLine)
	}
	if total < 1 {
		total = 1
	}
	return total
}

// wrapCount greedily fills lines of perLine characters; words longer than a
// line are hard-split.
func wrapCount(words []string, perLine int) int {
	if len(words) == 0 {
		return 1
	}

	lines, used := 1, 0
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		switch {
		case used == 0:
			used = n
		case used+1+n <= perLine:
			used += 1 + n
			continue
		default:
			lines++
			used = n
		}
		for used > perLine {
			lines++
			used -= perLine
		}
	}
	return lines
}

type Page struct {
	// Blocks holds indexes into Document.Blocks, ascending.
	Blocks []int
	// Height is the vertical space the blocks use, in points.
	Height float64
}

// Placement is one block positioned on a page.
type Placement struct {
	Index  int
	Block  Block
	Style  Style
	Lines  int
	Y      float64
	Height float64
}

type metric struct {
	before float64
	body   float64
	lines  int
}

func measure(doc Document, s Settings, m Measurer) []metric {
	width := s.ContentWidth()
	out := make([]metric, len(doc.Blocks))
	for i, b := range doc.Blocks {
		st := StyleFor(b.Kind)
		lines := m.Lines(DisplayText(b), st, width-st.Indent)
		if lines < 1 {
			lines = 1
		}
		out[i] = metric{
			before: st.SpaceBefore,
			body:   float64(lines)*st.FontSize*s.LineHeight + st.SpaceAfter,
			lines:  lines,
		}
	}
	return out
}

func keepWithNext(k Kind) bool {
	return k == KindSection || k == KindEntryTitle
}

// Paginate splits doc into pages. Every block lands on exactly one page in
// document order. A page never exceeds the content height unless it holds a
// single block that is taller than a page on its own. Space before a block is
// dropped at the top of a page. A section heading or entry title moves to the
// next page with the block that follows it when that pair fits on a fresh page,
// and a run of headings ending a page moves along with the block after it.
func Paginate(doc Document, s Settings, m Measurer) ([]Page, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if m == nil {
		m = EstimateMeasurer{}
	}

	usable := s.ContentHeight()
	metrics := measure(doc, s, m)

	height := func(blocks []int) float64 {
		h := 0.0
		for n, idx := range blocks {
			if n > 0 {
				h += metrics[idx].before
			}
			h += metrics[idx].body
		}
		return h
	}
	heading := func(idx int) bool { return keepWithNext(doc.Blocks[idx].Kind) }

	var (
		pages []Page
		cur   Page
	)
	flush := func() {
		if len(cur.Blocks) > 0 {
			cur.Height = height(cur.Blocks)
			pages = append(pages, cur)
		}
		cur = Page{}
	}

	// breakBefore closes the current page ahead of block i. Trailing headings
	// go with i when they fit on the fresh page together, and at least one
	// block always stays behind.
	breakBefore := func(i int) {
		k := len(cur.Blocks)
		for k > 1 && heading(cur.Blocks[k-1]) {
			k--
		}
		carried := append([]int(nil), cur.Blocks[k:]...)
		if height(append(append([]int(nil), carried...), i)) > usable {
			carried, k = nil, len(cur.Blocks)
		}
		cur.Blocks = cur.Blocks[:k]
		flush()
		cur.Blocks = carried
	}

	for i, mt := range metrics {
		if len(cur.Blocks) > 0 {
			withI := cur.Height + mt.before + mt.body

			keep := false
			if heading(i) && i+1 < len(metrics) && !allHeadings(cur.Blocks, heading) {
				next := metrics[i+1].before + metrics[i+1].body
				keep = withI+next > usable && mt.body+next <= usable
			}

			if withI > usable || keep {
				breakBefore(i)
			}
		}

		cur.Blocks = append(cur.Blocks, i)
		cur.Height = height(cur.Blocks)
	}
	flush()

	return pages, nil
}

func allHeadings(blocks []int, heading func(int) bool) bool {
	for _, idx := range blocks {
		if !heading(idx) {
			return false
		}
	}
	return true
}

// Place returns the blocks of page with their vertical offsets from the top margin.
func Place(doc Document, s Settings, m Measurer, page Page) []Placement {
	if m == nil {
		m = EstimateMeasurer{}
	}
	width := s.ContentWidth()

	out := make([]Placement, 0, len(page.Blocks))
	y := 0.0
	for n, idx := range page.Blocks {
		b := doc.Blocks[idx]
		st := StyleFor(b.Kind)
		if n > 0 {
			y += st.SpaceBefore
		}
		lines := m.Lines(DisplayText(b), st, width-st.Indent)
		if lines < 1 {
			lines = 1
		}
		h := float64(lines) * st.FontSize * s.LineHeight
		out = append(out, Placement{Index: idx, Block: b, Style: st, Lines: lines, Y: y, Height: h})
		y += h + st.SpaceAfter
	}
	return out
}

// Breaks returns the index of the first block of every page after the first.
func Breaks(pages []Page) []int {
	var out []int
	for i := 1; i < len(pages); i++ {
		if len(pages[i].Blocks) > 0 {
			out = append(out, pages[i].Blocks[0])
		}
	}
	return out
}
