// Package layout turns a résumé into an ordered list of styled blocks and splits
// those blocks into fixed-size pages. Every renderer consumes the same blocks and
// page breaks, so PDF and DOCX output agree on content and pagination.
package layout

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindName       Kind = "name"
	KindHeadline   Kind = "headline"
	KindContact    Kind = "contact"
	KindSection    Kind = "section"
	KindEntryTitle Kind = "entry_title"
	KindEntryMeta  Kind = "entry_meta"
	KindParagraph  Kind = "paragraph"
	KindBullet     Kind = "bullet"
)

type Block struct {
	Kind Kind
	Text string
}

type Document struct {
	Title  string
	Blocks []Block
}

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Style sizes are in points.
type Style struct {
	FontSize    float64
	Bold        bool
	Italic      bool
	Uppercase   bool
	Align       Align
	Indent      float64
	SpaceBefore float64
	SpaceAfter  float64
}

var styles = map[Kind]Style{
	KindName:       {FontSize: 22, Bold: true, Align: AlignCenter, SpaceAfter: 2},
	KindHeadline:   {FontSize: 12, Italic: true, Align: AlignCenter, SpaceAfter: 2},
	KindContact:    {FontSize: 9.5, Align: AlignCenter, SpaceAfter: 6},
	KindSection:    {FontSize: 12, Bold: true, Uppercase: true, SpaceBefore: 10, SpaceAfter: 4},
	KindEntryTitle: {FontSize: 11, Bold: true, SpaceBefore: 6, SpaceAfter: 1},
	KindEntryMeta:  {FontSize: 9.5, Italic: true, SpaceAfter: 2},
	KindParagraph:  {FontSize: 10.5, SpaceAfter: 3},
	KindBullet:     {FontSize: 10.5, Indent: 14, SpaceAfter: 1.5},
}

// StyleFor returns the style of a block kind; unknown kinds render as paragraphs.
func StyleFor(k Kind) Style {
	if s, ok := styles[k]; ok {
		return s
	}
	return styles[KindParagraph]
}

// DisplayText is the text a renderer draws for b.
func DisplayText(b Block) string {
	if StyleFor(b.Kind).Uppercase {
		return strings.ToUpper(b.Text)
	}
	return b.Text
}

type Paper struct {
	Name   string
	Width  float64
	Height float64
}

var (
	A4     = Paper{Name: "a4", Width: 595.28, Height: 841.89}
	Letter = Paper{Name: "letter", Width: 612, Height: 792}
)

// PaperByName resolves "a4" or "letter" (case-insensitive).
func PaperByName(name string) (Paper, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "a4":
		return A4, nil
	case "letter":
		return Letter, nil
	default:
		return Paper{}, fmt.Errorf("unknown paper size %q", name)
	}
}

type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

const pointsPerMM = 72 / 25.4

// UniformMarginsMM returns equal margins of mm millimetres on every side.
func UniformMarginsMM(mm float64) Margins {
	pt := mm * pointsPerMM
	return Margins{Top: pt, Right: pt, Bottom: pt, Left: pt}
}

type Settings struct {
	Paper   Paper
	Margins Margins
	// LineHeight is a multiple of the font size.
	LineHeight float64
}

const (
	DefaultMarginMM   = 18
	DefaultLineHeight = 1.25
)

func DefaultSettings() Settings {
	return Settings{
		Paper:      A4,
		Margins:    UniformMarginsMM(DefaultMarginMM),
		LineHeight: DefaultLineHeight,
	}
}

func (s Settings) ContentWidth() float64 {
	return s.Paper.Width - s.Margins.Left - s.Margins.Right
}

func (s Settings) ContentHeight() float64 {
	return s.Paper.Height - s.Margins.Top - s.Margins.Bottom
}

var ErrInvalidSettings = errors.New("invalid page settings")

func (s Settings) Validate() error {
	switch {
	case s.Paper.Width <= 0 || s.Paper.Height <= 0:
		return fmt.Errorf("%w: paper has no area", ErrInvalidSettings)
	case s.Margins.Top < 0 || s.Margins.Right < 0 || s.Margins.Bottom < 0 || s.Margins.Left < 0:
		return fmt.Errorf("%w: negative margin", ErrInvalidSettings)
	case s.ContentWidth() < 72 || s.ContentHeight() < 72:
		return fmt.Errorf("%w: margins leave less than one inch of content", ErrInvalidSettings)
	case s.LineHeight <= 0:
		return fmt.Errorf("%w: line height must be positive", ErrInvalidSettings)
	}
	return nil
}
