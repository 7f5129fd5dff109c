package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchmycv/backend/internal/models"
)

// linesMeasurer returns one line per block unless the text is listed.
type linesMeasurer map[string]int

func (m linesMeasurer) Lines(text string, _ Style, _ float64) int {
	if n, ok := m[text]; ok {
		return n
	}
	return 1
}

func smallPage() Settings {
	return Settings{Paper: Paper{Name: "test", Width: 300, Height: 200}, LineHeight: 1}
}

func paragraphs(n int) []Block {
	out := make([]Block, n)
	for i := range out {
		out[i] = Block{Kind: KindParagraph, Text: fmt.Sprintf("p%d", i)}
	}
	return out
}

func sampleResume() models.Resume {
	r := models.Resume{
		Name:     "Ada Lovelace",
		Headline: "Backend Engineer",
		Contact:  models.Contact{Email: "ada@example.com", Phone: "+44 1234", Links: []string{"github.com/ada"}},
		Summary:  "Engineer with a decade of distributed systems work.\n\nLoves Go.",
		Skills:   []string{"Go", "PostgreSQL", "Kubernetes"},
	}
	for i := 0; i < 8; i++ {
		exp := models.Experience{
			Title:     "Engineer",
			Company:   fmt.Sprintf("Company %d", i),
			StartDate: "2015",
			EndDate:   "2017",
		}
		for j := 0; j < 5; j++ {
			exp.Bullets = append(exp.Bullets, strings.Repeat("Built and operated services that scaled reliably. ", 2))
		}
		r.Experience = append(r.Experience, exp)
	}
	r.Education = []models.Education{{Institution: "University of London", Degree: "BSc Mathematics", EndDate: "2012"}}
	return r
}

func flatten(pages []Page) []int {
	var out []int
	for _, p := range pages {
		out = append(out, p.Blocks...)
	}
	return out
}

func TestFromResumeOrder(t *testing.T) {
	doc := FromResume(models.Resume{
		Name:       "Ada",
		Summary:    "Short summary",
		Experience: []models.Experience{{Title: "Engineer", Company: "Acme", StartDate: "2020", Bullets: []string{"Did things", " "}}},
		Skills:     []string{"Go", "SQL"},
	})

	kinds := make([]Kind, len(doc.Blocks))
	for i, b := range doc.Blocks {
		kinds[i] = b.Kind
	}
	assert.Equal(t, []Kind{
		KindName, KindSection, KindParagraph,
		KindSection, KindEntryTitle, KindEntryMeta, KindBullet,
		KindSection, KindParagraph,
	}, kinds)
	assert.Equal(t, "Engineer — Acme", doc.Blocks[4].Text)
	assert.Equal(t, "Go, SQL", doc.Blocks[8].Text)
	assert.Equal(t, "Ada", doc.Title)
}

func TestFromResumeEmpty(t *testing.T) {
	doc := FromResume(models.Resume{})
	assert.Empty(t, doc.Blocks)
	assert.Equal(t, "Resume", doc.Title)

	pages, err := Paginate(doc, DefaultSettings(), nil)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestPaginateEveryBlockOnceInOrder(t *testing.T) {
	doc := FromResume(sampleResume())
	pages, err := Paginate(doc, DefaultSettings(), EstimateMeasurer{})
	require.NoError(t, err)
	require.Greater(t, len(pages), 1)

	want := make([]int, len(doc.Blocks))
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, flatten(pages))
}

func TestPaginateRespectsPageHeight(t *testing.T) {
	s := DefaultSettings()
	doc := FromResume(sampleResume())
	pages, err := Paginate(doc, s, EstimateMeasurer{})
	require.NoError(t, err)

	for i, p := range pages {
		if len(p.Blocks) > 1 {
			assert.LessOrEqual(t, p.Height, s.ContentHeight(), "page %d", i)
		}
	}
}

func TestPaginateOversizedBlockAlone(t *testing.T) {
	blocks := paragraphs(3)
	blocks[1].Text = "huge"
	doc := Document{Blocks: blocks}

	pages, err := Paginate(doc, smallPage(), linesMeasurer{"huge": 100})
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, []int{1}, pages[1].Blocks)
	assert.Greater(t, pages[1].Height, smallPage().ContentHeight())
}

func TestPaginateKeepsHeadingWithNext(t *testing.T) {
	// 12 paragraphs use 162pt of 200pt. The heading fits (26pt with space
	// before) but the paragraph after it would not.
	blocks := append(paragraphs(12),
		Block{Kind: KindSection, Text: "Experience"},
		Block{Kind: KindParagraph, Text: "after"},
	)
	pages, err := Paginate(Document{Blocks: blocks}, smallPage(), linesMeasurer{})
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Len(t, pages[0].Blocks, 12)
	assert.Equal(t, []int{12, 13}, pages[1].Blocks)
	assert.Equal(t, []int{12}, Breaks(pages))
}

func TestPaginateKeepsHeadingRunTogether(t *testing.T) {
	// 10 paragraphs use 135pt. Section and entry title fit below them, but
	// the three line meta block does not, so all three move together.
	blocks := append(paragraphs(10),
		Block{Kind: KindSection, Text: "Experience"},
		Block{Kind: KindEntryTitle, Text: "Engineer — Acme"},
		Block{Kind: KindEntryMeta, Text: "meta"},
		Block{Kind: KindBullet, Text: "bullet"},
	)
	pages, err := Paginate(Document{Blocks: blocks}, smallPage(), linesMeasurer{"meta": 3})
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, pages[0].Blocks)
	assert.Equal(t, []int{10, 11, 12, 13}, pages[1].Blocks)
	assert.InDelta(t, 135, pages[0].Height, 0.001)
}

func TestPaginateHeadingRunTooTallToCarry(t *testing.T) {
	// The meta block fills a page by itself, so the headings cannot follow it.
	blocks := append(paragraphs(10),
		Block{Kind: KindSection, Text: "Experience"},
		Block{Kind: KindEntryTitle, Text: "Engineer"},
		Block{Kind: KindEntryMeta, Text: "meta"},
	)
	pages, err := Paginate(Document{Blocks: blocks}, smallPage(), linesMeasurer{"meta": 20})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, flatten(pages[:1]))
	assert.Equal(t, []int{12}, pages[len(pages)-1].Blocks)
	assert.Equal(t, len(blocks), len(flatten(pages)))
}

func TestPaginateDropsSpaceBeforeAtPageTop(t *testing.T) {
	blocks := append(paragraphs(12),
		Block{Kind: KindSection, Text: "Experience"},
		Block{Kind: KindParagraph, Text: "after"},
	)
	pages, err := Paginate(Document{Blocks: blocks}, smallPage(), linesMeasurer{})
	require.NoError(t, err)
	require.Len(t, pages, 2)

	// section body 12+4, paragraph body 10.5+3, no space before the heading
	assert.InDelta(t, 29.5, pages[1].Height, 0.001)

	placed := Place(Document{Blocks: blocks}, smallPage(), linesMeasurer{}, pages[1])
	require.Len(t, placed, 2)
	assert.Zero(t, placed[0].Y)
	assert.InDelta(t, 16, placed[1].Y, 0.001)
}

func TestPaginateDeterministic(t *testing.T) {
	doc := FromResume(sampleResume())
	a, err := Paginate(doc, DefaultSettings(), EstimateMeasurer{})
	require.NoError(t, err)
	b, err := Paginate(doc, DefaultSettings(), EstimateMeasurer{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPaperChangeOnlyMovesBreaks(t *testing.T) {
	doc := FromResume(sampleResume())

	a4 := DefaultSettings()
	letter := DefaultSettings()
	letter.Paper = Letter
	letter.Margins = UniformMarginsMM(30)

	pa, err := Paginate(doc, a4, EstimateMeasurer{})
	require.NoError(t, err)
	pl, err := Paginate(doc, letter, EstimateMeasurer{})
	require.NoError(t, err)

	assert.Equal(t, flatten(pa), flatten(pl))
	assert.NotEqual(t, Breaks(pa), Breaks(pl))
}

func TestSettingsValidate(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())

	s := DefaultSettings()
	s.Margins = UniformMarginsMM(120)
	assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)

	s = DefaultSettings()
	s.LineHeight = 0
	assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)

	_, err := Paginate(Document{}, Settings{}, nil)
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestPaperByName(t *testing.T) {
	p, err := PaperByName("LETTER")
	require.NoError(t, err)
	assert.Equal(t, Letter, p)

	p, err = PaperByName("")
	require.NoError(t, err)
	assert.Equal(t, A4, p)

	_, err = PaperByName("a5")
	assert.Error(t, err)
}

func TestEstimateMeasurerWraps(t *testing.T) {
	m := EstimateMeasurer{}
	st := Style{FontSize: 10}

	// 5pt per glyph, 50pt wide: ten characters per line
	assert.Equal(t, 1, m.Lines("short", st, 50))
	assert.Equal(t, 2, m.Lines("hello there you", st, 50))
	assert.Equal(t, 3, m.Lines(strings.Repeat("x", 25), st, 50))
	assert.Equal(t, 2, m.Lines("one\ntwo", st, 50))
	assert.Equal(t, 1, m.Lines("", st, 50))
}

func TestDisplayTextUppercasesSections(t *testing.T) {
	assert.Equal(t, "SKILLS", DisplayText(Block{Kind: KindSection, Text: "Skills"}))
	assert.Equal(t, "Skills", DisplayText(Block{Kind: KindParagraph, Text: "Skills"}))
}
