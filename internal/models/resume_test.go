package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResumeNormalize(t *testing.T) {
	r := Resume{
		Name:   "  Ada Lovelace ",
		Skills: []string{" Go ", "", "  "},
		Experience: []Experience{
			{Title: " Engineer ", Company: "Analytical Engines", Bullets: []string{"", " Wrote programs "}},
			{Title: " ", Company: ""},
		},
		Education: []Education{{Institution: ""}},
	}

	r.Normalize()

	assert.Equal(t, "Ada Lovelace", r.Name)
	assert.Equal(t, []string{"Go"}, r.Skills)
	assert.Len(t, r.Experience, 1)
	assert.Equal(t, "Engineer", r.Experience[0].Title)
	assert.Equal(t, []string{"Wrote programs"}, r.Experience[0].Bullets)
	assert.Empty(t, r.Education)
	assert.False(t, r.Empty())
}

func TestResumePlainText(t *testing.T) {
	r := Resume{
		Name:    "Ada Lovelace",
		Contact: Contact{Email: "ada@example.com", Location: "London"},
		Summary: "Mathematician.",
		Experience: []Experience{{
			Title: "Analyst", Company: "Babbage & Co", StartDate: "1842",
			Bullets: []string{"Published notes"},
		}},
		Skills: []string{"Mathematics", "Programming"},
	}

	text := r.PlainText()

	assert.Contains(t, text, "Ada Lovelace\nada@example.com | London")
	assert.Contains(t, text, "EXPERIENCE\nAnalyst, Babbage & Co\n1842 – Present\n- Published notes")
	assert.Contains(t, text, "SKILLS\nMathematics, Programming")
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, "", DateRange("", ""))
	assert.Equal(t, "2020", DateRange("", "2020"))
	assert.Equal(t, "2019 – Present", DateRange("2019", ""))
	assert.Equal(t, "2019 – 2021", DateRange("2019", " 2021 "))
}
