package layout

import (
	"strings"

	"matchmycv/backend/internal/models"
)

// FromResume lays a résumé out as blocks in reading order.
func FromResume(r models.Resume) Document {
	var blocks []Block
	add := func(kind Kind, text string) {
		if text = strings.TrimSpace(text); text != "" {
			blocks = append(blocks, Block{Kind: kind, Text: text})
		}
	}

	add(KindName, r.Name)
	add(KindHeadline, r.Headline)

	contact := joinNonEmpty(" | ", r.Contact.Email, r.Contact.Phone, r.Contact.Location)
	if links := joinNonEmpty(" | ", r.Contact.Links...); links != "" {
		contact = joinNonEmpty(" | ", contact, links)
	}
	add(KindContact, contact)

	if strings.TrimSpace(r.Summary) != "" {
		add(KindSection, "Summary")
		for _, para := range splitParagraphs(r.Summary) {
			add(KindParagraph, para)
		}
	}

	if len(r.Experience) > 0 {
		add(KindSection, "Experience")
		for _, e := range r.Experience {
			add(KindEntryTitle, joinNonEmpty(" — ", e.Title, e.Company))
			add(KindEntryMeta, joinNonEmpty(" · ", e.Location, models.DateRange(e.StartDate, e.EndDate)))
			for _, b := range e.Bullets {
				add(KindBullet, b)
			}
		}
	}

	if len(r.Education) > 0 {
		add(KindSection, "Education")
		for _, e := range r.Education {
			add(KindEntryTitle, joinNonEmpty(" — ", e.Degree, e.Institution))
			add(KindEntryMeta, models.DateRange(e.StartDate, e.EndDate))
			for _, d := range e.Details {
				add(KindBullet, d)
			}
		}
	}

	if len(r.Skills) > 0 {
		add(KindSection, "Skills")
		add(KindParagraph, joinNonEmpty(", ", r.Skills...))
	}

	if len(r.Certifications) > 0 {
		add(KindSection, "Certifications")
		for _, c := range r.Certifications {
			add(KindBullet, c)
		}
	}

	if len(r.Languages) > 0 {
		add(KindSection, "Languages")
		add(KindParagraph, joinNonEmpty(", ", r.Languages...))
	}

	title := strings.TrimSpace(r.Name)
	if title == "" {
		title = "Resume"
	}

	return Document{Title: title, Blocks: blocks}
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
