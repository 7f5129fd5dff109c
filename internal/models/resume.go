package models

import (
	"strings"
)

// Resume is the structured CV content stored in a Version and rendered on export.
type Resume struct {
	Name           string       `json:"name"`
	Headline       string       `json:"headline,omitempty"`
	Contact        Contact      `json:"contact"`
	Summary        string       `json:"summary,omitempty"`
	Experience     []Experience `json:"experience,omitempty"`
	Education      []Education  `json:"education,omitempty"`
	Skills         []string     `json:"skills,omitempty"`
	Certifications []string     `json:"certifications,omitempty"`
	Languages      []string     `json:"languages,omitempty"`
}

type Contact struct {
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Location string   `json:"location,omitempty"`
	Links    []string `json:"links,omitempty"`
}

type Experience struct {
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	Location  string   `json:"location,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Bullets   []string `json:"bullets,omitempty"`
}

type Education struct {
	Institution string   `json:"institution"`
	Degree      string   `json:"degree,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Details     []string `json:"details,omitempty"`
}

// Normalize trims whitespace and drops empty list entries in place.
func (r *Resume) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Headline = strings.TrimSpace(r.Headline)
	r.Summary = strings.TrimSpace(r.Summary)
	r.Contact.Email = strings.TrimSpace(r.Contact.Email)
	r.Contact.Phone = strings.TrimSpace(r.Contact.Phone)
	r.Contact.Location = strings.TrimSpace(r.Contact.Location)
	r.Contact.Links = compact(r.Contact.Links)
	r.Skills = compact(r.Skills)
	r.Certifications = compact(r.Certifications)
	r.Languages = compact(r.Languages)

	experience := r.Experience[:0]
	for _, e := range r.Experience {
		e.Title = strings.TrimSpace(e.Title)
		e.Company = strings.TrimSpace(e.Company)
		e.Location = strings.TrimSpace(e.Location)
		e.StartDate = strings.TrimSpace(e.StartDate)
		e.EndDate = strings.TrimSpace(e.EndDate)
		e.Bullets = compact(e.Bullets)
		if e.Title == "" && e.Company == "" && len(e.Bullets) == 0 {
			continue
		}
		experience = append(experience, e)
	}
	r.Experience = experience

	education := r.Education[:0]
	for _, e := range r.Education {
		e.Institution = strings.TrimSpace(e.Institution)
		e.Degree = strings.TrimSpace(e.Degree)
		e.StartDate = strings.TrimSpace(e.StartDate)
		e.EndDate = strings.TrimSpace(e.EndDate)
		e.Details = compact(e.Details)
		if e.Institution == "" && e.Degree == "" {
			continue
		}
		education = append(education, e)
	}
	r.Education = education
}

// Empty reports whether the résumé carries no content at all.
func (r *Resume) Empty() bool {
	return r.Name == "" && r.Summary == "" && len(r.Experience) == 0 &&
		len(r.Education) == 0 && len(r.Skills) == 0
}

// PlainText flattens the résumé into the text form sent to the AI provider.
func (r *Resume) PlainText() string {
	var b strings.Builder
	line := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			b.WriteString(s)
			b.WriteString("\n")
		}
	}

	section := func(title string) {
		b.WriteString("\n")
		b.WriteString(title)
		b.WriteString("\n")
	}

	line(r.Name)
	line(r.Headline)
	line(strings.Join(nonEmpty(r.Contact.Email, r.Contact.Phone, r.Contact.Location), " | "))
	for _, l := range r.Contact.Links {
		line(l)
	}
	if r.Summary != "" {
		section("SUMMARY")
		line(r.Summary)
	}
	if len(r.Experience) > 0 {
		section("EXPERIENCE")
		for _, e := range r.Experience {
			line(strings.Join(nonEmpty(e.Title, e.Company, e.Location), ", "))
			line(DateRange(e.StartDate, e.EndDate))
			for _, bullet := range e.Bullets {
				line("- " + bullet)
			}
		}
	}
	if len(r.Education) > 0 {
		section("EDUCATION")
		for _, e := range r.Education {
			line(strings.Join(nonEmpty(e.Degree, e.Institution), ", "))
			line(DateRange(e.StartDate, e.EndDate))
			for _, d := range e.Details {
				line("- " + d)
			}
		}
	}
	if len(r.Skills) > 0 {
		section("SKILLS")
		line(strings.Join(r.Skills, ", "))
	}
	if len(r.Certifications) > 0 {
		section("CERTIFICATIONS")
		for _, c := range r.Certifications {
			line("- " + c)
		}
	}
	if len(r.Languages) > 0 {
		section("LANGUAGES")
		line(strings.Join(r.Languages, ", "))
	}

	return strings.TrimSpace(b.String())
}

// DateRange joins start and end dates, treating a missing end as "Present".
func DateRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start + " – Present"
	default:
		return start + " – " + end
	}
}

func compact(items []string) []string {
	out := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
