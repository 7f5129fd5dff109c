package services

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanJobDescription converts a pasted job description to plain text. Input
// without markup is only whitespace-normalised. Block elements become line
// breaks and list items become "- " lines.
func CleanJobDescription(raw string) string {
	if !strings.ContainsAny(raw, "<>") {
		return CleanText(raw)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return CleanText(raw)
	}
	doc.Find("script, style, noscript").Remove()

	var out strings.Builder
	walkHTML(doc.Find("body"), &out)
	return CleanText(out.String())
}

func walkHTML(selection *goquery.Selection, out *strings.Builder) {
	selection.Contents().Each(func(_ int, s *goquery.Selection) {
		switch tag := goquery.NodeName(s); tag {
		case "#text":
			out.WriteString(collapseSpaces(s.Text()))
		case "br":
			out.WriteString("\n")
		case "ul", "ol":
			out.WriteString("\n")
			s.Children().Each(func(_ int, li *goquery.Selection) {
				out.WriteString("\n- ")
				walkHTML(li, out)
			})
			out.WriteString("\n\n")
		case "p", "div", "section", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
			out.WriteString("\n")
			walkHTML(s, out)
			out.WriteString("\n\n")
		default:
			walkHTML(s, out)
		}
	})
}

func collapseSpaces(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			return " "
		}
		return ""
	}

	joined := strings.Join(fields, " ")
	if strings.TrimLeft(s, " \t\n\r") != s {
		joined = " " + joined
	}
	if strings.TrimRight(s, " \t\n\r") != s {
		joined += " "
	}
	return joined
}
