package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/unidoc/unioffice/document"
	"go.uber.org/zap"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyDocument       = errors.New("no text content found in document")
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeText = "text/plain; charset=utf-8"
)

type ExtractedText struct {
	Text        string
	ContentType string
	PageCount   int
}

type TextExtractor interface {
	Extract(filename string, data []byte) (*ExtractedText, error)
}

type textExtractor struct {
	logger *zap.Logger
}

func NewTextExtractor(logger *zap.Logger) TextExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &textExtractor{logger: logger}
}

// DetectContentType checks the extension against the leading bytes of the file.
func DetectContentType(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		if bytes.HasPrefix(data, []byte("%PDF-")) {
			return ContentTypePDF, nil
		}
	case ".docx":
		if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
			return ContentTypeDOCX, nil
		}
	case ".txt":
		if utf8.Valid(data) {
			return ContentTypeText, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Ext(filename))
}

func (e *textExtractor) Extract(filename string, data []byte) (*ExtractedText, error) {
	contentType, err := DetectContentType(filename, data)
	if err != nil {
		return nil, err
	}

	out := &ExtractedText{ContentType: contentType}
	switch contentType {
	case ContentTypePDF:
		out.Text, out.PageCount, err = extractPDF(data)
	case ContentTypeDOCX:
		out.Text, err = e.extractDOCX(data)
	default:
		out.Text = string(data)
	}
	if err != nil {
		return nil, err
	}

	out.Text = CleanText(out.Text)
	if out.Text == "" {
		return nil, ErrEmptyDocument
	}
	return out, nil
}

func extractPDF(data []byte) (string, int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// unreadable pages are skipped
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), totalPage, nil
}

func (e *textExtractor) extractDOCX(data []byte) (string, error) {
	text, err := extractDOCXWithUnioffice(data)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}

	// unioffice refuses to open documents without a license key
	e.logger.Debug("unioffice extraction failed, reading document.xml directly", zap.Error(err))
	return extractDOCXFallback(data)
}

func extractDOCXWithUnioffice(data []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	var text strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			text.WriteString(run.Text())
		}
		text.WriteString("\n")
	}

	return text.String(), nil
}

func extractDOCXFallback(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("%w: word/document.xml not found", ErrUnsupportedFileType)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX body: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var sb strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse DOCX body: %w", err)
		}

		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "t" {
				var content string
				if err := decoder.DecodeElement(&content, &se); err == nil {
					sb.WriteString(content)
				}
			}
		case xml.EndElement:
			if se.Name.Local == "p" {
				sb.WriteString("\n")
			}
		}
	}

	return sb.String(), nil
}

// CleanText trims every line and collapses runs of blank lines into one.
func CleanText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var cleanedLines []string

	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			blank = len(cleanedLines) > 0
			continue
		}
		if blank {
			cleanedLines = append(cleanedLines, "")
			blank = false
		}
		cleanedLines = append(cleanedLines, line)
	}

	return strings.Join(cleanedLines, "\n")
}
