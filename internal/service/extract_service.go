package service

import (
	"bytes"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
)

// ExtractService turns uploaded resume bytes into plain text. Extraction is
// best-effort: unsupported formats and parser failures yield an empty
// string, which callers must treat as "extraction failed, do not proceed".
type ExtractService interface {
	ExtractText(content []byte, format string) string
}

type extractService struct{}

func NewExtractService() ExtractService {
	return &extractService{}
}

func (s *extractService) ExtractText(content []byte, format string) string {
	switch normalizeFormat(format) {
	case "pdf":
		return extractPDF(content)
	case "docx":
		return extractDOCX(content)
	default:
		log.Warn().Str("format", format).Msg("Unsupported resume format")
		return ""
	}
}

// normalizeFormat accepts both bare extensions and the MIME types browsers
// send for uploads.
func normalizeFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(format, "."))) {
	case "pdf", "application/pdf":
		return "pdf"
	case "docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return "docx"
	default:
		return ""
	}
}

// extractPDF concatenates the plain text of every page, in page order.
func extractPDF(content []byte) string {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to open PDF for text extraction")
		return ""
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn().Err(err).Int("page", i).Msg("Failed to extract text from PDF page")
			continue
		}
		sb.WriteString(text)
	}
	return sb.String()
}

var docxTagPattern = regexp.MustCompile(`<[^>]+>`)

// extractDOCX round-trips through a temporary file; the docx library only
// reads from paths.
func extractDOCX(content []byte) string {
	tmp, err := os.CreateTemp("", "resume-*.docx")
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create temp file for DOCX extraction")
		return ""
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		log.Warn().Err(err).Msg("Failed to write temp file for DOCX extraction")
		return ""
	}
	tmp.Close()

	doc, err := docx.ReadDocxFile(tmp.Name())
	if err != nil {
		log.Warn().Err(err).Msg("Failed to open DOCX for text extraction")
		return ""
	}
	defer doc.Close()

	raw := doc.Editable().GetContent()
	raw = strings.ReplaceAll(raw, "</w:p>", "\n")
	return strings.TrimSpace(docxTagPattern.ReplaceAllString(raw, " "))
}
