// Package extraction converts uploaded resume documents (PDF, DOCX, plain text) to
// plain text for analysis.
package extraction

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/analysis"
)

// Supported content types.
const (
	ContentTypePDF   = "application/pdf"
	ContentTypeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeDOC   = "application/msword"
	ContentTypePlain = "text/plain"
)

// Format identifies a document format.
type Format string

// Known formats.
const (
	FormatUnknown Format = ""
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatDOC     Format = "doc"
	FormatText    Format = "text"
)

// UnsupportedFormatError is returned for documents no extractor can read.
type UnsupportedFormatError struct {
	FileName    string
	ContentType string
}

func (e *UnsupportedFormatError) Error() string {
	if e.ContentType != "" {
		return fmt.Sprintf("unsupported document format: %s (%s)", e.FileName, e.ContentType)
	}
	return fmt.Sprintf("unsupported document format: %s", e.FileName)
}

// DetectFormat picks a format from the file extension, falling back to the
// declared content type.
func DetectFormat(fileName, contentType string) Format {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".doc":
		return FormatDOC
	case ".txt", ".text", ".md":
		return FormatText
	}

	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	switch mediaType {
	case ContentTypePDF:
		return FormatPDF
	case ContentTypeDOCX:
		return FormatDOCX
	case ContentTypeDOC:
		return FormatDOC
	case ContentTypePlain:
		return FormatText
	}
	return FormatUnknown
}

// DocumentExtractor reads PDF, DOCX and plain text documents.
// It implements analysis.TextExtractor.
type DocumentExtractor struct{}

// NewDocumentExtractor creates a DocumentExtractor.
func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

// ExtractText returns the plain text of doc.
func (e *DocumentExtractor) ExtractText(ctx context.Context, doc analysis.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch DetectFormat(doc.FileName, doc.ContentType) {
	case FormatPDF:
		return extractPDF(doc.Data)
	case FormatDOCX:
		return extractDOCX(doc.Data)
	case FormatText:
		return string(doc.Data), nil
	default:
		// legacy binary .doc has no reader here
		return "", &UnsupportedFormatError{FileName: doc.FileName, ContentType: doc.ContentType}
	}
}
