// Package extract provides text extraction from various document formats.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat indicates a file extension no extractor handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
// For plain text files (.txt, .md, .rst, or no extension), content is returned as-is (UTF-8 validated).
// For PDF, DOCX, ODT, RTF, and Excel, text is extracted from the binary format.
// Returns an error if the file cannot be read, or ErrUnsupportedFormat for any other extension.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".odt":
		return extractODT(content)
	case ".rtf":
		return extractRTF(content)
	case ".xlsx":
		return extractExcel(content)
	case ".txt", ".md", ".rst", "":
		return extractPlain(content)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// FileMetadata returns the title and author embedded in the document, for
// formats that carry any (PDF Info dictionary, OOXML core properties).
// Other formats return empty strings.
func FileMetadata(content []byte, ext string) (title, author string) {
	switch ext {
	case ".pdf":
		return PDFMetadata(content)
	case ".docx":
		return DOCXMetadata(content)
	}
	return "", ""
}
