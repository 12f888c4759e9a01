package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// TruncationMarker is appended when extracted text exceeds the cap.
const TruncationMarker = "\n[... text truncated ...]"

// PDFProcessor handles PDF operations
type PDFProcessor struct {
	Path     string
	doc      *fitz.Document
	NumPages int
}

// ValidatePDFPath checks that path exists, is a regular file and looks like
// a PDF before go-fitz touches it.
func ValidatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ParseError("file path cannot be empty", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ParseError(fmt.Sprintf("file does not exist: %s", path), err)
		}
		return ParseError(fmt.Sprintf("cannot access file: %s", path), err)
	}
	if info.IsDir() {
		return ParseError(fmt.Sprintf("path is a directory, not a file: %s", path), nil)
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return ParseError(fmt.Sprintf("file is not a PDF (has extension %s)", ext), nil)
	}
	return nil
}

// NewPDFProcessor opens the document and initializes the processor.
func NewPDFProcessor(path string) (*PDFProcessor, error) {
	if err := ValidatePDFPath(path); err != nil {
		return nil, err
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, ParseError("error opening PDF", err)
	}
	return &PDFProcessor{
		Path:     path,
		doc:      doc,
		NumPages: doc.NumPage(),
	}, nil
}

// Close cleans up resources.
func (p *PDFProcessor) Close() {
	if p.doc != nil {
		p.doc.Close()
		p.doc = nil
	}
}

// ExtractText extracts all text from the PDF, pages concatenated in order
// and separated by a newline. maxChars > 0 truncates the result and appends
// TruncationMarker; callers must not assume the full document fits.
func (p *PDFProcessor) ExtractText(maxChars int) (string, error) {
	var sb strings.Builder
	for i := 0; i < p.NumPages; i++ {
		text, err := p.doc.Text(i)
		if err != nil {
			return "", ParseError(fmt.Sprintf("error extracting text from page %d", i), err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	full := sb.String()
	if strings.TrimSpace(full) == "" {
		return "", ParseError("no text extracted from PDF", nil)
	}
	if maxChars > 0 {
		runes := []rune(full)
		if len(runes) > maxChars {
			full = string(runes[:maxChars]) + TruncationMarker
		}
	}
	return full, nil
}
