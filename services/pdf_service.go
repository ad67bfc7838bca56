package services

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText extracts text from every page of the PDF in document order
// and returns the concatenated text with surrounding whitespace trimmed,
// along with the page count.
func ExtractPDFText(r io.ReaderAt, size int64) (string, int, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var textBuilder strings.Builder
	pages := reader.NumPage()

	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			return "", 0, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		textBuilder.WriteString(text)
	}

	extracted := strings.TrimSpace(textBuilder.String())
	if len(extracted) == 0 {
		return "", 0, fmt.Errorf("no text extracted from pdf")
	}

	return extracted, pages, nil
}

// ExtractPDFFile extracts text from a PDF stored on disk.
func ExtractPDFFile(path string) (string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat PDF file: %w", err)
	}

	return ExtractPDFText(f, stat.Size())
}
