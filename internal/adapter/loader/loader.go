package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"citerag/internal/port"
)

// Loader extracts text from source documents. PDFs are read page by page;
// everything else is treated as UTF-8 text.
type Loader struct{}

func New() *Loader {
	return &Loader{}
}

// Kind reports the document kind for a path.
func Kind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "pdf"
	case ".md", ".markdown":
		return "markdown"
	default:
		return "text"
	}
}

func (l *Loader) Load(path string) ([]port.Page, error) {
	if Kind(path) == "pdf" {
		return loadPDF(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []port.Page{{Number: 0, Text: string(data)}}, nil
}

func loadPDF(path string) ([]port.Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var pages []port.Page
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read pdf page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, port.Page{Number: i, Text: text})
	}
	return pages, nil
}
