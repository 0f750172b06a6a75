package analysis

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var pdfMagic = []byte("%PDF-")

// IsPDF reports whether content carries a PDF header.
func IsPDF(content []byte) bool {
	return bytes.HasPrefix(content, pdfMagic)
}

// PreparePDF returns the page count of a PDF and, for multi-page files, a copy
// trimmed to the first page. The synchronous analysis call only accepts
// single-page documents.
func PreparePDF(content []byte) ([]byte, int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageCount, err := api.PageCount(bytes.NewReader(content), conf)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get page count: %w", err)
	}
	if pageCount <= 1 {
		return content, pageCount, nil
	}

	var out bytes.Buffer
	if err := api.Trim(bytes.NewReader(content), &out, []string{"1"}, conf); err != nil {
		return nil, pageCount, fmt.Errorf("failed to trim PDF to first page: %w", err)
	}
	return out.Bytes(), pageCount, nil
}
