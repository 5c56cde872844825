// Package pdfpage carves single pages out of PDF documents so downstream
// services receive exactly one page per request.
package pdfpage

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Carve returns a standalone PDF containing only the given 1-based page.
func Carve(data []byte, pageNr int) ([]byte, error) {
	if pageNr < 1 {
		return nil, fmt.Errorf("page number %d out of range", pageNr)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var buf bytes.Buffer
	if err := api.Trim(bytes.NewReader(data), &buf, []string{strconv.Itoa(pageNr)}, conf); err != nil {
		return nil, fmt.Errorf("trim pdf to page %d: %w", pageNr, err)
	}
	return buf.Bytes(), nil
}
