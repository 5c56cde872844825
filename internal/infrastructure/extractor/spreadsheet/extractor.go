package spreadsheet

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/avilov/docsearch/internal/core/domain"
)

// Extractor renders the first worksheet of an XLSX workbook as aligned
// plain-text columns, the way the sheet reads on screen.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, artifact domain.Artifact) (string, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(artifact.Data))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open workbook", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return "", domain.WrapError(domain.ErrExtraction, "list sheets", errors.New("workbook has no sheets"))
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "read rows", err)
	}
	return renderRows(rows), nil
}

// renderRows pads each column to its widest cell so values line up.
func renderRows(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := utf8.RuneCountInString(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var builder strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			builder.WriteString(cell)
			if i < len(row)-1 {
				pad := widths[i] - utf8.RuneCountInString(cell) + 2
				builder.WriteString(strings.Repeat(" ", pad))
			}
		}
		builder.WriteString("\n")
	}
	return builder.String()
}
