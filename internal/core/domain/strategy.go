package domain

// Strategy is the extraction/classification handling path selected for a
// declared media type.
type Strategy string

const (
	StrategyDOCX        Strategy = "docx"
	StrategyPDF         Strategy = "pdf"
	StrategyImage       Strategy = "image"
	StrategySpreadsheet Strategy = "spreadsheet"
	StrategyUnsupported Strategy = "unsupported"
)

// Adding a format is a table entry here plus an extractor registration in
// bootstrap; no dispatch branches elsewhere.
var strategyByMediaType = map[string]Strategy{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": StrategyDOCX,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       StrategySpreadsheet,
	"application/pdf": StrategyPDF,
	"image/jpeg":      StrategyImage,
	"image/png":       StrategyImage,
	"image/gif":       StrategyImage,
	"image/tiff":      StrategyImage,
}

// SelectStrategy maps a declared media type to its handling strategy.
// Anything outside the allow-list is StrategyUnsupported.
func SelectStrategy(mediaType string) Strategy {
	if strategy, ok := strategyByMediaType[mediaType]; ok {
		return strategy
	}
	return StrategyUnsupported
}
