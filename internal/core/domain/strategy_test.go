package domain

import "testing"

func TestSelectStrategy(t *testing.T) {
	cases := []struct {
		mediaType string
		want      Strategy
	}{
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", StrategyDOCX},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", StrategySpreadsheet},
		{"application/pdf", StrategyPDF},
		{"image/jpeg", StrategyImage},
		{"image/png", StrategyImage},
		{"image/gif", StrategyImage},
		{"image/tiff", StrategyImage},
		{"text/plain", StrategyUnsupported},
		{"application/msword", StrategyUnsupported},
		{"", StrategyUnsupported},
	}
	for _, tc := range cases {
		if got := SelectStrategy(tc.mediaType); got != tc.want {
			t.Fatalf("SelectStrategy(%q) = %s, want %s", tc.mediaType, got, tc.want)
		}
	}
}
