package vision

import (
	"context"
	"errors"
	"testing"

	"github.com/avilov/docsearch/internal/core/domain"
)

type inferenceFake struct {
	label string
	err   error
	calls int
}

func (f *inferenceFake) Classify(context.Context, []byte, string) (string, error) {
	f.calls++
	return f.label, f.err
}

func newTestClassifier(t *testing.T, api inferenceAPI) *Classifier {
	t.Helper()
	classifier, err := NewClassifier(api, 1)
	if err != nil {
		t.Fatalf("NewClassifier() error = %v", err)
	}
	t.Cleanup(classifier.Close)
	return classifier
}

func TestClassifyImageReturnsLabel(t *testing.T) {
	api := &inferenceFake{label: "passport"}
	classifier := newTestClassifier(t, api)

	label := classifier.Classify(context.Background(), domain.Artifact{
		Strategy:    domain.StrategyImage,
		ContentType: "image/png",
		Data:        []byte("png bytes"),
	}, "")
	if label != "passport" {
		t.Fatalf("expected passport, got %s", label)
	}
	if api.calls != 1 {
		t.Fatalf("expected one inference call, got %d", api.calls)
	}
}

func TestClassifyEmptyDocxTextSkipsInference(t *testing.T) {
	api := &inferenceFake{label: "should-not-be-used"}
	classifier := newTestClassifier(t, api)

	label := classifier.Classify(context.Background(), domain.Artifact{
		Strategy: domain.StrategyDOCX,
	}, "   \n  ")
	if label != domain.LabelUnclassified {
		t.Fatalf("expected %s, got %s", domain.LabelUnclassified, label)
	}
	if api.calls != 0 {
		t.Fatalf("expected no inference calls, got %d", api.calls)
	}
}

func TestClassifyDocxRendersTextPage(t *testing.T) {
	api := &inferenceFake{label: "contract"}
	classifier := newTestClassifier(t, api)

	label := classifier.Classify(context.Background(), domain.Artifact{
		Strategy: domain.StrategyDOCX,
	}, "Employment agreement\nbetween the parties")
	if label != "contract" {
		t.Fatalf("expected contract, got %s", label)
	}
	if api.calls != 1 {
		t.Fatalf("expected one inference call, got %d", api.calls)
	}
}

func TestClassifyInferenceErrorFallsBack(t *testing.T) {
	api := &inferenceFake{err: errors.New("sidecar down")}
	classifier := newTestClassifier(t, api)

	label := classifier.Classify(context.Background(), domain.Artifact{
		Strategy:    domain.StrategyImage,
		ContentType: "image/jpeg",
		Data:        []byte("jpeg bytes"),
	}, "")
	if label != domain.LabelUnclassified {
		t.Fatalf("expected %s, got %s", domain.LabelUnclassified, label)
	}
}

func TestClassifyBlankLabelFallsBack(t *testing.T) {
	api := &inferenceFake{label: "  "}
	classifier := newTestClassifier(t, api)

	label := classifier.Classify(context.Background(), domain.Artifact{
		Strategy:    domain.StrategyImage,
		ContentType: "image/jpeg",
		Data:        []byte("jpeg bytes"),
	}, "")
	if label != domain.LabelUnclassified {
		t.Fatalf("expected %s, got %s", domain.LabelUnclassified, label)
	}
}

func TestClassifyCorruptPDFFallsBack(t *testing.T) {
	api := &inferenceFake{label: "unused"}
	classifier := newTestClassifier(t, api)

	label := classifier.Classify(context.Background(), domain.Artifact{
		Strategy: domain.StrategyPDF,
		Data:     []byte("not a pdf"),
	}, "some text")
	if label != domain.LabelUnclassified {
		t.Fatalf("expected %s, got %s", domain.LabelUnclassified, label)
	}
	if api.calls != 0 {
		t.Fatalf("expected no inference calls, got %d", api.calls)
	}
}

func TestClassifyUnknownStrategyFallsBack(t *testing.T) {
	classifier := newTestClassifier(t, &inferenceFake{label: "unused"})

	label := classifier.Classify(context.Background(), domain.Artifact{
		Strategy: domain.StrategyUnsupported,
	}, "")
	if label != domain.LabelUnclassified {
		t.Fatalf("expected %s, got %s", domain.LabelUnclassified, label)
	}
}
