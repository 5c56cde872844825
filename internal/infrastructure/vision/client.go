// Package vision talks to the vision sidecar, which rasterizes and reads
// document pages and assigns document-type labels.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avilov/docsearch/internal/infrastructure/resilience"
)

const (
	defaultTimeout = 60 * time.Second

	// minOCRScale is the lowest render scale that keeps small print legible
	// to the recognizer.
	minOCRScale = 2.0
)

type Options struct {
	Timeout            time.Duration
	OCRScale           float64
	ResilienceExecutor *resilience.Executor
}

// Client is the HTTP client for the sidecar's /v1/ocr and /v1/classify
// endpoints. Both take raw document bytes with the matching Content-Type.
type Client struct {
	baseURL    string
	ocrScale   float64
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	scale := opts.OCRScale
	if scale < minOCRScale {
		scale = minOCRScale
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		ocrScale:   scale,
		httpClient: &http.Client{Timeout: timeout},
		executor:   opts.ResilienceExecutor,
	}
}

func (c *Client) Recognize(ctx context.Context, payload []byte, contentType string) (string, error) {
	path := "/v1/ocr?scale=" + strconv.FormatFloat(c.ocrScale, 'f', 1, 64)

	var out struct {
		Text string `json:"text"`
	}
	if err := c.postBinary(ctx, "ocr", path, payload, contentType, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *Client) Classify(ctx context.Context, payload []byte, contentType string) (string, error) {
	var out struct {
		Label string `json:"label"`
	}
	if err := c.postBinary(ctx, "classify", "/v1/classify", payload, contentType, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Label), nil
}

func (c *Client) postBinary(ctx context.Context, operation, path string, payload []byte, contentType string, out any) error {
	call := func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build %s request: %w", operation, err)
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("call vision %s: %w", operation, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusMultipleChoices {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			return &HTTPStatusError{
				Operation:  operation,
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				Body:       string(body),
			}
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", operation, err)
		}
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "vision."+operation, call, classifyVisionError)
	} else {
		err = call(ctx)
	}
	return wrapTemporaryIfNeeded("vision "+operation, err)
}
