package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

const (
	defaultReviewTimeout = 10 * time.Second
	maxReviewBodyBytes   = 1 << 16
)

// ReviewClient submits star-rating reviews to an external document store
// over HTTP (spec §6.4). The teacher's stack has no document-database SDK
// to ground this on, so it talks plain JSON over net/http, following the
// request/response client shape in the pack's other service clients
// (build request, set timeout, decode response, wrap errors with context).
type ReviewClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewReviewClient(endpoint string, httpClient *http.Client) *ReviewClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultReviewTimeout}
	}
	return &ReviewClient{endpoint: endpoint, httpClient: httpClient}
}

type reviewDocument struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// Submit posts one review. Player-submitted text is folded from full-width
// to half-width first (mobile IME input commonly arrives full-width) so the
// stored document is consistent regardless of client keyboard.
func (c *ReviewClient) Submit(rating int, text string) error {
	if c.endpoint == "" {
		return nil
	}
	folded, _, err := transform.String(width.Fold, text)
	if err != nil {
		folded = text
	}

	body, err := json.Marshal(reviewDocument{Rating: rating, Text: folded})
	if err != nil {
		return fmt.Errorf("encode review: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultReviewTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build review request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submit review: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxReviewBodyBytes))
		return fmt.Errorf("review store returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}
