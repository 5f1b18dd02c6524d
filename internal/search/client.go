package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/premOFbounteous/backFinal/internal/domain"
)

// RelevanceClient is the opaque text-classification collaborator behind
// AI-assisted search: given a free-text query and a compact catalog listing,
// it returns the titles it judges relevant.
type RelevanceClient interface {
	MatchTitles(ctx context.Context, query string, catalog []domain.ProductSummary) ([]string, error)
}

type HTTPClient struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewHTTPClient(endpoint, apiKey, model string) *HTTPClient {
	return &HTTPClient{
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func (c *HTTPClient) MatchTitles(ctx context.Context, query string, catalog []domain.ProductSummary) ([]string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: buildPrompt(query, catalog),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal relevance request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build relevance request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relevance request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relevance service returned status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode relevance response: %w", err)
	}

	return ParseTitles(decoded.Text), nil
}

func buildPrompt(query string, catalog []domain.ProductSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Query: %q\nProducts:\n", query)
	for _, p := range catalog {
		fmt.Fprintf(&b, "ID: %d, Title: %s, Brand: %s, Category: %s\n", p.ProductID, p.Title, p.Brand, p.Category)
	}
	b.WriteString("Return only the very relevant product Titles as a comma-separated plain text list.")
	return b.String()
}

// ParseTitles splits the collaborator's comma-separated answer into clean
// titles, dropping empty fragments.
func ParseTitles(text string) []string {
	parts := strings.Split(text, ",")
	titles := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}
