// Package exa integrates the Exa search API as an engine provider.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Prathmesh1703/SearchEngine/src/core/engine"
)

const (
	DefaultURL   = "https://api.exa.ai"
	providerName = "exa"
)

type searchRequest struct {
	Query          string          `json:"query"`
	NumResults     int             `json:"numResults"`
	Type           string          `json:"type"`
	IncludeDomains []string        `json:"includeDomains,omitempty"`
	Contents       contentsRequest `json:"contents"`
}

type contentsRequest struct {
	Text bool `json:"text"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Text          string  `json:"text"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"publishedDate"`
	Author        string  `json:"author"`
}

// Client is an Exa API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(apiKey string, baseURL string, c *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		httpClient: c,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// Provider adapts the Exa client to the engine's Provider capability. Exa
// filters domains natively via includeDomains.
type Provider struct {
	client *Client
}

func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) Search(ctx context.Context, query string, domains []string, numResults int) ([]engine.SearchItem, error) {
	reqBody := searchRequest{
		Query:      query,
		NumResults: numResults,
		Type:       "keyword",
		Contents:   contentsRequest{Text: true},
	}
	if len(domains) > 0 {
		reqBody.IncludeDomains = engine.NormalizeDomains(domains)
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/search", p.client.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.client.apiKey)

	resp, err := p.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("exa returned status %d: %s", resp.StatusCode, body)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	items := make([]engine.SearchItem, 0, len(result.Results))
	for _, r := range result.Results {
		items = append(items, engine.SearchItem{
			Title:         r.Title,
			URL:           r.URL,
			Text:          r.Text,
			Provider:      providerName,
			ProviderScore: r.Score,
			PublishedAt:   r.PublishedDate,
			Author:        r.Author,
		})
	}
	return items, nil
}
