// Package serpapi integrates SerpAPI's Google engine as an engine provider.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Prathmesh1703/SearchEngine/src/core/engine"
)

const (
	DefaultURL   = "https://serpapi.com/search"
	providerName = "serpapi"
)

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
}

type organicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date"`
}

// Provider queries SerpAPI. The upstream source cannot filter by domain, so
// the provider applies a post-hoc substring filter over normalized domains.
type Provider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewProvider(apiKey string, baseURL string, c *http.Client) *Provider {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Provider{
		httpClient: c,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) Search(ctx context.Context, query string, domains []string, numResults int) ([]engine.SearchItem, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", p.apiKey)
	params.Set("num", strconv.Itoa(numResults))

	req, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("serpapi returned status %d: %s", resp.StatusCode, body)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	allowed := engine.NormalizeDomains(domains)

	items := make([]engine.SearchItem, 0, len(result.OrganicResults))
	for _, r := range result.OrganicResults {
		if !engine.DomainAllowed(r.Link, allowed) {
			continue
		}
		items = append(items, engine.SearchItem{
			Title:         r.Title,
			URL:           r.Link,
			Text:          r.Snippet,
			Provider:      providerName,
			ProviderScore: 1.0,
			PublishedAt:   r.Date,
		})
	}
	return items, nil
}
