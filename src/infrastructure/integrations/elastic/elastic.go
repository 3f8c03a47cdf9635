// Package elastic backs a self-hosted corpus provider with Elasticsearch.
// Documents are seeded through SDK.Index (see the seed command) and served
// back through the Provider during fan-out.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/Prathmesh1703/SearchEngine/src/core/engine"
)

const providerName = "elastic"

// Document is one corpus entry in the local search index.
type Document struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// SDK wraps the Elasticsearch client for one corpus index.
type SDK struct {
	client *elasticsearch.Client
	index  string
}

func NewSDK(client *elasticsearch.Client, index string) *SDK {
	return &SDK{
		client: client,
		index:  index,
	}
}

// Index stores one document in the corpus index.
func (s *SDK) Index(ctx context.Context, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error marshaling document: %w", err)
	}

	res, err := s.client.Index(s.index, bytes.NewReader(data), s.client.Index.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error indexing document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index request failed: %s", res.String())
	}
	return nil
}

type searchEnvelope struct {
	Hits struct {
		Hits []struct {
			Score  float64  `json:"_score"`
			Source Document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a multi-field match query over the corpus.
func (s *SDK) Search(ctx context.Context, query string, size int) ([]Document, []float64, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title", "text"},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, fmt.Errorf("error encoding query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
		s.client.Search.WithSize(size),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("error searching index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, nil, fmt.Errorf("search request failed: %s", res.String())
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, nil, fmt.Errorf("error decoding response: %w", err)
	}

	docs := make([]Document, 0, len(envelope.Hits.Hits))
	scores := make([]float64, 0, len(envelope.Hits.Hits))
	for _, hit := range envelope.Hits.Hits {
		docs = append(docs, hit.Source)
		scores = append(scores, hit.Score)
	}
	return docs, scores, nil
}

// Provider adapts the corpus index to the engine's Provider capability.
// Elasticsearch cannot filter by the allow-list natively here, so the
// provider filters post-hoc like serpapi does.
type Provider struct {
	sdk *SDK
}

func NewProvider(sdk *SDK) *Provider {
	return &Provider{sdk: sdk}
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) Search(ctx context.Context, query string, domains []string, numResults int) ([]engine.SearchItem, error) {
	docs, scores, err := p.sdk.Search(ctx, query, numResults)
	if err != nil {
		return nil, err
	}

	allowed := engine.NormalizeDomains(domains)

	items := make([]engine.SearchItem, 0, len(docs))
	for i, doc := range docs {
		if !engine.DomainAllowed(doc.URL, allowed) {
			continue
		}
		items = append(items, engine.SearchItem{
			Title:         doc.Title,
			URL:           doc.URL,
			Text:          doc.Text,
			Provider:      providerName,
			ProviderScore: scores[i],
		})
	}
	return items, nil
}
