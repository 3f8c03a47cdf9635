package ollama

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"
)

// embedChunkSize bounds the text sent to the embedding model. Long result
// bodies are split and only the first chunk is embedded.
const embedChunkSize = 512

// Embedder adapts the Ollama client to the engine's Embedder capability.
type Embedder struct {
	client *Client
	model  string
}

func NewEmbedder(client *Client, model string) *Embedder {
	return &Embedder{
		client: client,
		model:  model,
	}
}

// Embed returns the embedding of text, bounded to the first split chunk so
// arbitrarily long bodies never exceed the model's input window.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(embedChunkSize),
		textsplitter.WithChunkOverlap(0),
	)

	chunks, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split text for embedding: %w", err)
	}
	if len(chunks) > 0 {
		text = chunks[0]
	}

	return e.client.GetEmbedding(ctx, e.model, text)
}

// LLM adapts the Ollama client to the engine's LLMProvider capability.
type LLM struct {
	client *Client
	model  string
}

func NewLLM(client *Client, model string) *LLM {
	return &LLM{
		client: client,
		model:  model,
	}
}

func (l *LLM) Generate(ctx context.Context, system string, prompt string) (string, error) {
	return l.client.Generate(ctx, l.model, system, prompt, map[string]interface{}{
		"temperature": 0.2,
		"top_p":       0.9,
	})
}
