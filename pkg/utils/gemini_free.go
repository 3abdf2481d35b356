package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/api/option"
)

// GeminiGenerationClient implements GenerationClientInterface using Google's
// Gemini models. Free-tier alternative to the OpenAI client.
type GeminiGenerationClient struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerationClient(apiKey, model string) (GenerationClientInterface, error) {
	if model == "" {
		model = "gemini-1.5-flash" // Free tier model
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerationClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiGenerationClient) EnrichDocument(ctx context.Context, title, content string) (*DocumentEnrichment, error) {
	m := c.client.GenerativeModel(c.model)
	// Force JSON-only output so no brace-matching cleanup is needed.
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.2)
	m.SetTopP(0.5)
	m.SetTopK(20)

	prompt := fmt.Sprintf(`Summarize the document below in 2-3 sentences and propose up to 5 short topic tags.
Return JSON only, exactly: {"summary":"...","tags":["..."]}

Title: %s

%s`, title, truncate(content, 8000))

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}

	raw := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	var enrichment DocumentEnrichment
	if err := json.Unmarshal([]byte(raw), &enrichment); err != nil {
		return nil, fmt.Errorf("parse enrichment JSON: %w", err)
	}
	return &enrichment, nil
}

// GetEmbedding generates a vector for text. Gemini free tier has no dedicated
// embedding endpoint, so this falls back to a deterministic hash-based vector.
func (c *GeminiGenerationClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	return c.textToVector(text), nil
}

func (c *GeminiGenerationClient) textToVector(text string) pgvector.Vector {
	text = strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(text)

	const dimensions = 1536
	vector := make([]float32, dimensions)

	for _, word := range words {
		hash := c.hashWord(word)
		for i := 0; i < dimensions; i++ {
			influence := math.Sin(float64(hash+uint32(i))) * 0.1
			vector[i] += float32(influence)
		}
	}

	magnitude := float32(0)
	for _, val := range vector {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))

	if magnitude > 0 {
		for i := range vector {
			vector[i] /= magnitude
		}
	}

	return pgvector.NewVector(vector)
}

func (c *GeminiGenerationClient) hashWord(word string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(word))
	return h.Sum32()
}

func (c *GeminiGenerationClient) Close() error {
	return c.client.Close()
}
