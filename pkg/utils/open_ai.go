package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

// DocumentEnrichment is what a generation pass produces for a document.
// Callers must reserve AI-call budget for the whole unit (summary + tags +
// embedding) before invoking the client.
type DocumentEnrichment struct {
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

type GenerationClientInterface interface {
	EnrichDocument(ctx context.Context, title, content string) (*DocumentEnrichment, error)
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
	Close() error
}

type OpenAIGenerationClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerationClient(apiKey, model string) *OpenAIGenerationClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerationClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIGenerationClient) EnrichDocument(ctx context.Context, title, content string) (*DocumentEnrichment, error) {
	prompt := fmt.Sprintf(`Summarize the document below in 2-3 sentences and propose up to 5 short topic tags.
Return JSON only, exactly: {"summary":"...","tags":["..."]}

Title: %s

%s`, title, truncate(content, 8000))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	var enrichment DocumentEnrichment
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &enrichment); err != nil {
		return nil, fmt.Errorf("parse enrichment JSON: %w", err)
	}
	return &enrichment, nil
}

func (c *OpenAIGenerationClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{truncate(text, 8000)},
		Model: openai.SmallEmbedding3,
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, fmt.Errorf("openai returned no embedding data")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}

func (c *OpenAIGenerationClient) Close() error { return nil }

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max])
}

// NewGenerationClient builds either an OpenAI or Gemini client based on config.
func NewGenerationClient(provider, apiKey, model string) (GenerationClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai", "":
		return NewOpenAIGenerationClient(apiKey, model), nil
	case "gemini":
		return NewGeminiGenerationClient(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
