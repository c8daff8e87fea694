package enrichment

import (
	"context"
	"fmt"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"golang.org/x/time/rate"
)

// CohereClient implements CompletionClient using the Cohere chat API.
// Calls are rate-limited client-side: enrichment runs item by item during
// ingestion and must not burst against the service.
type CohereClient struct {
	client  *cohereclient.Client
	model   string
	limiter *rate.Limiter
}

// NewCohereClient returns nil when no API key is configured, which the
// enricher treats as the fallback-only mode.
func NewCohereClient(apiKey, model string) *CohereClient {
	if apiKey == "" {
		return nil
	}

	httpClient := &http.Client{
		Timeout: 60 * time.Second,
	}

	return &CohereClient{
		client: cohereclient.NewClient(
			cohereclient.WithToken(apiKey),
			cohereclient.WithHTTPClient(httpClient),
		),
		model:   model,
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

func (c *CohereClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	temperature := 0.2
	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Message:     prompt,
		Model:       &c.model,
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil || resp.Text == "" {
		return "", fmt.Errorf("cohere chat returned empty response")
	}

	return resp.Text, nil
}
