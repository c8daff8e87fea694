// Package enrichment attaches AI-generated summaries, relevance scores,
// keywords and key points to ingested articles. It degrades to a
// deterministic fallback whenever the completion service is unconfigured,
// unreachable, or returns unparsable output: enrichment never blocks
// ingestion.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oncofeed/oncofeed/app/feed"
)

const (
	maxPromptDescription  = 2000
	fallbackSummaryLength = 400
	maxKeywords           = 5
)

// CompletionClient abstracts the external summarization service.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Result struct {
	Summary   string
	Score     float64 // clamped into [0, 1]
	Keywords  []string
	KeyPoints []string
}

type Enricher struct {
	client CompletionClient
}

// NewEnricher wires the completion client. A nil client means enrichment
// is unconfigured and every call takes the fallback path.
func NewEnricher(client CompletionClient) *Enricher {
	return &Enricher{client: client}
}

func (e *Enricher) Run(ctx context.Context, title, description string) Result {
	if e.client == nil {
		return Fallback(description)
	}

	prompt := buildPrompt(title, description)

	raw, err := e.client.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("Enrichment call failed, using fallback", "title", title, "error", err)
		return Fallback(description)
	}

	result, err := parseResponse(raw)
	if err != nil {
		slog.Warn("Enrichment response unparsable, using fallback", "title", title, "error", err)
		return Fallback(description)
	}

	return result
}

// Fallback is the deterministic enrichment used when the completion
// service cannot serve: a truncation summary, a neutral score, no
// keywords and no key points.
func Fallback(description string) Result {
	runes := []rune(description)
	if len(runes) > fallbackSummaryLength {
		runes = runes[:fallbackSummaryLength]
	}

	return Result{
		Summary:   string(runes) + "...",
		Score:     0.5,
		Keywords:  []string{},
		KeyPoints: []string{},
	}
}

func buildPrompt(title, description string) string {
	text := feed.StripTags(description)
	runes := []rune(text)
	if len(runes) > maxPromptDescription {
		text = string(runes[:maxPromptDescription])
	}

	var sb strings.Builder
	sb.WriteString("You are an assistant for an AI-in-oncology research dashboard. ")
	sb.WriteString("Analyze the following article and respond with a single JSON object ")
	sb.WriteString("containing exactly these fields:\n")
	sb.WriteString(`  "summary": a 2-3 sentence plain-text summary` + "\n")
	sb.WriteString(`  "relevance_score": a number between 0 and 1 for relevance to AI in oncology` + "\n")
	sb.WriteString(`  "keywords": up to 5 short keywords` + "\n")
	sb.WriteString(`  "key_points": 3 to 5 short key points` + "\n\n")
	sb.WriteString("Respond with JSON only, no prose around it.\n\n")
	sb.WriteString("Title: ")
	sb.WriteString(title)
	sb.WriteString("\nDescription: ")
	sb.WriteString(text)

	return sb.String()
}

type enrichmentResponse struct {
	Summary        string   `json:"summary"`
	RelevanceScore float64  `json:"relevance_score"`
	Keywords       []string `json:"keywords"`
	KeyPoints      []string `json:"key_points"`
}

func parseResponse(raw string) (Result, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return Result{}, fmt.Errorf("no JSON object in response")
	}

	var resp enrichmentResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if strings.TrimSpace(resp.Summary) == "" {
		return Result{}, fmt.Errorf("response has no summary")
	}

	keywords := resp.Keywords
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	if keywords == nil {
		keywords = []string{}
	}
	keyPoints := resp.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}

	return Result{
		Summary:   strings.TrimSpace(resp.Summary),
		Score:     clampScore(resp.RelevanceScore),
		Keywords:  keywords,
		KeyPoints: keyPoints,
	}, nil
}

// extractJSON pulls the outermost JSON object out of a model response,
// tolerating markdown fences and prose around it.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
