package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const geminiModel = "gemini-2.5-flash"

// Gemini pricing (per million tokens)
const (
	geminiInputPricePerMillion  = 0.30
	geminiOutputPricePerMillion = 2.50
)

// GeminiAnalyzer is the alternative backend using Google's Gemini API,
// selected with VISION_PROVIDER=gemini.
type GeminiAnalyzer struct {
	client *genai.Client
}

// NewGeminiAnalyzer creates a Gemini-based analyzer with the given API key.
func NewGeminiAnalyzer(ctx context.Context, apiKey string) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiAnalyzer{client: client}, nil
}

// Compare implements the Analyzer interface using Gemini. The images are
// sent as inline blobs in the same order as the request.
func (g *GeminiAnalyzer) Compare(ctx context.Context, req *ComparisonRequest) (*Result, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(req.Prompt),
	}
	for _, img := range req.Images {
		raw, err := base64.StdEncoding.DecodeString(img.Base64)
		if err != nil {
			return nil, fmt.Errorf("decode image payload: %w", err)
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{Data: raw, MIMEType: img.MIME},
		})
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, geminiModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}

	usage := Usage{}
	if result.UsageMetadata != nil {
		usage.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int64(result.UsageMetadata.TotalTokenCount)
		usage.CostUSD = calculateCost(usage.InputTokens, usage.OutputTokens, geminiInputPricePerMillion, geminiOutputPricePerMillion)
	}

	log.Info().
		Str("model", geminiModel).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Float64("costUSD", usage.CostUSD).
		Msg("vision llm call")

	return &Result{Markdown: result.Text(), Usage: usage}, nil
}
