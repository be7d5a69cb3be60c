package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// GPT-4o pricing (per million tokens), used for the cost estimate in call
// logs. Deployments on other models will log an approximate cost.
const (
	azureInputPricePerMillion  = 2.50
	azureOutputPricePerMillion = 10.00
)

// AzureConfig carries everything needed to reach one Azure OpenAI
// deployment.
type AzureConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
}

// AzureAnalyzer calls the chat-completions endpoint of an Azure OpenAI
// deployment. One request per comparison, no retries. No timeout is set on
// the client; the transport default applies.
type AzureAnalyzer struct {
	httpClient *resty.Client
	deployment string
	apiVersion string
}

// NewAzureAnalyzer creates an analyzer for the given deployment. Endpoint
// and APIKey must be non-empty.
func NewAzureAnalyzer(cfg AzureConfig) (*AzureAnalyzer, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("azure endpoint and api key are required")
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetHeaders(map[string]string{
			"Content-Type": "application/json",
			"api-key":      cfg.APIKey,
		})
	return &AzureAnalyzer{
		httpClient: httpClient,
		deployment: cfg.Deployment,
		apiVersion: cfg.APIVersion,
	}, nil
}

type chatCompletionRequest struct {
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Compare implements the Analyzer interface against Azure OpenAI.
func (a *AzureAnalyzer) Compare(ctx context.Context, req *ComparisonRequest) (*Result, error) {
	parts := []contentPart{{Type: "text", Text: req.Prompt}}
	for _, img := range req.Images {
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: img.DataURI()},
		})
	}
	body := chatCompletionRequest{
		Messages: []chatMessage{{Role: "user", Content: parts}},
	}

	result := &chatCompletionResponse{}
	res, err := a.httpClient.NewRequest().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"deployment": a.deployment,
		}).
		SetQueryParam("api-version", a.apiVersion).
		SetBody(body).
		SetResult(result).
		SetError(result).
		Post("/openai/deployments/{deployment}/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("chat completion request: %w", err)
	}
	if res.IsError() {
		if result.Error != nil && result.Error.Message != "" {
			return nil, fmt.Errorf("chat completion failed: %s (status: %d)", result.Error.Message, res.StatusCode())
		}
		return nil, fmt.Errorf("chat completion failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode())
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: empty choices")
	}

	usage := Usage{
		InputTokens:  result.Usage.PromptTokens,
		OutputTokens: result.Usage.CompletionTokens,
		TotalTokens:  result.Usage.TotalTokens,
	}
	usage.CostUSD = calculateCost(usage.InputTokens, usage.OutputTokens, azureInputPricePerMillion, azureOutputPricePerMillion)

	log.Info().
		Str("deployment", a.deployment).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Float64("costUSD", usage.CostUSD).
		Msg("vision llm call")

	return &Result{Markdown: result.Choices[0].Message.Content, Usage: usage}, nil
}
