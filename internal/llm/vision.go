package llm

import "context"

// Usage contains token usage and cost information for one model call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	CostUSD      float64
}

// Result is the model's comparison report.
type Result struct {
	// Markdown is the raw response text, preserved byte for byte.
	Markdown string
	Usage    Usage
}

// Analyzer sends one comparison request to a vision-capable model and
// returns its report.
type Analyzer interface {
	Compare(ctx context.Context, req *ComparisonRequest) (*Result, error)
}

func calculateCost(inputTokens, outputTokens int64, inputPrice, outputPrice float64) float64 {
	inputCost := float64(inputTokens) / 1_000_000 * inputPrice
	outputCost := float64(outputTokens) / 1_000_000 * outputPrice
	return inputCost + outputCost
}
