package llm

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"

	"github.com/sigcheck/signature-compare/internal/imaging"
)

// PromptVersion identifies the instruction text sent with every request.
// Bump when the output contract (score bands, section headers) changes.
const PromptVersion = "v1"

// comparisonPrompt defines the output contract for the model: a 0-100
// similarity score with banded semantics and fixed Markdown sections.
var comparisonPrompt = strings.TrimSpace(dedent.Dedent(`
	You are an expert in signature verification and forensic handwriting analysis.

	Analyze the two uploaded signature images and respond in **structured Markdown format** with the following sections:

	### 🧮 Similarity Score
	Provide a **score between 0 and 100**, where:
	- 90–100 → Nearly identical (same person)
	- 70–89 → Very similar (likely same person)
	- 50–69 → Moderately similar (possibly same person)
	- 30–49 → Some resemblance but notable differences
	- 0–29 → Very different (likely different people)

	### ✍️ Detailed Comparison
	Compare and describe:
	- Overall shape and flow
	- Letter formation and style
	- Slant and angle consistency
	- Pressure and line thickness
	- Spacing and proportion
	- Unique features or flourishes

	### ⚠️ Observed Differences or Issues
	List specific discrepancies or anomalies such as:
	- Hesitation, tremors, or uneven flow
	- Different slants or stroke directions
	- Extra/missing loops or strokes
	- Size or spacing inconsistencies
	- Potential signs of forgery

	Make sure your answer is **clearly formatted** in Markdown and uses bullet points and section headers.
`))

// ComparisonRequest is one multimodal message: the instruction text followed
// by the two signature images as data URIs. The model reads the images in
// the order given and labels them Signature 1 and Signature 2 by position,
// so the order is significant. Immutable once built.
type ComparisonRequest struct {
	Prompt string
	Images [2]imaging.Payload
}

// BuildComparisonRequest assembles the request for one comparison. Both
// payloads must be non-empty.
func BuildComparisonRequest(first, second imaging.Payload) (*ComparisonRequest, error) {
	if first.Empty() || second.Empty() {
		return nil, fmt.Errorf("both signature images are required")
	}
	return &ComparisonRequest{
		Prompt: comparisonPrompt,
		Images: [2]imaging.Payload{first, second},
	}, nil
}
