package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigcheck/signature-compare/internal/imaging"
)

func TestBuildComparisonRequestOrder(t *testing.T) {
	first := imaging.Payload{Base64: "Zmlyc3Q=", MIME: imaging.MIMEPNG}
	second := imaging.Payload{Base64: "c2Vjb25k", MIME: imaging.MIMEPNG}

	req, err := BuildComparisonRequest(first, second)
	require.NoError(t, err)

	assert.Equal(t, first, req.Images[0])
	assert.Equal(t, second, req.Images[1])
}

func TestBuildComparisonRequestPromptContract(t *testing.T) {
	first := imaging.Payload{Base64: "YQ==", MIME: imaging.MIMEPNG}
	second := imaging.Payload{Base64: "Yg==", MIME: imaging.MIMEPNG}

	req, err := BuildComparisonRequest(first, second)
	require.NoError(t, err)

	assert.Contains(t, req.Prompt, "Similarity Score")
	assert.Contains(t, req.Prompt, "Detailed Comparison")
	assert.Contains(t, req.Prompt, "Observed Differences or Issues")
	assert.Contains(t, req.Prompt, "score between 0 and 100")
}

func TestBuildComparisonRequestEmptyPayload(t *testing.T) {
	valid := imaging.Payload{Base64: "YQ==", MIME: imaging.MIMEPNG}

	_, err := BuildComparisonRequest(imaging.Payload{}, valid)
	assert.Error(t, err)

	_, err = BuildComparisonRequest(valid, imaging.Payload{})
	assert.Error(t, err)
}
