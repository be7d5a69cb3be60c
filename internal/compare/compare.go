// Package compare runs the comparison pipeline: validate the inputs, encode
// both signatures, build the model request and invoke the analyzer.
package compare

import (
	"context"
	"time"

	"github.com/sigcheck/signature-compare/internal/imaging"
	"github.com/sigcheck/signature-compare/internal/llm"
)

// Upload is one signature image as received from the browser: raw bytes
// plus the declared filename. Transient; it lives only as long as the
// session that holds it.
type Upload struct {
	Data     []byte
	Filename string
}

// Report is the outcome of one successful comparison.
type Report struct {
	// Markdown is the model's response, byte-identical to what came back.
	Markdown []byte
	Usage    llm.Usage
	Elapsed  time.Duration
}

// Service runs comparisons. The analyzer and the credential flag are fixed
// at construction; there is no ambient credential lookup in request logic.
type Service struct {
	analyzer       llm.Analyzer
	hasCredentials bool
}

// NewService creates a comparison service. analyzer may be nil when
// hasCredentials is false; every comparison then fails with a configuration
// error without a network attempt.
func NewService(analyzer llm.Analyzer, hasCredentials bool) *Service {
	return &Service{analyzer: analyzer, hasCredentials: hasCredentials}
}

// Compare validates the credentials and inputs, encodes both images to the
// canonical payload form, and performs one blocking model call. Payloads
// are recomputed on every call, never cached. Errors are kind-tagged; see
// the Kind constants.
func (s *Service) Compare(ctx context.Context, first, second *Upload) (*Report, error) {
	if !s.hasCredentials || s.analyzer == nil {
		return nil, newError(KindConfiguration, "model credentials are not configured")
	}
	if first == nil || second == nil {
		return nil, newError(KindInput, "both signature images must be uploaded")
	}

	start := time.Now()

	payload1, err := encodeUpload(first)
	if err != nil {
		return nil, newError(KindInput, "signature 1: %w", err)
	}
	payload2, err := encodeUpload(second)
	if err != nil {
		return nil, newError(KindInput, "signature 2: %w", err)
	}

	req, err := llm.BuildComparisonRequest(payload1, payload2)
	if err != nil {
		return nil, newError(KindInput, "build request: %w", err)
	}

	result, err := s.analyzer.Compare(ctx, req)
	if err != nil {
		return nil, newError(KindRemote, "remote analysis failed: %w", err)
	}

	return &Report{
		Markdown: []byte(result.Markdown),
		Usage:    result.Usage,
		Elapsed:  time.Since(start),
	}, nil
}

func encodeUpload(u *Upload) (imaging.Payload, error) {
	img, err := imaging.Decode(u.Data)
	if err != nil {
		return imaging.Payload{}, err
	}
	return imaging.EncodePNG(img)
}
