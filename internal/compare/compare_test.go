package compare

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigcheck/signature-compare/internal/llm"
)

// stubAnalyzer records calls and returns a canned result or error.
type stubAnalyzer struct {
	calls    int
	lastReq  *llm.ComparisonRequest
	markdown string
	err      error
}

func (s *stubAnalyzer) Compare(ctx context.Context, req *llm.ComparisonRequest) (*llm.Result, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Result{Markdown: s.markdown}, nil
}

func pngUpload(t *testing.T, w, h int) *Upload {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return &Upload{Data: buf.Bytes(), Filename: "sig.png"}
}

func TestCompareMissingCredentials(t *testing.T) {
	stub := &stubAnalyzer{markdown: "ok"}
	svc := NewService(stub, false)

	_, err := svc.Compare(context.Background(), pngUpload(t, 10, 10), pngUpload(t, 10, 10))
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindConfiguration, kind)
	assert.Equal(t, 0, stub.calls, "no remote call may be attempted without credentials")
}

func TestCompareMissingImage(t *testing.T) {
	stub := &stubAnalyzer{markdown: "ok"}
	svc := NewService(stub, true)

	_, err := svc.Compare(context.Background(), pngUpload(t, 10, 10), nil)
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindInput, kind)
	assert.Equal(t, 0, stub.calls, "no remote call may be attempted with a missing image")
}

func TestCompareMalformedImage(t *testing.T) {
	stub := &stubAnalyzer{markdown: "ok"}
	svc := NewService(stub, true)

	bad := &Upload{Data: []byte("not an image"), Filename: "sig.png"}
	_, err := svc.Compare(context.Background(), bad, pngUpload(t, 10, 10))
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindInput, kind)
	assert.Contains(t, err.Error(), "signature 1")
	assert.Equal(t, 0, stub.calls)
}

func TestCompareRemoteFailureThenRetry(t *testing.T) {
	stub := &stubAnalyzer{err: fmt.Errorf("upstream exploded")}
	svc := NewService(stub, true)

	_, err := svc.Compare(context.Background(), pngUpload(t, 10, 10), pngUpload(t, 10, 10))
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindRemote, kind)
	assert.Contains(t, err.Error(), "upstream exploded")

	// The failure is terminal for the attempt only.
	stub.err = nil
	stub.markdown = "recovered"
	report, err := svc.Compare(context.Background(), pngUpload(t, 10, 10), pngUpload(t, 10, 10))
	require.NoError(t, err)
	assert.Equal(t, []byte("recovered"), report.Markdown)
	assert.Equal(t, 2, stub.calls)
}

func TestCompareBuildsOneRequestInUploadOrder(t *testing.T) {
	stub := &stubAnalyzer{markdown: "### 🧮 Similarity Score\n85"}
	svc := NewService(stub, true)

	// Distinguishable dimensions so request order can be verified from the
	// encoded payloads.
	report, err := svc.Compare(context.Background(), pngUpload(t, 10, 10), pngUpload(t, 20, 20))
	require.NoError(t, err)
	require.Equal(t, 1, stub.calls)

	assert.Equal(t, []byte("### 🧮 Similarity Score\n85"), report.Markdown)

	req := stub.lastReq
	require.NotNil(t, req)
	assert.Equal(t, image.Rect(0, 0, 10, 10), decodeBounds(t, req.Images[0].Base64))
	assert.Equal(t, image.Rect(0, 0, 20, 20), decodeBounds(t, req.Images[1].Base64))
}

func decodeBounds(t *testing.T, b64 string) image.Rectangle {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img.Bounds()
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "configuration", KindConfiguration.String())
	assert.Equal(t, "input", KindInput.String())
	assert.Equal(t, "remote", KindRemote.String())
}

func TestKindOfUnrelatedError(t *testing.T) {
	_, ok := KindOf(fmt.Errorf("plain error"))
	assert.False(t, ok)
}
