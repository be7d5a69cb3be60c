package server

import (
	_ "embed"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sigcheck/signature-compare/internal/compare"
	"github.com/sigcheck/signature-compare/internal/imaging"
	"github.com/sigcheck/signature-compare/internal/session"
)

//go:embed web/index.html
var indexHTML []byte

const (
	sessionCookie  = "sid"
	reportFilename = "signature_comparison_report.md"
	reportMIME     = "text/markdown"
)

type uploadResponse struct {
	Slot    int              `json:"slot"`
	Width   int              `json:"width"`
	Height  int              `json:"height"`
	Session session.Snapshot `json:"session"`
}

type compareResponse struct {
	Markdown     string  `json:"markdown"`
	Elapsed      string  `json:"elapsed"`
	InputTokens  int64   `json:"inputTokens"`
	OutputTokens int64   `json:"outputTokens"`
	CostUSD      float64 `json:"costUSD"`
}

// session resolves the browser session from the sid cookie, creating one
// (and setting the cookie) when absent or expired.
func (s *Server) session(c *fiber.Ctx) *session.Session {
	sess, created := s.store.GetOrCreate(c.Cookies(sessionCookie))
	if created {
		c.Cookie(&fiber.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID(),
			HTTPOnly: true,
			SameSite: "Lax",
		})
	}
	return sess
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	s.session(c)
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(indexHTML)
}

func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.session(c).Snapshot())
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	slot, err := parseSlot(c.Params("slot"))
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}
	if !allowedExtension(fileHeader.Filename) {
		return fiber.NewError(fiber.StatusUnsupportedMediaType, "image must be a png, jpg or jpeg file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to open upload: "+err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to read upload: "+err.Error())
	}

	// Decode now so a malformed file is rejected at upload time, not at
	// compare time. Only the raw bytes are kept; the canonical payload is
	// recomputed on every comparison.
	img, err := imaging.Decode(data)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	sess := s.session(c)
	if err := sess.SetUpload(slot, &compare.Upload{Data: data, Filename: fileHeader.Filename}); err != nil {
		return err
	}

	bounds := img.Bounds()
	return c.JSON(uploadResponse{
		Slot:    slot,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Session: sess.Snapshot(),
	})
}

func (s *Server) handleClearUpload(c *fiber.Ctx) error {
	slot, err := parseSlot(c.Params("slot"))
	if err != nil {
		return err
	}
	sess := s.session(c)
	if err := sess.ClearUpload(slot); err != nil {
		return err
	}
	return c.JSON(sess.Snapshot())
}

func (s *Server) handleCompare(c *fiber.Ctx) error {
	sess := s.session(c)

	uploads, err := sess.BeginCompare()
	if err != nil {
		return err
	}

	report, err := s.service.Compare(c.UserContext(), uploads[0], uploads[1])
	sess.FinishCompare(report, err)
	if err != nil {
		return err
	}

	return c.JSON(compareResponse{
		Markdown:     string(report.Markdown),
		Elapsed:      report.Elapsed.String(),
		InputTokens:  report.Usage.InputTokens,
		OutputTokens: report.Usage.OutputTokens,
		CostUSD:      report.Usage.CostUSD,
	})
}

func (s *Server) handleReport(c *fiber.Ctx) error {
	report, ok := s.session(c).Report()
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "no report available")
	}
	c.Set(fiber.HeaderContentType, reportMIME)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+reportFilename+`"`)
	return c.Send(report)
}

func parseSlot(raw string) (int, error) {
	slot, err := strconv.Atoi(raw)
	if err != nil || slot < 1 || slot > 2 {
		return 0, session.ErrBadSlot
	}
	return slot, nil
}

func allowedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}
