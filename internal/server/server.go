// Package server exposes the comparison tool over HTTP: the single page,
// the upload and compare endpoints, and the report download.
package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/sigcheck/signature-compare/internal/compare"
	"github.com/sigcheck/signature-compare/internal/session"
)

// bodyLimit caps upload size. Signature scans are small; anything bigger is
// a mistake.
const bodyLimit = 16 * 1024 * 1024

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Server wires the session store and the compare service into a fiber app.
type Server struct {
	app     *fiber.App
	store   *session.Store
	service *compare.Service
}

// New builds the fiber app with all routes registered.
func New(store *session.Store, service *compare.Service) *Server {
	s := &Server{store: store, service: service}

	app := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler,
	})

	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now(),
		})
	})

	app.Get("/", s.handleIndex)

	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Post("/uploads/:slot", s.handleUpload)
	api.Delete("/uploads/:slot", s.handleClearUpload)
	api.Post("/compare", s.handleCompare)
	api.Get("/report", s.handleReport)

	s.app = app
	return s
}

// Listen starts serving on addr and blocks until shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// errorHandler maps comparison error kinds and session errors to statuses.
// Configuration problems get 503, bad input 400, upstream failures 502 and
// an in-flight comparison 409. The response body always carries the
// underlying message so the page can show it.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	resp := errorResponse{Error: err.Error()}

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	case errors.Is(err, session.ErrBusy):
		code = fiber.StatusConflict
	case errors.Is(err, session.ErrBadSlot):
		code = fiber.StatusBadRequest
	default:
		if kind, ok := compare.KindOf(err); ok {
			resp.Kind = kind.String()
			switch kind {
			case compare.KindConfiguration:
				code = fiber.StatusServiceUnavailable
			case compare.KindInput:
				code = fiber.StatusBadRequest
			case compare.KindRemote:
				code = fiber.StatusBadGateway
			}
		}
	}

	return c.Status(code).JSON(resp)
}
