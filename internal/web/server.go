package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"citerag/internal/domain"
	"citerag/internal/session"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "citerag_session"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Asker answers one question with an explicit credential.
type Asker interface {
	Ask(ctx context.Context, credential, query string) (*domain.Answer, error)
}

// Counter reports how many chunks the open collection holds.
type Counter interface {
	Count() (int, error)
}

type Server struct {
	app      *fiber.App
	title    string
	asker    Asker
	counter  Counter
	sessions *session.Store
	logger   *zap.Logger
}

type pageData struct {
	Title         string
	HasCredential bool
	Query         string
	Answer        *domain.Answer
	Error         string
}

func New(title string, asker Asker, counter Counter, sessions *session.Store, logger *zap.Logger) *Server {
	s := &Server{
		title:    title,
		asker:    asker,
		counter:  counter,
		sessions: sessions,
		logger:   logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               title,
		DisableStartupMessage: true,
		Immutable:             true, // form values and cookies outlive the request in the session store
		ErrorHandler:          s.handleError,
	})

	s.app.Get("/", s.index)
	s.app.Post("/credential", s.setCredential)
	s.app.Post("/ask", s.ask)
	s.app.Get("/healthz", s.health)

	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("web ui listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// handleError logs the failure once and shows a generic error block.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong while answering. Please try again."

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	s.logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", code),
		zap.Error(err))

	data := s.page(c)
	data.Query = c.FormValue("query")
	data.Error = message
	return s.render(c.Status(code), data)
}

func (s *Server) render(c *fiber.Ctx, data pageData) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
