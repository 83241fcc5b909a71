package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (s *Server) index(c *fiber.Ctx) error {
	return s.render(c, s.page(c))
}

func (s *Server) setCredential(c *fiber.Ctx) error {
	s.sessions.SetCredential(s.sessionID(c), c.FormValue("credential"))
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (s *Server) ask(c *fiber.Ctx) error {
	id := s.sessionID(c)
	// the form may carry the credential along with the question
	s.sessions.SetCredential(id, c.FormValue("credential"))

	data := s.page(c)
	query := c.FormValue("query")
	if query == "" {
		return s.render(c, data)
	}
	data.Query = query

	answer, err := s.asker.Ask(c.UserContext(), s.sessions.Credential(id), query)
	if err != nil {
		return err
	}
	data.Answer = answer
	return s.render(c, data)
}

func (s *Server) health(c *fiber.Ctx) error {
	chunks, err := s.counter.Count()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status": "ok",
		"chunks": chunks,
	})
}

func (s *Server) page(c *fiber.Ctx) pageData {
	return pageData{
		Title:         s.title,
		HasCredential: s.sessions.Credential(s.sessionID(c)) != "",
	}
}

// sessionID returns the caller's session id, issuing a new cookie when the
// request has none.
func (s *Server) sessionID(c *fiber.Ctx) string {
	if id := c.Locals(SessionCookie); id != nil {
		return id.(string)
	}

	id := c.Cookies(SessionCookie)
	if _, err := uuid.Parse(id); err != nil {
		id = s.sessions.NewID()
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HTTPOnly: true,
			SameSite: "Lax",
			Expires:  time.Now().Add(s.sessions.TTL()),
		})
	}
	c.Locals(SessionCookie, id)
	return id
}
