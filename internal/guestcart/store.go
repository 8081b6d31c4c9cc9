package guestcart

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Store persists guest lines for the duration of one request.
type Store interface {
	Lines() []Line
	Save(lines []Line) error
}

// CookieConfig describes the guest cart cookie.
type CookieConfig struct {
	Name   string
	MaxAge int
	Domain string
	Secure bool
}

// CookieStore reads and writes the guest cart cookie on a gin context.
type CookieStore struct {
	c     *gin.Context
	cfg   CookieConfig
	lines []Line
}

// NewCookieStore decodes the current cookie of the request.
func NewCookieStore(c *gin.Context, cfg CookieConfig) *CookieStore {
	if cfg.Name == "" {
		cfg.Name = "guest_cart_v1"
	}
	raw, err := c.Cookie(cfg.Name)
	var lines []Line
	if err == nil {
		lines = Decode(raw)
	}
	return &CookieStore{c: c, cfg: cfg, lines: lines}
}

func (s *CookieStore) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Save rewrites the cookie, or deletes it when lines is empty.
func (s *CookieStore) Save(lines []Line) error {
	value, err := Encode(lines)
	if err != nil {
		return err
	}
	s.lines = lines
	s.c.SetSameSite(http.SameSiteLaxMode)
	if value == "" {
		s.c.SetCookie(s.cfg.Name, "", -1, "/", s.cfg.Domain, s.cfg.Secure, true)
		return nil
	}
	s.c.SetCookie(s.cfg.Name, value, s.cfg.MaxAge, "/", s.cfg.Domain, s.cfg.Secure, true)
	return nil
}

// MemoryStore keeps lines in memory.
type MemoryStore struct {
	Saved []Line
	Saves int
}

func NewMemoryStore(lines ...Line) *MemoryStore {
	return &MemoryStore{Saved: lines}
}

func (m *MemoryStore) Lines() []Line {
	out := make([]Line, len(m.Saved))
	copy(out, m.Saved)
	return out
}

func (m *MemoryStore) Save(lines []Line) error {
	m.Saved = lines
	m.Saves++
	return nil
}
