package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultCookieName nombre de la cookie de sesión.
const DefaultCookieName = "token"

// CookieConfig atributos de la cookie de sesión.
type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite string // Lax, Strict, None
}

// SessionCookie emite y borra la cookie de sesión. Set y Clear parten del mismo
// constructor, así el navegador reconoce el borrado como la misma cookie.
type SessionCookie struct {
	cfg CookieConfig
	now func() time.Time
}

// NewSessionCookie aplica valores por defecto: nombre "token", Path "/" y SameSite Lax.
func NewSessionCookie(cfg CookieConfig) *SessionCookie {
	if cfg.Name == "" {
		cfg.Name = DefaultCookieName
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	switch strings.ToLower(cfg.SameSite) {
	case fiber.CookieSameSiteStrictMode, fiber.CookieSameSiteNoneMode:
		cfg.SameSite = strings.ToLower(cfg.SameSite)
	default:
		cfg.SameSite = fiber.CookieSameSiteLaxMode
	}
	return &SessionCookie{cfg: cfg, now: time.Now}
}

// Name nombre de la cookie.
func (s *SessionCookie) Name() string { return s.cfg.Name }

func (s *SessionCookie) build(value string, expires time.Time, maxAge int) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     s.cfg.Name,
		Value:    value,
		Path:     s.cfg.Path,
		Domain:   s.cfg.Domain,
		Secure:   s.cfg.Secure,
		HTTPOnly: true,
		SameSite: s.cfg.SameSite,
		Expires:  expires,
		MaxAge:   maxAge,
	}
}

// Set guarda el token con la misma expiración que el token.
func (s *SessionCookie) Set(c *fiber.Ctx, token string, expiresAt time.Time) {
	maxAge := int(expiresAt.Sub(s.now()).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.Cookie(s.build(token, expiresAt, maxAge))
}

// Clear vacía la cookie con una expiración en el pasado.
func (s *SessionCookie) Clear(c *fiber.Ctx) {
	c.Cookie(s.build("", time.Unix(0, 0).UTC(), -1))
}
