package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errores de verificación. El middleware los trata todos como "no autenticado",
// pero se distinguen para logs y pruebas.
var (
	ErrMissing = errors.New("jwt: token ausente")
	ErrExpired = errors.New("jwt: token expirado")
	ErrInvalid = errors.New("jwt: token inválido")
)

// Claims incluye los claims estándar JWT más el rol.
// No se incluye nada más sensible: sujeto, rol y expiración bastan para el guard.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Config parámetros de firma.
type Config struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// Manager emite y verifica tokens HS256. No guarda estado: no existe lista de revocación,
// un token emitido sigue siendo válido hasta su expiración.
type Manager struct {
	cfg Config
	now func() time.Time
}

// NewManager construye el emisor/verificador. now puede ser nil (usa time.Now).
func NewManager(cfg Config, now func() time.Time) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("jwt: ttl debe ser positivo")
	}
	if now == nil {
		now = time.Now
	}
	return &Manager{cfg: cfg, now: now}, nil
}

// TTL duración por defecto de los tokens.
func (m *Manager) TTL() time.Duration { return m.cfg.TTL }

// Generate firma un token para subjectID y role con la TTL configurada.
func (m *Manager) Generate(subjectID, role string) (string, time.Time, error) {
	return m.GenerateWithTTL(subjectID, role, m.cfg.TTL)
}

// GenerateWithTTL firma un token con una TTL explícita.
func (m *Manager) GenerateWithTTL(subjectID, role string, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("firmar token: %w", err)
	}
	return signed, exp, nil
}

// Parse valida firma, emisor y expiración; devuelve subjectID y role.
func (m *Manager) Parse(tokenString string) (subjectID, role string, err error) {
	if tokenString == "" {
		return "", "", ErrMissing
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	}
	if m.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.cfg.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(m.cfg.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrExpired
		}
		return "", "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", "", ErrInvalid
	}
	return claims.Subject, claims.Role, nil
}
