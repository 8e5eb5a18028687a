package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	upperChars   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars   = "abcdefghijkmnpqrstuvwxyz"
	digitChars   = "23456789"
	specialChars = "!@#$%*-_=+?"
)

// Generator produce contraseñas temporales que cumplen la política.
type Generator struct {
	policy Policy
	length int
}

// NewGenerator longitud efectiva = max(length, policy.MinLength).
func NewGenerator(policy Policy, length int) *Generator {
	if length < policy.MinLength {
		length = policy.MinLength
	}
	return &Generator{policy: policy, length: length}
}

// Generate usa crypto/rand; incluye al menos un carácter de cada clase requerida.
func (g *Generator) Generate() (string, error) {
	all := upperChars + lowerChars + digitChars
	required := []string{}
	if g.policy.RequireUppercase {
		required = append(required, upperChars)
	}
	if g.policy.RequireLowercase {
		required = append(required, lowerChars)
	}
	if g.policy.RequireDigit {
		required = append(required, digitChars)
	}
	if g.policy.RequireSpecial {
		required = append(required, specialChars)
		all += specialChars
	}

	length := g.length
	if length < len(required) {
		length = len(required)
	}
	out := make([]byte, 0, length)
	for _, set := range required {
		c, err := pick(set)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < length {
		c, err := pick(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	// Mezcla Fisher-Yates para que las clases obligatorias no queden al inicio.
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("password: aleatorio: %w", err)
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}
	return string(out), nil
}

func pick(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("password: aleatorio: %w", err)
	}
	return set[n.Int64()], nil
}
