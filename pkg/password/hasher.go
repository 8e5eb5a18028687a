package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch la contraseña no corresponde al hash.
var ErrMismatch = errors.New("password: no coincide")

// Hasher hashea y compara contraseñas con bcrypt (costo configurable).
// bcrypt ya compara en tiempo constante.
type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher construye el hasher. cost fuera de rango devuelve error.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("password: costo bcrypt %d fuera de rango [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	// Hash de relleno: permite gastar el mismo tiempo cuando el email no existe.
	dummy, err := bcrypt.GenerateFromPassword([]byte("invorya-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("password: hash de relleno: %w", err)
	}
	return &Hasher{cost: cost, dummy: dummy}, nil
}

// Hash devuelve el hash bcrypt de plain.
func (h *Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("password: vacía")
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(out), nil
}

// Compare devuelve nil si plain corresponde a hash, ErrMismatch si no.
func (h *Hasher) Compare(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("password: comparar: %w", err)
	}
	return nil
}

// CompareDummy consume el mismo trabajo que Compare contra un hash que nunca coincide.
func (h *Hasher) CompareDummy(plain string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
}
