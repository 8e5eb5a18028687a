package password

import (
	"fmt"
	"unicode"
)

// Policy umbrales mínimos de fortaleza (longitud + clases de caracteres).
type Policy struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireDigit     bool
	RequireSpecial   bool
}

// StrengthChecker predicado de fortaleza intercambiable.
type StrengthChecker interface {
	Check(secret string) error
}

// DefaultPolicy política usada si la configuración no define otra.
func DefaultPolicy() Policy {
	return Policy{
		MinLength:        10,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireDigit:     true,
		RequireSpecial:   false,
	}
}

// Check devuelve un error descriptivo con el primer umbral incumplido.
func (p Policy) Check(secret string) error {
	if len([]rune(secret)) < p.MinLength {
		return fmt.Errorf("la contraseña debe tener al menos %d caracteres", p.MinLength)
	}
	var upper, lower, digit, special bool
	for _, r := range secret {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if p.RequireUppercase && !upper {
		return fmt.Errorf("la contraseña debe contener al menos una mayúscula")
	}
	if p.RequireLowercase && !lower {
		return fmt.Errorf("la contraseña debe contener al menos una minúscula")
	}
	if p.RequireDigit && !digit {
		return fmt.Errorf("la contraseña debe contener al menos un dígito")
	}
	if p.RequireSpecial && !special {
		return fmt.Errorf("la contraseña debe contener al menos un carácter especial")
	}
	return nil
}
