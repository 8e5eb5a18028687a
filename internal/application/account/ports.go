package account

import (
	"context"

	"github.com/jhoicas/invorya-auth/internal/domain/repository"
)

// Notifier entrega un mensaje al titular de la cuenta. Se trata como llamada síncrona:
// el flujo espera su resultado antes de decidir si compensa.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// PasswordHasher hashea y compara contraseñas (bcrypt en producción).
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// SecretGenerator genera contraseñas temporales con una fuente criptográfica.
type SecretGenerator interface {
	Generate() (string, error)
}

// StrengthChecker predicado de fortaleza mínima para contraseñas elegidas por personas.
type StrengthChecker interface {
	Check(secret string) error
}

// TxRunner ejecuta fn con un repositorio de cuentas atado a una transacción.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(accounts repository.AccountRepository) error) error
}
