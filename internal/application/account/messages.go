package account

import "fmt"

const (
	subjectWelcome = "Tu cuenta en Invorya"
	subjectReset   = "Restablecimiento de contraseña en Invorya"
)

func welcomeBody(name, email, role, secret string) string {
	return fmt.Sprintf(`Hola %s,

Se creó tu cuenta en Invorya con el rol %s.

Usuario: %s
Contraseña temporal: %s

Por seguridad deberás cambiar esta contraseña en tu primer inicio de sesión.
`, name, role, email, secret)
}

func resetBody(name, secret string) string {
	return fmt.Sprintf(`Hola %s,

Un administrador restableció tu contraseña.

Contraseña temporal: %s

Deberás cambiarla en tu próximo inicio de sesión. Si no esperabas este mensaje, contacta al administrador.
`, name, secret)
}
