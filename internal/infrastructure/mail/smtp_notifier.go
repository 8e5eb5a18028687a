package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/jhoicas/invorya-auth/internal/domain"
)

// SMTPConfig parámetros del servidor SMTP.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	TLS      bool
	Timeout  time.Duration
}

// SMTPNotifier entrega credenciales por correo. La llamada es síncrona: Send vuelve
// cuando el servidor aceptó el mensaje o cuando falló. Cada Send abre su propio cliente.
type SMTPNotifier struct {
	cfg  SMTPConfig
	opts []gomail.Option
}

// NewSMTPNotifier valida la configuración; la conexión se abre en cada Send.
func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	if cfg.From == "" {
		return nil, fmt.Errorf("mail: remitente vacío")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(cfg.Timeout),
	}
	if cfg.Username != "" && cfg.Password != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthLogin),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	if cfg.TLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}

	if _, err := gomail.NewClient(cfg.Host, opts...); err != nil {
		return nil, fmt.Errorf("mail: crear cliente: %w", err)
	}
	return &SMTPNotifier{cfg: cfg, opts: opts}, nil
}

// Send envía un correo de texto plano. Cualquier fallo se devuelve envuelto en domain.ErrDeliveryFailed.
func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("%w: destinatario vacío", domain.ErrDeliveryFailed)
	}
	msg := gomail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return fmt.Errorf("%w: remitente: %v", domain.ErrDeliveryFailed, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("%w: destinatario: %v", domain.ErrDeliveryFailed, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(n.cfg.Host, n.opts...)
	if err != nil {
		return fmt.Errorf("%w: cliente smtp: %v", domain.ErrDeliveryFailed, err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: smtp %s:%d: %v", domain.ErrDeliveryFailed, n.cfg.Host, n.cfg.Port, err)
	}
	return nil
}
