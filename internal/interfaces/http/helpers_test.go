package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/invorya-auth/internal/application/account"
	"github.com/jhoicas/invorya-auth/internal/application/auth"
	"github.com/jhoicas/invorya-auth/internal/domain/entity"
	"github.com/jhoicas/invorya-auth/internal/domain/repository"
	"github.com/jhoicas/invorya-auth/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/invorya-auth/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/invorya-auth/pkg/jwt"
	"github.com/jhoicas/invorya-auth/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "invorya-test"
	adminID       = "00000000-0000-0000-0000-000000000001"
	adminEmail    = "admin@acme.com"
	adminPassword = "AdminClave2024"
)

var testPolicy = password.Policy{MinLength: 8, RequireUppercase: true, RequireLowercase: true, RequireDigit: true}

type recordingNotifier struct {
	mu   sync.Mutex
	err  error
	last string
}

func (n *recordingNotifier) Send(_ context.Context, _, _, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.last = body
	return nil
}

func (n *recordingNotifier) secret(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	const marker = "Contraseña temporal: "
	i := strings.Index(n.last, marker)
	require.GreaterOrEqual(t, i, 0)
	rest := n.last[i+len(marker):]
	return strings.TrimSpace(rest[:strings.IndexByte(rest, '\n')])
}

type testServer struct {
	app      *fiber.App
	repo     repository.AccountRepository
	tokens   *pkgjwt.Manager
	notifier *recordingNotifier
}

// buildTestApp arma la API completa sobre repositorios en memoria con un ADMIN sembrado.
func buildTestApp(t *testing.T) *testServer {
	t.Helper()
	return buildTestAppWithRepo(t, memory.NewAccountRepository())
}

func buildTestAppWithRepo(t *testing.T, repo repository.AccountRepository) *testServer {
	t.Helper()
	hasher, err := password.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := pkgjwt.NewManager(pkgjwt.Config{Secret: testJWTSecret, TTL: time.Hour, Issuer: testIssuer}, nil)
	require.NoError(t, err)

	if mem, ok := repo.(*memory.AccountRepo); ok {
		hash, err := hasher.Hash(adminPassword)
		require.NoError(t, err)
		now := time.Now().UTC()
		require.NoError(t, mem.Create(context.Background(), &entity.Account{
			ID: adminID, Email: adminEmail, Name: "Admin", PasswordHash: hash,
			Role: entity.RoleAdmin, Status: entity.StatusActive, CreatedAt: now, UpdatedAt: now,
		}))
	}

	log := zerolog.Nop()
	notifier := &recordingNotifier{}
	generator := password.NewGenerator(testPolicy, 12)
	guard := auth.NewGuard(tokens, repo)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         auth.NewAuthUseCase(repo, hasher, tokens, guard, log),
		Guard:          guard,
		ProvisioningUC: account.NewProvisioningUseCase(repo, memory.NewWarehouseRepository(), hasher, generator, testPolicy, notifier, log),
		PasswordUC:     account.NewPasswordUseCase(repo, memory.NewTxRunner(repo), hasher, generator, testPolicy, notifier, log),
		AdminUC:        account.NewAdminUseCase(repo, log),
		Cookie:         apphttp.NewSessionCookie(apphttp.CookieConfig{}),
	})
	return &testServer{app: app, repo: repo, tokens: tokens, notifier: notifier}
}

// tokenFor genera un token firmado para el ID y rol indicados.
func (s *testServer) tokenFor(t *testing.T, id string, role entity.Role) string {
	t.Helper()
	tok, _, err := s.tokens.Generate(id, string(role))
	require.NoError(t, err, "debe generarse un token JWT válido")
	return tok
}

// do lanza una petición con Bearer opcional y cuerpo JSON opcional.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == apphttp.DefaultCookieName {
			return c
		}
	}
	return nil
}
