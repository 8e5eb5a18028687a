package account_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/invorya-auth/internal/application/account"
	"github.com/jhoicas/invorya-auth/internal/application/auth"
	"github.com/jhoicas/invorya-auth/internal/domain/entity"
	"github.com/jhoicas/invorya-auth/internal/domain/repository"
	"github.com/jhoicas/invorya-auth/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/invorya-auth/pkg/jwt"
	"github.com/jhoicas/invorya-auth/pkg/password"
)

const (
	testWarehouseID = "7b0c1c3e-3f1e-4a8e-9d55-5b7f2b1d0a01"
	secretMarker    = "Contraseña temporal: "
)

var adminActor = entity.Identity{AccountID: "00000000-0000-0000-0000-0000000000ad", Role: entity.RoleAdmin}

var testPolicy = password.Policy{MinLength: 8, RequireUppercase: true, RequireLowercase: true, RequireDigit: true}

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

type sentMessage struct {
	To, Subject, Body string
}

// fakeNotifier registra los envíos; si err != nil todos los envíos fallan.
type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []sentMessage
}

func (n *fakeNotifier) Send(_ context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{To: to, Subject: subject, Body: body})
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// lastSecret extrae la contraseña temporal del último correo enviado.
func (n *fakeNotifier) lastSecret(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent, "no se envió ningún correo")
	body := n.sent[len(n.sent)-1].Body
	i := strings.Index(body, secretMarker)
	require.GreaterOrEqual(t, i, 0, "el correo no contiene la contraseña temporal")
	rest := body[i+len(secretMarker):]
	return strings.TrimSpace(rest[:strings.IndexByte(rest, '\n')])
}

// spyRepo envuelve el repositorio en memoria para contar borrados e inyectar fallos.
type spyRepo struct {
	*memory.AccountRepo
	deletes        atomic.Int32
	updates        atomic.Int32
	deleteErr      error
	failUpdateFrom int32 // número de llamada a UpdatePassword a partir del cual falla (0 = nunca)
	updateErr      error
	emailGate      *sync.WaitGroup // si no es nil, GetByEmail espera a que todos lleguen
}

func newSpyRepo() *spyRepo {
	return &spyRepo{AccountRepo: memory.NewAccountRepository()}
}

func (r *spyRepo) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	if r.emailGate != nil {
		r.emailGate.Done()
		r.emailGate.Wait()
	}
	return r.AccountRepo.GetByEmail(ctx, email)
}

func (r *spyRepo) DeleteByID(ctx context.Context, id string) error {
	r.deletes.Add(1)
	if r.deleteErr != nil {
		return r.deleteErr
	}
	return r.AccountRepo.DeleteByID(ctx, id)
}

func (r *spyRepo) UpdatePassword(ctx context.Context, id, hash string, must bool) (*entity.Account, error) {
	n := r.updates.Add(1)
	if r.failUpdateFrom > 0 && n >= r.failUpdateFrom {
		return nil, r.updateErr
	}
	return r.AccountRepo.UpdatePassword(ctx, id, hash, must)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	repo         repository.AccountRepository
	notifier     *fakeNotifier
	hasher       *password.Hasher
	tokens       *pkgjwt.Manager
	guard        *auth.Guard
	auth         *auth.AuthUseCase
	provisioning *account.ProvisioningUseCase
	passwords    *account.PasswordUseCase
	admin        *account.AdminUseCase
	logs         *bytes.Buffer
}

func newFixture(t *testing.T, repo repository.AccountRepository) *fixture {
	t.Helper()
	hasher, err := password.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := pkgjwt.NewManager(pkgjwt.Config{Secret: "test-secret", TTL: time.Hour, Issuer: "invorya-test"}, nil)
	require.NoError(t, err)

	logs := &bytes.Buffer{}
	log := zerolog.New(logs)
	notifier := &fakeNotifier{}
	generator := password.NewGenerator(testPolicy, 12)
	warehouses := memory.NewWarehouseRepository(&entity.Warehouse{ID: testWarehouseID, Name: "Bodega Central"})
	guard := auth.NewGuard(tokens, repo)

	return &fixture{
		repo:         repo,
		notifier:     notifier,
		hasher:       hasher,
		tokens:       tokens,
		guard:        guard,
		auth:         auth.NewAuthUseCase(repo, hasher, tokens, guard, log),
		provisioning: account.NewProvisioningUseCase(repo, warehouses, hasher, generator, testPolicy, notifier, log),
		passwords:    account.NewPasswordUseCase(repo, memory.NewTxRunner(repo), hasher, generator, testPolicy, notifier, log),
		admin:        account.NewAdminUseCase(repo, log),
		logs:         logs,
	}
}
