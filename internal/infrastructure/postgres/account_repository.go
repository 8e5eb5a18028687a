package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/invorya-auth/internal/domain"
	"github.com/jhoicas/invorya-auth/internal/domain/entity"
	"github.com/jhoicas/invorya-auth/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// DBTX subconjunto de pgxpool.Pool / pgx.Tx que usan los repositorios.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const accountColumns = `id, email, name, password_hash, role, status, must_change_password,
		employee_id, warehouse_ref, created_at, updated_at`

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL.
type AccountRepo struct {
	db DBTX
}

// NewAccountRepository construye el adaptador de persistencia para cuentas.
func NewAccountRepository(db DBTX) *AccountRepo {
	return &AccountRepo{db: db}
}

// Create persiste una nueva cuenta. El índice único de email es la única barrera ante altas concurrentes.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.Email, a.Name, a.PasswordHash, string(a.Role), string(a.Status), a.MustChangePassword,
		a.EmployeeID, a.WarehouseRef, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	a, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, wrapNoRows(err, "get account by id")
	}
	return a, nil
}

// GetByEmail obtiene una cuenta por email (ya normalizado por el caso de uso).
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	a, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, wrapNoRows(err, "get account by email")
	}
	return a, nil
}

// UpdatePassword reemplaza hash y bandera en una sola sentencia.
func (r *AccountRepo) UpdatePassword(ctx context.Context, id, hash string, mustChangePassword bool) (*entity.Account, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}
	query := `
		UPDATE accounts SET password_hash = $2, must_change_password = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + accountColumns
	a, err := scanAccount(r.db.QueryRow(ctx, query, id, hash, mustChangePassword))
	if err != nil {
		return nil, wrapNoRows(err, "update account password")
	}
	return a, nil
}

// UpdateFields aplica un parche parcial; los campos nil se conservan (COALESCE).
func (r *AccountRepo) UpdateFields(ctx context.Context, id string, patch entity.AccountPatch) (*entity.Account, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}
	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	query := `
		UPDATE accounts SET
			name = COALESCE($2, name),
			status = COALESCE($3, status),
			employee_id = COALESCE($4, employee_id),
			warehouse_ref = COALESCE($5, warehouse_ref),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + accountColumns
	a, err := scanAccount(r.db.QueryRow(ctx, query, id, patch.Name, status, patch.EmployeeID, patch.WarehouseRef))
	if err != nil {
		return nil, wrapNoRows(err, "update account fields")
	}
	return a, nil
}

// List lista cuentas con paginación y devuelve el total.
func (r *AccountRepo) List(ctx context.Context, limit, offset int) ([]*entity.Account, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM accounts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	list := []*entity.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, a)
	}
	return list, total, rows.Err()
}

// DeleteByID elimina la cuenta (sin borrado lógico).
func (r *AccountRepo) DeleteByID(ctx context.Context, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if isInvalidTextRepresentation(err) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var (
		a      entity.Account
		role   string
		status string
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.Name, &a.PasswordHash, &role, &status, &a.MustChangePassword,
		&a.EmployeeID, &a.WarehouseRef, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Role = entity.Role(role)
	a.Status = entity.AccountStatus(status)
	return &a, nil
}

func wrapNoRows(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) || isInvalidTextRepresentation(err) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
