package memory

import (
	"context"

	"github.com/jhoicas/invorya-auth/internal/domain/repository"
)

// TxRunner ejecuta fn directamente sobre el repositorio: en memoria no hay rollback,
// cada operación del repositorio ya es atómica por sí sola.
type TxRunner struct {
	accounts repository.AccountRepository
}

// NewTxRunner construye el runner.
func NewTxRunner(accounts repository.AccountRepository) *TxRunner {
	return &TxRunner{accounts: accounts}
}

// RunInTx ejecuta fn con el repositorio.
func (r *TxRunner) RunInTx(_ context.Context, fn func(accounts repository.AccountRepository) error) error {
	return fn(r.accounts)
}
