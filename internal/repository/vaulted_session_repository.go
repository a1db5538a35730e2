package repository

import (
	"context"

	"github.com/memberhub/memberhub/internal/models"
)

type SessionStore interface {
	Save(ctx context.Context, session *models.SignupSession) error
	Get(ctx context.Context, id string) (*models.SignupSession, error)
	Delete(ctx context.Context, id string) error
}

// VaultedSessionRepository splits a session between a shared store, which only ever
// sees the redacted form, and a process-local vault holding the form secrets.
// Secrets entered on one instance are not visible to another.
type VaultedSessionRepository struct {
	store SessionStore
	vault *SecretVault
}

func NewVaultedSessionRepository(store SessionStore, vault *SecretVault) *VaultedSessionRepository {
	return &VaultedSessionRepository{
		store: store,
		vault: vault,
	}
}

func (r *VaultedSessionRepository) Save(ctx context.Context, session *models.SignupSession) error {
	if err := r.store.Save(ctx, session.Redacted()); err != nil {
		return err
	}
	r.vault.Put(session.ID, session.Form.Secrets(), session.ExpiresAt)
	return nil
}

func (r *VaultedSessionRepository) Get(ctx context.Context, id string) (*models.SignupSession, error) {
	session, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if secrets, ok := r.vault.Get(id); ok {
		session.Form.RestoreSecrets(secrets)
	}
	return session, nil
}

func (r *VaultedSessionRepository) Delete(ctx context.Context, id string) error {
	r.vault.Delete(id)
	return r.store.Delete(ctx, id)
}
