package repository

import (
	"context"
	"sync"
	"time"

	"github.com/memberhub/memberhub/internal/models"
)

type vaultEntry struct {
	secrets   models.FormSecrets
	expiresAt time.Time
}

// SecretVault holds form secrets in process memory until their session expires.
type SecretVault struct {
	mu      sync.Mutex
	entries map[string]vaultEntry
}

func NewSecretVault() *SecretVault {
	return &SecretVault{entries: make(map[string]vaultEntry)}
}

func (v *SecretVault) Put(id string, secrets models.FormSecrets, expiresAt time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries[id] = vaultEntry{secrets: secrets, expiresAt: expiresAt}
}

func (v *SecretVault) Get(id string) (models.FormSecrets, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	entry, ok := v.entries[id]
	if !ok {
		return models.FormSecrets{}, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(v.entries, id)
		return models.FormSecrets{}, false
	}
	return entry.secrets, true
}

func (v *SecretVault) Delete(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.entries, id)
}

func (v *SecretVault) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}

// Sweep drops entries that expired before now and reports how many were removed.
func (v *SecretVault) Sweep(now time.Time) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	removed := 0
	for id, entry := range v.entries {
		if now.After(entry.expiresAt) {
			delete(v.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired entries every interval until ctx is done.
func (v *SecretVault) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			v.Sweep(now)
		}
	}
}
