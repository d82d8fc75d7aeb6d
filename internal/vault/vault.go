package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/dsilva/worklog/internal/common"
	"github.com/dsilva/worklog/internal/logging"
)

// CredentialStore persists the credential record set as a whole.
// Implementations treat SaveAll as an all-or-nothing overwrite and report
// an absent backing store from LoadAll as an empty set.
type CredentialStore interface {
	LoadAll(ctx context.Context) (map[string]CredentialRecord, error)
	SaveAll(ctx context.Context, records map[string]CredentialRecord) error
}

// Vault verifies local accounts against a CredentialStore.
type Vault struct {
	store      CredentialStore
	logger     logging.Logger
	iterations int
}

func New(store CredentialStore, logger logging.Logger) *Vault {
	return &Vault{
		store:      store,
		logger:     logger.With("module", "vault"),
		iterations: DefaultIterations,
	}
}

// loadAll degrades store read failures to an empty record set: login then
// reports "not found", which is safe, while the real cause stays visible
// in the log.
func (v *Vault) loadAll(ctx context.Context) map[string]CredentialRecord {
	records, err := v.store.LoadAll(ctx)
	if err != nil {
		v.logger.Warn(ctx, "credential store unreadable, treating as empty", "error", err.Error())
		return map[string]CredentialRecord{}
	}
	return records
}

// CreateAccount hashes password and persists a new credential record.
// Returns common.ErrValidation on empty input and common.ErrAlreadyExists
// when the username is taken.
func (v *Vault) CreateAccount(ctx context.Context, username string, password []byte) error {
	username = strings.TrimSpace(username)
	if username == "" || len(password) == 0 {
		return fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	records := v.loadAll(ctx)
	if _, ok := records[username]; ok {
		return fmt.Errorf("%w: user %q", common.ErrAlreadyExists, username)
	}

	rec := HashPassword(password, v.iterations)
	rec.Username = username
	records[username] = rec

	if err := v.store.SaveAll(ctx, records); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	v.logger.Info(ctx, "account created", "username", username)
	return nil
}

// Authenticate verifies username/password against the stored record.
// Returns common.ErrNotFound for unknown users and common.ErrUnauthorized
// for a wrong password.
func (v *Vault) Authenticate(ctx context.Context, username string, password []byte) error {
	username = strings.TrimSpace(username)
	if username == "" || len(password) == 0 {
		return fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	rec, ok := v.loadAll(ctx)[username]
	if !ok {
		return common.ErrNotFound
	}
	if !VerifyPassword(password, rec) {
		return common.ErrUnauthorized
	}
	return nil
}
