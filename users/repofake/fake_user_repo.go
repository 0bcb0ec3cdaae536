package fakeuserrepo

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	bserrors "github.com/jrsteele09/go-backoffice-session/internal/errors"
	"github.com/jrsteele09/go-backoffice-session/users"
)

var _ users.AccountRepo = (*FakeUserRepo)(nil)

// FakeUserRepo keeps accounts in memory. Accounts are copied in and out so
// callers never share state with the repo.
type FakeUserRepo struct {
	accounts map[uuid.UUID]users.Account
	emailIds map[string]uuid.UUID // lower-cased email to account id
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		accounts: make(map[uuid.UUID]users.Account),
		emailIds: make(map[string]uuid.UUID),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (ur *FakeUserRepo) Upsert(account *users.Account) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if account.ID == uuid.Nil {
		if id, ok := ur.emailIds[emailKey(account.Email)]; ok {
			account.ID = id
		} else {
			account.ID = uuid.New()
		}
	}
	ur.accounts[account.ID] = *account
	ur.emailIds[emailKey(account.Email)] = account.ID
	return nil
}

func (ur *FakeUserRepo) GetByEmail(email string) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[emailKey(email)]
	if !ok {
		return nil, bserrors.ErrUserNotFound
	}
	account := ur.accounts[id]
	return &account, nil
}

func (ur *FakeUserRepo) GetByID(id uuid.UUID) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	account, ok := ur.accounts[id]
	if !ok {
		return nil, bserrors.ErrUserNotFound
	}
	return &account, nil
}

func (ur *FakeUserRepo) SetSecret2FA(email, secret string) error {
	return ur.update(email, func(a *users.Account) {
		a.Secret2FA = secret
	})
}

// Set2FAEnabled toggles 2FA; disabling also forgets the TOTP secret.
func (ur *FakeUserRepo) Set2FAEnabled(email string, enabled bool) error {
	return ur.update(email, func(a *users.Account) {
		a.Is2FAEnabled = enabled
		if !enabled {
			a.Secret2FA = ""
		}
	})
}

func (ur *FakeUserRepo) update(email string, fn func(*users.Account)) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	id, ok := ur.emailIds[emailKey(email)]
	if !ok {
		return bserrors.ErrUserNotFound
	}
	account := ur.accounts[id]
	fn(&account)
	ur.accounts[id] = account
	return nil
}
