package tokenfakerepo

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-backoffice-session/token"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

// FakeTokenRepo is an in-memory token slot that counts calls and can be told
// to fail, for exercising the session manager's storage paths.
type FakeTokenRepo struct {
	token  string
	stored bool
	lock   sync.RWMutex

	GetCalls    int
	SetCalls    int
	DeleteCalls int

	GetErr    error
	SetErr    error
	DeleteErr error
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{}
}

// NewFakeTokenRepoWith returns a repo that already holds t.
func NewFakeTokenRepoWith(t string) *FakeTokenRepo {
	return &FakeTokenRepo{token: t, stored: true}
}

func (tr *FakeTokenRepo) Get(_ context.Context) (string, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	tr.GetCalls++
	if tr.GetErr != nil {
		return "", tr.GetErr
	}
	if !tr.stored {
		return "", token.ErrNoToken
	}
	return tr.token, nil
}

func (tr *FakeTokenRepo) Set(_ context.Context, t string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	tr.SetCalls++
	if tr.SetErr != nil {
		return tr.SetErr
	}
	tr.token = t
	tr.stored = true
	return nil
}

func (tr *FakeTokenRepo) Delete(_ context.Context) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	tr.DeleteCalls++
	if tr.DeleteErr != nil {
		return tr.DeleteErr
	}
	tr.token = ""
	tr.stored = false
	return nil
}

// Stored returns the slot contents without counting as a Get.
func (tr *FakeTokenRepo) Stored() (string, bool) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	return tr.token, tr.stored
}
