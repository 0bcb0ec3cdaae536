package token

import (
	"context"
	"errors"
)

// ErrNoToken is returned by Repo.Get when nothing is stored.
var ErrNoToken = errors.New("no token stored")

// Repo persists the bearer token of the current session in a single
// well-known slot. Writes are last-writer-wins; Delete on an empty slot is
// not an error.
type Repo interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}
