package users

import "github.com/google/uuid"

type AccountRepo interface {
	Upsert(account *Account) error
	GetByEmail(email string) (*Account, error)
	GetByID(id uuid.UUID) (*Account, error)
	SetSecret2FA(email, secret string) error
	Set2FAEnabled(email string, enabled bool) error
}
