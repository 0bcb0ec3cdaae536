package users_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	bserrors "github.com/jrsteele09/go-backoffice-session/internal/errors"
	"github.com/jrsteele09/go-backoffice-session/users"
	fakeuserrepo "github.com/jrsteele09/go-backoffice-session/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := users.ParseRole(" advogado ")
	require.NoError(t, err)
	require.Equal(t, users.RoleAdvogado, r)

	_, err = users.ParseRole("super_admin")
	require.Error(t, err)
}

func TestProfile_JSONMatchesBackend(t *testing.T) {
	raw := `{"id":"0b7e8a8e-2f7f-4c43-9f39-7f2a4cc2d3f1","email":"lawyer@example.com","role":"ADVOGADO","is_2fa_enabled":true}`

	var p users.Profile
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	require.Equal(t, uuid.MustParse("0b7e8a8e-2f7f-4c43-9f39-7f2a4cc2d3f1"), p.ID)
	require.Equal(t, "lawyer@example.com", p.Email)
	require.Equal(t, users.RoleAdvogado, p.Role)
	require.True(t, p.Is2FAEnabled)
}

func TestProfile_HasRole(t *testing.T) {
	p := users.Profile{Role: users.RoleAnalista}

	require.True(t, p.HasRole(users.RoleAdmin, users.RoleAnalista))
	require.False(t, p.HasRole(users.RoleAdmin))
	require.False(t, p.HasRole())
	require.False(t, p.IsAdmin())
}

func TestPasswordHash(t *testing.T) {
	hash, err := users.HashPassword("Correct123")
	require.NoError(t, err)

	require.True(t, users.CheckPasswordHash("Correct123", hash))
	require.False(t, users.CheckPasswordHash("wrong", hash))
	require.False(t, users.CheckPasswordHash("", hash))
}

func TestValidatePasswordStrength(t *testing.T) {
	require.NoError(t, users.ValidatePasswordStrength("Admin123"))
	require.Error(t, users.ValidatePasswordStrength("short1A"))
	require.Error(t, users.ValidatePasswordStrength("alllowercase1"))
	require.Error(t, users.ValidatePasswordStrength("NoNumbersHere"))
}

func TestFakeUserRepo_TwoFactorLifecycle(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	account := &users.Account{Profile: users.Profile{Email: "Lawyer@Example.com", Role: users.RoleAdvogado}}
	require.NoError(t, repo.Upsert(account))
	require.NotEqual(t, uuid.Nil, account.ID)

	require.NoError(t, repo.SetSecret2FA("lawyer@example.com", "JBSWY3DPEHPK3PXP"))
	require.NoError(t, repo.Set2FAEnabled("lawyer@example.com", true))

	got, err := repo.GetByID(account.ID)
	require.NoError(t, err)
	require.True(t, got.Is2FAEnabled)
	require.Equal(t, "JBSWY3DPEHPK3PXP", got.Secret2FA)

	require.NoError(t, repo.Set2FAEnabled("lawyer@example.com", false))
	got, err = repo.GetByEmail("lawyer@example.com")
	require.NoError(t, err)
	require.False(t, got.Is2FAEnabled)
	require.Empty(t, got.Secret2FA)

	_, err = repo.GetByEmail("nobody@example.com")
	require.ErrorIs(t, err, bserrors.ErrUserNotFound)
}

func TestRegistration_Normalize(t *testing.T) {
	r := users.Registration{Email: " new@example.com ", Password: "Secret123"}
	require.NoError(t, r.Normalize())
	require.Equal(t, "new@example.com", r.Email)
	require.Equal(t, users.RoleAnalista, r.Role)

	r = users.Registration{Email: "new@example.com", Password: "Secret123", Role: "advogado"}
	require.NoError(t, r.Normalize())
	require.Equal(t, users.RoleAdvogado, r.Role)

	require.Error(t, (&users.Registration{Email: "nope", Password: "Secret123"}).Normalize())
	require.Error(t, (&users.Registration{Email: "a@b.c", Password: "Secret123", Role: "ROOT"}).Normalize())
	require.Error(t, (&users.Registration{Email: "a@b.c", Password: "short"}).Normalize())
}

func ExampleProfile_HasRole() {
	lawyer := users.Profile{Email: "lawyer@example.com", Role: users.RoleAdvogado}
	fmt.Println(lawyer.HasRole(users.RoleAdmin, users.RoleAdvogado))
	fmt.Println(lawyer.HasRole(users.RoleAdmin))
	// Output:
	// true
	// false
}
