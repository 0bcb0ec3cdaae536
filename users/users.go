package users

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RoleType is the back-office role of a user
type RoleType string

const (
	RoleAdmin    RoleType = "ADMIN"    // Full access, manages users
	RoleAnalista RoleType = "ANALISTA" // Financial analyst
	RoleAdvogado RoleType = "ADVOGADO" // Lawyer, works on processos
)

// Valid reports whether r is one of the known roles
func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleAnalista, RoleAdvogado:
		return true
	}
	return false
}

// ParseRole converts a case-insensitive role name
func ParseRole(s string) (RoleType, error) {
	r := RoleType(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Profile is the user record returned by the auth service for the current token.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Role         RoleType  `json:"role"`
	Is2FAEnabled bool      `json:"is_2fa_enabled"`
}

// HasRole reports whether the profile holds any of the given roles
func (p Profile) HasRole(roles ...RoleType) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Account is the server-side record kept by the development auth service.
type Account struct {
	Profile
	FullName     string `json:"nome_completo,omitempty"`
	PasswordHash string `json:"-"` // never serialize
	Secret2FA    string `json:"-"` // TOTP secret, set by setup and kept until disable
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Registration is the payload an admin sends to create an account.
type Registration struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	FullName string   `json:"nome_completo,omitempty"`
	Role     RoleType `json:"role,omitempty"`
}

// Normalize trims the email and defaults the role to ANALISTA, then checks
// the result.
func (r *Registration) Normalize() error {
	r.Email = strings.TrimSpace(r.Email)
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("invalid email %q", r.Email)
	}
	if r.Role == "" {
		r.Role = RoleAnalista
	}
	role, err := ParseRole(string(r.Role))
	if err != nil {
		return err
	}
	r.Role = role
	return ValidatePasswordStrength(r.Password)
}
