// Package auth handles user registration, login, and bearer-token
// authentication for Quill. Passwords are hashed with argon2id; sessions
// are stateless HS256 JWTs so any instance can authorize a request without
// shared session storage.
package auth

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Role is a named authorization capability grouping. The set of roles is
// closed: only the constants below exist.
type Role string

const (
	// RoleUser is the default role every registered account holds.
	RoleUser Role = "USER"

	// RoleAdmin grants access to administrative operations.
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a stored role name to a Role. Unknown names report false
// so corrupt rows surface instead of silently granting something.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// ResolveRoles maps raw role requests from a registration to the closed
// role set. Absent or empty input yields {USER}. Each entry matching
// "admin" case-insensitively resolves to ADMIN; everything else (typos,
// unknown names) falls back to USER. The result is de-duplicated and never
// empty -- unknown input can never grant elevated privilege and can never
// strip all roles.
func ResolveRoles(requested []string) []Role {
	if len(requested) == 0 {
		return []Role{RoleUser}
	}

	seen := make(map[Role]bool, 2)
	for _, r := range requested {
		if strings.EqualFold(r, "admin") {
			seen[RoleAdmin] = true
		} else {
			seen[RoleUser] = true
		}
	}

	// Stable output order: USER before ADMIN.
	roles := make([]Role, 0, len(seen))
	if seen[RoleUser] {
		roles = append(roles, RoleUser)
	}
	if seen[RoleAdmin] {
		roles = append(roles, RoleAdmin)
	}
	return roles
}

// roleNames converts a role slice to plain strings for JSON responses and
// storage.
func roleNames(roles []Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}

// User represents a registered account. This is the domain model used by
// the repository and service; the password hash never leaves the package
// boundary in a response.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser builds a fully-populated User ready to persist. All fields are
// required; there is no partially-constructed intermediate state. The ID is
// zero until the repository assigns one.
func NewUser(email, passwordHash, firstName, lastName string, roles []Role, createdAt time.Time) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Roles:        roles,
		CreatedAt:    createdAt,
	}
}

// Principal is the authenticated identity attached to a request, built
// either straight after a successful login or by decoding a bearer token.
// It lives only in memory for the duration of one request.
type Principal struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Roles     []Role
}

// PrincipalFromUser projects a stored identity into a Principal.
func PrincipalFromUser(u *User) *Principal {
	return &Principal{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     u.Roles,
	}
}

// HasRole returns true if the principal holds the given role.
func (p *Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleNames returns the principal's roles as plain strings.
func (p *Principal) RoleNames() []string {
	return roleNames(p.Roles)
}

// --- Request DTOs (bound from HTTP requests) ---

// RegisterRequest holds the data submitted to POST /api/auth/signup.
type RegisterRequest struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

// LoginRequest holds the data submitted to POST /api/auth/signin.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Service Input DTOs (passed from handler to service) ---

// RegisterInput is the input for creating a new account. Roles is the raw
// requested role names; resolution to the closed role set happens in the
// service.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Roles     []string
}

// Field length limits for registration input.
const (
	maxEmailLen     = 50
	minPasswordLen  = 6
	maxPasswordLen  = 40
	maxFirstNameLen = 20
	maxLastNameLen  = 20
)

// Validate checks the registration input bounds. Returns a human-readable
// reason for the first violation found, or "" when the input is acceptable.
func (in RegisterInput) Validate() string {
	if strings.TrimSpace(in.Email) == "" {
		return "email is required"
	}
	if len(in.Email) > maxEmailLen {
		return fmt.Sprintf("email must be at most %d characters", maxEmailLen)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return "email must be a valid address"
	}
	if len(in.Password) < minPasswordLen || len(in.Password) > maxPasswordLen {
		return fmt.Sprintf("password must be between %d and %d characters", minPasswordLen, maxPasswordLen)
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return "first name is required"
	}
	if len(in.FirstName) > maxFirstNameLen {
		return fmt.Sprintf("first name must be at most %d characters", maxFirstNameLen)
	}
	if strings.TrimSpace(in.LastName) == "" {
		return "last name is required"
	}
	if len(in.LastName) > maxLastNameLen {
		return fmt.Sprintf("last name must be at most %d characters", maxLastNameLen)
	}
	return ""
}

// LoginInput is the input for authenticating an account.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is what a successful login returns: the signed token plus the
// authenticated principal for the response body.
type LoginResult struct {
	Token     string
	Principal *Principal
}
