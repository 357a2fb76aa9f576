package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/quillhq/quill/internal/apperror"
)

// mysqlErrDuplicateEntry is the MySQL/MariaDB error number for a unique
// constraint violation.
const mysqlErrDuplicateEntry = 1062

// UserRepository defines the data access contract for user identities.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type UserRepository interface {
	// Create inserts a new identity and assigns its ID. A unique-index
	// violation on email is reported as an apperror conflict, so a
	// registration that loses a race is indistinguishable from one that
	// failed the pre-check.
	Create(ctx context.Context, user *User) error

	// FindByEmail retrieves an identity by email. Returns an apperror
	// not-found when no identity exists.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// EmailExists returns true if an identity with the given email exists.
	EmailExists(ctx context.Context, email string) (bool, error)
}

// userRepository implements UserRepository with hand-written MariaDB queries.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository backed by the given DB pool.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user row. The roles set is stored as a
// comma-separated list of role names; the closed enum keeps the encoding
// unambiguous.
func (r *userRepository) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (email, password_hash, first_name, last_name, roles, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		encodeRoles(user.Roles),
		user.CreatedAt,
	)
	if err != nil {
		// The unique index on email is the storage-level backstop for the
		// service's pre-check: two concurrent registrations can both pass
		// the check, but only one insert wins.
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return apperror.NewConflict("an account with this email already exists")
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted user id: %w", err)
	}
	user.ID = id

	return nil
}

// FindByEmail retrieves a user by their email address.
// Returns apperror.NotFound if no user exists with this email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, email, password_hash, first_name, last_name, roles, created_at
	          FROM users WHERE email = ?`

	user := &User{}
	var roles string
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&roles,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}

	user.Roles, err = decodeRoles(roles)
	if err != nil {
		return nil, fmt.Errorf("decoding roles for user %d: %w", user.ID, err)
	}

	return user, nil
}

// EmailExists returns true if a user with the given email already exists.
// Used during registration to check for duplicates before hashing the password.
func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking email existence: %w", err)
	}

	return exists, nil
}

// encodeRoles serializes a role set for the roles column.
func encodeRoles(roles []Role) string {
	return strings.Join(roleNames(roles), ",")
}

// decodeRoles parses the roles column back into the closed enum. An
// unknown role name means the row was written by something other than this
// application -- fail loudly rather than guess.
func decodeRoles(s string) ([]Role, error) {
	parts := strings.Split(s, ",")
	roles := make([]Role, 0, len(parts))
	for _, p := range parts {
		role, ok := ParseRole(strings.TrimSpace(p))
		if !ok {
			return nil, fmt.Errorf("unknown role %q", p)
		}
		roles = append(roles, role)
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("empty role set")
	}
	return roles, nil
}
