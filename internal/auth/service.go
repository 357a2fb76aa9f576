package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/quillhq/quill/internal/apperror"
)

// invalidCredentialsMsg is the single message for every login failure.
// Wrong password and unknown email must be externally indistinguishable,
// otherwise the endpoint can be used to enumerate registered emails.
const invalidCredentialsMsg = "invalid email or password"

// loginDummyHash is a well-formed argon2id hash no password verifies
// against. The unknown-email login path verifies against it so both
// failure modes pay the same hashing cost -- otherwise response latency
// would reveal whether an email is registered even though the errors
// are identical.
const loginDummyHash = "$argon2id$v=19$m=65536,t=3,p=4$cXVpbGwtZHVtbXktc2FsdA$cXVpbGwtbG9naW4tdGltaW5nLWVxdWFsaXplci1wYWQ"

// AuthService defines the business logic contract for authentication.
// Handlers and middleware call these methods -- they never touch the
// repository directly.
type AuthService interface {
	// Register creates a new account. No token is issued: login is a
	// separate, explicit step.
	Register(ctx context.Context, input RegisterInput) (*User, error)

	// Login verifies credentials and issues a signed token together with
	// the authenticated principal.
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)

	// Authenticate verifies a bearer token and reconstructs the Principal
	// behind it from live store data.
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

// authService implements AuthService with argon2id hashing and JWT tokens.
type authService struct {
	repo  UserRepository
	codec *TokenCodec
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(repo UserRepository, codec *TokenCodec) AuthService {
	return &authService{
		repo:  repo,
		codec: codec,
	}
}

// Register creates a new user account. It validates the input, checks email
// uniqueness, hashes the password, resolves the requested roles, and
// persists the identity. On any failure the store is left untouched: the
// insert is the only write and it happens last.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if reason := input.Validate(); reason != "" {
		return nil, apperror.NewValidation(reason)
	}

	// Check for duplicates before doing expensive hashing.
	exists, err := s.repo.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if exists {
		return nil, apperror.NewConflict("an account with this email already exists")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	user := NewUser(input.Email, hash, input.FirstName, input.LastName,
		ResolveRoles(input.Roles), time.Now().UTC())

	if err := s.repo.Create(ctx, user); err != nil {
		// A conflict here means we lost a race with a concurrent
		// registration: same outcome as the pre-check.
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusConflict {
			return nil, appErr
		}
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	slog.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login authenticates a user by email and password. On success it issues a
// signed token bound to the user's email with the configured TTL. The store
// is never written: login is a pure read plus a token mint.
func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if isNotFound(err) {
			// Burn the same hashing cost as a real check.
			VerifyPassword(input.Password, loginDummyHash)
			return nil, apperror.NewUnauthorized(invalidCredentialsMsg)
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	if !VerifyPassword(input.Password, user.PasswordHash) {
		return nil, apperror.NewUnauthorized(invalidCredentialsMsg)
	}

	token, err := s.codec.Issue(user.Email, time.Now().UTC())
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("issuing token: %w", err))
	}

	slog.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return &LoginResult{
		Token:     token,
		Principal: PrincipalFromUser(user),
	}, nil
}

// Authenticate verifies a bearer token and rebuilds the Principal it
// asserts. The token carries identity only; roles are re-fetched from the
// store so a role change takes effect on the next request, not when the
// token expires. All verification failures collapse into one generic 401
// for the caller -- the specific cause is only logged.
func (s *authService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	subject, err := s.codec.Verify(token)
	if err != nil {
		slog.Debug("token rejected", slog.Any("reason", err))
		return nil, apperror.NewUnauthorized("invalid or expired token")
	}

	user, err := s.repo.FindByEmail(ctx, subject)
	if err != nil {
		if isNotFound(err) {
			// Identity deleted since the token was issued.
			return nil, apperror.NewUnauthorized("invalid or expired token")
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding token subject: %w", err))
	}

	return PrincipalFromUser(user), nil
}

// isNotFound reports whether err is an apperror not-found.
func isNotFound(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == http.StatusNotFound
}
