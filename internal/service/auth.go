// Package service implements credential hashing, token issuance and the
// register/login/authenticate workflow.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Janeirohurley/worker-api/internal/models"
	"github.com/Janeirohurley/worker-api/internal/repository"
	"go.uber.org/zap"
)

const minNameLength = 2

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	User  models.UserResponse `json:"user"`
	Token string              `json:"token"`
}

// AuthService defines the authentication workflow.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Authenticate(authorizationHeader string) (*Claims, error)
	Authorize(claims *Claims, roles ...string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService JWTService
	hasher     PasswordHasher
	emailLock  repository.EmailLock
	log        *zap.Logger
}

// NewAuthService creates a new AuthService instance. A nil emailLock
// disables registration reservations and a nil logger discards output.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService JWTService,
	hasher PasswordHasher,
	emailLock repository.EmailLock,
	log *zap.Logger,
) AuthService {
	if emailLock == nil {
		emailLock = repository.NewNoopEmailLock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		hasher:     hasher,
		emailLock:  emailLock,
		log:        log,
	}
}

// Register creates a worker account. The name is trimmed before its length
// is checked. While another registration holds the reservation for the same
// email the call returns ErrEmailInUse, even if that registration later
// fails. The holder releases the reservation when it returns (or it expires
// after its TTL), so a retry then gets the real outcome.
func (s *authService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minNameLength {
		return nil, ErrInvalidName
	}
	email = NormalizeEmail(email)

	release, err := s.emailLock.Acquire(ctx, email)
	switch {
	case errors.Is(err, repository.ErrLocked):
		return nil, ErrEmailInUse
	case err != nil:
		// the unique index still guards the insert
		s.log.Warn("registration lock unavailable", zap.Error(err))
		release = func() {}
	}
	defer release()

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailInUse
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	hash, err := s.hasher.Hash(password)
	if errors.Is(err, ErrPasswordLength) {
		return nil, ErrPasswordLength
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.DefaultRole,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return s.issue(user)
}

// Login checks existence before the password, so a 404 reveals that an
// email is not registered.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrBadCredentials
	}

	return s.issue(user)
}

func (s *authService) Authenticate(authorizationHeader string) (*Claims, error) {
	if strings.TrimSpace(authorizationHeader) == "" {
		return nil, ErrMissingToken
	}

	token, ok := ExtractBearerToken(authorizationHeader)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) Authorize(claims *Claims, roles ...string) error {
	if claims == nil || !models.HasRole(claims.Role, roles...) {
		return ErrForbidden
	}
	return nil
}

func (s *authService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to sign token: %w", ErrInternal, err)
	}
	return &AuthResult{
		User:  user.ToResponse(),
		Token: token,
	}, nil
}

// ExtractBearerToken returns the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func ExtractBearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// NormalizeEmail lower-cases and trims an email so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
