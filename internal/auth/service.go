package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cashbookhq/cashbook/internal/domain"
	"github.com/cashbookhq/cashbook/internal/token"
)

// Sentinel errors for the auth package.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUserAlreadyExists  = errors.New("auth: user already exists")
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrWeakPassword       = errors.New("auth: password must be at least 8 characters")
)

const minPasswordLen = 8

// TokenRevoker records a token signature as revoked for a bounded lifetime.
// A nil revoker makes logout a client-side-only operation.
type TokenRevoker interface {
	Revoke(ctx context.Context, signature string, ttl time.Duration) error
}

// Service provides signup, login and token lifecycle operations.
type Service struct {
	users   domain.UserRepository
	codec   *token.Codec
	ttl     time.Duration
	revoker TokenRevoker // may be nil
	now     func() time.Time
}

// NewService creates an auth service. revoker may be nil when no revocation
// store is configured.
func NewService(users domain.UserRepository, codec *token.Codec, ttl time.Duration, revoker TokenRevoker) *Service {
	return &Service{
		users:   users,
		codec:   codec,
		ttl:     ttl,
		revoker: revoker,
		now:     time.Now,
	}
}

// Signup creates a new user. The password is bcrypt-hashed before storage.
func (s *Service) Signup(ctx context.Context, username, password string) (*domain.User, error) {
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("auth.Signup: %w", ErrWeakPassword)
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("auth.Signup: %w", ErrUserAlreadyExists)
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("auth.Signup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth.Signup: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent signup can slip past the existence check.
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("auth.Signup: %w", ErrUserAlreadyExists)
		}
		return nil, fmt.Errorf("auth.Signup: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and returns the user with a fresh signed
// token. Lookup and verification failures are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	tok, err := s.issueToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("auth.Login: %w", err)
	}

	return user, tok, nil
}

// Refresh mints a new token for an already-resolved identity. The user must
// still exist; the persisted username wins over whatever the old token
// carried.
func (s *Service) Refresh(ctx context.Context, userID int64) (*domain.User, string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("auth.Refresh: %w", ErrUserNotFound)
	}

	tok, err := s.issueToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("auth.Refresh: %w", err)
	}

	return user, tok, nil
}

// ResetPassword re-hashes and stores a new password for the user.
func (s *Service) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("auth.ResetPassword: %w", ErrWeakPassword)
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return fmt.Errorf("auth.ResetPassword: %w", ErrUserNotFound)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth.ResetPassword: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("auth.ResetPassword: %w", err)
	}
	return nil
}

// Logout revokes the presented token for its remaining lifetime. Without a
// revocation store (or for an unparseable token) it is a no-op: the token
// simply ages out.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	if s.revoker == nil || rawToken == "" {
		return nil
	}

	claims, err := s.codec.Decode(rawToken)
	if err != nil {
		return nil
	}

	ttl := s.ttl
	if claims.ExpiresAt != 0 {
		ttl = time.Until(time.Unix(claims.ExpiresAt, 0))
	}
	if ttl <= 0 {
		return nil
	}

	if err := s.revoker.Revoke(ctx, token.Signature(rawToken), ttl); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}
	return nil
}

func (s *Service) issueToken(user *domain.User) (string, error) {
	now := s.now()
	claims := token.Claims{
		UserID:    user.ID,
		Username:  user.Username,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
		Extra:     map[string]any{"jti": uuid.NewString()},
	}
	return s.codec.Encode(claims)
}
