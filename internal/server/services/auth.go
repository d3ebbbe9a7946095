// Package services contains the server's application services: session
// issuance/resolution and the sync push/pull semantics.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kasku-app/kasku/internal/common"
	"github.com/kasku-app/kasku/internal/server/auth"
	"github.com/kasku-app/kasku/internal/server/models"
	"github.com/kasku-app/kasku/internal/server/repositories/sessions"
	"github.com/kasku-app/kasku/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues bearer sessions and resolves tokens back to them.
type AuthService struct {
	userRepo        users.Repository
	sessionRepo     sessions.Repository
	secretKey       []byte
	sessionValidity time.Duration
	now             func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(userRepo users.Repository, sessionRepo sessions.Repository, secretKey []byte, sessionValidity time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		secretKey:       secretKey,
		sessionValidity: sessionValidity,
		now:             time.Now,
	}
}

// Login verifies credentials, creates a session row and returns the signed
// token for it. A wrong email and a wrong password are indistinguishable to
// the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrUnauthorized
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().UTC().Add(s.sessionValidity),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	token, err := auth.GenerateToken(session.ID, user.ID, s.secretKey, s.sessionValidity)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ResolveToken parses a bearer token and loads its session, enforcing the
// expiry. This is the whole auth contract the sync endpoints consume: a
// token resolves to a user and an expiry, or it is rejected.
func (s *AuthService) ResolveToken(ctx context.Context, tokenString string) (*models.Session, error) {
	claims, err := auth.ParseToken(tokenString, s.secretKey)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.ExpiresAt.Before(s.now()) {
		return nil, common.ErrSessionExpired
	}
	return session, nil
}
