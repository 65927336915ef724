package auth

import (
	"context"
	"errors"
	"time"

	"bookstore/internal/platform/crypto"
	"bookstore/internal/session"
	"bookstore/internal/user"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

// Token is the body of a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type Service struct {
	secret         string
	ttl            time.Duration
	userService    *user.Service
	sessionService *session.Service
}

func NewService(secret string, ttl time.Duration, userService *user.Service, sessionService *session.Service) *Service {
	return &Service{
		secret:         secret,
		ttl:            ttl,
		userService:    userService,
		sessionService: sessionService,
	}
}

func (s *Service) Login(ctx context.Context, username, password string) (Token, error) {
	u, err := s.userService.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Token{}, ErrUnauthorized
		}
		return Token{}, err
	}
	if u.Password == "" || !crypto.VerifyPassword(u.Password, password) {
		return Token{}, ErrUnauthorized
	}
	return s.IssueToken(u)
}

// IssueToken signs an access token for u carrying its staff flag.
func (s *Service) IssueToken(u user.User) (Token, error) {
	accessToken, _, err := crypto.GenerateToken(s.secret, u.ID, u.IsStaff, s.ttl)
	if err != nil {
		return Token{}, err
	}
	return Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
	}, nil
}

// Logout revokes the token described by claims until it expires.
func (s *Service) Logout(ctx context.Context, claims *crypto.Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return s.sessionService.Revoke(ctx, claims.ID, claims.Sub, expiresAt)
}
