package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"staykit/internal/domain/auth"
	"staykit/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrSessionExpired     = errors.New("auth: session expired")
)

// PasswordHasher hashes and verifies dashboard account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenGenerator mints opaque bearer tokens.
type TokenGenerator interface {
	Generate() (string, error)
}

// Service owns dashboard authentication: login, logout, token resolution,
// and account creation (admins create host accounts; hosts never
// self-register).
type Service struct {
	users    user.Repository
	sessions auth.SessionStore
	hasher   PasswordHasher
	tokens   TokenGenerator
	ttl      time.Duration
	now      func() time.Time
}

type Config struct {
	Users      user.Repository
	Sessions   auth.SessionStore
	Hasher     PasswordHasher
	Tokens     TokenGenerator
	SessionTTL time.Duration
	Now        func() time.Time
}

func NewService(cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		users:    cfg.Users,
		sessions: cfg.Sessions,
		hasher:   cfg.Hasher,
		tokens:   cfg.Tokens,
		ttl:      ttl,
		now:      now,
	}
}

type LoginResult struct {
	Token     string
	UserID    string
	FullName  string
	Roles     []user.Role
	ExpiresAt time.Time
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	account, err := s.users.ByEmail(ctx, user.NormalizeEmail(email))
	if errors.Is(err, user.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate()
	if err != nil {
		return LoginResult{}, err
	}
	session, err := auth.NewSession(auth.CreateSessionParams{
		Token:  auth.Token(token),
		UserID: account.ID,
		Roles:  account.Roles,
		TTL:    s.ttl,
		Now:    s.now(),
	})
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		Token:     token,
		UserID:    string(account.ID),
		FullName:  account.FullName(),
		Roles:     account.Roles,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, auth.Token(token))
}

// Resolve maps a bearer token to its account, dropping expired sessions.
func (s *Service) Resolve(ctx context.Context, token string) (*user.User, error) {
	session, err := s.sessions.Get(ctx, auth.Token(token))
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, session.Token)
		return nil, ErrSessionExpired
	}
	return s.users.ByID(ctx, session.UserID)
}

type CreateAccountParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Roles     []user.Role
}

// CreateAccount provisions a dashboard account with a hashed password.
func (s *Service) CreateAccount(ctx context.Context, params CreateAccountParams) (*user.User, error) {
	email := user.NormalizeEmail(params.Email)
	if email == "" {
		return nil, user.ErrEmailRequired
	}
	if strings.TrimSpace(params.Password) == "" {
		return nil, ErrInvalidCredentials
	}
	if existing, err := s.users.ByEmail(ctx, email); err == nil && existing != nil {
		return nil, user.ErrEmailAlreadyUsed
	} else if err != nil && !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	account, err := user.New(user.CreateParams{
		ID:           user.ID(uuid.NewString()),
		Email:        email,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Phone:        params.Phone,
		PasswordHash: hash,
		Roles:        params.Roles,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}
