package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staykit/internal/domain/user"
	"staykit/internal/infra/storage/memory"
)

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type sequenceTokens struct{ n int }

func (g *sequenceTokens) Generate() (string, error) {
	g.n++
	return fmt.Sprintf("token-%d", g.n), nil
}

func newService(t *testing.T, now func() time.Time) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewService(Config{
		Users:      memory.NewUserRepository(store),
		Sessions:   memory.NewSessionStore(store),
		Hasher:     plainHasher{},
		Tokens:     &sequenceTokens{},
		SessionTTL: time.Hour,
		Now:        now,
	})
	return svc, store
}

func TestLoginAndResolve(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	account, err := svc.CreateAccount(ctx, CreateAccountParams{
		Email:     "Host@Example.com",
		Password:  "s3cretpass",
		FirstName: "Grace",
		Roles:     []user.Role{user.RoleHost},
	})
	require.NoError(t, err)
	assert.Equal(t, "host@example.com", account.Email)

	result, err := svc.Login(ctx, "host@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	resolved, err := svc.Resolve(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, resolved.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	_, err := svc.CreateAccount(ctx, CreateAccountParams{
		Email: "host@example.com", Password: "s3cretpass", FirstName: "Grace",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "host@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newService(t, nil)
	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolve_ExpiredSessionIsDropped(t *testing.T) {
	current := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, _ := newService(t, func() time.Time { return current })
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, CreateAccountParams{
		Email: "host@example.com", Password: "s3cretpass", FirstName: "Grace",
	})
	require.NoError(t, err)
	result, err := svc.Login(ctx, "host@example.com", "s3cretpass")
	require.NoError(t, err)

	current = current.Add(2 * time.Hour)
	_, err = svc.Resolve(ctx, result.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	_, err := svc.CreateAccount(ctx, CreateAccountParams{
		Email: "host@example.com", Password: "s3cretpass", FirstName: "Grace",
	})
	require.NoError(t, err)
	result, err := svc.Login(ctx, "host@example.com", "s3cretpass")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.Token))
	_, err = svc.Resolve(ctx, result.Token)
	assert.Error(t, err)
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	_, err := svc.CreateAccount(ctx, CreateAccountParams{
		Email: "host@example.com", Password: "s3cretpass", FirstName: "Grace",
	})
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, CreateAccountParams{
		Email: "host@example.com", Password: "other", FirstName: "Other",
	})
	assert.ErrorIs(t, err, user.ErrEmailAlreadyUsed)
}
