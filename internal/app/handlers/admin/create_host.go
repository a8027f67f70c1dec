package admin

import (
	"context"
	"errors"
	"strings"

	authsvc "staykit/internal/app/services/auth"
	"staykit/internal/domain/user"
)

// CreateHostCommand provisions a host dashboard account. Only admins reach
// this handler; hosts never self-register.
type CreateHostCommand struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

func (CreateHostCommand) Key() string { return "admin.create_host" }

func (c CreateHostCommand) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return user.ErrEmailRequired
	}
	if strings.TrimSpace(c.Password) == "" {
		return errors.New("admin: password is required")
	}
	if strings.TrimSpace(c.FirstName) == "" {
		return user.ErrNameRequired
	}
	return nil
}

type CreateHostResult struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type CreateHostHandler struct {
	accounts *authsvc.Service
}

func NewCreateHostHandler(accounts *authsvc.Service) *CreateHostHandler {
	return &CreateHostHandler{accounts: accounts}
}

func (h *CreateHostHandler) Handle(ctx context.Context, cmd CreateHostCommand) (CreateHostResult, error) {
	account, err := h.accounts.CreateAccount(ctx, authsvc.CreateAccountParams{
		Email:     cmd.Email,
		Password:  cmd.Password,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Phone:     cmd.Phone,
		Roles:     []user.Role{user.RoleHost},
	})
	if err != nil {
		return CreateHostResult{}, err
	}
	return CreateHostResult{UserID: string(account.ID), Email: account.Email}, nil
}
