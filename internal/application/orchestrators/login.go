package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"posme/internal/adapters/posapi"
	"posme/internal/domain/staff"
)

// AuthAPI defines the backend calls needed by Login.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (posapi.LoginResponse, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the credentials returned by the backend on success.
type LoginResult struct {
	Token string
	User  staff.User
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	API AuthAPI
}

var ErrMissingCredentials = errors.New("email and password are required")

// ExecuteLogin exchanges staff credentials for a backend token.
// PRE: Email and password are non-empty
// POST: Returns the token and staff profile on success
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return LoginResult{}, ErrMissingCredentials
	}

	resp, err := deps.API.Login(ctx, input.Email, input.Password)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", input.Email)
		return LoginResult{}, err
	}

	slog.Info("auth_event", "event", "login_success", "email", input.Email, "branch", resp.StaffUser.Branch)

	return LoginResult{Token: resp.Token, User: resp.StaffUser}, nil
}
