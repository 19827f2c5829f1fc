package orchestrators

import (
	"context"
	"errors"
	"testing"

	"posme/internal/adapters/posapi"
	"posme/internal/domain/staff"
)

type mockAuthAPI struct {
	resp  posapi.LoginResponse
	err   error
	calls int
}

func (m *mockAuthAPI) Login(ctx context.Context, email, password string) (posapi.LoginResponse, error) {
	m.calls++
	return m.resp, m.err
}

func TestExecuteLogin_MissingCredentials(t *testing.T) {
	api := &mockAuthAPI{}

	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "a@b.com"}, LoginDeps{API: api})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
	if api.calls != 0 {
		t.Errorf("expected no backend call, got %d", api.calls)
	}
}

func TestExecuteLogin_BackendErrorSurfaces(t *testing.T) {
	api := &mockAuthAPI{err: posapi.ErrLoginFailed}

	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "a@b.com", Password: "pw"}, LoginDeps{API: api})
	if !errors.Is(err, posapi.ErrLoginFailed) {
		t.Errorf("expected ErrLoginFailed, got %v", err)
	}
}

func TestExecuteLogin_Success(t *testing.T) {
	api := &mockAuthAPI{resp: posapi.LoginResponse{
		Token:     "tok-123",
		StaffUser: staff.User{ID: "u1", Email: "a@b.com", Branch: "central"},
	}}

	result, err := ExecuteLogin(context.Background(), LoginInput{Email: "a@b.com", Password: "pw"}, LoginDeps{API: api})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token != "tok-123" {
		t.Errorf("expected token tok-123, got %q", result.Token)
	}
	if result.User.Branch != "central" {
		t.Errorf("expected branch central, got %q", result.User.Branch)
	}
}
