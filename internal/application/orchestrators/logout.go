package orchestrators

import (
	"context"
	"log/slog"
)

// LogoutAPI defines the backend calls needed by Logout.
type LogoutAPI interface {
	Logout(ctx context.Context, token string) error
}

// LogoutInput carries input for the logout orchestrator.
type LogoutInput struct {
	Token string
	Email string
}

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	API LogoutAPI
}

// ExecuteLogout revokes the backend token. The backend call is best-effort:
// the local session ends regardless of whether revocation succeeds.
// POST: Always succeeds from the caller's perspective
func ExecuteLogout(ctx context.Context, input LogoutInput, deps LogoutDeps) {
	if input.Token == "" {
		return
	}
	if err := deps.API.Logout(ctx, input.Token); err != nil {
		slog.Warn("auth_event", "event", "logout_revoke_failed", "email", input.Email, "error", err)
		return
	}
	slog.Info("auth_event", "event", "logout_success", "email", input.Email)
}
