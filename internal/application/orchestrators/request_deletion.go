package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"posme/internal/adapters/email"
	"posme/internal/domain/deletion"
)

// DeletionStoreForRequest defines the store interface needed by RequestDeletion.
type DeletionStoreForRequest interface {
	Save(ctx context.Context, r deletion.Request) error
}

// RequestDeletionInput carries the raw submission from the public form.
type RequestDeletionInput struct {
	Contact   string
	StoreName string
	Message   string
	Honeypot  string
	IPAddress string
}

// RequestDeletionDeps holds dependencies for RequestDeletion.
type RequestDeletionDeps struct {
	Requests     DeletionStoreForRequest
	Email        email.Sender
	SupportEmail string
	FromEmail    string
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteRequestDeletion validates and records an account deletion request,
// then notifies support. The notification is best-effort: a saved request is
// a success even if the email fails.
// PRE: Contact is a valid email address or phone number, honeypot empty
// POST: Request persisted with status pending
func ExecuteRequestDeletion(ctx context.Context, input RequestDeletionInput, deps RequestDeletionDeps) (deletion.Request, error) {
	req := deletion.Request{
		ID:         deps.GenerateID(),
		Contact:    input.Contact,
		StoreName:  input.StoreName,
		Message:    input.Message,
		Honeypot:   input.Honeypot,
		Status:     deletion.StatusPending,
		IPAddress:  input.IPAddress,
		ReceivedAt: deps.Now().UTC(),
	}

	if err := req.ValidateSubmission(); err != nil {
		return deletion.Request{}, err
	}

	if err := deps.Requests.Save(ctx, req); err != nil {
		return deletion.Request{}, fmt.Errorf("save deletion request: %w", err)
	}

	slog.Info("deletion_event", "event", "request_received", "request_id", req.ID)

	if deps.Email != nil && deps.SupportEmail != "" {
		if _, err := deps.Email.Send(ctx, email.SendRequest{
			To:      []string{deps.SupportEmail},
			From:    deps.FromEmail,
			Subject: "Account deletion request " + req.ID,
			HTML:    deletionNotificationHTML(req),
		}); err != nil {
			slog.Warn("deletion_event", "event", "notify_failed", "request_id", req.ID, "error", err)
		}
	}

	return req, nil
}

func deletionNotificationHTML(req deletion.Request) string {
	return fmt.Sprintf(
		"<p>A customer asked for their account data to be deleted.</p>"+
			"<ul><li>Contact: %s</li><li>Store: %s</li><li>Received: %s</li></ul><p>%s</p>",
		html.EscapeString(req.Contact),
		html.EscapeString(req.StoreName),
		req.ReceivedAt.Format(time.RFC3339),
		html.EscapeString(req.Message),
	)
}
