package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"posme/internal/application/orchestrators"
	"posme/internal/domain/deletion"
)

// deletionRequestBody is the JSON payload of the public deletion endpoint.
// The honeypot field is rendered as a hidden input named "honeypot" that
// real users never fill in.
type deletionRequestBody struct {
	Contact   string `json:"contact"`
	StoreName string `json:"storeName"`
	Message   string `json:"message"`
	Honeypot  string `json:"honeypot"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleDeletionRequest accepts an account-deletion request from the public
// form. Validation failures return 400 with a user-readable error; anything
// unexpected returns a generic 500 without internal detail.
func handleDeletionRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var body deletionRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid request",
		})
		return
	}

	input := orchestrators.RequestDeletionInput{
		Contact:   body.Contact,
		StoreName: body.StoreName,
		Message:   body.Message,
		Honeypot:  body.Honeypot,
		IPAddress: clientIP(r),
	}
	deps := orchestrators.RequestDeletionDeps{
		Requests:     stores.DeletionStore,
		Email:        emailSender,
		SupportEmail: supportEmailAddress,
		FromEmail:    emailFromAddress,
		GenerateID:   generateID,
		Now:          timeNow,
	}

	_, err := orchestrators.ExecuteRequestDeletion(r.Context(), input, deps)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Your request has been received. We will be in touch within 30 days.",
		})
	case errors.Is(err, deletion.ErrHoneypot),
		errors.Is(err, deletion.ErrMissingFields),
		errors.Is(err, deletion.ErrInvalidContact):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	default:
		slog.Error("deletion_event", "event", "request_failed", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "something went wrong, please try again or contact support",
		})
	}
}
