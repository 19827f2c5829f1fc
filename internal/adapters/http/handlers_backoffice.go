package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"posme/internal/adapters/http/middleware"
	"posme/internal/adapters/posapi"
	"posme/internal/application/orchestrators"
	"posme/internal/application/projections"
	"posme/internal/domain/points"
	"posme/internal/session"
)

// handleAuthError purges the session and redirects to login when the backend
// rejected the token. Returns true when the response has been written.
func handleAuthError(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, posapi.ErrUnauthorized) {
		return false
	}
	if clearErr := sessions.Clear(r.Context(), w, r); clearErr != nil {
		slog.Error("auth_event", "event", "purge_failed", "error", clearErr.Error())
	}
	slog.Info("auth_event", "event", "session_expired")
	http.Redirect(w, r, "/backoffice/login", http.StatusSeeOther)
	return true
}

// apiErrorMessage extracts a user-presentable message from a backend error.
func apiErrorMessage(err error) string {
	var apiErr *posapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return "the POS service is unavailable, please try again"
}

func formInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(name)))
	if err != nil {
		return 0
	}
	return n
}

func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}

// handleBackofficeLogin handles both the login form and its submission.
func handleBackofficeLogin(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if sess.Status == session.StatusAuthenticated {
		http.Redirect(w, r, "/backoffice", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		renderTemplate(w, r, "backoffice_login.html", map[string]any{"Title": "Staff login"})
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.LoginInput{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{API: api})
	if err != nil {
		msg := "Login failed. Check your email and password."
		var apiErr *posapi.APIError
		switch {
		case errors.Is(err, orchestrators.ErrMissingCredentials):
			msg = err.Error()
		case errors.As(err, &apiErr) && apiErr.Message != "":
			msg = apiErr.Message
		case !errors.Is(err, posapi.ErrLoginFailed):
			msg = apiErrorMessage(err)
		}
		renderTemplate(w, r, "backoffice_login.html", map[string]any{
			"Title": "Staff login",
			"Email": input.Email,
			"Error": msg,
		})
		return
	}

	if err := sessions.Write(r.Context(), w, r, result.Token, result.User); err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/backoffice", http.StatusSeeOther)
}

// handleBackofficeLogout ends the session. Token revocation at the backend is
// best-effort; the local session always ends.
func handleBackofficeLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	orchestrators.ExecuteLogout(r.Context(), orchestrators.LogoutInput{
		Token: sess.Token,
		Email: sess.User.Email,
	}, orchestrators.LogoutDeps{API: api})

	if err := sessions.Clear(r.Context(), w, r); err != nil {
		slog.Error("auth_event", "event", "purge_failed", "error", err.Error())
	}
	http.Redirect(w, r, "/backoffice/login", http.StatusSeeOther)
}

// handleClearAuth is the recovery page for wedged sessions: it purges both
// stored copies of the auth state without requiring a valid login.
func handleClearAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderTemplate(w, r, "clear_auth.html", map[string]any{"Title": "Clear sign-in data"})
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := sessions.Clear(r.Context(), w, r); err != nil {
		slog.Error("auth_event", "event", "purge_failed", "error", err.Error())
	}
	renderTemplate(w, r, "clear_auth.html", map[string]any{
		"Title":   "Clear sign-in data",
		"Cleared": true,
	})
}

func handleBackofficeHome(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "backoffice_home.html", map[string]any{"Title": "Backoffice"})
}

// handleBackofficeMembers lists members with search and pagination.
func handleBackofficeMembers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	input := projections.MemberListInput{
		Token:  sess.Token,
		Search: strings.TrimSpace(r.URL.Query().Get("q")),
		Page:   queryInt(r, "page"),
	}
	result, err := projections.QueryMemberList(r.Context(), input, projections.MemberListDeps{API: api})
	if err != nil {
		if handleAuthError(w, r, err) {
			return
		}
		renderTemplate(w, r, "backoffice_members.html", map[string]any{
			"Title": "Members",
			"Error": apiErrorMessage(err),
		})
		return
	}

	limit := result.Limit
	if limit < 1 {
		limit = projections.DefaultPageSize
	}
	lastPage := (result.Total + limit - 1) / limit
	renderTemplate(w, r, "backoffice_members.html", map[string]any{
		"Title":   "Members",
		"Members": result.Members,
		"Total":   result.Total,
		"Page":    result.Page,
		"Search":  input.Search,
		"HasPrev": result.Page > 1,
		"HasNext": result.Page < lastPage,
	})
}

// handleBackofficeAddMember registers a new loyalty member.
func handleBackofficeAddMember(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	if r.Method == http.MethodGet {
		renderTemplate(w, r, "backoffice_add_member.html", map[string]any{
			"Title":  "Add member",
			"Branch": sess.User.Branch,
		})
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	input := orchestrators.AddMemberInput{
		Token:                     sess.Token,
		Name:                      strings.TrimSpace(r.FormValue("name")),
		Last4:                     strings.TrimSpace(r.FormValue("last4")),
		Branch:                    sess.User.Branch,
		RegistrationReceiptNumber: strings.TrimSpace(r.FormValue("receipt_number")),
	}

	m, err := orchestrators.ExecuteAddMember(r.Context(), input, orchestrators.AddMemberDeps{API: api})
	if err != nil {
		if handleAuthError(w, r, err) {
			return
		}
		msg := err.Error()
		var apiErr *posapi.APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.Error()
		}
		renderTemplate(w, r, "backoffice_add_member.html", map[string]any{
			"Title":         "Add member",
			"Branch":        sess.User.Branch,
			"Name":          input.Name,
			"Last4":         input.Last4,
			"ReceiptNumber": input.RegistrationReceiptNumber,
			"Error":         msg,
		})
		return
	}

	slog.Info("member_event", "event", "member_registered", "member_id", m.ID)
	http.Redirect(w, r, "/backoffice/members?q="+m.Last4, http.StatusSeeOther)
}

// transactionFormData rebuilds the transaction page model from form values so
// validation failures re-render with the member context intact.
func transactionFormData(r *http.Request, sess session.Session) map[string]any {
	return map[string]any{
		"Title":      "Record transaction",
		"MemberID":   r.FormValue("member_id"),
		"MemberName": r.FormValue("member_name"),
		"Action":     r.FormValue("action"),
		"Receipt":    strings.TrimSpace(r.FormValue("receipt")),
		"Balance10":  formInt(r, "balance_1_0"),
		"Balance15":  formInt(r, "balance_1_5"),
		"Bottles10":  formInt(r, "bottles_1_0"),
		"Bottles15":  formInt(r, "bottles_1_5"),
		"Branch":     sess.User.Branch,
	}
}

// handleBackofficeTransaction records an earn or redeem transaction for a
// member. The member context (id, name, point balances) travels with the form.
func handleBackofficeTransaction(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	if r.Method == http.MethodGet {
		q := r.URL.Query()
		renderTemplate(w, r, "backoffice_transaction.html", map[string]any{
			"Title":      "Record transaction",
			"MemberID":   q.Get("member_id"),
			"MemberName": q.Get("name"),
			"Action":     string(points.ActionEarn),
			"Balance10":  queryInt(r, "balance_1_0"),
			"Balance15":  queryInt(r, "balance_1_5"),
			"Bottles10":  0,
			"Bottles15":  0,
			"Receipt":    "",
			"Branch":     sess.User.Branch,
		})
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	data := transactionFormData(r, sess)

	input := orchestrators.RecordTransactionInput{
		Token:    sess.Token,
		MemberID: r.FormValue("member_id"),
		Action:   points.Action(r.FormValue("action")),
		Balance: points.Balance{
			Points10Liter: formInt(r, "balance_1_0"),
			Points15Liter: formInt(r, "balance_1_5"),
		},
		Receipt: strings.TrimSpace(r.FormValue("receipt")),
		Bottles: map[points.ProductType]int{
			points.Product10Liter: formInt(r, "bottles_1_0"),
			points.Product15Liter: formInt(r, "bottles_1_5"),
		},
	}

	result, err := orchestrators.ExecuteRecordTransaction(r.Context(), input, orchestrators.RecordTransactionDeps{API: api})
	if err != nil {
		if handleAuthError(w, r, err) {
			return
		}
		var insufficient *points.InsufficientPointsError
		switch {
		case errors.As(err, &insufficient):
			data["Error"] = insufficient.Error()
		case errors.Is(err, points.ErrEmptyDraft),
			errors.Is(err, points.ErrMissingReceipt),
			errors.Is(err, points.ErrUnknownAction):
			data["Error"] = err.Error()
		default:
			data["Error"] = apiErrorMessage(err)
		}
		renderTemplate(w, r, "backoffice_transaction.html", data)
		return
	}

	msg := result.Message
	if msg == "" {
		msg = "Transaction recorded."
	}
	renderTemplate(w, r, "backoffice_transaction.html", map[string]any{
		"Title":       "Record transaction",
		"Success":     msg,
		"TotalPoints": result.TotalPoints,
		"Branch":      sess.User.Branch,
		"Action":      string(points.ActionEarn),
	})
}

// handleBackofficeTransactions shows the branch transaction history.
func handleBackofficeTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	input := projections.BranchTransactionsInput{
		Token: sess.Token,
		Page:  queryInt(r, "page"),
	}
	result, err := projections.QueryBranchTransactions(r.Context(), input, projections.BranchTransactionsDeps{API: api})
	if err != nil {
		if handleAuthError(w, r, err) {
			return
		}
		renderTemplate(w, r, "backoffice_transactions.html", map[string]any{
			"Title": "Transactions",
			"Error": apiErrorMessage(err),
		})
		return
	}

	limit := result.Limit
	if limit < 1 {
		limit = projections.DefaultPageSize
	}
	lastPage := (result.Total + limit - 1) / limit
	renderTemplate(w, r, "backoffice_transactions.html", map[string]any{
		"Title":        "Transactions",
		"Transactions": result.Transactions,
		"Total":        result.Total,
		"Page":         result.Page,
		"HasPrev":      result.Page > 1,
		"HasNext":      result.Page < lastPage,
	})
}
