package web

import (
	"net/http"

	"posme/internal/adapters/http/middleware"
)

// registerRoutes attaches all application routes to the mux.
func registerRoutes(mux *http.ServeMux) {
	// Marketing site
	mux.HandleFunc("/", handleHome)
	mux.HandleFunc("/policy/", handlePolicy)
	mux.HandleFunc("/account-deletion", handleAccountDeletionPage)
	mux.HandleFunc("/robots.txt", handleRobots)
	mux.HandleFunc("/sitemap.xml", handleSitemap)

	// Public JSON endpoint for the deletion form
	mux.HandleFunc("/api/account-deletion-request", handleDeletionRequest)

	// Backoffice
	mux.HandleFunc("/backoffice/login", handleBackofficeLogin)
	mux.HandleFunc("/backoffice/logout", handleBackofficeLogout)
	mux.HandleFunc("/backoffice/clear-auth", handleClearAuth)
	mux.HandleFunc("/backoffice", middleware.RequireStaff(handleBackofficeHome))
	mux.HandleFunc("/backoffice/members", middleware.RequireStaff(handleBackofficeMembers))
	mux.HandleFunc("/backoffice/members/add", middleware.RequireStaff(handleBackofficeAddMember))
	mux.HandleFunc("/backoffice/members/transaction", middleware.RequireStaff(handleBackofficeTransaction))
	mux.HandleFunc("/backoffice/transactions", middleware.RequireStaff(handleBackofficeTransactions))
}
