package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"posme/internal/adapters/http/middleware"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// decodeJSON decodes JSON from the request body. Unknown fields are ignored
// so older clients with extra payload keys keep working.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// clientIP extracts the originating client address, honouring the proxy header.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	return r.RemoteAddr
}

// templatesDir and policyDir are relative to the server's working directory.
// Variables so tests can point them at the package-relative copies.
var (
	templatesDir = "internal/adapters/http/templates"
	policyDir    = "content/policy"
)

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	email := ""
	branch := ""
	if ok && sess.IsAuthenticated() {
		email = sess.User.Email
		branch = sess.User.Branch
	}

	funcMap := template.FuncMap{
		"currentEmail":  func() string { return email },
		"currentBranch": func() string { return branch },
		"isLoggedIn":    func() bool { return email != "" },
		"csrfToken":     func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// handleHome serves the marketing landing page.
func handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	renderTemplate(w, r, "home.html", map[string]any{
		"Title": "POS ME — loyalty points for your store",
	})
}

// policyTitles maps policy slugs to page titles. Slugs outside this map 404.
var policyTitles = map[string]string{
	"pos-me":    "POS ME Privacy Policy",
	"points-me": "Points ME Privacy Policy",
}

// handlePolicy serves a markdown policy document under /policy/<slug>.
func handlePolicy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	slug := strings.TrimPrefix(r.URL.Path, "/policy/")
	title, ok := policyTitles[slug]
	if !ok {
		http.NotFound(w, r)
		return
	}
	md, err := os.ReadFile(filepath.Join(policyDir, slug+".md"))
	if err != nil {
		internalError(w, fmt.Errorf("read policy %s: %w", slug, err))
		return
	}
	renderTemplate(w, r, "policy.html", map[string]any{
		"Title":    title,
		"Markdown": string(md),
	})
}

// handleAccountDeletionPage serves the account deletion request form.
func handleAccountDeletionPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	renderTemplate(w, r, "account_deletion.html", map[string]any{
		"Title": "Delete your account data",
	})
}

func handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "User-agent: *\nDisallow: /backoffice\nDisallow: /api/\nSitemap: /sitemap.xml\n")
}

// sitemapPaths lists the public pages, in the order they appear in the sitemap.
var sitemapPaths = []string{"/", "/policy/pos-me", "/policy/points-me", "/account-deletion"}

func handleSitemap(w http.ResponseWriter, r *http.Request) {
	base := "https://" + r.Host
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprint(w, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`+"\n")
	for _, p := range sitemapPaths {
		fmt.Fprintf(w, "  <url><loc>%s%s</loc></url>\n", base, p)
	}
	fmt.Fprint(w, "</urlset>\n")
}
