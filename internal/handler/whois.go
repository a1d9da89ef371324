package handler

import (
	"html/template"
	"io"
	"net/http"
	"time"

	"lanreg/internal/auth"
	"lanreg/internal/registrar"
)

type WhoisHandler struct {
	whois      *registrar.Whois
	sessionMgr *auth.SessionManager
	tmpl       *template.Template
}

func NewWhoisHandler(whois *registrar.Whois, sm *auth.SessionManager, tmpl *template.Template) *WhoisHandler {
	return &WhoisHandler{whois: whois, sessionMgr: sm, tmpl: tmpl}
}

// Page renders the lookup form, with the resolved text below it when a
// domain was queried.
func (h *WhoisHandler) Page(w http.ResponseWriter, r *http.Request) {
	username, csrfToken, _ := h.sessionMgr.GetSessionInfo(r)
	user := h.sessionMgr.CurrentUser(r)

	data := map[string]interface{}{
		"Title":     "WHOIS Lookup",
		"Username":  username,
		"CSRFToken": csrfToken,
		"Role":      roleOf(user),
	}

	query := r.URL.Query().Get("domain")
	if query != "" {
		data["Query"] = query
		resolved, err := h.whois.Lookup(r.Context(), query)
		switch {
		case err == nil:
			data["Result"] = registrar.FormatText(*resolved, time.Now())
		case registrar.IsNotFound(err) || registrar.IsValidation(err):
			data["Result"] = registrar.FormatNotFound(query, time.Now())
		default:
			data["Error"] = "Lookup failed: " + err.Error()
		}
	}

	h.tmpl.ExecuteTemplate(w, "layout", data)
}

// Raw serves the plain-text WHOIS body over HTTP so LAN tools without a
// port 43 client can query it.
func (h *WhoisHandler) Raw(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("domain")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	resolved, err := h.whois.Lookup(r.Context(), query)
	switch {
	case err == nil:
		io.WriteString(w, registrar.FormatText(*resolved, time.Now()))
	case registrar.IsNotFound(err) || registrar.IsValidation(err):
		io.WriteString(w, registrar.FormatNotFound(query, time.Now()))
	default:
		http.Error(w, "lookup failed", http.StatusInternalServerError)
	}
}
