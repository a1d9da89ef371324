package handler

import (
	"html/template"
	"net/http"

	"lanreg/internal/database"
	"lanreg/internal/registrar"
)

type SetupHandler struct {
	db       *database.DB
	accounts *registrar.Accounts
	tmpl     *template.Template
}

func NewSetupHandler(db *database.DB, accounts *registrar.Accounts, tmpl *template.Template) *SetupHandler {
	return &SetupHandler{db: db, accounts: accounts, tmpl: tmpl}
}

func (h *SetupHandler) SetupPage(w http.ResponseWriter, r *http.Request) {
	hasUsers, _ := h.db.HasUsers()
	if hasUsers {
		http.NotFound(w, r)
		return
	}
	h.tmpl.ExecuteTemplate(w, "setup.html", nil)
}

func (h *SetupHandler) SetupSubmit(w http.ResponseWriter, r *http.Request) {
	hasUsers, _ := h.db.HasUsers()
	if hasUsers {
		http.NotFound(w, r)
		return
	}

	_ = r.ParseForm()
	username := r.FormValue("username")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	if password != confirm {
		h.renderError(w, "Passwords do not match")
		return
	}

	if _, err := h.accounts.Bootstrap(r.Context(), username, password); err != nil {
		h.renderError(w, "Failed to create admin: "+err.Error())
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *SetupHandler) renderError(w http.ResponseWriter, msg string) {
	h.tmpl.ExecuteTemplate(w, "setup.html", map[string]string{"Error": msg})
}

func RequireSetupComplete(db *database.DB, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasUsers, _ := db.HasUsers()
		if !hasUsers {
			http.Redirect(w, r, "/setup", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
