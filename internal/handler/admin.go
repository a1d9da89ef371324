package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"lanreg/internal/auth"
	"lanreg/internal/database"
	"lanreg/internal/model"
	"lanreg/internal/registrar"
	"lanreg/internal/util"
)

type AdminHandler struct {
	db         *database.DB
	accounts   *registrar.Accounts
	settings   *registrar.Settings
	sessionMgr *auth.SessionManager
	tmpl       *template.Template
}

func NewAdminHandler(db *database.DB, accounts *registrar.Accounts, settings *registrar.Settings, sm *auth.SessionManager, tmpl *template.Template) *AdminHandler {
	return &AdminHandler{db: db, accounts: accounts, settings: settings, sessionMgr: sm, tmpl: tmpl}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	username, csrfToken, _ := h.sessionMgr.GetSessionInfo(r)
	user := h.sessionMgr.CurrentUser(r)

	users, err := h.accounts.List(r.Context(), requesterOf(user))
	if err != nil {
		h.tmpl.ExecuteTemplate(w, "layout", map[string]interface{}{
			"Title":     "Users",
			"Username":  username,
			"CSRFToken": csrfToken,
			"Role":      roleOf(user),
			"Error":     "Failed to load users: " + err.Error(),
		})
		return
	}

	h.tmpl.ExecuteTemplate(w, "layout", map[string]interface{}{
		"Title":     "Users",
		"Username":  username,
		"CSRFToken": csrfToken,
		"Role":      roleOf(user),
		"Users":     users,
		"Flash":     r.URL.Query().Get("msg"),
	})
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	username, _ := h.sessionMgr.GetUsername(r)
	user := h.sessionMgr.CurrentUser(r)

	in := registrar.CreateUserInput{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
		Contact: model.Contact{
			Name:  r.FormValue("contact_name"),
			Email: r.FormValue("contact_email"),
		},
	}

	msg := fmt.Sprintf("User '%s' created", in.Username)
	created, err := h.accounts.Create(r.Context(), requesterOf(user), in)
	if err != nil {
		msg = "Error: " + err.Error()
	} else {
		_ = h.db.LogAudit(r.Context(), &model.AuditEntry{
			Username:  username,
			Action:    "create_user",
			Detail:    fmt.Sprintf("created user=%s role=%s", created.Username, created.Role),
			IPAddress: util.GetClientIP(r),
		})
	}

	flashRedirect(w, r, "/admin/users", msg)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	username, _ := h.sessionMgr.GetUsername(r)
	user := h.sessionMgr.CurrentUser(r)
	targetID, _ := strconv.ParseInt(r.FormValue("user_id"), 10, 64)

	msg := "User deleted"
	if err := h.accounts.Delete(r.Context(), requesterOf(user), targetID); err != nil {
		msg = "Error: " + err.Error()
	} else {
		_ = h.db.LogAudit(r.Context(), &model.AuditEntry{
			Username:  username,
			Action:    "delete_user",
			Detail:    fmt.Sprintf("deleted user_id=%d", targetID),
			IPAddress: util.GetClientIP(r),
		})
	}

	flashRedirect(w, r, "/admin/users", msg)
}

func (h *AdminHandler) ConfigPage(w http.ResponseWriter, r *http.Request) {
	username, csrfToken, _ := h.sessionMgr.GetSessionInfo(r)
	user := h.sessionMgr.CurrentUser(r)

	cfg, err := h.settings.Get(r.Context(), requesterOf(user))
	if err != nil {
		flashRedirect(w, r, "/domains", "Error: "+err.Error())
		return
	}

	h.tmpl.ExecuteTemplate(w, "layout", map[string]interface{}{
		"Title":     "Registrar Configuration",
		"Username":  username,
		"CSRFToken": csrfToken,
		"Role":      roleOf(user),
		"Config":    cfg,
		"Flash":     r.URL.Query().Get("msg"),
	})
}

func (h *AdminHandler) ConfigSubmit(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	username, _ := h.sessionMgr.GetUsername(r)
	user := h.sessionMgr.CurrentUser(r)

	cfg := model.RegistrarConfig{
		RegistrarName:     r.FormValue("registrar_name"),
		RegistrarURL:      r.FormValue("registrar_url"),
		RegistrarEmail:    r.FormValue("registrar_email"),
		RegistrarPhone:    r.FormValue("registrar_phone"),
		RegistrarIANAID:   r.FormValue("registrar_iana_id"),
		AbuseContactEmail: r.FormValue("abuse_contact_email"),
		AbuseContactPhone: r.FormValue("abuse_contact_phone"),
		WhoisServer:       r.FormValue("whois_server"),
		NameServer1:       r.FormValue("nameserver1"),
		NameServer2:       r.FormValue("nameserver2"),
		DefaultTTL:        parseIntField(r.FormValue("default_ttl"), 0),
		DefaultExpiryDays: parseIntField(r.FormValue("default_expiry_days"), 0),
	}

	msg := "Configuration saved"
	if _, err := h.settings.Update(r.Context(), requesterOf(user), cfg); err != nil {
		msg = "Error: " + err.Error()
	} else {
		_ = h.db.LogAudit(r.Context(), &model.AuditEntry{
			Username:  username,
			Action:    "update_config",
			IPAddress: util.GetClientIP(r),
		})
	}

	flashRedirect(w, r, "/admin/config", msg)
}

func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	username, csrfToken, _ := h.sessionMgr.GetSessionInfo(r)
	user := h.sessionMgr.CurrentUser(r)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit := 50
	offset := (page - 1) * limit

	entries, total, err := h.db.ListAuditLog(r.Context(), limit, offset)
	if err != nil {
		h.tmpl.ExecuteTemplate(w, "layout", map[string]interface{}{
			"Title":      "Audit Log",
			"Username":   username,
			"CSRFToken":  csrfToken,
			"Role":       roleOf(user),
			"Error":      "Failed to load audit log: " + err.Error(),
			"Page":       1,
			"TotalPages": 0,
			"Total":      0,
		})
		return
	}

	totalPages := (total + limit - 1) / limit

	h.tmpl.ExecuteTemplate(w, "layout", map[string]interface{}{
		"Title":      "Audit Log",
		"Username":   username,
		"CSRFToken":  csrfToken,
		"Role":       roleOf(user),
		"Entries":    entries,
		"Page":       page,
		"TotalPages": totalPages,
		"Total":      total,
	})
}
