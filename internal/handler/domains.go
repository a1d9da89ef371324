package handler

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"lanreg/internal/auth"
	"lanreg/internal/database"
	"lanreg/internal/model"
	"lanreg/internal/registrar"
	"lanreg/internal/util"
)

type DomainHandler struct {
	registry   *registrar.Registry
	sessionMgr *auth.SessionManager
	db         *database.DB
	tmpl       *template.Template
}

func NewDomainHandler(registry *registrar.Registry, sm *auth.SessionManager, db *database.DB, tmpl *template.Template) *DomainHandler {
	return &DomainHandler{registry: registry, sessionMgr: sm, db: db, tmpl: tmpl}
}

func (h *DomainHandler) List(w http.ResponseWriter, r *http.Request) {
	username, csrfToken, _ := h.sessionMgr.GetSessionInfo(r)
	user := h.sessionMgr.CurrentUser(r)

	domains, err := h.registry.List(r.Context(), requesterOf(user))
	if err != nil {
		h.tmpl.ExecuteTemplate(w, "layout", map[string]interface{}{
			"Title":     "Domains",
			"Username":  username,
			"CSRFToken": csrfToken,
			"Role":      roleOf(user),
			"Error":     "Failed to load domains: " + err.Error(),
		})
		return
	}

	h.tmpl.ExecuteTemplate(w, "layout", map[string]interface{}{
		"Title":     "Domains",
		"Username":  username,
		"CSRFToken": csrfToken,
		"Role":      roleOf(user),
		"Domains":   domains,
		"Flash":     r.URL.Query().Get("msg"),
	})
}

func (h *DomainHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, _ := h.sessionMgr.GetUsername(r)
	user := h.sessionMgr.CurrentUser(r)
	_ = r.ParseForm()

	name := r.FormValue("name")
	ownerID, _ := strconv.ParseInt(r.FormValue("owner_id"), 10, 64)

	msg := fmt.Sprintf("Domain '%s' registered", strings.ToLower(strings.TrimSpace(name)))
	d, err := h.registry.Create(r.Context(), requesterOf(user), name, ownerID)
	if err != nil {
		msg = "Error: " + err.Error()
	} else {
		_ = h.db.LogAudit(r.Context(), &model.AuditEntry{
			Username:   username,
			Action:     "create_domain",
			DomainID:   d.ID,
			DomainName: d.Name,
			Detail:     fmt.Sprintf("owner_id=%d expires=%s", d.OwnerID, d.ExpiresAt.Format("2006-01-02")),
			IPAddress:  util.GetClientIP(r),
		})
	}

	flashRedirect(w, r, "/domains", msg)
}

func (h *DomainHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username, _ := h.sessionMgr.GetUsername(r)
	user := h.sessionMgr.CurrentUser(r)
	domainID, _ := strconv.ParseInt(r.PathValue("domainID"), 10, 64)
	_ = r.ParseForm()

	domain, _ := h.registry.Get(r.Context(), requesterOf(user), domainID)

	msg := "Domain deleted"
	if err := h.registry.Delete(r.Context(), requesterOf(user), domainID); err != nil {
		msg = "Error: " + err.Error()
	} else if domain != nil {
		_ = h.db.LogAudit(r.Context(), &model.AuditEntry{
			Username:   username,
			Action:     "delete_domain",
			DomainID:   domain.ID,
			DomainName: domain.Name,
			IPAddress:  util.GetClientIP(r),
		})
	}

	flashRedirect(w, r, "/domains", msg)
}

func (h *DomainHandler) RegistrantPage(w http.ResponseWriter, r *http.Request) {
	username, csrfToken, _ := h.sessionMgr.GetSessionInfo(r)
	user := h.sessionMgr.CurrentUser(r)
	domainID, _ := strconv.ParseInt(r.PathValue("domainID"), 10, 64)

	domain, err := h.registry.Get(r.Context(), requesterOf(user), domainID)
	if err != nil {
		flashRedirect(w, r, "/domains", "Error: "+err.Error())
		return
	}

	h.tmpl.ExecuteTemplate(w, "layout", map[string]interface{}{
		"Title":     domain.Name + " contacts",
		"Username":  username,
		"CSRFToken": csrfToken,
		"Role":      roleOf(user),
		"Domain":    domain,
		"Flash":     r.URL.Query().Get("msg"),
	})
}

func (h *DomainHandler) RegistrantSubmit(w http.ResponseWriter, r *http.Request) {
	username, _ := h.sessionMgr.GetUsername(r)
	user := h.sessionMgr.CurrentUser(r)
	domainID, _ := strconv.ParseInt(r.PathValue("domainID"), 10, 64)
	_ = r.ParseForm()

	patch := registrar.RegistrantPatch{
		Registrant: contactPatchFromForm(r, "registrant"),
		Admin:      contactPatchFromForm(r, "admin"),
		Tech:       contactPatchFromForm(r, "tech"),
	}

	msg := "Contacts updated"
	d, err := h.registry.UpdateRegistrant(r.Context(), requesterOf(user), domainID, patch)
	if err != nil {
		msg = "Error: " + err.Error()
	} else {
		_ = h.db.LogAudit(r.Context(), &model.AuditEntry{
			Username:   username,
			Action:     "update_registrant",
			DomainID:   d.ID,
			DomainName: d.Name,
			IPAddress:  util.GetClientIP(r),
		})
	}

	flashRedirect(w, r, fmt.Sprintf("/domains/%d/registrant", domainID), msg)
}

// contactPatchFromForm reads one contact block from prefixed form fields
// (registrant_name, registrant_email, ...). Every field of the form is
// submitted on save, so each present field becomes a set-or-clear value.
func contactPatchFromForm(r *http.Request, prefix string) registrar.ContactPatch {
	field := func(name string) *string {
		if !r.Form.Has(prefix + "_" + name) {
			return nil
		}
		v := r.FormValue(prefix + "_" + name)
		return &v
	}
	return registrar.ContactPatch{
		Name:    field("name"),
		Org:     field("org"),
		Email:   field("email"),
		Phone:   field("phone"),
		Address: field("address"),
		City:    field("city"),
		State:   field("state"),
		Zip:     field("zip"),
		Country: field("country"),
	}
}
