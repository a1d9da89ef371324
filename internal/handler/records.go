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

type RecordHandler struct {
	registry   *registrar.Registry
	records    *registrar.RecordSet
	sessionMgr *auth.SessionManager
	db         *database.DB
	tmpl       *template.Template
}

func NewRecordHandler(registry *registrar.Registry, records *registrar.RecordSet, sm *auth.SessionManager, db *database.DB, tmpl *template.Template) *RecordHandler {
	return &RecordHandler{registry: registry, records: records, sessionMgr: sm, db: db, tmpl: tmpl}
}

func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	username, csrfToken, _ := h.sessionMgr.GetSessionInfo(r)
	user := h.sessionMgr.CurrentUser(r)
	domainID, _ := strconv.ParseInt(r.PathValue("domainID"), 10, 64)

	domain, err := h.registry.Get(r.Context(), requesterOf(user), domainID)
	if err != nil {
		flashRedirect(w, r, "/domains", "Error: "+err.Error())
		return
	}

	records, err := h.records.List(r.Context(), requesterOf(user), domainID)
	if err != nil {
		h.tmpl.ExecuteTemplate(w, "layout", map[string]interface{}{
			"Title":     domain.Name,
			"Username":  username,
			"CSRFToken": csrfToken,
			"Role":      roleOf(user),
			"Domain":    domain,
			"Error":     "Failed to load records: " + err.Error(),
		})
		return
	}

	h.tmpl.ExecuteTemplate(w, "layout", map[string]interface{}{
		"Title":       domain.Name,
		"Username":    username,
		"CSRFToken":   csrfToken,
		"Role":        roleOf(user),
		"Domain":      domain,
		"Records":     records,
		"RecordTypes": registrar.RecordTypes,
		"Flash":       r.URL.Query().Get("msg"),
	})
}

func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, _ := h.sessionMgr.GetUsername(r)
	user := h.sessionMgr.CurrentUser(r)
	domainID, _ := strconv.ParseInt(r.PathValue("domainID"), 10, 64)
	_ = r.ParseForm()

	rec := model.DNSRecord{
		Name:     r.FormValue("name"),
		Type:     r.FormValue("type"),
		Content:  r.FormValue("content"),
		TTL:      parseIntField(r.FormValue("ttl"), 0),
		Priority: parseIntField(r.FormValue("priority"), 0),
	}

	msg := "Record created"
	created, err := h.records.Add(r.Context(), requesterOf(user), domainID, rec)
	if err != nil {
		msg = "Error: " + err.Error()
	} else {
		_ = h.db.LogAudit(r.Context(), &model.AuditEntry{
			Username:   username,
			Action:     "create_record",
			DomainID:   domainID,
			RecordName: created.Name,
			RecordType: created.Type,
			Detail:     fmt.Sprintf("content=%s ttl=%d", created.Content, created.TTL),
			IPAddress:  util.GetClientIP(r),
		})
	}

	flashRedirect(w, r, fmt.Sprintf("/domains/%d/records", domainID), msg)
}

func (h *RecordHandler) Edit(w http.ResponseWriter, r *http.Request) {
	username, _ := h.sessionMgr.GetUsername(r)
	user := h.sessionMgr.CurrentUser(r)
	domainID, _ := strconv.ParseInt(r.PathValue("domainID"), 10, 64)
	recordID, _ := strconv.ParseInt(r.FormValue("record_id"), 10, 64)
	_ = r.ParseForm()

	name := r.FormValue("name")
	rtype := r.FormValue("type")
	content := r.FormValue("content")
	ttl := parseIntField(r.FormValue("ttl"), 0)
	priority := parseIntField(r.FormValue("priority"), 0)
	disabled := r.FormValue("disabled") == "on"

	patch := registrar.RecordPatch{
		Name:     &name,
		Type:     &rtype,
		Content:  &content,
		TTL:      &ttl,
		Priority: &priority,
		Disabled: &disabled,
	}

	msg := "Record updated"
	updated, err := h.records.Update(r.Context(), requesterOf(user), recordID, patch)
	if err != nil {
		msg = "Error: " + err.Error()
	} else {
		_ = h.db.LogAudit(r.Context(), &model.AuditEntry{
			Username:   username,
			Action:     "edit_record",
			DomainID:   domainID,
			RecordName: updated.Name,
			RecordType: updated.Type,
			Detail:     fmt.Sprintf("content=%s ttl=%d disabled=%t", updated.Content, updated.TTL, updated.Disabled),
			IPAddress:  util.GetClientIP(r),
		})
	}

	flashRedirect(w, r, fmt.Sprintf("/domains/%d/records", domainID), msg)
}

func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username, _ := h.sessionMgr.GetUsername(r)
	user := h.sessionMgr.CurrentUser(r)
	domainID, _ := strconv.ParseInt(r.PathValue("domainID"), 10, 64)
	_ = r.ParseForm()
	recordID, _ := strconv.ParseInt(r.FormValue("record_id"), 10, 64)

	msg := "Record deleted"
	if err := h.records.Delete(r.Context(), requesterOf(user), recordID); err != nil {
		msg = "Error: " + err.Error()
	} else {
		_ = h.db.LogAudit(r.Context(), &model.AuditEntry{
			Username:   username,
			Action:     "delete_record",
			DomainID:   domainID,
			RecordName: r.FormValue("name"),
			RecordType: r.FormValue("type"),
			IPAddress:  util.GetClientIP(r),
		})
	}

	flashRedirect(w, r, fmt.Sprintf("/domains/%d/records", domainID), msg)
}

func parseIntField(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
