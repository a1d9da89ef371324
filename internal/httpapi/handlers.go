package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"lanreg/internal/model"
	"lanreg/internal/registrar"
	"lanreg/internal/util"
)

func pathID(r *http.Request, key string) int64 {
	id, _ := strconv.ParseInt(r.PathValue(key), 10, 64)
	return id
}

func (api *API) audit(r *http.Request, username, action string, entry model.AuditEntry) {
	entry.Username = username
	entry.Action = action
	entry.IPAddress = util.GetClientIP(r)
	_ = api.auditLog.LogAudit(r.Context(), &entry)
}

func (api *API) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &creds) {
		return
	}

	user, err := api.accounts.Authenticate(r.Context(), creds.Username, creds.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if user == nil {
		logrus.WithField("username", creds.Username).Warn("API login rejected")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := api.tokens.Issue(user)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	api.audit(r, user.Username, "api_login", model.AuditEntry{})
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (api *API) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &creds) {
		return
	}

	user, err := api.accounts.Register(r.Context(), creds.Username, creds.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	api.audit(r, user.Username, "api_register", model.AuditEntry{})
	writeJSON(w, http.StatusCreated, user)
}

func (api *API) WhoisLookup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	resolved, err := api.whois.Lookup(r.Context(), name)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resolved)
	case registrar.IsNotFound(err) || registrar.IsValidation(err):
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, registrar.FormatNotFound(name, time.Now()))
	default:
		writeDomainError(w, err)
	}
}

func (api *API) ListDomains(w http.ResponseWriter, r *http.Request, req registrar.Requester, _ string) {
	domains, err := api.registry.List(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domains)
}

func (api *API) CreateDomain(w http.ResponseWriter, r *http.Request, req registrar.Requester, username string) {
	var in struct {
		Name    string `json:"name"`
		OwnerID int64  `json:"owner_id"`
	}
	if !decodeBody(w, r, &in) {
		return
	}

	d, err := api.registry.Create(r.Context(), req, in.Name, in.OwnerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	api.audit(r, username, "create_domain", model.AuditEntry{DomainID: d.ID, DomainName: d.Name})
	writeJSON(w, http.StatusCreated, d)
}

func (api *API) GetDomain(w http.ResponseWriter, r *http.Request, req registrar.Requester, _ string) {
	d, err := api.registry.Get(r.Context(), req, pathID(r, "domainID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (api *API) DeleteDomain(w http.ResponseWriter, r *http.Request, req registrar.Requester, username string) {
	id := pathID(r, "domainID")
	d, _ := api.registry.Get(r.Context(), req, id)
	if err := api.registry.Delete(r.Context(), req, id); err != nil {
		writeDomainError(w, err)
		return
	}
	entry := model.AuditEntry{DomainID: id}
	if d != nil {
		entry.DomainName = d.Name
	}
	api.audit(r, username, "delete_domain", entry)
	w.WriteHeader(http.StatusNoContent)
}

func (api *API) UpdateRegistrant(w http.ResponseWriter, r *http.Request, req registrar.Requester, username string) {
	var patch registrar.RegistrantPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	d, err := api.registry.UpdateRegistrant(r.Context(), req, pathID(r, "domainID"), patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	api.audit(r, username, "update_registrant", model.AuditEntry{DomainID: d.ID, DomainName: d.Name})
	writeJSON(w, http.StatusOK, d)
}

func (api *API) ListRecords(w http.ResponseWriter, r *http.Request, req registrar.Requester, _ string) {
	records, err := api.records.List(r.Context(), req, pathID(r, "domainID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (api *API) CreateRecord(w http.ResponseWriter, r *http.Request, req registrar.Requester, username string) {
	var rec model.DNSRecord
	if !decodeBody(w, r, &rec) {
		return
	}

	created, err := api.records.Add(r.Context(), req, pathID(r, "domainID"), rec)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	api.audit(r, username, "create_record", model.AuditEntry{
		DomainID:   created.DomainID,
		RecordName: created.Name,
		RecordType: created.Type,
	})
	writeJSON(w, http.StatusCreated, created)
}

func (api *API) UpdateRecord(w http.ResponseWriter, r *http.Request, req registrar.Requester, username string) {
	var patch registrar.RecordPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	updated, err := api.records.Update(r.Context(), req, pathID(r, "recordID"), patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	api.audit(r, username, "edit_record", model.AuditEntry{
		DomainID:   updated.DomainID,
		RecordName: updated.Name,
		RecordType: updated.Type,
	})
	writeJSON(w, http.StatusOK, updated)
}

func (api *API) DeleteRecord(w http.ResponseWriter, r *http.Request, req registrar.Requester, username string) {
	id := pathID(r, "recordID")
	if err := api.records.Delete(r.Context(), req, id); err != nil {
		writeDomainError(w, err)
		return
	}
	api.audit(r, username, "delete_record", model.AuditEntry{Detail: fmt.Sprintf("record_id=%d", id)})
	w.WriteHeader(http.StatusNoContent)
}

func (api *API) ListUsers(w http.ResponseWriter, r *http.Request, req registrar.Requester, _ string) {
	users, err := api.accounts.List(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (api *API) CreateUser(w http.ResponseWriter, r *http.Request, req registrar.Requester, username string) {
	var in registrar.CreateUserInput
	if !decodeBody(w, r, &in) {
		return
	}

	created, err := api.accounts.Create(r.Context(), req, in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	api.audit(r, username, "create_user", model.AuditEntry{
		Detail: fmt.Sprintf("created user=%s role=%s", created.Username, created.Role),
	})
	writeJSON(w, http.StatusCreated, created)
}

func (api *API) GetUser(w http.ResponseWriter, r *http.Request, req registrar.Requester, _ string) {
	u, err := api.accounts.Get(r.Context(), req, pathID(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (api *API) UpdateUser(w http.ResponseWriter, r *http.Request, req registrar.Requester, username string) {
	var patch registrar.UserPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	updated, err := api.accounts.Update(r.Context(), req, pathID(r, "userID"), patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	api.audit(r, username, "update_user", model.AuditEntry{
		Detail: fmt.Sprintf("updated user=%s", updated.Username),
	})
	writeJSON(w, http.StatusOK, updated)
}

func (api *API) DeleteUser(w http.ResponseWriter, r *http.Request, req registrar.Requester, username string) {
	id := pathID(r, "userID")
	if err := api.accounts.Delete(r.Context(), req, id); err != nil {
		writeDomainError(w, err)
		return
	}
	api.audit(r, username, "delete_user", model.AuditEntry{Detail: fmt.Sprintf("deleted user_id=%d", id)})
	w.WriteHeader(http.StatusNoContent)
}

func (api *API) GetConfig(w http.ResponseWriter, r *http.Request, req registrar.Requester, _ string) {
	cfg, err := api.settings.Get(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (api *API) UpdateConfig(w http.ResponseWriter, r *http.Request, req registrar.Requester, username string) {
	var cfg model.RegistrarConfig
	if !decodeBody(w, r, &cfg) {
		return
	}

	saved, err := api.settings.Update(r.Context(), req, cfg)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	api.audit(r, username, "update_config", model.AuditEntry{})
	writeJSON(w, http.StatusOK, saved)
}
