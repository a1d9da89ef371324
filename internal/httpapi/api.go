package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"lanreg/internal/auth"
	"lanreg/internal/model"
	"lanreg/internal/registrar"
)

// AuditLogger records mutation audit entries. Satisfied by database.DB.
type AuditLogger interface {
	LogAudit(ctx context.Context, e *model.AuditEntry) error
}

// API is the JWT-protected JSON surface. It mirrors the web UI
// operations one to one and shares the same core services, so the two
// transports cannot drift apart on authorization or validation.
type API struct {
	registry *registrar.Registry
	records  *registrar.RecordSet
	accounts *registrar.Accounts
	settings *registrar.Settings
	whois    *registrar.Whois
	tokens   *auth.TokenService
	auditLog AuditLogger
}

func New(registry *registrar.Registry, records *registrar.RecordSet, accounts *registrar.Accounts,
	settings *registrar.Settings, whois *registrar.Whois, tokens *auth.TokenService, auditLog AuditLogger) *API {
	return &API{
		registry: registry,
		records:  records,
		accounts: accounts,
		settings: settings,
		whois:    whois,
		tokens:   tokens,
		auditLog: auditLog,
	}
}

// Register mounts all API routes on the mux.
func (api *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", api.Login)
	mux.HandleFunc("POST /api/register", api.RegisterUser)

	mux.HandleFunc("GET /api/whois/{name}", api.WhoisLookup)

	mux.HandleFunc("GET /api/domains", api.withToken(api.ListDomains))
	mux.HandleFunc("POST /api/domains", api.withToken(api.CreateDomain))
	mux.HandleFunc("GET /api/domains/{domainID}", api.withToken(api.GetDomain))
	mux.HandleFunc("DELETE /api/domains/{domainID}", api.withToken(api.DeleteDomain))
	mux.HandleFunc("PATCH /api/domains/{domainID}/registrant", api.withToken(api.UpdateRegistrant))

	mux.HandleFunc("GET /api/domains/{domainID}/records", api.withToken(api.ListRecords))
	mux.HandleFunc("POST /api/domains/{domainID}/records", api.withToken(api.CreateRecord))
	mux.HandleFunc("PATCH /api/records/{recordID}", api.withToken(api.UpdateRecord))
	mux.HandleFunc("DELETE /api/records/{recordID}", api.withToken(api.DeleteRecord))

	mux.HandleFunc("GET /api/users", api.withToken(api.ListUsers))
	mux.HandleFunc("POST /api/users", api.withToken(api.CreateUser))
	mux.HandleFunc("GET /api/users/{userID}", api.withToken(api.GetUser))
	mux.HandleFunc("PATCH /api/users/{userID}", api.withToken(api.UpdateUser))
	mux.HandleFunc("DELETE /api/users/{userID}", api.withToken(api.DeleteUser))

	mux.HandleFunc("GET /api/config", api.withToken(api.GetConfig))
	mux.HandleFunc("PUT /api/config", api.withToken(api.UpdateConfig))
}

type tokenHandler func(w http.ResponseWriter, r *http.Request, req registrar.Requester, username string)

// withToken verifies the bearer token and passes the resulting
// requester identity to the handler.
func (api *API) withToken(next tokenHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := api.tokens.Verify(bearerToken(r))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next(w, r, registrar.Requester{UserID: claims.UserID, Role: claims.Role}, claims.Username)
	}
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("Failed to encode API response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the core error taxonomy onto HTTP statuses.
// Anything untyped is an infrastructure failure and stays opaque.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case registrar.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case registrar.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error())
	case registrar.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case registrar.IsForbidden(err):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		logrus.WithError(err).Error("API request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
