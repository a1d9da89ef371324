package server

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"lanreg/internal/auth"
	"lanreg/internal/config"
	"lanreg/internal/database"
	"lanreg/internal/handler"
	"lanreg/internal/httpapi"
	"lanreg/internal/registrar"
	"lanreg/internal/whois"
	"lanreg/web"
)

func mustParseTemplates(fsys fs.FS, funcMap template.FuncMap, files ...string) *template.Template {
	tmpl := template.New("").Funcs(funcMap)
	tmpl, err := tmpl.ParseFS(fsys, files...)
	if err != nil {
		logrus.Fatalf("Failed to parse templates %v: %v", files, err)
	}
	return tmpl
}

func Start(cfg *config.Config, version string) error {
	db, err := database.Open(cfg.Database.DSN, web.MigrationsFS())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	sessionMgr, err := auth.NewSessionManager(db)
	if err != nil {
		return fmt.Errorf("failed to init session manager: %w", err)
	}

	_ = db.DeleteExpiredSessions(context.Background())

	jwtSecret, err := db.EnsureSecret("jwt_secret")
	if err != nil {
		return fmt.Errorf("failed to load jwt secret: %w", err)
	}
	tokens := auth.NewTokenService(jwtSecret)

	settings := registrar.NewSettings(db)
	accounts := registrar.NewAccounts(db)
	registry := registrar.NewRegistry(db, db, db)
	records := registrar.NewRecordSet(db, db, db)
	whoisLookup := registrar.NewWhois(db, db, settings)

	tmplFS := web.TemplateFS()

	funcMap := template.FuncMap{
		"add":        func(a, b int) int { return a + b },
		"subtract":   func(a, b int) int { return a - b },
		"version":    func() string { return version },
		"formatDate": func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
		"formatDay":  func(t time.Time) string { return t.Format("2006-01-02") },
	}

	loginTmpl := mustParseTemplates(tmplFS, funcMap, "templates/login.html")
	setupTmpl := mustParseTemplates(tmplFS, funcMap, "templates/setup.html")
	domainsTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/domains.html")
	recordsTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/records.html")
	registrantTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/registrant.html")
	whoisTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/whois.html")
	adminUsersTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/admin_users.html")
	adminConfigTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/admin_config.html")
	adminAuditTmpl := mustParseTemplates(tmplFS, funcMap, "templates/layout.html", "templates/admin_audit.html")

	// LDAP client is nil when disabled
	var ldapClient *auth.LDAPClient
	if cfg.LDAP.Enabled {
		ldapClient = auth.NewLDAPClient(cfg.LDAP)
		logrus.Info("LDAP authentication enabled")
		logrus.WithField("url", cfg.LDAP.URL).Info("LDAP server configured")
		logrus.WithField("roles", len(cfg.LDAP.GroupMapping)).Info("LDAP groups mapped")
	}

	setupH := handler.NewSetupHandler(db, accounts, setupTmpl)
	authH := handler.NewAuthHandler(db, accounts, sessionMgr, ldapClient, loginTmpl)
	domainH := handler.NewDomainHandler(registry, sessionMgr, db, domainsTmpl)
	registrantH := handler.NewDomainHandler(registry, sessionMgr, db, registrantTmpl)
	recH := handler.NewRecordHandler(registry, records, sessionMgr, db, recordsTmpl)
	whoisH := handler.NewWhoisHandler(whoisLookup, sessionMgr, whoisTmpl)
	adminH := handler.NewAdminHandler(db, accounts, settings, sessionMgr, adminUsersTmpl)
	adminConfigH := handler.NewAdminHandler(db, accounts, settings, sessionMgr, adminConfigTmpl)
	adminAuditH := handler.NewAdminHandler(db, accounts, settings, sessionMgr, adminAuditTmpl)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /setup", setupH.SetupPage)
	mux.HandleFunc("POST /setup", setupH.SetupSubmit)

	mux.Handle("GET /static/", web.StaticHandler())

	api := httpapi.New(registry, records, accounts, settings, whoisLookup, tokens, db)
	api.Register(mux)

	mux.HandleFunc("GET /whois/raw", whoisH.Raw)

	appMux := http.NewServeMux()

	appMux.HandleFunc("GET /login", authH.LoginPage)
	appMux.HandleFunc("POST /login", authH.LoginSubmit)
	appMux.HandleFunc("POST /logout", authH.Logout)

	appMux.HandleFunc("GET /domains", sessionMgr.RequireAuth(domainH.List))
	appMux.HandleFunc("POST /domains/create", sessionMgr.RequireAuth(sessionMgr.ValidateCSRF(domainH.Create)))
	appMux.HandleFunc("POST /domains/{domainID}/delete", sessionMgr.RequireAuth(sessionMgr.ValidateCSRF(domainH.Delete)))
	appMux.HandleFunc("GET /domains/{domainID}/registrant", sessionMgr.RequireAuth(registrantH.RegistrantPage))
	appMux.HandleFunc("POST /domains/{domainID}/registrant", sessionMgr.RequireAuth(sessionMgr.ValidateCSRF(registrantH.RegistrantSubmit)))

	appMux.HandleFunc("GET /domains/{domainID}/records", sessionMgr.RequireAuth(recH.List))
	appMux.HandleFunc("POST /domains/{domainID}/records/create", sessionMgr.RequireAuth(sessionMgr.ValidateCSRF(recH.Create)))
	appMux.HandleFunc("POST /domains/{domainID}/records/edit", sessionMgr.RequireAuth(sessionMgr.ValidateCSRF(recH.Edit)))
	appMux.HandleFunc("POST /domains/{domainID}/records/delete", sessionMgr.RequireAuth(sessionMgr.ValidateCSRF(recH.Delete)))

	appMux.HandleFunc("GET /whois", sessionMgr.RequireAuth(whoisH.Page))

	appMux.HandleFunc("GET /admin/users", sessionMgr.RequireAdmin(adminH.ListUsers))
	appMux.HandleFunc("POST /admin/users/create", sessionMgr.RequireAdmin(sessionMgr.ValidateCSRF(adminH.CreateUser)))
	appMux.HandleFunc("POST /admin/users/delete", sessionMgr.RequireAdmin(sessionMgr.ValidateCSRF(adminH.DeleteUser)))
	appMux.HandleFunc("GET /admin/config", sessionMgr.RequireAdmin(adminConfigH.ConfigPage))
	appMux.HandleFunc("POST /admin/config", sessionMgr.RequireAdmin(sessionMgr.ValidateCSRF(adminConfigH.ConfigSubmit)))
	appMux.HandleFunc("GET /admin/audit", sessionMgr.RequireAdmin(adminAuditH.AuditLog))

	appMux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/domains", http.StatusSeeOther)
	})

	mux.Handle("/", handler.RequireSetupComplete(db, appMux))

	if cfg.Whois.Enabled {
		whoisSrv := whois.NewServer(whoisLookup, time.Duration(cfg.Whois.CacheTTL)*time.Second)
		go func() {
			if err := whoisSrv.ListenAndServe(context.Background(), cfg.Whois.Listen); err != nil {
				logrus.WithError(err).Error("WHOIS server stopped")
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logrus.WithField("addr", addr).Info("lanreg server starting")
	return http.ListenAndServe(addr, mux)
}
