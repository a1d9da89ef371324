package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	DomainActive    = "active"
	DomainSuspended = "suspended"
	DomainExpired   = "expired"
)

// Contact is one WHOIS contact block. Empty fields inherit from the
// next block in the fallback chain when the domain is resolved.
type Contact struct {
	Name    string `json:"name"`
	Org     string `json:"org"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	PassHash   string    `json:"-"`
	Role       string    `json:"role"`
	AuthSource string    `json:"auth_source"` // "local" or "ldap"
	Contact    Contact   `json:"contact"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Domain is a registered name. The three contact blocks are overrides:
// empty registrant fields fall back to the owner's profile contact,
// empty admin/tech fields fall back to the resolved registrant.
type Domain struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	OwnerID    int64     `json:"owner_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ExpiresAt  time.Time `json:"expires_at"` // zero means never persisted
	Registrant Contact   `json:"registrant"`
	Admin      Contact   `json:"admin"`
	Tech       Contact   `json:"tech"`
}

type DNSRecord struct {
	ID        int64     `json:"id"`
	DomainID  int64     `json:"domain_id"`
	Name      string    `json:"name"` // subdomain label, or "@" for the apex
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	TTL       int       `json:"ttl"`
	Priority  int       `json:"priority"` // MX and SRV only
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
}

// RegistrarConfig is the process-wide singleton of registrar-level
// WHOIS fields. It is created with defaults and only ever updated.
type RegistrarConfig struct {
	RegistrarName     string `json:"registrar_name"`
	RegistrarURL      string `json:"registrar_url"`
	RegistrarEmail    string `json:"registrar_email"`
	RegistrarPhone    string `json:"registrar_phone"`
	RegistrarIANAID   string `json:"registrar_iana_id"`
	AbuseContactEmail string `json:"abuse_contact_email"`
	AbuseContactPhone string `json:"abuse_contact_phone"`
	WhoisServer       string `json:"whois_server"`
	NameServer1       string `json:"nameserver1"`
	NameServer2       string `json:"nameserver2"`
	DefaultTTL        int    `json:"default_ttl"`
	DefaultExpiryDays int    `json:"default_expiry_days"`
}

type Session struct {
	Token     string
	CSRFToken string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type AuditEntry struct {
	ID         int64
	Username   string
	Action     string
	DomainID   int64
	DomainName string
	RecordName string
	RecordType string
	Detail     string
	IPAddress  string
	CreatedAt  time.Time
}
