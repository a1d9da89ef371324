package registrar

import (
	"fmt"
	"strings"
	"time"

	"lanreg/internal/model"
)

// NotSet is rendered for WHOIS fields with no override and no profile
// fallback.
const NotSet = "not set"

// ResolvedWhois is the complete public view of one domain: contact
// blocks with all fallbacks applied, plus the registrar-level fields
// copied verbatim from the configuration.
type ResolvedWhois struct {
	DomainName string
	DomainID   int64
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ExpiresAt  time.Time

	Registrant model.Contact
	Admin      model.Contact
	Tech       model.Contact

	RegistrarName     string
	RegistrarURL      string
	RegistrarEmail    string
	RegistrarPhone    string
	RegistrarIANAID   string
	AbuseContactEmail string
	AbuseContactPhone string
	WhoisServer       string
	NameServer1       string
	NameServer2       string
}

// Resolve combines a domain's overrides, its owner's profile and the
// registrar configuration into a single WHOIS view. It is pure and
// deterministic: identical inputs always produce an identical result.
//
// Field precedence: domain override, then owner contact, then NotSet.
// The admin and tech blocks fall back to the resolved registrant block
// before rendering NotSet.
func Resolve(d *model.Domain, owner *model.User, cfg *model.RegistrarConfig) ResolvedWhois {
	var ownerContact model.Contact
	if owner != nil {
		ownerContact = owner.Contact
	}

	registrant := overlayContact(d.Registrant, ownerContact)
	admin := overlayContact(d.Admin, registrant)
	tech := overlayContact(d.Tech, registrant)

	status := d.Status
	if status == "" {
		status = model.DomainActive
	}

	w := ResolvedWhois{
		DomainName: strings.ToLower(d.Name),
		DomainID:   d.ID,
		Status:     status,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
		ExpiresAt:  resolveExpiry(d),
		Registrant: fillNotSet(registrant),
		Admin:      fillNotSet(admin),
		Tech:       fillNotSet(tech),
	}

	if cfg != nil {
		w.RegistrarName = cfg.RegistrarName
		w.RegistrarURL = cfg.RegistrarURL
		w.RegistrarEmail = cfg.RegistrarEmail
		w.RegistrarPhone = cfg.RegistrarPhone
		w.RegistrarIANAID = cfg.RegistrarIANAID
		w.AbuseContactEmail = cfg.AbuseContactEmail
		w.AbuseContactPhone = cfg.AbuseContactPhone
		w.WhoisServer = cfg.WhoisServer
		w.NameServer1 = cfg.NameServer1
		w.NameServer2 = cfg.NameServer2
	}
	return w
}

// resolveExpiry uses the persisted expiry when it is a real calendar
// date. The created_at+1y reconstruction only covers rows written
// before expiry was persisted at creation time.
func resolveExpiry(d *model.Domain) time.Time {
	if !d.ExpiresAt.IsZero() && d.ExpiresAt.Year() >= 1970 {
		return d.ExpiresAt
	}
	return d.CreatedAt.AddDate(1, 0, 0)
}

func overlayContact(primary, fallback model.Contact) model.Contact {
	return model.Contact{
		Name:    pick(primary.Name, fallback.Name),
		Org:     pick(primary.Org, fallback.Org),
		Email:   pick(primary.Email, fallback.Email),
		Phone:   pick(primary.Phone, fallback.Phone),
		Address: pick(primary.Address, fallback.Address),
		City:    pick(primary.City, fallback.City),
		State:   pick(primary.State, fallback.State),
		Zip:     pick(primary.Zip, fallback.Zip),
		Country: pick(primary.Country, fallback.Country),
	}
}

func fillNotSet(c model.Contact) model.Contact {
	return model.Contact{
		Name:    pick(c.Name, NotSet),
		Org:     pick(c.Org, NotSet),
		Email:   pick(c.Email, NotSet),
		Phone:   pick(c.Phone, NotSet),
		Address: pick(c.Address, NotSet),
		City:    pick(c.City, NotSet),
		State:   pick(c.State, NotSet),
		Zip:     pick(c.Zip, NotSet),
		Country: pick(c.Country, NotSet),
	}
}

func pick(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}

// FormatText renders the RFC 3912 response body. The timestamp of the
// trailing database-update line is the caller's clock, so rendering
// stays deterministic for a fixed now.
func FormatText(w ResolvedWhois, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Domain Name: %s\n", strings.ToUpper(w.DomainName))
	fmt.Fprintf(&b, "Registry Domain ID: DOM-%d-LANREG\n", w.DomainID)
	fmt.Fprintf(&b, "Registrar WHOIS Server: %s\n", w.WhoisServer)
	fmt.Fprintf(&b, "Registrar URL: %s\n", w.RegistrarURL)
	fmt.Fprintf(&b, "Updated Date: %s\n", w.UpdatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Creation Date: %s\n", w.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Registry Expiry Date: %s\n", w.ExpiresAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Registrar: %s\n", w.RegistrarName)
	fmt.Fprintf(&b, "Registrar IANA ID: %s\n", w.RegistrarIANAID)
	fmt.Fprintf(&b, "Registrar Abuse Contact Email: %s\n", w.AbuseContactEmail)
	fmt.Fprintf(&b, "Registrar Abuse Contact Phone: %s\n", w.AbuseContactPhone)
	fmt.Fprintf(&b, "Domain Status: %s https://icann.org/epp#%s\n", w.Status, w.Status)

	writeContact(&b, "Registrant", w.DomainID, w.Registrant)
	writeContact(&b, "Admin", w.DomainID, w.Admin)
	writeContact(&b, "Tech", w.DomainID, w.Tech)

	fmt.Fprintf(&b, "\nName Server: %s\n", w.NameServer1)
	fmt.Fprintf(&b, "Name Server: %s\n", w.NameServer2)
	b.WriteString("DNSSEC: unsigned\n")
	fmt.Fprintf(&b, "\n>>> Last update of WHOIS database: %s <<<\n", now.Format(time.RFC3339))
	b.WriteString("\nNOTICE: This registrar serves a private LAN. Registrations have no\nstanding outside the local network.\n")

	return b.String()
}

func writeContact(b *strings.Builder, label string, domainID int64, c model.Contact) {
	fmt.Fprintf(b, "\nRegistry %s ID: C%d-LANREG\n", label, domainID)
	fmt.Fprintf(b, "%s Name: %s\n", label, c.Name)
	fmt.Fprintf(b, "%s Organization: %s\n", label, c.Org)
	fmt.Fprintf(b, "%s Street: %s\n", label, c.Address)
	fmt.Fprintf(b, "%s City: %s\n", label, c.City)
	fmt.Fprintf(b, "%s State/Province: %s\n", label, c.State)
	fmt.Fprintf(b, "%s Postal Code: %s\n", label, c.Zip)
	fmt.Fprintf(b, "%s Country: %s\n", label, c.Country)
	fmt.Fprintf(b, "%s Phone: %s\n", label, c.Phone)
	fmt.Fprintf(b, "%s Email: %s\n", label, c.Email)
}

// FormatNotFound renders the negative response for an unregistered name.
func FormatNotFound(name string, now time.Time) string {
	return fmt.Sprintf("No match for domain %q.\n\n>>> Last update of WHOIS database: %s <<<\n",
		name, now.Format(time.RFC3339))
}
