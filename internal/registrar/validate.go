package registrar

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"lanreg/internal/model"
)

var validate = validator.New()

// RecordTypes enumerates the supported record types. Adding a type must
// not change validation of the existing ones.
var RecordTypes = []string{"A", "AAAA", "CNAME", "MX", "NS", "TXT", "SRV", "PTR"}

const maxTXTBytes = 255

// ValidateDomainName checks hostname syntax: dot-separated labels of
// 1-63 alphanumeric/hyphen characters, no leading or trailing hyphen,
// and at least one dot.
func ValidateDomainName(name string) error {
	if name == "" {
		return &ValidationError{Entity: "domain", Field: "name", Reason: "must not be empty"}
	}
	if !strings.Contains(name, ".") {
		return &ValidationError{Entity: "domain", Field: "name", Reason: "must contain at least one dot"}
	}
	if !validHostname(name) {
		return &ValidationError{Entity: "domain", Field: "name", Reason: "not a valid hostname"}
	}
	return nil
}

func validHostname(s string) bool {
	s = strings.TrimSuffix(s, ".")
	if s == "" || len(s) > 253 {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if !validLabel(label) {
			return false
		}
	}
	return true
}

// validRecordName is validHostname with service-label underscores
// allowed (_sip._tcp, _dmarc) and no dot requirement.
func validRecordName(s string) bool {
	s = strings.TrimSuffix(s, ".")
	if s == "" || len(s) > 253 {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if !validLabel(strings.TrimPrefix(label, "_")) {
			return false
		}
	}
	return true
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}
	return true
}

// ValidateRecord checks a record's type, per-type content format, TTL
// and priority. It never coerces: bad input always fails with a
// ValidationError naming the offending field.
func ValidateRecord(rec *model.DNSRecord) error {
	if rec.Name == "" {
		return &ValidationError{Entity: "record", Field: "name", Reason: "must not be empty"}
	}
	if rec.Name != "@" && !validRecordName(rec.Name) {
		return &ValidationError{Entity: "record", Field: "name", Reason: "not a valid label sequence"}
	}
	if rec.TTL <= 0 {
		return &ValidationError{Entity: "record", Field: "ttl", Reason: "must be a positive number of seconds"}
	}
	if rec.Priority < 0 {
		return &ValidationError{Entity: "record", Field: "priority", Reason: "must not be negative"}
	}

	switch rec.Type {
	case "A":
		if err := validate.Var(rec.Content, "ipv4"); err != nil {
			return &ValidationError{Entity: "record", Field: "content", Reason: "not a valid IPv4 address"}
		}
	case "AAAA":
		if err := validate.Var(rec.Content, "ipv6"); err != nil {
			return &ValidationError{Entity: "record", Field: "content", Reason: "not a valid IPv6 address"}
		}
	case "CNAME", "NS", "MX", "PTR":
		if !validHostname(rec.Content) {
			return &ValidationError{Entity: "record", Field: "content", Reason: "not a valid hostname"}
		}
	case "TXT":
		if len(rec.Content) > maxTXTBytes {
			return &ValidationError{Entity: "record", Field: "content", Reason: "TXT segment exceeds 255 bytes"}
		}
	case "SRV":
		if err := validateSRV(rec.Content); err != nil {
			return err
		}
	case "":
		return &ValidationError{Entity: "record", Field: "type", Reason: "must not be empty"}
	default:
		return &ValidationError{Entity: "record", Field: "type", Reason: "unsupported record type " + rec.Type}
	}
	return nil
}

// validateSRV expects "priority weight port target" with non-negative
// numeric fields and a hostname target.
func validateSRV(content string) error {
	parts := strings.Fields(content)
	if len(parts) != 4 {
		return &ValidationError{Entity: "record", Field: "content", Reason: "SRV content must be \"priority weight port target\""}
	}
	for _, field := range parts[:3] {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return &ValidationError{Entity: "record", Field: "content", Reason: "SRV numeric fields must be non-negative integers"}
		}
	}
	if !validHostname(parts[3]) {
		return &ValidationError{Entity: "record", Field: "content", Reason: "SRV target is not a valid hostname"}
	}
	return nil
}

// ValidateContact rejects a contact block whose email is present but
// malformed. All fields are otherwise free-form.
func ValidateContact(entity string, c model.Contact) error {
	if c.Email != "" {
		if err := validate.Var(c.Email, "email"); err != nil {
			return &ValidationError{Entity: entity, Field: "email", Reason: "not a valid email address"}
		}
	}
	return nil
}
