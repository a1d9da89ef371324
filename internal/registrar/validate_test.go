package registrar

import (
	"strings"
	"testing"

	"lanreg/internal/model"
)

func TestValidateDomainName(t *testing.T) {
	valid := []string{"home.lan", "a.b.c.lan", "x1-y2.example.com", "sub.domain.lan."}
	for _, name := range valid {
		if err := ValidateDomainName(name); err != nil {
			t.Errorf("ValidateDomainName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{
		"",
		"nodots",
		"-bad.lan",
		"bad-.lan",
		"ba_d.lan",
		"a..lan",
		strings.Repeat("x", 64) + ".lan",
	}
	for _, name := range invalid {
		err := ValidateDomainName(name)
		if err == nil {
			t.Errorf("ValidateDomainName(%q) = nil, want ValidationError", name)
			continue
		}
		if !IsValidation(err) {
			t.Errorf("ValidateDomainName(%q) = %T, want *ValidationError", name, err)
		}
	}
}

func rec(typ, content string) *model.DNSRecord {
	return &model.DNSRecord{Name: "@", Type: typ, Content: content, TTL: 3600}
}

func TestValidateRecordContent(t *testing.T) {
	cases := []struct {
		typ, content string
		ok           bool
	}{
		{"A", "10.0.0.5", true},
		{"A", "999.1.1.1", false},
		{"A", "10.0.0", false},
		{"AAAA", "fd00::1", true},
		{"AAAA", "10.0.0.5", false},
		{"CNAME", "target.home.lan", true},
		{"CNAME", "-bad.lan", false},
		{"NS", "ns1.home.lan", true},
		{"PTR", "host.home.lan", true},
		{"MX", "mail.home.lan", true},
		{"MX", "not a host", false},
		{"TXT", "v=spf1 -all", true},
		{"TXT", strings.Repeat("x", 256), false},
		{"SRV", "10 5 5060 sip.home.lan", true},
		{"SRV", "10 5 sip.home.lan", false},
		{"SRV", "-1 5 5060 sip.home.lan", false},
		{"SRV", "10 5 5060 -bad", false},
		{"SPF", "v=spf1", false},
		{"", "x", false},
	}
	for _, tc := range cases {
		err := ValidateRecord(rec(tc.typ, tc.content))
		if tc.ok && err != nil {
			t.Errorf("ValidateRecord(%s %q) = %v, want nil", tc.typ, tc.content, err)
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("ValidateRecord(%s %q) = nil, want ValidationError", tc.typ, tc.content)
			} else if !IsValidation(err) {
				t.Errorf("ValidateRecord(%s %q) = %T, want *ValidationError", tc.typ, tc.content, err)
			}
		}
	}
}

func TestValidateRecordTTLAndName(t *testing.T) {
	r := rec("A", "10.0.0.5")
	r.TTL = 0
	if err := ValidateRecord(r); !IsValidation(err) {
		t.Errorf("zero TTL: got %v, want ValidationError", err)
	}
	r.TTL = -300
	if err := ValidateRecord(r); !IsValidation(err) {
		t.Errorf("negative TTL: got %v, want ValidationError", err)
	}

	r = rec("A", "10.0.0.5")
	r.Name = ""
	if err := ValidateRecord(r); !IsValidation(err) {
		t.Errorf("empty name: got %v, want ValidationError", err)
	}
	r.Name = "www"
	if err := ValidateRecord(r); err != nil {
		t.Errorf("label name: got %v, want nil", err)
	}

	r = rec("MX", "mail.home.lan")
	r.Priority = -1
	if err := ValidateRecord(r); !IsValidation(err) {
		t.Errorf("negative priority: got %v, want ValidationError", err)
	}
}
