package registrar

import (
	"context"
	"strings"
	"time"

	"lanreg/internal/model"
)

const fallbackTTL = 3600

// RecordSet manages the DNS records of a domain.
type RecordSet struct {
	records  RecordStore
	domains  DomainStore
	settings SettingsStore
	gate     Gate
	now      func() time.Time
}

func NewRecordSet(records RecordStore, domains DomainStore, settings SettingsStore) *RecordSet {
	return &RecordSet{records: records, domains: domains, settings: settings, now: time.Now}
}

func (s *RecordSet) domainFor(ctx context.Context, req Requester, domainID int64) (*model.Domain, error) {
	d, err := s.domains.DomainByID(ctx, domainID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, &NotFoundError{Entity: "domain", ID: domainID}
	}
	if err := s.gate.DomainAccess(req, d.OwnerID).Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// Add creates a record under a domain the requester may mutate. A zero
// TTL takes the registrar default before validation.
func (s *RecordSet) Add(ctx context.Context, req Requester, domainID int64, rec model.DNSRecord) (*model.DNSRecord, error) {
	if _, err := s.domainFor(ctx, req, domainID); err != nil {
		return nil, err
	}

	rec.DomainID = domainID
	rec.Name = strings.ToLower(strings.TrimSpace(rec.Name))
	rec.Type = strings.ToUpper(strings.TrimSpace(rec.Type))
	if rec.TTL == 0 {
		rec.TTL = s.defaultTTL(ctx)
	}
	if err := ValidateRecord(&rec); err != nil {
		return nil, err
	}

	rec.CreatedAt = s.now().UTC()
	if err := s.records.CreateRecord(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// RecordPatch is a partial record update. Content is re-validated
// against the possibly changed type.
type RecordPatch struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	Content  *string `json:"content"`
	TTL      *int    `json:"ttl"`
	Priority *int    `json:"priority"`
	Disabled *bool   `json:"disabled"`
}

func (s *RecordSet) Update(ctx context.Context, req Requester, id int64, patch RecordPatch) (*model.DNSRecord, error) {
	rec, err := s.records.RecordByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &NotFoundError{Entity: "record", ID: id}
	}
	if _, err := s.domainFor(ctx, req, rec.DomainID); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		rec.Name = strings.ToLower(strings.TrimSpace(*patch.Name))
	}
	if patch.Type != nil {
		rec.Type = strings.ToUpper(strings.TrimSpace(*patch.Type))
	}
	if patch.Content != nil {
		rec.Content = strings.TrimSpace(*patch.Content)
	}
	if patch.TTL != nil {
		rec.TTL = *patch.TTL
	}
	if patch.Priority != nil {
		rec.Priority = *patch.Priority
	}
	if patch.Disabled != nil {
		rec.Disabled = *patch.Disabled
	}

	if err := ValidateRecord(rec); err != nil {
		return nil, err
	}
	if err := s.records.UpdateRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *RecordSet) Delete(ctx context.Context, req Requester, id int64) error {
	rec, err := s.records.RecordByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return &NotFoundError{Entity: "record", ID: id}
	}
	if _, err := s.domainFor(ctx, req, rec.DomainID); err != nil {
		return err
	}
	return s.records.DeleteRecord(ctx, id)
}

// List returns a domain's records in insertion order, under the same
// visibility rule as the domain itself.
func (s *RecordSet) List(ctx context.Context, req Requester, domainID int64) ([]model.DNSRecord, error) {
	if _, err := s.domainFor(ctx, req, domainID); err != nil {
		return nil, err
	}
	return s.records.RecordsByDomain(ctx, domainID)
}

func (s *RecordSet) defaultTTL(ctx context.Context) int {
	if cfg, err := s.settings.RegistrarConfig(ctx); err == nil && cfg != nil && cfg.DefaultTTL > 0 {
		return cfg.DefaultTTL
	}
	return fallbackTTL
}
