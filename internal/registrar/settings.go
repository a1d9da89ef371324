package registrar

import (
	"context"

	"lanreg/internal/model"
)

// DefaultRegistrarConfig returns the configuration used until an admin
// saves their own.
func DefaultRegistrarConfig() *model.RegistrarConfig {
	return &model.RegistrarConfig{
		RegistrarName:     "LAN Registrar",
		RegistrarIANAID:   "9999",
		DefaultTTL:        3600,
		DefaultExpiryDays: 365,
	}
}

// Settings exposes the registrar configuration singleton. Reads through
// the admin surface and all mutation are gated; Current is the ungated
// internal read used by the resolver and the WHOIS responder.
type Settings struct {
	store SettingsStore
	gate  Gate
}

func NewSettings(store SettingsStore) *Settings {
	return &Settings{store: store}
}

// Current returns the stored configuration or the defaults when none
// has been saved yet.
func (s *Settings) Current(ctx context.Context) (*model.RegistrarConfig, error) {
	cfg, err := s.store.RegistrarConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return DefaultRegistrarConfig(), nil
	}
	return cfg, nil
}

// Get is the admin-facing read.
func (s *Settings) Get(ctx context.Context, req Requester) (*model.RegistrarConfig, error) {
	if err := s.gate.AdminOnly(req).Err(); err != nil {
		return nil, err
	}
	return s.Current(ctx)
}

// Update replaces the configuration. Non-positive TTL and expiry values
// are rejected rather than coerced.
func (s *Settings) Update(ctx context.Context, req Requester, cfg model.RegistrarConfig) (*model.RegistrarConfig, error) {
	if err := s.gate.AdminOnly(req).Err(); err != nil {
		return nil, err
	}
	if cfg.RegistrarName == "" {
		return nil, &ValidationError{Entity: "registrar_config", Field: "registrar_name", Reason: "must not be empty"}
	}
	if cfg.DefaultTTL <= 0 {
		return nil, &ValidationError{Entity: "registrar_config", Field: "default_ttl", Reason: "must be positive"}
	}
	if cfg.DefaultExpiryDays <= 0 {
		return nil, &ValidationError{Entity: "registrar_config", Field: "default_expiry_days", Reason: "must be positive"}
	}
	if err := s.store.SaveRegistrarConfig(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
