package templates

import (
	"time"

	"github.com/civica-app/civica-backend/config"
)

// Option pattern
type Option func(*EmailData)

func WithName(name string) Option { return func(d *EmailData) { d.Name = name } }

func WithCode(code string, expiresAt time.Time) Option {
	return func(d *EmailData) {
		utc := expiresAt.UTC()
		d.Code = code
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
		d.ExpiresInMin = int(time.Until(utc).Round(time.Minute).Minutes())
	}
}

// NewBaseEmailData fills the common fields from config, then applies options.
func NewBaseEmailData(cfg *config.Config, typ, email string, opts ...Option) EmailData {
	d := EmailData{
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:          cfg.LogoURL,
		SupportURL:       cfg.SupportURL,
		PrivacyURL:       cfg.PrivacyURL,
		DeleteAccountURL: cfg.DeleteAccountURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewCodeData builds the data for any of the one-time code emails.
func NewCodeData(cfg *config.Config, typ, name, email, code string, expiresAt time.Time) map[string]any {
	return ToMap(NewBaseEmailData(cfg, typ, email, WithName(name), WithCode(code, expiresAt)))
}

func NewWelcomeData(cfg *config.Config, name, email string) map[string]any {
	return ToMap(NewBaseEmailData(cfg, Welcome, email, WithName(name)))
}
