package wrapgen

import (
	"github.com/go-playground/validator/v10"

	"github.com/loganlinn/tortilla"
	"github.com/loganlinn/tortilla/wrapgen/ir"
)

var validate = validator.New()

// Config holds the configuration for routine generation.
type Config struct {
	// Prefix is prepended to every generated routine identifier.
	Prefix string

	// Width is the column limit for emitted source. Default 100.
	Width int `validate:"gt=0"`

	// Metadata controls whether declared signatures are emitted as
	// documentation on generated routines. Default true.
	Metadata bool

	// Instrument wraps generated routines with a logging interceptor.
	Instrument bool

	// Package names the package of emitted Go source. Default "wrappers".
	Package string

	// Coerce is the coercion hook applied before type guards and
	// invocation. Nil means identity.
	Coerce tortilla.CoerceFunc

	// Include and Exclude are regular expressions matched against member
	// descriptor strings. A member is kept when it matches any Include (or
	// Include is empty) and no Exclude.
	Include []string
	Exclude []string

	// Filter is an additional member predicate applied after adaptation.
	Filter func(ir.Member) bool
}

// applyConfigDefaults fills zero-valued fields. Metadata defaults on, which a
// caller disables through the fluent API rather than the struct.
func applyConfigDefaults(cfg *Config) *Config {
	out := *cfg
	if out.Width == 0 {
		out.Width = 100
	}
	if out.Package == "" {
		out.Package = "wrappers"
	}
	return &out
}

// validateConfig checks field constraints, mapping violations to the
// standard error envelope.
func validateConfig(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return tortilla.DefaultErrorTransformer(err)
	}
	return nil
}
