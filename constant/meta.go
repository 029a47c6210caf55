// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Edifice is the canonical application identifier used for filesystem paths and CLI branding.
	Edifice = "edifice"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is the HTTP User-Agent sent to the portal API.
	UserAgent = Edifice + "-cli/" + Version
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
