package config

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultRequireAuth preserves the permissive mode of the original
	// marketplace: callers without a principal skip ownership checks.
	DefaultRequireAuth = false
)
