package ui

// Config contains TUI-specific configuration.
type Config struct {
	GlamourMaxWidth uint
	GlamourStyle    string `env:"GLAMOUR_STYLE"`
	EnableMouse     bool

	// Voice preset used for read-aloud.
	Voice string `env:"DOA_VOICE"`

	// CatalogPath is the prayer file in use, empty for the built-in set.
	CatalogPath string

	GlamourEnabled bool `env:"DOA_ENABLE_GLAMOUR" envDefault:"true"`
}
