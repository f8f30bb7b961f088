package model

// Format selects how reports are written by the plain-text UI.
type Format string

const (
	// FormatText prints the source side by side with its message column.
	FormatText Format = "text"
	// FormatEvents prints every event as a table row.
	FormatEvents Format = "events"
	// FormatMsgpack writes one msgpack-encoded FileResult per source.
	FormatMsgpack Format = "msgpack"
)

// UIMode controls when the interactive UI is used.
type UIMode string

// Available UIMode values.
const (
	UIAuto UIMode = "auto"
	UIOn   UIMode = "on"
	UIOff  UIMode = "off"
)

// DefaultMessageLimit caps the number of messages a single trace may record.
const DefaultMessageLimit = 1000

// Config holds the settings read from .livetrace.toml and the command line.
type Config struct {
	// MessageLimit bounds recorded messages; zero or less disables the quota.
	MessageLimit      int      `toml:"message_limit"`
	KeepAlive         bool     `toml:"keep_alive"`
	ExcludedFunctions []string `toml:"excluded_functions"`
	Receiver          string   `toml:"receiver"`
	Parallel          int      `toml:"parallel"`
	Format            Format   `toml:"format"`
	UI                UIMode   `toml:"ui"`
	Modules           []string `toml:"modules"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		MessageLimit:      DefaultMessageLimit,
		ExcludedFunctions: []string{"__repr__"},
		Receiver:          "self",
		Parallel:          1,
		Format:            FormatText,
		UI:                UIAuto,
		Modules:           []string{"math", "json"},
	}
}
