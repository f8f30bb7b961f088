package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	m "github.com/mouse-blink/livetrace/internal/model"
)

// DefaultConfigPath is the configuration file looked up when none is given.
const DefaultConfigPath = ".livetrace.toml"

// ConfigAdapter loads settings from a configuration file.
type ConfigAdapter interface {
	// Load reads path over m.DefaultConfig. A missing file yields the
	// defaults.
	Load(path m.Path) (m.Config, error)
}

// LocalConfigAdapter reads TOML configuration from disk.
type LocalConfigAdapter struct{}

// NewLocalConfigAdapter constructs a LocalConfigAdapter.
func NewLocalConfigAdapter() *LocalConfigAdapter {
	return &LocalConfigAdapter{}
}

// Load decodes the TOML file at path.
func (a *LocalConfigAdapter) Load(path m.Path) (m.Config, error) {
	cfg := m.DefaultConfig()

	meta, err := toml.DecodeFile(string(path), &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m.DefaultConfig(), nil
		}

		return m.Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}

		sort.Strings(keys)

		return m.Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := validateConfig(cfg); err != nil {
		return m.Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func validateConfig(cfg m.Config) error {
	switch cfg.Format {
	case m.FormatText, m.FormatEvents, m.FormatMsgpack:
	default:
		return fmt.Errorf("invalid format %q (expected text|events|msgpack)", cfg.Format)
	}

	switch cfg.UI {
	case m.UIAuto, m.UIOn, m.UIOff:
	default:
		return fmt.Errorf("invalid ui %q (expected auto|on|off)", cfg.UI)
	}

	for _, name := range cfg.Modules {
		if _, ok := libraryModules[name]; !ok {
			return fmt.Errorf("unknown module %q (available: %s)", name, strings.Join(AvailableModules(), ", "))
		}
	}

	return nil
}
