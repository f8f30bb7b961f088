package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/mouse-blink/livetrace/internal/adapter"
	"github.com/mouse-blink/livetrace/internal/controller"
	m "github.com/mouse-blink/livetrace/internal/model"
	"github.com/spf13/cobra"
)

var configFlag string
var verboseFlag bool
var limitFlag int
var excludeFlags []string
var moduleFlags []string
var receiverFlag string

// addConfigFlags registers the flags shared by every command that traces.
func addConfigFlags(cmd *cobra.Command) {
	defaults := m.DefaultConfig()

	cmd.PersistentFlags().StringVar(&configFlag, "config", adapter.DefaultConfigPath, "configuration file; a missing file means defaults")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log every trace phase to stderr")
	cmd.PersistentFlags().IntVarP(&limitFlag, "limit", "l", defaults.MessageLimit, "maximum messages per source (0 = unlimited)")
	cmd.PersistentFlags().StringSliceVar(&excludeFlags, "exclude", defaults.ExcludedFunctions, "functions left uninstrumented")
	cmd.PersistentFlags().StringSliceVar(&moduleFlags, "module", defaults.Modules,
		"library modules predeclared for programs ("+strings.Join(adapter.AvailableModules(), ", ")+")")
	cmd.PersistentFlags().StringVar(&receiverFlag, "receiver", defaults.Receiver, "leading parameter not traced on function entry")
}

// loadConfig reads the configuration file, then applies the flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command) (m.Config, error) {
	cfg, err := configAdapter.Load(m.Path(configFlag))
	if err != nil {
		return m.Config{}, err
	}

	flags := cmd.Flags()

	if flags.Changed("limit") {
		cfg.MessageLimit = limitFlag
	}

	if flags.Changed("exclude") {
		cfg.ExcludedFunctions = excludeFlags
	}

	if flags.Changed("module") {
		cfg.Modules = moduleFlags
	}

	if flags.Changed("receiver") {
		cfg.Receiver = receiverFlag
	}

	if flags.Changed("keep-alive") {
		cfg.KeepAlive = keepAliveFlag
	}

	if flags.Changed("parallel") {
		cfg.Parallel = parallelFlag
	}

	if flags.Changed("format") {
		format, err := readFormat(formatFlag)
		if err != nil {
			return m.Config{}, err
		}

		cfg.Format = format
	}

	if flags.Changed("ui") {
		mode, err := readUIMode(uiFlag)
		if err != nil {
			return m.Config{}, err
		}

		cfg.UI = mode
	}

	return cfg, nil
}

func readFormat(value string) (m.Format, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "text":
		return m.FormatText, nil
	case "events":
		return m.FormatEvents, nil
	case "msgpack":
		return m.FormatMsgpack, nil
	default:
		return "", fmt.Errorf("invalid --format value %q (expected text|events|msgpack)", value)
	}
}

func readUIMode(value string) (m.UIMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return m.UIAuto, nil
	case "on":
		return m.UIOn, nil
	case "off":
		return m.UIOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// useTUI resolves the UI mode. In auto mode the stepper is used only for
// text output on a terminal.
func useTUI(cfg m.Config, out io.Writer) bool {
	switch cfg.UI {
	case m.UIOn:
		return true
	case m.UIOff:
		return false
	default:
		return cfg.Format == m.FormatText && controller.IsTTY(out)
	}
}
