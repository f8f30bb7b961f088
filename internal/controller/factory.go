package controller

import (
	"io"
	"os"

	m "github.com/mouse-blink/livetrace/internal/model"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewUI creates a UI based on whether TTY mode is enabled.
// When useTTY is true, it returns a TUI (Bubble Tea) and format is ignored.
// When useTTY is false, it returns a SimpleUI writing format.
func NewUI(cmd *cobra.Command, useTTY bool, format m.Format) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd, format)
}

// IsTTY reports whether w is an interactive terminal. Buffers, pipes and
// regular files are not.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd()))
}
