package controller

import (
	"bytes"
	"os"
	"testing"

	m "github.com/mouse-blink/livetrace/internal/model"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUI_TTYMode(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	ui := NewUI(cmd, true, m.FormatText)

	assert.IsType(t, &TUI{}, ui)
}

func TestNewUI_NonTTYMode(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	ui := NewUI(cmd, false, m.FormatEvents)

	require.IsType(t, &SimpleUI{}, ui)
	assert.Equal(t, m.FormatEvents, ui.(*SimpleUI).format)
}

func TestIsTTY_WithRegularFile(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "livetrace-tty")
	require.NoError(t, err)

	defer file.Close()

	assert.False(t, IsTTY(file))
}

func TestIsTTY_WithDevNull(t *testing.T) {
	file, err := os.Open(os.DevNull)
	if err != nil {
		t.Skip("null device not available")
	}
	defer file.Close()

	assert.False(t, IsTTY(file), "a character device is not necessarily a terminal")
}

func TestIsTTY_WithNonTerminal(t *testing.T) {
	var buf bytes.Buffer

	assert.False(t, IsTTY(&buf))
}
