package controller

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	m "github.com/mouse-blink/livetrace/internal/model"
	"golang.org/x/term"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
	input  io.Reader
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// DisplayReports opens an event stepper over results. Runs without any
// event are printed and return immediately.
func (t *TUI) DisplayReports(results []m.FileResult) error {
	if !hasEvents(results) {
		for _, result := range results {
			_, _ = fmt.Fprintf(t.output, "%s: nothing to trace\n", result.Source.Filename())
		}

		return nil
	}

	model := newStepperModel(results)

	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			updated, _ := model.Update(tea.WindowSizeMsg{Width: width, Height: height})
			model = updated.(stepperModel)
		}
	}

	return t.run(model)
}

func (t *TUI) run(model tea.Model) error {
	opts := []tea.ProgramOption{tea.WithOutput(t.output), tea.WithAltScreen()}
	if t.input != nil {
		opts = append(opts, tea.WithInput(t.input))
	}

	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("failed to run interactive UI: %w", err)
	}

	return nil
}

func hasEvents(results []m.FileResult) bool {
	for _, result := range results {
		if len(result.Report.Events) > 0 {
			return true
		}
	}

	return false
}
