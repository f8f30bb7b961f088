package controller

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	m "github.com/mouse-blink/livetrace/internal/model"
)

const (
	tabWidth = 4
	gutter   = "  "
)

// sideBySide pairs every source line with its message column. The message
// column starts at the same display width on every line.
func sideBySide(text []byte, report m.Report) []string {
	source := sourceLines(text)
	rows := max(len(source), len(report.Lines))

	width := 0
	for _, line := range source {
		width = max(width, runewidth.StringWidth(line))
	}

	out := make([]string, rows)

	for i := range rows {
		var src, msg string

		if i < len(source) {
			src = source[i]
		}

		if i < len(report.Lines) {
			msg = strings.TrimRight(report.Lines[i], " ")
		}

		if msg == "" {
			out[i] = strings.TrimRight(src, " ")
			continue
		}

		out[i] = runewidth.FillRight(src, width) + gutter + msg
	}

	return out
}

func sourceLines(text []byte) []string {
	s := strings.ReplaceAll(string(text), "\r\n", "\n")
	s = strings.TrimRight(s, "\n")

	if s == "" {
		return nil
	}

	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))

	return strings.Split(s, "\n")
}

// eventLine is the source line an event points at.
func eventLine(ev m.Event) int {
	if ev.Kind == m.EventStartBlock {
		return ev.FirstLine
	}

	return ev.Line
}

// describeEvent summarizes the payload of an event on one line.
func describeEvent(ev m.Event) string {
	switch ev.Kind {
	case m.EventAssign:
		return ev.Label + " = " + ev.Value
	case m.EventCall:
		if ev.Before == ev.After {
			return fmt.Sprintf("%s unchanged, returned %s", ev.Label, ev.Value)
		}

		return fmt.Sprintf("%s: %s -> %s", ev.Label, ev.Before, ev.After)
	case m.EventStartBlock:
		return fmt.Sprintf("lines %d-%d", ev.FirstLine, ev.LastLine)
	case m.EventReturn:
		return "return " + ev.Value
	default:
		return ev.Text
	}
}
