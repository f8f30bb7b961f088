// Package controller renders trace results for the terminal.
package controller

import (
	m "github.com/mouse-blink/livetrace/internal/model"
)

// UI displays the results of a tracing run.
// Implementations can use different output methods (plain text, TUI, etc).
type UI interface {
	// DisplayReports shows one result per traced source, in order.
	DisplayReports(results []m.FileResult) error
}
