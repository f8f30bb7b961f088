package controller

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"
	m "github.com/mouse-blink/livetrace/internal/model"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	headerColor  = color.New(color.FgYellow, color.Bold)
	messageColor = color.New(color.FgRed)
)

// SimpleUI implements UI by writing to the cobra Command's output.
type SimpleUI struct {
	cmd    *cobra.Command
	format m.Format
}

// NewSimpleUI creates a new SimpleUI writing format.
func NewSimpleUI(cmd *cobra.Command, format m.Format) *SimpleUI {
	return &SimpleUI{cmd: cmd, format: format}
}

// DisplayReports writes every result in the configured format.
func (s *SimpleUI) DisplayReports(results []m.FileResult) error {
	switch s.format {
	case m.FormatText, "":
		for i, result := range results {
			if i > 0 {
				s.printf("\n")
			}

			s.displayText(result)
		}
	case m.FormatEvents:
		for _, result := range results {
			s.displayEvents(result)
		}
	case m.FormatMsgpack:
		enc := msgpack.NewEncoder(s.cmd.OutOrStdout())
		for _, result := range results {
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("failed to encode %s: %w", result.Source.Filename(), err)
			}
		}
	default:
		return fmt.Errorf("unknown format %q", s.format)
	}

	return nil
}

func (s *SimpleUI) displayText(result m.FileResult) {
	s.printf("%s\n", headerColor.Sprintf("== %s ==", result.Source.Filename()))

	for _, line := range sideBySide(result.Source.Text, result.Report) {
		s.printf("%s\n", line)
	}

	if len(result.Report.Messages()) > 0 {
		s.printf("%s\n", messageColor.Sprintf("%d message(s)", len(result.Report.Messages())))
	}
}

func (s *SimpleUI) displayEvents(result m.FileResult) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Seq", "Line", "Kind", "Event"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
	})

	for _, ev := range result.Report.Events {
		table.Append([]string{
			fmt.Sprintf("%d", ev.Seq),
			fmt.Sprintf("%d", eventLine(ev)),
			string(ev.Kind),
			describeEvent(ev),
		})
	}

	table.SetFooter([]string{"", "", "Total Events", fmt.Sprintf("%d", len(result.Report.Events))})

	table.Render()
	s.printf("%s\n%s", headerColor.Sprintf("== %s ==", result.Source.Filename()), tableBuffer.String())
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
