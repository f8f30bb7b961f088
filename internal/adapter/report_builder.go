package adapter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	m "github.com/mouse-blink/livetrace/internal/model"
	"go.starlark.net/starlark"
)

// ErrMessageLimit is returned once a ReportBuilder has recorded as many
// messages as its limit allows.
var ErrMessageLimit = errors.New("live coding message limit exceeded")

const blockCap = "| "

// ReportBuilder records trace notifications as events and as a message
// column aligned with the source lines.
type ReportBuilder struct {
	limit int
	count int
	seq   uint64

	events []m.Event
	lines  []string
}

// NewReportBuilder creates a ReportBuilder that accepts at most limit
// messages; zero or less means unlimited.
func NewReportBuilder(limit int) *ReportBuilder {
	return &ReportBuilder{limit: limit}
}

// SetMessageLimit changes the quota; zero or less disables it.
func (b *ReportBuilder) SetMessageLimit(limit int) {
	b.limit = limit
}

// Assign records label = value.
func (b *ReportBuilder) Assign(label string, value starlark.Value, line int) error {
	if err := b.checkQuota(); err != nil {
		return err
	}

	repr := value.String()
	b.addText(line, fmt.Sprintf("%s = %s ", label, repr))
	b.append(m.Event{Kind: m.EventAssign, Line: line, Label: label, Value: repr})

	return nil
}

// RecordCall records a method call on label. A message is produced only when
// the call changed the receiver.
func (b *ReportBuilder) RecordCall(label, before string, result starlark.Value, after string, line int) error {
	if before != after {
		if err := b.checkQuota(); err != nil {
			return err
		}

		b.addText(line, fmt.Sprintf("%s = %s ", label, after))
	}

	b.append(m.Event{Kind: m.EventCall, Line: line, Label: label, Value: result.String(), Before: before, After: after})

	return nil
}

// StartBlock marks the entry into a block spanning first..last and caps
// those lines so the messages of the next pass line up in a new column.
func (b *ReportBuilder) StartBlock(first, last int) error {
	b.append(m.Event{Kind: m.EventStartBlock, FirstLine: first, LastLine: last})

	if first < 1 || last < first {
		return nil
	}

	b.grow(last)
	block := b.lines[first-1 : last]

	allEmpty, allCapped := true, true
	width := 0

	for _, text := range block {
		if text != "" {
			allEmpty = false
		}

		if !strings.HasSuffix(text, blockCap) {
			allCapped = false
		}

		width = max(width, runewidth.StringWidth(text))
	}

	if allEmpty || allCapped {
		return nil
	}

	for i, text := range block {
		block[i] = runewidth.FillRight(text, width) + blockCap
	}

	return nil
}

// ReturnValue records the value a function returned.
func (b *ReportBuilder) ReturnValue(value starlark.Value, line int) error {
	if err := b.checkQuota(); err != nil {
		return err
	}

	repr := value.String()
	b.addText(line, fmt.Sprintf("return %s ", repr))
	b.append(m.Event{Kind: m.EventReturn, Line: line, Value: repr})

	return nil
}

// AddMessage records free text at line.
func (b *ReportBuilder) AddMessage(text string, line int) error {
	if err := b.checkQuota(); err != nil {
		return err
	}

	b.addText(line, text+" ")
	b.append(m.Event{Kind: m.EventMessage, Line: line, Text: text})

	return nil
}

// Report returns a copy of everything recorded so far.
func (b *ReportBuilder) Report() m.Report {
	return m.Report{
		Events: append([]m.Event(nil), b.events...),
		Lines:  append([]string(nil), b.lines...),
	}
}

func (b *ReportBuilder) checkQuota() error {
	if b.limit > 0 && b.count >= b.limit {
		return ErrMessageLimit
	}

	b.count++

	return nil
}

func (b *ReportBuilder) append(ev m.Event) {
	b.seq++
	ev.Seq = b.seq
	b.events = append(b.events, ev)
}

func (b *ReportBuilder) addText(line int, text string) {
	if line < 1 {
		line = 1
	}

	b.grow(line)
	b.lines[line-1] += text
}

func (b *ReportBuilder) grow(lines int) {
	for len(b.lines) < lines {
		b.lines = append(b.lines, "")
	}
}
