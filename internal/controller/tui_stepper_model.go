package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "github.com/mouse-blink/livetrace/internal/model"
)

const (
	defaultWidth  = 100
	defaultHeight = 24
	// title, blank line, help
	chromeHeight = 3
	listRatio    = 2 // the event list takes 1/listRatio of the width
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	lineNoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	currentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Bold(true)
	kindStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Width(12)
	messageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	paneStyle     = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
)

// eventDelegate renders one event per line.
type eventDelegate struct{}

func (d eventDelegate) Height() int  { return 1 }
func (d eventDelegate) Spacing() int { return 0 }
func (d eventDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d eventDelegate) Render(w io.Writer, lm list.Model, index int, item list.Item) {
	ev, ok := item.(eventItem)
	if !ok {
		return
	}

	text := truncateToWidth(describeEvent(ev.event), lm.Width()-18)
	line := fmt.Sprintf("%4d %s %s", eventLine(ev.event), kindStyle.Render(string(ev.event.Kind)), text)

	switch {
	case index == lm.Index():
		line = selectedStyle.Render(line)
	case ev.event.Kind == m.EventMessage:
		line = messageStyle.Render(line)
	}

	_, _ = fmt.Fprint(w, line)
}

// stepperModel steps through the events of each traced source while showing
// the line each event points at.
type stepperModel struct {
	results []m.FileResult
	current int
	events  list.Model
	rows    []string
	width   int
	height  int
}

func newStepperModel(results []m.FileResult) stepperModel {
	events := list.New(nil, eventDelegate{}, defaultWidth/listRatio, defaultHeight-chromeHeight)
	events.SetShowTitle(false)
	events.SetShowStatusBar(false)
	events.SetShowHelp(false)
	events.SetFilteringEnabled(false)
	events.DisableQuitKeybindings()

	sm := stepperModel{
		results: results,
		events:  events,
		width:   defaultWidth,
		height:  defaultHeight,
	}

	return sm.showFile(0)
}

func (sm stepperModel) showFile(index int) stepperModel {
	if len(sm.results) == 0 {
		return sm
	}

	sm.current = (index + len(sm.results)) % len(sm.results)
	result := sm.results[sm.current]

	items := eventItems(result.Report)
	listItems := make([]list.Item, len(items))

	for i, item := range items {
		listItems[i] = item
	}

	sm.events.SetItems(listItems)
	sm.events.Select(0)
	sm.rows = sideBySide(result.Source.Text, result.Report)

	return sm
}

func (sm stepperModel) Init() tea.Cmd {
	return nil
}

func (sm stepperModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		sm.width = msg.Width
		sm.height = msg.Height
		sm.events.SetSize(sm.width/listRatio, max(1, sm.height-chromeHeight))

		return sm, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return sm, tea.Quit
		case "[":
			return sm.showFile(sm.current - 1), nil
		case "]":
			return sm.showFile(sm.current + 1), nil
		}
	}

	var cmd tea.Cmd
	sm.events, cmd = sm.events.Update(msg)

	return sm, cmd
}

func (sm stepperModel) View() string {
	if len(sm.results) == 0 {
		return "no sources traced\n"
	}

	result := sm.results[sm.current]
	title := titleStyle.Render(fmt.Sprintf("%s (%d/%d)", result.Source.Filename(), sm.current+1, len(sm.results)))
	help := helpStyle.Render("↑/↓ step • [/] file • q quit")

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(sm.width/listRatio).Render(sm.events.View()),
		paneStyle.Render(sm.sourcePane()),
	)

	return title + "\n\n" + body + "\n" + help
}

// selectedLine returns the source line of the selected event, 0 if none.
func (sm stepperModel) selectedLine() int {
	item, ok := sm.events.SelectedItem().(eventItem)
	if !ok {
		return 0
	}

	return eventLine(item.event)
}

// sourcePane renders the window of source rows around the selected line.
func (sm stepperModel) sourcePane() string {
	height := max(1, sm.height-chromeHeight)
	selected := sm.selectedLine()

	start := 0
	if selected > height/2 {
		start = selected - height/2 - 1
	}

	end := min(len(sm.rows), start+height)
	start = max(0, min(start, end-height))
	width := max(1, sm.width-sm.width/listRatio-8)

	var b strings.Builder

	for i := start; i < end; i++ {
		row := truncateToWidth(sm.rows[i], width)
		if i+1 == selected {
			row = currentStyle.Render(row)
		}

		b.WriteString(lineNoStyle.Render(fmt.Sprintf("%4d ", i+1)))
		b.WriteString(row)
		b.WriteString("\n")
	}

	return b.String()
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)
	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}
