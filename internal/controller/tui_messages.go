package controller

import (
	m "github.com/mouse-blink/livetrace/internal/model"
)

// List item types.
type eventItem struct {
	event m.Event
}

func (e eventItem) FilterValue() string {
	return describeEvent(e.event)
}

func eventItems(report m.Report) []eventItem {
	items := make([]eventItem, 0, len(report.Events))
	for _, ev := range report.Events {
		items = append(items, eventItem{event: ev})
	}

	return items
}
