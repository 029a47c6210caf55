// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/icon"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/section"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/util"
	"github.com/samber/mo"
)

// listItem implements the list.Item interface for menu entries and section rows.
type listItem struct {
	internal any
	// tracker is the machine of a menu entry, when one is mounted.
	tracker mo.Option[loading.Tracker]
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() string {
	switch e := t.internal.(type) {
	case section.Entry:
		return fmt.Sprintf("%s %s", icon.Get(e.Icon()), e.Title())
	case section.Row:
		if e.Item.Mark == "" {
			return e.Item.Title
		}
		return fmt.Sprintf("%s %s", e.Item.Title, style.Fg(style.UnreadColor)(e.Item.Mark))
	default:
		return ""
	}
}

// Description retrieves the secondary line of the list item.
func (t *listItem) Description() string {
	switch e := t.internal.(type) {
	case section.Entry:
		tracker, ok := t.tracker.Get()
		if !ok {
			return e.Description()
		}
		return fmt.Sprintf("%s %s %s", e.Description(), style.Faint("·"), summary(tracker))
	case section.Row:
		return e.Item.Description
	default:
		return ""
	}
}

// FilterValue returns the string used for list filtering.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case section.Entry:
		return e.Title()
	case section.Row:
		return e.Item.FilterValue()
	default:
		return ""
	}
}

// summary describes what a mounted machine holds.
func summary(t loading.Tracker) string {
	state := t.State()
	switch {
	case state == loading.Pristine:
		return style.Faint("not loaded")
	case state == loading.InitFailed:
		return style.Fg(style.ErrorColor)("failed")
	case state.InFlight() && !state.HasData():
		return style.Fg(style.PendingColor)("loading")
	}

	text := util.Quantify(t.Len(), "item", "items")
	if at := t.UpdatedAt(); !at.IsZero() {
		text += ", updated " + humanize.Time(at)
	}
	if state.Failed() {
		return style.Fg(style.WarningColor)(text)
	}
	return style.Faint(text)
}
