// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wrap"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/icon"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
	footerStyle           = lipgloss.NewStyle().PaddingLeft(2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case menuState:
		output = b.viewMenu()
	case listState:
		output = b.viewList()
	case detailState:
		output = b.viewDetail()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewMenu() string {
	return listExtraPaddingStyle.Render(b.menuC.View())
}

func (b *statefulBubble) viewList() string {
	scr := b.current
	title := scr.entry().Title()
	state := scr.state()
	p := loading.Present(state)

	switch {
	case p.FullScreenLoader:
		return b.renderLines(true, []string{
			style.Title(title),
			"",
			fmt.Sprintf("%s Loading %s...", b.spinnerC.View(), strings.ToLower(title)),
		})
	case p.ErrorView:
		status := style.Faint("Press enter to retry")
		if state.InFlight() {
			status = b.spinnerC.View() + " Retrying..."
		}

		return b.renderLines(true, []string{
			style.ErrorTitle(title),
			"",
			fmt.Sprintf("%s Could not load %s", icon.Get(icon.Fail), strings.ToLower(title)),
			"",
			wrap.String(errorText(scr.err()), b.width),
			"",
			status,
		})
	}

	l := *scr.list()
	if p.ErrorSignal {
		l.Styles.Title = l.Styles.Title.Background(style.WarningColor)
	}

	return listExtraPaddingStyle.Render(l.View() + "\n" + footerStyle.Render(b.footer(scr, p)))
}

// footer is the status line under a list.
func (b *statefulBubble) footer(scr screen, p loading.Presentation) string {
	switch {
	case p.RefreshSpinner:
		return b.spinnerC.View() + style.Faint(" Refreshing...")
	case p.FooterLoader:
		return b.spinnerC.View() + style.Faint(" Loading more...")
	case scr.state() == loading.FetchNextFailed:
		return style.Fg(style.WarningColor)(icon.Get(icon.Warn) + " Could not load more, scroll down to retry")
	case scr.state() == loading.RefreshFailed:
		return style.Fg(style.WarningColor)(icon.Get(icon.Warn) + " Showing the last loaded list, press r to refresh")
	}

	text := util.Quantify(len(scr.list().Items()), "item", "items")
	if tracker, ok := b.store.Get(scr.entry().Key()).Get(); ok && !tracker.UpdatedAt().IsZero() {
		text += ", updated " + humanize.Time(tracker.UpdatedAt())
	}
	if quota := b.quotaText(scr); quota != "" {
		text += ", " + quota
	}
	return style.Faint(text)
}

func (b *statefulBubble) viewDetail() string {
	body := b.spinnerC.View() + " Loading..."
	if b.detailReady {
		body = b.detailC.View()
	}

	return b.renderLines(true, []string{
		style.Title(b.detailTitle),
		"",
		body,
	})
}

func (b *statefulBubble) viewError() string {
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			wrap.String(style.Fg(style.ErrorColor)(errorText(b.lastError)), b.width),
		},
	)
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	if addHelp {
		if h := lipgloss.Height(l); b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
