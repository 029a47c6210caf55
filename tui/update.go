// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"time"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/history"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/icon"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/internal/ui"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/log"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/section"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
	"github.com/spf13/viper"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := b.notifier.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		cmds = append(cmds, cmd)
	case settledMsg:
		cmds = append(cmds, b.settle(msg))
		b.syncKeymap()
		return b, tea.Batch(cmds...)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch b.state {
	case menuState:
		cmd = b.updateMenu(msg)
	case listState:
		cmd = b.updateList(msg)
	case detailState:
		cmd = b.updateDetail(msg)
	case errorState:
		cmd = b.updateError(msg)
	}

	b.syncKeymap()
	return b, tea.Batch(append(cmds, cmd)...)
}

func (b *statefulBubble) syncKeymap() {
	b.keymap.retryable = b.state == listState &&
		b.current != nil &&
		loading.Present(b.current.state()).ErrorView
}

// open shows the screen of e, creating it on first use.
func (b *statefulBubble) open(e section.Entry) tea.Cmd {
	scr, ok := b.screens[e.Key()]
	if !ok {
		var err error
		if scr, err = b.bind(e); err != nil {
			b.raiseError(err)
			return nil
		}
		b.screens[e.Key()] = scr
	}

	b.current = scr
	b.newState(listState)

	if viper.GetBool(key.HistorySave) {
		if err := history.Record(e.Name(), time.Now()); err != nil {
			log.Warnf("history: %v", err)
		}
	}

	cmd := scr.focus()
	b.refreshMenu()
	return tea.Batch(cmd, b.loadQuota(e))
}

// settle applies a fetched page to the machine that requested it.
func (b *statefulBubble) settle(msg settledMsg) tea.Cmd {
	scr, ok := b.screens[msg.key]
	if !ok {
		return nil
	}

	outcome := msg.settle()
	if outcome.Stale {
		log.Debugf("%s: dropped a stale result", msg.key)
		return nil
	}

	cmds := []tea.Cmd{scr.sync()}
	if outcome.Toast {
		cmds = append(cmds, ui.Notify(toast(scr.entry(), outcome), ui.Warn))
	}

	// keep paging while the cursor stays near the end
	if outcome.State == loading.Done && b.state == listState && b.current == scr {
		cmds = append(cmds, b.fetchNext(scr))
	}

	b.refreshMenu()
	return tea.Batch(cmds...)
}

func toast(e section.Entry, o loading.Outcome) string {
	if o.State == loading.FetchNextFailed {
		return fmt.Sprintf("%s %s: could not load more", icon.Get(icon.Warn), e.Title())
	}
	return fmt.Sprintf("%s %s: refresh failed", icon.Get(icon.Warn), e.Title())
}

// fetchNext requests the next page once the cursor is close enough to the end.
func (b *statefulBubble) fetchNext(scr screen) tea.Cmd {
	l := scr.list()
	if l.FilterState() != list.Unfiltered || !scr.canFetchNext() {
		return nil
	}

	if !nearEnd(l.Index(), len(l.VisibleItems()), viper.GetInt(key.TUIFetchNextThreshold)) {
		return nil
	}

	return scr.issue(loading.IntentFetchNext)
}

func (b *statefulBubble) updateMenu(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && !b.menuC.SettingFilter() && bubblesKey.Matches(msg, b.keymap.confirm) {
		item, ok := b.menuC.SelectedItem().(*listItem)
		if !ok {
			return nil
		}
		if e, ok := item.internal.(section.Entry); ok {
			return b.open(e)
		}
		return nil
	}

	var cmd tea.Cmd
	b.menuC, cmd = b.menuC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateList(msg tea.Msg) tea.Cmd {
	scr := b.current
	l := scr.list()
	p := loading.Present(scr.state())

	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey && !l.SettingFilter() {
		switch {
		case bubblesKey.Matches(keyMsg, b.keymap.back) && l.FilterState() == list.Unfiltered:
			b.previousState()
			b.refreshMenu()
			return nil
		case bubblesKey.Matches(keyMsg, b.keymap.quit) && !p.List:
			return tea.Quit
		case p.ErrorView:
			if bubblesKey.Matches(keyMsg, b.keymap.retry) {
				return scr.issue(loading.IntentRetry)
			}
			return nil
		case !p.List:
			return nil
		case bubblesKey.Matches(keyMsg, b.keymap.refresh):
			return scr.issue(loading.IntentRefresh)
		case bubblesKey.Matches(keyMsg, b.keymap.open):
			row, ok := scr.selected().Get()
			if !ok {
				return nil
			}
			return b.openDetail(row)
		case bubblesKey.Matches(keyMsg, b.keymap.openURL):
			row, ok := scr.selected().Get()
			if !ok {
				return nil
			}
			return b.openLink(row)
		}
	}

	var cmd tea.Cmd
	*l, cmd = l.Update(msg)

	if isKey {
		return tea.Batch(cmd, b.fetchNext(scr))
	}
	return cmd
}

func (b *statefulBubble) openDetail(row section.Row) tea.Cmd {
	b.detailSeq++
	b.detailTitle = row.Item.Title
	b.detailReady = false
	b.detailC.SetContent("")
	b.newState(detailState)
	return b.describe(row)
}

func (b *statefulBubble) updateDetail(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailMsg:
		if msg.seq != b.detailSeq {
			return nil
		}

		body := msg.body
		if msg.err != nil {
			body = style.Fg(style.ErrorColor)(icon.Get(icon.Fail) + " " + msg.err.Error())
		}
		b.detailC.SetContent(wordwrap.String(body, b.detailC.Width))
		b.detailC.GotoTop()
		b.detailReady = true
		return nil
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return nil
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		}
	}

	var cmd tea.Cmd
	b.detailC, cmd = b.detailC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		}
	}

	return nil
}
