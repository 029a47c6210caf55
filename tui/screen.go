// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/blog"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/diary"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/log"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/mail"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/presences"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/section"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/store"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/timeline"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/workspace"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// screen is a list of one section, bound to the machine of its store slice.
type screen interface {
	entry() section.Entry
	list() *list.Model
	// focus resumes the screen and issues the focus intent of its machine.
	focus() tea.Cmd
	// issue begins intent and returns the command fetching its page.
	issue(intent loading.Intent) tea.Cmd
	// sync copies the machine data into the list.
	sync() tea.Cmd
	state() loading.State
	err() error
	canFetchNext() bool
	selected() mo.Option[section.Row]
}

// settledMsg carries a fetched page back to the update loop, where it is applied.
type settledMsg struct {
	key    store.Key
	settle func() loading.Outcome
}

type listScreen[T any] struct {
	ctx     context.Context
	section *section.Section[T]
	machine *loading.Machine[T]
	store   *store.Store
	env     *section.Env
	listC   list.Model
}

func newListScreen[T any](ctx context.Context, s *section.Section[T], st *store.Store, env *section.Env, listC list.Model) *listScreen[T] {
	return &listScreen[T]{
		ctx:     ctx,
		section: s,
		machine: s.Machine(st, env),
		store:   st,
		env:     env,
		listC:   listC,
	}
}

func (s *listScreen[T]) entry() section.Entry { return s.section }
func (s *listScreen[T]) list() *list.Model    { return &s.listC }
func (s *listScreen[T]) state() loading.State { return s.machine.State() }
func (s *listScreen[T]) err() error           { return s.machine.Err() }
func (s *listScreen[T]) canFetchNext() bool   { return s.machine.CanFetchNext() }

func (s *listScreen[T]) focus() tea.Cmd {
	// the slice may have been replaced or cleared since the last visit
	s.machine = s.section.Machine(s.store, s.env)
	cmd := s.sync()

	intent, ok := s.machine.FocusIntent()
	if !ok {
		return cmd
	}
	if intent == loading.IntentRefreshSilent && !viper.GetBool(key.TUIRefreshOnFocus) {
		return cmd
	}

	return tea.Batch(cmd, s.issue(intent))
}

func (s *listScreen[T]) issue(intent loading.Intent) tea.Cmd {
	req, err := s.machine.Begin(intent)
	if err != nil {
		log.Debugf("%s: %v", s.section.Name(), err)
		return nil
	}

	m, ctx, k := s.machine, s.ctx, s.section.Key()
	return func() tea.Msg {
		items, err := m.Fetch(ctx, req)
		return settledMsg{
			key: k,
			settle: func() loading.Outcome {
				return m.Settle(req, items, err)
			},
		}
	}
}

func (s *listScreen[T]) sync() tea.Cmd {
	rows := s.section.Rows(s.machine.Data())
	items := lo.Map(rows, func(row section.Row, _ int) list.Item {
		return &listItem{internal: row}
	})
	return s.listC.SetItems(items)
}

func (s *listScreen[T]) selected() mo.Option[section.Row] {
	item, ok := s.listC.SelectedItem().(*listItem)
	if !ok {
		return mo.None[section.Row]()
	}
	row, ok := item.internal.(section.Row)
	if !ok {
		return mo.None[section.Row]()
	}
	return mo.Some(row)
}

// bind creates the screen of e.
func (b *statefulBubble) bind(e section.Entry) (screen, error) {
	listC := b.makeList(e.Title())

	switch s := e.(type) {
	case *section.Section[timeline.Notification]:
		return newListScreen(b.ctx, s, b.store, b.env, listC), nil
	case *section.Section[mail.Message]:
		return newListScreen(b.ctx, s, b.store, b.env, listC), nil
	case *section.Section[diary.Task]:
		return newListScreen(b.ctx, s, b.store, b.env, listC), nil
	case *section.Section[blog.Post]:
		return newListScreen(b.ctx, s, b.store, b.env, listC), nil
	case *section.Section[presences.Course]:
		return newListScreen(b.ctx, s, b.store, b.env, listC), nil
	case *section.Section[workspace.Document]:
		return newListScreen(b.ctx, s, b.store, b.env, listC), nil
	default:
		return nil, fmt.Errorf("no screen for section %s", e.Name())
	}
}
