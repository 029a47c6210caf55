// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/section"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/store"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Context context.Context
	// Store holds the list slices. A new one is created when nil.
	Store *store.Store
	Env   *section.Env
	// Section opens a section directly instead of the menu.
	Section string
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(options *Options) error {
	if options.Env == nil {
		return fmt.Errorf("tui: no environment")
	}
	if options.Context == nil {
		options.Context = context.Background()
	}
	if options.Store == nil {
		options.Store = store.New()
	}
	if name := options.Section; name != "" {
		if _, ok := section.Get(name); !ok {
			return fmt.Errorf("unknown section %q", name)
		}
	}

	bubble := newBubble(options)
	bubble.setState(menuState)
	defer func() {
		bubble.cancel()
		options.Store.Clear()
	}()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}

// Init starts the spinner and opens the requested section, if any.
func (b *statefulBubble) Init() tea.Cmd {
	cmds := []tea.Cmd{b.spinnerC.Tick}

	if name := b.options.Section; name != "" {
		if e, ok := section.Get(name); ok {
			cmds = append(cmds, b.open(e))
		}
	}

	return tea.Batch(cmds...)
}
