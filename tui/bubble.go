// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/internal/ui"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/section"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/store"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/util"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// statefulBubble holds the navigation state, the section screens and their shared store.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	// components
	spinnerC spinner.Model
	helpC    help.Model
	menuC    list.Model
	detailC  viewport.Model

	screens map[store.Key]screen
	current screen

	detailTitle string
	detailReady bool
	detailSeq   int

	store *store.Store
	env   *section.Env

	ctx    context.Context
	cancel context.CancelFunc

	lastError             error
	width, height         int
	listWidth, listHeight int
	notifier              *ui.Model

	options *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s, remembering the current state unless it is the error view.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if b.state != errorState {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	styledWidth := width - x
	styledHeight := height - y

	listWidth := width - xx
	listHeight := height - yy

	b.menuC.SetSize(listWidth, listHeight)
	b.menuC.Help.Width = listWidth

	// one line is kept for the pagination footer
	for _, s := range b.screens {
		l := s.list()
		l.SetSize(listWidth, listHeight-1)
		l.Help.Width = listWidth
	}

	b.detailC.Width = styledWidth
	// title, blank line and help
	b.detailC.Height = lo.Max([]int{styledHeight - 3, 1})

	b.width = styledWidth
	b.height = styledHeight
	b.listWidth = listWidth
	b.listHeight = listHeight
	b.helpC.Width = listWidth
}

// makeList builds a list styled like every other list of the interface.
func (b *statefulBubble) makeList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(style.Text)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	listC := list.New([]list.Item{}, delegate, 0, 0)
	listC.KeyMap = b.keymap.forList()
	listC.AdditionalShortHelpKeys = b.keymap.ShortHelp
	listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return b.keymap.FullHelp()[0]
	}
	listC.Title = title
	listC.Styles.Title = lipgloss.NewStyle().Foreground(style.Surface).Background(style.AccentColor).Padding(0, 1)
	listC.Styles.NoItems = paddingStyle
	listC.Filter = fuzzyFilter
	listC.StatusMessageLifetime = time.Hour * 999
	listC.SetShowPagination(false)
	listC.SetShowStatusBar(false)
	listC.SetStatusBarItemName("item", "items")

	if b.listWidth > 0 {
		listC.SetSize(b.listWidth, b.listHeight-1)
		listC.Help.Width = b.listWidth
	}

	return listC
}

// refreshMenu rebuilds the menu so entries reflect the state of their slices.
func (b *statefulBubble) refreshMenu() {
	items := lo.Map(section.All(), func(e section.Entry, _ int) list.Item {
		return &listItem{
			internal: e,
			tracker:  b.store.Get(e.Key()),
		}
	})
	b.menuC.SetItems(items)
}

func newBubble(options *Options) *statefulBubble {
	ctx, cancel := context.WithCancel(options.Context)

	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        newStatefulKeymap(),
		screens:       make(map[store.Key]screen),
		store:         options.Store,
		env:           options.Env,
		ctx:           ctx,
		cancel:        cancel,
		notifier: &ui.Model{
			Lifetime: time.Duration(viper.GetInt(key.TUINotificationSeconds)) * time.Second,
		},
		options: options,
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.menuC = bubble.makeList("Edifice")
	bubble.menuC.SetStatusBarItemName("section", "sections")
	bubble.refreshMenu()

	bubble.detailC = viewport.New(0, 0)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}
