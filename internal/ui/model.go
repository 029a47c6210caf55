// Package ui holds the transient notification line shared by TUI screens.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/style"
)

// Level is the severity of a toast.
type Level int

const (
	Info Level = iota
	Warn
	Error
)

func (l Level) color() lipgloss.Color {
	switch l {
	case Warn:
		return style.WarningColor
	case Error:
		return style.ErrorColor
	default:
		return style.FaintColor
	}
}

// Model displays at most one toast at a time.
type Model struct {
	// Lifetime is how long a toast stays visible. Zero means three seconds.
	Lifetime time.Duration

	toast   string
	level   Level
	shownAt time.Time
}

// ToastMsg asks the notifier to show Text.
type ToastMsg struct {
	Text  string
	Level Level
}

// clearMsg expires the toast shown at shownAt. Later toasts survive it.
type clearMsg struct {
	shownAt time.Time
}

// Notify returns a command showing text at level.
func Notify(text string, level Level) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Text: text, Level: level}
	}
}

func (m *Model) lifetime() time.Duration {
	if m.Lifetime <= 0 {
		return 3 * time.Second
	}
	return m.Lifetime
}

// Update handles toast messages and their expiry.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ToastMsg:
		m.toast = msg.Text
		m.level = msg.Level
		m.shownAt = time.Now()

		shownAt := m.shownAt
		return tea.Tick(m.lifetime(), func(time.Time) tea.Msg {
			return clearMsg{shownAt: shownAt}
		})
	case clearMsg:
		if msg.shownAt.Equal(m.shownAt) {
			m.toast = ""
		}
	}

	return nil
}

// Active reports whether a toast is displayed.
func (m *Model) Active() bool {
	return m.toast != ""
}

// Text returns the displayed toast.
func (m *Model) Text() string {
	return m.toast
}

// View overlays the toast on the bottom lines of content.
func (m *Model) View(content string) string {
	if m.toast == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	toast := strings.Split(style.Toast(m.level.color())(m.toast), "\n")

	keep := len(lines) - len(toast)
	if keep < 0 {
		keep = 0
	}
	return strings.Join(append(lines[:keep], toast...), "\n")
}
