package style

import "github.com/charmbracelet/lipgloss"

// Palette defines the application's color scheme.
var (
	Text    = lipgloss.Color("#cdd6f4")
	Subtext = lipgloss.Color("#a6adc8")
	Overlay = lipgloss.Color("#6c7086")
	Surface = lipgloss.Color("#313244")

	Mauve    = lipgloss.Color("#cba6f7")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")
	Yellow   = lipgloss.Color("#f9e2af")
	Green    = lipgloss.Color("#a6e3a1")
	Sapphire = lipgloss.Color("#74c7ec")
	Blue     = lipgloss.Color("#89b4fa")
	Lavender = lipgloss.Color("#b4befe")

	// Semantic mappings
	AccentColor    = Mauve
	SecondaryColor = Lavender
	SuccessColor   = Green
	WarningColor   = Yellow
	ErrorColor     = Red
	FaintColor     = Overlay
	UnreadColor    = Sapphire
	PendingColor   = Peach
)
