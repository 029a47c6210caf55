// Package color provides the ANSI colors used by command output.
package color

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
)

// New initializes a lipgloss.Color from a string value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// Standard ANSI 8-color palette.
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")
)

// High-intensity variants.
var (
	HiRed    = New("9")
	HiBlue   = New("12")
	HiPurple = New("13")
	HiCyan   = New("14")
)

var (
	Orange = New("#ffb703")
	Gray   = New("#808080")
)

// ForState colors a loading state: gray before any fetch, yellow while a request is pending,
// red for failures and green for settled data.
func ForState(s loading.State) lipgloss.Color {
	switch {
	case s == loading.Pristine:
		return Gray
	case s.Failed():
		return Red
	case s.InFlight():
		return Yellow
	default:
		return Green
	}
}
