// Package tui provides the primary terminal user interface implementation.
package tui

type state int

const (
	menuState state = iota
	listState
	detailState
	errorState
)
