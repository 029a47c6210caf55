package loading

// Presentation is what a screen must draw for a given state.
type Presentation struct {
	// FullScreenLoader replaces the whole screen with a loading indicator.
	FullScreenLoader bool
	// ErrorView replaces the whole screen with an error and a retry control.
	ErrorView bool
	// List draws the last-known-good data.
	List bool
	// RefreshSpinner is bound to the pull-to-refresh control.
	RefreshSpinner bool
	// FooterLoader is appended after the last item.
	FooterLoader bool
	// ErrorSignal marks a non-blocking failure over a kept list.
	ErrorSignal bool
}

// Present maps a state to its render contract.
func Present(s State) Presentation {
	switch s {
	case Pristine, Init:
		return Presentation{FullScreenLoader: true}
	case InitFailed, Retry:
		return Presentation{ErrorView: true}
	case Done, RefreshSilent:
		return Presentation{List: true}
	case Refresh:
		return Presentation{List: true, RefreshSpinner: true}
	case RefreshFailed:
		return Presentation{List: true, ErrorSignal: true}
	case FetchNext:
		return Presentation{List: true, FooterLoader: true}
	case FetchNextFailed:
		return Presentation{List: true, ErrorSignal: true}
	default:
		return Presentation{FullScreenLoader: true}
	}
}
