// Package loading implements the loading-state machine shared by every list-backed screen.
//
// A Machine tracks what is currently happening to one remote list: the first load, a retry after it failed,
// a visible or silent refresh and pagination. Screens render from State and issue requests only when the
// machine accepts the matching intent.
package loading

// State is the lifecycle position of a tracked remote list.
type State string

const (
	// Pristine means no fetch was attempted yet.
	Pristine State = "PRISTINE"
	// Init means the first fetch is in flight.
	Init State = "INIT"
	// InitFailed means the first fetch failed and no data is available.
	InitFailed State = "INIT_FAILED"
	// Done means data is available and matches the last successful fetch.
	Done State = "DONE"
	// Retry means the first load is re-attempted after InitFailed.
	Retry State = "RETRY"
	// Refresh is a user-initiated reload while stale data stays visible.
	Refresh State = "REFRESH"
	// RefreshSilent is a background reload without a visible indicator.
	RefreshSilent State = "REFRESH_SILENT"
	// RefreshFailed keeps the previous data after a failed refresh.
	RefreshFailed State = "REFRESH_FAILED"
	// FetchNext is a pagination request for items appended to the list.
	FetchNext State = "FETCH_NEXT"
	// FetchNextFailed keeps the loaded pages after a failed pagination request.
	FetchNextFailed State = "FETCH_NEXT_FAILED"
)

// States lists every state in declaration order.
var States = []State{
	Pristine,
	Init,
	InitFailed,
	Done,
	Retry,
	Refresh,
	RefreshSilent,
	RefreshFailed,
	FetchNext,
	FetchNextFailed,
}

func (s State) String() string {
	return string(s)
}

// Valid reports whether s is one of the declared states.
func (s State) Valid() bool {
	for _, known := range States {
		if s == known {
			return true
		}
	}
	return false
}

// InFlight reports whether a request is pending in this state.
func (s State) InFlight() bool {
	switch s {
	case Init, Retry, Refresh, RefreshSilent, FetchNext:
		return true
	default:
		return false
	}
}

// HasData reports whether the state keeps a last-known-good list to display.
func (s State) HasData() bool {
	switch s {
	case Done, Refresh, RefreshSilent, RefreshFailed, FetchNext, FetchNextFailed:
		return true
	default:
		return false
	}
}

// Failed reports whether the last request of the list was rejected.
func (s State) Failed() bool {
	return s == InitFailed || s == RefreshFailed || s == FetchNextFailed
}

// Intent is a user or screen trigger that starts a request.
type Intent string

const (
	IntentInit          Intent = "init"
	IntentRetry         Intent = "retry"
	IntentRefresh       Intent = "refresh"
	IntentRefreshSilent Intent = "refresh_silent"
	IntentFetchNext     Intent = "fetch_next"
)

// outcome events fired when a request settles.
const (
	eventResolve = "resolve"
	eventReject  = "reject"
)
