package loading

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/log"
	"golang.org/x/exp/slices"
)

var (
	// ErrNotAllowed is returned when an intent has no transition from the current state.
	ErrNotAllowed = errors.New("intent not allowed")
	// ErrNoMorePages is returned by FetchNext once the end of the list was reached.
	ErrNoMorePages = errors.New("no more pages")
	// ErrDisposed is returned when an intent is issued after the owning screen went away.
	ErrDisposed = errors.New("machine disposed")

	errNoFetcher = errors.New("no page fetcher configured")
)

// Fetcher loads one page of a remote list. Pages are numbered from zero.
type Fetcher[T any] func(ctx context.Context, page int) ([]T, error)

// Options configures a Machine.
type Options[T any] struct {
	// Name identifies the machine in logs.
	Name string
	// Fetch loads a page.
	Fetch Fetcher[T]
	// ID returns the stable identifier used to dedup merged pages.
	ID func(T) string
	// PageSize is the expected page length. A shorter page marks the end of the list.
	// Zero means only an empty page ends the list.
	PageSize int
	// SinglePage marks lists loaded whole on page zero. No page follows.
	SinglePage bool
}

// Request is the ticket handed out by Begin and consumed by Settle.
type Request struct {
	Intent Intent
	// State is the in-flight state entered by the intent.
	State State
	// Page is the page number to fetch.
	Page int

	seq uint64
}

// Outcome describes what Settle did.
type Outcome struct {
	State State
	// Stale is set when the request was superseded or the machine was disposed; nothing changed.
	Stale bool
	// Toast is set for failures shown as a transient notification over the kept list.
	Toast bool
	Err   error
}

// Tracker is the type-independent view of a Machine.
type Tracker interface {
	Name() string
	State() State
	Len() int
	Err() error
	UpdatedAt() time.Time
	Dispose()
}

// Machine is the paged loading-state machine of one remote list.
// It owns both the state and the data, so request handlers never read a stale copy of either.
type Machine[T any] struct {
	opts Options[T]
	fsm  *fsm.FSM

	mu        sync.Mutex
	data      []T
	err       error
	page      int
	end       bool
	seq       uint64
	disposed  bool
	updatedAt time.Time
}

var _ Tracker = (*Machine[struct{}])(nil)

func events() fsm.Events {
	return fsm.Events{
		{Name: string(IntentInit), Src: []string{string(Pristine)}, Dst: string(Init)},
		{Name: string(IntentRetry), Src: []string{string(InitFailed)}, Dst: string(Retry)},
		{Name: string(IntentRetry), Src: []string{string(RefreshFailed)}, Dst: string(Refresh)},
		{Name: string(IntentRefresh), Src: []string{string(Done), string(RefreshFailed), string(FetchNextFailed)}, Dst: string(Refresh)},
		{Name: string(IntentRefreshSilent), Src: []string{string(Done), string(RefreshFailed), string(FetchNextFailed)}, Dst: string(RefreshSilent)},
		{Name: string(IntentFetchNext), Src: []string{string(Done), string(FetchNextFailed)}, Dst: string(FetchNext)},

		{Name: eventResolve, Src: []string{string(Init), string(Retry), string(Refresh), string(RefreshSilent), string(FetchNext)}, Dst: string(Done)},

		{Name: eventReject, Src: []string{string(Init), string(Retry)}, Dst: string(InitFailed)},
		{Name: eventReject, Src: []string{string(Refresh), string(RefreshSilent)}, Dst: string(RefreshFailed)},
		{Name: eventReject, Src: []string{string(FetchNext)}, Dst: string(FetchNextFailed)},
	}
}

// Transition is one edge of the machine: an intent, or the resolve and reject outcomes of a request.
type Transition struct {
	Event string
	From  State
	To    State
}

// Transitions lists every edge, in declaration order.
func Transitions() []Transition {
	var transitions []Transition
	for _, e := range events() {
		for _, src := range e.Src {
			transitions = append(transitions, Transition{Event: e.Name, From: State(src), To: State(e.Dst)})
		}
	}
	return transitions
}

// New creates a Machine in the Pristine state.
func New[T any](opts Options[T]) *Machine[T] {
	m := &Machine[T]{opts: opts}
	m.fsm = fsm.NewFSM(
		string(Pristine),
		events(),
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Debugf("%s: %s -> %s on %s", m.Name(), e.Src, e.Dst, e.Event)
			},
		},
	)
	return m
}

// Name returns the configured machine name.
func (m *Machine[T]) Name() string {
	if m.opts.Name == "" {
		return "list"
	}
	return m.opts.Name
}

// State returns the current state.
func (m *Machine[T]) State() State {
	return State(m.fsm.Current())
}

// Data returns a copy of the last-known-good list.
func (m *Machine[T]) Data() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.data)
}

// Len returns the number of items held.
func (m *Machine[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// Err returns the error of the last rejected request, if the list has not recovered since.
func (m *Machine[T]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Page returns the last page merged into the data.
func (m *Machine[T]) Page() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page
}

// UpdatedAt returns when the data was last replaced or extended.
func (m *Machine[T]) UpdatedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updatedAt
}

// CanFetchNext reports whether a pagination request may be issued now.
func (m *Machine[T]) CanFetchNext() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.disposed && !m.end && m.fsm.Can(string(IntentFetchNext))
}

// Presentation returns the render mapping of the current state.
func (m *Machine[T]) Presentation() Presentation {
	return Present(m.State())
}

// FocusIntent returns the intent to issue when the owning screen gains focus:
// init on a pristine list, a silent refresh when data is displayed, nothing otherwise.
func (m *Machine[T]) FocusIntent() (Intent, bool) {
	switch m.State() {
	case Pristine:
		return IntentInit, true
	case Done, RefreshFailed, FetchNextFailed:
		return IntentRefreshSilent, true
	default:
		return "", false
	}
}

// Begin performs the transition of intent and returns the request to fetch.
func (m *Machine[T]) Begin(intent Intent) (Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return Request{}, ErrDisposed
	}

	if intent == IntentFetchNext && m.end {
		return Request{}, ErrNoMorePages
	}

	from := m.fsm.Current()
	if err := m.fsm.Event(context.Background(), string(intent)); err != nil {
		return Request{}, fmt.Errorf("%w: %s from %s", ErrNotAllowed, intent, from)
	}

	m.seq++
	req := Request{
		Intent: intent,
		State:  State(m.fsm.Current()),
		seq:    m.seq,
	}
	if intent == IntentFetchNext {
		req.Page = m.page + 1
	}

	return req, nil
}

// Settle applies the result of req. Results of superseded requests and results arriving after
// Dispose are dropped.
func (m *Machine[T]) Settle(req Request, items []T, err error) Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := State(m.fsm.Current())
	if m.disposed || req.seq == 0 || req.seq != m.seq || current != req.State {
		return Outcome{State: current, Stale: true}
	}

	if err != nil {
		m.err = err
		m.fire(eventReject)
		next := State(m.fsm.Current())
		log.Warnf("%s: %s failed: %v", m.Name(), req.Intent, err)
		return Outcome{
			State: next,
			Toast: next == RefreshFailed || next == FetchNextFailed,
			Err:   err,
		}
	}

	if req.Intent == IntentFetchNext {
		m.data = Merge(m.data, items, m.opts.ID)
	} else {
		m.data = Merge(nil, items, m.opts.ID)
	}
	m.page = req.Page
	m.end = m.opts.SinglePage || len(items) == 0 || (m.opts.PageSize > 0 && len(items) < m.opts.PageSize)
	m.err = nil
	m.updatedAt = time.Now()
	m.fire(eventResolve)

	return Outcome{State: State(m.fsm.Current())}
}

func (m *Machine[T]) fire(event string) {
	if err := m.fsm.Event(context.Background(), event); err != nil {
		log.Errorf("%s: %s from %s: %v", m.Name(), event, m.fsm.Current(), err)
	}
}

// Run begins intent, fetches the requested page and settles it.
// The returned error is only about the intent being refused; fetch failures end up in the state.
func (m *Machine[T]) Run(ctx context.Context, intent Intent) (Outcome, error) {
	req, err := m.Begin(intent)
	if err != nil {
		return Outcome{State: m.State()}, err
	}

	items, err := m.Fetch(ctx, req)
	return m.Settle(req, items, err), nil
}

// Fetch loads the page of req without touching the state.
func (m *Machine[T]) Fetch(ctx context.Context, req Request) ([]T, error) {
	if m.opts.Fetch == nil {
		return nil, errNoFetcher
	}
	return m.opts.Fetch(ctx, req.Page)
}

// Init issues the first load.
func (m *Machine[T]) Init(ctx context.Context) error {
	_, err := m.Run(ctx, IntentInit)
	return err
}

// Refresh reloads the first page, visibly unless silent is set.
func (m *Machine[T]) Refresh(ctx context.Context, silent bool) error {
	intent := IntentRefresh
	if silent {
		intent = IntentRefreshSilent
	}
	_, err := m.Run(ctx, intent)
	return err
}

// Retry re-attempts a failed load.
func (m *Machine[T]) Retry(ctx context.Context) error {
	_, err := m.Run(ctx, IntentRetry)
	return err
}

// FetchNext requests the page after the last merged one.
func (m *Machine[T]) FetchNext(ctx context.Context) error {
	_, err := m.Run(ctx, IntentFetchNext)
	return err
}

// Dispose detaches the machine from its screen. Pending requests settle as no-ops.
func (m *Machine[T]) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposed = true
}

// Visualize renders the transition table as a graphviz digraph.
func (m *Machine[T]) Visualize() string {
	return fsm.Visualize(m.fsm)
}
