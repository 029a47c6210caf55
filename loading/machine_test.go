package loading

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type entry struct {
	ID   string
	Date string
}

func entryID(e entry) string { return e.ID }

// scripted replies to page requests in order and records the pages asked for.
type scripted struct {
	replies []reply
	pages   []int
}

type reply struct {
	items []entry
	err   error
}

func (s *scripted) fetch(_ context.Context, page int) ([]entry, error) {
	s.pages = append(s.pages, page)
	if len(s.replies) == 0 {
		return nil, errors.New("unexpected fetch")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.items, r.err
}

func newScripted(replies ...reply) (*scripted, *Machine[entry]) {
	s := &scripted{replies: replies}
	m := New(Options[entry]{Name: "test", Fetch: s.fetch, ID: entryID})
	return s, m
}

var errNetwork = errors.New("network unreachable")

func TestMachineInit(t *testing.T) {
	ctx := context.Background()

	Convey("Given a pristine machine", t, func() {
		list := []entry{{ID: "a"}, {ID: "b"}}

		Convey("When the first load resolves", func() {
			_, m := newScripted(reply{items: list})
			So(m.State(), ShouldEqual, Pristine)
			So(m.Init(ctx), ShouldBeNil)

			Convey("Then the list is displayed", func() {
				So(m.State(), ShouldEqual, Done)
				So(m.Data(), ShouldResemble, list)
				So(m.Err(), ShouldBeNil)
			})
		})

		Convey("When the first load rejects", func() {
			_, m := newScripted(reply{err: errNetwork})
			So(m.Init(ctx), ShouldBeNil)

			Convey("Then only the error view is rendered", func() {
				So(m.State(), ShouldEqual, InitFailed)
				So(m.Err(), ShouldEqual, errNetwork)
				So(m.Data(), ShouldBeEmpty)
				So(m.Presentation(), ShouldResemble, Presentation{ErrorView: true})
			})

			Convey("And a successful retry displays the retried data", func() {
				_, m := newScripted(reply{err: errNetwork}, reply{items: list})
				So(m.Init(ctx), ShouldBeNil)
				So(m.Retry(ctx), ShouldBeNil)
				So(m.State(), ShouldEqual, Done)
				So(m.Data(), ShouldResemble, list)
				So(m.Presentation().ErrorView, ShouldBeFalse)
			})

			Convey("And a failed retry goes back to the error view", func() {
				_, m := newScripted(reply{err: errNetwork}, reply{err: errNetwork})
				So(m.Init(ctx), ShouldBeNil)
				So(m.Retry(ctx), ShouldBeNil)
				So(m.State(), ShouldEqual, InitFailed)
			})
		})

		Convey("Intents other than init are refused", func() {
			_, m := newScripted()
			So(errors.Is(m.Refresh(ctx, false), ErrNotAllowed), ShouldBeTrue)
			So(errors.Is(m.Retry(ctx), ErrNotAllowed), ShouldBeTrue)
			So(errors.Is(m.FetchNext(ctx), ErrNotAllowed), ShouldBeTrue)
			So(m.State(), ShouldEqual, Pristine)
		})
	})
}

func TestMachineRefresh(t *testing.T) {
	ctx := context.Background()

	Convey("Given a loaded machine", t, func() {
		l1 := []entry{{ID: "a"}, {ID: "b"}}
		l2 := []entry{{ID: "c"}}

		Convey("A refresh that rejects keeps the data", func() {
			_, m := newScripted(reply{items: l1}, reply{err: errNetwork})
			So(m.Init(ctx), ShouldBeNil)
			out, err := m.Run(ctx, IntentRefresh)
			So(err, ShouldBeNil)
			So(out.Toast, ShouldBeTrue)
			So(m.State(), ShouldEqual, RefreshFailed)
			So(m.Data(), ShouldResemble, l1)
			So(m.Presentation(), ShouldResemble, Presentation{List: true, ErrorSignal: true})
		})

		Convey("A silent refresh that rejects also keeps the data", func() {
			_, m := newScripted(reply{items: l1}, reply{err: errNetwork})
			So(m.Init(ctx), ShouldBeNil)
			So(m.Refresh(ctx, true), ShouldBeNil)
			So(m.State(), ShouldEqual, RefreshFailed)
			So(m.Data(), ShouldResemble, l1)
		})

		Convey("A refresh that resolves replaces the data", func() {
			s, m := newScripted(reply{items: l1}, reply{items: l2})
			So(m.Init(ctx), ShouldBeNil)
			So(m.Refresh(ctx, false), ShouldBeNil)
			So(m.State(), ShouldEqual, Done)
			So(m.Data(), ShouldResemble, l2)
			So(s.pages, ShouldResemble, []int{0, 0})
		})

		Convey("Recovering from a failed refresh always goes through REFRESH", func() {
			_, m := newScripted(reply{items: l1}, reply{err: errNetwork}, reply{items: l2})
			So(m.Init(ctx), ShouldBeNil)
			So(m.Refresh(ctx, false), ShouldBeNil)

			req, err := m.Begin(IntentRetry)
			So(err, ShouldBeNil)
			So(req.State, ShouldEqual, Refresh)
			So(m.Data(), ShouldResemble, l1)

			out := m.Settle(req, l2, nil)
			So(out.State, ShouldEqual, Done)
			So(m.Data(), ShouldResemble, l2)
		})
	})
}

func TestMachinePagination(t *testing.T) {
	ctx := context.Background()

	Convey("Given a loaded first page", t, func() {
		page0 := []entry{{ID: "a", Date: "2024-01-01"}}
		page1 := []entry{{ID: "a", Date: "2024-01-01"}, {ID: "b", Date: "2024-01-02"}}

		Convey("An overlapping next page is merged without duplicates", func() {
			s, m := newScripted(reply{items: page0}, reply{items: page1})
			So(m.Init(ctx), ShouldBeNil)
			So(m.FetchNext(ctx), ShouldBeNil)
			So(m.State(), ShouldEqual, Done)
			So(m.Data(), ShouldResemble, []entry{{ID: "a", Date: "2024-01-01"}, {ID: "b", Date: "2024-01-02"}})
			So(s.pages, ShouldResemble, []int{0, 1})
		})

		Convey("Fetching the same page twice does not duplicate items", func() {
			_, m := newScripted(reply{items: page0}, reply{items: page1}, reply{items: page1})
			So(m.Init(ctx), ShouldBeNil)
			So(m.FetchNext(ctx), ShouldBeNil)
			So(m.FetchNext(ctx), ShouldBeNil)
			So(m.Data(), ShouldHaveLength, 2)
		})

		Convey("A second fetch-next while one is pending is refused", func() {
			_, m := newScripted(reply{items: page0})
			So(m.Init(ctx), ShouldBeNil)
			req, err := m.Begin(IntentFetchNext)
			So(err, ShouldBeNil)
			So(m.Presentation(), ShouldResemble, Presentation{List: true, FooterLoader: true})

			_, err = m.Begin(IntentFetchNext)
			So(errors.Is(err, ErrNotAllowed), ShouldBeTrue)
			So(m.State(), ShouldEqual, FetchNext)

			m.Settle(req, page1, nil)
			So(m.Data(), ShouldHaveLength, 2)
		})

		Convey("A failed page keeps the list and the next attempt appends after it", func() {
			s, m := newScripted(
				reply{items: page0},
				reply{err: errNetwork},
				reply{items: []entry{{ID: "b"}, {ID: "c"}}},
			)
			So(m.Init(ctx), ShouldBeNil)

			So(m.FetchNext(ctx), ShouldBeNil)
			So(m.State(), ShouldEqual, FetchNextFailed)
			So(m.Data(), ShouldResemble, page0)
			So(m.Presentation().FooterLoader, ShouldBeFalse)
			So(m.CanFetchNext(), ShouldBeTrue)

			So(m.FetchNext(ctx), ShouldBeNil)
			So(m.State(), ShouldEqual, Done)
			So(m.Data(), ShouldResemble, []entry{{ID: "a", Date: "2024-01-01"}, {ID: "b"}, {ID: "c"}})
			So(s.pages, ShouldResemble, []int{0, 1, 1})
			So(m.Page(), ShouldEqual, 1)
		})

		Convey("An empty page ends the list", func() {
			_, m := newScripted(reply{items: page0}, reply{items: nil})
			So(m.Init(ctx), ShouldBeNil)
			So(m.FetchNext(ctx), ShouldBeNil)
			So(m.CanFetchNext(), ShouldBeFalse)
			So(errors.Is(m.FetchNext(ctx), ErrNoMorePages), ShouldBeTrue)
		})

		Convey("A short page ends the list when a page size is set", func() {
			s := &scripted{replies: []reply{{items: page0}}}
			m := New(Options[entry]{Fetch: s.fetch, ID: entryID, PageSize: 10})
			So(m.Init(ctx), ShouldBeNil)
			So(m.CanFetchNext(), ShouldBeFalse)
		})

		Convey("A single page list never asks for page one", func() {
			s := &scripted{replies: []reply{{items: page1}, {items: page0}}}
			m := New(Options[entry]{Fetch: s.fetch, ID: entryID, SinglePage: true})
			So(m.Init(ctx), ShouldBeNil)
			So(m.CanFetchNext(), ShouldBeFalse)
			So(errors.Is(m.FetchNext(ctx), ErrNoMorePages), ShouldBeTrue)

			So(m.Refresh(ctx, false), ShouldBeNil)
			So(m.Data(), ShouldResemble, page0)
			So(m.CanFetchNext(), ShouldBeFalse)
			So(s.pages, ShouldResemble, []int{0, 0})
		})
	})
}

func TestMachineTickets(t *testing.T) {
	Convey("Given a machine with a request in flight", t, func() {
		m := New(Options[entry]{ID: entryID})
		req, err := m.Begin(IntentInit)
		So(err, ShouldBeNil)
		So(req.State, ShouldEqual, Init)
		So(req.Page, ShouldEqual, 0)

		Convey("The in-flight state is observable and valid", func() {
			So(m.State().Valid(), ShouldBeTrue)
			So(m.State().InFlight(), ShouldBeTrue)
		})

		Convey("Settling after dispose is a no-op", func() {
			m.Dispose()
			out := m.Settle(req, []entry{{ID: "a"}}, nil)
			So(out.Stale, ShouldBeTrue)
			So(m.State(), ShouldEqual, Init)
			So(m.Data(), ShouldBeEmpty)

			_, err := m.Begin(IntentRefresh)
			So(err, ShouldEqual, ErrDisposed)
		})

		Convey("Settling the same ticket twice applies it once", func() {
			So(m.Settle(req, []entry{{ID: "a"}}, nil).Stale, ShouldBeFalse)
			So(m.Settle(req, []entry{{ID: "b"}}, nil).Stale, ShouldBeTrue)
			So(m.Data(), ShouldResemble, []entry{{ID: "a"}})
		})

		Convey("A zero ticket is ignored", func() {
			So(m.Settle(Request{}, nil, nil).Stale, ShouldBeTrue)
		})
	})

	Convey("A machine without a fetcher fails its first load", t, func() {
		m := New(Options[entry]{})
		So(m.Init(context.Background()), ShouldBeNil)
		So(m.State(), ShouldEqual, InitFailed)
	})
}

func TestMachineStatesAreAlwaysValid(t *testing.T) {
	ctx := context.Background()

	Convey("Every reachable state is one of the declared values", t, func() {
		_, m := newScripted(
			reply{err: errNetwork},
			reply{items: []entry{{ID: "a"}}},
			reply{items: []entry{{ID: "b"}}},
			reply{err: errNetwork},
			reply{err: errNetwork},
			reply{items: []entry{{ID: "c"}}},
		)
		intents := []Intent{IntentInit, IntentRetry, IntentFetchNext, IntentFetchNext, IntentRefreshSilent, IntentRefresh}

		seen := []State{m.State()}
		for _, intent := range intents {
			req, err := m.Begin(intent)
			So(err, ShouldBeNil)
			seen = append(seen, m.State())
			items, fetchErr := m.opts.Fetch(ctx, req.Page)
			m.Settle(req, items, fetchErr)
			seen = append(seen, m.State())
		}

		for _, s := range seen {
			So(s.Valid(), ShouldBeTrue)
		}
		So(m.State(), ShouldEqual, Done)
		So(m.Data(), ShouldResemble, []entry{{ID: "c"}})
	})
}

func TestFocusIntent(t *testing.T) {
	ctx := context.Background()

	Convey("Focus initializes a pristine list and silently refreshes a loaded one", t, func() {
		_, m := newScripted(reply{items: []entry{{ID: "a"}}})

		intent, ok := m.FocusIntent()
		So(ok, ShouldBeTrue)
		So(intent, ShouldEqual, IntentInit)

		So(m.Init(ctx), ShouldBeNil)
		intent, ok = m.FocusIntent()
		So(ok, ShouldBeTrue)
		So(intent, ShouldEqual, IntentRefreshSilent)

		_, err := m.Begin(intent)
		So(err, ShouldBeNil)
		_, ok = m.FocusIntent()
		So(ok, ShouldBeFalse)
	})
}

func TestVisualize(t *testing.T) {
	Convey("The transition table renders as a digraph", t, func() {
		dot := New(Options[entry]{}).Visualize()
		So(dot, ShouldContainSubstring, "digraph")
		So(dot, ShouldContainSubstring, string(FetchNextFailed))
	})
}

func TestTransitions(t *testing.T) {
	Convey("Every edge joins declared states", t, func() {
		transitions := Transitions()
		So(transitions, ShouldNotBeEmpty)

		for _, tr := range transitions {
			So(tr.From.Valid(), ShouldBeTrue)
			So(tr.To.Valid(), ShouldBeTrue)
		}

		Convey("Pristine only leaves through init", func() {
			var from []Transition
			for _, tr := range transitions {
				if tr.From == Pristine {
					from = append(from, tr)
				}
			}
			So(from, ShouldHaveLength, 1)
			So(from[0].Event, ShouldEqual, string(IntentInit))
			So(from[0].To, ShouldEqual, Init)
		})

		Convey("Retry after a failed refresh reloads with the list kept", func() {
			So(transitions, ShouldContain, Transition{Event: string(IntentRetry), From: RefreshFailed, To: Refresh})
		})
	})
}
