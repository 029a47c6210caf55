package store

import (
	"context"
	"errors"
	"testing"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	. "github.com/smartystreets/goconvey/convey"
)

type note struct{ ID string }

func noteMachine(name string, items ...note) *loading.Machine[note] {
	return loading.New(loading.Options[note]{
		Name: name,
		Fetch: func(context.Context, int) ([]note, error) {
			return items, nil
		},
		ID: func(n note) string { return n.ID },
	})
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		s := New()

		Convey("When a machine is ensured twice", func() {
			created := 0
			create := func() *loading.Machine[note] {
				created++
				return noteMachine("mail", note{ID: "1"})
			}

			first := Ensure(s, "mail", create)
			second := Ensure(s, "mail", create)

			Convey("Then the same machine is reused", func() {
				So(created, ShouldEqual, 1)
				So(second, ShouldPointTo, first)
			})

			Convey("Then its state survives a remount", func() {
				So(first.Init(ctx), ShouldBeNil)
				again := Ensure(s, "mail", create)
				So(again.State(), ShouldEqual, loading.Done)
				So(again.Data(), ShouldResemble, []note{{ID: "1"}})
			})
		})

		Convey("When a machine is selected", func() {
			Ensure(s, "blog", func() *loading.Machine[note] { return noteMachine("blog") })

			Convey("Then the right element type is found", func() {
				m, ok := Select[note](s, "blog")
				So(ok, ShouldBeTrue)
				So(m.Name(), ShouldEqual, "blog")
			})

			Convey("Then another element type is not", func() {
				_, ok := Select[string](s, "blog")
				So(ok, ShouldBeFalse)
			})

			Convey("Then a missing key is not", func() {
				_, ok := Select[note](s, "nothing")
				So(ok, ShouldBeFalse)
				So(s.Get("nothing").IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("When a slice is detached", func() {
			m := noteMachine("timeline", note{ID: "n"})
			s.Attach("timeline", m)

			req, err := m.Begin(loading.IntentInit)
			So(err, ShouldBeNil)
			s.Detach("timeline")

			Convey("Then its pending result is dropped", func() {
				out := m.Settle(req, []note{{ID: "late"}}, nil)
				So(out.Stale, ShouldBeTrue)
				So(m.Data(), ShouldBeEmpty)
				So(s.Keys(), ShouldBeEmpty)
			})
		})

		Convey("When a key is attached again", func() {
			old := noteMachine("old")
			s.Attach("diary", old)
			s.Attach("diary", noteMachine("new"))

			Convey("Then the previous machine is disposed", func() {
				_, err := old.Begin(loading.IntentInit)
				So(errors.Is(err, loading.ErrDisposed), ShouldBeTrue)
			})
		})

		Convey("When several slices are attached", func() {
			failing := loading.New(loading.Options[note]{
				Fetch: func(context.Context, int) ([]note, error) { return nil, errors.New("down") },
			})
			s.Attach("b", failing)
			s.Attach("a", noteMachine("a", note{ID: "1"}, note{ID: "2"}))
			So(failing.Init(ctx), ShouldBeNil)
			m, _ := Select[note](s, "a")
			So(m.Init(ctx), ShouldBeNil)

			Convey("Then States reports each of them in key order", func() {
				states := s.States()
				So(states, ShouldHaveLength, 2)
				So(states[0].Key, ShouldEqual, Key("a"))
				So(states[0].State, ShouldEqual, loading.Done)
				So(states[0].Len, ShouldEqual, 2)
				So(states[1].State, ShouldEqual, loading.InitFailed)
				So(states[1].Err, ShouldNotBeNil)
			})

			Convey("Then Clear disposes all of them", func() {
				s.Clear()
				So(s.Keys(), ShouldBeEmpty)
				_, err := m.Begin(loading.IntentRefresh)
				So(errors.Is(err, loading.ErrDisposed), ShouldBeTrue)
			})
		})
	})
}
