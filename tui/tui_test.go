package tui

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/h2non/gock"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/internal/ui"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/section"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/store"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/user"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

const base = "https://ent.example.org"

func testEnv() *section.Env {
	c, err := api.New(base, api.StaticToken("t"), api.WithHTTPClient(&http.Client{}))
	if err != nil {
		panic(err)
	}
	return &section.Env{
		Client: c,
		Users:  user.NewCache(c),
		Now:    time.Now,
	}
}

func notifications(ids ...string) map[string]any {
	results := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		results = append(results, map[string]any{"_id": id, "type": "BLOG", "message": "post " + id})
	}
	return map[string]any{"status": "ok", "results": results}
}

// run executes cmd and the commands it batches, returning their messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}

	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, run(c)...)
	}
	return msgs
}

func settled(msgs []tea.Msg) []settledMsg {
	var out []settledMsg
	for _, m := range msgs {
		if s, ok := m.(settledMsg); ok {
			out = append(out, s)
		}
	}
	return out
}

func TestListScreen(t *testing.T) {
	Convey("Given the timeline screen", t, func() {
		defer gock.Off()
		gock.New(base).Get("/timeline/lastNotifications").MatchParam("page", "0").
			Reply(http.StatusOK).JSON(notifications("n1", "n2"))

		st := store.New()
		scr := newListScreen(context.Background(), section.Timeline, st, testEnv(), list.New(nil, list.NewDefaultDelegate(), 80, 20))

		Convey("When the init request settles", func() {
			msgs := run(scr.issue(loading.IntentInit))
			So(scr.state(), ShouldEqual, loading.Init)
			So(msgs, ShouldHaveLength, 1)

			out := msgs[0].(settledMsg).settle()
			scr.sync()

			Convey("Then the list shows the loaded rows", func() {
				So(out.State, ShouldEqual, loading.Done)
				So(scr.list().Items(), ShouldHaveLength, 2)
				row, ok := scr.selected().Get()
				So(ok, ShouldBeTrue)
				So(row.Item.Title, ShouldEqual, "post n1")
			})

			Convey("Then the screen is bound to the store slice", func() {
				tracker, ok := st.Get(section.Timeline.Key()).Get()
				So(ok, ShouldBeTrue)
				So(tracker.Len(), ShouldEqual, 2)
			})
		})

		Convey("When an intent is not allowed", func() {
			Convey("Then nothing is fetched", func() {
				So(scr.issue(loading.IntentRefresh), ShouldBeNil)
				So(scr.state(), ShouldEqual, loading.Pristine)
			})
		})

		Convey("When a request is superseded by the store being cleared", func() {
			cmd := scr.issue(loading.IntentInit)
			st.Clear()
			out := settled(run(cmd))[0].settle()

			Convey("Then its result is dropped", func() {
				So(out.Stale, ShouldBeTrue)
			})
		})
	})
}

func TestBubble(t *testing.T) {
	Convey("Given the interface on its menu", t, func() {
		defer gock.Off()
		viper.Set(key.TUIFetchNextThreshold, 3)
		viper.Set(key.TUIRefreshOnFocus, true)
		defer viper.Reset()

		gock.New(base).Get("/timeline/lastNotifications").MatchParam("page", "0").
			Reply(http.StatusOK).JSON(notifications("n1", "n2"))
		gock.New(base).Get("/timeline/lastNotifications").MatchParam("page", "1").
			Reply(http.StatusBadGateway)

		st := store.New()
		b := newBubble(&Options{Context: context.Background(), Store: st, Env: testEnv()})
		b.setState(menuState)

		So(b.menuC.Items(), ShouldHaveLength, len(section.All()))

		Convey("When the timeline is opened", func() {
			msgs := settled(run(b.open(section.Timeline)))

			Convey("Then a full screen loader is shown", func() {
				So(b.state, ShouldEqual, listState)
				So(loading.Present(b.current.state()).FullScreenLoader, ShouldBeTrue)
				So(msgs, ShouldHaveLength, 1)
			})

			Convey("Then the first page fills the list and the next one is requested", func() {
				_, cmd := b.Update(msgs[0])
				So(b.current.state(), ShouldEqual, loading.FetchNext)
				So(b.current.list().Items(), ShouldHaveLength, 2)

				next := settled(run(cmd))
				So(next, ShouldHaveLength, 1)

				Convey("Then a pagination failure keeps the list and raises a toast", func() {
					_, cmd := b.Update(next[0])
					So(b.current.state(), ShouldEqual, loading.FetchNextFailed)
					So(b.current.list().Items(), ShouldHaveLength, 2)

					var toasts []ui.ToastMsg
					for _, m := range run(cmd) {
						if tm, ok := m.(ui.ToastMsg); ok {
							toasts = append(toasts, tm)
						}
					}
					So(toasts, ShouldHaveLength, 1)
					So(toasts[0].Text, ShouldContainSubstring, "could not load more")

					b.Update(toasts[0])
					So(b.notifier.Active(), ShouldBeTrue)
				})
			})

			Convey("Then going back returns to the menu with the slice status", func() {
				b.Update(msgs[0])
				b.Update(tea.KeyMsg{Type: tea.KeyEsc})

				So(b.state, ShouldEqual, menuState)
				item := b.menuC.Items()[0].(*listItem)
				So(item.tracker.IsPresent(), ShouldBeTrue)
			})
		})
	})
}

func TestErrorView(t *testing.T) {
	Convey("Given a timeline that fails to load", t, func() {
		defer gock.Off()
		gock.New(base).Get("/timeline/lastNotifications").Reply(http.StatusInternalServerError)
		gock.New(base).Get("/timeline/lastNotifications").Reply(http.StatusOK).JSON(notifications("n1"))

		b := newBubble(&Options{Context: context.Background(), Store: store.New(), Env: testEnv()})
		b.setState(menuState)
		b.Update(settled(run(b.open(section.Timeline)))[0])

		Convey("Then the error view is shown", func() {
			So(b.current.state(), ShouldEqual, loading.InitFailed)
			So(b.keymap.retryable, ShouldBeTrue)
			So(b.View(), ShouldContainSubstring, "Could not load timeline")
		})

		Convey("When enter is pressed", func() {
			_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyEnter})
			So(b.current.state(), ShouldEqual, loading.Retry)

			b.Update(settled(run(cmd))[0])

			Convey("Then the retry recovers the list", func() {
				So(b.current.state().HasData(), ShouldBeTrue)
				So(b.current.err(), ShouldBeNil)
				So(b.keymap.retryable, ShouldBeFalse)
				So(b.current.list().Items(), ShouldHaveLength, 1)
			})
		})
	})
}
