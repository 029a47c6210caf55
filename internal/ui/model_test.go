package ui

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notifier", t, func() {
		m := &Model{Lifetime: time.Second}

		Convey("When nothing was notified", func() {
			Convey("Then the view is untouched", func() {
				So(m.Active(), ShouldBeFalse)
				So(m.View("a\nb"), ShouldEqual, "a\nb")
			})
		})

		Convey("When a toast is shown", func() {
			cmd := m.Update(Notify("refresh failed", Warn)())

			Convey("Then it is displayed and expires later", func() {
				So(cmd, ShouldNotBeNil)
				So(m.Active(), ShouldBeTrue)
				So(m.Text(), ShouldEqual, "refresh failed")

				view := m.View(strings.Repeat("line\n", 9) + "line")
				So(view, ShouldContainSubstring, "refresh failed")
				So(strings.Count(view, "\n"), ShouldEqual, 9)
			})

			Convey("Then the expiry of an older toast keeps it", func() {
				m.Update(clearMsg{shownAt: m.shownAt.Add(-time.Second)})
				So(m.Active(), ShouldBeTrue)
			})

			Convey("Then its own expiry clears it", func() {
				m.Update(clearMsg{shownAt: m.shownAt})
				So(m.Active(), ShouldBeFalse)
			})
		})
	})
}
