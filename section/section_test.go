package section

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/key"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/mail"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/presences"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/store"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/timeline"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/user"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

const base = "https://ent.example.org"

func testEnv() *Env {
	c, err := api.New(base, api.StaticToken("t"), api.WithHTTPClient(&http.Client{}))
	if err != nil {
		panic(err)
	}
	return &Env{
		Client: c,
		Users:  user.NewCache(c),
		Now:    func() time.Time { return time.Date(2024, time.January, 8, 7, 30, 0, 0, time.UTC) },
	}
}

func notifications(ids ...string) map[string]any {
	results := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		results = append(results, map[string]any{"_id": id, "type": "BLOG", "message": "post " + id})
	}
	return map[string]any{"status": "ok", "results": results}
}

func TestRegistry(t *testing.T) {
	Convey("Given the registry", t, func() {
		Convey("Then sections are listed in menu order", func() {
			So(Names(), ShouldResemble, []string{"timeline", "mail", "diary", "blog", "presences", "workspace"})
		})

		Convey("Then sections are found by name", func() {
			e, ok := Get("mail")
			So(ok, ShouldBeTrue)
			So(e.Key(), ShouldEqual, store.Key("mail"))
			So(e.Sample(), ShouldResemble, []mail.Message{})

			_, ok = Get("grades")
			So(ok, ShouldBeFalse)
		})

		Convey("Then tracking a section mounts one machine per store", func() {
			st := store.New()
			env := testEnv()

			tracker := Timeline.Track(st, env)
			So(tracker.State(), ShouldEqual, loading.Pristine)
			So(st.Get(Timeline.Key()).IsPresent(), ShouldBeTrue)

			m, ok := store.Select[timeline.Notification](st, Timeline.Key())
			So(ok, ShouldBeTrue)
			So(Timeline.Track(st, env), ShouldEqual, m)
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given entries to display", t, func() {
		viper.Set(key.IconsVariant, "plain")

		Convey("Then an unread message is marked", func() {
			item := Mail.Render(mail.Message{From: "Mr Smith", Unread: true, HasAttachment: true})
			So(item.Title, ShouldEqual, "(no subject)")
			So(item.Description, ShouldEqual, "Mr Smith")
			So(item.Mark, ShouldEqual, "*")
			So(item.FilterValue(), ShouldContainSubstring, "Smith")
		})

		Convey("Then a course without register is flagged", func() {
			start := api.Time{Time: time.Date(2024, time.January, 8, 8, 0, 0, 0, time.UTC)}
			end := api.Time{Time: start.Add(time.Hour)}
			item := Presences.Render(presences.Course{Subject: "Maths", Classes: []string{"6A"}, Start: start, End: end})
			So(item.Title, ShouldEqual, "Maths · 6A")
			So(item.Description, ShouldEqual, "Mon 08 Jan 08:00-09:00")
			So(item.Mark, ShouldEqual, "?")
		})
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given a timeline of two pages", t, func() {
		defer gock.Off()
		viper.Set(key.TimelineTypes, []string{})
		gock.New(base).Get("/timeline/lastNotifications").MatchParam("page", "0").Reply(http.StatusOK).JSON(notifications("n1", "n2"))
		gock.New(base).Get("/timeline/lastNotifications").MatchParam("page", "1").Reply(http.StatusOK).JSON(notifications("n3"))
		gock.New(base).Get("/timeline/lastNotifications").MatchParam("page", "2").Reply(http.StatusOK).JSON(notifications())

		st := store.New()
		listing := Timeline.Load(ctx, st, testEnv(), 5)

		Convey("Then pages are fetched until the end", func() {
			So(listing.Err, ShouldBeNil)
			So(listing.State, ShouldEqual, loading.Done)
			So(listing.Rows, ShouldHaveLength, 3)
			So(listing.Pages, ShouldEqual, 3)
			So(listing.Rows[2].Value.(timeline.Notification).ID, ShouldEqual, "n3")
		})

		Convey("Then the machine stays in the store", func() {
			m, ok := store.Select[timeline.Notification](st, Timeline.Key())
			So(ok, ShouldBeTrue)
			So(m.Len(), ShouldEqual, 3)
		})
	})

	Convey("Given a portal down", t, func() {
		defer gock.Off()
		gock.New(base).Get("/timeline/lastNotifications").Reply(http.StatusBadGateway)

		listing := Timeline.Load(ctx, store.New(), testEnv(), 1)

		Convey("Then the listing carries the failure", func() {
			So(listing.State, ShouldEqual, loading.InitFailed)
			So(listing.Rows, ShouldBeEmpty)
			var status *api.StatusError
			So(errors.As(listing.Err, &status), ShouldBeTrue)
		})
	})

	Convey("Given a student account", t, func() {
		defer gock.Off()
		gock.New(base).Get("/auth/oauth2/userinfo").Reply(http.StatusOK).JSON(map[string]any{"userId": "u1", "type": "Student"})

		listing := Presences.Load(ctx, store.New(), testEnv(), 1)

		Convey("Then call sheets are refused", func() {
			So(errors.Is(listing.Err, ErrNotTeacher), ShouldBeTrue)
		})
	})

	Convey("Given a teacher account", t, func() {
		defer gock.Off()
		gock.New(base).Get("/auth/oauth2/userinfo").Reply(http.StatusOK).
			JSON(map[string]any{"userId": "t1", "type": []string{"Teacher"}, "structures": []string{"s1"}})
		gock.New(base).Get("/viescolaire/common/courses/t1/2024-01-08/2024-01-08").MatchParam("structureId", "s1").Reply(http.StatusOK).
			JSON([]map[string]any{{"_id": "c1", "subjectName": "Maths", "startDate": "2024-01-08 08:00:00"}})
		viper.Set(key.PresencesStructure, "")
		viper.Set(key.PresencesDays, 1)

		st := store.New()
		listing := Presences.Load(ctx, st, testEnv(), 3)

		Convey("Then today's courses are listed", func() {
			So(listing.Err, ShouldBeNil)
			So(listing.Rows, ShouldHaveLength, 1)
		})

		Convey("Then the list ends with its only page", func() {
			So(listing.State, ShouldEqual, loading.Done)
			So(listing.Pages, ShouldEqual, 1)

			m, ok := store.Select[presences.Course](st, Presences.Key())
			So(ok, ShouldBeTrue)
			So(m.CanFetchNext(), ShouldBeFalse)
		})
	})
}
