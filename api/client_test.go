package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/h2non/gock"
	. "github.com/smartystreets/goconvey/convey"
)

const base = "https://ent.example.org"

type homework struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

func newTestClient(baseURL string) *Client {
	c, err := New(baseURL, StaticToken("secret"), WithHTTPClient(&http.Client{}))
	if err != nil {
		panic(err)
	}
	return c
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	Convey("Given a portal client", t, func() {
		defer gock.Off()
		c := newTestClient(base)

		Convey("When a GET succeeds", func() {
			gock.New(base).
				Get("/homeworks/list").
				MatchHeader("Authorization", "^Bearer secret$").
				MatchHeader("X-Request-Id", ".+").
				MatchHeader("Accept", "application/json").
				Reply(http.StatusOK).
				JSON([]map[string]string{{"_id": "h1", "title": "Maths"}})

			var got []homework
			err := c.Get(ctx, "/homeworks/list", nil, &got)

			Convey("Then the reply is decoded", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, []homework{{ID: "h1", Title: "Maths"}})
				So(gock.IsDone(), ShouldBeTrue)
			})
		})

		Convey("When query parameters are given", func() {
			gock.New(base).
				Get("/blog/post/list/all/b1").
				MatchParam("page", "2").
				MatchParam("states", "PUBLISHED").
				Reply(http.StatusOK).
				JSON([]any{})

			var got []homework
			err := c.Get(ctx, "/blog/post/list/all/b1", url.Values{"page": {"2"}, "states": {"PUBLISHED"}}, &got)

			Convey("Then they are sent", func() {
				So(err, ShouldBeNil)
				So(got, ShouldBeEmpty)
				So(gock.IsDone(), ShouldBeTrue)
			})
		})

		Convey("When a POST sends a body", func() {
			gock.New(base).
				Post("/presences/events").
				MatchType("json").
				JSON(map[string]any{"student_id": "s1"}).
				Reply(http.StatusCreated).
				JSON(map[string]any{"id": 7})

			var got struct {
				ID int `json:"id"`
			}
			err := c.Post(ctx, "/presences/events", map[string]any{"student_id": "s1"}, &got)

			Convey("Then the body is encoded and the reply decoded", func() {
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, 7)
			})
		})

		Convey("When the portal answers 401", func() {
			gock.New(base).Get("/auth/oauth2/userinfo").Reply(http.StatusUnauthorized)

			err := c.Get(ctx, "/auth/oauth2/userinfo", nil, nil)

			Convey("Then the error matches ErrUnauthorized", func() {
				So(errors.Is(err, ErrUnauthorized), ShouldBeTrue)

				var status *StatusError
				So(errors.As(err, &status), ShouldBeTrue)
				So(status.Code, ShouldEqual, http.StatusUnauthorized)
				So(status.Path, ShouldEqual, "/auth/oauth2/userinfo")
			})
		})

		Convey("When the portal answers 500", func() {
			gock.New(base).Delete("/workspace/documents/d1").Reply(http.StatusInternalServerError)

			err := c.Delete(ctx, "/workspace/documents/d1", nil)

			Convey("Then a status error is returned", func() {
				var status *StatusError
				So(errors.As(err, &status), ShouldBeTrue)
				So(status.Method, ShouldEqual, http.MethodDelete)
				So(errors.Is(err, ErrUnauthorized), ShouldBeFalse)
			})
		})

		Convey("When the reply is not JSON", func() {
			gock.New(base).Get("/timeline/lastNotifications").Reply(http.StatusOK).BodyString("<html>")

			var got []homework
			err := c.Get(ctx, "/timeline/lastNotifications", nil, &got)

			Convey("Then a decode error is returned", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "decode")
			})
		})
	})

	Convey("Given a portal mounted under a path", t, func() {
		defer gock.Off()
		c := newTestClient("ent.example.org/portal")

		gock.New(base).Get("/portal/homeworks/list").Reply(http.StatusOK).JSON([]any{})

		Convey("Then endpoint paths are resolved below it", func() {
			So(c.BaseURL(), ShouldEqual, base+"/portal/")
			So(c.Get(ctx, "/homeworks/list", nil, nil), ShouldBeNil)
			So(gock.IsDone(), ShouldBeTrue)
		})
	})

	Convey("Given a token source failing", t, func() {
		defer gock.Off()
		failing := errors.New("keyring locked")
		c, err := New(base, tokenFunc(func(context.Context) (string, error) { return "", failing }), WithHTTPClient(&http.Client{}))
		So(err, ShouldBeNil)

		Convey("Then no request is sent and the error is returned", func() {
			So(errors.Is(c.Get(ctx, "/homeworks/list", nil, nil), failing), ShouldBeTrue)
		})
	})

	Convey("Given an empty portal url", t, func() {
		_, err := New("  ", nil)

		Convey("Then New fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

type tokenFunc func(context.Context) (string, error)

func (f tokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }
