package blog

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/loading"
	. "github.com/smartystreets/goconvey/convey"
)

const base = "https://ent.example.org"

func testClient() *api.Client {
	c, err := api.New(base, api.StaticToken("t"), api.WithHTTPClient(&http.Client{}))
	if err != nil {
		panic(err)
	}
	return c
}

func post(id string) map[string]any {
	return map[string]any{
		"_id":              id,
		"title":            "Post " + id,
		"author":           map[string]any{"username": "Ms Green"},
		"content":          "<p>Hello</p>",
		"firstPublishDate": map[string]any{"$date": 1704067200000},
	}
}

func TestPosts(t *testing.T) {
	Convey("Given a blog with posts", t, func() {
		defer gock.Off()
		gock.New(base).
			Get("/blog/post/list/all/b1").
			MatchParam("page", "0").
			MatchParam("states", "PUBLISHED").
			Reply(http.StatusOK).
			JSON([]map[string]any{post("p1"), post("p2")})

		posts, err := Posts(context.Background(), testClient(), "b1", 0)

		Convey("Then they are adapted", func() {
			So(err, ShouldBeNil)
			So(posts, ShouldHaveLength, 2)
			So(posts[0].Author, ShouldEqual, "Ms Green")
			So(posts[0].Content, ShouldEqual, "Hello")
			So(posts[0].BlogID, ShouldEqual, "b1")
			So(posts[0].Published.Year(), ShouldEqual, 2024)
		})
	})
}

func TestFetcher(t *testing.T) {
	ctx := context.Background()

	Convey("Given no configured blog", t, func() {
		defer gock.Off()

		Convey("When blogs exist", func() {
			gock.New(base).Get("/blog/list/all").Reply(http.StatusOK).JSON([]map[string]any{
				{"_id": "old", "modified": map[string]any{"$date": 1600000000000}},
				{"_id": "new", "modified": map[string]any{"$date": 1700000000000}},
			})
			gock.New(base).Get("/blog/post/list/all/new").MatchParam("page", "0").Reply(http.StatusOK).JSON([]map[string]any{post("p1"), post("p2")})
			gock.New(base).Get("/blog/post/list/all/new").MatchParam("page", "1").Reply(http.StatusOK).JSON([]map[string]any{post("p2"), post("p3")})

			m := loading.New(loading.Options[Post]{Fetch: Fetcher(testClient(), ""), ID: ID})

			Convey("Then the latest blog is paged and merged", func() {
				So(m.Init(ctx), ShouldBeNil)
				So(m.FetchNext(ctx), ShouldBeNil)
				So(m.State(), ShouldEqual, loading.Done)
				So(m.Data(), ShouldHaveLength, 3)
				So(gock.IsDone(), ShouldBeTrue)
			})
		})

		Convey("When no blog exists", func() {
			gock.New(base).Get("/blog/list/all").Reply(http.StatusOK).JSON([]any{})

			_, err := Fetcher(testClient(), "")(ctx, 0)

			Convey("Then ErrNoBlog is returned", func() {
				So(errors.Is(err, ErrNoBlog), ShouldBeTrue)
			})
		})
	})
}
