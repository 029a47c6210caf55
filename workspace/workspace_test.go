package workspace

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/api"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/filesystem"
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

func init() {
	filesystem.SetMemMapFs()
}

func TestDocuments(t *testing.T) {
	Convey("Given a folder content", t, func() {
		defer gock.Off()
		gock.New(base).
			Get("/workspace/documents").
			MatchParam("filter", "owner").
			MatchParam("parentId", "f1").
			Reply(http.StatusOK).
			JSON([]map[string]any{
				{"_id": "d2", "name": "notes.pdf", "eType": "file", "metadata": map[string]any{"size": 1500000, "content-type": "application/pdf"}},
				{"_id": "d1", "name": "Archive", "eType": "folder"},
				{"_id": "d3", "name": "agenda.txt", "eType": "file", "metadata": map[string]any{"size": 12}},
			})

		docs, err := Documents(context.Background(), testClient(), Owner, "f1")

		Convey("Then folders come first and names are sorted", func() {
			So(err, ShouldBeNil)
			So(docs, ShouldHaveLength, 3)
			So(docs[0].Name, ShouldEqual, "Archive")
			So(docs[0].HumanSize(), ShouldEqual, "-")
			So(docs[1].Name, ShouldEqual, "agenda.txt")
			So(docs[2].ContentType, ShouldEqual, "application/pdf")
			So(docs[2].HumanSize(), ShouldEqual, "1.5 MB")
		})
	})
}

func TestService(t *testing.T) {
	ctx := context.Background()

	Convey("Given a workspace service", t, func() {
		defer gock.Off()
		dir := "/cache/" + t.Name() + time.Now().Format("150405.000000000")
		s := NewService(testClient(), Owner, dir, time.Hour)

		gock.New(base).Get("/workspace/folders/list").MatchParam("filter", "owner").Times(1).Reply(http.StatusOK).
			JSON([]map[string]any{{"_id": "a", "name": "Courses"}, {"_id": "b", "name": "Maths", "eParent": "a"}})
		gock.New(base).Get("/workspace/quota/user/u1").Times(1).Reply(http.StatusOK).
			JSON(map[string]any{"storage": 250, "quota": 1000})

		Convey("When the overview is read twice", func() {
			first, err := s.Overview(ctx, "u1", false)
			So(err, ShouldBeNil)
			second, err := s.Overview(ctx, "u1", false)
			So(err, ShouldBeNil)

			Convey("Then the second read comes from the cache", func() {
				So(gock.IsDone(), ShouldBeTrue)
				So(first.Tree.Path("b"), ShouldEqual, "/Courses/Maths")
				So(second.Tree.Len(), ShouldEqual, 2)
				So(second.Quota, ShouldResemble, Quota{Used: 250, Total: 1000})
				So(second.Quota.Ratio(), ShouldAlmostEqual, 0.25)
				So(s.QuotaState().Data.IsPresent(), ShouldBeTrue)
			})
		})

		Convey("When another service reads the cached quota", func() {
			_, err := s.Quota(ctx, "u1", false)
			So(err, ShouldBeNil)

			other := NewService(testClient(), Owner, dir, time.Hour)
			quota, err := other.Quota(ctx, "u1", false)

			Convey("Then its quota state holds the cached value", func() {
				So(err, ShouldBeNil)
				So(quota, ShouldResemble, Quota{Used: 250, Total: 1000})
				So(other.QuotaState().Pristine, ShouldBeFalse)
				So(other.QuotaState().Data.MustGet(), ShouldResemble, quota)
			})
		})

		Convey("When the quota fails", func() {
			gock.Off()
			gock.New(base).Get("/workspace/folders/list").Reply(http.StatusOK).JSON([]any{})
			gock.New(base).Get("/workspace/quota/user/u1").Reply(http.StatusInternalServerError)

			_, err := s.Overview(ctx, "u1", true)

			Convey("Then the overview fails", func() {
				So(err, ShouldNotBeNil)
				So(s.QuotaState().Err, ShouldNotBeNil)
			})
		})

		Convey("When documents are listed through a machine", func() {
			gock.New(base).Get("/workspace/documents").Reply(http.StatusOK).JSON([]map[string]any{{"_id": "d1", "name": "a.txt"}})

			m := loading.New(loading.Options[Document]{Fetch: s.Fetcher(""), ID: ID})

			Convey("Then the root is loaded", func() {
				So(m.Init(ctx), ShouldBeNil)
				So(m.Data(), ShouldResemble, []Document{{ID: "d1", Name: "a.txt"}})
			})
		})
	})
}

func TestQuota(t *testing.T) {
	Convey("Quota", t, func() {
		So(Quota{Used: 5, Total: 0}.Ratio(), ShouldEqual, 0)
		So(Quota{Used: 20, Total: 10}.Ratio(), ShouldEqual, 1)
		So(Quota{Used: 1000, Total: 2000000}.String(), ShouldEqual, "1.0 kB / 2.0 MB")
	})
}
