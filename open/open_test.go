package open

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	Convey("Given a portal base", t, func() {
		base := "https://ent.example.org/"

		Convey("Then portal paths are joined to it", func() {
			link, err := Resolve(base, "/blog#/view/b1/p1")
			So(err, ShouldBeNil)
			So(link, ShouldEqual, "https://ent.example.org/blog#/view/b1/p1")
		})

		Convey("Then absolute links are kept", func() {
			link, err := Resolve(base, "https://other.example.org/page")
			So(err, ShouldBeNil)
			So(link, ShouldEqual, "https://other.example.org/page")
		})

		Convey("Then an empty link is refused", func() {
			_, err := Resolve(base, "")
			So(err, ShouldNotBeNil)
		})
	})
}
