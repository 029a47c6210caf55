package util

import (
	"testing"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "message", "messages"), ShouldEqual, "1 message")
		So(Quantify(0, "message", "messages"), ShouldEqual, "0 messages")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("timeline"), ShouldEqual, "Timeline")
		So(Capitalize("élève"), ShouldEqual, "Élève")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(5, 0, 3), ShouldEqual, 3)
		So(Clamp(-1, 0, 3), ShouldEqual, 0)
		So(Clamp(2, 0, 3), ShouldEqual, 2)
		So(Clamp(2, 0, -1), ShouldEqual, 0)
	})
}

func TestDelete(t *testing.T) {
	Convey("Given an in-memory tree", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		So(fs.MkdirAll("/cache/workspace", 0o755), ShouldBeNil)
		So(fs.WriteFile("/cache/workspace/folders.json", []byte("{}"), 0o644), ShouldBeNil)

		Convey("Then Delete removes directories recursively", func() {
			So(Delete("/cache"), ShouldBeNil)
			exists, err := fs.Exists("/cache/workspace/folders.json")
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})

		Convey("Then deleting a missing path fails", func() {
			So(Delete("/nothing"), ShouldNotBeNil)
		})
	})
}

func TestStack(t *testing.T) {
	Convey("Stack", t, func() {
		var s Stack[string]
		s.Push("menu")
		s.Push("mail")
		So(s.Len(), ShouldEqual, 2)
		So(s.Peek(), ShouldEqual, "mail")
		So(s.Pop(), ShouldEqual, "mail")
		So(s.Pop(), ShouldEqual, "menu")
		So(s.Pop(), ShouldEqual, "")
	})
}
