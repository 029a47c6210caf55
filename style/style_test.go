package style

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRendering(t *testing.T) {
	Convey("Given rendering helpers", t, func() {
		Convey("Then they keep the text", func() {
			So(Bold("call"), ShouldContainSubstring, "call")
			So(Fg(AccentColor)("sheet"), ShouldContainSubstring, "sheet")
			So(Tag(Text, ErrorColor)("failed"), ShouldContainSubstring, "failed")
			So(Toast(WarningColor)("offline"), ShouldContainSubstring, "offline")
		})
	})
}
