package workspace

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTree(t *testing.T) {
	Convey("Given folders listed out of order", t, func() {
		tree := NewTree([]Folder{
			{ID: "c", Name: "chapter 1", ParentID: "b"},
			{ID: "b", Name: "Maths", ParentID: "a"},
			{ID: "a", Name: "Courses"},
			{ID: "z", Name: "Admin"},
			{ID: "o", Name: "Orphan", ParentID: "gone"},
		})

		Convey("Then roots are sorted by name", func() {
			names := make([]string, 0, len(tree.Roots))
			for _, root := range tree.Roots {
				names = append(names, root.Name)
			}
			So(names, ShouldResemble, []string{"Admin", "Courses", "Orphan"})
			So(tree.Len(), ShouldEqual, 5)
		})

		Convey("Then paths go from the root down", func() {
			So(tree.Path("c"), ShouldEqual, "/Courses/Maths/chapter 1")
			So(tree.Path("o"), ShouldEqual, "/Orphan")
			So(tree.Path("missing"), ShouldEqual, "/")
		})

		Convey("Then Walk visits depth first", func() {
			var visited []string
			var depths []int
			tree.Walk(func(node *Node, depth int) {
				visited = append(visited, node.ID)
				depths = append(depths, depth)
			})
			So(visited, ShouldResemble, []string{"z", "a", "b", "c", "o"})
			So(depths, ShouldResemble, []int{0, 0, 1, 2, 0})
		})

		Convey("Then Find returns the node", func() {
			node, ok := tree.Find("b")
			So(ok, ShouldBeTrue)
			So(node.Children, ShouldHaveLength, 1)
		})
	})

	Convey("Given a folder cycle", t, func() {
		tree := NewTree([]Folder{
			{ID: "a", Name: "A", ParentID: "b"},
			{ID: "b", Name: "B", ParentID: "a"},
		})

		Convey("Then Path terminates", func() {
			So(tree.Path("a"), ShouldEqual, "/B/A")
		})
	})
}
