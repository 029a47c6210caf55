package workspace

import (
	"sort"
	"strings"
)

// Folder is a workspace folder.
type Folder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}

// Node is a folder with its subfolders.
type Node struct {
	Folder
	Children []*Node
}

// Tree is the folder hierarchy. Folders whose parent is unknown are roots.
type Tree struct {
	Roots []*Node
	byID  map[string]*Node
}

// NewTree builds the hierarchy of folders, siblings ordered by name.
func NewTree(folders []Folder) *Tree {
	t := &Tree{byID: make(map[string]*Node, len(folders))}
	for _, f := range folders {
		t.byID[f.ID] = &Node{Folder: f}
	}

	for _, f := range folders {
		node := t.byID[f.ID]
		if parent, ok := t.byID[f.ParentID]; ok && f.ParentID != f.ID {
			parent.Children = append(parent.Children, node)
		} else {
			t.Roots = append(t.Roots, node)
		}
	}

	sortNodes(t.Roots)
	for _, node := range t.byID {
		sortNodes(node.Children)
	}
	return t
}

func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
}

// Len returns the number of folders.
func (t *Tree) Len() int {
	return len(t.byID)
}

// Find returns the folder id.
func (t *Tree) Find(id string) (*Node, bool) {
	node, ok := t.byID[id]
	return node, ok
}

// Path returns the slash separated names from the root down to id.
func (t *Tree) Path(id string) string {
	var names []string
	seen := make(map[string]bool)

	for node, ok := t.byID[id]; ok && !seen[node.ID]; node, ok = t.byID[node.ParentID] {
		seen[node.ID] = true
		names = append([]string{node.Name}, names...)
	}

	return "/" + strings.Join(names, "/")
}

// Walk visits every folder depth first with its depth.
func (t *Tree) Walk(visit func(node *Node, depth int)) {
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, node := range nodes {
			visit(node, depth)
			walk(node.Children, depth+1)
		}
	}
	walk(t.Roots, 0)
}
