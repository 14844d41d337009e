package models

import (
	"bufio"
	"fmt"
	"strings"
)

// TaxonomyRootName labels the synthetic root every taxonomy hangs from.
const TaxonomyRootName = "Taxonomy"

// TaxonomyNode is one class in a taxonomy. Parent is -1 for the root.
type TaxonomyNode struct {
	Name     string `json:"name" yaml:"name"`
	Parent   int    `json:"parent" yaml:"parent"`
	Children []int  `json:"children,omitempty" yaml:"children,omitempty"`
}

// Taxonomy is an ordered tree of class names stored as an arena.
// Node 0 is always the synthetic root.
type Taxonomy struct {
	Comments string         `json:"comments,omitempty" yaml:"comments,omitempty"`
	Nodes    []TaxonomyNode `json:"nodes" yaml:"nodes"`
}

// NewTaxonomy returns a taxonomy holding only its root.
func NewTaxonomy() *Taxonomy {
	return &Taxonomy{
		Nodes: []TaxonomyNode{{Name: TaxonomyRootName, Parent: -1}},
	}
}

// Root returns the index of the root node.
func (t *Taxonomy) Root() int { return 0 }

// AddChild appends a class under parent and returns its index.
func (t *Taxonomy) AddChild(parent int, name string) int {
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, TaxonomyNode{Name: name, Parent: parent})
	t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	return idx
}

// Children returns the child indexes of node i in document order.
func (t *Taxonomy) Children(i int) []int {
	return t.Nodes[i].Children
}

// Depth returns the number of levels below the root.
func (t *Taxonomy) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		deepest := 0
		for _, c := range t.Nodes[i].Children {
			if d := walk(c) + 1; d > deepest {
				deepest = d
			}
		}
		return deepest
	}
	return walk(t.Root())
}

// Leaves returns the names of all leaf classes in depth-first order.
func (t *Taxonomy) Leaves() []string {
	var leaves []string
	var walk func(i int)
	walk = func(i int) {
		if i != t.Root() && len(t.Nodes[i].Children) == 0 {
			leaves = append(leaves, t.Nodes[i].Name)
			return
		}
		for _, c := range t.Nodes[i].Children {
			walk(c)
		}
	}
	walk(t.Root())
	return leaves
}

// Paths returns every root-to-leaf path with labels joined by "/".
func (t *Taxonomy) Paths() []string {
	var paths []string
	var walk func(i int, prefix []string)
	walk = func(i int, prefix []string) {
		if i != t.Root() {
			prefix = append(prefix, t.Nodes[i].Name)
			if len(t.Nodes[i].Children) == 0 {
				paths = append(paths, strings.Join(prefix, "/"))
				return
			}
		}
		for _, c := range t.Nodes[i].Children {
			walk(c, prefix[:len(prefix):len(prefix)])
		}
	}
	walk(t.Root(), nil)
	return paths
}

const taxonomyDoctype = `<?xml version="1.0"?>
<!DOCTYPE taxonomy_file [
   <!ELEMENT taxonomy_file (comments, parent_class+)>
   <!ELEMENT comments (#PCDATA)>
   <!ELEMENT parent_class (class_name, sub_class*)>
   <!ELEMENT class_name (#PCDATA)>
   <!ELEMENT sub_class (class_name, sub_class*)>
]>

`

// Save writes the taxonomy as a taxonomy_file document.
func (t *Taxonomy) Save(path string, overwrite bool) error {
	return writeXMLFile(path, overwrite, func(w *bufio.Writer) error {
		w.WriteString(taxonomyDoctype)
		w.WriteString("<" + RootTaxonomy + ">\n\n")
		fmt.Fprintf(w, "   <comments>%s</comments>\n\n", escape(t.Comments))
		for _, c := range t.Children(t.Root()) {
			w.WriteString("   <parent_class>\n")
			t.writeClass(w, c, 2)
			w.WriteString("   </parent_class>\n\n")
		}
		_, err := w.WriteString("</" + RootTaxonomy + ">\n")
		return err
	})
}

func (t *Taxonomy) writeClass(w *bufio.Writer, i, depth int) {
	indent := strings.Repeat("   ", depth)
	fmt.Fprintf(w, "%s<class_name>%s</class_name>\n", indent, escape(t.Nodes[i].Name))
	for _, c := range t.Nodes[i].Children {
		fmt.Fprintf(w, "%s<sub_class>\n", indent)
		t.writeClass(w, c, depth+1)
		fmt.Fprintf(w, "%s</sub_class>\n", indent)
	}
}
