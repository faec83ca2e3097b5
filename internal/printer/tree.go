package printer

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/emergentmethods/flowctl/domain/value"
)

var bold = color.New(color.Bold).SprintFunc()

// Node is one line of a tree and its children.
type Node struct {
	Label    string
	Children []*Node
}

// Add appends a child labelled label and returns it.
func (n *Node) Add(label string) *Node {
	c := &Node{Label: label}
	n.Children = append(n.Children, c)
	return c
}

// AddValue appends key with v below n. Mappings and sequences become
// subtrees; scalars are printed inline as "key: value".
func (n *Node) AddValue(key string, v value.Value) {
	switch x := v.(type) {
	case *value.Map:
		sub := n.Add(bold(key))
		x.Range(func(k string, cv value.Value) bool {
			sub.AddValue(k, cv)
			return true
		})
	case *value.List:
		sub := n.Add(fmt.Sprintf("%s (%d items)", bold(key), x.Len()))
		for _, item := range x.Items() {
			sub.AddValue("┐", item)
		}
	default:
		s, _ := value.Text(v)
		n.Add(fmt.Sprintf("%s: %s", bold(key), s))
	}
}

// Tree prints root and its descendants with box drawing guides.
func (p *Printer) Tree(root *Node) error {
	var b strings.Builder
	b.WriteString(root.Label)
	b.WriteByte('\n')
	writeChildren(&b, root.Children, "")
	_, err := fmt.Fprint(p.Out, b.String())
	return err
}

func writeChildren(b *strings.Builder, children []*Node, prefix string) {
	for i, c := range children {
		branch, next := "├── ", "│   "
		if i == len(children)-1 {
			branch, next = "└── ", "    "
		}
		b.WriteString(prefix + branch + c.Label + "\n")
		writeChildren(b, c.Children, prefix+next)
	}
}
