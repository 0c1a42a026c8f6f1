package radix

import (
	"fmt"
	"strings"
)

// PrettyPrint renders the tree as the rooted ASCII drawing described
// in §6: one line per node, "○" marking it, children listed under
// their parent in sorted order with the standard "├── "/"└── "/
// "│   "/"    " connectors. formatValue renders a key-terminal's
// value; pass nil to use fmt.Sprintf("%v", ...). This is a diagnostic
// aid, not a wire format — deliberately hand-rolled rather than built
// on a general-purpose tree-drawing library, since the golden outputs
// in §8 must be reproduced byte-for-byte.
func (t *RadixTree[V]) PrettyPrint(formatValue func(V) string) string {
	if formatValue == nil {
		formatValue = func(v V) string { return fmt.Sprintf("%v", v) }
	}
	root := t.loadRoot()
	lines := []string{nodeGlyph(root, formatValue)}
	appendChildLines(&lines, root.Children(), "", formatValue)
	return strings.Join(lines, "\n")
}

func nodeGlyph[V any](n Node[V], formatValue func(V) string) string {
	var b strings.Builder
	b.WriteString("○")
	if n.Label() != "" {
		b.WriteString(" ")
		b.WriteString(n.Label())
	}
	if n.HasValue() {
		b.WriteString(" (")
		b.WriteString(formatValue(n.Value()))
		b.WriteString(")")
	}
	return b.String()
}

func appendChildLines[V any](lines *[]string, children []Node[V], prefix string, formatValue func(V) string) {
	for i, child := range children {
		last := i == len(children)-1
		connector, childPrefix := "├── ", prefix+"│   "
		if last {
			connector, childPrefix = "└── ", prefix+"    "
		}
		*lines = append(*lines, prefix+connector+nodeGlyph(child, formatValue))
		appendChildLines(lines, child.Children(), childPrefix, formatValue)
	}
}
