// Package render turns reviews into a structured description of the admin
// page markup. Nothing here touches a live document, so escaping and layout
// can be checked on plain values.
package render

import (
	"strings"

	"github.com/vultisig/feedback-portal/common"
)

// Node is one element of the rendered markup. Text is escaped when the node
// is serialised, Raw is emitted verbatim and must only carry trusted content.
type Node struct {
	Tag      string
	Class    string
	Style    string
	Text     string
	Raw      string
	Children []Node
}

func (n Node) HTML() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

// InnerHTML serialises the node content without its own tag.
func (n Node) InnerHTML() string {
	var sb strings.Builder
	n.writeContent(&sb)
	return sb.String()
}

func (n Node) write(sb *strings.Builder) {
	if n.Tag == "" {
		n.writeContent(sb)
		return
	}
	sb.WriteString("<")
	sb.WriteString(n.Tag)
	if n.Class != "" {
		sb.WriteString(` class="`)
		sb.WriteString(common.EscapeHTML(n.Class))
		sb.WriteString(`"`)
	}
	if n.Style != "" {
		sb.WriteString(` style="`)
		sb.WriteString(common.EscapeHTML(n.Style))
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	n.writeContent(sb)
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteString(">")
}

func (n Node) writeContent(sb *strings.Builder) {
	sb.WriteString(common.EscapeHTML(n.Text))
	sb.WriteString(n.Raw)
	for _, child := range n.Children {
		child.write(sb)
	}
}

// Find returns the first node, depth first, with the given class.
func (n Node) Find(class string) (Node, bool) {
	if n.Class == class {
		return n, true
	}
	for _, child := range n.Children {
		if found, ok := child.Find(class); ok {
			return found, true
		}
	}
	return Node{}, false
}

// HTML serialises a list of sibling nodes.
func HTML(nodes []Node) string {
	var sb strings.Builder
	for _, node := range nodes {
		node.write(&sb)
	}
	return sb.String()
}
