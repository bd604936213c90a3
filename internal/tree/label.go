package tree

import (
	"fmt"
	"strings"
)

// Label renders an expression as compact source text. Statements render as
// their kind.
func (t *Tree) Label(id NodeID) string {
	var sb strings.Builder
	t.render(&sb, id)
	return sb.String()
}

func (t *Tree) render(sb *strings.Builder, id NodeID) {
	if !t.Valid(id) {
		return
	}
	n := &t.nodes[id]
	switch n.Kind {
	case KindName, KindField, KindThis, KindLiteral, KindOther:
		sb.WriteString(n.Name)
	case KindUnary:
		sb.WriteString(n.Op.String())
		t.renderOperand(sb, n.X)
	case KindBinary:
		t.renderOperand(sb, n.X)
		fmt.Fprintf(sb, " %s ", n.Op)
		t.renderOperand(sb, n.Y)
	case KindIncDec:
		if n.Prefix {
			sb.WriteString(n.Op.String())
			t.render(sb, n.X)
		} else {
			t.render(sb, n.X)
			sb.WriteString(n.Op.String())
		}
	case KindAssign:
		t.render(sb, n.X)
		fmt.Fprintf(sb, " %s= ", n.Op)
		t.render(sb, n.Y)
	case KindCall:
		sb.WriteString(n.Name)
		t.renderArgs(sb, n.List)
	case KindNew:
		sb.WriteString("new ")
		sb.WriteString(n.Name)
		t.renderArgs(sb, n.List)
	case KindConditional:
		t.renderOperand(sb, n.Cond)
		sb.WriteString(" ? ")
		t.renderOperand(sb, n.X)
		sb.WriteString(" : ")
		t.renderOperand(sb, n.Y)
	case KindCast:
		fmt.Fprintf(sb, "(%s) ", n.Name)
		t.renderOperand(sb, n.X)
	case KindIndex:
		t.renderOperand(sb, n.X)
		sb.WriteByte('[')
		t.render(sb, n.Y)
		sb.WriteByte(']')
	case KindInstanceOf:
		t.renderOperand(sb, n.X)
		sb.WriteString(" instanceof ")
		sb.WriteString(n.Name)
	default:
		sb.WriteString(n.Kind.String())
	}
}

func (t *Tree) renderOperand(sb *strings.Builder, id NodeID) {
	switch t.Kind(id) {
	case KindBinary, KindConditional, KindAssign, KindInstanceOf, KindCast:
		sb.WriteByte('(')
		t.render(sb, id)
		sb.WriteByte(')')
	default:
		t.render(sb, id)
	}
}

func (t *Tree) renderArgs(sb *strings.Builder, args []NodeID) {
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		t.render(sb, a)
	}
	sb.WriteByte(')')
}

// Describe returns a short human-readable name for a statement, such as
// "if statement - line 4". The line suffix is omitted without a line index.
func (t *Tree) Describe(id NodeID) string {
	if !t.Valid(id) {
		return "invalid"
	}
	n := &t.nodes[id]
	name := n.Kind.String()
	if n.Kind == KindExprStmt && t.Valid(n.X) {
		name = t.nodes[n.X].Kind.String()
	}
	if t.Lines == nil {
		return fmt.Sprintf("%s #%d", name, id)
	}
	return fmt.Sprintf("%s - line %d", name, t.Position(id).Line)
}
