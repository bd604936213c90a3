// Package java is the Java front end. It parses source files with the
// tree-sitter Java grammar and translates every method and constructor body
// into a tree.Tree.
package java

import (
	"context"
	"fmt"
	"go/token"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/mjp2ff/aid-sub000/internal/frontend"
	"github.com/mjp2ff/aid-sub000/internal/nolint"
	"github.com/mjp2ff/aid-sub000/internal/tree"
)

// Frontend parses Java files. It is safe for concurrent use: each Parse
// call creates its own tree-sitter parser.
type Frontend struct {
	opts frontend.Options
}

func New(opts frontend.Options) *Frontend {
	return &Frontend{opts: opts}
}

func (*Frontend) Language() string { return "java" }

func (*Frontend) Extensions() []string { return []string{".java"} }

// Parse extracts every method and constructor declared in a class,
// interface, enum or record body of src. Methods containing syntax errors
// are skipped and listed in File.Errors.
func (f *Frontend) Parse(ctx context.Context, path string, src []byte) (*frontend.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	st, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", frontend.ErrParseFailed, path, err)
	}
	defer st.Close()

	root := st.RootNode()
	if root == nil {
		return nil, fmt.Errorf("%w: %s: empty syntax tree", frontend.ErrParseFailed, path)
	}

	fp := &fileParser{
		src:    src,
		lines:  tree.NewLineIndex(path, src),
		opts:   f.opts,
		hier:   f.opts.Hierarchy(),
		throws: make(map[string][]string),
	}
	fp.collect(root, nil)

	file := &frontend.File{Path: path, Language: "java"}
	ignores := nolint.Parse(fp.comments, fp.decls, fp.headerLine)
	for _, md := range fp.methods {
		start := fp.pos(md.node.StartByte())
		if md.node.HasError() {
			file.Errors = append(file.Errors, fmt.Sprintf("%s: syntax errors in %s, skipped", start, md.name))
			continue
		}
		m := fp.method(md)
		m.Ignored = ignores.IsIgnored(m.Start)
		file.Methods = append(file.Methods, m)
	}
	if root.HasError() && len(file.Errors) == 0 {
		file.Errors = append(file.Errors, "source contains syntax errors")
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled after extraction: %w", err)
	}
	return file, nil
}

type field struct {
	name string
	typ  string
}

type class struct {
	name   string
	fields []field
}

type methodDecl struct {
	node  *sitter.Node
	name  string
	class *class
}

// fileParser holds what the methods of one file share: the exception
// hierarchy extended by the file's own exception classes, the throws clauses
// of its methods and the ignore directives.
type fileParser struct {
	src        []byte
	lines      *tree.LineIndex
	opts       frontend.Options
	hier       *tree.Hierarchy
	throws     map[string][]string
	methods    []methodDecl
	comments   []nolint.Comment
	decls      []nolint.Decl
	headerLine int
}

func (p *fileParser) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(p.src)
}

func (p *fileParser) pos(offset uint32) token.Position {
	return p.lines.Position(int(offset))
}

// collect walks the declarations of the file. Method bodies are not entered.
func (p *fileParser) collect(n *sitter.Node, owner *class) {
	switch n.Type() {
	case "line_comment", "block_comment":
		p.comments = append(p.comments, nolint.Comment{
			Text:  p.text(n),
			Start: p.pos(n.StartByte()),
			End:   p.pos(n.EndByte()),
		})
		return

	case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
		c := &class{name: p.text(n.ChildByFieldName("name"))}
		if line := p.pos(n.StartByte()).Line; p.headerLine == 0 || line < p.headerLine {
			p.headerLine = line
		}
		if sup := n.ChildByFieldName("superclass"); sup != nil && sup.NamedChildCount() > 0 {
			p.hier.Add(c.name, typeName(p.text(sup.NamedChild(0))))
		}
		if params := n.ChildByFieldName("parameters"); params != nil {
			// record components
			for i := 0; i < int(params.NamedChildCount()); i++ {
				prm := params.NamedChild(i)
				c.fields = append(c.fields, field{
					name: p.text(prm.ChildByFieldName("name")),
					typ:  p.text(prm.ChildByFieldName("type")),
				})
			}
		}
		if body := n.ChildByFieldName("body"); body != nil {
			p.fields(body, c)
			p.collect(body, c)
		}
		return

	case "method_declaration", "constructor_declaration", "compact_constructor_declaration":
		if owner == nil {
			return
		}
		name := p.text(n.ChildByFieldName("name"))
		key := name
		if n.Type() != "method_declaration" {
			key = "new " + owner.name
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if c := n.NamedChild(i); c.Type() == "throws" {
				for j := 0; j < int(c.NamedChildCount()); j++ {
					p.throws[key] = append(p.throws[key], typeName(p.text(c.NamedChild(j))))
				}
			}
		}
		p.methods = append(p.methods, methodDecl{node: n, name: name, class: owner})
		p.decls = append(p.decls, nolint.Decl{Start: p.pos(n.StartByte()), End: p.pos(n.EndByte())})
		// comments inside the body still count
		if body := n.ChildByFieldName("body"); body != nil {
			p.comment(body)
		}
		return
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		p.collect(n.NamedChild(i), owner)
	}
}

// comment collects the comments below n.
func (p *fileParser) comment(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if t := c.Type(); t == "line_comment" || t == "block_comment" {
			p.collect(c, nil)
			continue
		}
		p.comment(c)
	}
}

// fields records the field declarations of a type body.
func (p *fileParser) fields(body *sitter.Node, c *class) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "field_declaration", "constant_declaration":
			typ := p.text(member.ChildByFieldName("type"))
			for j := 0; j < int(member.NamedChildCount()); j++ {
				if d := member.NamedChild(j); d.Type() == "variable_declarator" {
					c.fields = append(c.fields, field{name: p.text(d.ChildByFieldName("name")), typ: typ})
				}
			}
		case "enum_body_declarations":
			p.fields(member, c)
		case "enum_constant":
			c.fields = append(c.fields, field{name: p.text(member.ChildByFieldName("name")), typ: c.name})
		}
	}
}

// method translates one method or constructor declaration.
func (p *fileParser) method(md methodDecl) *frontend.Method {
	name := md.name
	if name == "" {
		name = md.class.name
	}
	mb := &methodBuilder{
		fileParser: p,
		b:          tree.NewBuilder(name),
	}
	mb.b.SetExceptions(p.hier)
	mb.b.SetLines(p.lines)
	for _, f := range md.class.fields {
		mb.b.Field(f.name, f.typ)
	}

	mb.b.OpenScope()
	if params := md.node.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			mb.param(params.NamedChild(i))
		}
	}
	root := tree.NoNode
	if body := md.node.ChildByFieldName("body"); body != nil {
		root = mb.block(body)
	}
	mb.b.CloseScope()

	t := mb.b.Finish(root)
	return &frontend.Method{
		Name:       name,
		Owner:      md.class.name,
		Tree:       t,
		Start:      p.pos(md.node.StartByte()),
		End:        p.pos(md.node.EndByte()),
		Complexity: frontend.Complexity(t),
	}
}

// typeName strips type arguments and array dimensions.
func typeName(s string) string {
	if i := strings.IndexAny(s, "<["); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
