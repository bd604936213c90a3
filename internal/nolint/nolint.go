// Package nolint tracks "aid:ignore" directives, which exclude methods (or
// whole files) from analysis.
package nolint

import (
	"fmt"
	"go/ast"
	"go/token"
	"math"
	"strings"
)

const directive = "aid:ignore"

// Comment is a source comment as seen by a front end.
type Comment struct {
	Text  string
	Start token.Position
	End   token.Position
}

// Decl is a method or function declaration.
type Decl struct {
	Start token.Position
	End   token.Position
	// DocLine is the first line of the declaration's doc comment, 0 if none.
	DocLine int
}

// Manager manages ignore scopes and checks if a position is ignored.
type Manager struct {
	// scopes maps filename to a slice of ignore scopes.
	scopes map[string][]ignoreScope
}

// ignoreScope represents a range of lines excluded from analysis.
type ignoreScope struct {
	reason string
	start  token.Position
	end    token.Position
}

// Parse builds a Manager from the comments and declarations of one file.
// Directives above headerLine (the package or first type declaration)
// apply to the whole file.
func Parse(comments []Comment, decls []Decl, headerLine int) *Manager {
	m := &Manager{scopes: make(map[string][]ignoreScope)}
	for _, c := range comments {
		s, err := parseComment(c, decls, headerLine)
		if err != nil {
			continue
		}
		if s.start.Line == 0 {
			// file scope
			s.start = token.Position{Filename: c.Start.Filename, Line: 1}
			s.end = token.Position{Filename: c.Start.Filename, Line: math.MaxInt}
		}
		m.scopes[c.Start.Filename] = append(m.scopes[c.Start.Filename], s)
	}
	return m
}

// ParseComments parses the directives of a Go file.
func ParseComments(f *ast.File, fset *token.FileSet) *Manager {
	var comments []Comment
	for _, cg := range f.Comments {
		for _, c := range cg.List {
			comments = append(comments, Comment{
				Text:  c.Text,
				Start: fset.Position(c.Slash),
				End:   fset.Position(c.End()),
			})
		}
	}
	var decls []Decl
	for _, d := range f.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			d := Decl{Start: fset.Position(fd.Pos()), End: fset.Position(fd.End())}
			if fd.Doc != nil {
				d.DocLine = fset.Position(fd.Doc.Pos()).Line
			}
			decls = append(decls, d)
		}
	}
	return Parse(comments, decls, fset.Position(f.Package).Line)
}

// parseComment parses a single comment and determines its scope. A zero
// start line denotes the whole file.
func parseComment(c Comment, decls []Decl, headerLine int) (ignoreScope, error) {
	var s ignoreScope
	text, ok := directiveText(c.Text)
	if !ok {
		return s, fmt.Errorf("not an ignore directive")
	}
	rest := strings.TrimPrefix(text, directive)
	if rest != "" && rest[0] != ' ' && rest[0] != ':' {
		return s, fmt.Errorf("invalid ignore directive format")
	}
	s.reason = strings.TrimSpace(strings.TrimLeft(rest, ": "))

	if c.Start.Line < headerLine {
		return s, nil
	}

	// inline: the directive shares its first line with a declaration
	for _, d := range decls {
		if d.Start.Line == c.Start.Line && d.Start.Offset < c.Start.Offset {
			s.start, s.end = d.Start, d.End
			return s, nil
		}
	}

	// standalone: directly above the next declaration, or part of its doc
	// comment
	if d, ok := declAfterLine(decls, c.End.Line); ok {
		if d.Start.Line <= c.End.Line+1 || (d.DocLine > 0 && d.DocLine <= c.Start.Line) {
			s.start, s.end = c.Start, d.End
			return s, nil
		}
	}

	s.start, s.end = c.Start, c.End
	return s, nil
}

// directiveText strips the comment markers and returns the directive text.
func directiveText(text string) (string, bool) {
	switch {
	case strings.HasPrefix(text, "//"):
		text = text[2:]
	case strings.HasPrefix(text, "/*"):
		// also covers javadoc style /** aid:ignore */
		text = strings.TrimLeft(strings.TrimSuffix(text[2:], "*/"), "*")
	default:
		return "", false
	}
	text = strings.TrimSpace(text)
	return text, strings.HasPrefix(text, directive)
}

// declAfterLine finds the first declaration starting after a given line.
func declAfterLine(decls []Decl, line int) (Decl, bool) {
	var best Decl
	found := false
	for _, d := range decls {
		if d.Start.Line > line && (!found || d.Start.Line < best.Start.Line) {
			best, found = d, true
		}
	}
	return best, found
}

// IsIgnored reports whether pos lies in an ignored range.
func (m *Manager) IsIgnored(pos token.Position) bool {
	_, ok := m.Reason(pos)
	return ok
}

// Reason returns the text following the directive that covers pos.
func (m *Manager) Reason(pos token.Position) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, s := range m.scopes[pos.Filename] {
		if pos.Line >= s.start.Line && pos.Line <= s.end.Line {
			return s.reason, true
		}
	}
	return "", false
}
