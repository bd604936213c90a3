package nolint

import (
	"go/parser"
	"go/token"
	"testing"
)

func TestDirectiveText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text     string
		expected bool
	}{
		{"//aid:ignore", true},
		{"// aid:ignore generated code", true},
		{"/* aid:ignore */", true},
		{"// nothing to see", false},
		{"# aid:ignore", false},
	}
	for _, test := range tests {
		if _, ok := directiveText(test.text); ok != test.expected {
			t.Errorf("directiveText(%q): expected %v, got %v", test.text, test.expected, ok)
		}
	}
}

func TestParseComments(t *testing.T) {
	t.Parallel()
	src := `package main

// aid:ignore validated by the caller
func foo(x int) {
	if x < 0 {
		panic("negative")
	}
}

func bar() {
}

// Baz documents itself.
// aid:ignore
func baz() {
}

func qux() {} // aid:ignore
`

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "test.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	manager := ParseComments(f, fset)
	if manager == nil {
		t.Fatal("Expected manager, got nil")
	}

	tests := []struct {
		line     int
		expected bool
	}{
		{4, true},   // foo
		{6, true},   // inside foo
		{10, false}, // bar
		{15, true},  // baz, directive in doc comment
		{18, true},  // qux, inline directive
	}
	for _, test := range tests {
		if got := manager.IsIgnored(positionAtLine(test.line)); got != test.expected {
			t.Errorf("IsIgnored at line %d: expected %v, got %v", test.line, test.expected, got)
		}
	}

	reason, ok := manager.Reason(positionAtLine(4))
	if !ok || reason != "validated by the caller" {
		t.Errorf("Reason at line 4: got %q, %v", reason, ok)
	}
}

func TestFileScope(t *testing.T) {
	t.Parallel()
	src := `// aid:ignore
package main

func foo() {}
`
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "test.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	manager := ParseComments(f, fset)
	if !manager.IsIgnored(positionAtLine(4)) {
		t.Errorf("Expected whole file to be ignored")
	}
	if manager.IsIgnored(token.Position{Filename: "other.go", Line: 4}) {
		t.Errorf("Expected other files to be unaffected")
	}
}

func TestParseLanguageNeutral(t *testing.T) {
	t.Parallel()
	at := func(line, col, offset int) token.Position {
		return token.Position{Filename: "A.java", Line: line, Column: col, Offset: offset}
	}
	comments := []Comment{
		{Text: "// aid:ignore", Start: at(3, 5, 40), End: at(3, 18, 53)},
		{Text: "/* plain */", Start: at(8, 5, 100), End: at(8, 16, 111)},
	}
	decls := []Decl{
		{Start: at(4, 5, 58), End: at(6, 6, 90)},
		{Start: at(9, 5, 117), End: at(11, 6, 150)},
	}
	manager := Parse(comments, decls, 1)

	if !manager.IsIgnored(at(5, 1, 0)) {
		t.Errorf("Expected first method to be ignored")
	}
	if manager.IsIgnored(at(10, 1, 0)) {
		t.Errorf("Expected second method to be analyzed")
	}
}

func TestNilManager(t *testing.T) {
	t.Parallel()
	var m *Manager
	if m.IsIgnored(positionAtLine(1)) {
		t.Errorf("Expected nil manager to ignore nothing")
	}
}

func positionAtLine(line int) token.Position {
	return token.Position{
		Filename: "test.go",
		Line:     line,
		Column:   1,
	}
}
