// Package frontend defines how source files are turned into analyzable
// methods. Each supported language provides a Frontend; a Registry picks
// the front end for a file by its extension.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mjp2ff/aid-sub000/internal/tree"
)

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrParseFailed         = errors.New("parse failed")
)

// Method is one analyzable method or function of a source file.
type Method struct {
	Name string
	// Owner is the enclosing class, or the receiver type of a Go method.
	// Empty for free functions.
	Owner      string
	Tree       *tree.Tree
	Start      token.Position
	End        token.Position
	Complexity int
	// Ignored is set by an ignore directive in the source.
	Ignored bool
}

// QualifiedName returns Owner.Name, or Name alone for free functions.
func (m *Method) QualifiedName() string {
	if m.Owner == "" {
		return m.Name
	}
	return m.Owner + "." + m.Name
}

// File is the result of parsing one source file.
type File struct {
	Path     string
	Language string
	Methods  []*Method
	// Errors lists recoverable problems, such as syntax errors confined to
	// methods that were skipped.
	Errors []string
}

// Options configure front ends.
type Options struct {
	// FailureCalls are calls, by qualified name ("System.exit", "log.Fatal"),
	// that never return and count as failure points.
	FailureCalls []string
	// Exceptions adds exception types to the hierarchy, child to parent.
	Exceptions map[string]string
}

// IsFailureCall reports whether callee is one of the configured failure
// calls.
func (o Options) IsFailureCall(callee string) bool {
	for _, c := range o.FailureCalls {
		if c == callee {
			return true
		}
	}
	return false
}

// Hierarchy returns the built-in exception hierarchy extended with the
// configured exception types.
func (o Options) Hierarchy() *tree.Hierarchy {
	h := tree.NewHierarchy()
	children := make([]string, 0, len(o.Exceptions))
	for child := range o.Exceptions {
		children = append(children, child)
	}
	sort.Strings(children)
	for _, child := range children {
		h.Add(child, o.Exceptions[child])
	}
	return h
}

// Frontend parses the source of one language.
type Frontend interface {
	Language() string
	Extensions() []string
	Parse(ctx context.Context, path string, src []byte) (*File, error)
}

// Registry maps file extensions to front ends.
type Registry struct {
	byExt map[string]Frontend
}

func NewRegistry(fes ...Frontend) *Registry {
	r := &Registry{byExt: make(map[string]Frontend)}
	for _, fe := range fes {
		r.Register(fe)
	}
	return r
}

// Register adds fe for all its extensions, replacing earlier registrations.
func (r *Registry) Register(fe Frontend) {
	for _, ext := range fe.Extensions() {
		r.byExt[strings.ToLower(ext)] = fe
	}
}

// For returns the front end handling path.
func (r *Registry) For(path string) (Frontend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	fe, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, ext)
	}
	return fe, nil
}

func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Parse parses path with the front end registered for it.
func (r *Registry) Parse(ctx context.Context, path string, src []byte) (*File, error) {
	fe, err := r.For(path)
	if err != nil {
		return nil, err
	}
	return fe.Parse(ctx, path, src)
}
