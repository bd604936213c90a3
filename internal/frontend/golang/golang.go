// Package golang is the Go front end. Functions and methods are translated
// into tree.Tree; a call to panic, or to one of the configured failure calls
// such as log.Fatal, is a failure point.
package golang

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
	"path"
	"strings"

	"github.com/fzipp/gocyclo"

	"github.com/mjp2ff/aid-sub000/internal/frontend"
	"github.com/mjp2ff/aid-sub000/internal/nolint"
	"github.com/mjp2ff/aid-sub000/internal/tree"
)

type Frontend struct {
	opts frontend.Options
}

func New(opts frontend.Options) *Frontend {
	return &Frontend{opts: opts}
}

func (*Frontend) Language() string { return "go" }

func (*Frontend) Extensions() []string { return []string{".go", ".gno"} }

// Parse translates every function declaration of src. Functions overlapping
// a syntax error are skipped and listed in File.Errors.
func (f *Frontend) Parse(ctx context.Context, filename string, src []byte) (*frontend.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if file == nil || file.Package == token.NoPos {
		// without a package clause the parser gives up on the whole file
		return nil, fmt.Errorf("%w: %s: %v", frontend.ErrParseFailed, filename, err)
	}
	var syntax scanner.ErrorList
	if err != nil && !errors.As(err, &syntax) {
		return nil, fmt.Errorf("%w: %s: %v", frontend.ErrParseFailed, filename, err)
	}

	info := Check(fset, file)
	fp := &fileParser{
		fset:  fset,
		info:  info,
		opts:  f.opts,
		hier:  f.opts.Hierarchy(),
		lines: tree.NewLineIndex(filename, src),
	}

	complexity := make(map[int]int)
	for _, st := range gocyclo.AnalyzeASTFile(file, fset, nil) {
		complexity[st.Pos.Offset] = st.Complexity
	}
	ignores := nolint.ParseComments(file, fset)

	out := &frontend.File{Path: filename, Language: "go"}
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		start, end := fset.Position(fd.Pos()), fset.Position(fd.End())
		if e := overlapping(syntax, start, end); e != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("%s: syntax errors in %s, skipped: %s", start, fd.Name.Name, e.Msg))
			continue
		}
		m := fp.function(fd)
		m.Complexity = complexity[start.Offset]
		m.Ignored = ignores.IsIgnored(start)
		out.Methods = append(out.Methods, m)
	}
	if len(syntax) > 0 && len(out.Errors) == 0 {
		out.Errors = append(out.Errors, syntax[0].Error())
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled after extraction: %w", err)
	}
	return out, nil
}

func overlapping(errs scanner.ErrorList, start, end token.Position) *scanner.Error {
	for _, e := range errs {
		if e.Pos.Offset >= start.Offset && e.Pos.Offset <= end.Offset {
			return e
		}
	}
	return nil
}

// Check type-checks a single file in isolation. Imports resolve to empty
// packages, so only identifiers the file itself declares carry full type
// information; that suffices to tell constants, conversions, builtins and
// package qualifiers apart. Type errors are expected and ignored.
func Check(fset *token.FileSet, file *ast.File) *types.Info {
	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}
	conf := types.Config{
		Importer: stubImporter{},
		Error:    func(error) {},
	}
	// errors are reported through conf.Error
	_, _ = conf.Check(file.Name.Name, fset, []*ast.File{file}, info)
	return info
}

type stubImporter struct{}

func (stubImporter) Import(importPath string) (*types.Package, error) {
	name := path.Base(importPath)
	if i := strings.IndexAny(name, ".-"); i > 0 {
		name = name[:i]
	}
	pkg := types.NewPackage(importPath, name)
	pkg.MarkComplete()
	return pkg, nil
}

type fileParser struct {
	fset  *token.FileSet
	info  *types.Info
	opts  frontend.Options
	hier  *tree.Hierarchy
	lines *tree.LineIndex
}

func (p *fileParser) function(fd *ast.FuncDecl) *frontend.Method {
	fb := &funcBuilder{fileParser: p, b: tree.NewBuilder(fd.Name.Name)}
	fb.b.SetExceptions(p.hier)
	fb.b.SetLines(p.lines)

	owner := ""
	fb.b.OpenScope()
	if fd.Recv != nil && len(fd.Recv.List) > 0 {
		owner = receiverType(fd.Recv.List[0].Type)
		fb.params(fd.Recv)
	}
	fb.params(fd.Type.Params)
	if fd.Type.Results != nil {
		for _, r := range fd.Type.Results.List {
			for _, name := range r.Names {
				fb.b.Declare(name.Name, types.ExprString(r.Type), tree.VarLocal)
			}
		}
	}
	root := tree.NoNode
	if fd.Body != nil {
		root = fb.block(fd.Body)
	}
	fb.b.CloseScope()

	return &frontend.Method{
		Name:  fd.Name.Name,
		Owner: owner,
		Tree:  fb.b.Finish(root),
		Start: p.fset.Position(fd.Pos()),
		End:   p.fset.Position(fd.End()),
	}
}

// receiverType returns the base type name of a receiver: T for *T and
// T[K, V].
func receiverType(e ast.Expr) string {
	for {
		switch x := e.(type) {
		case *ast.StarExpr:
			e = x.X
		case *ast.ParenExpr:
			e = x.X
		case *ast.IndexExpr:
			e = x.X
		case *ast.IndexListExpr:
			e = x.X
		case *ast.Ident:
			return x.Name
		default:
			return types.ExprString(e)
		}
	}
}
