package golang

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"

	"github.com/mjp2ff/aid-sub000/internal/analysis/condition"
	"github.com/mjp2ff/aid-sub000/internal/frontend"
)

var (
	reportAll    bool
	failureCalls = "log.Fatal,log.Fatalf,log.Fatalln,os.Exit"
)

// Analyzer reports functions whose every path ends in a panic or a failure
// call. With -all, every derived success condition is reported.
var Analyzer = &analysis.Analyzer{
	Name: "successcond",
	Doc:  "derives the condition under which each function returns normally",
	Run:  run,
}

func init() {
	Analyzer.Flags.BoolVar(&reportAll, "all", false, "report the success condition of every function with failure points")
	Analyzer.Flags.StringVar(&failureCalls, "failure-calls", failureCalls, "comma-separated calls that never return")
}

func run(pass *analysis.Pass) (interface{}, error) {
	opts := frontend.Options{FailureCalls: strings.Split(failureCalls, ",")}
	for _, file := range pass.Files {
		info := pass.TypesInfo
		if info == nil {
			info = Check(pass.Fset, file)
		}
		fp := &fileParser{
			fset: pass.Fset,
			info: info,
			opts: opts,
			hier: opts.Hierarchy(),
		}
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Body == nil {
				continue
			}
			m := fp.function(fd)
			res := condition.Analyze(m.Tree, condition.Options{})
			if res.Status != condition.StatusDerived {
				continue
			}
			switch {
			case res.NeverSucceeds():
				pass.Reportf(fd.Name.Pos(), "%s never returns normally", m.QualifiedName())
			case reportAll:
				pass.Reportf(fd.Name.Pos(), "%s succeeds when %s", m.QualifiedName(), res.Condition)
			}
		}
	}
	return nil, nil
}
