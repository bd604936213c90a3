package formatter

import (
	"fmt"
	"strings"

	tt "github.com/mjp2ff/aid-sub000/internal/types"
)

// Summary counts the outcomes of every method in reports, e.g.
// "3 methods in 2 files: 1 derived, 1 never succeed, 1 without failures".
func Summary(reports []*tt.FileReport) string {
	var methods, derived, never, none, unknown, ignored int
	for _, r := range reports {
		ignored += r.Ignored
		for _, m := range r.Methods {
			methods++
			switch {
			case m.NeverSucceeds:
				never++
			case m.Status == StatusDerived:
				derived++
			case m.Status == StatusNoFailures:
				none++
			default:
				unknown++
			}
		}
	}

	parts := []string{fmt.Sprintf("%d derived", derived)}
	if never > 0 {
		parts = append(parts, errorStyle.Sprintf("%d never succeed", never))
	}
	parts = append(parts, fmt.Sprintf("%d without failures", none))
	if unknown > 0 {
		parts = append(parts, warningStyle.Sprintf("%d unknown", unknown))
	}
	if ignored > 0 {
		parts = append(parts, fmt.Sprintf("%d ignored", ignored))
	}
	return fmt.Sprintf("%s in %s: %s", plural(methods, "method"), plural(len(reports), "file"), strings.Join(parts, ", "))
}
