package formatter

// PrecisionLossFormatter renders methods whose success condition was given
// up on because a path or expansion limit was exceeded.
type PrecisionLossFormatter struct{}

func (f *PrecisionLossFormatter) ReportTemplate() string {
	return `{{header "warning" .Status .Method .MaxLineNumWidth .Filename .Line .Column}}
{{snippet .SnippetLines .Line .MaxLineNumWidth .CommonIndent .Padding}}
{{warning "success condition unknown" .Padding}}
{{- if .Expansion}}
{{note (printf "%s, would expand to %s" (plural .FailurePoints "failure point") (plural .Expansion "product"))}}
{{- else}}
{{note (printf "%s, %s enumerated" (plural .FailurePoints "failure point") (plural .Paths "path"))}}
{{- end}}

`
}
