package formatter

// NeverSucceedsFormatter renders methods whose every path ends in a failure
// point.
type NeverSucceedsFormatter struct{}

func (f *NeverSucceedsFormatter) ReportTemplate() string {
	return `{{header "error" "never succeeds" .Method .MaxLineNumWidth .Filename .Line .Column}}
{{snippet .SnippetLines .Line .MaxLineNumWidth .CommonIndent .Padding}}
{{message "every path reaches a failure point" .Padding}}
{{- if .FailureCondition}}
{{condition "fails when" .FailureCondition .Padding}}
{{- end}}
{{note (printf "%s, %s" (plural .FailurePoints "failure point") (plural .Paths "path"))}}

`
}
