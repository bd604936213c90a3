package formatter

type DerivedFormatter struct{}

func (f *DerivedFormatter) ReportTemplate() string {
	return `{{header "ok" "success condition" .Method .MaxLineNumWidth .Filename .Line .Column}}
{{snippet .SnippetLines .Line .MaxLineNumWidth .CommonIndent .Padding}}
{{condition "succeeds when" .SuccessCondition .Padding}}
{{- if .FailureCondition}}
{{condition "fails when" .FailureCondition .Padding}}
{{- end}}
{{note (printf "%s, %s, cyclomatic complexity %d" (plural .FailurePoints "failure point") (plural .Paths "path") .Complexity)}}

`
}
