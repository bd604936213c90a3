package formatter

type NoFailuresFormatter struct{}

func (f *NoFailuresFormatter) ReportTemplate() string {
	return `{{header "info" "no failures" .Method .MaxLineNumWidth .Filename .Line .Column}}
{{snippet .SnippetLines .Line .MaxLineNumWidth .CommonIndent .Padding}}
{{info "no reachable failure point" .Padding}}

`
}
