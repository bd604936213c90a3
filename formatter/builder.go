package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/fatih/color"

	"github.com/mjp2ff/aid-sub000/internal"
	tt "github.com/mjp2ff/aid-sub000/internal/types"
)

const tabWidth = 8

// report statuses, as rendered by condition.Status
const (
	StatusDerived        = "derived"
	StatusNoFailures     = "no failures"
	StatusPathLimit      = "path limit exceeded"
	StatusExpansionLimit = "expansion limit exceeded"
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	methodStyle     = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
	noStyle         = color.New(color.FgWhite)
)

// reportFormatter is the interface that wraps the ReportTemplate method.
// Implementations are responsible for rendering one kind of method report.
type reportFormatter interface {
	ReportTemplate() string
}

// getReportFormatter returns the formatter for the outcome of report.
func getReportFormatter(report tt.MethodReport) reportFormatter {
	switch {
	case report.NeverSucceeds:
		return &NeverSucceedsFormatter{}
	case report.Status == StatusDerived:
		return &DerivedFormatter{}
	case report.Status == StatusPathLimit || report.Status == StatusExpansionLimit:
		return &PrecisionLossFormatter{}
	default:
		return &NoFailuresFormatter{}
	}
}

// GenerateFormattedReport renders the reports of one file. snippet holds the
// file's source; the declaration line of each method is quoted from it.
func GenerateFormattedReport(reports []tt.MethodReport, snippet *internal.SourceCode) string {
	var builder strings.Builder
	for _, report := range reports {
		builder.WriteString(buildReport(report, snippet, getReportFormatter(report)))
	}
	return builder.String()
}

/***** Report Formatter Builder *****/

type ReportData struct {
	Method           string
	Filename         string
	Status           string
	Padding          string
	Line             int
	Column           int
	MaxLineNumWidth  int
	SuccessCondition string
	FailureCondition string
	FailurePoints    int
	Paths            int
	Expansion        int
	Complexity       int
	SnippetLines     []string
	CommonIndent     string
}

func buildReport(report tt.MethodReport, snippet *internal.SourceCode, formatter reportFormatter) string {
	line := report.Line
	maxLineNumWidth := calculateMaxLineNumWidth(line)
	padding := strings.Repeat(" ", maxLineNumWidth+1)

	var lines []string
	if snippet != nil {
		lines = snippet.Lines
	}
	var commonIndent string
	if isValidLine(line, lines) {
		commonIndent = findCommonIndent(lines[line-1 : line])
	}

	data := ReportData{
		Method:           report.Method,
		Filename:         report.Filename,
		Status:           report.Status,
		Padding:          padding,
		Line:             line,
		Column:           report.Start.Column,
		MaxLineNumWidth:  maxLineNumWidth,
		SuccessCondition: report.SuccessCondition,
		FailureCondition: report.FailureCondition,
		FailurePoints:    report.FailurePoints,
		Paths:            report.Paths,
		Expansion:        report.Expansion,
		Complexity:       report.Complexity,
		SnippetLines:     lines,
		CommonIndent:     commonIndent,
	}

	funcMap := template.FuncMap{
		"header":    header,
		"snippet":   codeSnippet,
		"condition": conditionLine,
		"message":   message,
		"warning":   warning,
		"info":      info,
		"note":      note,
		"plural":    plural,
	}

	tmpl := template.Must(template.New("report").Funcs(funcMap).Parse(formatter.ReportTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting report: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(severity string, label string, method string, maxLineNumWidth int, filename string, line int, column int) string {
	var endString string
	switch severity {
	case "error":
		endString = errorStyle.Sprintf("%s: ", label)
	case "warning":
		endString = warningStyle.Sprintf("%s: ", label)
	case "ok":
		endString = suggestionStyle.Sprintf("%s: ", label)
	default:
		endString = noStyle.Sprintf("%s: ", label)
	}

	endString += methodStyle.Sprint(method)

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("\n%s--> ", padding)
	if column > 0 {
		endString += fileStyle.Sprintf("%s:%d:%d", filename, line, column)
	} else {
		endString += fileStyle.Sprintf("%s:%d", filename, line)
	}

	return endString
}

// codeSnippet quotes the declaration line and underlines it.
func codeSnippet(snippetLines []string, line int, maxLineNumWidth int, commonIndent string, padding string) string {
	endString := lineStyle.Sprintf("%s|", padding)
	if !isValidLine(line, snippetLines) {
		return endString
	}

	text := strings.TrimPrefix(snippetLines[line-1], commonIndent)
	lineNum := fmt.Sprintf("%*d", maxLineNumWidth, line)
	endString += lineStyle.Sprintf("\n%s | ", lineNum) + noStyle.Sprint(text)

	underlineLength := calculateVisualColumn(text, len(text)+1)
	if underlineLength > 0 {
		endString += lineStyle.Sprintf("\n%s| ", padding)
		endString += messageStyle.Sprint(strings.Repeat("~", underlineLength))
	}

	return endString
}

func conditionLine(label string, condition string, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + suggestionStyle.Sprintf("%s: ", label) + noStyle.Sprint(condition)
}

func message(msg string, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + messageStyle.Sprint(msg)
}

func warning(msg string, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + warningStyle.Sprint(msg)
}

func info(msg string, padding string) string {
	return lineStyle.Sprintf("%s= ", padding) + noStyle.Sprint(msg)
}

func note(note string) string {
	if note == "" {
		return ""
	}
	return suggestionStyle.Sprint("note: ") + lineStyle.Sprint(note)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func isValidLine(line int, snippetLines []string) bool {
	return line > 0 && line <= len(snippetLines)
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}

// calculateVisualColumn calculates the visual column position
// in a string. taking into account tab characters.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 == column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}

// findCommonIndent finds the common indent in the code snippet.
func findCommonIndent(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	// find first non-empty line's indent
	firstIndent := make([]rune, 0)
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed != "" {
			firstIndent = []rune(line[:len(line)-len(trimmed)])
			break
		}
	}

	if len(firstIndent) == 0 {
		return ""
	}

	// search common indent for all non-empty lines
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}

		currentIndent := []rune(line[:len(line)-len(trimmed)])
		firstIndent = commonPrefix(firstIndent, currentIndent)

		if len(firstIndent) == 0 {
			break
		}
	}

	return string(firstIndent)
}

// commonPrefix finds the common prefix of two strings.
func commonPrefix(a, b []rune) []rune {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:minLen]
}
