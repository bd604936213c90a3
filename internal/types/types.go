package types

import "go/token"

// Issue is a diagnostic reported by a go/analysis analyzer.
type Issue struct {
	Rule     string
	Category string
	Filename string
	Message  string
	Start    token.Position
	End      token.Position
}

// MethodReport is the analysis result for one method or function.
type MethodReport struct {
	Filename   string         `json:"filename"`
	Language   string         `json:"language"`
	Method     string         `json:"method"`
	Start      token.Position `json:"-"`
	End        token.Position `json:"-"`
	Line       int            `json:"line"`
	Complexity int            `json:"complexity"`
	// FailurePoints counts the reachable throw statements and failure calls.
	FailurePoints int    `json:"failure_points"`
	Paths         int    `json:"paths"`
	Expansion     int    `json:"expansion"`
	Status        string `json:"status"`
	// SuccessCondition is empty unless Status is "derived".
	SuccessCondition string `json:"success_condition,omitempty"`
	FailureCondition string `json:"failure_condition,omitempty"`
	// NeverSucceeds is set when every path through the method fails.
	NeverSucceeds bool `json:"never_succeeds,omitempty"`
}

// FileReport groups the reports of one source file.
type FileReport struct {
	Filename string         `json:"filename"`
	Language string         `json:"language"`
	Methods  []MethodReport `json:"methods"`
	Ignored  int            `json:"ignored,omitempty"`
	Errors   []string       `json:"errors,omitempty"`
}
