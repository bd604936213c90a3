// Package internal runs the success-condition analysis over source files.
//
// For every method of a file the analysis finds the failure points (throw
// statements, panics and configured calls that never return), enumerates
// the paths from entry to each of them and works backwards over each path
// to the condition on the parameters and fields under which the method
// returns normally.
//
// Key components:
//
// Engine: parses a file with the front end registered for its extension,
// analyzes its methods concurrently and produces a types.FileReport.
// Methods and paths can be ignored by pattern.
//
// Cache: keeps file reports on disk, keyed by file path and served only
// for the same source under the same analysis settings.
//
// Watching: StartWatching re-analyzes supported files in a set of
// directories whenever they are written.
//
// Usage:
//
//	engine, err := internal.NewEngine(internal.Options{Logger: logger})
//	if err != nil {
//	    // handle error
//	}
//
//	report, err := engine.Run(ctx, "Account.java")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, m := range report.Methods {
//	    fmt.Printf("%s succeeds when %s\n", m.Method, m.SuccessCondition)
//	}
//
// This package is intended for internal use and should not be imported by
// external packages.
package internal
