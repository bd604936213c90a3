package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mjp2ff/aid-sub000/analyze"
	"github.com/mjp2ff/aid-sub000/formatter"
	"github.com/mjp2ff/aid-sub000/internal"
	tt "github.com/mjp2ff/aid-sub000/internal/types"
)

var (
	ignoreMethods string
	ignorePaths   string
	jsonOutput    bool
	outPath       string
	failOnNever   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [paths...]",
	Short: "Derive the success condition of every method",
	Long: `Analyzes Java and Go sources and prints, for every method, the condition
under which it returns without reaching a throw, panic or fatal call.
Example) aid analyze --json -o report.json ./src`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		config, err := analyze.LoadConfig(cfgFile)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		config.IgnoreMethods = append(config.IgnoreMethods, splitList(ignoreMethods)...)
		config.IgnorePaths = append(config.IgnorePaths, splitList(ignorePaths)...)

		engine, err := analyze.NewWithConfig(config, logger)
		if err != nil {
			logger.Fatal("Failed to initialize engine", zap.Error(err))
		}

		never, err := runAnalysis(ctx, logger, os.Stdout, engine, args, jsonOutput, outPath)
		if err != nil {
			logger.Error("Error processing files", zap.Error(err))
			os.Exit(1)
		}
		if failOnNever && never > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&ignoreMethods, "ignore-methods", "", "Comma-separated list of method patterns to skip (e.g. \"*.toString\")")
	analyzeCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of path patterns to skip (e.g. \"gen/**\")")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output reports in JSON format")
	analyzeCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	analyzeCmd.Flags().BoolVar(&failOnNever, "fail-on-never", false, "Exit with status 1 when a method can never succeed")
}

// runAnalysis analyzes paths and writes the reports to w, or to outPath
// when JSON output goes to a file. It returns the number of methods that
// never succeed.
func runAnalysis(
	ctx context.Context,
	logger *zap.Logger,
	w io.Writer,
	engine analyze.Engine,
	paths []string,
	isJSON bool,
	outPath string,
) (int, error) {
	reports, err := analyze.ProcessFiles(ctx, logger, engine, paths, analyze.ProcessFile)
	if err != nil {
		return 0, err
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Filename < reports[j].Filename
	})

	if err := printReports(logger, w, reports, isJSON, outPath); err != nil {
		return 0, err
	}

	never := 0
	for _, r := range reports {
		for _, m := range r.Methods {
			if m.NeverSucceeds {
				never++
			}
		}
	}
	return never, nil
}

func printReports(logger *zap.Logger, w io.Writer, reports []*tt.FileReport, isJSON bool, outPath string) error {
	if isJSON {
		if outPath == "" {
			return formatter.WriteJSON(w, reports)
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("error creating JSON output file: %w", err)
		}
		defer f.Close()
		return formatter.WriteJSON(f, reports)
	}

	// text output
	for _, report := range reports {
		for _, msg := range report.Errors {
			logger.Warn("Partial analysis", zap.String("file", report.Filename), zap.String("error", msg))
		}
		if len(report.Methods) == 0 {
			continue
		}
		sourceCode, err := internal.ReadSourceCode(report.Filename)
		if err != nil {
			logger.Error("Error reading source file", zap.String("file", report.Filename), zap.Error(err))
			sourceCode = nil
		}
		fmt.Fprint(w, formatter.GenerateFormattedReport(report.Methods, sourceCode))
	}
	fmt.Fprintln(w, formatter.Summary(reports))
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
