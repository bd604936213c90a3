package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mjp2ff/aid-sub000/internal"
	"github.com/mjp2ff/aid-sub000/internal/analysis/cfg"
	"github.com/mjp2ff/aid-sub000/internal/frontend"
)

// variable for flags
var (
	funcName string
	output   string
)

var errFunctionNotFound = errors.New("function not found")

var cfgCmd = &cobra.Command{
	Use:   "cfg [paths...]",
	Short: "Print the control flow graph of a method",
	Long: `Outputs the Control Flow Graph (CFG) of the specified method or generates a GraphViz file.
The method is matched by name or by qualified name (Class.method).
Example) aid cfg --func Account.deposit Account.java`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file paths")
			os.Exit(1)
		}
		// timeout is a global variable declared in root.go
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := internal.NewEngine(internal.Options{Logger: logger})
		if err != nil {
			logger.Fatal("Failed to initialize engine", zap.Error(err))
		}
		if err := runCFGAnalysis(ctx, logger, os.Stdout, engine, args, funcName, output); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	cfgCmd.Flags().StringVar(&funcName, "func", "", "Method name for CFG analysis")
	cfgCmd.Flags().StringVarP(&output, "output", "o", "", "Output path for rendered GraphViz file")
}

func runCFGAnalysis(ctx context.Context, logger *zap.Logger, w io.Writer, engine *internal.Engine, paths []string, funcName string, output string) error {
	m, path, err := findMethod(ctx, logger, engine, paths, funcName)
	if err != nil {
		return err
	}

	g := cfg.Build(m.Tree)
	var buf strings.Builder
	g.PrintDot(&buf, nil)

	if output != "" {
		if err := cfg.RenderToGraphVizFile([]byte(buf.String()), output); err != nil {
			return fmt.Errorf("failed to render CFG to GraphViz file: %w", err)
		}
		fmt.Fprintf(w, "GraphViz file created: %s\n", output)
		return nil
	}
	fmt.Fprintf(w, "CFG for method %s in file %s:\n%s\n", m.QualifiedName(), path, buf.String())
	return nil
}

// findMethod returns the first method named name, by plain or qualified
// name, in the files of paths.
func findMethod(ctx context.Context, logger *zap.Logger, engine *internal.Engine, paths []string, name string) (*frontend.Method, string, error) {
	for _, path := range paths {
		if !engine.Supports(path) {
			continue
		}
		file, err := engine.Parse(ctx, path)
		if err != nil {
			logger.Error("Failed to parse file", zap.String("path", path), zap.Error(err))
			continue
		}
		for _, m := range file.Methods {
			if m.Name == name || m.QualifiedName() == name {
				return m, path, nil
			}
		}
	}
	return nil, "", fmt.Errorf("%w: %s", errFunctionNotFound, name)
}
