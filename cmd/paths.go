package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mjp2ff/aid-sub000/internal"
	"github.com/mjp2ff/aid-sub000/internal/analysis/cfg"
	"github.com/mjp2ff/aid-sub000/internal/analysis/paths"
	"github.com/mjp2ff/aid-sub000/internal/analysis/symexec"
)

var maxPaths int

var pathsCmd = &cobra.Command{
	Use:   "paths [paths...]",
	Short: "Print the paths leading to each failure point of a method",
	Long: `Lists every failure point of the specified method with the paths that reach it
and the condition each path requires.
Example) aid paths --func Account.deposit Account.java`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file paths")
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := internal.NewEngine(internal.Options{Logger: logger})
		if err != nil {
			logger.Fatal("Failed to initialize engine", zap.Error(err))
		}
		if err := runPathsAnalysis(ctx, logger, os.Stdout, engine, args, funcName, maxPaths); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	pathsCmd.Flags().StringVar(&funcName, "func", "", "Method name")
	pathsCmd.Flags().IntVar(&maxPaths, "max-paths", paths.DefaultLimit, "Maximum number of paths per failure point")
}

func runPathsAnalysis(ctx context.Context, logger *zap.Logger, w io.Writer, engine *internal.Engine, files []string, funcName string, limit int) error {
	m, _, err := findMethod(ctx, logger, engine, files, funcName)
	if err != nil {
		return err
	}

	t := m.Tree
	sets := paths.ToFailures(cfg.Build(t), limit)
	if len(sets) == 0 {
		fmt.Fprintf(w, "%s has no reachable failure point\n", m.QualifiedName())
		return nil
	}

	for _, set := range sets {
		fmt.Fprintf(w, "failure point %s: %d path(s)", t.Describe(set.Target), len(set.Paths))
		if set.Truncated {
			fmt.Fprint(w, ", truncated")
		}
		fmt.Fprintln(w)
		for i, p := range set.Paths {
			fmt.Fprintf(w, "  %d. %s\n", i+1, p.Format(t))
			fmt.Fprintf(w, "     requires: %s\n", symexec.Execute(t, t.Scope(), p))
		}
	}
	return nil
}
