package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mjp2ff/aid-sub000/analyze"
	"github.com/mjp2ff/aid-sub000/formatter"
	"github.com/mjp2ff/aid-sub000/internal"
	tt "github.com/mjp2ff/aid-sub000/internal/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-analyze files as they change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine, _, err := analyze.New(cfgFile, logger)
		if err != nil {
			logger.Fatal("Failed to initialize engine", zap.Error(err))
		}
		if err := engine.StartWatching(ctx, args, printWatchReport); err != nil {
			logger.Fatal("Failed to start watching", zap.Error(err))
		}
		logger.Info("Watching for changes", zap.Strings("dirs", args))

		// the engine stops watching when ctx is done
		<-ctx.Done()
	},
}

func printWatchReport(report *tt.FileReport) {
	sourceCode, err := internal.ReadSourceCode(report.Filename)
	if err != nil {
		logger.Error("Error reading source file", zap.String("file", report.Filename), zap.Error(err))
	}
	fmt.Print(formatter.GenerateFormattedReport(report.Methods, sourceCode))
	fmt.Println(formatter.Summary([]*tt.FileReport{report}))
}
