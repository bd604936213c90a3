// Package analyze is the entry point for running the success-condition
// analysis over files and directories.
package analyze

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/mjp2ff/aid-sub000/internal"
	tt "github.com/mjp2ff/aid-sub000/internal/types"
	"github.com/mjp2ff/aid-sub000/scanner"
)

// Engine is the part of internal.Engine the processing functions use.
type Engine interface {
	Run(ctx context.Context, filename string) (*tt.FileReport, error)
	RunSource(ctx context.Context, filename string, src []byte) (*tt.FileReport, error)
	Supports(path string) bool
	Skips(path string) bool
	Extensions() []string
}

// Processor analyzes one file.
type Processor func(ctx context.Context, engine Engine, path string) (*tt.FileReport, error)

// Source is an in-memory file. Its name selects the front end.
type Source struct {
	Filename string
	Content  []byte
}

// New loads the configuration at configPath and creates an engine from it.
func New(configPath string, logger *zap.Logger) (*internal.Engine, Config, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, config, err
	}
	engine, err := NewWithConfig(config, logger)
	return engine, config, err
}

// NewWithConfig creates an engine from config. Cached reports produced
// under different settings are not reused.
func NewWithConfig(config Config, logger *zap.Logger) (*internal.Engine, error) {
	engine, err := internal.NewEngine(config.EngineOptions(logger))
	if err != nil {
		return nil, fmt.Errorf("error creating engine: %w", err)
	}
	return engine, nil
}

func ProcessFile(ctx context.Context, engine Engine, path string) (*tt.FileReport, error) {
	return engine.Run(ctx, path)
}

func ProcessSource(ctx context.Context, engine Engine, src Source) (*tt.FileReport, error) {
	return engine.RunSource(ctx, src.Filename, src.Content)
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	sources []Source,
	processor func(context.Context, Engine, Source) (*tt.FileReport, error),
) ([]*tt.FileReport, error) {
	reports := make([]*tt.FileReport, 0, len(sources))
	for i, src := range sources {
		report, err := processor(ctx, engine, src)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.String("file", src.Filename), zap.Error(err))
			}
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
	processor Processor,
) ([]*tt.FileReport, error) {
	var reports []*tt.FileReport
	for _, path := range paths {
		pathReports, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		reports = append(reports, pathReports...)
	}

	return reports, nil
}

// ProcessPath analyzes path, or every supported file below it when it is a
// directory. Files that fail to analyze are logged and left out; the
// reports of a directory follow the walk order.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	path string,
	processor Processor,
) ([]*tt.FileReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !engine.Supports(path) {
			logger.Debug("skipping unsupported file", zap.String("file", path))
			return nil, nil
		}
		report, err := processor(ctx, engine, path)
		if err != nil {
			return nil, err
		}
		return []*tt.FileReport{report}, nil
	}

	files, err := collectFiles(engine, path)
	if err != nil {
		return nil, err
	}

	bar := newProgressBar(path, len(files))
	results := make([]*tt.FileReport, len(files))

	// limit the number of workers
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

dispatch:
	for i, filePath := range files {
		select {
		case <-ctx.Done():
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			bar.Describe(filepath.Base(fp))
			report, err := processor(ctx, engine, fp)
			if err != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
			} else {
				results[i] = report
			}
			_ = bar.Add(1)
		}(i, filePath)
	}
	wg.Wait()
	_ = bar.Finish()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reports := make([]*tt.FileReport, 0, len(files))
	for _, r := range results {
		if r != nil {
			reports = append(reports, r)
		}
	}
	return reports, nil
}

func collectFiles(engine Engine, root string) ([]string, error) {
	found, err := scanner.New(root, engine.Extensions()...).WithSkip(engine.Skips).Scan()
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", root, err)
	}

	files := make([]string, 0, len(found))
	for _, f := range found {
		files = append(files, f.Path)
	}
	return files, nil
}

// newProgressBar draws on stderr only when it is a terminal.
func newProgressBar(description string, total int) *progressbar.ProgressBar {
	fd := os.Stderr.Fd()
	visible := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
