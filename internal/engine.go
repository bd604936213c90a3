package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mjp2ff/aid-sub000/internal/analysis/condition"
	"github.com/mjp2ff/aid-sub000/internal/frontend"
	"github.com/mjp2ff/aid-sub000/internal/frontend/golang"
	"github.com/mjp2ff/aid-sub000/internal/frontend/java"
	"github.com/mjp2ff/aid-sub000/internal/trie"
	tt "github.com/mjp2ff/aid-sub000/internal/types"
)

// Engine analyzes source files method by method.
type Engine struct {
	registry       *frontend.Registry
	opts           condition.Options
	logger         *zap.Logger
	ignoredMethods *trie.Trie
	ignoredPaths   *trie.Trie
	workers        int
	cache          *Cache

	watchMu    sync.Mutex
	watcher    *fsnotify.Watcher
	watchDirs  []string
	isWatching bool
	onReport   func(*tt.FileReport)
}

// Options configure an Engine.
type Options struct {
	Frontend  frontend.Options
	Condition condition.Options
	// IgnoreMethods are qualified-name patterns such as "Store.*" or
	// "*.String". A "*" matches one name segment.
	IgnoreMethods []string
	// IgnorePaths are slash-separated patterns such as "vendor/**". They
	// match at any directory depth.
	IgnorePaths []string
	// Workers bounds the number of methods analyzed at once. Zero means
	// runtime.NumCPU().
	Workers int
	// CacheDir enables the report cache when set.
	CacheDir string
	Logger   *zap.Logger
}

// NewEngine creates an engine with the Java and Go front ends registered.
func NewEngine(opts Options) (*Engine, error) {
	e := &Engine{
		registry:       frontend.NewRegistry(java.New(opts.Frontend), golang.New(opts.Frontend)),
		opts:           opts.Condition,
		logger:         opts.Logger,
		ignoredMethods: trie.FromPatterns(".", opts.IgnoreMethods...),
		ignoredPaths:   trie.FromPatterns("/", opts.IgnorePaths...),
		workers:        opts.Workers,
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.workers <= 0 {
		e.workers = runtime.NumCPU()
	}
	if opts.CacheDir != "" {
		settings, err := Fingerprint(cacheSettings{
			Frontend:      opts.Frontend,
			Condition:     opts.Condition,
			IgnoreMethods: opts.IgnoreMethods,
		})
		if err != nil {
			return nil, err
		}
		cache, err := NewCache(opts.CacheDir, settings)
		if err != nil {
			return nil, err
		}
		e.cache = cache
	}
	return e, nil
}

// cacheSettings are the options that shape a file report.
type cacheSettings struct {
	Frontend      frontend.Options
	Condition     condition.Options
	IgnoreMethods []string
}

// Cache returns the report cache, or nil when caching is disabled.
func (e *Engine) Cache() *Cache {
	return e.cache
}

// Supports reports whether a front end is registered for path.
func (e *Engine) Supports(path string) bool {
	return e.registry.Supports(path)
}

// Extensions returns the file extensions the engine can analyze.
func (e *Engine) Extensions() []string {
	return e.registry.Extensions()
}

// Skips reports whether path matches one of the ignored path patterns.
func (e *Engine) Skips(path string) bool {
	segments := strings.Split(strings.Trim(filepath.ToSlash(path), "/"), "/")
	for i := range segments {
		if e.ignoredPaths.Match(segments[i:]) {
			return true
		}
	}
	return false
}

// Parse reads and parses filename without analyzing it.
func (e *Engine) Parse(ctx context.Context, filename string) (*frontend.File, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return e.registry.Parse(ctx, filename, src)
}

// Run analyzes every method of filename. When the cache is enabled, a file
// whose content and settings are unchanged is served from it.
func (e *Engine) Run(ctx context.Context, filename string) (*tt.FileReport, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if e.cache != nil {
		if report, ok := e.cache.Get(filename, src); ok {
			e.logger.Debug("cache hit", zap.String("file", filename))
			return report, nil
		}
	}

	report, err := e.RunSource(ctx, filename, src)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Set(filename, src, report); err != nil {
			e.logger.Warn("failed to cache report", zap.String("file", filename), zap.Error(err))
		}
	}
	return report, nil
}

// RunSource analyzes src as the content of filename, whose extension
// selects the front end. Methods are analyzed concurrently; the report lists
// them in source order.
func (e *Engine) RunSource(ctx context.Context, filename string, src []byte) (*tt.FileReport, error) {
	file, err := e.registry.Parse(ctx, filename, src)
	if err != nil {
		return nil, err
	}

	report := &tt.FileReport{
		Filename: filename,
		Language: file.Language,
		Errors:   file.Errors,
	}
	for _, msg := range file.Errors {
		e.logger.Warn("recoverable parse error", zap.String("file", filename), zap.String("error", msg))
	}

	methods := make([]*frontend.Method, 0, len(file.Methods))
	for _, m := range file.Methods {
		if m.Ignored || e.ignoredMethods.MatchString(m.QualifiedName(), ".") {
			report.Ignored++
			continue
		}
		methods = append(methods, m)
	}

	report.Methods = make([]tt.MethodReport, len(methods))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, m := range methods {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report.Methods[i] = e.analyzeMethod(filename, file.Language, m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analysis of %s canceled: %w", filename, err)
	}
	return report, nil
}

func (e *Engine) analyzeMethod(filename, language string, m *frontend.Method) tt.MethodReport {
	res := condition.Analyze(m.Tree, e.opts)

	r := tt.MethodReport{
		Filename:      filename,
		Language:      language,
		Method:        m.QualifiedName(),
		Start:         m.Start,
		End:           m.End,
		Line:          m.Start.Line,
		Complexity:    m.Complexity,
		FailurePoints: res.FailurePoints,
		Paths:         res.Paths,
		Expansion:     res.Expansion,
		Status:        res.Status.String(),
		NeverSucceeds: res.NeverSucceeds(),
	}
	if res.Condition != nil {
		r.SuccessCondition = res.Condition.String()
	}
	if res.Failure != nil {
		r.FailureCondition = res.Failure.String()
	}

	switch res.Status {
	case condition.StatusPathLimit, condition.StatusExpansionLimit:
		e.logger.Debug("precision loss",
			zap.String("file", filename),
			zap.String("method", r.Method),
			zap.Stringer("status", res.Status),
			zap.Int("paths", res.Paths),
			zap.Int("expansion", res.Expansion),
		)
	}
	return r
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	return &SourceCode{Lines: lines}, nil
}
