package internal

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjp2ff/aid-sub000/internal/analysis/condition"
	"github.com/mjp2ff/aid-sub000/internal/frontend"
	tt "github.com/mjp2ff/aid-sub000/internal/types"
)

func sampleReport(filename string) *tt.FileReport {
	return &tt.FileReport{
		Filename: filename,
		Language: "go",
		Methods: []tt.MethodReport{{
			Filename:         filename,
			Language:         "go",
			Method:           "check",
			Line:             3,
			FailurePoints:    1,
			Paths:            1,
			Expansion:        1,
			Status:           "derived",
			SuccessCondition: "x greater than or equal to 0",
			FailureCondition: "x less than 0",
		}},
	}
}

func TestCache(t *testing.T) {
	tmpDir := createTempDir(t, "cache-test")

	cacheDir := filepath.Join(tmpDir, "cache")
	cache, err := NewCache(cacheDir, "v1")
	require.NoError(t, err)

	src := []byte("package main\n\nfunc main() {}\n")

	t.Run("SaveAndLoad", func(t *testing.T) {
		report := sampleReport("test.go")
		require.NoError(t, cache.Set("test.go", src, report))

		loaded, found := cache.Get("test.go", src)
		assert.True(t, found)
		assert.Equal(t, report, loaded)

		// a second cache reads the file written by the first
		reopened, err := NewCache(cacheDir, "v1")
		require.NoError(t, err)
		fromDisk, found := reopened.Get("test.go", src)
		require.True(t, found)
		assert.Equal(t, report.Methods, fromDisk.Methods)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, found := cache.Get("nonexistent.go", src)
		assert.False(t, found)
	})

	t.Run("SourceChanged", func(t *testing.T) {
		require.NoError(t, cache.Set("modified.go", src, sampleReport("modified.go")))

		_, found := cache.Get("modified.go", []byte("package main\n\nfunc main() { println(\"Hello\") }\n"))
		assert.False(t, found)
		_, found = cache.Get("modified.go", src)
		assert.False(t, found, "a stale report is dropped")
	})

	t.Run("SettingsChanged", func(t *testing.T) {
		require.NoError(t, cache.Set("settings.go", src, sampleReport("settings.go")))

		other, err := NewCache(cacheDir, "v2")
		require.NoError(t, err)
		_, found := other.Get("settings.go", src)
		assert.False(t, found)
	})

	t.Run("Expired", func(t *testing.T) {
		require.NoError(t, cache.Set("expired.go", src, sampleReport("expired.go")))

		cache.maxAge = -time.Second
		defer func() { cache.maxAge = defaultMaxAge }()

		_, found := cache.Get("expired.go", src)
		assert.False(t, found)
	})

	t.Run("Forget", func(t *testing.T) {
		require.NoError(t, cache.Set("gone.go", src, sampleReport("gone.go")))
		require.NoError(t, cache.Forget("gone.go"))
		require.NoError(t, cache.Forget("never-cached.go"))

		reopened, err := NewCache(cacheDir, "v1")
		require.NoError(t, err)
		_, found := reopened.Get("gone.go", src)
		assert.False(t, found)
	})

	t.Run("CorruptFile", func(t *testing.T) {
		dir := filepath.Join(tmpDir, "corrupt")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, cacheFileName), []byte("not gob"), 0o644))

		_, err := NewCache(dir, "v1")
		assert.Error(t, err)
	})
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	base := cacheSettings{
		Frontend:  frontend.Options{Exceptions: map[string]string{"A": "Exception", "B": "A"}},
		Condition: condition.Options{MaxPaths: 100},
	}
	same := cacheSettings{
		Frontend:  frontend.Options{Exceptions: map[string]string{"B": "A", "A": "Exception"}},
		Condition: condition.Options{MaxPaths: 100},
	}
	changed := base
	changed.IgnoreMethods = []string{"*.toString"}

	a, err := Fingerprint(base)
	require.NoError(t, err)
	b, err := Fingerprint(same)
	require.NoError(t, err)
	c, err := Fingerprint(changed)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestCacheWithEngine(t *testing.T) {
	tmpDir := createTempDir(t, "cache-engine-test")

	cacheDir := filepath.Join(tmpDir, "cache")
	engine, err := NewEngine(Options{CacheDir: cacheDir})
	require.NoError(t, err)

	filename := writeFile(t, tmpDir, "test.go", `package main

func check(x int) {
	if x < 0 {
		panic(x)
	}
}
`)

	t.Run("CacheHit", func(t *testing.T) {
		report, err := engine.Run(context.Background(), filename)
		require.NoError(t, err)
		require.Len(t, report.Methods, 1)

		cached, err := engine.Run(context.Background(), filename)
		require.NoError(t, err)
		assert.Same(t, report, cached)
	})

	t.Run("CacheMiss", func(t *testing.T) {
		report, err := engine.Run(context.Background(), filename)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filename, []byte(`package main

func check(x int) {
	if x > 10 {
		panic(x)
	}
}
`), 0o644))

		fresh, err := engine.Run(context.Background(), filename)
		require.NoError(t, err)
		assert.NotEqual(t, report.Methods[0].SuccessCondition, fresh.Methods[0].SuccessCondition)
		assert.Equal(t, "x less than or equal to 10", fresh.Methods[0].SuccessCondition)
	})

	t.Run("SettingsChanged", func(t *testing.T) {
		report, err := engine.Run(context.Background(), filename)
		require.NoError(t, err)
		require.Len(t, report.Methods, 1)

		other, err := NewEngine(Options{CacheDir: cacheDir, IgnoreMethods: []string{"check"}})
		require.NoError(t, err)
		fresh, err := other.Run(context.Background(), filename)
		require.NoError(t, err)
		assert.Empty(t, fresh.Methods)
		assert.Equal(t, 1, fresh.Ignored)
	})
}

func TestCacheConcurrency(t *testing.T) {
	tempDir := createTempDir(t, "cache-concurrency-test")

	cache, err := NewCache(filepath.Join(tempDir, "cache"), "v1")
	require.NoError(t, err)

	testFile := "test.go"
	src := []byte("package main\n\nfunc main() {}\n")
	report := sampleReport(testFile)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.Set(testFile, src, report))
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Get(testFile, src)
		}()
	}
	wg.Wait()

	_, found := cache.Get(testFile, src)
	assert.True(t, found)
}
