package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/mjp2ff/aid-sub000/internal/types"
)

func TestWatch(t *testing.T) {
	dir := createTempDir(t, "watch-test")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor"), 0o755))

	engine, err := NewEngine(Options{IgnorePaths: []string{"vendor/**"}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan *tt.FileReport, 8)
	require.NoError(t, engine.StartWatching(ctx, []string{dir}, func(r *tt.FileReport) {
		reports <- r
	}))
	assert.Error(t, engine.StartWatching(ctx, []string{dir}, nil))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor", "skip.go"), []byte("package v\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	path := filepath.Join(dir, "check.go")
	require.NoError(t, os.WriteFile(path, []byte("package w\n\nfunc f(x int) {\n\tif x < 0 {\n\t\tpanic(x)\n\t}\n}\n"), 0o644))

	select {
	case r := <-reports:
		assert.Equal(t, path, r.Filename)
		require.NotEmpty(t, r.Methods)
		assert.Equal(t, "x greater than or equal to 0", r.Methods[0].SuccessCondition)
	case <-time.After(5 * time.Second):
		t.Fatal("no report received")
	}

	require.NoError(t, engine.StopWatching())
	assert.NoError(t, engine.StopWatching())
}
