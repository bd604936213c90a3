package analyze

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, c Config)
		wantErr bool
	}{
		{
			name:    "empty file keeps defaults",
			content: "",
			check: func(t *testing.T, c Config) {
				assert.Equal(t, DefaultConfig(), c)
			},
		},
		{
			name: "overrides",
			content: `name: store
limits:
  max_paths: 20
  max_expansion: 50
failure_calls:
  - Runtime.halt
exceptions:
  StoreException: IOException
ignore_methods:
  - "*.toString"
keep_all_conditions: true
`,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "store", c.Name)
				assert.Equal(t, Limits{MaxPaths: 20, MaxExpansion: 50}, c.Limits)
				assert.Equal(t, []string{"Runtime.halt"}, c.FailureCalls)
				assert.Equal(t, map[string]string{"StoreException": "IOException"}, c.Exceptions)
				assert.Equal(t, []string{"*.toString"}, c.IgnoreMethods)
				assert.Equal(t, DefaultConfig().IgnorePaths, c.IgnorePaths)
				assert.True(t, c.KeepAllConditions)
			},
		},
		{
			name:    "partial limits",
			content: "limits:\n  max_paths: 5\n",
			check: func(t *testing.T, c Config) {
				assert.Equal(t, 5, c.Limits.MaxPaths)
				assert.Equal(t, DefaultConfig().Limits.MaxExpansion, c.Limits.MaxExpansion)
			},
		},
		{
			name:    "negative limit",
			content: "limits:\n  max_paths: -1\n",
			wantErr: true,
		},
		{
			name:    "empty name",
			content: "name: \"\"\n",
			wantErr: true,
		},
		{
			name:    "empty failure call",
			content: "failure_calls:\n  - \"\"\n",
			wantErr: true,
		},
		{
			name:    "malformed",
			content: "limits: [1, 2\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), DefaultConfigFile)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			c, err := LoadConfig(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	c, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestWriteConfigRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	config := DefaultConfig()
	config.Exceptions = map[string]string{"CacheException": "RuntimeException"}
	require.NoError(t, WriteConfig(path, config))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestEngineOptions(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	config.KeepAllConditions = true
	opts := config.EngineOptions(zap.NewNop())

	assert.Equal(t, config.FailureCalls, opts.Frontend.FailureCalls)
	assert.Equal(t, config.Limits.MaxPaths, opts.Condition.MaxPaths)
	assert.Equal(t, config.Limits.MaxExpansion, opts.Condition.MaxExpansion)
	assert.True(t, opts.Condition.KeepAllConditions)
	assert.Equal(t, config.IgnorePaths, opts.IgnorePaths)
	assert.NotNil(t, opts.Logger)
}
