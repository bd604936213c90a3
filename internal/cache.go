package internal

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	tt "github.com/mjp2ff/aid-sub000/internal/types"
)

const (
	cacheFileName = "reports.gob"
	defaultMaxAge = 24 * time.Hour
)

// cachedReport is one file's report together with what it was derived from.
type cachedReport struct {
	Source   string
	Settings string
	Report   *tt.FileReport
	Created  time.Time
}

// Cache keeps file reports on disk between runs. A report is served only
// for the exact source it was derived from, under the same analysis
// settings, and while it is younger than the maximum age.
type Cache struct {
	dir      string
	settings string
	maxAge   time.Duration

	mu      sync.Mutex
	reports map[string]cachedReport
}

// NewCache opens the cache in dir, creating the directory if needed.
// settings identifies the analysis configuration; reports stored under
// other settings are never served.
func NewCache(dir, settings string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	c := &Cache{
		dir:      dir,
		settings: settings,
		maxAge:   defaultMaxAge,
		reports:  make(map[string]cachedReport),
	}
	if err := c.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return c, nil
}

// Get returns the report stored for filename if it was derived from src
// under the cache's settings.
func (c *Cache) Get(filename string, src []byte) (*tt.FileReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.reports[filename]
	if !ok {
		return nil, false
	}
	if r.Settings != c.settings || r.Source != digest(src) || time.Since(r.Created) > c.maxAge {
		delete(c.reports, filename)
		return nil, false
	}
	return r.Report, true
}

// Set stores the report derived from src and writes the cache to disk.
func (c *Cache) Set(filename string, src []byte, report *tt.FileReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reports[filename] = cachedReport{
		Source:   digest(src),
		Settings: c.settings,
		Report:   report,
		Created:  time.Now(),
	}
	return c.save()
}

// Forget drops the report of filename, for files that were removed.
func (c *Cache) Forget(filename string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.reports[filename]; !ok {
		return nil
	}
	delete(c.reports, filename)
	return c.save()
}

func (c *Cache) load() error {
	f, err := os.Open(filepath.Join(c.dir, cacheFileName))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(&c.reports); err != nil {
		return fmt.Errorf("failed to decode %s: %w", f.Name(), err)
	}
	return nil
}

// save replaces the cache file so that readers never see a partial write.
func (c *Cache) save() error {
	tmp, err := os.CreateTemp(c.dir, cacheFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	if err := gob.NewEncoder(tmp).Encode(c.reports); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(c.dir, cacheFileName))
}

// Fingerprint identifies analysis settings by the digest of their YAML
// encoding, which orders map keys.
func Fingerprint(settings any) (string, error) {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}
	return digest(data), nil
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
