// Package scanner finds the source files below a directory.
package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"
)

type FileInfo struct {
	Path string
	Size int64
}

type Scanner struct {
	rootDir    string
	extensions []string
	skip       func(path string) bool
}

// New returns a scanner for files under rootDir with one of extensions.
// Without extensions every file matches.
func New(rootDir string, extensions ...string) *Scanner {
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// WithSkip leaves out paths for which skip returns true. A skipped directory
// is not descended into.
func (s *Scanner) WithSkip(skip func(path string) bool) *Scanner {
	s.skip = skip
	return s
}

// Scan walks the root directory in lexical order.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != s.rootDir && s.skip != nil && s.skip(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !s.isTargetFile(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{
			Path: path,
			Size: info.Size(),
		})
		return nil
	})
	return files, err
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}

	ext := filepath.Ext(path)
	for _, targetExt := range s.extensions {
		if strings.EqualFold(ext, targetExt) {
			return true
		}
	}
	return false
}
