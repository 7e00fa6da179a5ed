// FileCache provides memory-mapped access to page input files.
//
// Batch and watch exports read the same component-tree JSON files many times
// (once per target). Mapping each file once and handing out the mapped bytes
// avoids re-reading large crawler dumps for every target.
//
// **Lifecycle:**
//   - Lazy loading: files are mapped on first Read
//   - Invalidate drops a mapping after the file changes on disk
//   - Close unmaps everything
package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// FileCache provides cached, read-only access to input files.
//
// Thread-safe: Multiple goroutines can call methods concurrently.
type FileCache interface {
	// Read returns the file contents, mapping the file on first access.
	// The returned slice must not be modified.
	Read(filePath string) ([]byte, error)

	// Invalidate drops any cached mapping for filePath.
	Invalidate(filePath string)

	// Size returns number of currently cached files.
	Size() int

	// Stats returns current cache metrics.
	Stats() FileCacheStats

	// Close unmaps all files and releases resources.
	Close() error
}

// FileCacheConfig controls FileCache behavior.
type FileCacheConfig struct {
	// MaxFiles is the maximum number of files to keep mapped.
	// Set to 0 for unlimited. When reached, Read falls back to
	// os.ReadFile without caching.
	MaxFiles int

	// Logger for warnings. If nil, uses slog.Default().
	Logger *slog.Logger
}

// DefaultFileCacheConfig returns defaults suitable for batch exports.
func DefaultFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{
		MaxFiles: 512,
	}
}

// FileCacheStats tracks cache performance metrics.
type FileCacheStats struct {
	FilesCached  int
	CacheHits    int64
	CacheMisses  int64
	MmapFailures int64
	Uncached     int64
}

type mappedFile struct {
	data mmap.MMap
	file *os.File
	// heap holds contents for empty files and failed mappings.
	heap []byte
}

func (m *mappedFile) bytes() []byte {
	if m.data != nil {
		return m.data
	}
	return m.heap
}

func (m *mappedFile) release() error {
	var firstErr error
	if m.data != nil {
		if err := m.data.Unmap(); err != nil {
			firstErr = err
		}
	}
	if m.file != nil {
		if err := m.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewFileCache creates a new FileCache with the given config.
//
// If config is nil, uses DefaultFileCacheConfig().
func NewFileCache(config *FileCacheConfig) FileCache {
	if config == nil {
		config = DefaultFileCacheConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &fileCacheImpl{
		config: config,
		logger: logger,
		files:  make(map[string]*mappedFile),
	}
}

type fileCacheImpl struct {
	config *FileCacheConfig
	logger *slog.Logger

	mu    sync.RWMutex
	files map[string]*mappedFile

	statsMu sync.Mutex
	stats   FileCacheStats
}

// Read returns the (possibly mapped) contents of filePath.
func (fc *fileCacheImpl) Read(filePath string) ([]byte, error) {
	fc.mu.RLock()
	if mf, ok := fc.files[filePath]; ok {
		fc.mu.RUnlock()
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf.bytes(), nil
	}
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Double-check: another goroutine may have mapped it while we waited.
	if mf, ok := fc.files[filePath]; ok {
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf.bytes(), nil
	}
	fc.record(func(s *FileCacheStats) { s.CacheMisses++ })

	if fc.config.MaxFiles > 0 && len(fc.files) >= fc.config.MaxFiles {
		fc.record(func(s *FileCacheStats) { s.Uncached++ })
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
		}
		return data, nil
	}

	mf, err := fc.load(filePath)
	if err != nil {
		return nil, err
	}
	fc.files[filePath] = mf
	return mf.bytes(), nil
}

// load opens and maps a file, falling back to os.ReadFile if mmap fails.
//
// Must be called while holding mu.Lock.
func (fc *fileCacheImpl) load(filePath string) (*mappedFile, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", filePath, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file %q: %w", filePath, err)
	}

	// Zero-length files cannot be mapped.
	if stat.Size() == 0 {
		file.Close()
		return &mappedFile{heap: []byte{}}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		fc.logger.Warn("mmap failed, using fallback", "file", filePath, "error", err)
		file.Close()
		fc.record(func(s *FileCacheStats) { s.MmapFailures++ })

		heap, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return nil, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				filePath, err, readErr)
		}
		return &mappedFile{heap: heap}, nil
	}

	return &mappedFile{data: data, file: file}, nil
}

// Invalidate unmaps filePath if cached. Slices previously returned by Read
// for this file must no longer be used.
func (fc *fileCacheImpl) Invalidate(filePath string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	mf, ok := fc.files[filePath]
	if !ok {
		return
	}
	delete(fc.files, filePath)
	if err := mf.release(); err != nil {
		fc.logger.Warn("failed to release file", "path", filePath, "error", err)
	}
}

// Size returns number of currently cached files.
func (fc *fileCacheImpl) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.files)
}

// Stats returns current cache metrics.
func (fc *fileCacheImpl) Stats() FileCacheStats {
	size := fc.Size()

	fc.statsMu.Lock()
	defer fc.statsMu.Unlock()

	stats := fc.stats
	stats.FilesCached = size
	return stats
}

// Close unmaps all files and releases resources.
func (fc *fileCacheImpl) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var errs []error
	for path, mf := range fc.files {
		if err := mf.release(); err != nil {
			fc.logger.Warn("failed to release file", "path", path, "error", err)
			errs = append(errs, fmt.Errorf("release %q: %w", path, err))
		}
	}
	fc.files = make(map[string]*mappedFile)

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}

func (fc *fileCacheImpl) record(fn func(*FileCacheStats)) {
	fc.statsMu.Lock()
	fn(&fc.stats)
	fc.statsMu.Unlock()
}
