package export

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/exportlog"
)

// DefaultCacheSize is the number of results a Service keeps when the
// configured size is not positive.
const DefaultCacheSize = 128

// ServiceConfig configures a Service.
type ServiceConfig struct {
	Options   builder.Options
	CacheSize int
	// RunLog receives one entry per export. Nil disables it.
	RunLog *exportlog.Logger
}

// ServiceStats tracks cache performance.
type ServiceStats struct {
	Runs      int64 `json:"runs"`
	CacheHits int64 `json:"cacheHits"`
	Cached    int   `json:"cached"`
}

// Service runs exports and caches results keyed by input content, target,
// format and the optimize flag.
//
// Thread-safe: every run builds its own exporter.
type Service struct {
	opts   builder.Options
	cache  *lru.Cache[string, *Result]
	runLog *exportlog.Logger
	logger *slog.Logger

	runs atomic.Int64
	hits atomic.Int64
}

// NewService creates a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	opts := cfg.Options.Normalize()
	cache, err := lru.NewWithEvict(size, func(key string, _ *Result) {
		opts.Logger.Debug("evicted export result", "key", key[:12])
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	return &Service{opts: opts, cache: cache, runLog: cfg.RunLog, logger: opts.Logger}, nil
}

// Options returns the exporter options the service runs with.
func (s *Service) Options() builder.Options { return s.opts }

// ExportBytes decodes data as a page (or bare component tree) and exports
// it. A repeated request for identical input returns the cached result
// with Cached set.
func (s *Service) ExportBytes(data []byte, req Request) (*Result, error) {
	key := cacheKey(data, req)
	if hit, ok := s.cache.Get(key); ok {
		s.hits.Add(1)
		r := *hit
		r.Cached = true
		r.Source = req.Source
		werr := s.runLog.Write(exportlog.Entry{
			RunID:       r.RunID,
			Target:      string(r.Target),
			Format:      string(r.Format),
			Source:      r.Source,
			Nodes:       r.Nodes,
			OutputBytes: r.Bytes,
			Valid:       r.Report.Valid,
			Errors:      len(r.Report.Errors()),
			Warnings:    len(r.Report.Warnings()),
			Cached:      true,
		})
		if werr != nil {
			s.logger.Warn("Failed to write export log entry", "run", r.RunID, "error", werr)
		}
		return &r, nil
	}

	page, err := component.DecodeAny(data)
	if err != nil {
		return nil, err
	}
	res, err := s.Export(page, req)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, res)
	return res, nil
}

// Export runs one export without caching.
func (s *Service) Export(page *component.Page, req Request) (*Result, error) {
	s.runs.Add(1)
	return run(page, req, s.opts, s.runLog)
}

// Invalidate drops every cached result.
func (s *Service) Invalidate() {
	s.cache.Purge()
}

// Stats returns current counters.
func (s *Service) Stats() ServiceStats {
	return ServiceStats{Runs: s.runs.Load(), CacheHits: s.hits.Load(), Cached: s.cache.Len()}
}

func cacheKey(data []byte, req Request) string {
	sum := sha256.Sum256(data)
	format := req.Format
	if format == "" {
		format = builder.FormatJSON
	}
	return fmt.Sprintf("%s|%s|%s|%t", hex.EncodeToString(sum[:]), req.Target, format, req.Optimize)
}
