package export

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/util"
)

// DefaultInclude matches every JSON file below the batch root.
var DefaultInclude = []string{"**/*.json"}

// BatchConfig controls Batch.
type BatchConfig struct {
	Root    string
	Include []string
	Exclude []string
	// Targets defaults to every target.
	Targets []builder.Target
	// Format falls back to JSON for targets that cannot write it.
	Format   builder.Format
	Optimize bool
	// OutputDir receives one file per input and target, mirroring the
	// input layout. Empty keeps results in memory only.
	OutputDir string
	Workers   int
	// Cache serves input files. Nil uses a cache private to the batch.
	Cache util.FileCache
}

// BatchItem is the outcome for one input file and target.
type BatchItem struct {
	Path    string
	Target  builder.Target
	OutPath string
	Result  *Result
	Err     error
}

// BatchStats summarizes a batch.
type BatchStats struct {
	Files     int
	Exported  int64
	Failed    int64
	Invalid   int64
	OutputLen int64
}

// Discover walks root applying include/exclude globs, relative to root.
// Returns a sorted slice of absolute file paths.
func Discover(root string, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		for _, pattern := range exclude {
			if matched, _ := doublestar.PathMatch(pattern, rel); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if d.IsDir() {
			return nil
		}
		for _, pattern := range include {
			if m, _ := doublestar.PathMatch(pattern, rel); m {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

type batchJob struct {
	path string
	rel  string
}

// Batch exports every discovered file to every configured target on a pool
// of workers. Items come back sorted by path, then target order. Per-file
// failures are reported in the items; the returned error covers discovery
// and cancellation only.
func (s *Service) Batch(ctx context.Context, cfg BatchConfig) ([]BatchItem, BatchStats, error) {
	var stats BatchStats
	files, err := Discover(cfg.Root, cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, stats, err
	}
	stats.Files = len(files)
	if len(files) == 0 {
		return nil, stats, nil
	}

	targets := cfg.Targets
	if len(targets) == 0 {
		targets = builder.Targets()
	}
	cache := cfg.Cache
	if cache == nil {
		cache = util.NewFileCache(&util.FileCacheConfig{Logger: s.logger})
		defer cache.Close()
	}
	absRoot, _ := filepath.Abs(cfg.Root)

	workers := util.GetOptimalPoolSizeWithOverride(cfg.Workers)
	if workers > len(files) {
		workers = len(files)
	}
	s.logger.Info("Starting batch export", "files", len(files), "targets", len(targets), "workers", workers)

	jobs := make(chan batchJob, workers*2)
	results := make(chan BatchItem, workers*len(targets))

	var exported, failed, invalid, outLen atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-jobs:
					if !ok {
						return
					}
					s.logger.Debug("Worker received job", "worker_id", id, "file", job.rel)
					for _, item := range s.batchFile(job, targets, cfg, cache) {
						switch {
						case item.Err != nil:
							failed.Add(1)
						default:
							exported.Add(1)
							outLen.Add(int64(item.Result.Bytes))
							if !item.Result.Report.Valid {
								invalid.Add(1)
							}
						}
						results <- item
					}
				}
			}
		}(i)
	}

	go func() {
		defer close(jobs)
		for _, f := range files {
			rel, err := filepath.Rel(absRoot, f)
			if err != nil {
				rel = filepath.Base(f)
			}
			select {
			case <-ctx.Done():
				return
			case jobs <- batchJob{path: f, rel: rel}:
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	var items []BatchItem
	for item := range results {
		items = append(items, item)
	}

	order := make(map[builder.Target]int, len(targets))
	for i, t := range targets {
		order[t] = i
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Path != items[j].Path {
			return items[i].Path < items[j].Path
		}
		return order[items[i].Target] < order[items[j].Target]
	})

	stats.Exported = exported.Load()
	stats.Failed = failed.Load()
	stats.Invalid = invalid.Load()
	stats.OutputLen = outLen.Load()
	s.logger.Info("Batch export finished",
		"files", stats.Files, "exported", stats.Exported, "failed", stats.Failed, "invalid", stats.Invalid)

	if err := ctx.Err(); err != nil {
		return items, stats, fmt.Errorf("batch export interrupted: %w", err)
	}
	return items, stats, nil
}

// ExportFile exports one page file to the configured targets the way Batch
// does for each discovered file. Paths in the items are relative to
// cfg.Root when path lies below it.
func (s *Service) ExportFile(path string, cfg BatchConfig) []BatchItem {
	targets := cfg.Targets
	if len(targets) == 0 {
		targets = builder.Targets()
	}
	cache := cfg.Cache
	if cache == nil {
		cache = util.NewFileCache(&util.FileCacheConfig{Logger: s.logger})
		defer cache.Close()
	}
	rel := filepath.Base(path)
	if absRoot, err := filepath.Abs(cfg.Root); err == nil {
		if r, err := filepath.Rel(absRoot, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	return s.batchFile(batchJob{path: path, rel: rel}, targets, cfg, cache)
}

// batchFile decodes one input once and exports it to each target.
func (s *Service) batchFile(job batchJob, targets []builder.Target, cfg BatchConfig, cache util.FileCache) []BatchItem {
	items := make([]BatchItem, 0, len(targets))
	fail := func(err error) []BatchItem {
		for _, t := range targets {
			items = append(items, BatchItem{Path: job.path, Target: t, Err: err})
		}
		return items
	}

	data, err := cache.Read(job.path)
	if err != nil {
		return fail(err)
	}
	page, err := component.DecodeAny(data)
	if err != nil {
		return fail(fmt.Errorf("%s: %w", job.rel, err))
	}

	for _, t := range targets {
		format := cfg.Format
		if format == "" || !supports(t, format) {
			format = builder.FormatJSON
		}
		item := BatchItem{Path: job.path, Target: t}
		item.Result, item.Err = s.Export(page, Request{
			Target:   t,
			Format:   format,
			Optimize: cfg.Optimize,
			Source:   job.rel,
		})
		if item.Err == nil && cfg.OutputDir != "" {
			item.OutPath = OutputPath(cfg.OutputDir, job.rel, t, format)
			item.Err = writeOutput(item.OutPath, item.Result.Output)
		}
		items = append(items, item)
	}
	return items
}

// OutputPath places the export of rel for target under dir:
// pages/home.json becomes <dir>/pages/home.elementor.json.
func OutputPath(dir, rel string, target builder.Target, format builder.Format) string {
	base := strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.Join(dir, base+"."+string(target)+format.Extension())
}

func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
