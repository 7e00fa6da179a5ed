package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/exportlog"
	"github.com/gnana997/wpexport/pkg/util"
)

// --- Helpers ---

func el(tag, class, text string, children ...*component.ComponentInfo) *component.ComponentInfo {
	return &component.ComponentInfo{TagName: tag, ClassName: class, TextContent: text, Children: children}
}

func cardPage() *component.Page {
	btn := el("a", "btn", "Click")
	btn.Attributes = map[string]string{"href": "/x"}
	return &component.Page{
		Title: "Card",
		Root:  el("div", "card", "", el("h3", "", "Title"), el("p", "", "Body"), btn),
	}
}

func galleryPage(n int) *component.Page {
	root := el("div", "", "")
	for i := 0; i < n; i++ {
		root.Children = append(root.Children, &component.ComponentInfo{
			TagName:    "img",
			Attributes: map[string]string{"src": fmt.Sprintf("/uploads/%d.jpg", i)},
		})
	}
	return &component.Page{Root: root}
}

func pageJSON(t *testing.T, page *component.Page) []byte {
	t.Helper()
	data, err := json.Marshal(page)
	require.NoError(t, err)
	return data
}

func quietOptions() builder.Options {
	opts := builder.DefaultOptions()
	opts.Logger = util.DiscardLogger()
	return opts
}

func newService(t *testing.T, runLog *exportlog.Logger) *Service {
	t.Helper()
	svc, err := NewService(ServiceConfig{Options: quietOptions(), CacheSize: 8, RunLog: runLog})
	require.NoError(t, err)
	return svc
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			n++
		}
	}
	return n
}

// --- Run ---

func TestRunAll_CardIsCompleteForEveryTarget(t *testing.T) {
	results, err := RunAll(cardPage(), Request{Source: "card.json"}, quietOptions())
	require.NoError(t, err)
	require.Len(t, results, len(builder.Targets()))

	for i, res := range results {
		t.Run(string(res.Target), func(t *testing.T) {
			assert.Equal(t, builder.Targets()[i], res.Target)
			assert.Equal(t, builder.FormatJSON, res.Format)
			assert.Equal(t, 4, res.Nodes)
			assert.True(t, res.Complete(), "weight %d, nodes %d", res.Weight, res.Nodes)
			assert.True(t, json.Valid(res.Output))
			assert.Contains(t, string(res.Output), "/x")
			assert.Equal(t, len(res.Output), res.Bytes)
			assert.NotEmpty(t, res.RunID)
			assert.Equal(t, "card.json", res.Source)
			require.NotNil(t, res.Report)
		})
	}
}

func TestRun_GalleryDetectedEverywhere(t *testing.T) {
	for _, target := range builder.Targets() {
		res, err := Run(galleryPage(5), Request{Target: target}, quietOptions())
		require.NoError(t, err)
		assert.True(t, res.Complete(), "%s weight %d", target, res.Weight)
		assert.Contains(t, string(res.Output), "/uploads/4.jpg", target)
	}
}

func TestRun_UnknownTarget(t *testing.T) {
	_, err := Run(cardPage(), Request{Target: "divi"}, quietOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTarget))
}

func TestRun_NilPage(t *testing.T) {
	_, err := Run(nil, Request{Target: builder.TargetElementor}, quietOptions())
	assert.ErrorIs(t, err, ErrNilPage)

	_, err = Run(&component.Page{}, Request{Target: builder.TargetElementor}, quietOptions())
	assert.ErrorIs(t, err, ErrNilPage)
}

func TestRun_UnsupportedFormat(t *testing.T) {
	_, err := Run(cardPage(), Request{Target: builder.TargetBeaver, Format: builder.FormatShortcode}, quietOptions())
	assert.ErrorIs(t, err, builder.ErrUnsupportedFormat)
}

func TestRun_GutenbergBlockGrammar(t *testing.T) {
	res, err := Run(cardPage(), Request{Target: builder.TargetGutenberg, Format: builder.FormatHTML}, quietOptions())
	require.NoError(t, err)
	out := string(res.Output)
	assert.Contains(t, out, "<!-- wp:group")
	assert.Contains(t, out, "<!-- wp:heading")
	assert.Contains(t, out, "<!-- /wp:group -->")
}

func TestRun_OptimizeKeepsCompleteness(t *testing.T) {
	for _, target := range builder.Targets() {
		res, err := Run(cardPage(), Request{Target: target, Optimize: true}, quietOptions())
		require.NoError(t, err)
		assert.True(t, res.Complete(), target)
	}
}

func TestRunAll_ShortcodeFallsBackToJSON(t *testing.T) {
	results, err := RunAll(cardPage(), Request{Format: builder.FormatShortcode}, quietOptions())
	require.NoError(t, err)
	for _, res := range results {
		if res.Target == builder.TargetOxygen {
			assert.Equal(t, builder.FormatShortcode, res.Format)
			assert.Contains(t, string(res.Output), "[ct_")
			continue
		}
		assert.Equal(t, builder.FormatJSON, res.Format, res.Target)
	}
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []builder.Format{builder.FormatJSON}, Formats(builder.TargetElementor))
	assert.Equal(t, []builder.Format{builder.FormatJSON, builder.FormatHTML}, Formats(builder.TargetGutenberg))
	assert.Equal(t, []builder.Format{builder.FormatJSON, builder.FormatShortcode}, Formats(builder.TargetOxygen))
	assert.Equal(t, []builder.Format{builder.FormatJSON}, Formats(builder.TargetBeaver))
	assert.Nil(t, Formats("divi"))
}

func TestNew_FreshExportersDoNotShareState(t *testing.T) {
	a, err := New(builder.TargetOxygen, quietOptions())
	require.NoError(t, err)
	b, err := New(builder.TargetOxygen, quietOptions())
	require.NoError(t, err)

	fj, err := a.Export(cardPage()).Serialize(builder.FormatJSON)
	require.NoError(t, err)
	a.Export(cardPage())
	a.Reset()
	aj, err := a.Export(cardPage()).Serialize(builder.FormatJSON)
	require.NoError(t, err)
	oj, err := b.Export(cardPage()).Serialize(builder.FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, string(fj), string(aj))
	assert.JSONEq(t, string(fj), string(oj))
}

// --- Service ---

func TestService_CachesByContent(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "exports.jsonl")
	runLog, err := exportlog.NewLogger(logPath)
	require.NoError(t, err)
	svc := newService(t, runLog)

	data := pageJSON(t, cardPage())
	first, err := svc.ExportBytes(data, Request{Target: builder.TargetElementor, Source: "a.json"})
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.ExportBytes(data, Request{Target: builder.TargetElementor, Source: "b.json"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.RunID, second.RunID)
	assert.Equal(t, "b.json", second.Source)
	assert.Equal(t, first.Output, second.Output)

	stats := svc.Stats()
	assert.Equal(t, int64(1), stats.Runs)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, 1, stats.Cached)

	require.NoError(t, runLog.Close())
	assert.Equal(t, 2, countLines(t, logPath))
}

func TestService_RunLogFailureIsLoggedNotReturned(t *testing.T) {
	runLog, err := exportlog.NewLogger(filepath.Join(t.TempDir(), "exports.jsonl"))
	require.NoError(t, err)
	require.NoError(t, runLog.Close())

	var buf bytes.Buffer
	opts := builder.DefaultOptions()
	opts.Logger = util.NewLogger(util.LoggerConfig{Level: util.LevelWarn, Format: util.FormatText, Output: &buf})
	svc, err := NewService(ServiceConfig{Options: opts, CacheSize: 8, RunLog: runLog})
	require.NoError(t, err)

	data := pageJSON(t, cardPage())
	for i := 0; i < 2; i++ {
		res, err := svc.ExportBytes(data, Request{Target: builder.TargetElementor})
		require.NoError(t, err)
		assert.Equal(t, i == 1, res.Cached)
	}
	assert.Equal(t, 2, strings.Count(buf.String(), "Failed to write export log entry"))
}

func TestService_KeyIncludesTargetFormatAndOptimize(t *testing.T) {
	svc := newService(t, nil)
	data := pageJSON(t, cardPage())

	reqs := []Request{
		{Target: builder.TargetOxygen},
		{Target: builder.TargetOxygen, Format: builder.FormatShortcode},
		{Target: builder.TargetOxygen, Optimize: true},
		{Target: builder.TargetBeaver},
	}
	for _, req := range reqs {
		res, err := svc.ExportBytes(data, req)
		require.NoError(t, err)
		assert.False(t, res.Cached)
	}
	assert.Equal(t, 4, svc.Stats().Cached)

	// Empty format and explicit JSON share an entry.
	res, err := svc.ExportBytes(data, Request{Target: builder.TargetOxygen, Format: builder.FormatJSON})
	require.NoError(t, err)
	assert.True(t, res.Cached)

	svc.Invalidate()
	assert.Zero(t, svc.Stats().Cached)
}

func TestService_BadInput(t *testing.T) {
	svc := newService(t, nil)
	_, err := svc.ExportBytes([]byte(`{"root":`), Request{Target: builder.TargetElementor})
	require.Error(t, err)

	_, err = svc.ExportBytes([]byte(`{"root":null}`), Request{Target: builder.TargetElementor})
	assert.ErrorIs(t, err, component.ErrEmptyPage)
	assert.Zero(t, svc.Stats().Cached)
}

func TestService_BareComponentTree(t *testing.T) {
	svc := newService(t, nil)
	data, err := json.Marshal(cardPage().Root)
	require.NoError(t, err)

	res, err := svc.ExportBytes(data, Request{Target: builder.TargetBeaver})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Nodes)
	assert.True(t, res.Complete())
}

// --- Batch ---

func writeTree(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	for name, data := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, data, 0644))
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"home.json":            []byte("{}"),
		"pages/about.json":     []byte("{}"),
		"pages/notes.txt":      []byte("x"),
		"drafts/old.json":      []byte("{}"),
		"pages/deep/team.json": []byte("{}"),
	})

	files, err := Discover(root, nil, []string{"drafts/**"})
	require.NoError(t, err)
	var rels []string
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rels = append(rels, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"home.json", "pages/about.json", "pages/deep/team.json"}, rels)

	files, err = Discover(root, []string{"pages/*.json"}, nil)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = Discover(root, []string{"pages/[.json"}, nil)
	assert.Error(t, err)
}

func TestBatch_WritesOneFilePerTarget(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	writeTree(t, root, map[string][]byte{
		"home.json":          pageJSON(t, cardPage()),
		"pages/gallery.json": pageJSON(t, galleryPage(4)),
		"pages/broken.json":  []byte(`{"root":`),
	})

	svc := newService(t, nil)
	targets := []builder.Target{builder.TargetElementor, builder.TargetOxygen}
	items, stats, err := svc.Batch(context.Background(), BatchConfig{
		Root:      root,
		Targets:   targets,
		Format:    builder.FormatShortcode,
		OutputDir: out,
		Workers:   2,
	})
	require.NoError(t, err)
	require.Len(t, items, 6)

	assert.Equal(t, 3, stats.Files)
	assert.Equal(t, int64(4), stats.Exported)
	assert.Equal(t, int64(2), stats.Failed)
	assert.Positive(t, stats.OutputLen)

	// Sorted by path, then target order.
	assert.Equal(t, filepath.Join(root, "home.json"), items[0].Path)
	assert.Equal(t, builder.TargetElementor, items[0].Target)
	assert.Equal(t, builder.TargetOxygen, items[1].Target)
	assert.Error(t, items[2].Err)
	assert.Error(t, items[3].Err)

	assert.Equal(t, filepath.Join(out, "home.elementor.json"), items[0].OutPath)
	assert.Equal(t, filepath.Join(out, "home.oxygen.txt"), items[1].OutPath)
	data, err := os.ReadFile(items[1].OutPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[ct_")

	assert.FileExists(t, filepath.Join(out, "pages", "gallery.elementor.json"))
	assert.FileExists(t, filepath.Join(out, "pages", "gallery.oxygen.txt"))
	assert.NoFileExists(t, filepath.Join(out, "pages", "broken.elementor.json"))
}

func TestBatch_SharedFileCache(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{"home.json": pageJSON(t, cardPage())})

	cache := util.NewFileCache(&util.FileCacheConfig{Logger: util.DiscardLogger()})
	defer cache.Close()

	svc := newService(t, nil)
	for i := 0; i < 2; i++ {
		items, _, err := svc.Batch(context.Background(), BatchConfig{Root: root, Cache: cache})
		require.NoError(t, err)
		assert.Len(t, items, len(builder.Targets()))
	}
	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.Equal(t, int64(1), stats.CacheHits)
}

func TestBatch_EmptyRoot(t *testing.T) {
	items, stats, err := newService(t, nil).Batch(context.Background(), BatchConfig{Root: t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, stats.Files)
}

func TestBatch_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string][]byte{"home.json": pageJSON(t, cardPage())})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := newService(t, nil).Batch(ctx, BatchConfig{Root: root})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("out", "pages", "home.gutenberg.html"),
		OutputPath("out", filepath.Join("pages", "home.json"), builder.TargetGutenberg, builder.FormatHTML))
}
