package watch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/export"
	"github.com/gnana997/wpexport/pkg/util"
)

// --- Helpers ---

func cardJSON(t *testing.T) []byte {
	t.Helper()
	btn := &component.ComponentInfo{TagName: "a", TextContent: "Click", Attributes: map[string]string{"href": "/x"}}
	page := &component.Page{Root: &component.ComponentInfo{
		TagName: "div",
		Children: []*component.ComponentInfo{
			{TagName: "h3", TextContent: "Title"},
			btn,
		},
	}}
	data, err := json.Marshal(page)
	require.NoError(t, err)
	return data
}

type exportEvent struct {
	path  string
	items []export.BatchItem
}

func startWatcher(t *testing.T, root, out string) (*Watcher, chan exportEvent) {
	t.Helper()
	opts := builder.DefaultOptions()
	opts.Logger = util.DiscardLogger()
	svc, err := export.NewService(export.ServiceConfig{Options: opts})
	require.NoError(t, err)

	cache := util.NewFileCache(&util.FileCacheConfig{Logger: util.DiscardLogger()})
	t.Cleanup(func() { cache.Close() })

	events := make(chan exportEvent, 16)
	w, err := New(svc, Options{
		Batch: export.BatchConfig{
			Root:      root,
			Exclude:   []string{"drafts/**"},
			Targets:   []builder.Target{builder.TargetElementor, builder.TargetBeaver},
			OutputDir: out,
			Cache:     cache,
		},
		DebounceMs: 50,
		Logger:     util.DiscardLogger(),
		OnExport: func(path string, items []export.BatchItem) {
			events <- exportEvent{path: path, items: items}
		},
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(func() { w.Stop() })
	return w, events
}

func waitExport(t *testing.T, events chan exportEvent) exportEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for re-export")
	}
	return exportEvent{}
}

// --- Tests ---

func TestMatches(t *testing.T) {
	root := t.TempDir()
	w, _ := startWatcher(t, root, filepath.Join(root, "out"))

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(root, "home.json"), true},
		{filepath.Join(root, "pages", "about.json"), true},
		{filepath.Join(root, "pages", "notes.txt"), false},
		{filepath.Join(root, "drafts", "wip.json"), false},
		{filepath.Join(root, "out", "home.elementor.json"), false},
		{filepath.Join(filepath.Dir(root), "elsewhere.json"), false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, w.Matches(tc.path), tc.path)
	}
}

func TestWatcher_ReexportsChangedPage(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")
	_, events := startWatcher(t, root, out)

	path := filepath.Join(root, "home.json")
	require.NoError(t, os.WriteFile(path, cardJSON(t), 0644))

	ev := waitExport(t, events)
	assert.Equal(t, path, ev.path)
	require.Len(t, ev.items, 2)
	for _, it := range ev.items {
		require.NoError(t, it.Err)
		assert.True(t, it.Result.Complete())
	}
	assert.FileExists(t, filepath.Join(out, "home.elementor.json"))
	assert.FileExists(t, filepath.Join(out, "home.beaver-builder.json"))
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()
	w, events := startWatcher(t, root, "")

	path := filepath.Join(root, "home.json")
	data := cardJSON(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, data, 0644))
	}

	waitExport(t, events)
	// Give a stray second timer a chance to fire.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, w.Stats().Exports)
	assert.Zero(t, w.Stats().Pending)
}

func TestWatcher_PicksUpRewrittenContent(t *testing.T) {
	root := t.TempDir()
	_, events := startWatcher(t, root, "")

	path := filepath.Join(root, "home.json")
	require.NoError(t, os.WriteFile(path, cardJSON(t), 0644))
	first := waitExport(t, events)
	require.NoError(t, first.items[0].Err)
	assert.Equal(t, 3, first.items[0].Result.Nodes)

	bigger := []byte(`{"root":{"tagName":"div","children":[{"tagName":"p","textContent":"a"},{"tagName":"p","textContent":"b"},{"tagName":"p","textContent":"c"}]}}`)
	require.NoError(t, os.WriteFile(path, bigger, 0644))
	second := waitExport(t, events)
	require.NoError(t, second.items[0].Err)
	assert.Equal(t, 4, second.items[0].Result.Nodes)
}

func TestWatcher_BrokenPageReportsErrors(t *testing.T) {
	root := t.TempDir()
	_, events := startWatcher(t, root, "")

	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.json"), []byte(`{"root":`), 0644))
	ev := waitExport(t, events)
	for _, it := range ev.items {
		assert.Error(t, it.Err)
	}
}

func TestWatcher_NewSubdirectory(t *testing.T) {
	root := t.TempDir()
	_, events := startWatcher(t, root, "")

	sub := filepath.Join(root, "pages")
	require.NoError(t, os.Mkdir(sub, 0755))
	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(sub, "about.json")
	require.NoError(t, os.WriteFile(path, cardJSON(t), 0644))

	ev := waitExport(t, events)
	assert.Equal(t, path, ev.path)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	root := t.TempDir()
	w, _ := startWatcher(t, root, "")
	assert.True(t, w.Stats().IsRunning)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	assert.False(t, w.Stats().IsRunning)
	assert.Error(t, w.Start())
}
