package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/util"
)

// --- Helpers ---

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

// --- Defaults ---

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, SourceDefault, cfg.Source)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Optimize)
	assert.Equal(t, builder.DefaultThresholds(), cfg.Thresholds)
	assert.Equal(t, 2, cfg.Detection.MinGalleryImages)
	assert.Equal(t, 200, cfg.Watch.DebounceMs)
	assert.Equal(t, 128, cfg.Server.CacheSize)
	assert.Empty(t, cfg.Validate())

	targets, err := cfg.ParsedTargets()
	require.NoError(t, err)
	assert.Equal(t, builder.Targets(), targets)
}

// --- Loading ---

func TestParse_YAMLOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
targets: [oxygen, bb]
format: shortcode
thresholds:
  reusable_score: 50
`), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"oxygen", "bb"}, cfg.Targets)
	assert.Equal(t, "shortcode", cfg.Format)
	assert.Equal(t, 50.0, cfg.Thresholds.ReusableScore)
	// Untouched fields keep their defaults.
	assert.Equal(t, 80.0, cfg.Thresholds.GlobalScore)
	assert.Equal(t, "wpexport-out", cfg.OutputDir)

	targets, err := cfg.ParsedTargets()
	require.NoError(t, err)
	assert.Equal(t, []builder.Target{builder.TargetOxygen, builder.TargetBeaver}, targets)
}

func TestParse_TOML(t *testing.T) {
	cfg, err := Parse([]byte(`
targets = ["gutenberg"]
format = "html"

[thresholds]
global_score = 90

[server]
addr = "0.0.0.0:9000"
`), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"gutenberg"}, cfg.Targets)
	assert.Equal(t, "html", cfg.Format)
	assert.Equal(t, 90.0, cfg.Thresholds.GlobalScore)
	assert.Equal(t, 60.0, cfg.Thresholds.ReusableScore)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("targets: [oxygen"), false)
	assert.Error(t, err)
	_, err = Parse([]byte("targets = "), true)
	assert.Error(t, err)
}

func TestResolve_LookupChain(t *testing.T) {
	t.Run("embedded default", func(t *testing.T) {
		cfg, err := Resolve("", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, SourceDefault, cfg.Source)
	})

	t.Run("yaml before toml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, Dir, YAMLFile), "format: html\n")
		writeFile(t, filepath.Join(dir, Dir, TOMLFile), "format = \"shortcode\"\n")
		cfg, err := Resolve("", dir)
		require.NoError(t, err)
		assert.Equal(t, "html", cfg.Format)
		assert.Equal(t, filepath.Join(dir, Dir, YAMLFile), cfg.Source)
	})

	t.Run("toml when no yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, Dir, TOMLFile), "format = \"shortcode\"\n")
		cfg, err := Resolve("", dir)
		require.NoError(t, err)
		assert.Equal(t, "shortcode", cfg.Format)
	})

	t.Run("explicit path wins", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, Dir, YAMLFile), "format: html\n")
		explicit := filepath.Join(dir, "custom.yaml")
		writeFile(t, explicit, "format: shortcode\n")
		cfg, err := Resolve(explicit, dir)
		require.NoError(t, err)
		assert.Equal(t, "shortcode", cfg.Format)
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml"), t.TempDir())
		assert.Error(t, err)
	})

	t.Run("broken project file is an error", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, Dir, YAMLFile), "targets: [\n")
		_, err := Resolve("", dir)
		assert.Error(t, err)
	})
}

// --- Environment ---

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(cfg, envMap(map[string]string{
		"WPEXPORT_LOG_LEVEL":   "debug",
		"WPEXPORT_SERVER_ADDR": ":9999",
		"WPEXPORT_OUTPUT_DIR":  "dist",
		"WPEXPORT_FORMAT":      "html",
		"WPEXPORT_TARGETS":     "gutenberg, oxygen",
		"WPEXPORT_OPTIMIZE":    "false",
	}))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "dist", cfg.OutputDir)
	assert.Equal(t, "html", cfg.Format)
	assert.Equal(t, []string{"gutenberg", "oxygen"}, cfg.Targets)
	assert.False(t, cfg.Optimize)
}

func TestApplyEnv_BadBool(t *testing.T) {
	err := ApplyEnv(Default(), envMap(map[string]string{"WPEXPORT_OPTIMIZE": "maybe"}))
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "WPEXPORT_OPTIMIZE", verr.Field)
}

func TestApplyEnv_NothingSet(t *testing.T) {
	cfg := Default()
	require.NoError(t, ApplyEnv(cfg, noEnv))
	assert.Equal(t, Default().Server, cfg.Server)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, "WPEXPORT_TEST_DOTENV=from-file\n")
	t.Setenv("WPEXPORT_TEST_DOTENV", "")
	os.Unsetenv("WPEXPORT_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("WPEXPORT_TEST_DOTENV"))
}

// --- Validation ---

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Targets = []string{"elementor", "divi"}
	cfg.Format = "pdf"
	cfg.Input.Include = []string{"pages/[.json"}
	cfg.Thresholds.ReusableScore = 90
	cfg.Thresholds.GlobalScore = 70
	cfg.Thresholds.MinConfidence = 120
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	cfg.Server.Addr = "localhost"
	cfg.Watch.DebounceMs = -1

	errs := cfg.Validate()
	require.True(t, errs.HasErrors())

	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, f := range []string{
		"targets[1]", "format", "input.include[0]", "thresholds.global_score",
		"thresholds.min_confidence", "log.level", "log.format", "server.addr", "watch.debounce_ms",
	} {
		assert.True(t, fields[f], "missing error for %s", f)
	}
	assert.False(t, fields["targets[0]"])
	assert.Contains(t, errs.Error(), "unknown target")
	assert.Error(t, errs.Err())
}

func TestValidate_WarningLevelAccepted(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "WARNING"
	assert.Nil(t, cfg.Validate().Err())
}

// --- Mapping ---

func TestExportOptions(t *testing.T) {
	cfg := Default()
	cfg.SiteURL = "https://example.com/"
	cfg.Thresholds = builder.Thresholds{}
	opts := cfg.ExportOptions(util.DiscardLogger())
	assert.Equal(t, "https://example.com", opts.SiteURL)
	assert.Equal(t, builder.DefaultThresholds(), opts.Thresholds)
	assert.NotNil(t, opts.Logger)
}

func TestLoggerConfig(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "debug"
	cfg.Log.Format = "JSON"
	lc := cfg.LoggerConfig()
	assert.Equal(t, util.LevelDebug, lc.Level)
	assert.Equal(t, util.FormatJSON, lc.Format)
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Targets = []string{"oxygen"}
	path := filepath.Join(t.TempDir(), Dir, YAMLFile)
	require.NoError(t, cfg.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"oxygen"}, loaded.Targets)
	assert.Equal(t, cfg.Thresholds, loaded.Thresholds)
}
