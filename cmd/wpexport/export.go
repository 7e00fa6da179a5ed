package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/config"
	"github.com/gnana997/wpexport/pkg/export"
	"github.com/gnana997/wpexport/pkg/util"
)

type exportOptions struct {
	targets  []string
	format   string
	outDir   string
	optimize bool
	workers  int
	stdout   bool
}

func newExportCmd(a *app) *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export [file|dir]...",
		Short: "Export page files for one or more page builders",
		Long: `Export page JSON files. Directories are walked with the configured
include/exclude globs; every input is written once per target as
<out>/<name>.<target>.<ext>, mirroring the input layout.`,
		Example: `  wpexport export pages/home.json -t elementor
  wpexport export pages -t gutenberg -f html -o dist
  wpexport export home.json -t oxygen -f shortcode --stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExport(cmd, args, opts)
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&opts.targets, "target", "t", nil, "targets to export for (default from config)")
	f.StringVarP(&opts.format, "format", "f", "", "output format: json, shortcode, html (default from config)")
	f.StringVarP(&opts.outDir, "out", "o", "", "output directory (default from config)")
	f.BoolVar(&opts.optimize, "optimize", true, "run target optimizers before writing")
	f.IntVarP(&opts.workers, "workers", "w", 0, "batch workers (0 = auto)")
	f.BoolVar(&opts.stdout, "stdout", false, "write a single export to stdout instead of a file")
	return cmd
}

func (a *app) runExport(cmd *cobra.Command, args []string, opts exportOptions) error {
	cfg := *a.cfg
	if len(opts.targets) > 0 {
		cfg.Targets = opts.targets
	}
	if opts.format != "" {
		cfg.Format = opts.format
	}
	if opts.outDir != "" {
		cfg.OutputDir = opts.outDir
	}
	if cmd.Flags().Changed("optimize") {
		cfg.Optimize = opts.optimize
	}
	if cmd.Flags().Changed("workers") {
		cfg.Input.Workers = opts.workers
	}
	if err := cfg.Validate().Err(); err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{a.projectDir}
	}

	batch, err := batchConfig(&cfg)
	if err != nil {
		return err
	}
	svc, closeLog, err := a.service()
	if err != nil {
		return err
	}
	defer closeLog()

	if opts.stdout {
		return a.exportToStdout(svc, args, batch)
	}

	cache := util.NewFileCache(&util.FileCacheConfig{Logger: a.logger})
	defer cache.Close()
	batch.Cache = cache

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	start := time.Now()
	var items []export.BatchItem
	files := 0
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if info.IsDir() {
			b := batch
			b.Root = arg
			b.Exclude = excludeOutput(b.Exclude, arg, b.OutputDir)
			got, stats, err := svc.Batch(ctx, b)
			items = append(items, got...)
			files += stats.Files
			if err != nil {
				return err
			}
			continue
		}
		b := batch
		b.Root = filepath.Dir(arg)
		items = append(items, svc.ExportFile(arg, b)...)
		files++
	}

	failed := a.printExportSummary(items, files, time.Since(start))
	if failed > 0 {
		return fmt.Errorf("%d of %d exports failed", failed, len(items))
	}
	return nil
}

// batchConfig maps a resolved configuration onto a batch request.
func batchConfig(cfg *config.Config) (export.BatchConfig, error) {
	targets, err := cfg.ParsedTargets()
	if err != nil {
		return export.BatchConfig{}, err
	}
	format, err := builder.ParseFormat(cfg.Format)
	if err != nil {
		return export.BatchConfig{}, err
	}
	return export.BatchConfig{
		Include:   cfg.Input.Include,
		Exclude:   cfg.Input.Exclude,
		Targets:   targets,
		Format:    format,
		Optimize:  cfg.Optimize,
		OutputDir: cfg.OutputDir,
		Workers:   cfg.Input.Workers,
	}, nil
}

// excludeOutput keeps an output directory inside root out of the inputs.
func excludeOutput(exclude []string, root, outDir string) []string {
	if outDir == "" {
		return exclude
	}
	absRoot, err1 := filepath.Abs(root)
	absOut, err2 := filepath.Abs(outDir)
	if err1 != nil || err2 != nil {
		return exclude
	}
	rel, err := filepath.Rel(absRoot, absOut)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return exclude
	}
	out := append([]string(nil), exclude...)
	return append(out, filepath.ToSlash(rel)+"/**")
}

func (a *app) exportToStdout(svc *export.Service, args []string, batch export.BatchConfig) error {
	if len(args) != 1 || len(batch.Targets) != 1 {
		return errors.New("--stdout needs exactly one input file and one target")
	}
	info, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", args[0], err)
	}
	if info.IsDir() {
		return errors.New("--stdout needs a file, not a directory")
	}
	batch.Root = filepath.Dir(args[0])
	batch.OutputDir = ""
	items := svc.ExportFile(args[0], batch)
	it := items[0]
	if it.Err != nil {
		return it.Err
	}
	if _, err := a.out.Write(it.Result.Output); err != nil {
		return err
	}
	if !it.Result.Report.Valid {
		a.logger.Warn("Export is not valid for target", "target", it.Target, "errors", len(it.Result.Report.Errors()))
	}
	return nil
}

// printExportSummary lists each item and a totals line. It returns the
// number of failed items.
func (a *app) printExportSummary(items []export.BatchItem, files int, elapsed time.Duration) int {
	if len(items) == 0 {
		fmt.Fprintln(a.out, dimStyle.Render("No page files found."))
		return 0
	}

	t := newTable("FILE", "TARGET", "STATUS", "SIZE", "OUTPUT")
	var failed, invalid int
	var total uint64
	for _, it := range items {
		rel := relPath(it.Path)
		switch {
		case it.Err != nil:
			failed++
			t.add(rel, string(it.Target), "failed", "-", it.Err.Error())
		default:
			status := "ok"
			if !it.Result.Report.Valid {
				status = "invalid"
				invalid++
			}
			total += uint64(it.Result.Bytes)
			out := it.OutPath
			if out == "" {
				out = "(not written)"
			}
			t.add(rel, string(it.Target), status, humanize.Bytes(uint64(it.Result.Bytes)), relPath(out))
		}
	}
	t.render(a.out, "")

	exported := len(items) - failed
	summary := fmt.Sprintf("\nExported %s from %s in %s (%s)",
		plural(exported, "document"), plural(files, "file"), elapsed.Round(time.Millisecond), humanize.Bytes(total))
	switch {
	case failed > 0:
		fmt.Fprintln(a.out, errorStyle.Render(summary+fmt.Sprintf(", %d failed", failed)))
	case invalid > 0:
		fmt.Fprintln(a.out, warnStyle.Render(summary+fmt.Sprintf(", %d invalid", invalid)))
	default:
		fmt.Fprintln(a.out, okStyle.Render(summary))
	}
	return failed
}

func relPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
