package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/wpexport/pkg/export"
	"github.com/gnana997/wpexport/pkg/util"
	"github.com/gnana997/wpexport/pkg/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var initial bool
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-export page files whenever they change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := a.projectDir
			if len(args) == 1 {
				root = args[0]
			}
			batch, err := batchConfig(a.cfg)
			if err != nil {
				return err
			}
			batch.Root = root
			batch.Exclude = excludeOutput(batch.Exclude, root, batch.OutputDir)

			svc, closeLog, err := a.service()
			if err != nil {
				return err
			}
			defer closeLog()

			cache := util.NewFileCache(&util.FileCacheConfig{Logger: a.logger})
			defer cache.Close()
			batch.Cache = cache

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			if initial {
				items, stats, err := svc.Batch(ctx, batch)
				if err != nil {
					return err
				}
				a.printExportSummary(items, stats.Files, 0)
			}

			w, err := watch.New(svc, watch.Options{
				Batch:      batch,
				DebounceMs: a.cfg.Watch.DebounceMs,
				Logger:     a.logger,
				OnExport: func(path string, items []export.BatchItem) {
					a.printReexport(path, items)
				},
			})
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Watching %s (Ctrl+C to stop)\n", root)

			<-ctx.Done()
			return w.Stop()
		},
	}
	cmd.Flags().BoolVar(&initial, "initial", true, "export every page once before watching")
	return cmd
}

func (a *app) printReexport(path string, items []export.BatchItem) {
	for _, it := range items {
		switch {
		case it.Err != nil:
			fmt.Fprintf(a.out, "%s %s → %s: %v\n", errorStyle.Render("✗"), relPath(path), it.Target, it.Err)
		case !it.Result.Report.Valid:
			fmt.Fprintf(a.out, "%s %s → %s (%s)\n", warnStyle.Render("!"), relPath(path), it.Target, it.Result.Report.Summary)
		default:
			fmt.Fprintf(a.out, "%s %s → %s\n", okStyle.Render("✓"), relPath(path), it.Target)
		}
	}
}
