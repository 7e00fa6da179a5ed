package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/wpexport/pkg/config"
	"github.com/gnana997/wpexport/presets"
)

// samplePagePath is where init writes the sample page, relative to the
// project directory.
var samplePagePath = filepath.Join("pages", "sample-page.json")

type projectFile struct {
	path string
	data []byte
}

func newInitCmd(a *app) *cobra.Command {
	var (
		force    bool
		noSample bool
	)
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create .wpexport/config.yaml and a sample page",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runInit(force, noSample)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	cmd.Flags().BoolVar(&noSample, "no-sample", false, "skip the sample page")
	return cmd
}

func (a *app) runInit(force, noSample bool) error {
	files := []projectFile{
		{filepath.Join(a.projectDir, config.Dir, config.YAMLFile), presets.DefaultConfigYAML},
	}
	if !noSample {
		files = append(files, projectFile{filepath.Join(a.projectDir, samplePagePath), presets.SamplePageJSON})
	}

	for _, f := range files {
		if !force {
			if _, err := os.Stat(f.path); err == nil {
				fmt.Fprintf(a.out, "  %s %s\n", dimStyle.Render("exists"), f.path)
				continue
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(f.path), err)
		}
		if err := os.WriteFile(f.path, f.data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		fmt.Fprintf(a.out, "  %s %s\n", okStyle.Render("created"), f.path)
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Next:")
	fmt.Fprintln(a.out, "  wpexport inspect "+samplePagePath)
	fmt.Fprintln(a.out, "  wpexport export pages")
	return nil
}
