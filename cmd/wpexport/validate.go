package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/component"
	"github.com/gnana997/wpexport/pkg/export"
)

var errValidationFailed = errors.New("validation failed")

func newValidateCmd(a *app) *cobra.Command {
	var (
		targets []string
		strict  bool
	)
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Export page files in memory and report validation problems",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg := *a.cfg
			if len(targets) > 0 {
				cfg.Targets = targets
			}
			parsed, err := cfg.ParsedTargets()
			if err != nil {
				return err
			}
			return a.runValidate(args, parsed, strict)
		},
	}
	cmd.Flags().StringSliceVarP(&targets, "target", "t", nil, "targets to validate against (default from config)")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	return cmd
}

func (a *app) runValidate(files []string, targets []builder.Target, strict bool) error {
	svc, closeLog, err := a.service()
	if err != nil {
		return err
	}
	defer closeLog()

	failed := false
	for i, path := range files {
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		page, err := component.LoadFile(path, nil)
		if err != nil {
			fmt.Fprintf(a.out, "%s  %s\n", titleStyle.Render(path), errorStyle.Render("unreadable"))
			fmt.Fprintf(a.out, "  %s\n", err)
			failed = true
			continue
		}

		fmt.Fprintln(a.out, titleStyle.Render(path))
		for _, t := range targets {
			res, err := svc.Export(page, export.Request{Target: t, Source: path})
			if err != nil {
				return err
			}
			if !a.printReport(res) {
				failed = true
			}
			if strict && len(res.Report.Warnings()) > 0 {
				failed = true
			}
		}
	}
	if failed {
		return errValidationFailed
	}
	return nil
}

// printReport renders one target's report. It returns the report's
// validity.
func (a *app) printReport(res *export.Result) bool {
	r := res.Report
	status := okStyle.Render("✓ valid")
	if !r.Valid {
		status = errorStyle.Render("✗ invalid")
	}
	fmt.Fprintf(a.out, "  %-16s %s  %s\n", res.Target.Label(), status, dimStyle.Render(r.Summary))
	if !res.Complete() {
		fmt.Fprintf(a.out, "    %s %d of %d input nodes accounted for\n",
			warnStyle.Render("!"), res.Weight, res.Nodes)
	}
	for _, v := range r.Violations {
		line := fmt.Sprintf("    %s %s", severityLabel(v.Severity), v.Message)
		if v.Path != "" {
			line += dimStyle.Render("  at " + v.Path)
		}
		fmt.Fprintln(a.out, line)
		if v.Suggestion != "" {
			fmt.Fprintf(a.out, "              %s\n", dimStyle.Render(v.Suggestion))
		}
	}
	return r.Valid
}
