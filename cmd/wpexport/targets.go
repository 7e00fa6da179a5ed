package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/export"
)

func newTargetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "targets",
		Short:       "List supported page builders and their output formats",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		Run: func(_ *cobra.Command, _ []string) {
			t := newTable("TARGET", "NAME", "FORMATS")
			for _, target := range builder.Targets() {
				var formats []string
				for _, f := range export.Formats(target) {
					formats = append(formats, string(f))
				}
				t.add(string(target), target.Label(), strings.Join(formats, ", "))
			}
			t.render(a.out, "")
		},
	}
}
