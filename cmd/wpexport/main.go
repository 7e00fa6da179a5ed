package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/wpexport/pkg/config"
	"github.com/gnana997/wpexport/pkg/export"
	"github.com/gnana997/wpexport/pkg/exportlog"
	"github.com/gnana997/wpexport/pkg/util"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
)

// skipConfig marks commands that run before a project exists.
const skipConfig = "skip-config"

// app carries state shared by every command: resolved configuration, the
// logger and the I/O streams.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// Persistent flags
	configPath string
	projectDir string
	envFiles   []string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "wpexport",
		Short: "Export component trees to WordPress page builders",
		Long: `wpexport converts a captured component tree into the native import
formats of Elementor, Gutenberg, Oxygen and Beaver Builder.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipConfig] == "true" {
				a.cfg = config.Default()
				a.logger = util.NewLogger(a.loggerConfig())
				return nil
			}
			return a.load()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "config file (default .wpexport/config.yaml, then .wpexport/config.toml)")
	pf.StringVarP(&a.projectDir, "dir", "C", ".", "project directory holding .wpexport/")
	pf.StringSliceVar(&a.envFiles, "env-file", []string{".env"}, "dotenv files loaded before WPEXPORT_* overrides")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: text, json")

	root.AddCommand(
		newInitCmd(a),
		newExportCmd(a),
		newValidateCmd(a),
		newInspectCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newTargetsCmd(a),
		newSetupCmd(a),
		newVersionCmd(a),
	)
	return root
}

// load resolves configuration and builds the logger.
func (a *app) load() error {
	if err := config.LoadDotEnv(a.envFiles...); err != nil {
		return err
	}
	cfg, err := config.Resolve(a.configPath, a.projectDir)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate().Err(); err != nil {
		return fmt.Errorf("invalid configuration (%s): %w", cfg.Source, err)
	}
	a.cfg = cfg
	a.logger = util.NewLogger(a.loggerConfig())
	util.SetDefault(a.logger)
	a.logger.Debug("Configuration loaded", "source", cfg.Source)
	return nil
}

func (a *app) loggerConfig() util.LoggerConfig {
	lc := a.cfg.LoggerConfig()
	lc.Output = a.errOut
	return lc
}

// service builds an export service from the configuration. The returned
// close function releases the run log.
func (a *app) service() (*export.Service, func(), error) {
	runLog, err := exportlog.NewLogger(a.cfg.Log.Path)
	if err != nil {
		return nil, nil, err
	}
	svc, err := export.NewService(export.ServiceConfig{
		Options:   a.cfg.ExportOptions(a.logger),
		CacheSize: a.cfg.Server.CacheSize,
		RunLog:    runLog,
	})
	if err != nil {
		runLog.Close()
		return nil, nil, err
	}
	return svc, func() { runLog.Close() }, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "wpexport %s (%s)\n", version, commit)
		},
	}
}
