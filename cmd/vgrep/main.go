package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/sadopc/vgrep/internal/config"
	"github.com/sadopc/vgrep/internal/logging"
	"github.com/sadopc/vgrep/internal/model"
	"github.com/sadopc/vgrep/internal/ops"
	"github.com/sadopc/vgrep/internal/pattern"
	"github.com/sadopc/vgrep/internal/remote"
	"github.com/sadopc/vgrep/internal/report"
	"github.com/sadopc/vgrep/internal/scanner"
	"github.com/sadopc/vgrep/internal/search"
	"github.com/sadopc/vgrep/internal/ui"
)

var (
	version = "dev"
)

const usageLine = "Usage: vgrep <directory> <search_term>"

// exitStatus ends the run with a non-zero status after its message has
// already been printed.
type exitStatus int

func (e exitStatus) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

type cliFlags struct {
	configPath     string
	workers        int
	engine         string
	color          string
	noHidden       bool
	exclude        string
	followSymlinks bool
	verbose        int
	tui            bool
	importPath     string
	exportPath     string
	ssh            string
	sshPort        int
	sshBatch       bool
	sshTimeout     string
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	var status exitStatus
	if errors.As(err, &status) {
		return int(status)
	}
	// Flag parsing errors
	fmt.Fprintf(stderr, "Error: %v\n%s\n", err, usageLine)
	return 2
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &cliFlags{}

	cmd := &cobra.Command{
		Use:           "vgrep [flags] <directory> <search_term>",
		Short:         "Search a directory tree in parallel for lines matching a pattern",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("vgrep {{.Version}}\n")

	fl := cmd.Flags()
	// Everything after <directory> is positional, so terms like "->" or "-v"
	// reach the pattern engine.
	fl.SetInterspersed(false)
	fl.StringVar(&f.configPath, "config", "", "YAML config file")
	fl.IntVarP(&f.workers, "workers", "j", 0, "Concurrent file scans (0 = number of CPUs)")
	fl.StringVar(&f.engine, "engine", string(pattern.EngineRE2), "Pattern engine: re2 or regexp2")
	fl.StringVar(&f.color, "color", string(report.ColorAuto), "Highlight matches: auto, always or never")
	fl.BoolVar(&f.noHidden, "no-hidden", false, "Skip files and directories starting with a dot")
	fl.StringVar(&f.exclude, "exclude", "", "Comma-separated list of file or directory names to skip")
	fl.BoolVar(&f.followSymlinks, "follow-symlinks", false, "Descend into symlinked directories")
	fl.CountVarP(&f.verbose, "verbose", "v", "Log skipped entries and lines (repeat for more)")
	fl.BoolVar(&f.tui, "tui", false, "Browse results interactively")
	fl.StringVar(&f.importPath, "import", "", "View results exported with --export")
	fl.StringVar(&f.exportPath, "export", "", "Also write results as JSON to this file")
	fl.StringVar(&f.ssh, "ssh", "", "Search <directory> on user@host over SFTP")
	fl.IntVar(&f.sshPort, "ssh-port", 22, "SSH port for remote search")
	fl.BoolVar(&f.sshBatch, "ssh-batch", false, "Disable SSH password and host key prompts")
	fl.StringVar(&f.sshTimeout, "ssh-timeout", "15s", "SSH connection timeout")

	return cmd
}

func run(cmd *cobra.Command, f *cliFlags, args []string, stdout, stderr io.Writer) error {
	if f.importPath != "" {
		if len(args) > 0 {
			fmt.Fprintln(stderr, "Error: --import cannot be used with a directory or search term")
			return nil
		}
		return runImport(f, stderr)
	}

	if len(args) != 2 {
		fmt.Fprintln(stderr, usageLine)
		return nil
	}
	dir, term := args[0], args[1]

	cfg, err := loadConfig(cmd, f)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, pattern.ErrUnknownEngine) {
			return exitStatus(2)
		}
		return nil
	}
	log := logging.New(stderr, cfg.Verbose)

	// A plain run is not cancellable; interrupting it kills the process.
	ctx := context.Background()

	var src scanner.Source = scanner.NewLocalSource(log)
	remoteName := ""
	if f.ssh != "" {
		rs, err := connectRemote(ctx, f.ssh, cfg, log)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return nil
		}
		defer rs.Close()
		src = rs
		remoteName = f.ssh
	}

	if !scanner.IsDir(src, dir) {
		fmt.Fprintf(stderr, "%s is not a directory\n", dir)
		return nil
	}

	engine, _ := pattern.ParseEngine(cfg.Engine)
	matcher, err := pattern.Compile(term, engine)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitStatus(2)
	}

	opts := scanner.DefaultOptions()
	opts.ShowHidden = cfg.Hidden
	opts.FollowSymlinks = cfg.FollowSymlinks
	opts.ExcludePatterns = cfg.Exclude

	if f.tui {
		return runTUI(ui.SearchConfig{
			Root:    dir,
			Remote:  remoteName,
			Source:  src,
			Options: opts,
			Matcher: matcher,
			Pattern: term,
			Engine:  engine,
			Workers: cfg.Workers,
			Logger:  logr.Discard(),
		}, f.exportPath, stderr)
	}

	files, err := src.Enumerate(ctx, dir, opts, nil)
	if err != nil {
		fmt.Fprintf(stderr, "Error: cannot list %s: %v\n", dir, err)
		return nil
	}
	log.V(1).Info("enumerated files", "root", dir, "files", len(files))

	color, _ := report.ParseColorMode(cfg.Color)
	var useColor bool
	if out, ok := stdout.(*os.File); ok {
		useColor = color.Enabled(out)
	} else {
		useColor = color == report.ColorAlways
	}

	results := model.NewResultSet(dir, term, string(engine))
	results.SetTotal(int64(len(files)))
	sink := search.MultiSink{report.NewTextSink(stdout, stderr, matcher, useColor)}
	if f.exportPath != "" {
		sink = append(sink, &report.Collector{Results: results, Source: src})
	}

	s := &search.Searcher{Source: src, Matcher: matcher, Workers: cfg.Workers, Logger: log}
	summary := s.Run(ctx, files, sink)
	log.V(1).Info("search finished",
		"files", summary.Files,
		"processed", summary.Processed,
		"matches", summary.Matches,
		"filesMatched", summary.FilesMatched,
		"errors", summary.Errors,
		"duration", summary.Duration.String())

	if f.exportPath != "" {
		if err := ops.ExportJSON(results, f.exportPath, version); err != nil {
			fmt.Fprintf(stderr, "Error: export failed: %v\n", err)
		}
	}
	return nil
}

// loadConfig reads --config and applies the flags that were set explicitly.
func loadConfig(cmd *cobra.Command, f *cliFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	fl := cmd.Flags()
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fl.Changed("engine") {
		cfg.Engine = f.engine
	}
	if fl.Changed("color") {
		cfg.Color = f.color
	}
	if fl.Changed("no-hidden") {
		cfg.Hidden = !f.noHidden
	}
	if fl.Changed("exclude") {
		cfg.Exclude = splitComma(f.exclude)
	}
	if fl.Changed("follow-symlinks") {
		cfg.FollowSymlinks = f.followSymlinks
	}
	if fl.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if fl.Changed("ssh-port") {
		cfg.SSH.Port = f.sshPort
	}
	if fl.Changed("ssh-batch") {
		cfg.SSH.Batch = f.sshBatch
	}
	if fl.Changed("ssh-timeout") {
		d, err := parseTimeout(f.sshTimeout)
		if err != nil {
			return nil, err
		}
		cfg.SSH.Timeout = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func connectRemote(ctx context.Context, dest string, cfg *config.Config, log logr.Logger) (*remote.SFTPSource, error) {
	if err := validateRemoteTarget(dest); err != nil {
		return nil, err
	}
	target, err := remote.ParseTarget(dest, cfg.SSH.Port)
	if err != nil {
		return nil, err
	}
	return remote.Connect(ctx, remote.Config{
		Target:  target,
		Batch:   cfg.SSH.Batch,
		Timeout: cfg.SSH.Timeout,
	}, log)
}

func runTUI(sc ui.SearchConfig, exportPath string, stderr io.Writer) error {
	app := ui.NewApp(sc)
	app.ExportPath = exportPath
	app.Version = version

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil
	}
	if err := app.FatalError(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil
	}
	if exportPath != "" {
		if err := ops.ExportJSON(app.Results(), exportPath, version); err != nil {
			fmt.Fprintf(stderr, "Error: export failed: %v\n", err)
		}
	}
	return nil
}

func runImport(f *cliFlags, stderr io.Writer) error {
	if f.exportPath != "" {
		// Re-export an imported result set
		results, err := ops.ImportJSON(f.importPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error importing: %v\n", err)
			return exitStatus(1)
		}
		if err := ops.ExportJSON(results, f.exportPath, version); err != nil {
			fmt.Fprintf(stderr, "Error exporting: %v\n", err)
			return exitStatus(1)
		}
		return nil
	}

	app := ui.NewAppFromImport(f.importPath)
	app.Version = version
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitStatus(1)
	}
	if err := app.FatalError(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitStatus(1)
	}
	return nil
}

func splitComma(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
