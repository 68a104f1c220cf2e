package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/codalotl/splitdiff/internal/config"
	"github.com/codalotl/splitdiff/internal/q/cascade"
	qcli "github.com/codalotl/splitdiff/internal/q/cli"
	"golang.org/x/mod/semver"
)

// app holds state shared by every command. Configuration flags are read back with VisitChanged (see flagValues).
type app struct {
	dir  string    // working directory override
	term io.Writer // the real stdout, for terminal detection

	root  *string
	input *string
}

func (a *app) rootCommand() *qcli.Command {
	root := &qcli.Command{
		Name:  "splitdiff",
		Short: "Render a unified diff side by side.",
		Long: `Reads a unified diff (git or traditional) from stdin and renders the old and new
versions of every file in two synchronized columns, with syntax highlighting and the
edited spans of changed lines marked.

Configuration is read from ` + "`" + `~/.config/splitdiff/config.yaml` + "`" + `, the nearest ` + config.ProjectFileName + `,
and SPLITDIFF_* environment variables; flags override all of them.`,
		Example: `git diff | splitdiff
git diff HEAD~1 | splitdiff --width 160 --theme dracula
splitdiff --input changes.patch
splitdiff files old.go new.go`,
		Args: qcli.NoArgs,
	}

	pf := root.PersistentFlags()
	pf.Int("width", 'w', 0, "Total output width in columns (0: terminal width, else 120)")
	pf.String("color", 0, "", "When to color output: auto, always, or never (default auto)")
	pf.String("theme", 0, "", "Chroma style for syntax highlighting (default monokai)")
	pf.Float64("threshold", 0, 0, "Similarity a changed line pair must exceed to mark edited spans (default 0.5)")
	pf.String("algorithm", 0, "", "Intraline algorithm: sequence or dmp (default sequence)")
	pf.Int("tab-width", 0, 0, "Columns per tab stop (default 4)")
	pf.Bool("no-line-numbers", 0, false, "Hide the line number gutters")

	a.root = root.Flags().String("root", 0, "", "Directory diff paths are relative to (default: nearest ancestor with .git)")
	a.input = root.Flags().String("input", 'i', "", "Read the diff from this file instead of stdin")
	root.Run = a.runDiff

	files := &qcli.Command{
		Name:    "files",
		Short:   "Diff two files and render the result.",
		Args:    qcli.ExactArgs(2),
		Example: "splitdiff files main.go.orig main.go",
		Run:     a.runFiles,
	}
	cfg := &qcli.Command{
		Name:  "config",
		Short: "Print the effective configuration as YAML.",
		Args:  qcli.NoArgs,
		Run:   a.runConfig,
	}
	version := &qcli.Command{
		Name:  "version",
		Short: "Print the version.",
		Args:  qcli.NoArgs,
		Run: func(c *qcli.Context) error {
			_, err := fmt.Fprintf(c.Out, "splitdiff %s\n", Version)
			return err
		},
	}
	root.AddCommand(files, cfg, version)
	return root
}

// configKeys maps configuration flags to the keys they override.
var configKeys = map[string]string{
	"width":     "width",
	"color":     "color",
	"theme":     "theme",
	"threshold": "intraline.threshold",
	"algorithm": "intraline.algorithm",
	"tab-width": "tabwidth",
}

// flagValues returns the configuration keys set on the command line.
func (a *app) flagValues(c *qcli.Context) map[string]any {
	m := map[string]any{}
	c.Command.VisitChanged(func(name string, value any) {
		if name == "no-line-numbers" {
			m["linenumbers"] = !value.(bool)
			return
		}
		if key, ok := configKeys[name]; ok {
			m[key] = value
		}
	})
	return m
}

func (a *app) workingDir() (string, error) {
	if a.dir != "" {
		return a.dir, nil
	}
	return os.Getwd()
}

// loadConfig loads the configuration. Invalid values are usage errors; unreadable or unparsable config files are failures.
func (a *app) loadConfig(c *qcli.Context) (config.Config, cascade.LoadReport, error) {
	dir, err := a.workingDir()
	if err != nil {
		return config.Config{}, cascade.LoadReport{}, qcli.Exitf(1, "working directory: %w", err)
	}
	cfg, report, err := config.Load(config.LoadOptions{Dir: dir, Flags: a.flagValues(c)})
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return config.Config{}, report, qcli.Usagef("%v", err)
		}
		return config.Config{}, report, qcli.Exitf(1, "%w", err)
	}
	return cfg, report, nil
}

func (a *app) runConfig(c *qcli.Context) error {
	cfg, report, err := a.loadConfig(c)
	if err != nil {
		return err
	}
	return cfg.WriteYAML(c.Out, report)
}

// versionString returns Version, marked as a development build unless it is a release version like 1.2.3.
func versionString() string {
	v := strings.TrimPrefix(Version, "v")
	if semver.IsValid("v"+v) && semver.Prerelease("v"+v) == "" && semver.Build("v"+v) == "" {
		return v
	}
	return Version + " (devel)"
}
