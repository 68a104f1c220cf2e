// Package config loads splitdiff's settings from built-in defaults, the user config file, the nearest project file, SPLITDIFF_* environment variables, and command-line
// flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/codalotl/splitdiff/internal/intraline"
	"github.com/codalotl/splitdiff/internal/q/cascade"
	tf "github.com/codalotl/splitdiff/internal/q/termformat"
	"gopkg.in/yaml.v3"
)

// ProjectFileName is searched for upward from the working directory.
const ProjectFileName = ".splitdiff.yaml"

// ErrInvalid is wrapped by Validate errors.
var ErrInvalid = errors.New("invalid configuration")

// ColorMode selects when output is styled.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // style when stdout is a terminal and NO_COLOR is unset
	ColorAlways ColorMode = "always" // always style, using the detected profile or true color
	ColorNever  ColorMode = "never"
)

// Config is the effective configuration. The yaml tags name the keys used in files, and are also what `splitdiff config` prints.
type Config struct {
	// Width is the total output width in columns. 0 detects the terminal width, falling back to 120.
	Width           int                `yaml:"width"`
	WidthProvidence cascade.Providence `yaml:"-"`

	Color ColorMode `yaml:"color"`

	// Theme is a chroma style name.
	Theme           string             `yaml:"theme"`
	ThemeProvidence cascade.Providence `yaml:"-"`

	Intraline Intraline `yaml:"intraline"`
	Blend     Blend     `yaml:"blend"`

	TabWidth    int  `yaml:"tabwidth"`
	LineNumbers bool `yaml:"linenumbers"`
}

type Intraline struct {
	// Threshold is the similarity ratio a pair of lines must exceed before edited spans are highlighted.
	Threshold float64             `yaml:"threshold"`
	Algorithm intraline.Algorithm `yaml:"algorithm"`
}

// Blend holds the cross-fades used to tint changed rows.
type Blend struct {
	RowTint          float64 `yaml:"rowtint"`
	Marker           float64 `yaml:"marker"`
	MarkerForeground float64 `yaml:"markerforeground"`
	CacheSize        int     `yaml:"cachesize"`
}

// Defaults returns the built-in defaults as cascade keys.
func Defaults() map[string]any {
	return map[string]any{
		"width":                  0,
		"color":                  string(ColorAuto),
		"theme":                  "monokai",
		"intraline.threshold":    intraline.DefaultThreshold,
		"intraline.algorithm":    string(intraline.Sequence),
		"blend.rowtint":          tf.DefaultRowTintCrossFade,
		"blend.marker":           tf.DefaultMarkerCrossFade,
		"blend.markerforeground": tf.DefaultMarkerForegroundCrossFade,
		"blend.cachesize":        tf.DefaultBlendCacheSize,
		"tabwidth":               4,
		"linenumbers":            true,
	}
}

// EnvVars maps cascade keys to the environment variables that set them.
var EnvVars = map[string]string{
	"width":                  "SPLITDIFF_WIDTH",
	"color":                  "SPLITDIFF_COLOR",
	"theme":                  "SPLITDIFF_THEME",
	"intraline.threshold":    "SPLITDIFF_INTRALINE_THRESHOLD",
	"intraline.algorithm":    "SPLITDIFF_ALGORITHM",
	"blend.rowtint":          "SPLITDIFF_BLEND_ROWTINT",
	"blend.marker":           "SPLITDIFF_BLEND_MARKER",
	"blend.markerforeground": "SPLITDIFF_BLEND_MARKERFOREGROUND",
	"blend.cachesize":        "SPLITDIFF_BLEND_CACHESIZE",
	"tabwidth":               "SPLITDIFF_TAB_WIDTH",
	"linenumbers":            "SPLITDIFF_LINE_NUMBERS",
}

// UserFile is the per-user config file.
func UserFile() string {
	return cascade.InUserConfigDirectory(filepath.Join("splitdiff", "config.yaml"))
}

// LoadOptions adjust where Load looks.
type LoadOptions struct {
	Dir      string         // starting directory for the ProjectFileName search; "" uses the working directory
	UserFile string         // overrides UserFile() when non-empty
	Flags    map[string]any // cascade keys set on the command line; highest precedence
}

// Load builds and validates the effective configuration. The report lists the sources that contributed, lowest precedence first.
func Load(opts LoadOptions) (Config, cascade.LoadReport, error) {
	userFile := opts.UserFile
	if userFile == "" {
		userFile = UserFile()
	}

	loader := cascade.New().
		WithDefaults(Defaults()).
		WithYAMLFile(userFile).
		WithNearestYAMLFile(ProjectFileName, opts.Dir).
		WithEnv(EnvVars)
	if len(opts.Flags) > 0 {
		loader = loader.WithValues("flags", opts.Flags)
	}

	var cfg Config
	report, err := loader.StrictlyLoadWithReport(&cfg)
	if err != nil {
		return Config{}, report, fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, report, err
	}
	return cfg, report, nil
}

// Validate rejects out-of-range values. Errors wrap ErrInvalid.
func (c Config) Validate() error {
	if c.Width < 0 {
		return fmt.Errorf("%w: width must be >= 0 (got %d)", ErrInvalid, c.Width)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: color must be auto, always, or never (got %q)", ErrInvalid, c.Color)
	}
	if c.Theme == "" {
		return fmt.Errorf("%w: theme must be set", ErrInvalid)
	}
	if _, err := intraline.ParseAlgorithm(string(c.Intraline.Algorithm)); err != nil {
		return fmt.Errorf("%w: intraline.algorithm: %w", ErrInvalid, err)
	}
	for _, f := range []struct {
		key string
		v   float64
	}{
		{"intraline.threshold", c.Intraline.Threshold},
		{"blend.rowtint", c.Blend.RowTint},
		{"blend.marker", c.Blend.Marker},
		{"blend.markerforeground", c.Blend.MarkerForeground},
	} {
		if f.v < 0 || f.v > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1] (got %v)", ErrInvalid, f.key, f.v)
		}
	}
	if c.Blend.CacheSize < 0 {
		return fmt.Errorf("%w: blend.cachesize must be >= 0 (got %d)", ErrInvalid, c.Blend.CacheSize)
	}
	if c.TabWidth < 1 {
		return fmt.Errorf("%w: tabwidth must be >= 1 (got %d)", ErrInvalid, c.TabWidth)
	}
	return nil
}

// WriteYAML writes c as YAML, preceded by a comment naming each source in report.
func (c Config) WriteYAML(w io.Writer, report cascade.LoadReport) error {
	for _, src := range report.Sources {
		if _, err := fmt.Fprintf(w, "# source: %s\n", src); err != nil {
			return err
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
