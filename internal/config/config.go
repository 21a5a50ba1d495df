package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/timewatch/internal/termtext"
)

// MinInterval is the shortest allowed delay between executions.
const MinInterval = 100 * time.Millisecond

// DefaultInterval is used when no interval is given.
const DefaultInterval = 2 * time.Second

// ErrIntervalTooShort is returned by ValidateInterval.
var ErrIntervalTooShort = errors.New("interval shorter than 100ms is not allowed")

// Config holds the user's timewatch settings.
type Config struct {
	Shell          string
	ShellOptions   []string
	NoShell        bool
	SkipEmptyDiffs bool
	Bell           bool
	Styles         Styles
}

// Styles are the highlight styles applied on top of decoded output.
type Styles struct {
	DiffAdd    termtext.Style
	DiffDelete termtext.Style
	Search     termtext.Style
	Stderr     termtext.Style
}

const (
	defaultConfigPath = "~/.config/timewatch/config.toml"
	defaultShell      = "sh"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Shell:        defaultShell,
		ShellOptions: []string{"-c"},
		Styles:       DefaultStyles(),
	}
}

// DefaultStyles returns the built-in highlight styles.
func DefaultStyles() Styles {
	return Styles{
		DiffAdd:    termtext.Style{}.Foreground(termtext.ANSI(termtext.Black)).Background(termtext.ANSI(termtext.Green)),
		DiffDelete: termtext.Style{}.Foreground(termtext.ANSI(termtext.Black)).Background(termtext.ANSI(termtext.Red)),
		Search:     termtext.Style{}.Foreground(termtext.ANSI(termtext.Black)).Background(termtext.ANSI(termtext.Yellow)),
		Stderr:     termtext.Style{}.Foreground(termtext.ANSI(termtext.Red)),
	}
}

type rawConfig struct {
	General struct {
		Shell          string `toml:"shell"`
		ShellOptions   string `toml:"shell_options"`
		NoShell        bool   `toml:"no_shell"`
		SkipEmptyDiffs bool   `toml:"skip_empty_diffs"`
		Bell           bool   `toml:"bell"`
	} `toml:"general"`
	Styles map[string]string `toml:"styles"`
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if shell := strings.TrimSpace(raw.General.Shell); shell != "" {
		cfg.Shell = shell
	}
	if opts := SplitShellOptions(raw.General.ShellOptions); len(opts) > 0 {
		cfg.ShellOptions = opts
	}
	cfg.NoShell = raw.General.NoShell
	cfg.SkipEmptyDiffs = raw.General.SkipEmptyDiffs
	cfg.Bell = raw.General.Bell

	if err := applyStyles(&cfg.Styles, raw.Styles); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyStyles(s *Styles, raw map[string]string) error {
	targets := map[string]*termtext.Style{
		"diff_add":    &s.DiffAdd,
		"diff_delete": &s.DiffDelete,
		"search":      &s.Search,
		"stderr":      &s.Stderr,
	}
	for key, value := range raw {
		name, fg := strings.CutSuffix(key, "_fg")
		if !fg {
			var bg bool
			name, bg = strings.CutSuffix(key, "_bg")
			if !bg {
				return fmt.Errorf("parse config: unknown style key %q", key)
			}
		}
		target, ok := targets[name]
		if !ok {
			return fmt.Errorf("parse config: unknown style key %q", key)
		}
		c, err := ParseColor(value)
		if err != nil {
			return fmt.Errorf("parse config: styles.%s: %w", key, err)
		}
		if fg {
			*target = target.Foreground(c)
		} else {
			*target = target.Background(c)
		}
	}
	return nil
}

var colorNames = map[string]uint8{
	"black":          termtext.Black,
	"red":            termtext.Red,
	"green":          termtext.Green,
	"yellow":         termtext.Yellow,
	"blue":           termtext.Blue,
	"magenta":        termtext.Magenta,
	"cyan":           termtext.Cyan,
	"white":          termtext.White,
	"bright_black":   termtext.BrightBlack,
	"gray":           termtext.BrightBlack,
	"bright_red":     termtext.BrightRed,
	"bright_green":   termtext.BrightGreen,
	"bright_yellow":  termtext.BrightYellow,
	"bright_blue":    termtext.BrightBlue,
	"bright_magenta": termtext.BrightMagenta,
	"bright_cyan":    termtext.BrightCyan,
	"bright_white":   termtext.BrightWhite,
}

// ParseColor accepts a color name ("red", "bright_blue"), a palette index
// ("0".."255") or a hex triplet ("#rrggbb"). An empty string or "default"
// clears the color.
func ParseColor(s string) (termtext.Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" || v == "default" || v == "reset" {
		return termtext.Color{}, nil
	}
	if idx, ok := colorNames[v]; ok {
		return termtext.ANSI(idx), nil
	}
	if hex, ok := strings.CutPrefix(v, "#"); ok {
		if len(hex) != 6 {
			return termtext.Color{}, fmt.Errorf("invalid hex color %q", s)
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return termtext.Color{}, fmt.Errorf("invalid hex color %q", s)
		}
		return termtext.RGB(uint8(n>>16), uint8(n>>8), uint8(n)), nil
	}
	n, err := strconv.ParseUint(v, 10, 8)
	if err != nil {
		return termtext.Color{}, fmt.Errorf("invalid color %q", s)
	}
	if n < 16 {
		return termtext.ANSI(uint8(n)), nil
	}
	return termtext.Indexed(uint8(n)), nil
}

// ParseInterval parses a Go duration ("1.5s", "500ms") or a bare number of
// seconds ("2", "0.5").
func ParseInterval(s string) (time.Duration, error) {
	trimmed := strings.TrimSpace(s)
	if d, err := time.ParseDuration(trimmed); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q", s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// ValidateInterval rejects intervals below MinInterval.
func ValidateInterval(d time.Duration) error {
	if d < MinInterval {
		return fmt.Errorf("%v: %w", d, ErrIntervalTooShort)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

// SplitShellOptions splits a space separated option string. The result is
// never nil.
func SplitShellOptions(s string) []string {
	return append([]string{}, strings.Fields(s)...)
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
