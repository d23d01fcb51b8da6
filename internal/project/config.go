package project

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"tycore/internal/trace"
)

// Config is the contents of tycore.toml. Zero sections keep their defaults.
type Config struct {
	Check  Check  `toml:"check"`
	Trace  Trace  `toml:"trace"`
	Output Output `toml:"output"`
}

type Check struct {
	MaxDiagnostics int  `toml:"max_diagnostics"`
	Jobs           int  `toml:"jobs"` // 0 = GOMAXPROCS
	Cache          bool `toml:"cache"`
}

type Trace struct {
	Level    string `toml:"level"`
	Mode     string `toml:"mode"`
	Output   string `toml:"output"`
	RingSize int    `toml:"ring_size"`
}

type Output struct {
	Color  string `toml:"color"`  // auto|on|off
	Format string `toml:"format"` // pretty|json
}

func Default() Config {
	return Config{
		Check:  Check{MaxDiagnostics: 100, Cache: true},
		Trace:  Trace{Level: "off", Mode: "ring", RingSize: 4096},
		Output: Output{Color: "auto", Format: "pretty"},
	}
}

// ConfigError locates a problem inside a configuration file. Offset and
// Len are zero when the problem has no specific position.
type ConfigError struct {
	Path   string
	Offset int
	Len    int
	Msg    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Load reads path over the defaults and validates the result. Unknown keys
// are rejected so that typos do not silently keep a default.
func Load(path string) (Config, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, content)
}

// Parse decodes content as the configuration file at path.
func Parse(path string, content []byte) (Config, error) {
	cfg := Default()
	meta, err := toml.Decode(string(content), &cfg)
	if err != nil {
		cerr := &ConfigError{Path: path, Msg: err.Error()}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			cerr.Offset, cerr.Len = perr.Position.Start, perr.Position.Len
			if perr.Message != "" {
				cerr.Msg = perr.Message
			}
		}
		return Config{}, cerr
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		key := undecoded[0]
		return Config{}, &ConfigError{
			Path:   path,
			Offset: keyOffset(content, key),
			Len:    len(key[len(key)-1]),
			Msg:    fmt.Sprintf("unknown key %q", key.String()),
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, &ConfigError{Path: path, Msg: err.Error()}
	}
	return cfg, nil
}

// keyOffset finds the line that assigns the last segment of key, or 0.
func keyOffset(content []byte, key toml.Key) int {
	name := key[len(key)-1]
	off := 0
	for line := range strings.SplitAfterSeq(string(content), "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, name) && strings.HasPrefix(strings.TrimLeft(trimmed[len(name):], " \t"), "=") {
			return off + len(line) - len(trimmed)
		}
		off += len(line)
	}
	return 0
}

// Validate checks enumerated and numeric fields.
func (c Config) Validate() error {
	if c.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("check.max_diagnostics must not be negative, got %d", c.Check.MaxDiagnostics)
	}
	if c.Check.Jobs < 0 {
		return fmt.Errorf("check.jobs must not be negative, got %d", c.Check.Jobs)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("trace.level: %w", err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("trace.mode: %w", err)
	}
	if c.Trace.RingSize < 0 {
		return fmt.Errorf("trace.ring_size must not be negative, got %d", c.Trace.RingSize)
	}
	if !slices.Contains([]string{"auto", "on", "off"}, c.Output.Color) {
		return fmt.Errorf("output.color must be auto, on or off, got %q", c.Output.Color)
	}
	if !slices.Contains([]string{"pretty", "json"}, c.Output.Format) {
		return fmt.Errorf("output.format must be pretty or json, got %q", c.Output.Format)
	}
	return nil
}

// TraceConfig converts the [trace] section for trace.New.
func (c Config) TraceConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: c.Trace.Output,
		RingSize:   c.Trace.RingSize,
	}, nil
}
