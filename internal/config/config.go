// Package config implements the layered Configuration Snapshot (§3, §6):
// CLI flag > process environment > project config file (upward search) >
// user config file > built-in defaults, with per-field provenance.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Source names which layer supplied an effective value.
type Source string

const (
	SourceDefault Source = "default"
	SourceUser    Source = "user_file"
	SourceProject Source = "project_file"
	SourceEnv     Source = "env"
	SourceFlag    Source = "cli_flag"
)

// Value pairs a resolved configuration value with the layer it came from.
type Value struct {
	Raw    string
	Source Source
}

// Snapshot is the fully resolved effective configuration, keyed by dotted
// field name (e.g. "directory.default_depth").
type Snapshot struct {
	values map[string]Value
}

// defaults holds every configuration key this module recognizes, along
// with its built-in default value.
var defaults = map[string]string{
	"directory.default_depth": "5",
	"ssl.timeout_ms":          "5000",
	"domain.resolver":         "system",
	"log.level":               "warn",
	"filter.no_gitignore":     "false",
	"rules.select":            "",
	"rules.ignore":            "",
}

// fileSchema is the shape a project or user reveal.toml file may take.
// Unknown keys are ignored rather than rejected, matching the forgiving
// posture the query sublanguage takes toward unknown fields.
type fileSchema struct {
	Directory struct {
		DefaultDepth int `toml:"default_depth"`
	} `toml:"directory"`
	SSL struct {
		TimeoutMs int `toml:"timeout_ms"`
	} `toml:"ssl"`
	Domain struct {
		Resolver string `toml:"resolver"`
	} `toml:"domain"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
	Filter struct {
		NoGitignore bool `toml:"no_gitignore"`
	} `toml:"filter"`
	Rules struct {
		Select string `toml:"select"`
		Ignore string `toml:"ignore"`
	} `toml:"rules"`
}

// Load resolves the full layered Snapshot. searchFrom is the directory to
// start an upward search for a project "reveal.toml" from; flags carries
// already-parsed CLI flag values keyed the same way as defaults.
func Load(searchFrom string, flags map[string]string) *Snapshot {
	s := &Snapshot{values: make(map[string]Value, len(defaults))}

	for k, v := range defaults {
		s.values[k] = Value{Raw: v, Source: SourceDefault}
	}

	if home, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(home, ".config", "reveal", "reveal.toml")
		s.applyFile(userPath, SourceUser)
	}

	if projectPath, ok := findUpward(searchFrom, "reveal.toml"); ok {
		s.applyFile(projectPath, SourceProject)
	}

	for key := range defaults {
		envKey := "REVEAL_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if v, ok := os.LookupEnv(envKey); ok {
			s.values[key] = Value{Raw: v, Source: SourceEnv}
		}
	}

	for key, v := range flags {
		if _, known := defaults[key]; known {
			s.values[key] = Value{Raw: v, Source: SourceFlag}
		}
	}

	return s
}

// findUpward walks from dir toward the filesystem root looking for name.
func findUpward(dir, name string) (string, bool) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", false
		}
	}
	cur := dir
	for {
		candidate := filepath.Join(cur, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", false
		}
		cur = parent
	}
}

func (s *Snapshot) applyFile(path string, source Source) {
	var fs fileSchema
	if _, err := toml.DecodeFile(path, &fs); err != nil {
		return
	}
	if fs.Directory.DefaultDepth > 0 {
		s.values["directory.default_depth"] = Value{Raw: strconv.Itoa(fs.Directory.DefaultDepth), Source: source}
	}
	if fs.SSL.TimeoutMs > 0 {
		s.values["ssl.timeout_ms"] = Value{Raw: strconv.Itoa(fs.SSL.TimeoutMs), Source: source}
	}
	if fs.Domain.Resolver != "" {
		s.values["domain.resolver"] = Value{Raw: fs.Domain.Resolver, Source: source}
	}
	if fs.Log.Level != "" {
		s.values["log.level"] = Value{Raw: fs.Log.Level, Source: source}
	}
	s.values["filter.no_gitignore"] = Value{Raw: strconv.FormatBool(fs.Filter.NoGitignore), Source: source}
	if fs.Rules.Select != "" {
		s.values["rules.select"] = Value{Raw: fs.Rules.Select, Source: source}
	}
	if fs.Rules.Ignore != "" {
		s.values["rules.ignore"] = Value{Raw: fs.Rules.Ignore, Source: source}
	}
}

// String returns the effective string value for key.
func (s *Snapshot) String(key string) string {
	return s.values[key].Raw
}

// Int returns the effective integer value for key, or fallback if unset
// or unparsable.
func (s *Snapshot) Int(key string, fallback int) int {
	v, ok := s.values[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v.Raw)
	if err != nil {
		return fallback
	}
	return n
}

// Bool returns the effective boolean value for key.
func (s *Snapshot) Bool(key string) bool {
	v, ok := s.values[key]
	if !ok {
		return false
	}
	b, _ := strconv.ParseBool(v.Raw)
	return b
}

// Provenance returns which layer supplied key's effective value.
func (s *Snapshot) Provenance(key string) Source {
	return s.values[key].Source
}

// All returns every resolved key/value pair, for --capabilities output.
func (s *Snapshot) All() map[string]Value {
	out := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
