// Package config loads engine settings and priority-tree documents from YAML
// and keeps trees fresh while their files are edited.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/helm/library"
)

// Settings configures a helm process.
type Settings struct {
	// TickSeconds is how far the simulation clock moves per step.
	TickSeconds float64 `yaml:"tick_seconds"`
	// TickIntervalMS is the wall-clock period between steps.
	TickIntervalMS int `yaml:"tick_interval_ms"`

	SocketPath string `yaml:"socket_path"`
	TreeFile   string `yaml:"tree_file"`
	Watch      bool   `yaml:"watch"`

	// TraceDir enables the compressed decision trace when non-empty.
	TraceDir    string `yaml:"trace_dir"`
	TracePrefix string `yaml:"trace_prefix"`

	Profile library.Profile `yaml:"profile"`
}

const (
	defaultTickSeconds    = 0.25
	defaultTickIntervalMS = 250
	defaultSocketPath     = "/tmp/helm.sock"
	defaultTracePrefix    = "decisions"
	maxTickSeconds        = 10
)

func defaults() Settings {
	return Settings{
		TickSeconds:    defaultTickSeconds,
		TickIntervalMS: defaultTickIntervalMS,
		SocketPath:     defaultSocketPath,
		TracePrefix:    defaultTracePrefix,
		Profile:        library.DefaultProfile(),
	}
}

// Load reads settings from path. Keys missing from the file keep their
// defaults; an empty path returns the defaults.
func Load(path string) (Settings, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Normalize replaces unusable values with defaults and clamps the profile.
func (s *Settings) Normalize() {
	if s.TickSeconds <= 0 {
		s.TickSeconds = defaultTickSeconds
	}
	if s.TickIntervalMS <= 0 {
		s.TickIntervalMS = defaultTickIntervalMS
	}
	s.SocketPath = strings.TrimSpace(s.SocketPath)
	if s.SocketPath == "" {
		s.SocketPath = defaultSocketPath
	}
	s.TreeFile = strings.TrimSpace(s.TreeFile)
	s.TraceDir = strings.TrimSpace(s.TraceDir)
	s.TracePrefix = strings.TrimSpace(s.TracePrefix)
	if s.TracePrefix == "" {
		s.TracePrefix = defaultTracePrefix
	}
	s.Profile.Validate()
}

// Validate reports settings that cannot be repaired by Normalize.
func (s Settings) Validate() error {
	var errs []error
	if s.TickSeconds > maxTickSeconds {
		errs = append(errs, fmt.Errorf("tick_seconds %g exceeds %d", s.TickSeconds, maxTickSeconds))
	}
	if s.Watch && s.TreeFile == "" {
		errs = append(errs, errors.New("watch requires tree_file"))
	}
	if strings.ContainsAny(s.TracePrefix, `/\`) {
		errs = append(errs, fmt.Errorf("trace_prefix %q must not contain a path separator", s.TracePrefix))
	}
	return errors.Join(errs...)
}
