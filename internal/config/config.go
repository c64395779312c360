// Package config reads the optional bdl.yaml file whose values act as
// defaults for command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "bdl.yaml"

type Config struct {
	Module ModuleConfig `yaml:"module"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

type ModuleConfig struct {
	Path     string        `yaml:"path"`
	URL      string        `yaml:"url"`
	Name     string        `yaml:"name"`
	Timeout  time.Duration `yaml:"timeout"`
	Memory   string        `yaml:"memory"`
	Cache    *bool         `yaml:"cache"`
	CacheDir string        `yaml:"cache_dir"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads path. An empty path reads DefaultFile if it exists and yields
// an empty Config otherwise; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	defer file.Close()

	cfg, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		cfg.Path = abs
	} else {
		cfg.Path = path
	}
	return cfg, nil
}

// Parse decodes a config document. Unknown keys are errors.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &cfg, nil
}

// Flags maps the values set in the file to the flag names they default.
func (c *Config) Flags() map[string]string {
	flags := make(map[string]string)
	set := func(name, value string) {
		if value != "" {
			flags[name] = value
		}
	}

	set("module", c.Module.Path)
	set("module-url", c.Module.URL)
	set("name", c.Module.Name)
	if c.Module.Timeout > 0 {
		set("timeout", c.Module.Timeout.String())
	}
	set("memory", c.Module.Memory)
	if c.Module.Cache != nil {
		set("no-cache", strconv.FormatBool(!*c.Module.Cache))
	}
	set("cache-dir", c.Module.CacheDir)
	if c.Server.Port > 0 {
		set("port", strconv.Itoa(c.Server.Port))
	}
	set("log-level", c.Log.Level)

	return flags
}
