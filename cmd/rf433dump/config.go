package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config mirrors the command-line flags for file-based setups. Flags
// explicitly given on the command line win over file values.
type Config struct {
	Durations  string `yaml:"durations"`
	Server     string `yaml:"server"`
	CenterFreq uint   `yaml:"centerfreq"`
	SampleRate uint   `yaml:"samplerate"`

	Pin        int    `yaml:"pin"`
	Mood       string `yaml:"mood"`
	Convention int    `yaml:"convention"`

	Format   string `yaml:"format"`
	LogLevel string `yaml:"loglevel"`
	LogFile  string `yaml:"logfile"`
}

// LoadConfig reads and parses a yaml configuration file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: read")
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}

	return cfg, nil
}

// ApplyConfig copies file values into the flags that were left at their
// defaults on the command line.
func ApplyConfig(cfg *Config) {
	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	set := func(name, value string) {
		if value == "" || explicit[name] {
			return
		}
		flag.Set(name, value)
	}
	setUint := func(name string, value uint) {
		if value == 0 || explicit[name] {
			return
		}
		flag.Set(name, strconv.FormatUint(uint64(value), 10))
	}

	set("durations", cfg.Durations)
	set("server", cfg.Server)
	setUint("centerfreq", cfg.CenterFreq)
	setUint("samplerate", cfg.SampleRate)
	set("mood", cfg.Mood)
	set("format", cfg.Format)
	set("loglevel", cfg.LogLevel)
	set("logfile", cfg.LogFile)
	if cfg.Pin != 0 && !explicit["pin"] {
		flag.Set("pin", strconv.Itoa(cfg.Pin))
	}
	if cfg.Convention != 0 && !explicit["convention"] {
		flag.Set("convention", strconv.Itoa(cfg.Convention))
	}
}
