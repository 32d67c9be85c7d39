package session

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/odra-lang/odra/internal/cas"
	"github.com/odra-lang/odra/vm"
)

type Config struct {
	Session SessionConfig `toml:"session"`
	Resolve ResolveConfig `toml:"resolve"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

type SessionConfig struct {
	Prompt      string `toml:"prompt"`
	KeepGoing   bool   `toml:"keep_going"`
	HistoryFile string `toml:"history_file,omitempty"`
}

type ResolveConfig struct {
	// Ancestors lets a word in an enclosing vocabulary resolve from inside
	// a nested one.
	Ancestors bool `toml:"ancestors"`
}

type HistoryConfig struct {
	Enabled   bool `toml:"enabled"`
	CacheSize int  `toml:"cache_size"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{Prompt: "odra> "},
		History: HistoryConfig{Enabled: true, CacheSize: 1024},
		Log:     LogConfig{Level: "info"},
	}
}

// parseConfig decodes f over the defaults, so absent keys keep their
// default values.
func parseConfig(f io.Reader) (Config, error) {
	out := DefaultConfig()
	_, err := toml.NewDecoder(f).Decode(&out)
	return out, err
}

// LoadConfig reads a TOML config file. An empty path or a missing file
// yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return parseConfig(f)
}

// VMOptions translates the config into VM construction options.
func (c Config) VMOptions() []vm.Option {
	opts := []vm.Option{vm.WithAncestorResolution(c.Resolve.Ancestors)}
	if c.History.Enabled {
		opts = append(opts, vm.WithHistory(cas.NewHistory(c.History.CacheSize)))
	}
	return opts
}
