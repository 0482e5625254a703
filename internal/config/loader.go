package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/playforge/internal/mechanics"
)

// DirName is the per-user directory under the home directory.
const DirName = ".playforge"

// Load loads the configuration for a genre.
// Search order: customPath -> ~/.playforge/configs/<genre>.{yaml,toml} ->
// ./configs/<genre>.{yaml,toml} -> embedded default.
// Files only need the keys they change; the rest keeps its default.
// Only a bad customPath is an error; broken files further down the search
// order are skipped.
func Load(t mechanics.Type, customPath string) (GenreConfig, error) {
	if !t.Valid() {
		t = mechanics.Platformer
	}

	if customPath != "" {
		cfg := Default(t)
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		if err := decode(customPath, data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg.normalize(t), nil
	}

	for _, path := range searchPaths(t) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg := Default(t)
		if err := decode(path, data, &cfg); err == nil {
			return cfg.normalize(t), nil
		}
	}

	cfg := Default(t)
	if data, err := embedded(t); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Default(t), nil // fallback to hardcoded if embed fails
		}
	}
	return cfg.normalize(t), nil
}

// searchPaths lists the user and local candidates in order.
func searchPaths(t mechanics.Type) []string {
	var paths []string
	for _, ext := range []string{".yaml", ".toml"} {
		if p := userConfigPath(t.String() + ext); p != "" {
			paths = append(paths, p)
		}
	}
	for _, ext := range []string{".yaml", ".toml"} {
		paths = append(paths, filepath.Join("configs", t.String()+ext))
	}
	return paths
}

func decode(path string, data []byte, dst *GenreConfig) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), dst)
		return err
	}
	return yaml.Unmarshal(data, dst)
}

// Marshal renders cfg as YAML, or TOML when format is "toml".
func Marshal(cfg GenreConfig, format string) ([]byte, error) {
	if strings.EqualFold(format, "toml") {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, fmt.Errorf("config: encode toml: %w", err)
		}
		return buf.Bytes(), nil
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: encode yaml: %w", err)
	}
	return out, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DirName, "configs", filename)
}

// Dir returns ~/.playforge, or empty if home is unavailable.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DirName)
}
