package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileConfig holds defaults loaded from a YAML config file. Zero values mean
// "not set"; they never override values the caller supplies explicitly.
type FileConfig struct {
	BinPath     string   `yaml:"bin_path"`
	Model       string   `yaml:"model"`
	IncludeDirs []string `yaml:"include_directories"`
	Yolo        bool     `yaml:"yolo"`
	Debug       bool     `yaml:"debug"`
	HistoryPath string   `yaml:"history_path"`
}

// LoadFile reads a FileConfig from path. An empty path resolves to
// $GEMINI_SDK_CONFIG, then ~/.gemini-sdk/config.yaml. A missing file is not
// an error: it yields a zero FileConfig.
func LoadFile(path string) (FileConfig, error) {
	resolved := resolvePath(path)

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FileConfig{}, nil
		}

		return FileConfig{}, fmt.Errorf("read config file %s: %w", resolved, err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse config file %s: %w", resolved, err)
	}

	cfg.BinPath = expandPath(cfg.BinPath)
	cfg.HistoryPath = expandPath(cfg.HistoryPath)

	return cfg, nil
}

func resolvePath(path string) string {
	if path != "" {
		return expandPath(path)
	}

	if custom := os.Getenv("GEMINI_SDK_CONFIG"); custom != "" {
		return expandPath(custom)
	}

	return filepath.Join(userHomeDir(), ".gemini-sdk", "config.yaml")
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(userHomeDir(), path[2:])
	}

	return path
}

func userHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return home
}
