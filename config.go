package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

type Config struct {
	ListenAddress string `toml:"listen_address"`
	DataDirectory string `toml:"data_directory"`
	StatusName    string `toml:"status_name"`
}

func defaultConfig() Config {
	return Config{
		ListenAddress: ":19132",
		DataDirectory: "bedrock_data",
		StatusName:    "Zeppelin",
	}
}

// loadConfig reads the plugin config at path, writing the defaults there first if
// the file does not exist. Missing keys keep their defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		data, err := toml.Marshal(cfg)
		if err != nil {
			return cfg, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return cfg, err
		}
		return cfg, os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
