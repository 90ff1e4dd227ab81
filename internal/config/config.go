package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type SortOptions struct {
	Locale           string `toml:"locale"`
	Descending       bool   `toml:"descending"`
	IgnoreCase       bool   `toml:"ignore-case"`
	IgnoreWidth      bool   `toml:"ignore-width"`
	IgnoreDiacritics bool   `toml:"ignore-diacritics"`
	Numeric          bool   `toml:"numeric"`
}

type PreviewOptions struct {
	TabWidth             int    `toml:"tab-width"`
	Foreground           string `toml:"foreground"`
	Background           string `toml:"background"`
	BlockForeground      string `toml:"block-foreground"`
	BlockBackground      string `toml:"block-background"`
	LineNumberForeground string `toml:"line-number-foreground"`
	StatuslineForeground string `toml:"statusline-foreground"`
	StatuslineBackground string `toml:"statusline-background"`
}

type LogOptions struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type Config struct {
	Sort    SortOptions    `toml:"sort"`
	Preview PreviewOptions `toml:"preview"`
	Log     LogOptions     `toml:"log"`
}

func Default() Config {
	return Config{
		Sort: SortOptions{
			Locale: "",
		},
		Preview: PreviewOptions{
			TabWidth:             4,
			Foreground:           "#B3B1AD",
			Background:           "#0A0E14",
			BlockForeground:      "#B3B1AD",
			BlockBackground:      "#27425A",
			LineNumberForeground: "#3E4B59",
			StatuslineForeground: "#B3B1AD",
			StatuslineBackground: "#0F1419",
		},
		Log: LogOptions{
			Level: "info",
		},
	}
}

// Load reads config.toml from ConfigDir. A missing file yields the defaults.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	md, err := toml.Decode(string(data), &userCfg)
	if err != nil {
		return cfg, err
	}

	if userCfg.Sort.Locale != "" {
		cfg.Sort.Locale = userCfg.Sort.Locale
	}
	if md.IsDefined("sort", "descending") {
		cfg.Sort.Descending = userCfg.Sort.Descending
	}
	if md.IsDefined("sort", "ignore-case") {
		cfg.Sort.IgnoreCase = userCfg.Sort.IgnoreCase
	}
	if md.IsDefined("sort", "ignore-width") {
		cfg.Sort.IgnoreWidth = userCfg.Sort.IgnoreWidth
	}
	if md.IsDefined("sort", "ignore-diacritics") {
		cfg.Sort.IgnoreDiacritics = userCfg.Sort.IgnoreDiacritics
	}
	if md.IsDefined("sort", "numeric") {
		cfg.Sort.Numeric = userCfg.Sort.Numeric
	}
	mergePreview(&cfg.Preview, userCfg.Preview)
	if userCfg.Log.Level != "" {
		cfg.Log.Level = userCfg.Log.Level
	}
	if userCfg.Log.File != "" {
		cfg.Log.File = userCfg.Log.File
	}
	return cfg, nil
}

func mergePreview(dst *PreviewOptions, src PreviewOptions) {
	if src.TabWidth > 0 {
		dst.TabWidth = src.TabWidth
	}
	if src.Foreground != "" {
		dst.Foreground = src.Foreground
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.BlockForeground != "" {
		dst.BlockForeground = src.BlockForeground
	}
	if src.BlockBackground != "" {
		dst.BlockBackground = src.BlockBackground
	}
	if src.LineNumberForeground != "" {
		dst.LineNumberForeground = src.LineNumberForeground
	}
	if src.StatuslineForeground != "" {
		dst.StatuslineForeground = src.StatuslineForeground
	}
	if src.StatuslineBackground != "" {
		dst.StatuslineBackground = src.StatuslineBackground
	}
}

func ConfigDir() (string, error) {
	if v := os.Getenv("SORTLINES_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "sortlines"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sortlines"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
