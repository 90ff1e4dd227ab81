package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
)

// Profile overrides sort options for files matching FileTypes. Unset fields
// keep the value from [sort].
type Profile struct {
	Name             string   `toml:"name"`
	FileTypes        []string `toml:"file-types"`
	Locale           string   `toml:"locale"`
	Descending       *bool    `toml:"descending"`
	IgnoreCase       *bool    `toml:"ignore-case"`
	IgnoreWidth      *bool    `toml:"ignore-width"`
	IgnoreDiacritics *bool    `toml:"ignore-diacritics"`
	Numeric          *bool    `toml:"numeric"`
}

type Profiles struct {
	Profiles []Profile `toml:"profile"`
}

// Match returns the first profile whose file types match path. A file type is
// an extension ("txt", ".txt"), a base name ("CODEOWNERS") or a glob
// ("**/locales/*.ja").
func (p Profiles) Match(path string) *Profile {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	slashed := filepath.ToSlash(path)
	for i := range p.Profiles {
		prof := &p.Profiles[i]
		for _, ft := range prof.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == ext || ftLower == baseLower {
				return prof
			}
			if strings.HasPrefix(ftLower, ".") && strings.TrimPrefix(ftLower, ".") == ext {
				return prof
			}
			if strings.ContainsAny(ft, "*?[{") {
				if ok, _ := doublestar.Match(ft, slashed); ok {
					return prof
				}
				if ok, _ := doublestar.Match(ft, base); ok {
					return prof
				}
			}
		}
	}
	return nil
}

// Apply returns opts with the profile overrides applied.
func (p *Profile) Apply(opts SortOptions) SortOptions {
	if p == nil {
		return opts
	}
	if p.Locale != "" {
		opts.Locale = p.Locale
	}
	if p.Descending != nil {
		opts.Descending = *p.Descending
	}
	if p.IgnoreCase != nil {
		opts.IgnoreCase = *p.IgnoreCase
	}
	if p.IgnoreWidth != nil {
		opts.IgnoreWidth = *p.IgnoreWidth
	}
	if p.IgnoreDiacritics != nil {
		opts.IgnoreDiacritics = *p.IgnoreDiacritics
	}
	if p.Numeric != nil {
		opts.Numeric = *p.Numeric
	}
	return opts
}

func LoadProfiles() (Profiles, error) {
	path, err := ProfilesPath()
	if err != nil {
		return Profiles{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Profiles{}, nil
		}
		return Profiles{}, err
	}

	var cfg Profiles
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Profiles{}, err
	}
	return cfg, nil
}

func ProfilesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profiles.toml"), nil
}
