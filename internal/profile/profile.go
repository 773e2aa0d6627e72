package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caedis/vsmod-updater/internal/config"
	"github.com/caedis/vsmod-updater/internal/policy"
)

var ErrInvalidName = errors.New("invalid profile name")

// Profile holds saveable overrides for one invocation. All fields are
// pointers so we can distinguish "not set" from zero values.
type Profile struct {
	ConfigFile           *string   `toml:"config-file,omitempty"`
	ModPath              *string   `toml:"mod-path,omitempty"`
	GameVersion          *string   `toml:"game-version,omitempty"`
	AlwaysUpdate         *bool     `toml:"always-update,omitempty"`
	CanDowngrade         *bool     `toml:"can-downgrade,omitempty"`
	AlwaysDownload       *bool     `toml:"always-download,omitempty"`
	MissingVersion       *string   `toml:"missing-version,omitempty"`
	MoveOlderToSubfolder *bool     `toml:"move-older-to-subfolder,omitempty"`
	ExcludeMods          *[]string `toml:"exclude-mods,omitempty"`
	Verbose              *bool     `toml:"verbose,omitempty"`
	LogFile              *string   `toml:"log-file,omitempty"`
}

// Dir returns the profiles directory, using XDG_CONFIG_HOME with a fallback
// to ~/.config.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "vsmd", "profiles")
}

func path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	return filepath.Join(Dir(), name+".toml"), nil
}

// Load reads a named profile from the profiles directory.
func Load(name string) (*Profile, error) {
	p, err := path(name)
	if err != nil {
		return nil, err
	}
	var prof Profile
	if _, err := toml.DecodeFile(p, &prof); err != nil {
		return nil, fmt.Errorf("loading profile %q: %w", name, err)
	}
	if prof.MissingVersion != nil {
		if _, err := policy.ParseMissingVersion(*prof.MissingVersion); err != nil {
			return nil, fmt.Errorf("loading profile %q: %w", name, err)
		}
	}
	return &prof, nil
}

// Save writes a profile to the profiles directory, creating it if needed.
func Save(name string, prof *Profile) error {
	p, err := path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating profiles directory: %w", err)
	}
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("creating profile file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(prof); err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	return nil
}

// List returns the names of all saved profiles.
func List() ([]string, error) {
	dir := Dir()

	var names []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if path == dir {
			return nil
		}
		if d.IsDir() {
			return filepath.SkipDir
		}
		if strings.HasSuffix(d.Name(), ".toml") {
			names = append(names, strings.TrimSuffix(d.Name(), ".toml"))
		}
		return nil
	})
	if err != nil && os.IsNotExist(err) {
		return nil, nil
	}
	return names, err
}

// Delete removes a named profile.
func Delete(name string) error {
	p, err := path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("deleting profile %q: %w", name, err)
	}
	return nil
}

// Apply overlays the set fields onto cfg in memory. cfg is not saved.
func (p *Profile) Apply(cfg *config.Config) error {
	if p.ModPath != nil {
		cfg.ModPath = *p.ModPath
	}
	if p.GameVersion != nil {
		cfg.GameVersion = *p.GameVersion
	}
	if p.AlwaysUpdate != nil {
		cfg.AlwaysUpdate = *p.AlwaysUpdate
	}
	if p.CanDowngrade != nil {
		cfg.CanDowngrade = *p.CanDowngrade
	}
	if p.AlwaysDownload != nil {
		cfg.AlwaysDownload = *p.AlwaysDownload
	}
	if p.MissingVersion != nil {
		mv, err := policy.ParseMissingVersion(*p.MissingVersion)
		if err != nil {
			return err
		}
		cfg.MissingVersion = mv
	}
	if p.MoveOlderToSubfolder != nil {
		cfg.MoveOlderToSubfolder = *p.MoveOlderToSubfolder
	}
	if p.ExcludeMods != nil {
		cfg.ExcludeMods = append([]string(nil), *p.ExcludeMods...)
	}
	return nil
}
