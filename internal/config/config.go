package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caedis/vsmod-updater/internal/logging"
	"github.com/caedis/vsmod-updater/internal/policy"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/ini.v1"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "vsmd.cfg"

var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

var loadOptions = ini.LoadOptions{
	Insensitive:         true,
	IgnoreInlineComment: true,
}

// Config is the persisted content of vsmd.cfg.
type Config struct {
	// Path is where Save writes; it is not stored in the file.
	Path string

	ModPath              string
	GameVersion          string
	AlwaysUpdate         bool
	CanDowngrade         bool
	AlwaysDownload       bool
	MissingVersion       policy.MissingVersion
	MoveOlderToSubfolder bool
	ExcludeMods          []string
}

// Default returns the configuration written when no file exists yet.
func Default() *Config {
	def := policy.Default()
	return &Config{
		ModPath:              "./Mods",
		GameVersion:          def.GameVersion,
		AlwaysUpdate:         def.AlwaysUpdateToNewest,
		CanDowngrade:         def.CanDowngrade,
		AlwaysDownload:       def.AlwaysDownload,
		MissingVersion:       def.MissingVersion,
		MoveOlderToSubfolder: def.MoveOlderToSubfolder,
	}
}

// Load reads path. A missing file is created with defaults. In an existing
// file a missing or blank ModPath or GameVersion stays empty so the pass
// refuses to run; other values that cannot be parsed keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.Path = path

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		logging.Infof("No %s found, writing defaults to %s\n", DefaultFile, path)
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	sec := f.Section("")

	cfg.ModPath = strings.TrimSpace(sec.Key(KeyModPath).String())
	cfg.GameVersion = strings.TrimSpace(sec.Key(KeyGameVersion).String())
	cfg.AlwaysUpdate = sec.Key(KeyAlwaysUpdate).MustBool(cfg.AlwaysUpdate)
	cfg.CanDowngrade = sec.Key(KeyCanDowngrade).MustBool(cfg.CanDowngrade)
	cfg.AlwaysDownload = sec.Key(KeyAlwaysDownload).MustBool(cfg.AlwaysDownload)
	cfg.MoveOlderToSubfolder = sec.Key(KeyMoveOlderToSubfolder).MustBool(cfg.MoveOlderToSubfolder)

	if raw := sec.Key(KeyMissingVersion).String(); raw != "" {
		mv, err := policy.ParseMissingVersion(raw)
		if err != nil {
			logging.Warnf("%s: %v, using %q\n", path, err, cfg.MissingVersion)
		} else {
			cfg.MissingVersion = mv
		}
	}
	cfg.ExcludeMods = splitList(sec.Key(KeyExcludeMods).String())

	logging.Debugf("Verbose: loaded config %s mod-path=%q game-version=%q\n", path, cfg.ModPath, cfg.GameVersion)
	return cfg, nil
}

// Save rewrites the whole file.
func (c *Config) Save() error {
	f := ini.Empty()
	sec := f.Section("")
	for _, key := range Keys() {
		value, _ := c.Get(key)
		if _, err := sec.NewKey(key, value); err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
	}

	if dir := filepath.Dir(c.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := f.SaveTo(c.Path); err != nil {
		return fmt.Errorf("writing %s: %w", c.Path, err)
	}
	return nil
}

// Get returns the file representation of key.
func (c *Config) Get(key string) (string, error) {
	field, ok := LookupField(key)
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	switch field.Key {
	case KeyModPath:
		return c.ModPath, nil
	case KeyGameVersion:
		return c.GameVersion, nil
	case KeyAlwaysUpdate:
		return strconv.FormatBool(c.AlwaysUpdate), nil
	case KeyCanDowngrade:
		return strconv.FormatBool(c.CanDowngrade), nil
	case KeyAlwaysDownload:
		return strconv.FormatBool(c.AlwaysDownload), nil
	case KeyMissingVersion:
		return c.MissingVersion.String(), nil
	case KeyMoveOlderToSubfolder:
		return strconv.FormatBool(c.MoveOlderToSubfolder), nil
	default:
		return strings.Join(c.ExcludeMods, ", "), nil
	}
}

// Set validates and assigns value, then saves the file.
func (c *Config) Set(key, value string) error {
	if err := c.assign(key, value); err != nil {
		return err
	}
	return c.Save()
}

func (c *Config) assign(key, value string) error {
	field, ok := LookupField(key)
	if !ok {
		return fmt.Errorf("%w %q (known keys: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	value = strings.TrimSpace(value)

	switch field.Type {
	case FieldText:
		if value == "" {
			return fmt.Errorf("%w: %s cannot be blank", ErrInvalidValue, field.Key)
		}
	case FieldBool:
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s wants true or false, got %q", ErrInvalidValue, field.Key, value)
		}
		value = strconv.FormatBool(b)
	}

	switch field.Key {
	case KeyModPath:
		c.ModPath = value
	case KeyGameVersion:
		c.GameVersion = value
	case KeyAlwaysUpdate:
		c.AlwaysUpdate = value == "true"
	case KeyCanDowngrade:
		c.CanDowngrade = value == "true"
	case KeyAlwaysDownload:
		c.AlwaysDownload = value == "true"
	case KeyMoveOlderToSubfolder:
		c.MoveOlderToSubfolder = value == "true"
	case KeyMissingVersion:
		mv, err := policy.ParseMissingVersion(value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		c.MissingVersion = mv
	case KeyExcludeMods:
		c.ExcludeMods = splitList(value)
	}
	return nil
}

// Policy returns the update policy described by the file.
func (c *Config) Policy() policy.Policy {
	return policy.Policy{
		GameVersion:          c.GameVersion,
		AlwaysUpdateToNewest: c.AlwaysUpdate,
		CanDowngrade:         c.CanDowngrade,
		AlwaysDownload:       c.AlwaysDownload,
		MissingVersion:       c.MissingVersion,
		MoveOlderToSubfolder: c.MoveOlderToSubfolder,
	}
}

// ModsDir resolves ModPath to an absolute directory, expanding a leading ~.
// A blank ModPath resolves to "".
func (c *Config) ModsDir() (string, error) {
	raw := strings.TrimSpace(c.ModPath)
	if raw == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(raw)
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", KeyModPath, err)
	}
	return filepath.Abs(expanded)
}

// AddExcludes appends ids not already excluded and returns the ones added.
func (c *Config) AddExcludes(ids ...string) []string {
	var added []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || c.IsExcluded(id) {
			continue
		}
		c.ExcludeMods = append(c.ExcludeMods, id)
		added = append(added, id)
	}
	return added
}

// RemoveExcludes drops ids from the exclude list and returns the ones removed.
func (c *Config) RemoveExcludes(ids ...string) []string {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[strings.ToLower(strings.TrimSpace(id))] = true
	}

	var kept, removed []string
	for _, id := range c.ExcludeMods {
		if drop[strings.ToLower(id)] {
			removed = append(removed, id)
			continue
		}
		kept = append(kept, id)
	}
	c.ExcludeMods = kept
	return removed
}

// IsExcluded reports whether modID is on the exclude list.
func (c *Config) IsExcluded(modID string) bool {
	for _, id := range c.ExcludeMods {
		if strings.EqualFold(id, modID) {
			return true
		}
	}
	return false
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}
