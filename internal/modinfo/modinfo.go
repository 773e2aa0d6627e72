package modinfo

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caedis/vsmod-updater/internal/logging"
	"github.com/tailscale/hujson"
)

// DescriptorName is the metadata file every mod archive carries at its root.
const DescriptorName = "modinfo.json"

var (
	// ErrNoDescriptor means the archive has no modinfo.json.
	ErrNoDescriptor = errors.New("archive has no " + DescriptorName)
	// ErrMissingModID means modinfo.json exists but has no modid.
	ErrMissingModID = errors.New(DescriptorName + " has no modid")
)

// Mod is one installed mod archive.
type Mod struct {
	ModID   string
	Name    string
	Version string
	// Path is the absolute path of the archive. It stops being valid once
	// the archive is moved to a backup folder.
	Path string
}

// Label returns the display name, falling back to the mod id.
func (m Mod) Label() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ModID
}

// descriptor is the subset of modinfo.json we read. encoding/json matches
// keys case-insensitively, so "ModID" and "modid" both land in ModID.
type descriptor struct {
	ModID   string `json:"modid"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Parse decodes a modinfo.json document. Comments and trailing commas are
// accepted, as the game itself accepts them.
func Parse(data []byte) (Mod, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	standard, err := hujson.Standardize(data)
	if err != nil {
		return Mod{}, fmt.Errorf("parsing %s: %w", DescriptorName, err)
	}

	var d descriptor
	if err := json.Unmarshal(standard, &d); err != nil {
		return Mod{}, fmt.Errorf("parsing %s: %w", DescriptorName, err)
	}

	modID := strings.TrimSpace(d.ModID)
	if modID == "" {
		return Mod{}, ErrMissingModID
	}
	return Mod{
		ModID:   modID,
		Name:    strings.TrimSpace(d.Name),
		Version: strings.TrimSpace(d.Version),
	}, nil
}

// ReadArchive opens a mod archive and parses its descriptor.
func ReadArchive(path string) (Mod, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return Mod{}, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer zr.Close()

	var entry *zip.File
	for _, f := range zr.File {
		if strings.EqualFold(f.Name, DescriptorName) {
			entry = f
			break
		}
	}
	if entry == nil {
		return Mod{}, ErrNoDescriptor
	}

	rc, err := entry.Open()
	if err != nil {
		return Mod{}, fmt.Errorf("reading %s from %s: %w", DescriptorName, filepath.Base(path), err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return Mod{}, fmt.Errorf("reading %s from %s: %w", DescriptorName, filepath.Base(path), err)
	}

	mod, err := Parse(data)
	if err != nil {
		return Mod{}, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Mod{}, err
	}
	mod.Path = abs
	return mod, nil
}

// DirScanner reads mod archives from the top level of a mods directory.
type DirScanner struct{}

// Scan returns the mods found in modsDir in file name order. Archives
// without a descriptor are left out silently; unreadable archives and
// descriptors without a modid are left out with a warning.
func (DirScanner) Scan(modsDir string) ([]Mod, error) {
	var mods []Mod
	err := filepath.WalkDir(modsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if path == modsDir {
			return nil
		}
		if d.IsDir() {
			return filepath.SkipDir
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".zip") {
			return nil
		}

		mod, err := ReadArchive(path)
		switch {
		case errors.Is(err, ErrNoDescriptor):
			logging.Debugf("Verbose: archive without %s skipped during scan: %s\n", DescriptorName, d.Name())
			return nil
		case err != nil:
			logging.Warnf("  Skipping %s: %v\n", d.Name(), err)
			return nil
		}

		mods = append(mods, mod)
		logging.Debugf("Verbose: scanned mod %s version=%s file=%s\n", mod.ModID, mod.Version, d.Name())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mods, nil
}
