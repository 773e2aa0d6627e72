package publish

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caedis/vsmod-updater/internal/decision"
	"github.com/caedis/vsmod-updater/internal/logging"
	"github.com/caedis/vsmod-updater/internal/moddb"
	"github.com/caedis/vsmod-updater/internal/modinfo"
	"github.com/caedis/vsmod-updater/internal/policy"
)

const (
	// MaxNameAttempts bounds the collision search for a free file name.
	MaxNameAttempts = 10000

	StampLayout  = "2006-01-02_15-04-05"
	BackupPrefix = "Old-"
	OlderPrefix  = "Older-"
	archiveExt   = ".zip"
)

var (
	// ErrNameSpaceExhausted means every numbered variant of the file name is taken.
	ErrNameSpaceExhausted = errors.New("no free file name left")
	// ErrBackup means the installed archive could not be moved to the backup folder.
	ErrBackup = errors.New("backing up installed archive")
	// ErrWrite means the downloaded archive could not be written.
	ErrWrite = errors.New("writing downloaded archive")
)

var pathReplacer = strings.NewReplacer(":", ";", "/", "-", "\\", "-")

// WriteResult describes what Publish did on disk.
type WriteResult struct {
	// Path is the new archive, empty when nothing was written.
	Path string
	// BackupPath is where the previous archive went, empty when none was moved.
	BackupPath string
	// Renamed is set when a numbered name was used to avoid a collision.
	Renamed bool
}

// Publisher writes downloaded archives into a mods directory. One Publisher
// serves one update pass so every mod shares the same dated folders.
type Publisher struct {
	ModsDir     string
	Stamp       string
	MaxAttempts int
}

// New returns a Publisher whose backup folders are named after passStart.
func New(modsDir string, passStart time.Time) *Publisher {
	return &Publisher{
		ModsDir:     modsDir,
		Stamp:       passStart.Format(StampLayout),
		MaxAttempts: MaxNameAttempts,
	}
}

// BackupDir is where replaced archives are moved during this pass.
func (p *Publisher) BackupDir() string {
	return filepath.Join(p.ModsDir, BackupPrefix+p.Stamp)
}

// OlderDir receives releases resolved for an older game version when
// MoveOlderToSubfolder is set.
func (p *Publisher) OlderDir() string {
	return filepath.Join(p.ModsDir, OlderPrefix+p.Stamp)
}

// FileName builds "{name} - ({modid}) - {version} - {tag}.zip" with
// path-hostile characters replaced.
func FileName(mod modinfo.Mod, rel moddb.Release) string {
	base := fmt.Sprintf("%s - (%s) - %s - %s", mod.Label(), mod.ModID, rel.Version, rel.PrimaryTag())
	return pathReplacer.Replace(base) + archiveExt
}

// Publish installs payload for mod when outcome is Updated and does nothing
// otherwise.
//
// The payload is staged next to its destination first, then the installed
// archive is moved to BackupDir, then the staged file is linked under the
// first free name. When no name can be taken the backup is moved back, so a
// failed publish leaves the installed archive where it was. A crash leaves
// at most a stray staging file.
func (p *Publisher) Publish(mod modinfo.Mod, outcome decision.Outcome, payload []byte, resolvedBelow bool, pol policy.Policy) (WriteResult, error) {
	var result WriteResult
	if outcome.Kind != decision.Updated {
		return result, nil
	}

	destDir := p.ModsDir
	if resolvedBelow && pol.MoveOlderToSubfolder {
		destDir = p.OlderDir()
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return result, fmt.Errorf("%w: creating %s: %w", ErrWrite, destDir, err)
	}

	staged, err := stage(destDir, payload)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer os.Remove(staged)

	if mod.Path != "" {
		backupPath, err := p.backup(mod.Path)
		if err != nil {
			return result, fmt.Errorf("%w %s: %w", ErrBackup, filepath.Base(mod.Path), err)
		}
		result.BackupPath = backupPath
		logging.Debugf("Verbose: moved %s to %s\n", filepath.Base(mod.Path), backupPath)
	}

	name := FileName(mod, outcome.Release)
	finalPath, renamed, err := p.place(staged, destDir, name)
	if err != nil {
		if result.BackupPath != "" {
			if rerr := os.Rename(result.BackupPath, mod.Path); rerr != nil {
				logging.Errorf("Could not restore %s from %s: %v\n", filepath.Base(mod.Path), result.BackupPath, rerr)
				return result, fmt.Errorf("%w (restoring backup: %w)", err, rerr)
			}
			logging.Debugf("Verbose: restored %s from backup\n", filepath.Base(mod.Path))
			result.BackupPath = ""
		}
		return result, err
	}
	result.Path = finalPath
	result.Renamed = renamed
	logging.Debugf("Verbose: wrote %s renamed=%t\n", finalPath, renamed)
	return result, nil
}

// backup moves src into BackupDir, replacing a same-named file there.
func (p *Publisher) backup(src string) (string, error) {
	dir := p.BackupDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(dir, filepath.Base(src))
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return "", err
	}
	if err := os.Rename(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (p *Publisher) place(staged, dir, name string) (string, bool, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = MaxNameAttempts
	}

	for i := 0; i < attempts; i++ {
		candidate := filepath.Join(dir, numbered(name, i))
		err := linkNoReplace(staged, candidate)
		if err == nil {
			return candidate, i > 0, nil
		}
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return "", false, fmt.Errorf("%w %s: %w", ErrWrite, filepath.Base(candidate), err)
	}
	return "", false, fmt.Errorf("%w for %q after %d attempts", ErrNameSpaceExhausted, name, attempts)
}

// numbered returns name for n == 0 and "base (n).zip" otherwise.
func numbered(name string, n int) string {
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), n, ext)
}

// stage writes payload to a hidden temporary file in dir and syncs it.
func stage(dir string, payload []byte) (string, error) {
	f, err := os.CreateTemp(dir, ".vsmd-*.tmp")
	if err != nil {
		return "", err
	}
	tmpPath := f.Name()

	_, err = f.Write(payload)
	if err == nil {
		err = f.Sync()
	}
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}

// linkNoReplace makes src visible at dst without ever replacing an existing
// dst. Hard links give that atomically; filesystems without them fall back
// to a check followed by a rename.
func linkNoReplace(src, dst string) error {
	err := os.Link(src, dst)
	if err == nil || errors.Is(err, fs.ErrExist) {
		return err
	}

	if _, statErr := os.Lstat(dst); statErr == nil {
		return fs.ErrExist
	}
	return os.Rename(src, dst)
}
