package cmd

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/caedis/vsmod-updater/internal/config"
	"github.com/caedis/vsmod-updater/internal/decision"
	"github.com/caedis/vsmod-updater/internal/logging"
	"github.com/caedis/vsmod-updater/internal/moddb"
	"github.com/caedis/vsmod-updater/internal/modinfo"
	"github.com/caedis/vsmod-updater/internal/policy"
	"github.com/caedis/vsmod-updater/internal/profile"
	"github.com/caedis/vsmod-updater/internal/resolver"
	"github.com/caedis/vsmod-updater/internal/updater"
)

func executeCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(logging.SetConsole(io.Discard))

	dryRun, dryRunAll, noProgress = false, false, false
	onlyQuery, overrideGameVersion, overrideModsDir = "", "", ""
	profileName, logFile, verbose = "", "", false

	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func rewriteDefaultHTTPClient(t *testing.T, server *httptest.Server) func() {
	t.Helper()
	parsed, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("url.Parse failed: %v", err)
	}

	oldClient := http.DefaultClient
	http.DefaultClient = &http.Client{
		Transport: &rewriteHostTransport{
			host: parsed.Host,
			rt:   server.Client().Transport,
		},
	}

	return func() {
		http.DefaultClient = oldClient
	}
}

type rewriteHostTransport struct {
	host string
	rt   http.RoundTripper
}

func (t *rewriteHostTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.URL.Scheme = "http"
	cloned.URL.Host = t.host
	return t.rt.RoundTrip(cloned)
}

func writeModZip(t *testing.T, path, modID, version string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create(modinfo.DescriptorName)
	if err != nil {
		t.Fatalf("zip Create failed: %v", err)
	}
	if err := json.NewEncoder(w).Encode(map[string]string{"modid": modID, "name": "Carry On", "version": version}); err != nil {
		t.Fatalf("encode descriptor failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip Close failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func writeTestConfig(t *testing.T, modsDir, gameVersion string) string {
	t.Helper()
	cfg := config.Default()
	cfg.Path = filepath.Join(t.TempDir(), config.DefaultFile)
	cfg.ModPath = modsDir
	cfg.GameVersion = gameVersion
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return cfg.Path
}

func modDatabase(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/mod/carryon", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"statuscode": "200",
			"mod": map[string]any{
				"releases": []map[string]any{
					{"releaseid": 2, "modversion": "1.2.0", "fileid": 8, "tags": []string{"v1.20.0"}},
					{"releaseid": 1, "modversion": "1.1.0", "fileid": 7, "tags": []string{"v1.19.8"}},
				},
			},
		})
	})
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("carryon " + r.URL.Query().Get("fileid")))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	t.Cleanup(rewriteDefaultHTTPClient(t, server))
	return server
}

func TestUpdateCommandInstallsRelease(t *testing.T) {
	modDatabase(t)
	modsDir := t.TempDir()
	writeModZip(t, filepath.Join(modsDir, "carryon-1.0.0.zip"), "carryon", "1.0.0")
	cfgPath := writeTestConfig(t, modsDir, "1.19.8")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Set(config.KeyAlwaysUpdate, "false"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := executeCLI(t, "--config-file", cfgPath, "update", "--no-progress"); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	entries, err := os.ReadDir(modsDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	var installed, backups []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "Old-") {
			backups = append(backups, e.Name())
			continue
		}
		installed = append(installed, e.Name())
	}
	if len(installed) != 1 || installed[0] != "Carry On - (carryon) - 1.1.0 - v1.19.8.zip" {
		t.Fatalf("installed archives = %v", installed)
	}
	data, err := os.ReadFile(filepath.Join(modsDir, installed[0]))
	if err != nil || string(data) != "carryon 7" {
		t.Fatalf("installed payload = %q, %v", data, err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected one backup folder, got %v", backups)
	}
	if _, err := os.Stat(filepath.Join(modsDir, backups[0], "carryon-1.0.0.zip")); err != nil {
		t.Fatalf("old archive not backed up: %v", err)
	}
}

func TestUpdateCommandGameVersionOverride(t *testing.T) {
	modDatabase(t)
	modsDir := t.TempDir()
	writeModZip(t, filepath.Join(modsDir, "carryon.zip"), "carryon", "1.0.0")
	cfgPath := writeTestConfig(t, modsDir, "1.19.8")

	if err := executeCLI(t, "--config-file", cfgPath, "update", "--dry-run", "--game-version", "1.20.0"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(modsDir, "carryon.zip")); err != nil {
		t.Fatalf("dry run touched the mods folder: %v", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GameVersion != "1.19.8" {
		t.Fatalf("--game-version must not be saved, config has %q", cfg.GameVersion)
	}
}

func TestUpdateCommandMissingModsDir(t *testing.T) {
	cfgPath := writeTestConfig(t, filepath.Join(t.TempDir(), "missing"), "1.19.8")

	err := executeCLI(t, "--config-file", cfgPath, "update")
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing mods dir error, got %v", err)
	}
}

func TestUpdateCommandRequiresGameVersionAndModPath(t *testing.T) {
	var lookups atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lookups.Add(1)
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)
	t.Cleanup(rewriteDefaultHTTPClient(t, server))

	modsDir := t.TempDir()
	writeModZip(t, filepath.Join(modsDir, "carryon.zip"), "carryon", "1.0.0")

	tests := []struct {
		name    string
		content string
	}{
		{"no game version", "ModPath = " + modsDir + "\nAlwaysUpdate = true\n"},
		{"blank game version", "ModPath = " + modsDir + "\nGameVersion =\n"},
		{"blank mod path", "ModPath =\nGameVersion = 1.19.8\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), config.DefaultFile)
			if err := os.WriteFile(cfgPath, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			err := executeCLI(t, "--config-file", cfgPath, "update", "--no-progress")
			if !errors.Is(err, updater.ErrMissingConfig) {
				t.Fatalf("expected ErrMissingConfig, got %v", err)
			}
		})
	}

	if n := lookups.Load(); n != 0 {
		t.Fatalf("mod database was queried %d times", n)
	}
	if _, err := os.Stat(filepath.Join(modsDir, "carryon.zip")); err != nil {
		t.Fatalf("installed archive was touched: %v", err)
	}
}

func TestConfigAndExcludeCommandsPersist(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), config.DefaultFile)

	steps := [][]string{
		{"--config-file", cfgPath, "config", "set", "gameversion", "1.19.8"},
		{"--config-file", cfgPath, "config", "set", "MissingVersion", "skip"},
		{"--config-file", cfgPath, "exclude", "add", "carryon", "betterruins"},
		{"--config-file", cfgPath, "exclude", "remove", "CARRYON"},
	}
	for _, args := range steps {
		if err := executeCLI(t, args...); err != nil {
			t.Fatalf("vsmd %v failed: %v", args, err)
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GameVersion != "1.19.8" || cfg.MissingVersion != policy.Skip {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.ExcludeMods) != 1 || cfg.ExcludeMods[0] != "betterruins" {
		t.Fatalf("ExcludeMods=%v", cfg.ExcludeMods)
	}

	err = executeCLI(t, "--config-file", cfgPath, "config", "set", "AlwaysUpdate", "perhaps")
	if err == nil {
		t.Fatalf("invalid boolean should be rejected")
	}
}

func TestEffectiveConfigLayersProfileAndFlags(t *testing.T) {
	t.Cleanup(func() { overrideGameVersion, overrideModsDir = "", "" })

	cfg := config.Default()
	cfg.GameVersion = "1.18.0"
	cfg.ExcludeMods = []string{"a"}

	gv := "1.19.8"
	excl := []string{"b"}
	p := &profile.Profile{GameVersion: &gv, ExcludeMods: &excl}
	overrideModsDir = "/srv/vs/Mods"

	eff, err := effectiveConfig(cfg, p)
	if err != nil {
		t.Fatalf("effectiveConfig failed: %v", err)
	}
	if eff.GameVersion != "1.19.8" || eff.ModPath != "/srv/vs/Mods" || eff.ExcludeMods[0] != "b" {
		t.Fatalf("unexpected effective config: %+v", eff)
	}
	if cfg.GameVersion != "1.18.0" || cfg.ModPath != "./Mods" || cfg.ExcludeMods[0] != "a" {
		t.Fatalf("source config was modified: %+v", cfg)
	}

	overrideGameVersion = "1.20.0"
	eff, err = effectiveConfig(cfg, p)
	if err != nil {
		t.Fatalf("effectiveConfig failed: %v", err)
	}
	if eff.GameVersion != "1.20.0" {
		t.Fatalf("flag should win over profile, got %q", eff.GameVersion)
	}
}

func TestStatusTable(t *testing.T) {
	result := &updater.PassResult{
		Mods: []updater.ModResult{
			{
				Mod:        modinfo.Mod{ModID: "carryon", Name: "Carry On", Version: "1.0.0"},
				Resolution: resolver.Resolution{Release: moddb.Release{Version: "1.1.0", Created: "2024-03-11 09:12:45"}, Tag: "v1.19.8", Match: resolver.Exact},
				Outcome:    decision.Outcome{Kind: decision.Updated, Reason: decision.ReasonNewer},
			},
			{
				Mod:     modinfo.Mod{ModID: "ghost"},
				Outcome: decision.Outcome{Kind: decision.Skipped, Reason: "not listed on the mod database"},
			},
		},
	}

	out := statusTable(result)
	for _, want := range []string{"Carry On", "1.1.0 (v1.19.8)", "2024-03-11", "Released", "update: " + decision.ReasonNewer, "ghost", "skipped: not listed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status table missing %q:\n%s", want, out)
		}
	}
}
