package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"pcbooth/internal/config"
)

// chdir mirrors testing.T.Chdir (added in a later Go release): it changes
// the working directory and restores the original one on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	chdir(t, t.TempDir())

	cfg, resolved, exists, err := config.Load("", "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Settings.RenderDir != "renders" {
		t.Fatalf("unexpected render dir: %q", cfg.Settings.RenderDir)
	}
	if got := cfg.Settings.ImageFormats; len(got) != 1 || got[0] != "PNG" {
		t.Fatalf("unexpected image formats: %v", got)
	}
	if got := cfg.Settings.VideoFormats; len(got) != 1 || got[0] != "MP4" {
		t.Fatalf("unexpected video formats: %v", got)
	}
	if cfg.Renderer.Samples != 200 {
		t.Fatalf("unexpected samples: %d", cfg.Renderer.Samples)
	}
	if cfg.Renderer.FFmpegBinary != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.Renderer.FFmpegBinary)
	}
	if !cfg.Cameras.Top || cfg.Cameras.ISO {
		t.Fatalf("unexpected camera switches: %+v", cfg.Cameras)
	}
	if !cfg.Positions.Top || cfg.Positions.Bottom {
		t.Fatalf("unexpected position switches: %+v", cfg.Positions)
	}
	if !cfg.Scene.FocalRatioAuto {
		t.Fatal("expected focal ratio to default to auto")
	}
	if !cfg.Scene.DepthOfField || !cfg.Scene.LEDOn || !cfg.Scene.AdjustPosition {
		t.Fatalf("unexpected scene switches: %+v", cfg.Scene)
	}
	wantLedger := filepath.Join(tempHome, ".local", "share", "pcbooth", "history.db")
	if cfg.Ledger.Path != wantLedger {
		t.Fatalf("unexpected ledger path: got %q want %q", cfg.Ledger.Path, wantLedger)
	}
	if cfg.Log.Format != "console" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected log settings: %+v", cfg.Log)
	}
}

func TestLoadProjectFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	chdir(t, tempDir)

	contents := "[renderer]\nsamples = 64\n"
	if err := os.WriteFile(filepath.Join(tempDir, "booth.toml"), []byte(contents), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("", "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected project booth.toml to be found")
	}
	if filepath.Base(resolved) != "booth.toml" {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Renderer.Samples != 64 {
		t.Fatalf("expected samples override, got %d", cfg.Renderer.Samples)
	}
	if cfg.Renderer.FPS != 25 {
		t.Fatalf("expected default fps to survive partial file, got %d", cfg.Renderer.FPS)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "booth.toml")

	type payload struct {
		Settings struct {
			ImageFormats []string `toml:"image_format"`
			Thumbnails   bool     `toml:"thumbnails"`
		} `toml:"settings"`
		Scene struct {
			LightsColor    string `toml:"lights_color"`
			FocalRatio     string `toml:"focal_ratio"`
			RenderedObject string `toml:"rendered_object"`
		} `toml:"scene"`
		Backgrounds struct {
			List []string `toml:"list"`
		} `toml:"backgrounds"`
	}
	custom := payload{}
	custom.Settings.ImageFormats = []string{"png", "jpg", "png"}
	custom.Settings.Thumbnails = true
	custom.Scene.LightsColor = "#aabbcc"
	custom.Scene.FocalRatio = "1/18"
	custom.Scene.RenderedObject = "Collection:Enclosure"
	custom.Backgrounds.List = []string{"paper_black", "", "paper_black"}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if got := cfg.Settings.ImageFormats; len(got) != 2 || got[0] != "PNG" || got[1] != "JPEG" {
		t.Fatalf("expected formats folded and deduplicated, got %v", got)
	}
	if !cfg.Settings.Thumbnails {
		t.Fatal("expected thumbnails enabled")
	}
	if cfg.Scene.LightsColor != "AABBCC" {
		t.Fatalf("expected color normalized, got %q", cfg.Scene.LightsColor)
	}
	if cfg.Scene.FocalRatioAuto {
		t.Fatal("expected explicit focal ratio")
	}
	if want := 1.0 / 18.0; cfg.Scene.FocalRatioValue != want {
		t.Fatalf("unexpected focal ratio value: got %v want %v", cfg.Scene.FocalRatioValue, want)
	}
	if cfg.Scene.RenderedObjectKind != "collection" || cfg.Scene.RenderedObjectName != "Enclosure" {
		t.Fatalf("unexpected rendered object: kind=%q name=%q", cfg.Scene.RenderedObjectKind, cfg.Scene.RenderedObjectName)
	}
	if got := cfg.Backgrounds.List; len(got) != 1 || got[0] != "paper_black" {
		t.Fatalf("expected backgrounds deduplicated, got %v", got)
	}
}

func TestLoadPresetOverlay(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "booth.toml")

	contents := strings.Join([]string{
		"[scene]",
		"hdri_intensity = 1.5",
		"led_on = false",
		"",
		"[backgrounds]",
		"list = [\"paper_black\"]",
		"",
		"[presets.space.backgrounds]",
		"list = [\"hdri_space\"]",
		"",
		"[presets.space.scene]",
		"hdri_intensity = 3.0",
		"",
	}, "\n")
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath, "space")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := cfg.Backgrounds.List; len(got) != 1 || got[0] != "hdri_space" {
		t.Fatalf("expected preset backgrounds, got %v", got)
	}
	if cfg.Scene.HDRIIntensity != 3.0 {
		t.Fatalf("expected preset hdri intensity, got %v", cfg.Scene.HDRIIntensity)
	}
	if cfg.Scene.LEDOn {
		t.Fatal("expected base scene values to survive preset table merge")
	}

	if _, _, _, err := config.Load(configPath, "missing"); err == nil {
		t.Fatal("expected error for undefined preset")
	}

	cfg, _, _, err = config.Load(configPath, "")
	if err != nil {
		t.Fatalf("Load without preset returned error: %v", err)
	}
	if got := cfg.Backgrounds.List; len(got) != 1 || got[0] != "paper_black" {
		t.Fatalf("expected base backgrounds without preset, got %v", got)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tempDir := t.TempDir()

	write := func(name, contents string) string {
		path := filepath.Join(tempDir, name)
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		return path
	}

	cases := []struct {
		name     string
		contents string
	}{
		{"image_format.toml", "[settings]\nimage_format = [\"EXR\"]\n"},
		{"samples.toml", "[renderer]\nsamples = 0\n"},
		{"color.toml", "[scene]\nlights_color = \"red\"\n"},
		{"focal.toml", "[scene]\nfocal_ratio = \"nope\"\n"},
		{"object.toml", "[scene]\nrendered_object = \"Enclosure\"\n"},
		{"job.toml", "[[outputs]]\nparams = 1\n"},
		{"level.toml", "[log]\nlevel = \"loud\"\n"},
	}
	for _, tc := range cases {
		path := write(tc.name, tc.contents)
		if _, _, _, err := config.Load(path, ""); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestCreateSampleLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[settings]") {
		t.Fatalf("sample config missing settings section: %s", contents)
	}

	cfg, _, exists, err := config.Load(path, "")
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if got := cfg.Backgrounds.List; len(got) != 1 || got[0] != "paper_black" {
		t.Fatalf("unexpected sample backgrounds: %v", got)
	}
	entries := cfg.JobEntries()
	if len(entries) != 1 || entries[0].Name != "STATIC" {
		t.Fatalf("unexpected sample job entries: %+v", entries)
	}
}

func TestJobEntries(t *testing.T) {
	cfg := config.Default()
	cfg.Outputs = []map[string]any{
		{"job": "static"},
		{"job": " masks ", "FULL": true, "COVERED": false},
	}

	entries := cfg.JobEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "STATIC" || len(entries[0].Params) != 0 {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Name != "MASKS" {
		t.Fatalf("expected job name uppercased and trimmed, got %q", entries[1].Name)
	}
	if full, ok := entries[1].Params["FULL"].(bool); !ok || !full {
		t.Fatalf("expected FULL param retained, got %+v", entries[1].Params)
	}
	if _, ok := entries[1].Params["job"]; ok {
		t.Fatal("expected job key stripped from params")
	}
}

func TestOutputPaths(t *testing.T) {
	cfg := config.Default()
	sceneDir := filepath.Join("/", "projects", "board")

	renders, animations := cfg.OutputPaths(sceneDir)
	if renders != filepath.Join(sceneDir, "renders") {
		t.Fatalf("unexpected renders dir: %q", renders)
	}
	if animations != filepath.Join(sceneDir, "assets", "previews") {
		t.Fatalf("unexpected animations dir: %q", animations)
	}

	cfg.Settings.RenderDir = filepath.Join("/", "srv", "renders")
	renders, _ = cfg.OutputPaths(sceneDir)
	if renders != filepath.Join("/", "srv", "renders") {
		t.Fatalf("expected absolute render dir kept, got %q", renders)
	}
}
