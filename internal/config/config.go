package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Settings contains project-level output configuration.
type Settings struct {
	ProjectExtension string   `toml:"project_extension"`
	RenderDir        string   `toml:"render_dir"`
	AnimationDir     string   `toml:"animation_dir"`
	ImageFormats     []string `toml:"image_format"`
	VideoFormats     []string `toml:"video_format"`
	Thumbnails       bool     `toml:"thumbnails"`
	KeepFrames       bool     `toml:"keep_frames"`
	SaveScene        bool     `toml:"save_scene"`
}

// Renderer contains render engine and encoder dimensions and binaries.
type Renderer struct {
	Samples         int    `toml:"samples"`
	FPS             int    `toml:"fps"`
	ImageWidth      int    `toml:"image_width"`
	ImageHeight     int    `toml:"image_height"`
	VideoWidth      int    `toml:"video_width"`
	VideoHeight     int    `toml:"video_height"`
	ThumbnailWidth  int    `toml:"thumbnail_width"`
	ThumbnailHeight int    `toml:"thumbnail_height"`
	BridgeBinary    string `toml:"bridge_binary"`
	FFmpegBinary    string `toml:"ffmpeg_binary"`
}

// Scene contains lighting, camera optics, and rendered-object selection.
type Scene struct {
	LightsColor     string  `toml:"lights_color"`
	LightsIntensity float64 `toml:"lights_intensity"`
	HDRIIntensity   float64 `toml:"hdri_intensity"`
	DepthOfField    bool    `toml:"depth_of_field"`
	FocalRatio      string  `toml:"focal_ratio"`
	FocalLength     float64 `toml:"focal_length"`
	ZoomOut         float64 `toml:"zoom_out"`
	LEDOn           bool    `toml:"led_on"`
	AdjustPosition  bool    `toml:"adjust_pos"`
	OrthoCam        bool    `toml:"ortho_cam"`
	RenderedObject  string  `toml:"rendered_object"`

	// Derived during normalization.
	FocalRatioAuto     bool    `toml:"-"`
	FocalRatioValue    float64 `toml:"-"`
	RenderedObjectKind string  `toml:"-"`
	RenderedObjectName string  `toml:"-"`
}

// Backgrounds lists the enabled background asset names.
type Backgrounds struct {
	List []string `toml:"list"`
}

// Cameras contains the enable switches for the preset camera rig.
type Cameras struct {
	Top    bool `toml:"top"`
	ISO    bool `toml:"iso"`
	Front  bool `toml:"front"`
	Left   bool `toml:"left"`
	Right  bool `toml:"right"`
	Photo1 bool `toml:"photo1"`
	Photo2 bool `toml:"photo2"`
	Custom bool `toml:"custom"`
}

// Positions contains the enable switches for board orientations.
type Positions struct {
	Top    bool `toml:"top"`
	Bottom bool `toml:"bottom"`
	Rear   bool `toml:"rear"`
}

// Ledger contains run history bookkeeping configuration.
type Ledger struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Log contains configuration for log output.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// JobEntry is one resolved element of the ordered job list.
type JobEntry struct {
	Name   string
	Params map[string]any
}

// Config encapsulates all configuration values for pcbooth.
//
// Configuration sections by subsystem:
//   - Settings: output directories, image/video format lists, artifact switches
//   - Renderer: render/encode dimensions, sampling, external binaries
//   - Scene: lights, camera optics, rendered-object override
//   - Backgrounds/Cameras/Positions: the enabled cross-product dimensions
//   - Outputs: the ordered job list with per-job raw parameters
//   - Ledger: run history database
//   - Log: log format, level, optional file sink
//
// A [presets.<name>] table overlays any subset of the above when the preset
// is selected at load time; scalar and list values replace, tables merge.
type Config struct {
	Settings    Settings         `toml:"settings"`
	Renderer    Renderer         `toml:"renderer"`
	Scene       Scene            `toml:"scene"`
	Backgrounds Backgrounds      `toml:"backgrounds"`
	Cameras     Cameras          `toml:"cameras"`
	Positions   Positions        `toml:"positions"`
	Outputs     []map[string]any `toml:"outputs"`
	Ledger      Ledger           `toml:"ledger"`
	Log         Log              `toml:"log"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/pcbooth/config.toml")
}

// Load locates, parses, and validates a configuration file, applying the named
// preset overlay when preset is non-empty. The returned config has all path
// fields expanded and normalized.
func Load(path, preset string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		merged, err := overlayPreset(data, preset)
		if err != nil {
			return nil, "", false, err
		}
		if err := toml.Unmarshal(merged, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	} else if preset != "" {
		return nil, "", false, fmt.Errorf("preset %q requested but no config file found", preset)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// overlayPreset parses the raw document, strips the presets table, and merges
// the selected preset over the base sections. Nested tables merge key by key;
// scalars and arrays replace wholesale.
func overlayPreset(data []byte, preset string) ([]byte, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	presets, _ := raw["presets"].(map[string]any)
	delete(raw, "presets")

	if preset != "" {
		overlay, ok := presets[preset].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("preset %q not defined in config", preset)
		}
		mergeTables(raw, overlay)
	}

	merged, err := toml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("apply preset: %w", err)
	}
	return merged, nil
}

func mergeTables(dst, src map[string]any) {
	for key, value := range src {
		srcTable, srcIsTable := value.(map[string]any)
		dstTable, dstIsTable := dst[key].(map[string]any)
		if srcIsTable && dstIsTable {
			mergeTables(dstTable, srcTable)
			continue
		}
		dst[key] = value
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("booth.toml")
	if err != nil {
		return "", false, err
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return projectPath, false, nil
}

// JobEntries returns the ordered job list from the outputs array. Each entry
// keeps the raw parameter mapping minus the job key itself.
func (c *Config) JobEntries() []JobEntry {
	entries := make([]JobEntry, 0, len(c.Outputs))
	for _, output := range c.Outputs {
		name, _ := output["job"].(string)
		params := make(map[string]any, len(output))
		for key, value := range output {
			if key == "job" {
				continue
			}
			params[key] = value
		}
		entries = append(entries, JobEntry{
			Name:   strings.ToUpper(strings.TrimSpace(name)),
			Params: params,
		})
	}
	return entries
}

// OutputPaths resolves the render and animation directories against the
// directory holding the scene file. Absolute configured paths win.
func (c *Config) OutputPaths(sceneDir string) (rendersDir, animationsDir string) {
	rendersDir = c.Settings.RenderDir
	if !filepath.IsAbs(rendersDir) {
		rendersDir = filepath.Join(sceneDir, rendersDir)
	}
	animationsDir = c.Settings.AnimationDir
	if !filepath.IsAbs(animationsDir) {
		animationsDir = filepath.Join(sceneDir, animationsDir)
	}
	return rendersDir, animationsDir
}

// EnsureOutputDirectories creates the render and animation directories for a run.
func (c *Config) EnsureOutputDirectories(sceneDir string) error {
	renders, animations := c.OutputPaths(sceneDir)
	for _, dir := range []string{renders, animations} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	pathValue = os.ExpandEnv(pathValue)
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
