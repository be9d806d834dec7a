package testsupport

import (
	"path/filepath"
	"testing"

	"pcbooth/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields, enables the paper_black background, and applies
// any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Settings.RenderDir = filepath.Join(base, "renders")
	cfgVal.Settings.AnimationDir = filepath.Join(base, "animations")
	cfgVal.Backgrounds.List = []string{"paper_black"}
	cfgVal.Ledger.Path = filepath.Join(base, "history.db")
	cfgVal.Scene.FocalRatioAuto = true

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBackgrounds replaces the enabled background list.
func WithBackgrounds(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Backgrounds.List = append([]string(nil), names...)
	}
}

// WithCameras replaces the enabled camera set with the named presets.
func WithCameras(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cameras = config.Cameras{}
		for _, name := range names {
			switch name {
			case "TOP":
				b.cfg.Cameras.Top = true
			case "ISO":
				b.cfg.Cameras.ISO = true
			case "FRONT":
				b.cfg.Cameras.Front = true
			case "LEFT":
				b.cfg.Cameras.Left = true
			case "RIGHT":
				b.cfg.Cameras.Right = true
			case "PHOTO1":
				b.cfg.Cameras.Photo1 = true
			case "PHOTO2":
				b.cfg.Cameras.Photo2 = true
			case "CUSTOM":
				b.cfg.Cameras.Custom = true
			default:
				b.t.Fatalf("unknown camera preset %q", name)
			}
		}
	}
}

// WithPositions replaces the enabled position set.
func WithPositions(top, bottom, rear bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Positions = config.Positions{Top: top, Bottom: bottom, Rear: rear}
	}
}

// WithOutputs replaces the ordered job list.
func WithOutputs(outputs ...map[string]any) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Outputs = outputs
	}
}

// WithThumbnails toggles still and video thumbnails.
func WithThumbnails(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Settings.Thumbnails = enabled
	}
}

// WithImageFormats replaces the still image format list.
func WithImageFormats(formats ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Settings.ImageFormats = append([]string(nil), formats...)
	}
}
