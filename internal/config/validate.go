package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	imageFormats = map[string]struct{}{"PNG": {}, "JPEG": {}, "TIFF": {}, "BMP": {}}
	videoFormats = map[string]struct{}{"WEBM": {}, "MP4": {}, "MPEG": {}, "AVI": {}, "GIF": {}}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSettings(); err != nil {
		return err
	}
	if err := c.validateRenderer(); err != nil {
		return err
	}
	if err := c.validateScene(); err != nil {
		return err
	}
	if err := c.validateOutputs(); err != nil {
		return err
	}
	if err := c.validateLog(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSettings() error {
	for _, format := range c.Settings.ImageFormats {
		if _, ok := imageFormats[format]; !ok {
			return fmt.Errorf("settings.image_format contains unsupported format %q (supported: %s)", format, formatNames(imageFormats))
		}
	}
	for _, format := range c.Settings.VideoFormats {
		if _, ok := videoFormats[format]; !ok {
			return fmt.Errorf("settings.video_format contains unsupported format %q (supported: %s)", format, formatNames(videoFormats))
		}
	}
	return nil
}

func (c *Config) validateRenderer() error {
	return ensurePositiveMap(map[string]int{
		"renderer.samples":          c.Renderer.Samples,
		"renderer.fps":              c.Renderer.FPS,
		"renderer.image_width":      c.Renderer.ImageWidth,
		"renderer.image_height":     c.Renderer.ImageHeight,
		"renderer.video_width":      c.Renderer.VideoWidth,
		"renderer.video_height":     c.Renderer.VideoHeight,
		"renderer.thumbnail_width":  c.Renderer.ThumbnailWidth,
		"renderer.thumbnail_height": c.Renderer.ThumbnailHeight,
	})
}

func (c *Config) validateScene() error {
	if !isHexColor(c.Scene.LightsColor) {
		return fmt.Errorf("scene.lights_color must be a six digit hex color, got %q", c.Scene.LightsColor)
	}
	if c.Scene.LightsIntensity < 0 {
		return errors.New("scene.lights_intensity must be >= 0")
	}
	if c.Scene.HDRIIntensity < 0 {
		return errors.New("scene.hdri_intensity must be >= 0")
	}
	if c.Scene.FocalLength <= 0 {
		return errors.New("scene.focal_length must be positive")
	}
	if c.Scene.ZoomOut <= 0 {
		return errors.New("scene.zoom_out must be positive")
	}
	return nil
}

func (c *Config) validateOutputs() error {
	for index, output := range c.Outputs {
		name, _ := output["job"].(string)
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("outputs[%d].job must be set", index)
		}
	}
	return nil
}

func (c *Config) validateLog() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

func isHexColor(value string) bool {
	if len(value) != 6 {
		return false
	}
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

func formatNames(set map[string]struct{}) string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
