package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var renderedObjectPattern = regexp.MustCompile(`^(?i)(collection|object)([^\w\s])(.+)$`)

func (c *Config) normalize() error {
	if err := c.normalizeSettings(); err != nil {
		return err
	}
	c.normalizeRenderer()
	if err := c.normalizeScene(); err != nil {
		return err
	}
	c.normalizeBackgrounds()
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	if err := c.normalizeLog(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeSettings() error {
	c.Settings.ProjectExtension = strings.TrimSpace(c.Settings.ProjectExtension)
	if c.Settings.ProjectExtension == "" {
		c.Settings.ProjectExtension = defaultProjectExtension
	}
	if !strings.HasPrefix(c.Settings.ProjectExtension, ".") {
		c.Settings.ProjectExtension = "." + c.Settings.ProjectExtension
	}
	c.Settings.RenderDir = strings.TrimSpace(c.Settings.RenderDir)
	if c.Settings.RenderDir == "" {
		c.Settings.RenderDir = defaultRenderDir
	}
	c.Settings.AnimationDir = strings.TrimSpace(c.Settings.AnimationDir)
	if c.Settings.AnimationDir == "" {
		c.Settings.AnimationDir = defaultAnimationDir
	}
	c.Settings.ImageFormats = normalizeFormats(c.Settings.ImageFormats)
	c.Settings.VideoFormats = normalizeFormats(c.Settings.VideoFormats)
	return nil
}

// normalizeFormats uppercases, trims, folds common aliases, and deduplicates
// while preserving order.
func normalizeFormats(formats []string) []string {
	normalized := make([]string, 0, len(formats))
	seen := make(map[string]struct{}, len(formats))
	for _, format := range formats {
		name := strings.ToUpper(strings.TrimSpace(format))
		switch name {
		case "":
			continue
		case "JPG":
			name = "JPEG"
		case "TIF":
			name = "TIFF"
		}
		if _, exists := seen[name]; exists {
			continue
		}
		seen[name] = struct{}{}
		normalized = append(normalized, name)
	}
	return normalized
}

func (c *Config) normalizeRenderer() {
	c.Renderer.BridgeBinary = strings.TrimSpace(c.Renderer.BridgeBinary)
	if c.Renderer.BridgeBinary == "" {
		c.Renderer.BridgeBinary = defaultBridgeBinary
	}
	c.Renderer.FFmpegBinary = strings.TrimSpace(c.Renderer.FFmpegBinary)
	if c.Renderer.FFmpegBinary == "" {
		c.Renderer.FFmpegBinary = defaultFFmpegBinary
	}
}

func (c *Config) normalizeScene() error {
	c.Scene.LightsColor = normalizeHexColor(c.Scene.LightsColor)
	if c.Scene.LightsColor == "" {
		c.Scene.LightsColor = defaultLightsColor
	}

	c.Scene.FocalRatio = strings.ToLower(strings.TrimSpace(c.Scene.FocalRatio))
	if c.Scene.FocalRatio == "" {
		c.Scene.FocalRatio = defaultFocalRatio
	}
	auto, value, err := parseFocalRatio(c.Scene.FocalRatio)
	if err != nil {
		return fmt.Errorf("scene.focal_ratio: %w", err)
	}
	c.Scene.FocalRatioAuto = auto
	c.Scene.FocalRatioValue = value

	c.Scene.RenderedObject = strings.TrimSpace(c.Scene.RenderedObject)
	c.Scene.RenderedObjectKind = ""
	c.Scene.RenderedObjectName = ""
	if c.Scene.RenderedObject != "" {
		match := renderedObjectPattern.FindStringSubmatch(c.Scene.RenderedObject)
		if match == nil {
			return fmt.Errorf("scene.rendered_object must look like \"Object:Name\" or \"Collection:Name\", got %q", c.Scene.RenderedObject)
		}
		c.Scene.RenderedObjectKind = strings.ToLower(match[1])
		c.Scene.RenderedObjectName = match[3]
	}
	return nil
}

// normalizeHexColor strips an optional leading # and uppercases the digits.
func normalizeHexColor(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "#")
	return strings.ToUpper(value)
}

// parseFocalRatio accepts "auto", a positive number, or a fraction such as
// "1/18" or "f/2.8".
func parseFocalRatio(value string) (auto bool, ratio float64, err error) {
	if value == "auto" {
		return true, 0, nil
	}
	if numerator, denominator, found := strings.Cut(value, "/"); found {
		den, convErr := strconv.ParseFloat(strings.TrimSpace(denominator), 64)
		if convErr != nil || den <= 0 {
			return false, 0, fmt.Errorf("invalid fraction %q", value)
		}
		num := 1.0
		if trimmed := strings.TrimSpace(numerator); trimmed != "" && trimmed != "f" {
			num, convErr = strconv.ParseFloat(trimmed, 64)
			if convErr != nil || num <= 0 {
				return false, 0, fmt.Errorf("invalid fraction %q", value)
			}
		}
		return false, num / den, nil
	}
	ratio, convErr := strconv.ParseFloat(value, 64)
	if convErr != nil || ratio <= 0 {
		return false, 0, fmt.Errorf("must be \"auto\", a positive number, or a fraction, got %q", value)
	}
	return false, ratio, nil
}

func (c *Config) normalizeBackgrounds() {
	backgrounds := make([]string, 0, len(c.Backgrounds.List))
	seen := make(map[string]struct{}, len(c.Backgrounds.List))
	for _, name := range c.Backgrounds.List {
		normalized := strings.TrimSpace(name)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		backgrounds = append(backgrounds, normalized)
	}
	c.Backgrounds.List = backgrounds
}

func (c *Config) normalizeLedger() error {
	var err error
	if strings.TrimSpace(c.Ledger.Path) == "" {
		c.Ledger.Path = defaultLedgerPath
	}
	if c.Ledger.Path, err = expandPath(c.Ledger.Path); err != nil {
		return fmt.Errorf("ledger.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLog() error {
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch c.Log.Format {
	case "", "console":
		c.Log.Format = "console"
	case "json":
	default:
		c.Log.Format = "console"
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Log.File) != "" {
		expanded, err := expandPath(c.Log.File)
		if err != nil {
			return fmt.Errorf("log.file: %w", err)
		}
		c.Log.File = expanded
	} else {
		c.Log.File = ""
	}
	return nil
}
