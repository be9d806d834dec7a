package deps

import "pcbooth/internal/config"

// Requirements builds the binary requirement list for the configured renderer.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "Render bridge",
			Command:     cfg.Renderer.BridgeBinary,
			Description: "Required for scene manipulation and rendering",
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Renderer.FFmpegBinary,
			Description: "Required for assembling animations",
		},
	}
}
