package config

const (
	defaultProjectExtension = ".kicad_pro"
	defaultRenderDir        = "renders"
	defaultAnimationDir     = "assets/previews"
	defaultSamples          = 200
	defaultFPS              = 25
	defaultImageWidth       = 1920
	defaultImageHeight      = 1080
	defaultVideoWidth       = 1920
	defaultVideoHeight      = 1080
	defaultThumbnailWidth   = 512
	defaultThumbnailHeight  = 288
	defaultBridgeBinary     = "pcbooth-bridge"
	defaultFFmpegBinary     = "ffmpeg"
	defaultLightsColor      = "D0D0D0"
	defaultLightsIntensity  = 1.0
	defaultHDRIIntensity    = 1.0
	defaultFocalRatio       = "auto"
	defaultFocalLength      = 105
	defaultZoomOut          = 1.0
	defaultLedgerPath       = "~/.local/share/pcbooth/history.db"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		Settings: Settings{
			ProjectExtension: defaultProjectExtension,
			RenderDir:        defaultRenderDir,
			AnimationDir:     defaultAnimationDir,
			ImageFormats:     []string{"PNG"},
			VideoFormats:     []string{"MP4"},
		},
		Renderer: Renderer{
			Samples:         defaultSamples,
			FPS:             defaultFPS,
			ImageWidth:      defaultImageWidth,
			ImageHeight:     defaultImageHeight,
			VideoWidth:      defaultVideoWidth,
			VideoHeight:     defaultVideoHeight,
			ThumbnailWidth:  defaultThumbnailWidth,
			ThumbnailHeight: defaultThumbnailHeight,
			BridgeBinary:    defaultBridgeBinary,
			FFmpegBinary:    defaultFFmpegBinary,
		},
		Scene: Scene{
			LightsColor:     defaultLightsColor,
			LightsIntensity: defaultLightsIntensity,
			HDRIIntensity:   defaultHDRIIntensity,
			DepthOfField:    true,
			FocalRatio:      defaultFocalRatio,
			FocalLength:     defaultFocalLength,
			ZoomOut:         defaultZoomOut,
			LEDOn:           true,
			AdjustPosition:  true,
		},
		Backgrounds: Backgrounds{
			List: []string{},
		},
		Cameras: Cameras{
			Top: true,
		},
		Positions: Positions{
			Top: true,
		},
		Ledger: Ledger{
			Enabled: true,
			Path:    defaultLedgerPath,
		},
		Log: Log{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
