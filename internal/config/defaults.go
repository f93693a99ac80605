package config

const (
	defaultMediaDir            = "~/media"
	defaultVideosDir           = "~/.local/share/clipforge/videos"
	defaultLogDir              = "~/.local/share/clipforge/logs"
	defaultImageClipSeconds    = 3
	defaultFrameWidth          = 1080
	defaultFrameHeight         = 1920
	defaultFrameRate           = 30
	defaultCRF                 = 18
	defaultPreset              = "slow"
	defaultMinFreeGiB          = 1
	defaultConfidenceThreshold = 0.5
	defaultMaxClassifications  = 5
	defaultTrendingSampleSize  = 3
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MediaDir:  defaultMediaDir,
			VideosDir: defaultVideosDir,
			LogDir:    defaultLogDir,
		},
		Render: Render{
			ImageClipSeconds: defaultImageClipSeconds,
			FrameWidth:       defaultFrameWidth,
			FrameHeight:      defaultFrameHeight,
			FrameRate:        defaultFrameRate,
			CRF:              defaultCRF,
			Preset:           defaultPreset,
			MinFreeGiB:       defaultMinFreeGiB,
		},
		Analysis: Analysis{
			ConfidenceThreshold: defaultConfidenceThreshold,
			MaxClassifications:  defaultMaxClassifications,
			TrendingSampleSize:  defaultTrendingSampleSize,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
