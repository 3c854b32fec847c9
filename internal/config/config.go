// Package config handles demo configuration loading and management.
package config

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Assets   AssetsConfig   `yaml:"assets"`
	Debug    DebugConfig    `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	MSAA       int  `yaml:"msaa"`       // Multisample count, 0 disables
	Responsive bool `yaml:"responsive"` // Follow window resizes
}

// SceneConfig holds scene composition switches.
type SceneConfig struct {
	AttachPointLight bool `yaml:"attach_point_light"`
}

// AssetsConfig holds asset locations and environment baking settings.
type AssetsConfig struct {
	StyleSheet       string  `yaml:"style_sheet"`
	TexturesDir      string  `yaml:"textures_dir"`
	Environment      string  `yaml:"environment"` // HDR file inside TexturesDir
	CubeSize         int     `yaml:"cube_size"`
	PrefilterSamples int     `yaml:"prefilter_samples"`
	OrangePeel       float64 `yaml:"orange_peel"`
	FlakesSeed       int64   `yaml:"flakes_seed"` // 0 picks a time based seed
}

// DebugConfig holds developer tooling settings.
type DebugConfig struct {
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			MSAA:       4,
			Responsive: false,
		},
		Scene: SceneConfig{
			AttachPointLight: false,
		},
		Assets: AssetsConfig{
			StyleSheet:       "styles/app.yaml",
			TexturesDir:      "textures",
			Environment:      "cayley_interior_1k.hdr",
			CubeSize:         256,
			PrefilterSamples: 64,
			OrangePeel:       0.03,
		},
		Debug: DebugConfig{
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
