// Package config reads and writes the daemon's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/arcaluminis-raymarch/internal/sdf"
)

type RenderCfg struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	MaxSteps         int     `yaml:"max_steps"`
	MinHitDistance   float64 `yaml:"min_hit_distance"`
	MaxTraceDistance float64 `yaml:"max_trace_distance"`
	TopFade          float64 `yaml:"top_fade"`
	BounceFade       float64 `yaml:"bounce_fade"`
	MaxDepth         int     `yaml:"max_depth"`
	Workers          int     `yaml:"workers"` // 0 = GOMAXPROCS
}

type SceneCfg struct {
	Preset string `yaml:"preset"`
	File   string `yaml:"file,omitempty"` // overrides preset
}

type PostCfg struct {
	ToneMap     string  `yaml:"tonemap"` // "clamp" | "filmic" | "led"
	ExposureEV  float64 `yaml:"exposure_ev"`
	OutputGamma float64 `yaml:"output_gamma"`
}

type SPI struct {
	Dev     string `yaml:"dev"`      // "" = first port
	FreqKHz int    `yaml:"freq_khz"` // e.g. 2500
}

type LayoutCfg struct {
	W          int  `yaml:"w"`
	H          int  `yaml:"h"`
	Serpentine bool `yaml:"serpentine"`
}

type PowerCfg struct {
	BudgetMA float64 `yaml:"budget_ma"`
	WhiteCap float64 `yaml:"white_cap"`
}

type OutputCfg struct {
	Driver string    `yaml:"driver"` // "sim" | "spi" | "console"
	SPI    SPI       `yaml:"spi,omitempty"`
	Layout LayoutCfg `yaml:"layout"`
	Power  PowerCfg  `yaml:"power"`
}

type ServerCfg struct {
	Addr string `yaml:"addr"`
}

type LogCfg struct {
	Level string `yaml:"level"`
}

type Config struct {
	Render RenderCfg   `yaml:"render"`
	FPS    int         `yaml:"fps"`
	Scene  SceneCfg    `yaml:"scene"`
	Camera *[3]float64 `yaml:"camera,omitempty"` // overrides the scene camera
	Post   PostCfg     `yaml:"post"`
	Output OutputCfg   `yaml:"output"`
	Server ServerCfg   `yaml:"server"`
	Show   string      `yaml:"show,omitempty"`
	Log    LogCfg      `yaml:"log"`
}

// Default mirrors the stock raymarcher: a 256x144 frame of the room scene at 30 fps.
func Default() *Config {
	o := sdf.DefaultOptions()
	return &Config{
		Render: RenderCfg{
			Width:            256,
			Height:           144,
			MaxSteps:         o.MaxSteps,
			MinHitDistance:   o.MinHitDistance,
			MaxTraceDistance: o.MaxTraceDistance,
			TopFade:          o.TopFade,
			BounceFade:       o.BounceFade,
			MaxDepth:         o.MaxDepth,
		},
		FPS:   30,
		Scene: SceneCfg{Preset: "room"},
		Post:  PostCfg{ToneMap: "clamp", OutputGamma: 2.2},
		Output: OutputCfg{
			Driver: "sim",
			SPI:    SPI{FreqKHz: 2500},
			Layout: LayoutCfg{W: 16, H: 16, Serpentine: true},
			Power:  PowerCfg{WhiteCap: 3},
		},
		Server: ServerCfg{Addr: ":8080"},
		Log:    LogCfg{Level: "info"},
	}
}

// Options converts the render section to tracer options.
func (c *Config) Options() sdf.Options {
	return sdf.Options{
		MaxSteps:         c.Render.MaxSteps,
		MinHitDistance:   c.Render.MinHitDistance,
		MaxTraceDistance: c.Render.MaxTraceDistance,
		TopFade:          c.Render.TopFade,
		BounceFade:       c.Render.BounceFade,
		MaxDepth:         c.Render.MaxDepth,
	}
}

func (c *Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size %dx%d", c.Render.Width, c.Render.Height)
	}
	if err := c.Options().Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps %d must be positive", c.FPS)
	}
	switch c.Post.ToneMap {
	case "", "clamp", "filmic", "led":
	default:
		return fmt.Errorf("post.tonemap %q: want clamp, filmic or led", c.Post.ToneMap)
	}
	switch c.Output.Driver {
	case "sim", "spi", "console", "none":
	default:
		return fmt.Errorf("output.driver %q: want sim, spi, console or none", c.Output.Driver)
	}
	return nil
}

// Load reads path on top of Default, so missing keys keep their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
