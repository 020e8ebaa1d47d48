package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lixenwraith/fleetview/feed"
	"github.com/lixenwraith/fleetview/globe"
)

// EnvPrefix namespaces environment overrides, e.g. FLEETVIEW_GLOBE_MINSCALE
const EnvPrefix = "FLEETVIEW"

var (
	ErrInvalidScale    = errors.New("invalid globe scale bounds")
	ErrInvalidFPS      = errors.New("render fps must be positive")
	ErrInvalidInterval = errors.New("feed interval must be positive")
	ErrInvalidVolume   = errors.New("audio volume outside [0, 1]")
)

// GlobeConfig mirrors globe.Options
type GlobeConfig struct {
	MinScale         float64 `mapstructure:"minScale"`
	MaxScale         float64 `mapstructure:"maxScale"`
	Scale            float64 `mapstructure:"scale"`
	AutoRotateSpeed  float64 `mapstructure:"autoRotateSpeed"`
	DragSensitivity  float64 `mapstructure:"dragSensitivity"`
	PinchSensitivity float64 `mapstructure:"pinchSensitivity"`
	WheelSensitivity float64 `mapstructure:"wheelSensitivity"`
	HitSlack         float64 `mapstructure:"hitSlack"`
	HitCap           float64 `mapstructure:"hitCap"`
}

// Options converts to the globe tuning
func (g GlobeConfig) Options() globe.Options {
	return globe.Options{
		MinScale:         g.MinScale,
		MaxScale:         g.MaxScale,
		Scale:            g.Scale,
		AutoRotateSpeed:  g.AutoRotateSpeed,
		DragSensitivity:  g.DragSensitivity,
		PinchSensitivity: g.PinchSensitivity,
		WheelSensitivity: g.WheelSensitivity,
		HitSlack:         g.HitSlack,
		HitCap:           g.HitCap,
	}
}

// FeedConfig mirrors feed.Options
type FeedConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	Count       int           `mapstructure:"count"`
	Seed        int64         `mapstructure:"seed"`
	Step        float64       `mapstructure:"step"`
	ArrivalKm   float64       `mapstructure:"arrivalKm"`
	SpeedKmh    float64       `mapstructure:"speedKmh"`
	DelayChance float64       `mapstructure:"delayChance"`
	Routing     string        `mapstructure:"routing"`
}

// Options converts to the feed tuning
func (f FeedConfig) Options() feed.Options {
	return feed.Options{
		Interval:    f.Interval,
		Count:       f.Count,
		Seed:        f.Seed,
		Step:        f.Step,
		ArrivalKm:   f.ArrivalKm,
		SpeedKmh:    f.SpeedKmh,
		DelayChance: f.DelayChance,
		Routing:     feed.Routing(f.Routing),
	}
}

// RenderConfig controls frame pacing and color depth
type RenderConfig struct {
	FPS   int    `mapstructure:"fps"`
	Color string `mapstructure:"color"` // auto, truecolor or 256
}

// AudioConfig controls status alerts
type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

// LogsConfig controls the debug log file
type LogsConfig struct {
	Dir       string `mapstructure:"dir"`
	MaxSizeMB int    `mapstructure:"maxSizeMB"`
}

// MetricsConfig controls the prometheus listener, empty Addr disables it
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config is the full dashboard configuration
type Config struct {
	Globe   GlobeConfig       `mapstructure:"globe"`
	Feed    FeedConfig        `mapstructure:"feed"`
	Render  RenderConfig      `mapstructure:"render"`
	Audio   AudioConfig       `mapstructure:"audio"`
	Logs    LogsConfig        `mapstructure:"logs"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
	Debug   bool              `mapstructure:"debug"`
	View    string            `mapstructure:"view"`
	Keys    map[string]string `mapstructure:"keys"`
}

func setDefaults(v *viper.Viper) {
	// Terminal panes are small, so the globe fits the pane by default
	v.SetDefault("globe.minScale", 20.0)
	v.SetDefault("globe.maxScale", 400.0)
	v.SetDefault("globe.scale", 0.0)
	v.SetDefault("globe.autoRotateSpeed", 3.0)
	v.SetDefault("globe.dragSensitivity", 0.5)
	v.SetDefault("globe.pinchSensitivity", 0.5)
	v.SetDefault("globe.wheelSensitivity", 0.1)
	v.SetDefault("globe.hitSlack", 2.0)
	v.SetDefault("globe.hitCap", 10.0)

	v.SetDefault("feed.interval", feed.DefaultInterval)
	v.SetDefault("feed.count", feed.DefaultCount)
	v.SetDefault("feed.seed", 0)
	v.SetDefault("feed.step", feed.DefaultStep)
	v.SetDefault("feed.arrivalKm", feed.DefaultArrivalKm)
	v.SetDefault("feed.speedKmh", feed.DefaultSpeedKmh)
	v.SetDefault("feed.delayChance", 0.0)
	v.SetDefault("feed.routing", string(feed.RoutingLinear))

	v.SetDefault("render.fps", 30)
	v.SetDefault("render.color", "auto")

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.volume", 0.5)

	v.SetDefault("logs.dir", "./logs")
	v.SetDefault("logs.maxSizeMB", 10)

	v.SetDefault("metrics.addr", "")
	v.SetDefault("debug", false)
	v.SetDefault("view", "globe")
	v.SetDefault("keys", map[string]string{})
}

// New returns a viper instance carrying defaults and environment overrides
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (yaml, toml or json by extension) over the defaults
// An empty path uses defaults and environment only
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return Decode(v)
}

// Decode unmarshals and validates the settings held by v
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the dashboard cannot run with
func (c *Config) Validate() error {
	if !(c.Globe.MinScale > 0) || c.Globe.MaxScale < c.Globe.MinScale {
		return fmt.Errorf("%w: min %v max %v", ErrInvalidScale, c.Globe.MinScale, c.Globe.MaxScale)
	}
	if c.Render.FPS <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFPS, c.Render.FPS)
	}
	if c.Feed.Interval <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInterval, c.Feed.Interval)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidVolume, c.Audio.Volume)
	}
	return nil
}

// FrameInterval returns the frame period for the configured fps
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Render.FPS)
}
