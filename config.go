package drops

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Ranges enforced by the tuning panel and by Tuning.Validate.
var (
	RefractionRange = Range{Min: -2000, Max: 1000}
	FlickerRange    = Range{Min: 0, Max: 50}
	WindRange       = Range{Min: 0, Max: 15}
	DropsRange      = Range{Min: 1, Max: 100}
)

// Tuning holds the live-tunable values. Drops and Background are structural:
// changing either rebuilds the scene.
type Tuning struct {
	Refraction float64 `yaml:"refraction"`
	Flicker    float64 `yaml:"flicker_effect"`
	Wind       float64 `yaml:"wind"`
	Drops      int     `yaml:"nb_drops"`
	Background string  `yaml:"background"`
}

// DefaultTuning returns the values a fresh scene starts with.
func DefaultTuning() Tuning {
	return Tuning{
		Refraction: 30,
		Flicker:    8,
		Wind:       1,
		Drops:      12,
	}
}

// Structural reports whether moving from t to o requires a scene reset.
func (t Tuning) Structural(o Tuning) bool {
	return t.Drops != o.Drops || t.Background != o.Background
}

// Clamp returns t with every numeric value inside its panel range.
func (t Tuning) Clamp() Tuning {
	t.Refraction = RefractionRange.Clamp(t.Refraction)
	t.Flicker = FlickerRange.Clamp(t.Flicker)
	t.Wind = WindRange.Clamp(t.Wind)
	t.Drops = int(DropsRange.Clamp(float64(t.Drops)))
	return t
}

// Validate checks every value against its panel range.
func (t Tuning) Validate() error {
	check := func(name string, v float64, r Range) error {
		if math.IsNaN(v) || v < r.Min || v > r.Max {
			return fmt.Errorf("%s %v outside [%v, %v]", name, v, r.Min, r.Max)
		}
		return nil
	}
	if err := check("refraction", t.Refraction, RefractionRange); err != nil {
		return err
	}
	if err := check("flicker_effect", t.Flicker, FlickerRange); err != nil {
		return err
	}
	if err := check("wind", t.Wind, WindRange); err != nil {
		return err
	}
	return check("nb_drops", float64(t.Drops), DropsRange)
}

// PlacementConfig is the YAML form of PlacementOptions.
type PlacementConfig struct {
	ScaleMin       float64 `yaml:"scale_min"`
	ScaleMax       float64 `yaml:"scale_max"`
	Spread         float64 `yaml:"spread"`
	Margin         float64 `yaml:"margin"`
	MaxRelocations int     `yaml:"max_relocations"`
	Smoothing      float64 `yaml:"smoothing"`
	Alpha          float64 `yaml:"alpha"`
}

// Options converts the YAML form to PlacementOptions.
func (p PlacementConfig) Options() PlacementOptions {
	return PlacementOptions{
		Scale:          Range{Min: p.ScaleMin, Max: p.ScaleMax},
		Spread:         p.Spread,
		Margin:         p.Margin,
		MaxRelocations: p.MaxRelocations,
		Smoothing:      p.Smoothing,
		Alpha:          p.Alpha,
	}
}

// EffectConfig holds the transition and filter sizing constants.
type EffectConfig struct {
	// FadeIn is the droplet fade-in duration after a reset, in seconds.
	FadeIn float64 `yaml:"fade_in"`
	// RefractionRamp eases refraction from zero after a reset, in seconds.
	RefractionRamp float64 `yaml:"refraction_ramp"`
	// MaxFlicker sizes the flicker filter padding.
	MaxFlicker float64 `yaml:"max_flicker"`
}

// Config is the complete engine configuration.
type Config struct {
	Width     int             `yaml:"width"`
	Height    int             `yaml:"height"`
	Seed      uint64          `yaml:"seed"`
	Debug     bool            `yaml:"debug"`
	AssetDir  string          `yaml:"asset_dir"`
	Placement PlacementConfig `yaml:"placement"`
	Effects   EffectConfig    `yaml:"effects"`
	Tuning    Tuning          `yaml:"tuning"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	p := DefaultPlacement()
	return &Config{
		Width:  1280,
		Height: 720,
		Placement: PlacementConfig{
			ScaleMin:       p.Scale.Min,
			ScaleMax:       p.Scale.Max,
			Spread:         p.Spread,
			Margin:         p.Margin,
			MaxRelocations: p.MaxRelocations,
			Smoothing:      p.Smoothing,
			Alpha:          p.Alpha,
		},
		Effects: EffectConfig{
			FadeIn:         0.6,
			RefractionRamp: 0.8,
			MaxFlicker:     FlickerRange.Max,
		},
		Tuning: DefaultTuning(),
	}
}

// LoadConfig reads a YAML file over the defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML document over the defaults and validates it.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration can build a scene.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("viewport %dx%d must be positive", c.Width, c.Height)
	}
	p := c.Placement
	if p.ScaleMin <= 0 || p.ScaleMin > p.ScaleMax {
		return fmt.Errorf("placement scale range invalid: min(%.2f) max(%.2f)", p.ScaleMin, p.ScaleMax)
	}
	if p.Spread <= 0 || p.Spread > 0.5 {
		return fmt.Errorf("placement spread %.2f outside (0, 0.5]", p.Spread)
	}
	if p.Margin < 0 {
		return fmt.Errorf("placement margin %.1f is negative", p.Margin)
	}
	if p.MaxRelocations < 0 {
		return fmt.Errorf("placement max_relocations %d is negative", p.MaxRelocations)
	}
	if p.Smoothing <= 0 || p.Smoothing/p.ScaleMin >= 1 {
		return fmt.Errorf("placement smoothing %.3f gives coefficients outside (0, 1)", p.Smoothing)
	}
	if p.Alpha < 0 || p.Alpha > 1 {
		return fmt.Errorf("placement alpha %.2f outside [0, 1]", p.Alpha)
	}
	if c.Effects.FadeIn < 0 || c.Effects.RefractionRamp < 0 {
		return fmt.Errorf("effect durations must not be negative")
	}
	if err := c.Tuning.Validate(); err != nil {
		return fmt.Errorf("tuning: %w", err)
	}
	return nil
}

// Viewport returns the configured viewport rectangle.
func (c *Config) Viewport() Rect {
	return Rect{Width: float64(c.Width), Height: float64(c.Height)}
}
