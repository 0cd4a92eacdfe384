package readalong

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Duration is a time.Duration that reads "400ms"-style strings from JSON.
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("parse duration %s: %w", b, err)
	}
	*d = Duration(n)
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// BalloonConfig controls the labeled reward balloons.
type BalloonConfig struct {
	// ViewWidth and ViewHeight bound random placement.
	ViewWidth  float64 `json:"viewWidth" validate:"gt=0"`
	ViewHeight float64 `json:"viewHeight" validate:"gt=0"`
	// Width and Height are used for items that do not carry a size.
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
	// PopDuration is the burst animation length.
	PopDuration Duration `json:"popDuration" validate:"gt=0"`
	// Seed fixes random placement; 0 picks a random seed.
	Seed uint64 `json:"seed"`
}

// AmbientConfig controls the decorative loading balloons.
type AmbientConfig struct {
	ViewWidth  float64 `json:"viewWidth" validate:"gt=0"`
	ViewHeight float64 `json:"viewHeight" validate:"gt=0"`
	// MinCount is the number of rising balloons kept alive at all times.
	MinCount int `json:"minCount" validate:"gte=1"`
	// SpawnAttempts bounds the collision-avoiding placement retries.
	SpawnAttempts int `json:"spawnAttempts" validate:"gte=1"`
	// SpacingScale scales the sum of half-extents used as minimum distance.
	SpacingScale float64 `json:"spacingScale" validate:"gte=0"`
	// Size is the balloon width range; height follows AspectRatio.
	Size        Range   `json:"size"`
	AspectRatio float64 `json:"aspectRatio" validate:"gt=0"`
	// Speed is the upward speed range in pixels per second.
	Speed       Range    `json:"speed"`
	PopDuration Duration `json:"popDuration" validate:"gt=0"`
	Seed        uint64   `json:"seed"`
}

// PollConfig controls audio coverage polling.
type PollConfig struct {
	Interval    Duration `json:"interval" validate:"gt=0"`
	MaxAttempts int      `json:"maxAttempts" validate:"gte=1"`
	// RequestTimeout bounds a single fetch; 0 means no timeout.
	RequestTimeout Duration `json:"requestTimeout" validate:"gte=0"`
}

// Config gathers every tunable of the engine.
type Config struct {
	TickInterval Duration      `json:"tickInterval" validate:"gt=0"`
	Balloons     BalloonConfig `json:"balloons"`
	Ambient      AmbientConfig `json:"ambient"`
	Poll         PollConfig    `json:"poll"`
	LogLevel     string        `json:"logLevel" validate:"oneof=debug info warn warning error"`
	LogJSON      bool          `json:"logJSON"`
}

// DefaultBalloonConfig returns the reward balloon defaults for a view.
func DefaultBalloonConfig(viewW, viewH float64) BalloonConfig {
	return BalloonConfig{
		ViewWidth:   viewW,
		ViewHeight:  viewH,
		Width:       200,
		Height:      240,
		PopDuration: Duration(DefaultPopDuration),
	}
}

// DefaultAmbientConfig returns the loading balloon defaults for a view.
func DefaultAmbientConfig(viewW, viewH float64) AmbientConfig {
	return AmbientConfig{
		ViewWidth:     viewW,
		ViewHeight:    viewH,
		MinCount:      5,
		SpawnAttempts: 10,
		SpacingScale:  0.9,
		Size:          Range{Min: 120, Max: 180},
		AspectRatio:   1.2,
		Speed:         Range{Min: 90, Max: 220},
		PopDuration:   Duration(DefaultPopDuration),
	}
}

// DefaultPollConfig polls every 1.5 s for at most 60 attempts.
func DefaultPollConfig() PollConfig {
	return PollConfig{
		Interval:       Duration(1500 * time.Millisecond),
		MaxAttempts:    60,
		RequestTimeout: Duration(10 * time.Second),
	}
}

// DefaultConfig returns a complete configuration for a 1080x1920 view.
func DefaultConfig() Config {
	return Config{
		TickInterval: Duration(DefaultTickInterval),
		Balloons:     DefaultBalloonConfig(1080, 1920),
		Ambient:      DefaultAmbientConfig(1080, 1920),
		Poll:         DefaultPollConfig(),
		LogLevel:     "warn",
	}
}

// Validate checks field constraints and range ordering.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return c.Ambient.validateRanges()
}

// Validate checks the balloon config on its own.
func (c BalloonConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid balloon config: %w", err)
	}
	return nil
}

// Validate checks the ambient config on its own.
func (c AmbientConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid ambient config: %w", err)
	}
	return c.validateRanges()
}

// Validate checks the poll config on its own.
func (c PollConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid poll config: %w", err)
	}
	return nil
}

func (c AmbientConfig) validateRanges() error {
	var bad []string
	if c.Size.Min <= 0 || c.Size.Max < c.Size.Min {
		bad = append(bad, "size")
	}
	if c.Speed.Min <= 0 || c.Speed.Max < c.Speed.Min {
		bad = append(bad, "speed")
	}
	if len(bad) > 0 {
		return fmt.Errorf("invalid ambient config: bad range for %s", strings.Join(bad, ", "))
	}
	return nil
}

// LoadConfig parses JSON over DefaultConfig and validates the result.
// Fields missing from the document keep their defaults.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
