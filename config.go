package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const defaultEngineSeed = "spuders"

// Resolution describes a grid dimension pair in cells.
type Resolution struct {
	Width  int `json:"width" jsonschema:"title=Width in cells,minimum=1"`
	Height int `json:"height" jsonschema:"title=Height in cells,minimum=1"`
}

// AnimationDescriptor describes an opaque visual asset forwarded to the
// render sink. A zero FrameCount marks the asset as unavailable.
type AnimationDescriptor struct {
	Name          string  `json:"name" jsonschema:"title=Asset name"`
	FrameCount    int     `json:"frameCount" jsonschema:"title=Frame count,minimum=0"`
	FrameDuration float64 `json:"frameDuration" jsonschema:"title=Seconds per frame,minimum=0"`
	AnchorX       float64 `json:"anchorX,omitempty"`
	AnchorY       float64 `json:"anchorY,omitempty"`
	Scale         float64 `json:"scale,omitempty"`
	TravelSpeed   float64 `json:"travelSpeed,omitempty" jsonschema:"description=Pixels per second for visuals that sweep the playfield"`
}

// Available reports whether the descriptor references a usable asset.
func (a AnimationDescriptor) Available() bool {
	return a.FrameCount > 0 && a.FrameDuration > 0
}

// Config is the engine's one-time configuration document.
type Config struct {
	// TargetMaxWipeoutRadiusPercent sets the calibration radius as a
	// fraction of map width within which the weakest defense type can be
	// destroyed outright.
	TargetMaxWipeoutRadiusPercent float64 `json:"targetMaxWipeoutRadiusPercent" jsonschema:"title=Wipeout radius fraction,exclusiveMinimum=0,maximum=1"`

	// ZBufferResolution sizes the destruction heatmap.
	ZBufferResolution Resolution `json:"zBufferResolution"`

	// StampMapResolution sizes the precomputed distance stamp. Odd
	// dimensions keep the stamp centered on a cell.
	StampMapResolution Resolution `json:"stampMapResolution"`

	// ImpactStdDevPercentWidth is the impact-noise standard deviation as a
	// fraction of map width. Zero means perfectly accurate strikes.
	ImpactStdDevPercentWidth float64 `json:"impactStdDevPercentWidth" jsonschema:"minimum=0"`

	// StrikeTriggerBufferScalar widens the dispatch threshold above the
	// running average strike yield.
	StrikeTriggerBufferScalar float64 `json:"strikeTriggerBufferScalar" jsonschema:"minimum=0"`

	// EmpiricalAverageBombDeltaR seeds the yield average before the first
	// strike has reported real data.
	EmpiricalAverageBombDeltaR float64 `json:"empiricalAverageBombDeltaR" jsonschema:"minimum=0"`

	// TargetDamageUpdatePoints is the number of decay checkpoints the
	// tracker aims for per average strike yield.
	TargetDamageUpdatePoints int `json:"targetDamageUpdatePoints" jsonschema:"minimum=1"`

	// StrikeDelaySeconds is the fixed pause between telegraph completion
	// and impact resolution.
	StrikeDelaySeconds float64 `json:"strikeDelaySeconds" jsonschema:"minimum=0"`

	// MinDamageThreshold filters out negligible per-unit damage during
	// resolve. Zero disables the filter.
	MinDamageThreshold float64 `json:"minDamageThreshold,omitempty" jsonschema:"minimum=0"`

	// Shadow is the telegraph visual that sweeps the target row. Its
	// TravelSpeed determines the telegraph duration.
	Shadow AnimationDescriptor `json:"shadow"`

	// Explosion is the impact visual shown when a strike resolves.
	Explosion AnimationDescriptor `json:"explosion"`

	// Seed fixes the engine RNG for replayable sessions.
	Seed string `json:"seed,omitempty"`
}

// normalized returns a config with defaults applied.
func (cfg Config) normalized() Config {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = defaultEngineSeed
	}
	if normalized.TargetDamageUpdatePoints == 0 {
		normalized.TargetDamageUpdatePoints = 10
	}
	return normalized
}

// Validate reports the first invalid field, if any.
func (cfg Config) Validate() error {
	if cfg.TargetMaxWipeoutRadiusPercent <= 0 || cfg.TargetMaxWipeoutRadiusPercent > 1 {
		return &ConfigError{Field: "targetMaxWipeoutRadiusPercent", Reason: "must be in (0,1]"}
	}
	if cfg.ZBufferResolution.Width < 1 || cfg.ZBufferResolution.Height < 1 {
		return &ConfigError{Field: "zBufferResolution", Reason: "dimensions must be at least 1"}
	}
	if cfg.StampMapResolution.Width < 1 || cfg.StampMapResolution.Height < 1 {
		return &ConfigError{Field: "stampMapResolution", Reason: "dimensions must be at least 1"}
	}
	if cfg.ImpactStdDevPercentWidth < 0 {
		return &ConfigError{Field: "impactStdDevPercentWidth", Reason: "must be non-negative"}
	}
	if cfg.StrikeTriggerBufferScalar < 0 {
		return &ConfigError{Field: "strikeTriggerBufferScalar", Reason: "must be non-negative"}
	}
	if cfg.EmpiricalAverageBombDeltaR < 0 {
		return &ConfigError{Field: "empiricalAverageBombDeltaR", Reason: "must be non-negative"}
	}
	if cfg.TargetDamageUpdatePoints < 1 {
		return &ConfigError{Field: "targetDamageUpdatePoints", Reason: "must be positive"}
	}
	if cfg.StrikeDelaySeconds < 0 {
		return &ConfigError{Field: "strikeDelaySeconds", Reason: "must be non-negative"}
	}
	if cfg.MinDamageThreshold < 0 {
		return &ConfigError{Field: "minDamageThreshold", Reason: "must be non-negative"}
	}
	return nil
}

// LoadConfig reads and validates a config document from disk.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("engine: read config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}
	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
