// Package config provides configuration loading for the coop simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Field       FieldConfig       `yaml:"field"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Coop        CoopConfig        `yaml:"coop"`
	Fence       FenceConfig       `yaml:"fence"`
	Flock       FlockConfig       `yaml:"flock"`
	Breeds      []BreedConfig     `yaml:"breeds"`
	Raccoons    RaccoonConfig     `yaml:"raccoons"`
	Hero        HeroConfig        `yaml:"hero"`
	Items       ItemsConfig       `yaml:"items"`
	Interaction InteractionConfig `yaml:"interaction"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Round       RoundConfig       `yaml:"round"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Storage     StorageConfig     `yaml:"storage"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FieldConfig holds the play field dimensions in world units.
type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds frame stepping parameters.
type PhysicsConfig struct {
	DT    float64 `yaml:"dt"`     // Fixed step for headless runs (seconds)
	MaxDT float64 `yaml:"max_dt"` // Frame hitches are clamped to this
}

// CoopConfig holds the enclosure geometry.
type CoopConfig struct {
	CenterX      float64 `yaml:"center_x"`
	CenterY      float64 `yaml:"center_y"`
	HalfWidth    float64 `yaml:"half_width"`
	HalfHeight   float64 `yaml:"half_height"`
	EscapeMargin float64 `yaml:"escape_margin"` // Distance past the fence that counts as escaped
	RingMin      float64 `yaml:"ring_min"`      // Spawn ring inner radius
	RingMax      float64 `yaml:"ring_max"`      // Spawn ring outer radius
	InsetMargin  float64 `yaml:"inset_margin"`  // In-coop chickens keep this far from the fence
}

// FenceConfig holds breach point parameters.
type FenceConfig struct {
	MaxHoles        int     `yaml:"max_holes"`
	FirstSpawnDelay float64 `yaml:"first_spawn_delay"` // Seconds before the first hole
	SpawnInterval   float64 `yaml:"spawn_interval"`    // Seconds between hole attempts
	SpawnJitter     float64 `yaml:"spawn_jitter"`      // +/- seconds added to each interval
	InitialRadius   float64 `yaml:"initial_radius"`
	MaxRadius       float64 `yaml:"max_radius"`
	GrowthRate      float64 `yaml:"growth_rate"` // Radius growth per second
	CornerMargin    float64 `yaml:"corner_margin"`
	MinSpacing      float64 `yaml:"min_spacing"`
}

// FlockConfig holds parameters shared by every chicken.
type FlockConfig struct {
	InitialHunger   float64 `yaml:"initial_hunger"`
	HungerBoldness  float64 `yaml:"hunger_boldness"`  // Extra boldness at zero hunger
	TankBlock       float64 `yaml:"tank_block"`       // Breach rate divisor per tank in coop
	EggHungerFloor  float64 `yaml:"egg_hunger_floor"` // Eggs only accrue above this hunger
	HungryThreshold float64 `yaml:"hungry_threshold"` // Default for HungryChickens
	RoamSpeedScale  float64 `yaml:"roam_speed_scale"` // Escaped chickens move at speed * this
	WanderSpeed     float64 `yaml:"wander_speed"`     // In-coop speed multiplier
	NoiseFrequency  float64 `yaml:"noise_frequency"`  // Roaming heading noise frequency (1/s)
}

// BreedConfig defines one of the twelve chicken kinds.
type BreedConfig struct {
	Name        string  `yaml:"name"`
	Speed       float64 `yaml:"speed"`        // Units per second
	Boldness    float64 `yaml:"boldness"`     // Breach attempts per second
	HungerDecay float64 `yaml:"hunger_decay"` // Hunger units lost per second
	EggInterval float64 `yaml:"egg_interval"` // Seconds of contentment per egg
	Radius      float64 `yaml:"radius"`
	Special     string  `yaml:"special"` // none, tank, golden, runner, layer
}

// RaccoonConfig holds intruder parameters.
type RaccoonConfig struct {
	MaxConcurrent   int     `yaml:"max_concurrent"`
	FirstSpawnDelay float64 `yaml:"first_spawn_delay"`
	SpawnInterval   float64 `yaml:"spawn_interval"`
	Speed           float64 `yaml:"speed"`
	InsideSpeed     float64 `yaml:"inside_speed"`
	FleeSpeed       float64 `yaml:"flee_speed"`
	Radius          float64 `yaml:"radius"`
	Lifetime        float64 `yaml:"lifetime"`
}

// HeroConfig holds player parameters.
type HeroConfig struct {
	Speed  float64 `yaml:"speed"`
	Radius float64 `yaml:"radius"`
	StartX float64 `yaml:"start_x"`
	StartY float64 `yaml:"start_y"`
}

// PointConfig is a fixed position on the field.
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ItemsConfig holds pickup parameters.
type ItemsConfig struct {
	Radius         float64     `yaml:"radius"`
	RespawnDelay   float64     `yaml:"respawn_delay"`
	FoodPortions   int         `yaml:"food_portions"`
	HammerUses     int         `yaml:"hammer_uses"`
	BasketCapacity int         `yaml:"basket_capacity"`
	Food           PointConfig `yaml:"food"`
	Hammer         PointConfig `yaml:"hammer"`
	Basket         PointConfig `yaml:"basket"`
	Crate          PointConfig `yaml:"crate"`
	CrateRadius    float64     `yaml:"crate_radius"`
}

// InteractionConfig holds resolver parameters.
type InteractionConfig struct {
	FeedBelow    float64 `yaml:"feed_below"`    // Chickens at or above this hunger refuse food
	FeedAmount   float64 `yaml:"feed_amount"`   // Hunger restored per feeding
	CalmDuration float64 `yaml:"calm_duration"` // Seconds a calmed chicken skips breach checks
	RepairReach  float64 `yaml:"repair_reach"`  // Extra reach beyond touching for repairs
	Neutralize   string  `yaml:"neutralize"`    // "unarmed" or "armed"
}

// ScoringConfig holds score and life effects.
type ScoringConfig struct {
	EggPoints        int `yaml:"egg_points"`
	GoldenMultiplier int `yaml:"golden_multiplier"`
	HerdPoints       int `yaml:"herd_points"`
	RepairPoints     int `yaml:"repair_points"`
	RaccoonPoints    int `yaml:"raccoon_points"`
	EscapePenalty    int `yaml:"escape_penalty"`
	CapturePenalty   int `yaml:"capture_penalty"`
}

// RoundConfig holds round lifecycle parameters.
type RoundConfig struct {
	Lives    int     `yaml:"lives"`
	Duration float64 `yaml:"duration"` // Seconds, 0 = unlimited
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"`
	PerfWindow  int     `yaml:"perf_window"`
}

// StorageConfig holds high score persistence parameters.
type StorageConfig struct {
	Path         string `yaml:"path"` // SQLite file, empty = in-memory
	HighScoreKey string `yaml:"high_score_key"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	BreedIndex map[string]int // name -> position in Breeds
	Armed      bool           // Neutralizing raccoons requires the hammer
	MaxDT      float64        // Physics.MaxDT, defaulted
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values that would make the simulation meaningless.
// Breed names are checked by the flock package, which owns the kind list.
func (c *Config) validate() error {
	var errs []error
	if c.Field.Width <= 0 || c.Field.Height <= 0 {
		errs = append(errs, fmt.Errorf("field size must be positive, got %gx%g", c.Field.Width, c.Field.Height))
	}
	if c.Coop.HalfWidth <= 0 || c.Coop.HalfHeight <= 0 {
		errs = append(errs, errors.New("coop half extents must be positive"))
	}
	if c.Coop.CenterX-c.Coop.HalfWidth < 0 || c.Coop.CenterX+c.Coop.HalfWidth > c.Field.Width ||
		c.Coop.CenterY-c.Coop.HalfHeight < 0 || c.Coop.CenterY+c.Coop.HalfHeight > c.Field.Height {
		errs = append(errs, errors.New("coop must lie inside the field"))
	}
	if c.Coop.RingMin < 0 || c.Coop.RingMax < c.Coop.RingMin {
		errs = append(errs, fmt.Errorf("spawn ring [%g, %g] is not a valid band", c.Coop.RingMin, c.Coop.RingMax))
	}
	if c.Fence.MaxHoles < 0 {
		errs = append(errs, errors.New("fence.max_holes must not be negative"))
	}
	if c.Raccoons.MaxConcurrent < 0 {
		errs = append(errs, errors.New("raccoons.max_concurrent must not be negative"))
	}
	if c.Round.Lives <= 0 {
		errs = append(errs, errors.New("round.lives must be positive"))
	}
	switch c.Interaction.Neutralize {
	case "armed", "unarmed":
	default:
		errs = append(errs, fmt.Errorf("interaction.neutralize must be \"armed\" or \"unarmed\", got %q", c.Interaction.Neutralize))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Armed = c.Interaction.Neutralize == "armed"

	c.Derived.MaxDT = c.Physics.MaxDT
	if c.Derived.MaxDT <= 0 {
		c.Derived.MaxDT = 0.1
	}

	// Hero starts just below the coop unless placed explicitly
	if c.Hero.StartX == 0 && c.Hero.StartY == 0 {
		c.Hero.StartX = c.Coop.CenterX
		c.Hero.StartY = c.Coop.CenterY + c.Coop.HalfHeight + c.Coop.EscapeMargin/2
	}

	c.Derived.BreedIndex = make(map[string]int, len(c.Breeds))
	for i, b := range c.Breeds {
		c.Derived.BreedIndex[b.Name] = i
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
