package optimize

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// OptimizationConfig carries the cost-model weights, feasibility
// constraints, the annealing schedule, and the hierarchical-index
// flags enumerated in spec.md §6.
type OptimizationConfig struct {
	// Cost-model weights (spec.md §4.G).
	AreaWeight       float64 `toml:"area_weight"`
	WirelengthWeight float64 `toml:"wirelength_weight"`
	TimingWeight     float64 `toml:"timing_weight"`
	PowerWeight      float64 `toml:"power_weight"`

	// Feasibility constraints.
	MinSpacing     float64 `toml:"min_spacing"`
	MaxUtilization float64 `toml:"max_utilization"`
	MaxAspectRatio float64 `toml:"max_aspect_ratio"`

	// Annealing schedule (spec.md §4.H).
	InitialTemperature float64 `toml:"initial_temperature"`
	CoolingRate        float64 `toml:"cooling_rate"`
	FinalTemperature   float64 `toml:"final_temperature"`
	MaxIterations      int     `toml:"max_iterations"`

	// Hierarchical-index flags.
	EnableHierarchical    bool `toml:"enable_hierarchical"`
	MaxComponentsPerBlock int  `toml:"max_components_per_block"`
}

// DefaultOptimizationConfig mirrors the source's documented defaults:
// unit cost weights, a half-unit minimum spacing, a 3:1 aspect-ratio
// ceiling, annealing from T=1000 down to T=0.1 at a 0.95 cooling rate
// over at most 10000 iterations.
func DefaultOptimizationConfig() OptimizationConfig {
	return OptimizationConfig{
		AreaWeight:            1.0,
		WirelengthWeight:      1.0,
		TimingWeight:          1.0,
		PowerWeight:           1.0,
		MinSpacing:            0.5,
		MaxUtilization:        0.8,
		MaxAspectRatio:        3.0,
		InitialTemperature:    1000,
		CoolingRate:           0.95,
		FinalTemperature:      0.1,
		MaxIterations:         10_000,
		EnableHierarchical:    false,
		MaxComponentsPerBlock: 1_000_000,
	}
}

// LoadConfigTOML reads an OptimizationConfig from a TOML file, letting
// an integrator check in a reviewable tuning file instead of editing
// Go. Fields absent from the file keep DefaultOptimizationConfig's
// values.
func LoadConfigTOML(path string) (OptimizationConfig, error) {
	cfg := DefaultOptimizationConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading optimization config %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing optimization config %q: %w", path, err)
	}
	return cfg, nil
}
