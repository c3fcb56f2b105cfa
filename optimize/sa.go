package optimize

import (
	"math"
	"math/rand"
	"time"

	"github.com/zlayout/zlayout-go/geometry"
	"github.com/zlayout/zlayout-go/internal/zerr"
	"github.com/zlayout/zlayout-go/internal/zlog"
)

// saState tracks SA's lifecycle: Uninitialized -> Configured (via
// AddComponent/AddNet) -> Running -> Done.
type saState int

const (
	saUninitialized saState = iota
	saConfigured
	saRunning
	saDone
)

// SAStats is the per-run bookkeeping reported by SA.GetStatistics.
type SAStats struct {
	TotalMoves       int
	AcceptedMoves    int
	ImprovedMoves    int
	FailedMoves      int
	FinalTemperature float64
	Iterations       int
}

// SA is the simulated-annealing optimizer of spec.md §4.H: a
// move/accept/cool loop driven by CostModel.
type SA struct {
	area   geometry.Rectangle
	config OptimizationConfig
	model  *CostModel

	components []*Component
	nets       []Net

	rng *rand.Rand

	state    saState
	best     []geometry.Point
	bestCost float64
	stats    SAStats

	// OnImprovement, if set, is called with the new best cost every
	// time Optimize finds an improving move. Intended for tests and
	// diagnostics that want to observe the trajectory named in
	// spec.md §8 invariant 10 (best_cost is non-increasing).
	OnImprovement func(bestCost float64)
}

// NewSA builds an SA bound to area and config, seeded from the wall
// clock. Call Seed for deterministic, reproducible runs.
func NewSA(area geometry.Rectangle, config OptimizationConfig) *SA {
	return &SA{
		area:   area,
		config: config,
		model:  NewCostModel(config),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		state:  saUninitialized,
	}
}

// Seed fixes the optimizer's RNG so that, together with a fixed
// component registration order and single-threaded execution, Optimize
// is bit-identical between runs (spec.md §5, §8 invariant 11).
func (s *SA) Seed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// AddComponent registers a component to be placed. Order matters for
// determinism: replaying the same sequence with the same seed
// reproduces the same run.
func (s *SA) AddComponent(c *Component) {
	s.components = append(s.components, c)
	s.state = saConfigured
}

// AddNet registers a net. Dangling references are not validated here;
// CostModel.Evaluate skips them at evaluation time (spec.md §7).
func (s *SA) AddNet(n Net) {
	s.nets = append(s.nets, n)
	s.state = saConfigured
}

// Optimize runs the move/accept/cool loop until the temperature drops
// below config.FinalTemperature or config.MaxIterations is reached,
// then restores the best-seen positions and returns their cost. It
// never returns an error: infeasibility is reported through
// CostResult.IsFeasible, matching the soft-failure contract of
// spec.md §4.H/§7.
func (s *SA) Optimize() CostResult {
	s.state = saRunning
	s.stats = SAStats{}
	s.initializePositions()

	current := s.snapshot()
	currentCost := s.model.Evaluate(s.components, s.nets, s.area).TotalCost
	s.best = cloneSnapshot(current)
	s.bestCost = currentCost

	temperature := s.config.InitialTemperature
	if temperature <= 0 {
		temperature = 1000
	}
	finalTemp := s.config.FinalTemperature
	maxIter := s.config.MaxIterations
	if maxIter <= 0 {
		maxIter = 10_000
	}

	for iter := 0; iter < maxIter && temperature >= finalTemp; iter++ {
		s.stats.TotalMoves++

		movable := s.movableComponents()
		if len(movable) == 0 {
			break
		}
		target := movable[s.rng.Intn(len(movable))]
		oldPos := target.Position
		dx := (s.rng.Float64()*2 - 1) * temperature
		dy := (s.rng.Float64()*2 - 1) * temperature
		proposed := geometry.Point{X: oldPos.X + dx, Y: oldPos.Y + dy}
		proposedRect := geometry.Rectangle{X: proposed.X, Y: proposed.Y, Width: target.Shape.Width, Height: target.Shape.Height}

		if !s.area.ContainsRectangle(proposedRect) {
			s.stats.FailedMoves++
			temperature *= s.config.CoolingRate
			continue
		}

		target.Position = proposed
		newCost := s.model.Evaluate(s.components, s.nets, s.area).TotalCost
		delta := newCost - currentCost

		accept := delta < 0
		if !accept {
			accept = s.rng.Float64() < math.Exp(-delta/temperature)
		}

		if accept {
			s.stats.AcceptedMoves++
			currentCost = newCost
			if newCost < s.bestCost {
				s.stats.ImprovedMoves++
				s.bestCost = newCost
				s.best = s.snapshot()
				if s.OnImprovement != nil {
					s.OnImprovement(s.bestCost)
				}
			}
		} else {
			target.Position = oldPos
		}

		temperature *= s.config.CoolingRate
		s.stats.Iterations++
		s.stats.FinalTemperature = temperature
	}

	s.restoreBest()
	result := s.model.Evaluate(s.components, s.nets, s.area)
	s.state = saDone
	if !result.IsFeasible() {
		zlog.Warn("simulated annealing finished infeasible", "code", zerr.CodeInfeasibleLayout, "violations", result.ConstraintViolations)
	}
	return result
}

// GetStatistics reports bookkeeping for the most recent Optimize run.
func (s *SA) GetStatistics() SAStats { return s.stats }

// initializePositions randomizes every movable component currently
// sitting at the origin, uniformly within the placement area (spec.md
// §4.H). Components already placed elsewhere, or fixed, are left
// untouched.
func (s *SA) initializePositions() {
	origin := geometry.Point{}
	for _, c := range s.components {
		if c.IsFixed || !c.Position.Equal(origin) {
			continue
		}
		maxX := s.area.Width - c.Shape.Width
		maxY := s.area.Height - c.Shape.Height
		if maxX < 0 {
			maxX = 0
		}
		if maxY < 0 {
			maxY = 0
		}
		c.Position = geometry.Point{
			X: s.area.X + s.rng.Float64()*maxX,
			Y: s.area.Y + s.rng.Float64()*maxY,
		}
	}
}

func (s *SA) movableComponents() []*Component {
	var out []*Component
	for _, c := range s.components {
		if !c.IsFixed {
			out = append(out, c)
		}
	}
	return out
}

func (s *SA) snapshot() []geometry.Point {
	return cloneSnapshot(positionsOf(s.components))
}

func positionsOf(components []*Component) []geometry.Point {
	out := make([]geometry.Point, len(components))
	for i, c := range components {
		out[i] = c.Position
	}
	return out
}

func cloneSnapshot(p []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, len(p))
	copy(out, p)
	return out
}

func (s *SA) restoreBest() {
	for i, c := range s.components {
		if i < len(s.best) {
			c.Position = s.best[i]
		}
	}
}
