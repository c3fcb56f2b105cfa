package optimize

import (
	"testing"

	"github.com/zlayout/zlayout-go/geometry"
)

func newSAWithComponents(t *testing.T, n int) (*SA, []*Component) {
	t.Helper()
	area := geometry.Rectangle{X: 0, Y: 0, Width: 100, Height: 100}
	cfg := DefaultOptimizationConfig()
	cfg.MaxIterations = 200
	sa := NewSA(area, cfg)
	sa.Seed(42)

	components := make([]*Component, n)
	for i := 0; i < n; i++ {
		c := &Component{Name: string(rune('A' + i)), Shape: geometry.Rectangle{Width: 2, Height: 2}}
		components[i] = c
		sa.AddComponent(c)
	}
	return sa, components
}

func TestSAMovesComponentsWithinArea(t *testing.T) {
	sa, components := newSAWithComponents(t, 4)
	sa.AddNet(Net{
		Name:   "n1",
		Driver: PinRef{Component: "A"},
		Sinks:  []PinRef{{Component: "B"}, {Component: "C"}, {Component: "D"}},
		Weight: 1,
	})

	result := sa.Optimize()
	_ = result

	area := geometry.Rectangle{X: 0, Y: 0, Width: 100, Height: 100}
	for _, c := range components {
		if !area.ContainsRectangle(c.PlacedRect()) {
			t.Errorf("component %s ended up outside the placement area: %+v", c.Name, c.PlacedRect())
		}
	}
}

// Property 10: the sequence of best_cost values reported during a
// single Optimize() run is non-increasing.
func TestSABestCostMonotonicallyNonIncreasing(t *testing.T) {
	area := geometry.Rectangle{X: 0, Y: 0, Width: 100, Height: 100}
	cfg := DefaultOptimizationConfig()
	cfg.MaxIterations = 300
	sa := NewSA(area, cfg)
	sa.Seed(7)

	for i := 0; i < 5; i++ {
		sa.AddComponent(&Component{Name: string(rune('A' + i)), Shape: geometry.Rectangle{Width: 2, Height: 2}})
	}
	sa.AddNet(Net{Name: "n", Driver: PinRef{Component: "A"}, Sinks: []PinRef{{Component: "B"}, {Component: "C"}}, Weight: 1})

	var trace []float64
	sa.OnImprovement = func(bestCost float64) { trace = append(trace, bestCost) }
	sa.Optimize()

	for i := 1; i < len(trace); i++ {
		if trace[i] > trace[i-1]+1e-9 {
			t.Fatalf("best_cost increased at step %d: %v -> %v", i, trace[i-1], trace[i])
		}
	}
}

func TestSADeterministicWithFixedSeed(t *testing.T) {
	run := func() (float64, []geometry.Point) {
		sa, components := newSAWithComponents(t, 6)
		sa.Seed(42)
		sa.AddNet(Net{
			Name:   "n1",
			Driver: PinRef{Component: "A"},
			Sinks:  []PinRef{{Component: "B"}, {Component: "C"}},
			Weight: 1,
		})
		result := sa.Optimize()
		positions := make([]geometry.Point, len(components))
		for i, c := range components {
			positions[i] = c.Position
		}
		return result.TotalCost, positions
	}

	cost1, pos1 := run()
	cost2, pos2 := run()

	if cost1 != cost2 {
		t.Errorf("two seeded runs produced different costs: %v vs %v", cost1, cost2)
	}
	for i := range pos1 {
		if !pos1[i].Equal(pos2[i]) {
			t.Errorf("position %d diverged between seeded runs: %+v vs %+v", i, pos1[i], pos2[i])
		}
	}
}

func TestSARespectsFixedComponents(t *testing.T) {
	area := geometry.Rectangle{X: 0, Y: 0, Width: 100, Height: 100}
	cfg := DefaultOptimizationConfig()
	cfg.MaxIterations = 200
	sa := NewSA(area, cfg)
	sa.Seed(1)

	fixed := &Component{Name: "F", Shape: geometry.Rectangle{Width: 2, Height: 2}, Position: geometry.Point{X: 50, Y: 50}, IsFixed: true}
	mover := &Component{Name: "M", Shape: geometry.Rectangle{Width: 2, Height: 2}}
	sa.AddComponent(fixed)
	sa.AddComponent(mover)

	sa.Optimize()
	if fixed.Position.X != 50 || fixed.Position.Y != 50 {
		t.Errorf("fixed component moved: %+v", fixed.Position)
	}
}

func TestSAStatisticsAreReported(t *testing.T) {
	sa, _ := newSAWithComponents(t, 3)
	sa.Optimize()
	stats := sa.GetStatistics()
	if stats.TotalMoves == 0 {
		t.Error("expected at least one move to be attempted")
	}
	if stats.AcceptedMoves+stats.FailedMoves > stats.TotalMoves {
		t.Errorf("accepted+failed (%d+%d) exceeds total moves (%d)", stats.AcceptedMoves, stats.FailedMoves, stats.TotalMoves)
	}
}
