// Command zlayoutdemo exercises the zlayout core end to end: it
// builds a small polygon set, loads it into a hierarchical spatial
// index, and runs the simulated-annealing optimizer over a toy
// six-component layout. It is not part of the core's contract — an
// integrator may delete this command without affecting the
// geometry, spatial, or optimize packages.
package main

import (
	"context"
	"fmt"

	"github.com/zlayout/zlayout-go"
	"github.com/zlayout/zlayout-go/geometry"
	"github.com/zlayout/zlayout-go/internal/zlog"
	"github.com/zlayout/zlayout-go/optimize"
)

type shape struct {
	name string
	bbox geometry.Rectangle
}

func shapeBBox(s shape) geometry.Rectangle { return s.bbox }

func main() {
	zlog.Info("🚀 zlayout core demo")

	lib := zlayout.NewLibrary()
	lib.Initialize(true)
	defer lib.Cleanup()
	zlog.Info("   library", "version", lib.Version(), "parallel", lib.ParallelEnabled())

	runGeometry()
	runSpatialIndex(lib)
	runOptimizer()
}

func runGeometry() {
	zlog.Info("📐 polygon kernel")

	triangle, err := geometry.NewPolygon([]geometry.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 2, Y: 3}})
	if err != nil {
		zlog.Error("❌ failed to build triangle", "err", err)
		return
	}
	zlog.Info("   triangle", "area", triangle.Area(), "convex", triangle.IsConvex(), "clockwise", triangle.IsClockwise())

	a, _ := geometry.NewPolygon([]geometry.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 3}, {X: 0, Y: 3}})
	b, _ := geometry.NewPolygon([]geometry.Point{{X: 6, Y: 0}, {X: 11, Y: 0}, {X: 11, Y: 3}, {X: 6, Y: 3}})
	zlog.Info("   narrow-gap check", "distance", a.DistanceTo(b), "narrow_regions", len(a.FindNarrowRegions(b, 2)))
}

func runSpatialIndex(lib *zlayout.Library) {
	zlog.Info("🌳 hierarchical spatial index")

	world := geometry.Rectangle{X: 0, Y: 0, Width: 1000, Height: 1000}
	index := zlayout.NewHierarchicalSpatialIndex[shape](lib, world, shapeBBox, 0, 0)

	if _, err := index.CreateIPBlock("core", geometry.Rectangle{X: 0, Y: 0, Width: 500, Height: 500}, "root"); err != nil {
		zlog.Warn("⚠️ create block failed", "err", err)
	}

	shapes := make([]shape, 0, 200)
	for i := 0; i < 200; i++ {
		x := float64(i%20) * 25
		y := float64(i/20) * 25
		shapes = append(shapes, shape{name: fmt.Sprintf("s%d", i), bbox: geometry.Rectangle{X: x, Y: y, Width: 2, Height: 2}})
	}
	index.BulkInsert(shapes)

	results, err := index.ParallelQueryRange(context.Background(), geometry.Rectangle{X: 0, Y: 0, Width: 100, Height: 100})
	if err != nil {
		zlog.Error("❌ parallel query failed", "err", err)
		return
	}
	stats := index.Stats()
	zlog.Info("   index stats", "blocks", stats.TotalBlocks, "objects", stats.TotalObjects, "query_hits", len(results))
}

func runOptimizer() {
	zlog.Info("🔥 simulated annealing")

	area := geometry.Rectangle{X: 0, Y: 0, Width: 100, Height: 100}
	cfg := optimize.DefaultOptimizationConfig()
	cfg.MaxIterations = 5000

	sa := optimize.NewSA(area, cfg)
	sa.Seed(42)

	names := []string{"CPU", "RAM0", "RAM1", "GPU", "IO", "PMU"}
	for _, n := range names {
		sa.AddComponent(&optimize.Component{Name: n, Shape: geometry.Rectangle{Width: 10, Height: 10}})
	}
	sa.AddNet(optimize.Net{
		Name:        "mem_bus",
		Driver:      optimize.PinRef{Component: "CPU", Pin: "mem_out"},
		Sinks:       []optimize.PinRef{{Component: "RAM0", Pin: "in"}, {Component: "RAM1", Pin: "in"}},
		Criticality: 0.9,
		Weight:      2,
	})
	sa.AddNet(optimize.Net{
		Name:        "gpu_link",
		Driver:      optimize.PinRef{Component: "CPU", Pin: "gpu_out"},
		Sinks:       []optimize.PinRef{{Component: "GPU", Pin: "in"}},
		Criticality: 0.7,
		Weight:      1.5,
	})

	result := sa.Optimize()
	stats := sa.GetStatistics()
	zlog.Info("   optimize done",
		"total_cost", result.TotalCost,
		"feasible", result.IsFeasible(),
		"accepted", stats.AcceptedMoves,
		"improved", stats.ImprovedMoves,
		"total_moves", stats.TotalMoves,
	)

	var recommend optimize.OptimizerFactory
	zlog.Info("   recommended algorithm for this problem size",
		"algorithm", recommend.RecommendAlgorithm(len(names), 2, false))
}
