package optimize

import (
	"testing"

	"github.com/zlayout/zlayout-go/geometry"
)

func TestForceDirectedPlacerPullsConnectedComponentsTogether(t *testing.T) {
	area := geometry.Rectangle{X: 0, Y: 0, Width: 200, Height: 200}
	cfg := DefaultForceConfig()
	cfg.MaxIterations = 500
	placer := NewForceDirectedPlacer(area, cfg)

	a := &Component{Name: "A", Shape: geometry.Rectangle{Width: 1, Height: 1}, Position: geometry.Point{X: 10, Y: 10}}
	b := &Component{Name: "B", Shape: geometry.Rectangle{Width: 1, Height: 1}, Position: geometry.Point{X: 190, Y: 190}}
	placer.AddComponent(a)
	placer.AddComponent(b)
	placer.AddNet(Net{Name: "n", Driver: PinRef{Component: "A"}, Sinks: []PinRef{{Component: "B"}}, Weight: 1})

	startDist := a.Position.DistanceTo(b.Position)
	placer.Run()
	endDist := a.Position.DistanceTo(b.Position)

	if endDist >= startDist {
		t.Errorf("connected components did not move closer: start=%v end=%v", startDist, endDist)
	}
}

func TestForceDirectedPlacerRepulsionSeparatesOverlappingComponents(t *testing.T) {
	area := geometry.Rectangle{X: 0, Y: 0, Width: 200, Height: 200}
	cfg := DefaultForceConfig()
	cfg.MaxIterations = 200
	placer := NewForceDirectedPlacer(area, cfg)

	a := &Component{Name: "A", Shape: geometry.Rectangle{Width: 1, Height: 1}, Position: geometry.Point{X: 100, Y: 100}}
	b := &Component{Name: "B", Shape: geometry.Rectangle{Width: 1, Height: 1}, Position: geometry.Point{X: 100.5, Y: 100}}
	placer.AddComponent(a)
	placer.AddComponent(b)

	startDist := a.Position.DistanceTo(b.Position)
	placer.Run()
	endDist := a.Position.DistanceTo(b.Position)

	if endDist <= startDist {
		t.Errorf("overlapping components did not separate: start=%v end=%v", startDist, endDist)
	}
}

func TestForceDirectedPlacerFixedComponentDoesNotMove(t *testing.T) {
	area := geometry.Rectangle{X: 0, Y: 0, Width: 200, Height: 200}
	cfg := DefaultForceConfig()
	cfg.MaxIterations = 100
	placer := NewForceDirectedPlacer(area, cfg)

	fixed := &Component{Name: "F", Shape: geometry.Rectangle{Width: 1, Height: 1}, Position: geometry.Point{X: 100, Y: 100}, IsFixed: true}
	mover := &Component{Name: "M", Shape: geometry.Rectangle{Width: 1, Height: 1}, Position: geometry.Point{X: 101, Y: 100}}
	placer.AddComponent(fixed)
	placer.AddComponent(mover)
	placer.AddNet(Net{Name: "n", Driver: PinRef{Component: "F"}, Sinks: []PinRef{{Component: "M"}}, Weight: 1})

	placer.Run()
	if !fixed.Position.Equal(geometry.Point{X: 100, Y: 100}) {
		t.Errorf("fixed component moved: %+v", fixed.Position)
	}
}

func TestForceDirectedPlacerConvergesOnTrivialSingleComponent(t *testing.T) {
	area := geometry.Rectangle{X: 0, Y: 0, Width: 200, Height: 200}
	cfg := DefaultForceConfig()
	cfg.MaxIterations = 50
	placer := NewForceDirectedPlacer(area, cfg)
	placer.AddComponent(&Component{Name: "A", Shape: geometry.Rectangle{Width: 1, Height: 1}, Position: geometry.Point{X: 100, Y: 100}})

	_, converged := placer.Run()
	if !converged {
		t.Error("a single isolated component with no forces acting on it should converge immediately")
	}
}
