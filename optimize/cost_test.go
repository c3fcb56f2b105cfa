package optimize

import (
	"testing"

	"github.com/zlayout/zlayout-go/geometry"
)

func rectComponent(name string, x, y, w, h float64) *Component {
	return &Component{Name: name, Shape: geometry.Rectangle{Width: w, Height: h}, Position: geometry.Point{X: x, Y: y}}
}

func TestCostModelWirelengthAndTiming(t *testing.T) {
	a := rectComponent("A", 0, 0, 1, 1)
	b := rectComponent("B", 3, 4, 1, 1) // distance 5 from A
	model := NewCostModel(DefaultOptimizationConfig())

	net := Net{
		Name:        "n1",
		Driver:      PinRef{Component: "A", Pin: "out"},
		Sinks:       []PinRef{{Component: "B", Pin: "in"}},
		Criticality: 0.9,
		Weight:      2,
	}

	result := model.Evaluate([]*Component{a, b}, []Net{net}, geometry.Rectangle{Width: 100, Height: 100})

	wantWire := 5.0 * 2 * (1 + 0.9)
	if diff := result.WirelengthCost - wantWire; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("WirelengthCost = %v, want %v", result.WirelengthCost, wantWire)
	}
	wantTiming := 25.0 * 0.9 // criticality > 0.8, squared distance * criticality
	if diff := result.TimingCost - wantTiming; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("TimingCost = %v, want %v", result.TimingCost, wantTiming)
	}
}

func TestCostModelNonCriticalNetContributesNoTiming(t *testing.T) {
	a := rectComponent("A", 0, 0, 1, 1)
	b := rectComponent("B", 10, 0, 1, 1)
	model := NewCostModel(DefaultOptimizationConfig())
	net := Net{Name: "n1", Driver: PinRef{Component: "A"}, Sinks: []PinRef{{Component: "B"}}, Criticality: 0.5, Weight: 1}

	result := model.Evaluate([]*Component{a, b}, []Net{net}, geometry.Rectangle{Width: 100, Height: 100})
	if result.TimingCost != 0 {
		t.Errorf("TimingCost = %v, want 0 for criticality 0.5", result.TimingCost)
	}
}

func TestCostModelDanglingNetIsSkippedNotFatal(t *testing.T) {
	a := rectComponent("A", 0, 0, 1, 1)
	model := NewCostModel(DefaultOptimizationConfig())
	net := Net{Name: "ghost", Driver: PinRef{Component: "A"}, Sinks: []PinRef{{Component: "missing"}}, Criticality: 1, Weight: 1}

	result := model.Evaluate([]*Component{a}, []Net{net}, geometry.Rectangle{Width: 100, Height: 100})
	if result.WirelengthCost != 0 || result.TimingCost != 0 {
		t.Errorf("dangling net should contribute zero cost, got wire=%v timing=%v", result.WirelengthCost, result.TimingCost)
	}
}

func TestCostModelAreaCost(t *testing.T) {
	a := rectComponent("A", 0, 0, 20, 20)
	model := NewCostModel(DefaultOptimizationConfig())

	small := geometry.Rectangle{Width: 10, Height: 10}
	result := model.Evaluate([]*Component{a}, nil, small)
	wantArea := 20.0*20.0 - 10.0*10.0
	if result.AreaCost != wantArea {
		t.Errorf("AreaCost = %v, want %v", result.AreaCost, wantArea)
	}

	large := geometry.Rectangle{Width: 100, Height: 100}
	result = model.Evaluate([]*Component{a}, nil, large)
	if result.AreaCost != 0 {
		t.Errorf("AreaCost = %v, want 0 when bbox fits inside area", result.AreaCost)
	}
}

func TestCostModelPowerCost(t *testing.T) {
	a := &Component{Name: "A", Position: geometry.Point{X: 0, Y: 0}, PowerConsumption: 1}
	b := &Component{Name: "B", Position: geometry.Point{X: 5, Y: 0}, PowerConsumption: 1}
	model := NewCostModel(DefaultOptimizationConfig())

	result := model.Evaluate([]*Component{a, b}, nil, geometry.Rectangle{Width: 100, Height: 100})
	want := 1.0 / (5 + 1)
	if diff := result.PowerCost - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("PowerCost = %v, want %v", result.PowerCost, want)
	}

	far := &Component{Name: "C", Position: geometry.Point{X: 50, Y: 0}, PowerConsumption: 1}
	result = model.Evaluate([]*Component{a, far}, nil, geometry.Rectangle{Width: 100, Height: 100})
	if result.PowerCost != 0 {
		t.Errorf("PowerCost = %v, want 0 beyond distance 10", result.PowerCost)
	}
}

func TestCostModelConstraintViolationsSpacingAndOutOfBounds(t *testing.T) {
	cfg := DefaultOptimizationConfig()
	cfg.MinSpacing = 2
	model := NewCostModel(cfg)

	a := rectComponent("A", 0, 0, 1, 1)
	b := rectComponent("B", 2, 0, 1, 1) // rect-to-rect distance is 1, short of MinSpacing=2 by 1
	area := geometry.Rectangle{Width: 100, Height: 100}

	result := model.Evaluate([]*Component{a, b}, nil, area)
	if diff := result.ConstraintViolations - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("ConstraintViolations = %v, want 1 (spacing gap)", result.ConstraintViolations)
	}

	outOfBounds := rectComponent("C", 200, 200, 1, 1)
	result = model.Evaluate([]*Component{a, b, outOfBounds}, nil, area)
	if result.ConstraintViolations < 100 {
		t.Errorf("ConstraintViolations = %v, want >= 100 with an out-of-bounds component", result.ConstraintViolations)
	}
}

func TestCostResultIsFeasible(t *testing.T) {
	feasible := CostResult{ConstraintViolations: 0}
	if !feasible.IsFeasible() {
		t.Error("zero violations should be feasible")
	}
	infeasible := CostResult{ConstraintViolations: 1e-3}
	if infeasible.IsFeasible() {
		t.Error("1e-3 violations should not be feasible")
	}
}
