package optimize

import (
	"github.com/zlayout/zlayout-go/geometry"
	"github.com/zlayout/zlayout-go/internal/zerr"
	"github.com/zlayout/zlayout-go/internal/zlog"
)

// CostResult is the breakdown CostModel.Evaluate returns, matching
// spec.md §6's CostResult contract.
type CostResult struct {
	TotalCost            float64
	WirelengthCost       float64
	TimingCost           float64
	AreaCost             float64
	PowerCost            float64
	ConstraintViolations float64
}

// IsFeasible reports whether the accumulated constraint violations are
// below geometry.FeasibilityEpsilon.
func (r CostResult) IsFeasible() bool {
	return r.ConstraintViolations < geometry.FeasibilityEpsilon
}

// CostModel evaluates a placement's wirelength, timing, area, power,
// and constraint-violation costs per spec.md §4.G.
type CostModel struct {
	Config OptimizationConfig
}

// NewCostModel builds a CostModel bound to config.
func NewCostModel(config OptimizationConfig) *CostModel {
	return &CostModel{Config: config}
}

// Evaluate scores components placed within placementArea against
// nets, silently skipping any net with a dangling component reference
// (spec.md §7, CodeDanglingNetReference — logged, not surfaced).
func (m *CostModel) Evaluate(components []*Component, nets []Net, placementArea geometry.Rectangle) CostResult {
	idx := indexComponents(components)

	wire := m.wirelengthCost(idx, nets)
	timing := m.timingCost(idx, nets)
	area := m.areaCost(components, placementArea)
	power := powerCost(components)
	violations := m.constraintViolations(components, placementArea)

	return CostResult{
		WirelengthCost:       wire,
		TimingCost:           timing,
		AreaCost:             area,
		PowerCost:            power,
		ConstraintViolations: violations,
		TotalCost: m.Config.WirelengthWeight*wire +
			m.Config.TimingWeight*timing +
			m.Config.AreaWeight*area +
			m.Config.PowerWeight*power +
			1000*violations,
	}
}

// netEndpoints resolves a net's driver and sink positions, logging and
// skipping the net if any referenced component does not exist.
func netEndpoints(idx componentIndex, net Net) (driver geometry.Point, sinks []geometry.Point, ok bool) {
	driver, ok = idx.resolve(net.Driver.Component)
	if !ok {
		zlog.Warn("dangling net reference, skipping", "code", zerr.CodeDanglingNetReference, "net", net.Name, "component", net.Driver.Component)
		return geometry.Point{}, nil, false
	}
	sinks = make([]geometry.Point, 0, len(net.Sinks))
	for _, s := range net.Sinks {
		p, found := idx.resolve(s.Component)
		if !found {
			zlog.Warn("dangling net reference, skipping", "code", zerr.CodeDanglingNetReference, "net", net.Name, "component", s.Component)
			return geometry.Point{}, nil, false
		}
		sinks = append(sinks, p)
	}
	return driver, sinks, true
}

// wirelengthCost is Σ nets: (Σ sinks ||driver-sink||) * weight * (1+criticality).
func (m *CostModel) wirelengthCost(idx componentIndex, nets []Net) float64 {
	var total float64
	for _, net := range nets {
		driver, sinks, ok := netEndpoints(idx, net)
		if !ok {
			continue
		}
		var sum float64
		for _, s := range sinks {
			sum += driver.DistanceTo(s)
		}
		total += sum * net.Weight * (1 + net.Criticality)
	}
	return total
}

// timingCost is Σ over nets with criticality > 0.8 of
// Σ sinks ||driver-sink||^2 * criticality. Non-critical nets
// contribute zero.
func (m *CostModel) timingCost(idx componentIndex, nets []Net) float64 {
	var total float64
	for _, net := range nets {
		if net.Criticality <= 0.8 {
			continue
		}
		driver, sinks, ok := netEndpoints(idx, net)
		if !ok {
			continue
		}
		for _, s := range sinks {
			d := driver.DistanceTo(s)
			total += d * d * net.Criticality
		}
	}
	return total
}

// areaCost is max(0, bbox(all placed components).area - placementArea.area).
func (m *CostModel) areaCost(components []*Component, placementArea geometry.Rectangle) float64 {
	if len(components) == 0 {
		return 0
	}
	rects := make([]geometry.Rectangle, len(components))
	for i, c := range components {
		rects[i] = c.PlacedRect()
	}
	bbox := geometry.BoundingBoxOfRectangles(rects)
	diff := bbox.Area() - placementArea.Area()
	if diff < 0 {
		return 0
	}
	return diff
}

// powerCost sums, over unordered component pairs whose power product
// exceeds 1e-3 and whose center distance is below 10, (p_i*p_j)/(d+1).
func powerCost(components []*Component) float64 {
	var total float64
	for i := 0; i < len(components); i++ {
		for j := i + 1; j < len(components); j++ {
			pi, pj := components[i].PowerConsumption, components[j].PowerConsumption
			product := pi * pj
			if product <= 1e-3 {
				continue
			}
			d := components[i].PlacedRect().Center().DistanceTo(components[j].PlacedRect().Center())
			if d >= 10 {
				continue
			}
			total += product / (d + 1)
		}
	}
	return total
}

// constraintViolations sums, over unordered pairs, max(0, minSpacing -
// rectDistance), plus 100 per component whose shape rectangle is not
// fully inside placementArea.
func (m *CostModel) constraintViolations(components []*Component, placementArea geometry.Rectangle) float64 {
	var total float64
	for i := 0; i < len(components); i++ {
		ri := components[i].PlacedRect()
		for j := i + 1; j < len(components); j++ {
			rj := components[j].PlacedRect()
			gap := m.Config.MinSpacing - ri.DistanceTo(rj)
			if gap > 0 {
				total += gap
			}
		}
		if !placementArea.ContainsRectangle(ri) {
			total += 100
		}
	}
	return total
}
