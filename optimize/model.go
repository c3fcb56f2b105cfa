// Package optimize implements the layout cost model and the
// simulated-annealing and force-directed placement algorithms that
// evaluate and improve a Component placement.
package optimize

import "github.com/zlayout/zlayout-go/geometry"

// Component is a placement record: a name, a local shape rectangle
// (width/height at the origin), a current position, a power figure,
// a fixed flag, and opaque pin-name lists. Its lifetime is owned by
// whichever optimizer holds it.
type Component struct {
	Name             string
	Shape            geometry.Rectangle
	Position         geometry.Point
	PowerConsumption float64
	IsFixed          bool
	InputPins        []string
	OutputPins       []string
}

// PlacedRect is the component's shape translated to its current
// position; Position is the rectangle's minimum corner.
func (c *Component) PlacedRect() geometry.Rectangle {
	return geometry.Rectangle{
		X:      c.Position.X,
		Y:      c.Position.Y,
		Width:  c.Shape.Width,
		Height: c.Shape.Height,
	}
}

// PinRef names a single pin on a single component.
type PinRef struct {
	Component string
	Pin       string
}

// Net is an electrical connection from one driver pin to one or more
// sink pins. A net is well-formed iff every component it references
// exists; cost evaluation silently skips nets with dangling
// references (spec.md §7, CodeDanglingNetReference).
type Net struct {
	Name        string
	Driver      PinRef
	Sinks       []PinRef
	Criticality float64
	Weight      float64
}

// componentIndex resolves component names to their current position
// for a single cost evaluation or force-sum pass.
type componentIndex map[string]*Component

func indexComponents(components []*Component) componentIndex {
	idx := make(componentIndex, len(components))
	for _, c := range components {
		idx[c.Name] = c
	}
	return idx
}

// resolve returns the named component's position, or ok=false if it
// does not exist in idx.
func (idx componentIndex) resolve(name string) (geometry.Point, bool) {
	c, ok := idx[name]
	if !ok {
		return geometry.Point{}, false
	}
	return c.Position, true
}
