package optimize

import (
	"github.com/dhconnelly/rtreego"

	"github.com/zlayout/zlayout-go/geometry"
)

// rtreeMinChildren and rtreeMaxChildren size the neighbor index the
// force-directed placer rebuilds every iteration; these are rtreego's
// own fanout knobs and unrelated to spatial.RTree's spec-pinned M/m.
const (
	rtreeMinChildren = 4
	rtreeMaxChildren = 16
)

// ForceConfig parameterizes the force-directed placer's spring,
// repulsion, boundary, and integration constants (spec.md §4.I).
type ForceConfig struct {
	KSpring float64
	KRepel  float64
	Damping float64
	Dt      float64

	// BoundaryStrength scales the linear boundary-violation force.
	BoundaryStrength float64

	// RepulsionCutoff bounds how far the repulsion sum reaches via the
	// rtreego neighbor index; 0 means "no cutoff", which reproduces
	// the spec's exact all-pairs sum every iteration. A finite cutoff
	// trades a small amount of accuracy for speed on large component
	// counts, since 1/d^2 repulsion beyond a modest radius is already
	// negligible.
	RepulsionCutoff float64

	// ConvergenceVelocity is the |v| threshold below which every
	// movable component must sit before the placer reports converged.
	ConvergenceVelocity float64

	MaxIterations int
}

// DefaultForceConfig matches the source's documented constants.
func DefaultForceConfig() ForceConfig {
	return ForceConfig{
		KSpring:             1,
		KRepel:              1000,
		Damping:             0.9,
		Dt:                  0.01,
		BoundaryStrength:    100,
		RepulsionCutoff:     0,
		ConvergenceVelocity: 0.1,
		MaxIterations:       10_000,
	}
}

// ForceDirectedPlacer is the alternative to SA named in spec.md §4.I.
// It shares Component/Net with SA but evaluates forces directly
// rather than through CostModel's finite cost deltas.
type ForceDirectedPlacer struct {
	area   geometry.Rectangle
	config ForceConfig

	components []*Component
	nets       []Net

	velocities map[*Component]geometry.Point
}

// NewForceDirectedPlacer builds a placer bound to area and config.
func NewForceDirectedPlacer(area geometry.Rectangle, config ForceConfig) *ForceDirectedPlacer {
	return &ForceDirectedPlacer{
		area:       area,
		config:     config,
		velocities: make(map[*Component]geometry.Point),
	}
}

func (f *ForceDirectedPlacer) AddComponent(c *Component) { f.components = append(f.components, c) }
func (f *ForceDirectedPlacer) AddNet(n Net)              { f.nets = append(f.nets, n) }

// rtreeEntry adapts a *Component to rtreego.Spatial so the repulsion
// sum can prune distant components via MBR search instead of scanning
// every other component on every iteration.
type rtreeEntry struct {
	c    *Component
	bbox rtreego.Rect
}

func (e *rtreeEntry) Bounds() rtreego.Rect { return e.bbox }

// buildComponentTree indexes every component's current position and
// returns the tree along with a rectangle covering all of them (with
// margin), used as the "everyone" search when RepulsionCutoff is 0.
func buildComponentTree(components []*Component) (*rtreego.Rtree, geometry.Rectangle) {
	tree := rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren)
	pts := make([]geometry.Point, 0, len(components))
	for _, c := range components {
		pts = append(pts, c.Position)
		rect, err := rtreego.NewRect(rtreego.Point{c.Position.X, c.Position.Y}, []float64{1e-9, 1e-9})
		if err != nil {
			continue
		}
		tree.Insert(&rtreeEntry{c: c, bbox: rect})
	}
	cover := geometry.BoundingBoxOfPoints(pts).Expand(1)
	return tree, cover
}

// Run iterates the velocity-Verlet integration until every movable
// component's speed drops below config.ConvergenceVelocity or
// config.MaxIterations is reached, returning the iteration count and
// whether it converged.
func (f *ForceDirectedPlacer) Run() (iterations int, converged bool) {
	maxIter := f.config.MaxIterations
	if maxIter <= 0 {
		maxIter = 10_000
	}
	convVel := f.config.ConvergenceVelocity
	if convVel <= 0 {
		convVel = 0.1
	}

	for iterations = 0; iterations < maxIter; iterations++ {
		tree, cover := buildComponentTree(f.components)
		allConverged := true

		for _, c := range f.components {
			if c.IsFixed {
				continue
			}
			force := f.netForce(c)
			force = force.Add(f.repulsionForce(c, tree, cover))
			force = force.Add(f.boundaryForce(c))

			v := f.velocities[c]
			v = geometry.Point{
				X: f.config.Damping*v.X + force.X*f.config.Dt,
				Y: f.config.Damping*v.Y + force.Y*f.config.Dt,
			}
			f.velocities[c] = v
			c.Position = geometry.Point{
				X: c.Position.X + v.X*f.config.Dt,
				Y: c.Position.Y + v.Y*f.config.Dt,
			}
			if v.Magnitude() >= convVel {
				allConverged = false
			}
		}

		if allConverged {
			return iterations + 1, true
		}
	}
	return iterations, false
}

// netForce sums, for every net touching c, k_spring * (centroid of the
// net's other participants - c.Position) * net.Weight.
func (f *ForceDirectedPlacer) netForce(c *Component) geometry.Point {
	idx := indexComponents(f.components)
	var total geometry.Point
	for _, net := range f.nets {
		touches := net.Driver.Component == c.Name
		for _, s := range net.Sinks {
			if s.Component == c.Name {
				touches = true
			}
		}
		if !touches {
			continue
		}
		others := otherParticipants(net, c.Name)
		if len(others) == 0 {
			continue
		}
		var sx, sy float64
		n := 0
		for _, name := range others {
			if p, ok := idx.resolve(name); ok {
				sx += p.X
				sy += p.Y
				n++
			}
		}
		if n == 0 {
			continue
		}
		centroid := geometry.Point{X: sx / float64(n), Y: sy / float64(n)}
		delta := centroid.Sub(c.Position).Mul(f.config.KSpring * net.Weight)
		total = total.Add(delta)
	}
	return total
}

// otherParticipants returns the names of every component on net other
// than self, whether self is the driver or a sink.
func otherParticipants(net Net, self string) []string {
	var names []string
	if net.Driver.Component != self {
		names = append(names, net.Driver.Component)
	}
	for _, s := range net.Sinks {
		if s.Component != self {
			names = append(names, s.Component)
		}
	}
	return names
}

// repulsionForce sums k_repel * (c.Position - other.Position) /
// ||.||^3 over the candidates tree returns for a search rectangle
// centered on c: config.RepulsionCutoff when positive, else cover (a
// rectangle spanning every current position, so the default
// reproduces the spec's exact all-pairs sum).
func (f *ForceDirectedPlacer) repulsionForce(c *Component, tree *rtreego.Rtree, cover geometry.Rectangle) geometry.Point {
	searchRect := cover
	if f.config.RepulsionCutoff > 0 {
		r := f.config.RepulsionCutoff
		searchRect = geometry.Rectangle{X: c.Position.X - r, Y: c.Position.Y - r, Width: 2 * r, Height: 2 * r}
	}
	rect, err := rtreego.NewRect(
		rtreego.Point{searchRect.X, searchRect.Y},
		[]float64{maxPositive(searchRect.Width), maxPositive(searchRect.Height)},
	)
	if err != nil {
		return geometry.Point{}
	}

	var total geometry.Point
	for _, item := range tree.SearchIntersect(rect) {
		entry := item.(*rtreeEntry)
		if entry.c == c {
			continue
		}
		delta := c.Position.Sub(entry.c.Position)
		dist := delta.Magnitude()
		if dist < geometry.Epsilon {
			continue
		}
		magnitude := f.config.KRepel / (dist * dist * dist)
		total = total.Add(delta.Mul(magnitude))
	}
	return total
}

// maxPositive guards rtreego.NewRect, which rejects non-positive side
// lengths; a single-point cover (e.g. one component) otherwise yields
// a zero-width rectangle.
func maxPositive(v float64) float64 {
	if v <= 0 {
		return 1e-9
	}
	return v
}

// boundaryForce is linear in the negative distance to each violated
// boundary edge, strength config.BoundaryStrength.
func (f *ForceDirectedPlacer) boundaryForce(c *Component) geometry.Point {
	rect := c.PlacedRect()
	var fx, fy float64
	strength := f.config.BoundaryStrength

	if over := f.area.MinX() - rect.MinX(); over > 0 {
		fx += strength * over
	}
	if over := rect.MaxX() - f.area.MaxX(); over > 0 {
		fx -= strength * over
	}
	if over := f.area.MinY() - rect.MinY(); over > 0 {
		fy += strength * over
	}
	if over := rect.MaxY() - f.area.MaxY(); over > 0 {
		fy -= strength * over
	}
	return geometry.Point{X: fx, Y: fy}
}
