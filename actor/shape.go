package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeCircle ShapeType = iota
	ShapeTypePolygon
)

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	// ComputeAABB refreshes the world-space bounding box (and any cached
	// world-space geometry) for the shape at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// ComputeMass calculates the mass of the shape given a density
	ComputeMass(density float64) float64
	// ComputeInertia calculates the moment of inertia about the shape's
	// center of mass. In 2D this is a scalar.
	ComputeInertia(mass float64) float64
}

// Circle represents a circular collision shape
type Circle struct {
	Radius float64
	aabb   AABB
}

// ComputeAABB calculates the axis-aligned bounding box for the circle
func (c *Circle) ComputeAABB(transform Transform) {
	// Circle AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec2{c.Radius, c.Radius}

	c.aabb = AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (c *Circle) GetAABB() AABB {
	return c.aabb
}

// ComputeMass calculates the mass of the circle
func (c *Circle) ComputeMass(density float64) float64 {
	return density * math.Pi * c.Radius * c.Radius
}

func (c *Circle) ComputeInertia(mass float64) float64 {
	// For a solid disc: I = (1/2) * m * r²
	return 0.5 * mass * c.Radius * c.Radius
}

// Polygon represents a convex polygon collision shape.
// Vertices are given counter-clockwise in the local frame, centered on the
// shape's center of mass.
type Polygon struct {
	Vertices []mgl64.Vec2

	worldVertices []mgl64.Vec2
	aabb          AABB
}

// NewBoxShape creates a rectangle polygon of the given full width and height,
// centered on its center of mass.
func NewBoxShape(width, height float64) *Polygon {
	hw, hh := width/2.0, height/2.0

	return &Polygon{
		Vertices: []mgl64.Vec2{
			{-hw, -hh},
			{+hw, -hh},
			{+hw, +hh},
			{-hw, +hh},
		},
	}
}

// ComputeAABB transforms the vertices to world space and rebuilds the
// bounding box around them.
func (p *Polygon) ComputeAABB(transform Transform) {
	if len(p.worldVertices) != len(p.Vertices) {
		p.worldVertices = make([]mgl64.Vec2, len(p.Vertices))
	}

	for i, vertex := range p.Vertices {
		p.worldVertices[i] = transform.LocalToWorld(vertex)
	}

	min := p.worldVertices[0]
	max := p.worldVertices[0]
	for _, vertex := range p.worldVertices[1:] {
		min[0] = math.Min(min[0], vertex[0])
		min[1] = math.Min(min[1], vertex[1])
		max[0] = math.Max(max[0], vertex[0])
		max[1] = math.Max(max[1], vertex[1])
	}

	p.aabb = AABB{Min: min, Max: max}
}

func (p *Polygon) GetAABB() AABB {
	return p.aabb
}

// WorldVertices returns the vertices in world space, as of the last
// ComputeAABB call.
func (p *Polygon) WorldVertices() []mgl64.Vec2 {
	return p.worldVertices
}

// EdgeAt returns the world-space edge starting at vertex i.
func (p *Polygon) EdgeAt(i int) mgl64.Vec2 {
	next := (i + 1) % len(p.worldVertices)
	return p.worldVertices[next].Sub(p.worldVertices[i])
}

// Area computes the polygon area with the shoelace formula.
// Counter-clockwise winding gives a positive area.
func (p *Polygon) Area() float64 {
	var doubled float64
	for i, vertex := range p.Vertices {
		next := p.Vertices[(i+1)%len(p.Vertices)]
		doubled += Cross(vertex, next)
	}
	return doubled / 2.0
}

// ComputeMass calculates the mass of the polygon
func (p *Polygon) ComputeMass(density float64) float64 {
	return density * p.Area()
}

// ComputeInertia calculates the second moment of area about the local
// origin, scaled by mass. Vertices are assumed centered on the centroid,
// so this is the moment about the center of mass. For a w×h box this
// reduces to (1/12)·m·(w²+h²).
func (p *Polygon) ComputeInertia(mass float64) float64 {
	var numerator, denominator float64
	for i, vertex := range p.Vertices {
		next := p.Vertices[(i+1)%len(p.Vertices)]
		cross := Cross(vertex, next)
		numerator += cross * (vertex.Dot(vertex) + vertex.Dot(next) + next.Dot(next))
		denominator += cross
	}
	if denominator == 0 {
		return 0
	}
	return mass * numerator / (6.0 * denominator)
}
