package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a pose in 2D space
type Transform struct {
	Position mgl64.Vec2
	Rotation float64 // radians
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{}
}

// LocalToWorld maps a point from the local frame to world space.
func (t Transform) LocalToWorld(point mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Rotate2D(t.Rotation).Mul2x1(point).Add(t.Position)
}

// WorldToLocal maps a world-space point into the local frame.
func (t Transform) WorldToLocal(point mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Rotate2D(-t.Rotation).Mul2x1(point.Sub(t.Position))
}
