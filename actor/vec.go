package actor

import "github.com/go-gl/mathgl/mgl64"

// Cross is the 2D cross product, the z component of the 3D cross product
// of the two vectors lifted into the xy plane.
func Cross(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// Perp returns the clockwise perpendicular of v. For a counter-clockwise
// polygon edge this is the outward normal direction.
func Perp(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{v.Y(), -v.X()}
}
