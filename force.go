package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lzzrhx/2d-physics-engine/actor"
)

// Force generators compute forces to feed RigidBody.AddForce; they never
// mutate the bodies themselves.

// GenerateDragForce returns an aerodynamic drag force proportional to the
// squared speed, opposing the velocity.
func GenerateDragForce(body *actor.RigidBody, k float64) mgl64.Vec2 {
	speedSquared := body.Velocity.Dot(body.Velocity)
	if speedSquared <= 0 {
		return mgl64.Vec2{}
	}

	direction := body.Velocity.Normalize().Mul(-1)
	return direction.Mul(k * speedSquared)
}

// GenerateFrictionForce returns a kinetic surface friction force of
// constant magnitude k, opposing the velocity.
func GenerateFrictionForce(body *actor.RigidBody, k float64) mgl64.Vec2 {
	if body.Velocity.Dot(body.Velocity) <= 0 {
		return mgl64.Vec2{}
	}

	return body.Velocity.Normalize().Mul(-k)
}

// GenerateGravitationalForce returns the attraction exerted on a by b.
// The squared distance is clamped to [minDistance², maxDistance²] to keep
// close encounters from exploding numerically.
func GenerateGravitationalForce(a, b *actor.RigidBody, g, minDistance, maxDistance float64) mgl64.Vec2 {
	d := b.Transform.Position.Sub(a.Transform.Position)
	distanceSquared := mgl64.Clamp(d.Dot(d), minDistance*minDistance, maxDistance*maxDistance)
	if distanceSquared <= 0 {
		return mgl64.Vec2{}
	}

	magnitude := g * a.Material.GetMass() * b.Material.GetMass() / distanceSquared
	return d.Normalize().Mul(magnitude)
}

// GenerateSpringForce returns the force of a spring of stiffness k and the
// given rest length, attached between the body and a fixed world anchor.
func GenerateSpringForce(body *actor.RigidBody, anchor mgl64.Vec2, restLength, k float64) mgl64.Vec2 {
	d := body.Transform.Position.Sub(anchor)
	length := d.Len()
	if length == 0 {
		return mgl64.Vec2{}
	}

	displacement := length - restLength
	return d.Mul(1.0 / length).Mul(-k * displacement)
}

// GenerateSpringForceBodies returns the spring force exerted on a by a
// spring attached to b. The force on b is the exact opposite.
func GenerateSpringForceBodies(a, b *actor.RigidBody, restLength, k float64) mgl64.Vec2 {
	d := a.Transform.Position.Sub(b.Transform.Position)
	length := d.Len()
	if length == 0 {
		return mgl64.Vec2{}
	}

	displacement := length - restLength
	return d.Mul(1.0 / length).Mul(-k * displacement)
}
