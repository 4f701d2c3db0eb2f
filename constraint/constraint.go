package constraint

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lzzrhx/2d-physics-engine/actor"
)

// slop is the positional error tolerated before the Baumgarte bias starts
// injecting corrective velocity. Without it, tiny drifts would keep feeding
// energy into the system.
const slop = 0.01

// Constraint restricts the relative motion of a pair of rigid bodies by
// applying corrective impulses to their velocities. PreSolve must run once
// per step before Solve; Solve may then be called any number of times, each
// call refining the accumulated impulse (sequential impulse method).
type Constraint interface {
	PreSolve(dt float64)
	Solve()
}

// bodyPair holds the two participating bodies. Constraints reference bodies,
// they never own them; both bodies must outlive the constraint.
type bodyPair struct {
	a *actor.RigidBody
	b *actor.RigidBody
}

// GetVelocities assembles the 6-component velocity vector
// [a.vx, a.vy, a.ω, b.vx, b.vy, b.ω].
func (p bodyPair) GetVelocities() *mgl64.VecN {
	v := mgl64.NewVecN(6)
	v.Set(0, p.a.Velocity.X())
	v.Set(1, p.a.Velocity.Y())
	v.Set(2, p.a.AngularVelocity)
	v.Set(3, p.b.Velocity.X())
	v.Set(4, p.b.Velocity.Y())
	v.Set(5, p.b.AngularVelocity)
	return v
}

// GetInvM assembles the 6×6 diagonal inverse mass/inertia matrix. Static
// bodies contribute zero entries, which the solver tolerates by skipping
// the degenerate diagonal.
func (p bodyPair) GetInvM() *mgl64.MatMxN {
	invM := mgl64.NewMatrix(6, 6)
	invM.Zero(6, 6)
	invM.Set(0, 0, p.a.InvMass)
	invM.Set(1, 1, p.a.InvMass)
	invM.Set(2, 2, p.a.InvI)
	invM.Set(3, 3, p.b.InvMass)
	invM.Set(4, 4, p.b.InvMass)
	invM.Set(5, 5, p.b.InvI)
	return invM
}

// applyImpulses splits a 6-component impulse vector into the linear and
// angular contributions of each body and applies them.
func (p bodyPair) applyImpulses(impulses *mgl64.VecN) {
	p.a.ApplyImpulseLinear(mgl64.Vec2{impulses.Get(0), impulses.Get(1)})
	p.a.ApplyImpulseAngular(impulses.Get(2))
	p.b.ApplyImpulseLinear(mgl64.Vec2{impulses.Get(3), impulses.Get(4)})
	p.b.ApplyImpulseAngular(impulses.Get(5))
}

// ComputeRestitution combines the restitution of two materials.
// The less bouncy material wins.
func ComputeRestitution(matA, matB actor.Material) float64 {
	return math.Min(matA.Restitution, matB.Restitution)
}

// ComputeFriction combines the friction of two materials.
// The rougher material wins.
func ComputeFriction(matA, matB actor.Material) float64 {
	return math.Max(matA.Friction, matB.Friction)
}
