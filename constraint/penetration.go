package constraint

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lzzrhx/2d-physics-engine/actor"
)

// PenetrationConstraint resolves a single contact between two bodies: an
// inequality constraint that pushes them apart along the contact normal
// (row 0) with Coulomb-like friction along the tangent (row 1). Contacts
// can only push, never pull, so the accumulated normal impulse is clamped
// to stay non-negative and the tangential impulse to the friction cone.
type PenetrationConstraint struct {
	bodyPair
	aPoint mgl64.Vec2 // collision point in a's local frame
	bPoint mgl64.Vec2 // collision point in b's local frame
	normal mgl64.Vec2 // contact normal in a's local frame

	jacobian     *mgl64.MatMxN
	cachedLambda *mgl64.VecN
	bias         float64
	friction     float64
}

// NewPenetrationConstraint creates a contact constraint from a collision
// detection result: the collision point on each body and the contact
// normal, all in world space.
func NewPenetrationConstraint(a, b *actor.RigidBody, aCollisionPoint, bCollisionPoint, normal mgl64.Vec2) *PenetrationConstraint {
	pc := &PenetrationConstraint{
		bodyPair: bodyPair{a: a, b: b},
		aPoint:   a.WorldSpaceToLocalSpace(aCollisionPoint),
		bPoint:   b.WorldSpaceToLocalSpace(bCollisionPoint),
		normal:   a.WorldSpaceToLocalSpace(normal),
		jacobian: mgl64.NewMatrix(2, 6),
	}
	pc.jacobian.Zero(2, 6)
	pc.cachedLambda = mgl64.NewVecN(2)
	pc.cachedLambda.Zero(2)
	return pc
}

// PreSolve rebuilds the two-row Jacobian, warm-starts with the cached
// impulse, and computes the bias combining Baumgarte stabilization of the
// penetration depth with restitution of the approach velocity.
func (c *PenetrationConstraint) PreSolve(dt float64) {
	// Get the collision points and normal in world space
	pa := c.a.LocalSpaceToWorldSpace(c.aPoint)
	pb := c.b.LocalSpaceToWorldSpace(c.bPoint)
	n := c.a.LocalSpaceToWorldSpace(c.normal)

	ra := pa.Sub(c.a.Transform.Position)
	rb := pb.Sub(c.b.Transform.Position)

	c.jacobian.Zero(2, 6)

	// Row 0: non-penetration along the normal
	c.jacobian.Set(0, 0, -n.X())
	c.jacobian.Set(0, 1, -n.Y())
	c.jacobian.Set(0, 2, -actor.Cross(ra, n))
	c.jacobian.Set(0, 3, n.X())
	c.jacobian.Set(0, 4, n.Y())
	c.jacobian.Set(0, 5, actor.Cross(rb, n))

	// Row 1: friction along the tangent, only when some friction applies.
	// Otherwise the row stays zero and no tangential impulse is produced.
	c.friction = ComputeFriction(c.a.Material, c.b.Material)
	if c.friction > 0.0 {
		t := actor.Perp(n).Normalize()
		c.jacobian.Set(1, 0, -t.X())
		c.jacobian.Set(1, 1, -t.Y())
		c.jacobian.Set(1, 2, -actor.Cross(ra, t))
		c.jacobian.Set(1, 3, t.X())
		c.jacobian.Set(1, 4, t.Y())
		c.jacobian.Set(1, 5, actor.Cross(rb, t))
	}

	// Warm start: apply the impulse implied by the previous step's lambda
	jt := c.jacobian.Transpose(nil)
	c.applyImpulses(jt.MulNx1(nil, c.cachedLambda))

	// Baumgarte stabilization, only corrective while interpenetrating
	const beta = 0.2
	positionError := pb.Sub(pa).Dot(n.Mul(-1))
	positionError = math.Min(0.0, positionError+slop)

	// Pre-impulse relative velocity at the contact along the normal,
	// used for restitution
	va := c.a.Velocity.Add(mgl64.Vec2{-c.a.AngularVelocity * ra.Y(), c.a.AngularVelocity * ra.X()})
	vb := c.b.Velocity.Add(mgl64.Vec2{-c.b.AngularVelocity * rb.Y(), c.b.AngularVelocity * rb.X()})
	vrelDotNormal := va.Sub(vb).Dot(n)

	e := ComputeRestitution(c.a.Material, c.b.Material)

	c.bias = (beta/dt)*positionError + e*vrelDotNormal
}

// Solve computes one sequential-impulse refinement. The raw solved lambda
// is folded into the accumulated lambda, the accumulation is clamped to
// the physical bounds, and only the post-clamp delta is applied: applying
// the raw lambda would let contacts pull or exceed the friction cone.
func (c *PenetrationConstraint) Solve() {
	v := c.GetVelocities()
	invM := c.GetInvM()
	jt := c.jacobian.Transpose(nil)

	lhs := c.jacobian.MulMxN(nil, invM).MulMxN(nil, jt)
	rhs := c.jacobian.MulNx1(nil, v).Mul(nil, -1.0)
	rhs.Set(0, rhs.Get(0)-c.bias)

	lambda := SolveGaussSeidel(lhs, rhs)

	oldLambda := mgl64.NewVecN(2)
	oldLambda.Set(0, c.cachedLambda.Get(0))
	oldLambda.Set(1, c.cachedLambda.Get(1))

	c.cachedLambda.Add(c.cachedLambda, lambda)

	// Contacts push, never pull
	if c.cachedLambda.Get(0) < 0.0 {
		c.cachedLambda.Set(0, 0.0)
	}

	// Box approximation of the Coulomb friction cone, bounded by the
	// current accumulated normal impulse
	if c.friction > 0.0 {
		maxFriction := c.cachedLambda.Get(0) * c.friction
		c.cachedLambda.Set(1, mgl64.Clamp(c.cachedLambda.Get(1), -maxFriction, maxFriction))
	}

	delta := c.cachedLambda.Sub(nil, oldLambda)
	c.applyImpulses(jt.MulNx1(nil, delta))
}
