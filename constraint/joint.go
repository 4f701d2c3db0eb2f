package constraint

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lzzrhx/2d-physics-engine/actor"
)

// JointConstraint pins an anchor point of body A to an anchor point of
// body B, as an equality constraint on the squared distance between them.
// The anchors are captured in each body's local frame at construction, so
// they follow the bodies as they move.
type JointConstraint struct {
	bodyPair
	aPoint mgl64.Vec2 // anchor in a's local frame
	bPoint mgl64.Vec2 // anchor in b's local frame

	jacobian     *mgl64.MatMxN
	cachedLambda *mgl64.VecN
	bias         float64
}

// NewJointConstraint creates a pin joint between a and b at the given
// world-space anchor point. Both anchors should initially coincide there.
func NewJointConstraint(a, b *actor.RigidBody, anchorPoint mgl64.Vec2) *JointConstraint {
	jc := &JointConstraint{
		bodyPair: bodyPair{a: a, b: b},
		aPoint:   a.WorldSpaceToLocalSpace(anchorPoint),
		bPoint:   b.WorldSpaceToLocalSpace(anchorPoint),
		jacobian: mgl64.NewMatrix(1, 6),
	}
	jc.jacobian.Zero(1, 6)
	jc.cachedLambda = mgl64.NewVecN(1)
	jc.cachedLambda.Zero(1)
	return jc
}

// PreSolve rebuilds the Jacobian for the current poses, warm-starts the
// bodies with the impulse accumulated on the previous step, and computes
// the Baumgarte stabilization bias from the positional error.
func (c *JointConstraint) PreSolve(dt float64) {
	// Get the anchor point positions in world space
	pa := c.a.LocalSpaceToWorldSpace(c.aPoint)
	pb := c.b.LocalSpaceToWorldSpace(c.bPoint)

	ra := pa.Sub(c.a.Transform.Position)
	rb := pb.Sub(c.b.Transform.Position)

	// Jacobian of C = |pb - pa|² with respect to the six velocity DOFs
	c.jacobian.Zero(1, 6)

	j1 := pa.Sub(pb).Mul(2.0)
	c.jacobian.Set(0, 0, j1.X()) // A linear velocity.x
	c.jacobian.Set(0, 1, j1.Y()) // A linear velocity.y

	j2 := actor.Cross(ra, pa.Sub(pb)) * 2.0
	c.jacobian.Set(0, 2, j2) // A angular velocity

	j3 := pb.Sub(pa).Mul(2.0)
	c.jacobian.Set(0, 3, j3.X()) // B linear velocity.x
	c.jacobian.Set(0, 4, j3.Y()) // B linear velocity.y

	j4 := actor.Cross(rb, pb.Sub(pa)) * 2.0
	c.jacobian.Set(0, 5, j4) // B angular velocity

	// Warm start: apply the impulse implied by the previous step's lambda
	jt := c.jacobian.Transpose(nil)
	c.applyImpulses(jt.MulNx1(nil, c.cachedLambda))

	// Baumgarte stabilization bias from the positional error
	const beta = 0.1
	positionError := pb.Sub(pa).Dot(pb.Sub(pa))
	positionError = math.Max(0.0, positionError-slop)
	c.bias = (beta / dt) * positionError
}

// Solve computes one sequential-impulse refinement: form the effective mass
// system J·invM·Jᵗ·λ = -J·V - bias, solve it, accumulate λ, and apply the
// resulting impulses. A pure equality constraint, so λ is never clamped.
func (c *JointConstraint) Solve() {
	v := c.GetVelocities()
	invM := c.GetInvM()
	jt := c.jacobian.Transpose(nil)

	lhs := c.jacobian.MulMxN(nil, invM).MulMxN(nil, jt)
	rhs := c.jacobian.MulNx1(nil, v).Mul(nil, -1.0)
	rhs.Set(0, rhs.Get(0)-c.bias)

	lambda := SolveGaussSeidel(lhs, rhs)
	c.cachedLambda.Add(c.cachedLambda, lambda)

	c.applyImpulses(jt.MulNx1(nil, lambda))
}
