package constraint

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// newContact builds a contact between a dynamic circle of radius 0.5
// centered at (0, aY) and a static circle of radius 0.5 at the origin.
// The contact normal points from the dynamic body down into the static
// one, with penetration depth 1-aY.
func newContact(aY float64) *PenetrationConstraint {
	a := newTestBody(0, aY)
	b := newStaticBody(0, 0)

	normal := mgl64.Vec2{0, -1}
	start := mgl64.Vec2{0, 0.5}    // on b's surface, deepest into a
	end := mgl64.Vec2{0, aY - 0.5} // on a's surface
	return NewPenetrationConstraint(a, b, start, end, normal)
}

// approachVelocity is the relative velocity at the contact projected on
// the normal: positive while the bodies move toward each other.
func (c *PenetrationConstraint) approachVelocity() float64 {
	n := c.a.LocalSpaceToWorldSpace(c.normal)
	return c.a.Velocity.Sub(c.b.Velocity).Dot(n)
}

func TestPenetrationConstraint_StopsApproach(t *testing.T) {
	c := newContact(0.8)
	c.a.Velocity = mgl64.Vec2{0, -2}

	const dt = 1.0 / 60.0
	c.PreSolve(dt)
	for i := 0; i < 10; i++ {
		c.Solve()
	}

	if v := c.approachVelocity(); v > 1e-9 {
		t.Errorf("bodies still approaching at %v after solving", v)
	}
	if lambda := c.cachedLambda.Get(0); lambda < 0 {
		t.Errorf("accumulated normal impulse = %v, want >= 0", lambda)
	}
	if c.b.Velocity != (mgl64.Vec2{}) || c.b.AngularVelocity != 0 {
		t.Errorf("static body moved: velocity=%v angular=%v", c.b.Velocity, c.b.AngularVelocity)
	}
}

func TestPenetrationConstraint_NeverPulls(t *testing.T) {
	// The bodies overlap but separate faster than the Baumgarte term
	// pushes: the raw solve yields a negative lambda, which the clamp
	// must discard without touching the velocities
	c := newContact(0.8)
	c.a.Velocity = mgl64.Vec2{0, 5}

	const dt = 1.0 / 60.0
	c.PreSolve(dt)
	for i := 0; i < 10; i++ {
		c.Solve()

		if lambda := c.cachedLambda.Get(0); lambda != 0 {
			t.Fatalf("accumulated normal impulse = %v, want 0 for separating bodies", lambda)
		}
	}

	if c.a.Velocity != (mgl64.Vec2{0, 5}) {
		t.Errorf("separating body velocity = %v, want unchanged {0 5}", c.a.Velocity)
	}
}

func TestPenetrationConstraint_FrictionCone(t *testing.T) {
	c := newContact(0.8)
	c.a.Material.Friction = 0.5
	c.b.Material.Friction = 0.2
	c.a.Velocity = mgl64.Vec2{3, -1}

	const dt = 1.0 / 60.0
	c.PreSolve(dt)

	if c.friction != 0.5 {
		t.Fatalf("friction = %v, want the larger of the two materials, 0.5", c.friction)
	}

	for i := 0; i < 10; i++ {
		c.Solve()

		normalImpulse := c.cachedLambda.Get(0)
		tangentImpulse := c.cachedLambda.Get(1)
		if normalImpulse < 0 {
			t.Fatalf("accumulated normal impulse = %v, want >= 0", normalImpulse)
		}
		if limit := normalImpulse * c.friction; math.Abs(tangentImpulse) > limit+1e-9 {
			t.Fatalf("tangential impulse %v outside friction cone ±%v", tangentImpulse, limit)
		}
	}
}

func TestPenetrationConstraint_FrictionlessHasNoTangentImpulse(t *testing.T) {
	c := newContact(0.8)
	c.a.Velocity = mgl64.Vec2{3, -1}

	const dt = 1.0 / 60.0
	c.PreSolve(dt)
	for i := 0; i < 10; i++ {
		c.Solve()
	}

	for j := 0; j < 6; j++ {
		if v := c.jacobian.At(1, j); v != 0 {
			t.Errorf("jacobian[1][%d] = %v, want 0 without friction", j, v)
		}
	}
	if tangentImpulse := c.cachedLambda.Get(1); tangentImpulse != 0 {
		t.Errorf("tangential impulse = %v, want 0 without friction", tangentImpulse)
	}
	// Without a tangent row, the sideways motion passes through untouched
	if vx := c.a.Velocity.X(); vx != 3 {
		t.Errorf("tangential velocity = %v, want unchanged 3", vx)
	}
}

func TestPenetrationConstraint_Bias(t *testing.T) {
	const dt = 1.0 / 60.0

	tests := []struct {
		name         string
		aY           float64
		velocity     mgl64.Vec2
		restitutionA float64
		restitutionB float64
		want         float64
	}{
		{
			name:     "baumgarte pushes out of deep penetration",
			aY:       0.8,
			velocity: mgl64.Vec2{0, -2},
			// (0.2/dt) * (-0.2 + 0.01)
			want: -2.28,
		},
		{
			name:         "restitution adds the approach velocity",
			aY:           0.8,
			velocity:     mgl64.Vec2{0, -2},
			restitutionA: 1.0,
			restitutionB: 1.0,
			// -2.28 from baumgarte, +2 from the approach velocity
			want: -0.28,
		},
		{
			name: "slop swallows shallow penetration",
			aY:   0.995,
			want: 0.0,
		},
		{
			name:         "restitution at rest contributes nothing",
			aY:           0.8,
			restitutionA: 0.5,
			restitutionB: 1.0,
			want:         -2.28,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContact(tt.aY)
			c.a.Velocity = tt.velocity
			c.a.Material.Restitution = tt.restitutionA
			c.b.Material.Restitution = tt.restitutionB

			c.PreSolve(dt)

			if math.Abs(c.bias-tt.want) > 1e-9 {
				t.Errorf("bias = %v, want %v", c.bias, tt.want)
			}
		})
	}
}

func TestPenetrationConstraint_WarmStartReproducible(t *testing.T) {
	build := func() *PenetrationConstraint {
		c := newContact(0.8)
		c.a.Material.Friction = 0.4
		c.b.Material.Friction = 0.4
		c.a.Velocity = mgl64.Vec2{1, -2}
		return c
	}

	const dt = 1.0 / 60.0
	run := func(c *PenetrationConstraint) {
		c.PreSolve(dt)
		for i := 0; i < 5; i++ {
			c.Solve()
		}
		c.PreSolve(dt)
	}

	c1 := build()
	c2 := build()
	run(c1)
	run(c2)

	if c1.a.Velocity != c2.a.Velocity || c1.a.AngularVelocity != c2.a.AngularVelocity {
		t.Errorf("body a diverged: %v/%v vs %v/%v",
			c1.a.Velocity, c1.a.AngularVelocity, c2.a.Velocity, c2.a.AngularVelocity)
	}
	if c1.cachedLambda.Get(0) != c2.cachedLambda.Get(0) || c1.cachedLambda.Get(1) != c2.cachedLambda.Get(1) {
		t.Errorf("accumulated impulses diverged: %v/%v vs %v/%v",
			c1.cachedLambda.Get(0), c1.cachedLambda.Get(1),
			c2.cachedLambda.Get(0), c2.cachedLambda.Get(1))
	}
}
