package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, walls)
	BodyTypeStatic
)

type Material struct {
	Density     float64
	mass        float64
	Restitution float64 // 0 = no rebound, 1 = perfect restitution
	Friction    float64

	LinearDamping  float64 // 0.0 - 1.0, typical: 0.01
	AngularDamping float64 // 0.0 - 1.0, typical: 0.05
}

func (material Material) GetMass() float64 {
	return material.mass
}

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	// Spatial properties
	Transform Transform

	// Linear motion
	Velocity mgl64.Vec2 // m/s
	InvMass  float64    // 1/mass, 0 for static bodies

	// Angular motion
	AngularVelocity float64 // rad/s
	InvI            float64 // inverse moment of inertia, 0 for static bodies

	accumulatedForce  mgl64.Vec2
	accumulatedTorque float64

	IsSleeping bool
	SleepTimer float64

	// Trigger bodies report overlaps but are never solved against
	IsTrigger bool
	Id        interface{}

	// Physical properties
	Material Material
	BodyType BodyType // Dynamic or Static

	// Collision shape
	Shape ShapeInterface
}

// NewRigidBody creates a new rigid body with the given properties
// density is used to calculate mass for dynamic bodies (ignored for static)
func NewRigidBody(transform Transform, shape ShapeInterface, bodyType BodyType, density float64) *RigidBody {
	rb := &RigidBody{
		Transform: transform,
		Shape:     shape,
		BodyType:  bodyType,
	}

	if bodyType == BodyTypeStatic {
		// Static bodies have infinite mass, so zero inverse mass and inertia.
		// The solver relies on these zeros to keep them immovable.
		rb.Material = Material{
			Density: 0,
			mass:    math.Inf(1),
		}
		rb.InvMass = 0
		rb.InvI = 0
	} else {
		// Dynamic bodies compute mass from shape and density
		mass := shape.ComputeMass(density)
		rb.Material = Material{
			Density: density,
			mass:    mass,
		}
		if mass > 0 {
			rb.InvMass = 1.0 / mass
		}
		if inertia := shape.ComputeInertia(mass); inertia > 0 {
			rb.InvI = 1.0 / inertia
		}
	}

	rb.Shape.ComputeAABB(rb.Transform)

	return rb
}

// WorldSpaceToLocalSpace maps a world-space point into the body's frame.
func (rb *RigidBody) WorldSpaceToLocalSpace(point mgl64.Vec2) mgl64.Vec2 {
	return rb.Transform.WorldToLocal(point)
}

// LocalSpaceToWorldSpace maps a point in the body's frame to world space.
func (rb *RigidBody) LocalSpaceToWorldSpace(point mgl64.Vec2) mgl64.Vec2 {
	return rb.Transform.LocalToWorld(point)
}

// ApplyImpulseLinear changes the linear velocity by an instantaneous impulse.
// Static bodies ignore impulses entirely.
func (rb *RigidBody) ApplyImpulseLinear(impulse mgl64.Vec2) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.InvMass))
}

// ApplyImpulseAngular changes the angular velocity by an instantaneous impulse.
func (rb *RigidBody) ApplyImpulseAngular(impulse float64) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	rb.AngularVelocity += impulse * rb.InvI
}

// ApplyImpulseAtPoint applies a linear impulse at an offset r from the center
// of mass, producing both linear and angular velocity changes.
func (rb *RigidBody) ApplyImpulseAtPoint(impulse, r mgl64.Vec2) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.InvMass))
	rb.AngularVelocity += Cross(r, impulse) * rb.InvI
}

func (rb *RigidBody) AddForce(force mgl64.Vec2) {
	if rb.BodyType != BodyTypeStatic {
		rb.Awake()

		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

func (rb *RigidBody) AddTorque(torque float64) {
	if rb.BodyType != BodyTypeStatic {
		rb.Awake()

		rb.accumulatedTorque += torque
	}
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec2{}
	rb.accumulatedTorque = 0
}

// IntegrateForces advances the velocities from the accumulated forces,
// torques and gravity. Positions are not touched here; the constraint
// solver runs on velocities between the two integration phases.
func (rb *RigidBody) IntegrateForces(dt float64, gravity mgl64.Vec2) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	acceleration := gravity.Add(rb.accumulatedForce.Mul(rb.InvMass))
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))
	rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.Material.LinearDamping * dt))

	rb.AngularVelocity += rb.accumulatedTorque * rb.InvI * dt
	rb.AngularVelocity *= math.Exp(-rb.Material.AngularDamping * dt)

	rb.ClearForces()
}

// IntegrateVelocities advances the pose from the solved velocities and
// refreshes the shape's world-space geometry.
func (rb *RigidBody) IntegrateVelocities(dt float64) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))
	rb.Transform.Rotation += rb.AngularVelocity * dt

	rb.Shape.ComputeAABB(rb.Transform)
}

// TrySleep sets the body to sleep if its velocity is lower than the threshold,
// for a given duration
func (rb *RigidBody) TrySleep(dt float64, timeThreshold float64, velocityThreshold float64) {
	if rb.Velocity.Len() < velocityThreshold && math.Abs(rb.AngularVelocity) < velocityThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timeThreshold {
			rb.Sleep()
		}
	} else {
		rb.Awake()
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.Shape.ComputeAABB(rb.Transform)
	rb.ClearForces()
	rb.Velocity = mgl64.Vec2{}
	rb.AngularVelocity = 0
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}
