package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lzzrhx/2d-physics-engine/actor"
	"github.com/lzzrhx/2d-physics-engine/constraint"
)

const (
	DEFAULT_WORKERS    = 1
	DEFAULT_ITERATIONS = 8
)

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// User constraints (joints), solved together with the contacts
	Joints []constraint.Constraint
	// Gravity acceleration (m/s²)
	Gravity mgl64.Vec2
	// Number of Solve sweeps per step; more iterations trade computation
	// for convergence accuracy
	Iterations  int
	SpatialGrid *SpatialGrid
	Workers     int

	Events Events
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a rigid body from the world. The caller must also
// remove any joint referencing it: constraints never outlive their bodies.
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	w.Events.forget(body)
}

// AddJoint registers a user constraint, solved every step in insertion order
func (w *World) AddJoint(joint constraint.Constraint) {
	w.Joints = append(w.Joints, joint)
}

// RemoveJoint unregisters a user constraint
func (w *World) RemoveJoint(joint constraint.Constraint) {
	for i, j := range w.Joints {
		if j == joint {
			w.Joints = append(w.Joints[:i], w.Joints[i+1:]...)
			return
		}
	}
}

func (w *World) Step(dt float64) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	iterations := w.Iterations
	if iterations <= 0 {
		iterations = DEFAULT_ITERATIONS
	}
	if w.SpatialGrid == nil {
		w.SpatialGrid = NewSpatialGrid(10.0, 1024)
	}

	// Phase 1: integrate forces into velocities
	w.integrateForces(dt)

	// Phase 2: collision pair finding, broad then narrow phase
	contacts := w.detectCollision()
	contacts = w.Events.recordCollisions(contacts)

	// Phase 3: sequential impulse solver. Joints first in insertion order,
	// then contacts in broad-phase order: the order is deterministic, and
	// every constraint sees the velocity updates of those before it.
	constraints := make([]constraint.Constraint, 0, len(w.Joints)+len(contacts))
	constraints = append(constraints, w.Joints...)
	for _, contact := range contacts {
		constraints = append(constraints, constraint.NewPenetrationConstraint(
			contact.A, contact.B, contact.Start, contact.End, contact.Normal,
		))
	}

	for _, c := range constraints {
		c.PreSolve(dt)
	}
	for i := 0; i < iterations; i++ {
		for _, c := range constraints {
			c.Solve()
		}
	}

	// Phase 4: integrate velocities into positions
	w.integrateVelocities(dt)

	w.trySleep(dt)

	w.Events.processSleepEvents(w.Bodies)
	w.Events.flush()
}

func (w *World) integrateForces(dt float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.IntegrateForces(dt, w.Gravity)
	})
}

func (w *World) detectCollision() []Contact {
	return NarrowPhase(BroadPhase(w.SpatialGrid, w.Bodies), w.Workers)
}

func (w *World) integrateVelocities(dt float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.IntegrateVelocities(dt)
	})
}

// trySleep sets bodies to sleep when their velocity stays below the
// threshold for long enough; it also wakes any body pushed over it
func (w *World) trySleep(dt float64) {
	for _, body := range w.Bodies {
		body.TrySleep(dt, 0.5, 0.05)
	}
}
