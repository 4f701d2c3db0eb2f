package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	physics "github.com/lzzrhx/2d-physics-engine"
	"github.com/lzzrhx/2d-physics-engine/actor"
	"github.com/lzzrhx/2d-physics-engine/constraint"
)

// SetupScene creates the test scene: a static floor, a falling box with
// some restitution, and a two-body pendulum pinned to a static peg.
func SetupScene() (*physics.World, *actor.RigidBody, *actor.RigidBody) {
	world := &physics.World{
		Gravity:    mgl64.Vec2{0, -9.81},
		Iterations: 10,
	}

	// Static floor, 20 wide and 1 tall, top surface at y=0
	floorShape := actor.NewBoxShape(20.0, 1.0)
	floorBody := actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec2{0, -0.5}},
		floorShape,
		actor.BodyTypeStatic,
		0.0,
	)
	world.AddBody(floorBody)

	// Falling box, tilted so it lands on a corner
	boxShape := actor.NewBoxShape(1.0, 1.0)
	boxBody := actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec2{-3.0, 5.0}, Rotation: 0.4},
		boxShape,
		actor.BodyTypeDynamic,
		1.0,
	)
	boxBody.Material.Restitution = 0.3
	boxBody.Material.Friction = 0.4
	world.AddBody(boxBody)

	// Pendulum: a static peg and a ball pinned to it
	pegBody := actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec2{3.0, 4.0}},
		&actor.Circle{Radius: 0.1},
		actor.BodyTypeStatic,
		0.0,
	)
	world.AddBody(pegBody)

	ballBody := actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec2{4.5, 4.0}},
		&actor.Circle{Radius: 0.3},
		actor.BodyTypeDynamic,
		1.0,
	)
	world.AddBody(ballBody)

	world.AddJoint(constraint.NewJointConstraint(pegBody, ballBody, pegBody.Transform.Position))

	return world, boxBody, ballBody
}

func main() {
	world, boxBody, ballBody := SetupScene()

	world.Events.Subscribe(physics.COLLISION_ENTER, func(event physics.Event) {
		e := event.(physics.CollisionEnterEvent)
		fmt.Printf("  >> collision enter: %v <-> %v\n",
			e.BodyA.Transform.Position, e.BodyB.Transform.Position)
	})

	const dt = 1.0 / 60.0
	const maxSteps = 300

	for step := 0; step < maxSteps; step++ {
		world.Step(dt)

		if step%30 == 0 {
			fmt.Printf("--- step %d ---\n", step)
			fmt.Printf("  box:  position=%v rotation=%.3f velocity=%v\n",
				boxBody.Transform.Position, boxBody.Transform.Rotation, boxBody.Velocity)
			fmt.Printf("  ball: position=%v velocity=%v\n",
				ballBody.Transform.Position, ballBody.Velocity)
		}
	}

	fmt.Println("Done.")
	fmt.Printf("Final box position: %v (sleeping: %v)\n", boxBody.Transform.Position, boxBody.IsSleeping)
	fmt.Printf("Final ball position: %v\n", ballBody.Transform.Position)
}
