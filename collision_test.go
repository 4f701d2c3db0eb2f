package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lzzrhx/2d-physics-engine/actor"
)

func newCircleBody(x, y, radius float64, bodyType actor.BodyType) *actor.RigidBody {
	return actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec2{x, y}},
		&actor.Circle{Radius: radius},
		bodyType,
		1.0,
	)
}

func newBoxBody(x, y, width, height float64, bodyType actor.BodyType) *actor.RigidBody {
	return actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec2{x, y}},
		actor.NewBoxShape(width, height),
		bodyType,
		1.0,
	)
}

func vec2Near(a, b mgl64.Vec2, tolerance float64) bool {
	return a.Sub(b).Len() <= tolerance
}

// checkContact verifies the structural invariants every contact obeys:
// a unit normal pointing from A towards B and End = Start + Normal·Depth.
func checkContact(t *testing.T, contact Contact) {
	t.Helper()

	if length := contact.Normal.Len(); math.Abs(length-1.0) > 1e-9 {
		t.Errorf("normal %v is not unit length (%v)", contact.Normal, length)
	}
	if contact.Depth < 0 {
		t.Errorf("depth = %v, want >= 0", contact.Depth)
	}

	reconstructed := contact.Start.Add(contact.Normal.Mul(contact.Depth))
	if !vec2Near(reconstructed, contact.End, 1e-9) {
		t.Errorf("End = %v, want Start + Normal·Depth = %v", contact.End, reconstructed)
	}

	ab := contact.B.Transform.Position.Sub(contact.A.Transform.Position)
	if ab.Dot(contact.Normal) < 0 {
		t.Errorf("normal %v points away from B", contact.Normal)
	}
}

func TestIsColliding_CircleCircle(t *testing.T) {
	a := newCircleBody(0, 0, 1.0, actor.BodyTypeDynamic)
	b := newCircleBody(1.5, 0, 1.0, actor.BodyTypeDynamic)

	ok, contact := IsColliding(a, b)
	if !ok {
		t.Fatal("overlapping circles reported as separated")
	}
	checkContact(t, contact)

	if contact.Normal != (mgl64.Vec2{1, 0}) {
		t.Errorf("Normal = %v, want {1 0}", contact.Normal)
	}
	if math.Abs(contact.Depth-0.5) > 1e-12 {
		t.Errorf("Depth = %v, want 0.5", contact.Depth)
	}
	if !vec2Near(contact.Start, mgl64.Vec2{0.5, 0}, 1e-12) {
		t.Errorf("Start = %v, want {0.5 0}", contact.Start)
	}
	if !vec2Near(contact.End, mgl64.Vec2{1, 0}, 1e-12) {
		t.Errorf("End = %v, want {1 0}", contact.End)
	}
}

func TestIsColliding_CircleCircleSeparated(t *testing.T) {
	a := newCircleBody(0, 0, 1.0, actor.BodyTypeDynamic)
	b := newCircleBody(2.5, 0, 1.0, actor.BodyTypeDynamic)

	if ok, _ := IsColliding(a, b); ok {
		t.Error("separated circles reported as colliding")
	}

	// Exactly touching counts as a contact of zero depth
	c := newCircleBody(2.0, 0, 1.0, actor.BodyTypeDynamic)
	ok, contact := IsColliding(a, c)
	if !ok {
		t.Fatal("touching circles reported as separated")
	}
	if contact.Depth > 1e-12 {
		t.Errorf("Depth = %v, want 0 for touching circles", contact.Depth)
	}
}

func TestIsColliding_PolygonPolygon(t *testing.T) {
	a := newBoxBody(0, 0, 2, 2, actor.BodyTypeDynamic)
	b := newBoxBody(1.5, 0, 2, 2, actor.BodyTypeDynamic)

	ok, contact := IsColliding(a, b)
	if !ok {
		t.Fatal("overlapping boxes reported as separated")
	}
	checkContact(t, contact)

	if contact.Normal != (mgl64.Vec2{1, 0}) {
		t.Errorf("Normal = %v, want {1 0}", contact.Normal)
	}
	if math.Abs(contact.Depth-0.5) > 1e-12 {
		t.Errorf("Depth = %v, want 0.5", contact.Depth)
	}
}

func TestIsColliding_PolygonPolygonSeparated(t *testing.T) {
	a := newBoxBody(0, 0, 2, 2, actor.BodyTypeDynamic)

	tests := []struct {
		name string
		b    *actor.RigidBody
	}{
		{"apart on x", newBoxBody(2.5, 0, 2, 2, actor.BodyTypeDynamic)},
		{"apart on y", newBoxBody(0, -2.1, 2, 2, actor.BodyTypeDynamic)},
		{"apart diagonally", newBoxBody(2.5, 2.5, 2, 2, actor.BodyTypeDynamic)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ok, _ := IsColliding(a, tt.b); ok {
				t.Error("separated boxes reported as colliding")
			}
		})
	}
}

func TestIsColliding_PolygonCircleEdge(t *testing.T) {
	box := newBoxBody(0, 0, 2, 2, actor.BodyTypeStatic)
	circle := newCircleBody(0, 1.3, 0.5, actor.BodyTypeDynamic)

	ok, contact := IsColliding(box, circle)
	if !ok {
		t.Fatal("circle over the top edge reported as separated")
	}
	checkContact(t, contact)

	if contact.Normal != (mgl64.Vec2{0, 1}) {
		t.Errorf("Normal = %v, want {0 1}", contact.Normal)
	}
	if math.Abs(contact.Depth-0.2) > 1e-12 {
		t.Errorf("Depth = %v, want 0.2", contact.Depth)
	}
	if !vec2Near(contact.Start, mgl64.Vec2{0, 0.8}, 1e-12) {
		t.Errorf("Start = %v, want {0 0.8}", contact.Start)
	}
}

func TestIsColliding_PolygonCircleCorner(t *testing.T) {
	box := newBoxBody(0, 0, 2, 2, actor.BodyTypeStatic)
	circle := newCircleBody(1.4, 1.4, 0.6, actor.BodyTypeDynamic)

	ok, contact := IsColliding(box, circle)
	if !ok {
		t.Fatal("circle over the corner reported as separated")
	}
	checkContact(t, contact)

	// The normal points from the corner towards the circle center
	diagonal := math.Sqrt2 / 2.0
	if !vec2Near(contact.Normal, mgl64.Vec2{diagonal, diagonal}, 1e-9) {
		t.Errorf("Normal = %v, want the corner diagonal", contact.Normal)
	}
	wantDepth := 0.6 - math.Hypot(0.4, 0.4)
	if math.Abs(contact.Depth-wantDepth) > 1e-9 {
		t.Errorf("Depth = %v, want %v", contact.Depth, wantDepth)
	}

	// Just beyond the radius: no contact
	far := newCircleBody(1.5, 1.5, 0.6, actor.BodyTypeDynamic)
	if ok, _ := IsColliding(box, far); ok {
		t.Error("circle beyond the corner reported as colliding")
	}
}

func TestIsColliding_PolygonCircleCenterInside(t *testing.T) {
	box := newBoxBody(0, 0, 2, 2, actor.BodyTypeStatic)
	circle := newCircleBody(0.2, 0, 0.5, actor.BodyTypeDynamic)

	ok, contact := IsColliding(box, circle)
	if !ok {
		t.Fatal("circle centered inside the box reported as separated")
	}
	checkContact(t, contact)

	// Pushed out along the nearest edge
	if contact.Normal != (mgl64.Vec2{1, 0}) {
		t.Errorf("Normal = %v, want {1 0}", contact.Normal)
	}
	if math.Abs(contact.Depth-1.3) > 1e-12 {
		t.Errorf("Depth = %v, want 1.3", contact.Depth)
	}
}

func TestIsColliding_DispatchIsShapeDriven(t *testing.T) {
	box := newBoxBody(0, 0, 2, 2, actor.BodyTypeStatic)
	circle := newCircleBody(0, 1.3, 0.5, actor.BodyTypeDynamic)

	// Argument order must not matter: either way, the contact is reported
	// with the polygon as A
	ok, contact := IsColliding(circle, box)
	if !ok {
		t.Fatal("circle/polygon ordering reported as separated")
	}
	if contact.A != box || contact.B != circle {
		t.Error("polygon/circle contact not normalized to polygon as A")
	}
	checkContact(t, contact)
}

func TestNarrowPhase_KeepsPairOrder(t *testing.T) {
	a := newCircleBody(0, 0, 1.0, actor.BodyTypeDynamic)
	b := newCircleBody(1.5, 0, 1.0, actor.BodyTypeDynamic)
	c := newCircleBody(10, 0, 1.0, actor.BodyTypeDynamic)
	d := newCircleBody(11, 0, 1.0, actor.BodyTypeDynamic)

	pairs := []Pair{
		{BodyA: a, BodyB: b},
		{BodyA: a, BodyB: c}, // separated, dropped
		{BodyA: c, BodyB: d},
	}

	for _, workers := range []int{1, 4} {
		contacts := NarrowPhase(pairs, workers)

		if len(contacts) != 2 {
			t.Fatalf("workers=%d: got %d contacts, want 2", workers, len(contacts))
		}
		if contacts[0].A != a || contacts[0].B != b {
			t.Errorf("workers=%d: contacts[0] is not pair (a,b)", workers)
		}
		if contacts[1].A != c || contacts[1].B != d {
			t.Errorf("workers=%d: contacts[1] is not pair (c,d)", workers)
		}
	}
}
