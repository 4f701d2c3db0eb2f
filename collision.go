package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lzzrhx/2d-physics-engine/actor"
)

// Contact is a single narrow-phase collision result between two bodies.
// Start is the contact point on body A, End the contact point on body B,
// both in world space. Normal is the unit contact normal pointing from A
// towards B, and Depth the penetration along it, so End = Start + Normal·Depth.
type Contact struct {
	A *actor.RigidBody
	B *actor.RigidBody

	Start  mgl64.Vec2
	End    mgl64.Vec2
	Normal mgl64.Vec2
	Depth  float64
}

// BroadPhase rebuilds the spatial grid from the current body AABBs and
// returns the overlapping pairs in deterministic order.
func BroadPhase(spatialGrid *SpatialGrid, bodies []*actor.RigidBody) []Pair {
	spatialGrid.Clear()
	for i, body := range bodies {
		spatialGrid.Insert(i, body)
	}
	spatialGrid.SortCells()

	return spatialGrid.FindPairs(bodies)
}

// NarrowPhase runs the exact shape tests over the broad-phase pairs. The
// pair tests run in parallel, but each result lands in its pair's slot, so
// the returned contacts keep the broad phase's deterministic order.
func NarrowPhase(pairs []Pair, workersCount int) []Contact {
	found := make([]bool, len(pairs))
	results := make([]Contact, len(pairs))

	taskIndexed(workersCount, len(pairs), func(i int) {
		if ok, contact := IsColliding(pairs[i].BodyA, pairs[i].BodyB); ok {
			found[i] = true
			results[i] = contact
		}
	})

	contacts := make([]Contact, 0, len(pairs))
	for i := range pairs {
		if found[i] {
			contacts = append(contacts, results[i])
		}
	}
	return contacts
}

// IsColliding dispatches to the shape-specific collision test.
func IsColliding(a, b *actor.RigidBody) (bool, Contact) {
	switch shapeA := a.Shape.(type) {
	case *actor.Circle:
		switch shapeB := b.Shape.(type) {
		case *actor.Circle:
			return isCollidingCircleCircle(a, b, shapeA, shapeB)
		case *actor.Polygon:
			return isCollidingPolygonCircle(b, a, shapeB, shapeA)
		}
	case *actor.Polygon:
		switch shapeB := b.Shape.(type) {
		case *actor.Circle:
			return isCollidingPolygonCircle(a, b, shapeA, shapeB)
		case *actor.Polygon:
			return isCollidingPolygonPolygon(a, b, shapeA, shapeB)
		}
	}
	return false, Contact{}
}

func isCollidingCircleCircle(a, b *actor.RigidBody, circleA, circleB *actor.Circle) (bool, Contact) {
	ab := b.Transform.Position.Sub(a.Transform.Position)
	radiusSum := circleA.Radius + circleB.Radius

	if ab.Dot(ab) > radiusSum*radiusSum {
		return false, Contact{}
	}

	normal := ab.Normalize()
	start := b.Transform.Position.Sub(normal.Mul(circleB.Radius))
	end := a.Transform.Position.Add(normal.Mul(circleA.Radius))

	return true, Contact{
		A:      a,
		B:      b,
		Start:  start,
		End:    end,
		Normal: normal,
		Depth:  end.Sub(start).Len(),
	}
}

// findMinSeparation returns the largest separation of b's vertices from a's
// edges (negative when the polygons overlap on every axis), along with the
// outward normal of the separating edge and b's supporting vertex.
func findMinSeparation(a, b *actor.Polygon) (float64, mgl64.Vec2, mgl64.Vec2) {
	separation := math.Inf(-1)
	var axisNormal, point mgl64.Vec2

	for i, va := range a.WorldVertices() {
		normal := actor.Perp(a.EdgeAt(i)).Normalize()

		minSep := math.Inf(1)
		var minVertex mgl64.Vec2
		for _, vb := range b.WorldVertices() {
			projection := vb.Sub(va).Dot(normal)
			if projection < minSep {
				minSep = projection
				minVertex = vb
			}
		}

		if minSep > separation {
			separation = minSep
			axisNormal = normal
			point = minVertex
		}
	}

	return separation, axisNormal, point
}

func isCollidingPolygonPolygon(a, b *actor.RigidBody, polygonA, polygonB *actor.Polygon) (bool, Contact) {
	abSeparation, aNormal, aPoint := findMinSeparation(polygonA, polygonB)
	if abSeparation >= 0 {
		return false, Contact{}
	}
	baSeparation, bNormal, bPoint := findMinSeparation(polygonB, polygonA)
	if baSeparation >= 0 {
		return false, Contact{}
	}

	contact := Contact{A: a, B: b}
	if abSeparation > baSeparation {
		// A's edge is the reference: B's deepest vertex penetrates A
		contact.Depth = -abSeparation
		contact.Normal = aNormal
		contact.Start = aPoint
		contact.End = aPoint.Add(contact.Normal.Mul(contact.Depth))
	} else {
		// B's edge is the reference: flip the normal to keep it A→B
		contact.Depth = -baSeparation
		contact.Normal = bNormal.Mul(-1)
		contact.Start = bPoint.Sub(contact.Normal.Mul(contact.Depth))
		contact.End = bPoint
	}

	return true, contact
}

func isCollidingPolygonCircle(polygonBody, circleBody *actor.RigidBody, polygon *actor.Polygon, circle *actor.Circle) (bool, Contact) {
	center := circleBody.Transform.Position
	vertices := polygon.WorldVertices()

	// Find the edge region facing the circle center. If every edge sees the
	// center on its inner side, the center is inside the polygon.
	isOutside := false
	distanceCircleEdge := math.Inf(-1)
	var minCurrVertex, minNextVertex mgl64.Vec2

	for i, currVertex := range vertices {
		nextVertex := vertices[(i+1)%len(vertices)]
		normal := actor.Perp(nextVertex.Sub(currVertex)).Normalize()

		projection := center.Sub(currVertex).Dot(normal)
		if projection > 0 {
			distanceCircleEdge = projection
			minCurrVertex = currVertex
			minNextVertex = nextVertex
			isOutside = true
			break
		}
		if projection > distanceCircleEdge {
			distanceCircleEdge = projection
			minCurrVertex = currVertex
			minNextVertex = nextVertex
		}
	}

	contact := Contact{A: polygonBody, B: circleBody}

	if isOutside {
		// Voronoi region of the edge start vertex
		v1 := center.Sub(minCurrVertex)
		v2 := minNextVertex.Sub(minCurrVertex)
		if v1.Dot(v2) < 0 {
			if v1.Len() > circle.Radius {
				return false, Contact{}
			}
			contact.Depth = circle.Radius - v1.Len()
			contact.Normal = v1.Normalize()
		} else {
			// Voronoi region of the edge end vertex
			v1 = center.Sub(minNextVertex)
			v2 = minCurrVertex.Sub(minNextVertex)
			if v1.Dot(v2) < 0 {
				if v1.Len() > circle.Radius {
					return false, Contact{}
				}
				contact.Depth = circle.Radius - v1.Len()
				contact.Normal = v1.Normalize()
			} else {
				// Region of the edge itself
				if distanceCircleEdge > circle.Radius {
					return false, Contact{}
				}
				contact.Depth = circle.Radius - distanceCircleEdge
				contact.Normal = actor.Perp(minNextVertex.Sub(minCurrVertex)).Normalize()
			}
		}
	} else {
		// Center inside the polygon: push out along the least-penetrated edge
		contact.Depth = circle.Radius - distanceCircleEdge
		contact.Normal = actor.Perp(minNextVertex.Sub(minCurrVertex)).Normalize()
	}

	contact.Start = center.Sub(contact.Normal.Mul(circle.Radius))
	contact.End = contact.Start.Add(contact.Normal.Mul(contact.Depth))

	return true, contact
}
