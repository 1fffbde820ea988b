package sweepselect

import (
	"github.com/go-gl/mathgl/mgl32"
)

// flatScene maps screen (x, y) straight onto the ground at world (x+Offset, 0, y),
// or (y, 0, x+Offset) when Transpose is set. Points with x or y beyond Limit miss.
type flatScene struct {
	Offset    float32
	Limit     float32
	Surface   float32
	Transpose bool
	Hits      map[mgl32.Vec2]EntityID
	Casts     int
}

func (s *flatScene) inRange(p mgl32.Vec2) bool {
	return s.Limit == 0 || (abs32(p[0]) <= s.Limit && abs32(p[1]) <= s.Limit)
}

func (s *flatScene) CastToPlane(p mgl32.Vec2) (mgl32.Vec3, bool) {
	s.Casts++
	if !s.inRange(p) {
		return mgl32.Vec3{}, false
	}
	if s.Transpose {
		return mgl32.Vec3{p[1], 0, p[0] + s.Offset}, true
	}
	return mgl32.Vec3{p[0] + s.Offset, 0, p[1]}, true
}

func (s *flatScene) CastToSurface(p mgl32.Vec2) (mgl32.Vec3, bool) {
	w, ok := s.CastToPlane(p)
	w[1] = s.Surface
	return w, ok
}

func (s *flatScene) CastToEntity(p mgl32.Vec2) (EntityID, bool) {
	id, ok := s.Hits[p]
	return id, ok
}

func (s *flatScene) WorldToScreen(w mgl32.Vec3) (mgl32.Vec2, bool) {
	p := mgl32.Vec2{w[0] - s.Offset, w[2]}
	if s.Transpose {
		p = mgl32.Vec2{w[2] - s.Offset, w[0]}
	}
	return p, s.inRange(p)
}

// planeOnlyScene hides the optional query interfaces of flatScene.
type planeOnlyScene struct {
	s *flatScene
}

func (p planeOnlyScene) CastToPlane(v mgl32.Vec2) (mgl32.Vec3, bool) { return p.s.CastToPlane(v) }
func (p planeOnlyScene) CastToEntity(v mgl32.Vec2) (EntityID, bool) { return p.s.CastToEntity(v) }

type fakeRegistry struct {
	entities     []Entity
	unselectable map[EntityID]bool
}

func (r *fakeRegistry) add(id EntityID, pos mgl32.Vec3) {
	r.entities = append(r.entities, Entity{ID: id, Position: pos})
}

func (r *fakeRegistry) Entities() []Entity { return r.entities }

func (r *fakeRegistry) IsSelectable(id EntityID) bool {
	for _, e := range r.entities {
		if e.ID == id {
			return !r.unselectable[id]
		}
	}
	return false
}

type stateChange struct {
	ID    EntityID
	State SelectionState
}

type recordingRenderer struct {
	changes []stateChange
}

func (r *recordingRenderer) SetState(id EntityID, s SelectionState) {
	r.changes = append(r.changes, stateChange{id, s})
}

func (r *recordingRenderer) reset() { r.changes = nil }
