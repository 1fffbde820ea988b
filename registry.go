package sweepselect

import (
	"github.com/EngoEngine/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

type Unit struct {
	*ecs.BasicEntity

	Position   mgl32.Vec3
	Radius     float32
	Selectable bool
}

func (u Unit) EntityID() EntityID {
	return EntityID(u.BasicEntity.ID())
}

// Units is an ordered registry of selectable units. Order is insertion order
// and survives removals.
type Units struct {
	Entries []Unit
}

func (us *Units) Add(ent *ecs.BasicEntity, pos mgl32.Vec3, radius float32, selectable bool) {
	us.Entries = append(us.Entries, Unit{ent, pos, radius, selectable})
}

func (us *Units) Remove(ent ecs.BasicEntity) {
	idx := us.index(EntityID(ent.ID()))
	if idx != -1 {
		us.Entries = append(us.Entries[:idx], us.Entries[idx+1:]...)
	}
}

func (us *Units) Move(id EntityID, pos mgl32.Vec3) {
	if idx := us.index(id); idx != -1 {
		us.Entries[idx].Position = pos
	}
}

func (us *Units) Get(id EntityID) (Unit, bool) {
	idx := us.index(id)
	if idx == -1 {
		return Unit{}, false
	}
	return us.Entries[idx], true
}

func (us *Units) Entities() []Entity {
	out := make([]Entity, len(us.Entries))
	for i, u := range us.Entries {
		out[i] = Entity{ID: u.EntityID(), Position: u.Position}
	}
	return out
}

func (us *Units) IsSelectable(id EntityID) bool {
	u, ok := us.Get(id)
	return ok && u.Selectable
}

func (us *Units) Radius(id EntityID) float32 {
	u, _ := us.Get(id)
	return u.Radius
}

func (us *Units) index(id EntityID) int {
	for i, u := range us.Entries {
		if u.EntityID() == id {
			return i
		}
	}
	return -1
}
