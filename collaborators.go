package sweepselect

import (
	"github.com/go-gl/mathgl/mgl32"
)

type EntityID uint64

type SelectionState int

const (
	Normal SelectionState = iota
	Highlighted
	Selected
)

func (s SelectionState) String() string {
	switch s {
	case Normal:
		return "normal"
	case Highlighted:
		return "highlighted"
	case Selected:
		return "selected"
	}
	return "unknown"
}

// SceneQuery resolves screen points against the scene. Both casts are bounded
// by the provider's maximum ray distance and report false on a miss.
type SceneQuery interface {
	CastToPlane(screen mgl32.Vec2) (mgl32.Vec3, bool)
	CastToEntity(screen mgl32.Vec2) (EntityID, bool)
}

// SurfaceQuery is implemented by scenes that can resolve screen points against
// their nearest tagged surface instead of the infinite ground plane.
type SurfaceQuery interface {
	CastToSurface(screen mgl32.Vec2) (mgl32.Vec3, bool)
}

// ScreenProjector maps world points back onto the screen. The bool is false
// for points the camera cannot see.
type ScreenProjector interface {
	WorldToScreen(world mgl32.Vec3) (mgl32.Vec2, bool)
}

type Entity struct {
	ID       EntityID
	Position mgl32.Vec3
}

// Registry is the stable, ordered collection of entities the engine selects from.
type Registry interface {
	Entities() []Entity
	IsSelectable(id EntityID) bool
}

type Renderer interface {
	SetState(id EntityID, state SelectionState)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(id EntityID, state SelectionState)

func (f RendererFunc) SetState(id EntityID, state SelectionState) { f(id, state) }
