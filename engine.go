package sweepselect

import (
	"errors"
	"slices"

	"github.com/ErikKalkoken/go-set"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrNoHit = errors.New("nothing selectable under pointer")

// Stats counts per-frame conditions the engine recovers from silently.
type Stats struct {
	Projections         int
	ProjectionFailures  int
	DegenerateTriangles int
}

// Engine owns the selection and highlight state of every entity in the
// registry and reports each state change to the renderer.
//
// An Engine is driven from a single update loop and is not safe for
// concurrent use. Hosts must not touch selection state while Handle or one of
// the On methods is running.
type Engine struct {
	scene     SceneQuery
	registry  Registry
	renderer  Renderer
	projector *RectangleProjector
	axes      PlaneAxes

	// Entities missing from states are Normal.
	states   map[EntityID]SelectionState
	selected set.Set[EntityID]
	// pending holds every entity inside the last resolved drag quad,
	// selected ones included.
	pending set.Set[EntityID]

	hover    EntityID
	hovering bool

	anchor   GestureAnchor
	dragging bool
	overlay  Overlay

	stats     Stats
	listeners []func([]EntityID)
}

func NewEngine(scene SceneQuery, registry Registry, renderer Renderer, projector *RectangleProjector, axes PlaneAxes) (*Engine, error) {
	if !axes.Valid() {
		return nil, ErrInvalidAxes
	}
	if projector == nil {
		p, err := NewRectangleProjector(scene, ProjectorOptions{})
		if err != nil {
			return nil, err
		}
		projector = p
	}
	if renderer == nil {
		renderer = RendererFunc(func(EntityID, SelectionState) {})
	}
	return &Engine{
		scene:     scene,
		registry:  registry,
		renderer:  renderer,
		projector: projector,
		axes:      axes,
		states:    map[EntityID]SelectionState{},
		selected:  set.Of[EntityID](),
		pending:   set.Of[EntityID](),
	}, nil
}

// Handle dispatches a classified input event. A click also finalizes the
// gesture, and the frame a drag begins on already previews it.
func (e *Engine) Handle(ev Event) {
	switch ev.Kind {
	case EventClicked:
		e.OnClicked(ev.Pos)
		e.OnReleased()
	case EventDragBegan:
		e.OnDragBegan(ev.Anchor)
		e.OnDragContinuing(ev.Pos)
	case EventDragContinuing:
		if !e.dragging {
			e.OnDragBegan(ev.Anchor)
		}
		e.OnDragContinuing(ev.Pos)
	case EventReleased:
		e.OnReleased()
	case EventHovering:
		e.OnHovering(ev.Pos)
	}
}

// OnClicked replaces the selection with whatever selectable entity is under
// pos, or with nothing.
func (e *Engine) OnClicked(pos mgl32.Vec2) {
	for id := range e.selected.All() {
		e.setState(id, Normal)
	}
	e.selected = set.Of[EntityID]()

	id, err := e.pick(pos)
	if err == nil {
		e.setState(id, Selected)
		e.selected.Add(id)
	}
	log.Debugf("Click at %v selected %d entities", pos, e.selected.Size())
	e.notify()
}

func (e *Engine) OnDragBegan(pos mgl32.Vec2) {
	e.anchor = e.projector.Anchor(pos)
	e.dragging = true
	e.pending = set.Of[EntityID]()
}

// OnDragContinuing previews the selection for the rectangle between the
// anchor and pos. Selected entities keep their state. A frame whose
// projection fails leaves the previous preview in place.
func (e *Engine) OnDragContinuing(pos mgl32.Vec2) {
	proj, err := e.projector.ProjectFrom(e.anchor, pos)
	e.overlay = proj.Overlay
	e.stats.Projections++
	if err != nil {
		e.stats.ProjectionFailures++
		log.Debugf("Skipping drag frame: %v", err)
		return
	}
	e.stats.DegenerateTriangles += proj.Quad.DegenerateTriangles(e.axes)

	pending := set.Of[EntityID]()
	for _, ent := range e.registry.Entities() {
		if !e.registry.IsSelectable(ent.ID) {
			continue
		}
		inside := proj.Quad.Contains(ent.Position, e.axes)
		if inside {
			pending.Add(ent.ID)
		}
		if e.State(ent.ID) == Selected {
			continue
		}
		if inside {
			e.setState(ent.ID, Highlighted)
		} else {
			e.setState(ent.ID, Normal)
		}
	}
	e.pending = pending
}

// OnReleased commits the drag preview as the new selection. Without a
// preview it only ends the gesture.
func (e *Engine) OnReleased() {
	e.dragging = false
	e.overlay = Overlay{}
	if e.pending.Size() == 0 {
		return
	}

	for id := range e.selected.All() {
		if !e.pending.Contains(id) {
			e.setState(id, Normal)
		}
	}
	for id := range e.pending.All() {
		e.setState(id, Selected)
	}
	e.selected = e.pending
	e.pending = set.Of[EntityID]()

	log.Infof("Selected %d entities", e.selected.Size())
	e.notify()
}

// OnHovering highlights the selectable entity under pos unless it is
// already selected, and drops the highlight from the previous one.
func (e *Engine) OnHovering(pos mgl32.Vec2) {
	id, err := e.pick(pos)
	hit := err == nil

	if e.hovering && (!hit || id != e.hover) {
		if e.State(e.hover) != Selected {
			e.setState(e.hover, Normal)
		}
		e.hovering = false
	}
	if hit && e.State(id) != Selected {
		e.setState(id, Highlighted)
		e.hover = id
		e.hovering = true
	}
}

// Forget drops every trace of id, for entities that left the registry.
func (e *Engine) Forget(id EntityID) {
	delete(e.states, id)
	e.selected.Delete(id)
	e.pending.Delete(id)
	if e.hovering && e.hover == id {
		e.hovering = false
	}
}

// OnSelectionChanged registers fn to be called after every click and every
// committed drag.
func (e *Engine) OnSelectionChanged(fn func(selected []EntityID)) {
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) State(id EntityID) SelectionState {
	return e.states[id]
}

func (e *Engine) Selected() []EntityID {
	return sortedIDs(e.selected)
}

// Pending returns the entities that would be selected if the drag ended now.
func (e *Engine) Pending() []EntityID {
	return sortedIDs(e.pending)
}

func (e *Engine) Dragging() bool   { return e.dragging }
func (e *Engine) Overlay() Overlay { return e.overlay }
func (e *Engine) Stats() Stats     { return e.stats }

func (e *Engine) pick(pos mgl32.Vec2) (EntityID, error) {
	id, ok := e.scene.CastToEntity(pos)
	if !ok || !e.registry.IsSelectable(id) {
		return 0, ErrNoHit
	}
	return id, nil
}

func (e *Engine) setState(id EntityID, s SelectionState) {
	if e.states[id] == s {
		return
	}
	if s == Normal {
		delete(e.states, id)
	} else {
		e.states[id] = s
	}
	e.renderer.SetState(id, s)
}

func (e *Engine) notify() {
	if len(e.listeners) == 0 {
		return
	}
	ids := e.Selected()
	for _, fn := range e.listeners {
		fn(ids)
	}
}

func sortedIDs(s set.Set[EntityID]) []EntityID {
	return slices.Sorted(s.All())
}
