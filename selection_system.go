package sweepselect

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	NormalColor    = color.RGBA{255, 255, 255, 255}
	HighlightColor = color.RGBA{255, 220, 0, 255}
	SelectedColor  = color.RGBA{255, 0, 0, 255}
	OverlayColor   = color.RGBA{100, 150, 255, 60}
)

func StateColor(s SelectionState) color.RGBA {
	switch s {
	case Highlighted:
		return HighlightColor
	case Selected:
		return SelectedColor
	}
	return NormalColor
}

type SelectionChangedMessage struct {
	Selected []EntityID
}

func (SelectionChangedMessage) Type() string {
	return "SelectionChangedMessage"
}

// PointerSource reports whether the primary button is down and where the
// pointer is in screen space.
type PointerSource interface {
	Pointer() (down bool, pos mgl32.Vec2)
}

// EngoPointer follows the left mouse button through engo.Input.
type EngoPointer struct {
	down bool
}

func (p *EngoPointer) Pointer() (bool, mgl32.Vec2) {
	m := engo.Input.Mouse
	if m.Button == engo.MouseButtonLeft {
		switch m.Action {
		case engo.Press:
			p.down = true
		case engo.Release:
			p.down = false
		}
	}
	return p.down, mgl32.Vec2{m.X, m.Y}
}

// ColorRenderer shows selection state through the render component colour.
type ColorRenderer struct {
	components map[EntityID]*common.RenderComponent
}

func (cr *ColorRenderer) Add(id EntityID, rc *common.RenderComponent) {
	if cr.components == nil {
		cr.components = map[EntityID]*common.RenderComponent{}
	}
	cr.components[id] = rc
	rc.Color = NormalColor
}

func (cr *ColorRenderer) Remove(id EntityID) {
	delete(cr.components, id)
}

func (cr *ColorRenderer) SetState(id EntityID, s SelectionState) {
	rc, ok := cr.components[id]
	if !ok {
		return
	}
	rc.Color = StateColor(s)
}

type overlay struct {
	*common.RenderComponent
	*common.SpaceComponent
}

// SelectionSystem samples the pointer once per frame, classifies it and feeds
// the result to the selection engine.
type SelectionSystem struct {
	Mailbox *engo.MessageManager

	units      *Units
	pointer    PointerSource
	engine     *Engine
	classifier *InputClassifier
	renderer   ColorRenderer
	overlay    *overlay

	clock   float64
	wasDown bool
}

func NewSelectionSystem(cfg Config, units *Units, scene SceneQuery, pointer PointerSource) (*SelectionSystem, error) {
	ss := &SelectionSystem{
		units:      units,
		pointer:    pointer,
		classifier: NewInputClassifier(cfg.ClickThreshold),
	}
	engine, err := NewEngineFromConfig(cfg, scene, units, &ss.renderer)
	if err != nil {
		return nil, err
	}
	engine.OnSelectionChanged(func(ids []EntityID) {
		if ss.Mailbox != nil {
			ss.Mailbox.Dispatch(SelectionChangedMessage{Selected: ids})
		}
	})
	ss.engine = engine
	return ss, nil
}

func (ss *SelectionSystem) Engine() *Engine { return ss.engine }

func (ss *SelectionSystem) Add(e *ecs.BasicEntity, rc *common.RenderComponent, pos mgl32.Vec3, radius float32, selectable bool) {
	ss.units.Add(e, pos, radius, selectable)
	ss.renderer.Add(EntityID(e.ID()), rc)
}

func (ss *SelectionSystem) Remove(e ecs.BasicEntity) {
	id := EntityID(e.ID())
	ss.units.Remove(e)
	ss.renderer.Remove(id)
	ss.engine.Forget(id)
}

// SetOverlay registers the entity that draws the drag rectangle.
func (ss *SelectionSystem) SetOverlay(rc *common.RenderComponent, sc *common.SpaceComponent) {
	rc.Hidden = true
	ss.overlay = &overlay{rc, sc}
}

func (ss *SelectionSystem) Update(dt float32) {
	ss.clock += float64(dt)

	down, pos := ss.pointer.Pointer()
	sample := PointerSample{
		Time:   ss.clock,
		Button: ButtonStateOf(ss.wasDown, down),
		Pos:    pos,
	}
	ss.wasDown = down

	ev := ss.classifier.Classify(sample)
	ss.engine.Handle(ev)
	ss.syncOverlay()
}

func (ss *SelectionSystem) syncOverlay() {
	if ss.overlay == nil {
		return
	}
	ov := ss.engine.Overlay()
	ss.overlay.RenderComponent.Hidden = !ov.Visible
	if !ov.Visible {
		return
	}
	ss.overlay.SpaceComponent.Position = engo.Point{
		X: ov.Center[0] - ov.Size[0]/2,
		Y: ov.Center[1] - ov.Size[1]/2,
	}
	ss.overlay.SpaceComponent.Width = ov.Size[0]
	ss.overlay.SpaceComponent.Height = ov.Size[1]
}
