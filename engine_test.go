package sweepselect

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	unitA EntityID = iota + 1
	unitB
	unitC
	unitWall
)

type engineFixture struct {
	scene    *flatScene
	registry *fakeRegistry
	renderer *recordingRenderer
	engine   *Engine
}

// newEngineFixture places A at (5,0,5), B at (30,0,30), C at (60,0,60) and a
// non-selectable wall at (6,0,6). Clicking screen (x,y) hits the unit at
// world (x,0,y).
func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	f := &engineFixture{
		scene: &flatScene{Hits: map[mgl32.Vec2]EntityID{
			{5, 5}:   unitA,
			{30, 30}: unitB,
			{60, 60}: unitC,
			{6, 6}:   unitWall,
		}},
		registry: &fakeRegistry{unselectable: map[EntityID]bool{unitWall: true}},
		renderer: &recordingRenderer{},
	}
	f.registry.add(unitA, mgl32.Vec3{5, 0, 5})
	f.registry.add(unitB, mgl32.Vec3{30, 0, 30})
	f.registry.add(unitC, mgl32.Vec3{60, 0, 60})
	f.registry.add(unitWall, mgl32.Vec3{6, 0, 6})

	p, err := NewRectangleProjector(f.scene, ProjectorOptions{})
	require.NoError(t, err)
	f.engine, err = NewEngine(f.scene, f.registry, f.renderer, p, PlaneXZ)
	require.NoError(t, err)
	return f
}

func (f *engineFixture) drag(from, to mgl32.Vec2) {
	f.engine.OnDragBegan(from)
	f.engine.OnDragContinuing(to)
	f.engine.OnReleased()
}

// assertExclusive checks that every entity has exactly one state and that
// the selection set agrees with it.
func (f *engineFixture) assertExclusive(t *testing.T) {
	t.Helper()
	selected := map[EntityID]bool{}
	for _, id := range f.engine.Selected() {
		selected[id] = true
	}
	final := map[EntityID]SelectionState{}
	for _, c := range f.renderer.changes {
		final[c.ID] = c.State
	}
	for _, ent := range f.registry.Entities() {
		s := f.engine.State(ent.ID)
		assert.Contains(t, []SelectionState{Normal, Highlighted, Selected}, s)
		assert.Equal(t, s == Selected, selected[ent.ID], "entity %d", ent.ID)
		assert.Equal(t, s, final[ent.ID], "renderer agrees for entity %d", ent.ID)
	}
}

func TestEngineClickSelects(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.OnClicked(mgl32.Vec2{5, 5})

	assert.Equal(t, []EntityID{unitA}, f.engine.Selected())
	assert.Equal(t, Selected, f.engine.State(unitA))
	assert.Equal(t, []stateChange{{unitA, Selected}}, f.renderer.changes)
	f.assertExclusive(t)
}

func TestEngineClickReplaces(t *testing.T) {
	f := newEngineFixture(t)
	f.drag(mgl32.Vec2{0, 0}, mgl32.Vec2{40, 40})
	require.Equal(t, []EntityID{unitA, unitB}, f.engine.Selected())

	f.engine.OnClicked(mgl32.Vec2{60, 60})

	assert.Equal(t, []EntityID{unitC}, f.engine.Selected())
	assert.Equal(t, Normal, f.engine.State(unitA))
	assert.Equal(t, Normal, f.engine.State(unitB))
	f.assertExclusive(t)
}

func TestEngineClickMissClears(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.OnClicked(mgl32.Vec2{5, 5})
	f.engine.OnClicked(mgl32.Vec2{100, 100})

	assert.Empty(t, f.engine.Selected())
	assert.Equal(t, Normal, f.engine.State(unitA))
	f.assertExclusive(t)
}

func TestEngineClickUnselectable(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.OnClicked(mgl32.Vec2{5, 5})
	f.engine.OnClicked(mgl32.Vec2{6, 6})

	assert.Empty(t, f.engine.Selected())
	assert.Equal(t, Normal, f.engine.State(unitWall))
}

func TestEngineDragHighlightsWithoutSelecting(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.OnDragBegan(mgl32.Vec2{0, 0})
	assert.Empty(t, f.renderer.changes, "drag start mutates nothing")

	f.engine.OnDragContinuing(mgl32.Vec2{10, 10})

	assert.Equal(t, []EntityID{unitA}, f.engine.Pending())
	assert.Equal(t, Highlighted, f.engine.State(unitA))
	assert.Equal(t, Normal, f.engine.State(unitWall), "walls are never highlighted")
	assert.Empty(t, f.engine.Selected())
	assert.True(t, f.engine.Dragging())
	assert.Equal(t, Overlay{Center: mgl32.Vec2{5, 5}, Size: mgl32.Vec2{10, 10}, Visible: true}, f.engine.Overlay())
	f.assertExclusive(t)
}

func TestEngineDragWithoutMotionIsStable(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.OnDragBegan(mgl32.Vec2{0, 0})
	f.engine.OnDragContinuing(mgl32.Vec2{35, 35})
	first := f.engine.Pending()
	f.renderer.reset()

	f.engine.OnDragContinuing(mgl32.Vec2{35, 35})

	assert.Equal(t, first, f.engine.Pending())
	assert.Empty(t, f.renderer.changes, "no state changed, nothing re-rendered")
}

func TestEngineDragShrinks(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.OnDragBegan(mgl32.Vec2{0, 0})
	f.engine.OnDragContinuing(mgl32.Vec2{35, 35})
	require.Equal(t, []EntityID{unitA, unitB}, f.engine.Pending())

	f.engine.OnDragContinuing(mgl32.Vec2{10, 10})

	assert.Equal(t, []EntityID{unitA}, f.engine.Pending())
	assert.Equal(t, Normal, f.engine.State(unitB))
	f.assertExclusive(t)
}

func TestEngineReleaseCommitsHighlight(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.OnClicked(mgl32.Vec2{30, 30})
	require.Equal(t, []EntityID{unitB}, f.engine.Selected())

	f.engine.OnDragBegan(mgl32.Vec2{0, 0})
	f.engine.OnDragContinuing(mgl32.Vec2{10, 10})
	assert.Equal(t, Selected, f.engine.State(unitB), "drag preview never demotes a selection")
	f.engine.OnReleased()

	assert.Equal(t, []EntityID{unitA}, f.engine.Selected())
	assert.Equal(t, Selected, f.engine.State(unitA))
	assert.Equal(t, Normal, f.engine.State(unitB))
	assert.Empty(t, f.engine.Pending())
	assert.False(t, f.engine.Overlay().Visible)
	f.assertExclusive(t)
}

func TestEngineDragKeepsSelectedInside(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.OnClicked(mgl32.Vec2{5, 5})
	f.renderer.reset()

	f.engine.OnDragBegan(mgl32.Vec2{0, 0})
	f.engine.OnDragContinuing(mgl32.Vec2{40, 40})

	assert.Equal(t, Selected, f.engine.State(unitA))
	assert.Equal(t, Highlighted, f.engine.State(unitB))
	assert.Equal(t, []stateChange{{unitB, Highlighted}}, f.renderer.changes)

	f.engine.OnReleased()
	assert.Equal(t, []EntityID{unitA, unitB}, f.engine.Selected())
	f.assertExclusive(t)
}

func TestEngineReleaseWithoutDragIsNoop(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.OnClicked(mgl32.Vec2{5, 5})
	f.renderer.reset()

	f.engine.OnReleased()

	assert.Equal(t, []EntityID{unitA}, f.engine.Selected())
	assert.Empty(t, f.renderer.changes)
}

func TestEngineEmptySweepKeepsSelection(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.OnClicked(mgl32.Vec2{5, 5})

	f.drag(mgl32.Vec2{100, 100}, mgl32.Vec2{120, 120})

	assert.Equal(t, []EntityID{unitA}, f.engine.Selected())
}

func TestEngineProjectionFailureKeepsPreview(t *testing.T) {
	f := newEngineFixture(t)
	f.scene.Limit = 50
	f.engine.OnDragBegan(mgl32.Vec2{0, 0})
	f.engine.OnDragContinuing(mgl32.Vec2{10, 10})
	require.Equal(t, []EntityID{unitA}, f.engine.Pending())
	f.renderer.reset()

	f.engine.OnDragContinuing(mgl32.Vec2{70, 70})

	assert.Equal(t, []EntityID{unitA}, f.engine.Pending())
	assert.Equal(t, Highlighted, f.engine.State(unitA))
	assert.Empty(t, f.renderer.changes)
	assert.Equal(t, Stats{Projections: 2, ProjectionFailures: 1}, f.engine.Stats())
	assert.Equal(t, mgl32.Vec2{70, 70}, f.engine.Overlay().Size)

	f.engine.OnReleased()
	assert.Equal(t, []EntityID{unitA}, f.engine.Selected())
}

func TestEngineDegenerateSweep(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.OnDragBegan(mgl32.Vec2{5, 0})
	assert.NotPanics(t, func() {
		f.engine.OnDragContinuing(mgl32.Vec2{5, 40})
	})
	assert.Empty(t, f.engine.Pending())
	assert.Equal(t, 2, f.engine.Stats().DegenerateTriangles)
}

func TestEngineHover(t *testing.T) {
	f := newEngineFixture(t)

	f.engine.OnHovering(mgl32.Vec2{5, 5})
	assert.Equal(t, Highlighted, f.engine.State(unitA))

	f.engine.OnHovering(mgl32.Vec2{5, 5})
	assert.Len(t, f.renderer.changes, 1, "same target is not re-rendered")

	f.engine.OnHovering(mgl32.Vec2{30, 30})
	assert.Equal(t, Normal, f.engine.State(unitA))
	assert.Equal(t, Highlighted, f.engine.State(unitB))

	f.engine.OnHovering(mgl32.Vec2{100, 100})
	assert.Equal(t, Normal, f.engine.State(unitB))

	f.engine.OnHovering(mgl32.Vec2{6, 6})
	assert.Equal(t, Normal, f.engine.State(unitWall))
	f.assertExclusive(t)
}

func TestEngineHoverNeverDowngradesSelected(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.OnHovering(mgl32.Vec2{5, 5})
	f.engine.OnClicked(mgl32.Vec2{5, 5})
	require.Equal(t, Selected, f.engine.State(unitA))

	f.engine.OnHovering(mgl32.Vec2{5, 5})
	assert.Equal(t, Selected, f.engine.State(unitA))
	f.engine.OnHovering(mgl32.Vec2{30, 30})
	assert.Equal(t, Selected, f.engine.State(unitA))
	assert.Equal(t, Highlighted, f.engine.State(unitB))
	f.assertExclusive(t)
}

func TestEngineHandleClickFinalizesGesture(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.Handle(Event{Kind: EventDragBegan, Anchor: mgl32.Vec2{0, 0}})
	f.engine.Handle(Event{Kind: EventClicked, Pos: mgl32.Vec2{30, 30}})

	assert.Equal(t, []EntityID{unitB}, f.engine.Selected())
	assert.False(t, f.engine.Dragging())
}

func TestEngineHandleDragBeganPreviews(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.Handle(Event{Kind: EventDragBegan, Anchor: mgl32.Vec2{0, 0}, Pos: mgl32.Vec2{10, 10}})

	assert.True(t, f.engine.Dragging())
	assert.Equal(t, []EntityID{unitA}, f.engine.Pending())
	assert.Equal(t, Highlighted, f.engine.State(unitA))
	assert.True(t, f.engine.Overlay().Visible)
}

func TestEngineHandleContinuingWithoutBegin(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.Handle(Event{Kind: EventDragContinuing, Anchor: mgl32.Vec2{0, 0}, Pos: mgl32.Vec2{10, 10}})
	assert.Equal(t, []EntityID{unitA}, f.engine.Pending())
	f.engine.Handle(Event{Kind: EventReleased})
	assert.Equal(t, []EntityID{unitA}, f.engine.Selected())
}

func TestEngineSelectionListener(t *testing.T) {
	f := newEngineFixture(t)
	var got [][]EntityID
	f.engine.OnSelectionChanged(func(ids []EntityID) { got = append(got, ids) })

	f.engine.OnClicked(mgl32.Vec2{5, 5})
	f.drag(mgl32.Vec2{0, 0}, mgl32.Vec2{40, 40})
	f.engine.OnReleased()
	f.engine.OnClicked(mgl32.Vec2{100, 100})

	assert.Equal(t, [][]EntityID{{unitA}, {unitA, unitB}, nil}, got)
}

func TestEngineForget(t *testing.T) {
	f := newEngineFixture(t)
	f.drag(mgl32.Vec2{0, 0}, mgl32.Vec2{40, 40})
	f.engine.OnHovering(mgl32.Vec2{60, 60})

	f.engine.Forget(unitB)
	f.engine.Forget(unitC)

	assert.Equal(t, []EntityID{unitA}, f.engine.Selected())
	assert.Equal(t, Normal, f.engine.State(unitB))
	assert.Equal(t, Normal, f.engine.State(unitC))
}

func TestNewEngineRejectsBadAxes(t *testing.T) {
	_, err := NewEngine(&flatScene{}, &fakeRegistry{}, nil, nil, PlaneAxes{AxisX, AxisX})
	assert.ErrorIs(t, err, ErrInvalidAxes)
}

func e2eFixture(t *testing.T) (*Engine, *flatScene) {
	t.Helper()
	scene := &flatScene{Transpose: true}
	reg := &fakeRegistry{}
	reg.add(unitA, mgl32.Vec3{0, 0, 0})
	reg.add(unitB, mgl32.Vec3{50, 0, 50})
	p, err := NewRectangleProjector(scene, ProjectorOptions{ScreenYDown: true})
	require.NoError(t, err)
	e, err := NewEngine(scene, reg, nil, p, PlaneXZ)
	require.NoError(t, err)
	return e, scene
}

func TestEndToEndLargeSquare(t *testing.T) {
	e, scene := e2eFixture(t)
	p, err := NewRectangleProjector(scene, ProjectorOptions{ScreenYDown: true})
	require.NoError(t, err)
	proj, err := p.Project(mgl32.Vec2{-5, -5}, mgl32.Vec2{55, 55})
	require.NoError(t, err)
	require.Equal(t, Quad{
		TL: mgl32.Vec3{-5, 0, -5},
		TR: mgl32.Vec3{-5, 0, 55},
		BL: mgl32.Vec3{55, 0, -5},
		BR: mgl32.Vec3{55, 0, 55},
	}, proj.Quad)

	e.OnDragBegan(mgl32.Vec2{-5, -5})
	e.OnDragContinuing(mgl32.Vec2{55, 55})
	e.OnReleased()

	assert.Equal(t, []EntityID{unitA, unitB}, e.Selected())
}

func TestEndToEndSmallSquare(t *testing.T) {
	e, _ := e2eFixture(t)

	e.OnDragBegan(mgl32.Vec2{-5, -5})
	e.OnDragContinuing(mgl32.Vec2{25, 25})
	e.OnReleased()

	assert.Equal(t, []EntityID{unitA}, e.Selected())
	assert.Equal(t, Normal, e.State(unitB))
}

func TestEndToEndThroughClassifier(t *testing.T) {
	e, _ := e2eFixture(t)
	c := NewInputClassifier(DefaultClickThreshold)

	samples := []PointerSample{
		{Time: 0.00, Button: ButtonIdle, Pos: mgl32.Vec2{-5, -5}},
		{Time: 0.05, Button: ButtonDown, Pos: mgl32.Vec2{-5, -5}},
		{Time: 0.20, Button: ButtonHeld, Pos: mgl32.Vec2{10, 10}},
		{Time: 0.40, Button: ButtonHeld, Pos: mgl32.Vec2{40, 40}},
		{Time: 0.50, Button: ButtonHeld, Pos: mgl32.Vec2{55, 55}},
		{Time: 0.60, Button: ButtonUp, Pos: mgl32.Vec2{55, 55}},
	}
	for _, s := range samples {
		e.Handle(c.Classify(s))
	}

	assert.Equal(t, []EntityID{unitA, unitB}, e.Selected())
	assert.False(t, e.Overlay().Visible)
}
