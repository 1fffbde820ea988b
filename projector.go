package sweepselect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrProjectionFailed       = errors.New("projection failed")
	ErrUnknownAnchorSpace     = errors.New("unknown anchor space")
	ErrUnknownQueryTarget     = errors.New("unknown query target")
	ErrSurfaceUnsupported     = errors.New("scene does not support surface queries")
	ErrWorldAnchorUnsupported = errors.New("scene cannot project world points to the screen")
)

// AnchorSpace selects where the start of a drag is remembered.
type AnchorSpace int

const (
	// AnchorScreen keeps the press position fixed on the screen.
	AnchorScreen AnchorSpace = iota
	// AnchorWorld pins the press position to the ground, so the rectangle
	// follows it when the camera moves mid-drag.
	AnchorWorld
)

func (a AnchorSpace) String() string {
	if a == AnchorWorld {
		return "world"
	}
	return "screen"
}

func ParseAnchorSpace(s string) (AnchorSpace, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "screen":
		return AnchorScreen, nil
	case "world":
		return AnchorWorld, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAnchorSpace, s)
}

// QueryTarget selects what the corner rays are cast against.
type QueryTarget int

const (
	TargetPlane QueryTarget = iota
	TargetSurface
)

func (t QueryTarget) String() string {
	if t == TargetSurface {
		return "surface"
	}
	return "plane"
}

func ParseQueryTarget(s string) (QueryTarget, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plane":
		return TargetPlane, nil
	case "surface":
		return TargetSurface, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownQueryTarget, s)
}

// Overlay is the screen-space rectangle drawn while dragging.
type Overlay struct {
	Center  mgl32.Vec2
	Size    mgl32.Vec2
	Visible bool
}

type Projection struct {
	Quad    Quad
	Overlay Overlay
}

// GestureAnchor is the start of a drag. World is only set when the anchor is
// pinned to the scene.
type GestureAnchor struct {
	Screen mgl32.Vec2
	World  mgl32.Vec3
	Pinned bool
}

type ProjectorOptions struct {
	Anchor      AnchorSpace
	Target      QueryTarget
	ScreenYDown bool
}

// RectangleProjector turns a screen-space drag rectangle into a world-space
// quad by casting a ray through each corner. It keeps no state between calls.
type RectangleProjector struct {
	opts   ProjectorOptions
	cast   func(mgl32.Vec2) (mgl32.Vec3, bool)
	screen ScreenProjector
}

func NewRectangleProjector(scene SceneQuery, opts ProjectorOptions) (*RectangleProjector, error) {
	p := &RectangleProjector{opts: opts}

	switch opts.Target {
	case TargetPlane:
		p.cast = scene.CastToPlane
	case TargetSurface:
		sq, ok := scene.(SurfaceQuery)
		if !ok {
			return nil, ErrSurfaceUnsupported
		}
		p.cast = sq.CastToSurface
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownQueryTarget, opts.Target)
	}

	switch opts.Anchor {
	case AnchorScreen:
	case AnchorWorld:
		sp, ok := scene.(ScreenProjector)
		if !ok {
			return nil, ErrWorldAnchorUnsupported
		}
		p.screen = sp
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAnchorSpace, opts.Anchor)
	}

	return p, nil
}

func (p *RectangleProjector) Options() ProjectorOptions {
	return p.opts
}

// Anchor resolves the start of a gesture. With world anchoring a press that
// does not hit the target falls back to a screen anchor.
func (p *RectangleProjector) Anchor(screen mgl32.Vec2) GestureAnchor {
	a := GestureAnchor{Screen: screen}
	if p.opts.Anchor != AnchorWorld {
		return a
	}
	if world, ok := p.cast(screen); ok {
		a.World = world
		a.Pinned = true
	}
	return a
}

// ProjectFrom projects the rectangle between the anchor and end.
func (p *RectangleProjector) ProjectFrom(anchor GestureAnchor, end mgl32.Vec2) (Projection, error) {
	start := anchor.Screen
	if anchor.Pinned {
		s, ok := p.screen.WorldToScreen(anchor.World)
		if !ok {
			return Projection{Overlay: overlayBetween(start, end)}, fmt.Errorf("%w: anchor is off screen", ErrProjectionFailed)
		}
		start = s
	}
	return p.Project(start, end)
}

// Project casts the four corners of the rectangle spanned by start and end.
// All four must resolve; a partial quad is never returned.
func (p *RectangleProjector) Project(start, end mgl32.Vec2) (Projection, error) {
	ov := overlayBetween(start, end)
	res := Projection{Overlay: ov}

	half := ov.Size.Mul(0.5)
	left, right := ov.Center[0]-half[0], ov.Center[0]+half[0]
	top, bottom := ov.Center[1]+half[1], ov.Center[1]-half[1]
	if p.opts.ScreenYDown {
		top, bottom = bottom, top
	}

	corners := [4]mgl32.Vec2{
		{left, top},
		{right, top},
		{left, bottom},
		{right, bottom},
	}
	var world [4]mgl32.Vec3
	missed := 0
	for i, c := range corners {
		w, ok := p.cast(c)
		if !ok {
			missed++
			continue
		}
		world[i] = w
	}
	if missed > 0 {
		return res, fmt.Errorf("%w: %d of 4 corners missed", ErrProjectionFailed, missed)
	}

	res.Quad = Quad{TL: world[0], TR: world[1], BL: world[2], BR: world[3]}
	return res, nil
}

func overlayBetween(start, end mgl32.Vec2) Overlay {
	return Overlay{
		Center:  start.Add(end).Mul(0.5),
		Size:    mgl32.Vec2{abs32(start[0] - end[0]), abs32(start[1] - end[1])},
		Visible: true,
	}
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
