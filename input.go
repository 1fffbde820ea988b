package sweepselect

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

const DefaultClickThreshold = 300 * time.Millisecond

type ButtonState int

const (
	ButtonIdle ButtonState = iota
	ButtonDown
	ButtonHeld
	ButtonUp
)

func (b ButtonState) String() string {
	switch b {
	case ButtonIdle:
		return "idle"
	case ButtonDown:
		return "down"
	case ButtonHeld:
		return "held"
	case ButtonUp:
		return "up"
	}
	return fmt.Sprintf("ButtonState(%d)", int(b))
}

// ButtonStateOf derives this frame's button state from the pressed flag of the
// previous and the current frame.
func ButtonStateOf(wasDown, isDown bool) ButtonState {
	switch {
	case isDown && !wasDown:
		return ButtonDown
	case isDown:
		return ButtonHeld
	case wasDown:
		return ButtonUp
	}
	return ButtonIdle
}

// PointerSample is one frame of pointer input. Time is in seconds since the
// host started sampling.
type PointerSample struct {
	Time   float64
	Button ButtonState
	Pos    mgl32.Vec2
}

type EventKind int

const (
	EventNone EventKind = iota
	EventClicked
	EventDragBegan
	EventDragContinuing
	EventReleased
	EventHovering
)

func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "none"
	case EventClicked:
		return "clicked"
	case EventDragBegan:
		return "drag-began"
	case EventDragContinuing:
		return "drag-continuing"
	case EventReleased:
		return "released"
	case EventHovering:
		return "hovering"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is the classified input of a single frame. Anchor is the press
// position and is only meaningful for drag events. A Clicked event also ends
// the gesture, so consumers finalize it exactly as they would a Released one.
type Event struct {
	Kind   EventKind
	Pos    mgl32.Vec2
	Anchor mgl32.Vec2
}

type gestureState int

const (
	gestureIdle gestureState = iota
	gesturePressed
	gestureDragging
)

// InputClassifier turns pointer samples into click, drag, release and hover
// events. A press held longer than the threshold becomes a drag.
type InputClassifier struct {
	threshold float64

	state     gestureState
	pressTime float64
	anchor    mgl32.Vec2
}

func NewInputClassifier(threshold time.Duration) *InputClassifier {
	if threshold < 0 {
		threshold = 0
	}
	return &InputClassifier{threshold: threshold.Seconds()}
}

func (c *InputClassifier) Dragging() bool {
	return c.state == gestureDragging
}

func (c *InputClassifier) Classify(s PointerSample) Event {
	switch s.Button {
	case ButtonDown:
		c.press(s)
		return Event{Kind: EventNone, Pos: s.Pos, Anchor: c.anchor}

	case ButtonHeld:
		switch c.state {
		case gestureIdle:
			// The down edge was never seen; start the gesture here.
			c.press(s)
			return Event{Kind: EventNone, Pos: s.Pos, Anchor: c.anchor}
		case gesturePressed:
			if s.Time-c.pressTime <= c.threshold {
				return Event{Kind: EventNone, Pos: s.Pos, Anchor: c.anchor}
			}
			c.state = gestureDragging
			log.Debugf("Drag began at %v", c.anchor)
			return Event{Kind: EventDragBegan, Pos: s.Pos, Anchor: c.anchor}
		default:
			return Event{Kind: EventDragContinuing, Pos: s.Pos, Anchor: c.anchor}
		}

	case ButtonUp:
		prev := c.state
		c.state = gestureIdle
		if prev == gesturePressed && s.Time-c.pressTime <= c.threshold {
			return Event{Kind: EventClicked, Pos: s.Pos, Anchor: c.anchor}
		}
		return Event{Kind: EventReleased, Pos: s.Pos, Anchor: c.anchor}
	}

	c.state = gestureIdle
	return Event{Kind: EventHovering, Pos: s.Pos}
}

func (c *InputClassifier) press(s PointerSample) {
	c.state = gesturePressed
	c.pressTime = s.Time
	c.anchor = s.Pos
}
