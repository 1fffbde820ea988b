package sweepselect

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font/gofont/gosmallcaps"
)

const (
	unitSpriteSize = 12
	panSpeed       = 40
)

type Sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// Scene shows a field of units seen through a tilted camera and lets the
// player select them with the mouse.
type Scene struct {
	Config Config
	Layout Layout
	Width  int
	Height int

	Camera    *TiltedCamera
	Selection *SelectionSystem

	units Units
	font  *common.Font
	hud   *Sprite
}

type cameraPanSystem struct {
	Camera *TiltedCamera
}

func (*cameraPanSystem) Remove(ecs.BasicEntity) {}
func (cps *cameraPanSystem) Update(dt float32) {
	var d mgl32.Vec2
	if engo.Input.Button("Left").Down() {
		d[0] -= panSpeed * dt
	}
	if engo.Input.Button("Right").Down() {
		d[0] += panSpeed * dt
	}
	// The camera faces -V, so "up" on screen is -V.
	if engo.Input.Button("Up").Down() {
		d[1] -= panSpeed * dt
	}
	if engo.Input.Button("Down").Down() {
		d[1] += panSpeed * dt
	}
	if d[0] != 0 || d[1] != 0 {
		cps.Camera.Pan(d)
	}
}

func (*Scene) Preload() {
	engo.Files.LoadReaderData("go.ttf", bytes.NewReader(gosmallcaps.TTF))
}

func (s *Scene) Setup(u engo.Updater) {
	w, _ := u.(*ecs.World)

	engo.Input.RegisterButton("Up", engo.KeyArrowUp)
	engo.Input.RegisterButton("Down", engo.KeyArrowDown)
	engo.Input.RegisterButton("Left", engo.KeyArrowLeft)
	engo.Input.RegisterButton("Right", engo.KeyArrowRight)

	common.SetBackground(color.Black)

	axes, err := s.Config.Axes()
	if err != nil {
		log.Fatalf("Invalid plane axes: %v", err)
	}
	s.Camera = NewTiltedCamera(s.Width, s.Height, axes, &s.units)
	s.Camera.MaxRayDistance = s.Config.MaxRayDistance
	s.Camera.SurfaceTags = s.Config.Tags()
	for _, sp := range s.Layout.Surfaces {
		s.Camera.Surfaces = append(s.Camera.Surfaces, sp.Surface())
	}

	s.Selection, err = NewSelectionSystem(s.Config, &s.units, s.Camera, &EngoPointer{})
	if err != nil {
		log.Fatalf("Unable to create selection system: %v", err)
	}
	s.Selection.Mailbox = engo.Mailbox

	rs := common.RenderSystem{}
	bs := BillboardSystem{Camera: s.Camera, Units: &s.units}
	w.AddSystem(&rs)
	w.AddSystem(&cameraPanSystem{s.Camera})
	w.AddSystem(s.Selection)
	w.AddSystem(&bs)

	for _, us := range s.Layout.Units {
		unit := &Sprite{BasicEntity: ecs.NewBasic()}
		unit.RenderComponent = common.RenderComponent{
			Drawable: common.Circle{},
			Scale:    engo.Point{X: 1, Y: 1},
		}
		unit.RenderComponent.SetZIndex(10)
		unit.SpaceComponent = common.SpaceComponent{Width: unitSpriteSize, Height: unitSpriteSize}

		s.Selection.Add(&unit.BasicEntity, &unit.RenderComponent, us.Position(), us.Radius, us.IsSelectable())
		if !us.IsSelectable() {
			unit.RenderComponent.Color = color.RGBA{90, 90, 90, 255}
		}
		rs.Add(&unit.BasicEntity, &unit.RenderComponent, &unit.SpaceComponent)
		bs.Add(&unit.BasicEntity, &unit.SpaceComponent, &unit.RenderComponent)
	}

	rect := &Sprite{BasicEntity: ecs.NewBasic()}
	rect.RenderComponent = common.RenderComponent{
		Drawable: common.Rectangle{BorderWidth: 1, BorderColor: color.White},
		Color:    OverlayColor,
		Scale:    engo.Point{X: 1, Y: 1},
	}
	rect.RenderComponent.SetZIndex(50)
	rs.Add(&rect.BasicEntity, &rect.RenderComponent, &rect.SpaceComponent)
	s.Selection.SetOverlay(&rect.RenderComponent, &rect.SpaceComponent)

	s.font = &common.Font{URL: "go.ttf", FG: color.White, Size: 20}
	if err := s.font.CreatePreloaded(); err != nil {
		log.Printf("Unable to create HUD font: %v", err)
		return
	}
	s.hud = &Sprite{BasicEntity: ecs.NewBasic()}
	s.hud.RenderComponent = common.RenderComponent{Drawable: hudText(s.font, 0), Scale: engo.Point{X: 1, Y: 1}}
	s.hud.RenderComponent.SetZIndex(100)
	s.hud.SpaceComponent = common.SpaceComponent{Position: engo.Point{X: 10, Y: 10}, Width: 200, Height: 24}
	rs.Add(&s.hud.BasicEntity, &s.hud.RenderComponent, &s.hud.SpaceComponent)

	engo.Mailbox.Listen(SelectionChangedMessage{}.Type(), func(msg engo.Message) {
		scm, ok := msg.(SelectionChangedMessage)
		if !ok {
			return
		}
		s.hud.RenderComponent.Drawable = hudText(s.font, len(scm.Selected))
	})
}

func (*Scene) Type() string { return "Selection" }

func hudText(f *common.Font, n int) common.Text {
	return common.Text{Font: f, Text: fmt.Sprintf("Selected: %d", n)}
}
