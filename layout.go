package sweepselect

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/goccy/go-yaml"
)

const defaultUnitRadius = 1.5

type UnitSpec struct {
	X          float32 `yaml:"x"`
	Y          float32 `yaml:"y"`
	Z          float32 `yaml:"z"`
	Radius     float32 `yaml:"radius"`
	Selectable *bool   `yaml:"selectable"`
}

func (u UnitSpec) Position() mgl32.Vec3 {
	return mgl32.Vec3{u.X, u.Y, u.Z}
}

// IsSelectable defaults to true when the layout does not say otherwise.
func (u UnitSpec) IsSelectable() bool {
	return u.Selectable == nil || *u.Selectable
}

type SurfaceSpec struct {
	Tag    string     `yaml:"tag"`
	Min    [2]float32 `yaml:"min"`
	Max    [2]float32 `yaml:"max"`
	Height float32    `yaml:"height"`
}

func (s SurfaceSpec) Surface() Surface {
	return Surface{
		Min:    mgl32.Vec2{s.Min[0], s.Min[1]},
		Max:    mgl32.Vec2{s.Max[0], s.Max[1]},
		Height: s.Height,
		Tag:    s.Tag,
	}
}

// Layout describes the units and surfaces of the demo scene.
type Layout struct {
	Units    []UnitSpec    `yaml:"units"`
	Surfaces []SurfaceSpec `yaml:"surfaces"`
}

func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	return ParseLayout(data)
}

func ParseLayout(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	for i := range l.Units {
		if l.Units[i].Radius < 0 {
			return Layout{}, fmt.Errorf("unit %d: negative radius %v", i, l.Units[i].Radius)
		}
		if l.Units[i].Radius == 0 {
			l.Units[i].Radius = defaultUnitRadius
		}
	}
	for i, s := range l.Surfaces {
		if s.Min[0] > s.Max[0] || s.Min[1] > s.Max[1] {
			return Layout{}, fmt.Errorf("surface %d (%s): min %v exceeds max %v", i, s.Tag, s.Min, s.Max)
		}
	}
	return l, nil
}

// DefaultLayout is a 5x5 grid of units ten units apart on a single ground
// surface, with a non-selectable marker at the origin.
func DefaultLayout() Layout {
	var l Layout
	for i := -2; i <= 2; i++ {
		for j := -2; j <= 2; j++ {
			if i == 0 && j == 0 {
				continue
			}
			l.Units = append(l.Units, UnitSpec{X: float32(i * 10), Z: float32(j * 10), Radius: defaultUnitRadius})
		}
	}
	no := false
	l.Units = append(l.Units, UnitSpec{Radius: defaultUnitRadius, Selectable: &no})
	l.Surfaces = []SurfaceSpec{{Tag: "ground", Min: [2]float32{-60, -60}, Max: [2]float32{60, 60}}}
	return l
}
