package sweepselect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrInvalidAxes = errors.New("invalid plane axes")

// barycentricSlack absorbs rounding on edges so boundary points stay inside.
const barycentricSlack = 1e-9

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// PlaneAxes names the two world axes spanning the selection plane. The
// remaining axis is "up".
type PlaneAxes struct {
	U, V Axis
}

var (
	PlaneXZ = PlaneAxes{AxisX, AxisZ}
	PlaneXY = PlaneAxes{AxisX, AxisY}
	PlaneYZ = PlaneAxes{AxisY, AxisZ}
)

func ParsePlaneAxes(s string) (PlaneAxes, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return PlaneAxes{}, fmt.Errorf("%w: %q", ErrInvalidAxes, s)
	}
	parse := func(c byte) (Axis, bool) {
		switch c {
		case 'x':
			return AxisX, true
		case 'y':
			return AxisY, true
		case 'z':
			return AxisZ, true
		}
		return 0, false
	}
	u, ok1 := parse(s[0])
	v, ok2 := parse(s[1])
	p := PlaneAxes{u, v}
	if !ok1 || !ok2 || !p.Valid() {
		return PlaneAxes{}, fmt.Errorf("%w: %q", ErrInvalidAxes, s)
	}
	return p, nil
}

func (p PlaneAxes) Valid() bool {
	inRange := func(a Axis) bool { return a >= AxisX && a <= AxisZ }
	return inRange(p.U) && inRange(p.V) && p.U != p.V
}

func (p PlaneAxes) Up() Axis {
	return 3 - p.U - p.V
}

func (p PlaneAxes) UpVector() mgl32.Vec3 {
	var v mgl32.Vec3
	v[p.Up()] = 1
	return v
}

// Flatten drops the up component of v.
func (p PlaneAxes) Flatten(v mgl32.Vec3) mgl32.Vec2 {
	return mgl32.Vec2{v[p.U], v[p.V]}
}

func (p PlaneAxes) String() string {
	return p.U.String() + p.V.String()
}

// Quad is the world-space region swept by a drag. It is tested as the two
// triangles (TL,BL,TR) and (TR,BL,BR).
type Quad struct {
	TL, TR, BL, BR mgl32.Vec3
}

func (q Quad) Triangles() [2][3]mgl32.Vec3 {
	return [2][3]mgl32.Vec3{
		{q.TL, q.BL, q.TR},
		{q.TR, q.BL, q.BR},
	}
}

// Contains reports whether pt lies inside q, edges included, looking only at
// the two axes of the selection plane.
func (q Quad) Contains(pt mgl32.Vec3, axes PlaneAxes) bool {
	p := axes.Flatten(pt)
	for _, tri := range q.Triangles() {
		inside, _ := withinTriangle(p, axes.Flatten(tri[0]), axes.Flatten(tri[1]), axes.Flatten(tri[2]))
		if inside {
			return true
		}
	}
	return false
}

// DegenerateTriangles counts the zero-area triangles of q in the selection plane.
func (q Quad) DegenerateTriangles(axes PlaneAxes) int {
	n := 0
	for _, tri := range q.Triangles() {
		if barycentricDenominator(axes.Flatten(tri[0]), axes.Flatten(tri[1]), axes.Flatten(tri[2])) == 0 {
			n++
		}
	}
	return n
}

func barycentricDenominator(p1, p2, p3 mgl32.Vec2) float64 {
	x1, y1 := float64(p1[0]), float64(p1[1])
	x2, y2 := float64(p2[0]), float64(p2[1])
	x3, y3 := float64(p3[0]), float64(p3[1])
	return (y2-y3)*(x1-x3) + (x3-x2)*(y1-y3)
}

// withinTriangle solves p = a*p1 + b*p2 + c*p3 with a+b+c = 1. A zero-area
// triangle contains nothing and reports ok=false.
func withinTriangle(p, p1, p2, p3 mgl32.Vec2) (inside bool, ok bool) {
	denom := barycentricDenominator(p1, p2, p3)
	if denom == 0 {
		return false, false
	}
	x, y := float64(p[0]), float64(p[1])
	x1, y1 := float64(p1[0]), float64(p1[1])
	x2, y2 := float64(p2[0]), float64(p2[1])
	x3, y3 := float64(p3[0]), float64(p3[1])

	a := ((y2-y3)*(x-x3) + (x3-x2)*(y-y3)) / denom
	b := ((y3-y1)*(x-x3) + (x1-x3)*(y-y3)) / denom
	c := 1 - a - b

	return inUnit(a) && inUnit(b) && inUnit(c), true
}

func inUnit(w float64) bool {
	return w >= -barycentricSlack && w <= 1+barycentricSlack
}
