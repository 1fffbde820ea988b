package sweepselect

import (
	"math"

	"github.com/ErikKalkoken/go-set"
	"github.com/go-gl/mathgl/mgl32"
)

const DefaultMaxRayDistance = 200

// Pickable is the part of a registry the camera needs to ray-test entities.
type Pickable interface {
	Entities() []Entity
	Radius(id EntityID) float32
}

// Surface is a horizontal patch of the scene, bounded in the selection plane.
type Surface struct {
	Min, Max mgl32.Vec2
	Height   float32
	Tag      string
}

// TiltedCamera looks down at Focus from Zoom units away, pitched Pitch
// degrees below the horizon. Screen space has its origin top-left with Y
// growing downwards.
type TiltedCamera struct {
	Focus mgl32.Vec3
	Pitch float32
	Zoom  float32
	FovY  float32
	Near  float32
	Far   float32

	Width, Height int

	Axes           PlaneAxes
	GroundHeight   float32
	MaxRayDistance float32

	Units    Pickable
	Surfaces []Surface
	// SurfaceTags limits CastToSurface to surfaces with one of these tags.
	// Empty means every surface.
	SurfaceTags set.Set[string]
}

func NewTiltedCamera(width, height int, axes PlaneAxes, units Pickable) *TiltedCamera {
	return &TiltedCamera{
		Pitch:          45,
		Zoom:           60,
		FovY:           60,
		Near:           0.1,
		Far:            1000,
		Width:          width,
		Height:         height,
		Axes:           axes,
		MaxRayDistance: DefaultMaxRayDistance,
		Units:          units,
	}
}

func (c *TiltedCamera) basis() (u, v, up mgl32.Vec3) {
	u[c.Axes.U] = 1
	v[c.Axes.V] = 1
	up[c.Axes.Up()] = 1
	return u, v, up
}

// Forward faces -V. On the xz plane that puts +x on the right of the screen.
func (c *TiltedCamera) Forward() mgl32.Vec3 {
	_, v, up := c.basis()
	pitch := float64(mgl32.DegToRad(c.Pitch))
	return v.Mul(-float32(math.Cos(pitch))).Sub(up.Mul(float32(math.Sin(pitch))))
}

func (c *TiltedCamera) Eye() mgl32.Vec3 {
	return c.Focus.Sub(c.Forward().Mul(c.Zoom))
}

func (c *TiltedCamera) View() mgl32.Mat4 {
	_, _, up := c.basis()
	return mgl32.LookAtV(c.Eye(), c.Focus, up)
}

func (c *TiltedCamera) Projection() mgl32.Mat4 {
	aspect := float32(c.Width) / float32(c.Height)
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// Pan moves the focus by delta in the selection plane.
func (c *TiltedCamera) Pan(delta mgl32.Vec2) {
	u, v, _ := c.basis()
	c.Focus = c.Focus.Add(u.Mul(delta[0])).Add(v.Mul(delta[1]))
}

func (c *TiltedCamera) SetZoom(z float32) {
	if z > c.Near {
		c.Zoom = z
	}
}

// Ray returns the normalized ray from the eye through screen.
func (c *TiltedCamera) Ray(screen mgl32.Vec2) (origin, dir mgl32.Vec3, ok bool) {
	winY := float32(c.Height) - screen[1]
	near, err := mgl32.UnProject(mgl32.Vec3{screen[0], winY, 0}, c.View(), c.Projection(), 0, 0, c.Width, c.Height)
	if err != nil {
		return origin, dir, false
	}
	origin = c.Eye()
	d := near.Sub(origin)
	if d.Len() == 0 {
		return origin, dir, false
	}
	return origin, d.Normalize(), true
}

func (c *TiltedCamera) CastToPlane(screen mgl32.Vec2) (mgl32.Vec3, bool) {
	origin, dir, ok := c.Ray(screen)
	if !ok {
		return mgl32.Vec3{}, false
	}
	t, ok := c.intersectHeight(origin, dir, c.GroundHeight)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return c.pointAt(origin, dir, t, c.GroundHeight), true
}

func (c *TiltedCamera) CastToSurface(screen mgl32.Vec2) (mgl32.Vec3, bool) {
	origin, dir, ok := c.Ray(screen)
	if !ok {
		return mgl32.Vec3{}, false
	}
	var (
		best  mgl32.Vec3
		bestT = float32(math.Inf(1))
		found bool
	)
	for _, s := range c.Surfaces {
		if c.SurfaceTags.Size() > 0 && !c.SurfaceTags.Contains(s.Tag) {
			continue
		}
		t, ok := c.intersectHeight(origin, dir, s.Height)
		if !ok || t >= bestT {
			continue
		}
		p := c.pointAt(origin, dir, t, s.Height)
		flat := c.Axes.Flatten(p)
		if flat[0] < s.Min[0] || flat[0] > s.Max[0] || flat[1] < s.Min[1] || flat[1] > s.Max[1] {
			continue
		}
		best, bestT, found = p, t, true
	}
	return best, found
}

// CastToEntity returns the nearest entity whose bounding sphere the ray hits.
func (c *TiltedCamera) CastToEntity(screen mgl32.Vec2) (EntityID, bool) {
	if c.Units == nil {
		return 0, false
	}
	origin, dir, ok := c.Ray(screen)
	if !ok {
		return 0, false
	}
	var (
		best  EntityID
		bestT = float32(math.Inf(1))
		found bool
	)
	for _, e := range c.Units.Entities() {
		t, ok := intersectSphere(origin, dir, e.Position, c.Units.Radius(e.ID))
		if !ok || t > c.MaxRayDistance || t >= bestT {
			continue
		}
		best, bestT, found = e.ID, t, true
	}
	return best, found
}

func (c *TiltedCamera) WorldToScreen(world mgl32.Vec3) (mgl32.Vec2, bool) {
	view, proj := c.View(), c.Projection()
	clip := proj.Mul4(view).Mul4x1(world.Vec4(1))
	if clip[3] <= 0 {
		return mgl32.Vec2{}, false
	}
	win := mgl32.Project(world, view, proj, 0, 0, c.Width, c.Height)
	return mgl32.Vec2{win[0], float32(c.Height) - win[1]}, true
}

func (c *TiltedCamera) intersectHeight(origin, dir mgl32.Vec3, height float32) (float32, bool) {
	up := c.Axes.Up()
	if abs32(dir[up]) < 1e-6 {
		return 0, false
	}
	t := (height - origin[up]) / dir[up]
	if t < 0 || t > c.MaxRayDistance {
		return 0, false
	}
	return t, true
}

func (c *TiltedCamera) pointAt(origin, dir mgl32.Vec3, t, height float32) mgl32.Vec3 {
	p := origin.Add(dir.Mul(t))
	p[c.Axes.Up()] = height
	return p
}

func intersectSphere(origin, dir, center mgl32.Vec3, radius float32) (float32, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	disc := b*b - (oc.Dot(oc) - radius*radius)
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
