package sweepselect

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
)

type billboard struct {
	*ecs.BasicEntity
	*common.SpaceComponent
	*common.RenderComponent
}

// BillboardSystem keeps each unit's sprite centred on the screen position of
// its world position, hiding it when the camera cannot see it.
type BillboardSystem struct {
	Camera ScreenProjector
	Units  *Units

	Entities []billboard
}

func (bs *BillboardSystem) Add(ent *ecs.BasicEntity, sc *common.SpaceComponent, rc *common.RenderComponent) {
	bs.Entities = append(bs.Entities, billboard{ent, sc, rc})
}

func (bs *BillboardSystem) Remove(ent ecs.BasicEntity) {
	idx := -1
	for i, e := range bs.Entities {
		if ent.ID() == e.BasicEntity.ID() {
			idx = i
		}
	}
	if idx != -1 {
		bs.Entities = append(bs.Entities[:idx], bs.Entities[idx+1:]...)
	}
}

func (bs *BillboardSystem) Update(dt float32) {
	if bs.Camera == nil || bs.Units == nil {
		return
	}
	for _, e := range bs.Entities {
		u, ok := bs.Units.Get(EntityID(e.BasicEntity.ID()))
		if !ok {
			continue
		}
		pos, visible := bs.Camera.WorldToScreen(u.Position)
		e.RenderComponent.Hidden = !visible
		if visible {
			e.SpaceComponent.SetCenter(engo.Point{X: pos[0], Y: pos[1]})
		}
	}
}
