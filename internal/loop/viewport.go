package loop

import (
	"math"

	"github.com/Samster1523/ColorShooter2/internal/config"
	"github.com/Samster1523/ColorShooter2/internal/object"
	"github.com/Samster1523/ColorShooter2/internal/physics"
)

// viewport maps world units (y up) onto the logical view (y down).
type viewport struct {
	world  physics.Bounds
	scaleX float64
	scaleY float64
}

// worldBounds frames the emitter track, the spawn area and the fail line.
func worldBounds(g config.Game) physics.Bounds {
	r := g.Round
	bottom := math.Min(g.Emitter.Y, r.FailLineY)
	if r.FailRule != config.FailLine {
		bottom = g.Emitter.Y
	}
	return physics.Bounds{
		MinX: math.Min(g.Emitter.MinX, r.SpawnX.Min) - worldMarginX,
		MaxX: math.Max(g.Emitter.MaxX, r.SpawnX.Max) + worldMarginX,
		MinY: bottom - worldMarginBottom,
		MaxY: math.Max(r.PlayfieldTop, r.SpawnY.Max),
	}
}

func newViewport(world physics.Bounds) viewport {
	return viewport{
		world:  world,
		scaleX: ViewWidth / (world.MaxX - world.MinX),
		scaleY: ViewHeight / (world.MaxY - world.MinY),
	}
}

func (v viewport) toView(p object.Vec2) (x, y float64) {
	return (p.X - v.world.MinX) * v.scaleX, (v.world.MaxY - p.Y) * v.scaleY
}

// radius converts a world radius to view units.
func (v viewport) radius(r float64) float64 {
	return r * math.Min(v.scaleX, v.scaleY)
}
