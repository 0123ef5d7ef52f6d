package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/colony/colony"
	"github.com/oliverbestmann/colony/memkeep"
)

var (
	colorBackground = color.RGBA{R: 0x20, G: 0x24, B: 0x20, A: 0xff}
	colorHouse      = color.RGBA{R: 0x5b, G: 0x7d, B: 0xc8, A: 0xff}
	colorFarm       = color.RGBA{R: 0x6a, G: 0xa8, B: 0x4f, A: 0xff}
)

const buildingSize = 20

type game struct {
	World *colony.World

	savePath string
	paused   bool
	spawned  int

	path vector.Path
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyS) && g.savePath != "" {
		if err := g.save(); err != nil {
			slog.Warn("Failed to save world", slog.String("error", err.Error()))
		}
	}

	cursor := cursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.spawned++

		name := fmt.Sprintf("Visitor %d", g.spawned)
		if _, err := g.World.SpawnPawn(name, cursor); err != nil {
			slog.Warn("Failed to spawn pawn", slog.String("error", err.Error()))
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if id, ok := g.closestBuilding(cursor); ok {
			g.World.DemolishBuilding(id, "demolished by player")
		}
	}

	if !g.paused {
		g.World.Tick()
	}

	return nil
}

func (g *game) save() error {
	fp, err := os.Create(g.savePath)
	if err != nil {
		return err
	}

	if err := g.World.Save(fp); err != nil {
		_ = fp.Close()
		return err
	}

	return fp.Close()
}

func (g *game) closestBuilding(pos cp.Vector) (memkeep.Id, bool) {
	closestId := memkeep.Invalid
	closestDistance := math.Inf(1)

	for id, building := range g.World.Buildings.Enumerate() {
		if distance := building.Pos.Distance(pos); distance < closestDistance {
			closestId, closestDistance = id, distance
		}
	}

	return closestId, closestDistance <= buildingSize
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	release := g.World.Pawns.Pin()
	defer release()

	for building := range g.World.Buildings.Values() {
		clr := colorHouse
		if building.Kind == colony.KindFarm {
			clr = colorFarm
		}

		// fade out while decaying
		clr.A = uint8(64 + 191*max(0, min(1, building.Durability)))

		x, y := float32(building.Pos.X), float32(building.Pos.Y)
		half := float32(buildingSize / 2)

		g.path.Reset()
		g.path.MoveTo(x-half, y-half)
		g.path.LineTo(x+half, y-half)
		g.path.LineTo(x+half, y+half)
		g.path.LineTo(x-half, y+half)
		g.path.Close()

		vector.FillPath(screen, &g.path, clr, true, vector.FillRuleNonZero)
	}

	radius := float32(g.World.Config().PawnRadius)

	for pawn := range g.World.Pawns.Values() {
		g.path.Reset()
		g.path.Arc(float32(pawn.Pos.X), float32(pawn.Pos.Y), radius, 0, 2*math.Pi, vector.Clockwise)
		g.path.Close()

		vector.FillPath(screen, &g.path, hungerColor(pawn.Hunger), true, vector.FillRuleNonZero)
	}

	summary := g.World.Summary()

	status := fmt.Sprintf("tick %d  pawns %d  houses %d  farms %d  food %.1f  tick %s",
		summary.Tick, summary.Pawns, summary.Houses, summary.Farms, summary.Food,
		g.World.Stats().Tick.MovingAverage)

	if g.paused {
		status += "  [paused]"
	}

	ebitenutil.DebugPrint(screen, status)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	config := g.World.Config()
	return int(config.Width), int(config.Height)
}

// hungerColor blends from white to red as the pawn starves.
func hungerColor(hunger float64) color.Color {
	fed := uint8(255 * (1 - max(0, min(1, hunger))))
	return color.RGBA{R: 0xff, G: fed, B: fed, A: 0xff}
}

func cursorPosition() cp.Vector {
	x, y := ebiten.CursorPosition()
	return cp.Vector{X: float64(x), Y: float64(y)}
}
