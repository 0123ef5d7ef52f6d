package colony

import (
	"log/slog"

	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/colony/memkeep"
)

// Tick advances the simulation by Config.TickSecs.
//
// All phases run while both arenas are pinned, so values may be accessed freely
// by pointer. Removed pawns and buildings are only reclaimed at the very end.
func (w *World) Tick() {
	defer w.stats.MeasureTick().Stop()

	w.tick += 1

	w.runPinned(func() {
		w.runPhase("assign", w.assignPhase)
		w.runPhase("move", w.movePhase)
		w.runPhase("work", w.workPhase)
		w.runPhase("decay", w.decayPhase)
		w.runPhase("reap", w.reapPhase)
	})

	w.runPhase("gc", w.gcPhase)
}

func (w *World) runPinned(fn func()) {
	releasePawns := w.Pawns.Pin()
	defer releasePawns()

	releaseBuildings := w.Buildings.Pin()
	defer releaseBuildings()

	fn()
}

func (w *World) runPhase(name string, phase func()) {
	defer w.stats.MeasurePhase(name).Stop()
	phase()
}

// assignPhase drops stale building references and looks for a new home or workplace.
func (w *World) assignPhase() {
	for id, pawn := range w.Pawns.Enumerate() {
		if _, ok := w.Buildings.Get(pawn.Home); !ok {
			pawn.Home = w.claim(id, pawn.Home, KindHouse)
		}

		if _, ok := w.Buildings.Get(pawn.Work); !ok {
			pawn.Work = w.claim(id, pawn.Work, KindFarm)
		}
	}
}

// claim registers the pawn with the building of the given kind that has the fewest members.
func (w *World) claim(pawnId, previous memkeep.Id, kind Kind) memkeep.Id {
	var bestId memkeep.Id
	var best *Building

	for id, building := range w.Buildings.Enumerate() {
		if building.Kind != kind {
			continue
		}

		if best == nil || building.members().Len() < best.members().Len() {
			bestId, best = id, building
		}
	}

	if best == nil {
		if previous.IsValid() {
			w.logger.Debug("Pawn lost its building",
				slog.Any("pawn", pawnId),
				slog.Any("building", previous),
				slog.String("kind", kind.String()))
		}

		return memkeep.Invalid
	}

	best.members().Insert(pawnId)

	w.logger.Debug("Pawn claimed building",
		slog.Any("pawn", pawnId),
		slog.Any("building", bestId),
		slog.String("kind", kind.String()))

	return bestId
}

// target returns the position the pawn is walking to.
func (w *World) target(pawn *Pawn) (cp.Vector, bool) {
	goHome := pawn.Carrying >= w.config.CarryCapacity || pawn.Hunger >= w.config.EatThreshold

	if goHome {
		if home, ok := w.Buildings.Get(pawn.Home); ok {
			return home.Pos, true
		}
	}

	if work, ok := w.Buildings.Get(pawn.Work); ok {
		return work.Pos, true
	}

	return cp.Vector{}, false
}

func (w *World) movePhase() {
	for pawn := range w.Pawns.Values() {
		if pawn.body == nil {
			w.attachBody(pawn)
		}

		var velocity cp.Vector

		if target, ok := w.target(pawn); ok {
			delta := target.Sub(pawn.Pos)
			if distance := delta.Length(); distance > w.config.ReachRadius/2 {
				velocity = delta.Mult(w.config.PawnSpeed / distance)
			}
		}

		pawn.body.SetVelocityVector(velocity)
	}

	w.space.Step(w.config.TickSecs)

	for pawn := range w.Pawns.Values() {
		pos := pawn.body.Position()
		pos.X = max(0, min(w.config.Width, pos.X))
		pos.Y = max(0, min(w.config.Height, pos.Y))

		if pos != pawn.body.Position() {
			pawn.body.SetPosition(pos)
		}

		pawn.Pos = pos
	}
}

func (w *World) near(pawn *Pawn, building *Building) bool {
	return pawn.Pos.Distance(building.Pos) <= w.config.ReachRadius
}

func (w *World) workPhase() {
	dt := w.config.TickSecs

	for pawn := range w.Pawns.Values() {
		hungry := pawn.Hunger >= w.config.EatThreshold

		if work, ok := w.Buildings.Get(pawn.Work); ok && !hungry && w.near(pawn, work) {
			if pawn.Carrying < w.config.CarryCapacity {
				pawn.Carrying = min(w.config.CarryCapacity, pawn.Carrying+w.config.HarvestPerSec*dt)
				work.Durability -= w.config.WearPerSec * dt
			}
		}

		if home, ok := w.Buildings.Get(pawn.Home); ok && w.near(pawn, home) {
			home.Food += pawn.Carrying
			pawn.Carrying = 0

			bite := min(home.Food, pawn.Hunger)
			home.Food -= bite
			pawn.Hunger -= bite
		}

		pawn.Hunger += w.config.HungerPerSec * dt
	}
}

func (w *World) decayPhase() {
	dt := w.config.TickSecs

	for id, building := range w.Buildings.Enumerate() {
		building.Durability -= w.config.DecayPerSec * dt

		if building.Durability <= 0 {
			w.DemolishBuilding(id, "collapsed")
		}
	}
}

func (w *World) reapPhase() {
	for id, pawn := range w.Pawns.Enumerate() {
		if pawn.Hunger >= 1 {
			w.KillPawn(id, "starved")
		}
	}
}

func (w *World) gcPhase() {
	pawns := w.Pawns.GC()
	buildings := w.Buildings.GC()

	if pawns > 0 || buildings > 0 {
		w.logger.Debug("Reclaimed slots",
			slog.Int("pawns", pawns),
			slog.Int("buildings", buildings),
			slog.Uint64("tick", w.tick))
	}
}
