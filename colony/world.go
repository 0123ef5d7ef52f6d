package colony

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/colony/memkeep"
)

// World holds all pawns and buildings of a colony.
// A World is not safe for concurrent use.
type World struct {
	Pawns     *memkeep.MemKeep[Pawn]
	Buildings *memkeep.MemKeep[Building]

	config Config
	logger *slog.Logger
	rand   *rand.Rand
	space  *cp.Space

	tick  uint64
	stats TickStats
}

func NewWorld(config Config, opts ...Option) *World {
	o := buildOptions(config, opts)

	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})

	return &World{
		Pawns:     memkeep.New[Pawn](config.PawnCapacity),
		Buildings: memkeep.New[Building](config.BuildingCapacity),
		config:    config,
		logger:    o.logger,
		rand:      o.rand,
		space:     space,
		stats:     NewTickStats(),
	}
}

func (w *World) Config() Config {
	return w.config
}

// TickCount returns the number of ticks simulated so far.
func (w *World) TickCount() uint64 {
	return w.tick
}

func (w *World) Stats() *TickStats {
	return &w.stats
}

// SpawnBuilding places a new building at pos.
func (w *World) SpawnBuilding(kind Kind, pos cp.Vector) (memkeep.Id, error) {
	building := Building{
		Kind:       kind,
		Pos:        pos,
		Durability: 1,
	}

	if kind == KindHouse {
		building.Food = w.config.HouseFood
	}

	id, err := memkeep.Insert(w.Buildings, building)
	if err != nil {
		return memkeep.Invalid, fmt.Errorf("spawn %s: %w", kind, err)
	}

	w.logger.Debug("Spawned building",
		slog.Any("building", id),
		slog.String("kind", kind.String()))

	return id, nil
}

// SpawnPawn places a new pawn at pos. It picks a home and a workplace during the next tick.
func (w *World) SpawnPawn(name string, pos cp.Vector) (memkeep.Id, error) {
	pawn, err := memkeep.InsertRef(w.Pawns, Pawn{Name: name, Pos: pos})
	if err != nil {
		return memkeep.Invalid, fmt.Errorf("spawn pawn %q: %w", name, err)
	}

	w.attachBody(pawn)

	w.logger.Debug("Spawned pawn",
		slog.Any("pawn", pawn.Id),
		slog.String("name", name))

	return pawn.Id, nil
}

var pawnNames = []string{
	"Ada", "Boris", "Cleo", "Dmitri", "Edith", "Farid", "Greta", "Hugo",
	"Ines", "Jonas", "Kira", "Lev", "Mira", "Nils", "Olga", "Pavel",
}

// Populate spawns the given number of houses, farms and pawns at random positions.
func (w *World) Populate(pawns, farms, houses int) error {
	for range houses {
		if _, err := w.SpawnBuilding(KindHouse, w.randomPos()); err != nil {
			return err
		}
	}

	for range farms {
		if _, err := w.SpawnBuilding(KindFarm, w.randomPos()); err != nil {
			return err
		}
	}

	for idx := range pawns {
		name := fmt.Sprintf("%s %d", pawnNames[idx%len(pawnNames)], idx/len(pawnNames)+1)
		if _, err := w.SpawnPawn(name, w.randomPos()); err != nil {
			return err
		}
	}

	return nil
}

func (w *World) randomPos() cp.Vector {
	return cp.Vector{
		X: w.rand.Float64() * w.config.Width,
		Y: w.rand.Float64() * w.config.Height,
	}
}

// KillPawn removes the pawn immediately. It returns false if the id is stale.
func (w *World) KillPawn(id memkeep.Id, reason string) bool {
	// the final state stays readable until the next gc
	pawn, ok := w.Pawns.Remove(id)
	if !ok {
		return false
	}

	if home, ok := w.Buildings.Get(pawn.Home); ok {
		home.Residents.Remove(id)
	}

	if work, ok := w.Buildings.Get(pawn.Work); ok {
		work.Workers.Remove(id)
	}

	w.detachBody(pawn)

	w.logger.Info("Pawn died",
		slog.Any("pawn", id),
		slog.String("name", pawn.Name),
		slog.String("reason", reason),
		slog.Uint64("tick", w.tick))

	return true
}

// DemolishBuilding removes the building immediately. Pawns referring to it
// notice during their next tick.
func (w *World) DemolishBuilding(id memkeep.Id, reason string) bool {
	building, ok := w.Buildings.Remove(id)
	if !ok {
		return false
	}

	// release the members, their own references stay stale until the next assign phase
	members := building.members()
	released := members.Len()

	for {
		pawnId, ok := members.PopOne()
		if !ok {
			break
		}

		if pawn, ok := w.Pawns.Get(pawnId); ok {
			w.logger.Debug("Building released pawn",
				slog.Any("building", id),
				slog.Any("pawn", pawnId),
				slog.String("name", pawn.Name))
		}
	}

	w.logger.Info("Building demolished",
		slog.Any("building", id),
		slog.String("kind", building.Kind.String()),
		slog.Int("members", released),
		slog.String("reason", reason),
		slog.Uint64("tick", w.tick))

	return true
}

func (w *World) attachBody(pawn *Pawn) {
	const mass = 1.0

	radius := w.config.PawnRadius

	body := w.space.AddBody(cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{})))
	body.SetPosition(pawn.Pos)

	shape := w.space.AddShape(cp.NewCircle(body, radius, cp.Vector{}))
	shape.SetFriction(0)
	shape.SetElasticity(0)

	pawn.body = body
	pawn.shape = shape
}

func (w *World) detachBody(pawn *Pawn) {
	if pawn.body == nil {
		return
	}

	w.space.RemoveShape(pawn.shape)
	w.space.RemoveBody(pawn.body)

	pawn.body = nil
	pawn.shape = nil
}

// Summary describes the state of a world.
type Summary struct {
	Tick      uint64
	Pawns     int
	Houses    int
	Farms     int
	Food      float64
	Homeless  int
	Jobless   int
	AvgHunger float64
}

func (w *World) Summary() Summary {
	summary := Summary{Tick: w.tick, Pawns: w.Pawns.Len()}

	for building := range w.Buildings.Values() {
		switch building.Kind {
		case KindHouse:
			summary.Houses++
			summary.Food += building.Food
		case KindFarm:
			summary.Farms++
		}
	}

	for pawn := range w.Pawns.Values() {
		summary.AvgHunger += pawn.Hunger

		if _, ok := w.Buildings.Get(pawn.Home); !ok {
			summary.Homeless++
		}

		if _, ok := w.Buildings.Get(pawn.Work); !ok {
			summary.Jobless++
		}
	}

	if summary.Pawns > 0 {
		summary.AvgHunger /= float64(summary.Pawns)
	}

	return summary
}

func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", s.Tick),
		slog.Int("pawns", s.Pawns),
		slog.Int("houses", s.Houses),
		slog.Int("farms", s.Farms),
		slog.Float64("food", s.Food),
		slog.Int("homeless", s.Homeless),
		slog.Int("jobless", s.Jobless),
		slog.Float64("avgHunger", s.AvgHunger),
	)
}
