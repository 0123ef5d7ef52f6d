package colony

import (
	"errors"
	"fmt"

	"github.com/oliverbestmann/colony/memkeep"
)

// Config holds the tunables of a simulation. It is stored in save files.
type Config struct {
	PawnCapacity     int `json:"pawnCapacity"`
	BuildingCapacity int `json:"buildingCapacity"`

	// Size of the area pawns and buildings are placed in.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// TickSecs is the simulated time advanced by a single tick.
	TickSecs float64 `json:"tickSecs"`

	PawnSpeed  float64 `json:"pawnSpeed"`
	PawnRadius float64 `json:"pawnRadius"`

	// Distance at which a pawn counts as being inside a building.
	ReachRadius float64 `json:"reachRadius"`

	HungerPerSec  float64 `json:"hungerPerSec"`
	EatThreshold  float64 `json:"eatThreshold"`
	HarvestPerSec float64 `json:"harvestPerSec"`
	CarryCapacity float64 `json:"carryCapacity"`

	// Durability lost by every building per second, and additionally by a farm per worker.
	DecayPerSec float64 `json:"decayPerSec"`
	WearPerSec  float64 `json:"wearPerSec"`

	HouseFood float64 `json:"houseFood"`

	Seed uint64 `json:"seed"`
}

func DefaultConfig() Config {
	return Config{
		PawnCapacity:     1024,
		BuildingCapacity: 256,
		Width:            800,
		Height:           600,
		TickSecs:         1.0 / 20.0,
		PawnSpeed:        60,
		PawnRadius:       4,
		ReachRadius:      16,
		HungerPerSec:     0.02,
		EatThreshold:     0.5,
		HarvestPerSec:    0.5,
		CarryCapacity:    1,
		DecayPerSec:      0.001,
		WearPerSec:       0.002,
		HouseFood:        5,
		Seed:             1,
	}
}

// Validate reports settings a world cannot be created with.
func (c Config) Validate() error {
	var errs []error

	if c.PawnCapacity <= 0 || c.PawnCapacity > memkeep.MaxCapacity {
		errs = append(errs, fmt.Errorf("pawn capacity %d not in [1, %d]", c.PawnCapacity, memkeep.MaxCapacity))
	}

	if c.BuildingCapacity <= 0 || c.BuildingCapacity > memkeep.MaxCapacity {
		errs = append(errs, fmt.Errorf("building capacity %d not in [1, %d]", c.BuildingCapacity, memkeep.MaxCapacity))
	}

	if !(c.TickSecs > 0) {
		errs = append(errs, fmt.Errorf("tick duration %v must be positive", c.TickSecs))
	}

	if !(c.Width > 0) || !(c.Height > 0) {
		errs = append(errs, fmt.Errorf("area %vx%v must not be empty", c.Width, c.Height))
	}

	return errors.Join(errs...)
}
