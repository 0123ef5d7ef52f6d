package colony

import (
	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/colony/internal/set"
	"github.com/oliverbestmann/colony/memkeep"
)

// Pawn is a colonist. Home and Work are weak references into the building arena
// and may become stale at any time.
type Pawn struct {
	memkeep.Self

	Name string    `json:"name"`
	Pos  cp.Vector `json:"pos"`

	Home memkeep.Id `json:"home"`
	Work memkeep.Id `json:"work"`

	Hunger   float64 `json:"hunger"`
	Carrying float64 `json:"carrying"`

	body  *cp.Body
	shape *cp.Shape
}

type Building struct {
	memkeep.Self

	Kind Kind      `json:"kind"`
	Pos  cp.Vector `json:"pos"`

	Residents set.Set[memkeep.Id] `json:"residents"`
	Workers   set.Set[memkeep.Id] `json:"workers"`

	Food       float64 `json:"food"`
	Durability float64 `json:"durability"`
}

// members returns the set of pawns attached to the building through a reference of the given kind.
func (b *Building) members() *set.Set[memkeep.Id] {
	if b.Kind == KindHouse {
		return &b.Residents
	}

	return &b.Workers
}
