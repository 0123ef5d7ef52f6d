package memkeep

import (
	"cmp"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
)

// Id is a handle to a value stored in a MemKeep. It is a plain value and
// does not keep the referenced value alive.
type Id struct {
	Index      uint32
	Generation uint32
}

// Invalid is the zero Id. No live slot ever has generation zero.
var Invalid = Id{}

func (id Id) IsValid() bool {
	return id != Invalid
}

func (id Id) String() string {
	return strconv.FormatUint(uint64(id.Index), 10) + "." + strconv.FormatUint(uint64(id.Generation), 10)
}

func (id Id) LogValue() slog.Value {
	return slog.StringValue(id.String())
}

// Compare orders ids by index first, generation second.
func (id Id) Compare(other Id) int {
	if c := cmp.Compare(id.Index, other.Index); c != 0 {
		return c
	}

	return cmp.Compare(id.Generation, other.Generation)
}

func (id Id) Less(other Id) bool {
	return id.Compare(other) < 0
}

func (id Id) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint32{id.Index, id.Generation})
}

func (id *Id) UnmarshalJSON(data []byte) error {
	var pair [2]uint32
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}

	id.Index, id.Generation = pair[0], pair[1]
	return nil
}
