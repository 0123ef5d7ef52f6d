package colony

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/oliverbestmann/colony/memkeep"
	"github.com/stretchr/testify/require"
)

func TestWorld_SaveLoad(t *testing.T) {
	w := newTestWorld(t, nil)
	require.NoError(t, w.Populate(20, 3, 3))

	for range 50 {
		w.Tick()
	}

	// leave a hole in the pawn arena
	var victim memkeep.Id
	for id := range w.Pawns.Ids() {
		victim = id
		break
	}

	require.True(t, w.KillPawn(victim, "test"))
	w.Tick()

	var buf bytes.Buffer
	require.NoError(t, w.Save(&buf))

	loaded, err := Load(bytes.NewReader(buf.Bytes()), WithLogger(discardLogger()))
	require.NoError(t, err)

	require.Equal(t, w.TickCount(), loaded.TickCount())
	require.Equal(t, w.Config(), loaded.Config())
	require.Equal(t, w.Summary(), loaded.Summary())

	expectedPawns, err := json.Marshal(w.Pawns)
	require.NoError(t, err)

	actualPawns, err := json.Marshal(loaded.Pawns)
	require.NoError(t, err)

	require.JSONEq(t, string(expectedPawns), string(actualPawns))

	for id, building := range w.Buildings.Enumerate() {
		other := buildingOf(t, loaded, id)
		require.Equal(t, building.Kind, other.Kind)
		require.Equal(t, building.Pos, other.Pos)
		require.Equal(t, building.Food, other.Food)
		require.Equal(t, building.Durability, other.Durability)
		require.Equal(t,
			building.Residents.Sorted(memkeep.Id.Compare),
			other.Residents.Sorted(memkeep.Id.Compare))
		require.Equal(t,
			building.Workers.Sorted(memkeep.Id.Compare),
			other.Workers.Sorted(memkeep.Id.Compare))
	}

	t.Run("dead pawn stays dead", func(t *testing.T) {
		_, ok := loaded.Pawns.Get(victim)
		require.False(t, ok)
	})

	t.Run("loaded world keeps ticking", func(t *testing.T) {
		for pawn := range loaded.Pawns.Values() {
			require.NotNil(t, pawn.body)
		}

		live := map[uint32]bool{}
		for id := range loaded.Pawns.Ids() {
			live[id.Index] = true
		}

		newId := mustSpawnPawn(t, loaded, "Newcomer", 10, 10)
		require.False(t, live[newId.Index])

		loaded.Tick()
		require.Equal(t, w.TickCount()+1, loaded.TickCount())
	})
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("definitely not a save file")), WithLogger(discardLogger()))
	require.Error(t, err)
}

func compressed(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)

	_, err = enc.Write(data)
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	return buf.Bytes()
}

func TestLoad_RejectsOversizedInput(t *testing.T) {
	t.Run("header length", func(t *testing.T) {
		data := compressed(t, binary.BigEndian.AppendUint32(nil, 0xFFFFFFFF))

		_, err := Load(bytes.NewReader(data), WithLogger(discardLogger()))
		require.ErrorContains(t, err, "exceeds")
	})

	t.Run("capacity", func(t *testing.T) {
		config := DefaultConfig()
		config.PawnCapacity = 1 << 40

		header, err := json.Marshal(saveHeader{Version: saveVersion, Config: config})
		require.NoError(t, err)

		data := binary.BigEndian.AppendUint32(nil, uint32(len(header)))
		data = append(data, header...)

		_, err = Load(bytes.NewReader(compressed(t, data)), WithLogger(discardLogger()))
		require.ErrorContains(t, err, "pawn capacity")
	})
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	config := DefaultConfig()
	config.BuildingCapacity = 0
	config.TickSecs = 0
	require.Error(t, config.Validate())

	require.Error(t, Config{}.Validate())
}

func TestWorld_BuildingsEncodeDeterministically(t *testing.T) {
	w := newTestWorld(t, nil)
	require.NoError(t, w.Populate(30, 2, 2))
	w.Tick()

	first, err := json.Marshal(w.Buildings)
	require.NoError(t, err)

	for range 10 {
		again, err := json.Marshal(w.Buildings)
		require.NoError(t, err)
		require.Equal(t, string(first), string(again))
	}
}

func TestLoad_CapacityFromConfig(t *testing.T) {
	w := newTestWorld(t, func(config *Config) {
		config.PawnCapacity = 7
		config.BuildingCapacity = 5
	})

	require.NoError(t, w.Populate(3, 1, 1))

	var buf bytes.Buffer
	require.NoError(t, w.Save(&buf))

	loaded, err := Load(&buf, WithLogger(discardLogger()))
	require.NoError(t, err)

	require.Equal(t, 7, loaded.Pawns.Cap())
	require.Equal(t, 5, loaded.Buildings.Cap())
}

func TestKind_Text(t *testing.T) {
	for _, kind := range []Kind{KindHouse, KindFarm} {
		text, err := kind.MarshalText()
		require.NoError(t, err)

		var decoded Kind
		require.NoError(t, decoded.UnmarshalText(text))
		require.Equal(t, kind, decoded)
	}

	_, err := Kind(0).MarshalText()
	require.Error(t, err)

	var kind Kind
	require.Error(t, kind.UnmarshalText([]byte("castle")))

	require.Equal(t, "house", KindHouse.String())
	require.Equal(t, "Kind(9)", Kind(9).String())
}
