package colony

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/klauspost/compress/zstd"
	"github.com/oliverbestmann/colony/memkeep"
)

const saveVersion = 1

// maxHeaderSize bounds the json header of a save file.
const maxHeaderSize = 1 << 20

type saveHeader struct {
	Version int    `json:"version"`
	Tick    uint64 `json:"tick"`
	Config  Config `json:"config"`
}

// Save writes a zstd compressed snapshot of the world:
// a length prefixed json header followed by the pawn and the building arena
// in the memkeep binary format.
func (w *World) Save(out io.Writer) error {
	enc, err := zstd.NewWriter(out)
	if err != nil {
		return fmt.Errorf("create compressor: %w", err)
	}

	if err := w.writeSnapshot(enc); err != nil {
		_ = enc.Close()
		return err
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush compressor: %w", err)
	}

	w.logger.Info("Saved world", slog.Any("summary", w.Summary()))

	return nil
}

func (w *World) writeSnapshot(out io.Writer) error {
	header, err := json.Marshal(saveHeader{
		Version: saveVersion,
		Tick:    w.tick,
		Config:  w.config,
	})
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	if _, err := out.Write(binary.BigEndian.AppendUint32(nil, uint32(len(header)))); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if _, err := out.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if err := memkeep.Encode(out, w.Pawns, memkeep.JSON{}); err != nil {
		return fmt.Errorf("write pawns: %w", err)
	}

	if err := memkeep.Encode(out, w.Buildings, memkeep.JSON{}); err != nil {
		return fmt.Errorf("write buildings: %w", err)
	}

	return nil
}

// Load reads a world written by Save. Pawn and building ids are preserved.
func Load(in io.Reader, opts ...Option) (*World, error) {
	dec, err := zstd.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("create decompressor: %w", err)
	}

	defer dec.Close()

	// a single buffered reader shared by all sections, memkeep.Decode reuses it
	r := bufio.NewReader(dec)

	var headerLen [4]byte
	if _, err := io.ReadFull(r, headerLen[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	size := binary.BigEndian.Uint32(headerLen[:])
	if size > maxHeaderSize {
		return nil, fmt.Errorf("header of %d bytes exceeds %d bytes", size, maxHeaderSize)
	}

	headerBytes := make([]byte, size)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var header saveHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}

	if header.Version != saveVersion {
		return nil, fmt.Errorf("unsupported save version %d", header.Version)
	}

	if err := header.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	pawns, err := memkeep.Decode[Pawn](r, header.Config.PawnCapacity, memkeep.JSON{})
	if err != nil {
		return nil, fmt.Errorf("read pawns: %w", err)
	}

	buildings, err := memkeep.Decode[Building](r, header.Config.BuildingCapacity, memkeep.JSON{})
	if err != nil {
		return nil, fmt.Errorf("read buildings: %w", err)
	}

	w := NewWorld(header.Config, opts...)
	w.Pawns = pawns
	w.Buildings = buildings
	w.tick = header.Tick

	for pawn := range w.Pawns.Values() {
		w.attachBody(pawn)
	}

	w.logger.Info("Loaded world", slog.Any("summary", w.Summary()))

	return w, nil
}
