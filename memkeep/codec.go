package memkeep

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/oliverbestmann/colony/internal/typedpool"
)

// Codec encodes the values stored in a MemKeep for the binary format.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// JSON is a Codec using encoding/json.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (JSON) Name() string { return "json" }

// MarshalJSON writes all live entries as [[id, value], ...] in increasing index order.
func (k *MemKeep[T]) MarshalJSON() ([]byte, error) {
	entries := make([][2]any, 0, k.Len())
	for id, value := range k.Enumerate() {
		entries = append(entries, [2]any{id, value})
	}

	return json.Marshal(entries)
}

// UnmarshalJSON replaces the content of k with the entries in data. Every entry
// keeps its original Id. The capacity of k is kept, or DefaultCapacity is used
// for a zero MemKeep, and grown if an entry needs a higher index. Growth stops
// at MaxCapacity.
func (k *MemKeep[T]) UnmarshalJSON(data []byte) error {
	k.requireUnborrowed("unmarshal")

	var raw [][2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode memkeep entries: %w", err)
	}

	capacity := len(k.storage)
	if capacity == 0 {
		capacity = DefaultCapacity
	}

	limit := max(capacity, MaxCapacity)

	ids := make([]Id, len(raw))
	values := make([]T, len(raw))

	for idx, entry := range raw {
		if err := json.Unmarshal(entry[0], &ids[idx]); err != nil {
			return fmt.Errorf("decode id of entry %d: %w", idx, err)
		}

		if err := checkIndex(idx, ids[idx], limit); err != nil {
			return err
		}

		if err := json.Unmarshal(entry[1], &values[idx]); err != nil {
			return fmt.Errorf("decode value of entry %d (%s): %w", idx, ids[idx], err)
		}
	}

	loaded, err := load(max(capacity, requiredCapacity(ids)), ids, values)
	if err != nil {
		return err
	}

	k.storage = loaded.storage
	k.freelist = loaded.freelist
	k.garbage = loaded.garbage

	return nil
}

// checkIndex rejects ids that do not fit into a MemKeep of the given capacity.
func checkIndex(record int, id Id, capacity int) error {
	if int64(id.Index) >= int64(capacity) {
		return &CorruptError{Record: record, Reason: fmt.Sprintf("index %d exceeds capacity %d", id.Index, capacity)}
	}

	return nil
}

func requiredCapacity(ids []Id) int {
	var required int
	for _, id := range ids {
		required = max(required, int(id.Index)+1)
	}

	return required
}

func load[T any](capacity int, ids []Id, values []T) (*MemKeep[T], error) {
	k := &MemKeep[T]{storage: make([]slot[T], capacity)}

	for idx, id := range ids {
		if err := k.restore(idx, id, values[idx]); err != nil {
			return nil, err
		}
	}

	k.rebuildFreelist()

	return k, nil
}

var magic = [4]byte{'M', 'K', 'E', 'P'}

// recordBuffers holds scratch buffers for encoding single records.
var recordBuffers = typedpool.New(func(buf *[]byte) { *buf = (*buf)[:0] })

// maxPayload limits the size of a single record to reject corrupt length fields early.
const maxPayload = 64 << 20

// Encode writes all live entries of k to w in increasing index order.
//
// Format: [magic:4][codec_len:1][codec][count:4] followed by count records
// [index:4][generation:4][payload_len:4][payload][checksum:4], all big endian.
// The checksum is a crc32 over index, generation, length and payload.
func Encode[T any](w io.Writer, k *MemKeep[T], codec Codec) error {
	name := codec.Name()
	if len(name) > 255 {
		return fmt.Errorf("codec name %q too long", name)
	}

	bw := bufio.NewWriter(w)

	header := make([]byte, 0, 4+1+len(name)+4)
	header = append(header, magic[:]...)
	header = append(header, byte(len(name)))
	header = append(header, name...)
	header = binary.BigEndian.AppendUint32(header, uint32(k.Len()))

	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	scratch := recordBuffers.Get()
	defer recordBuffers.Put(scratch)

	buf := *scratch
	defer func() { *scratch = buf }()

	for id, value := range k.Enumerate() {
		payload, err := codec.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", id, err)
		}

		buf = buf[:0]
		buf = binary.BigEndian.AppendUint32(buf, id.Index)
		buf = binary.BigEndian.AppendUint32(buf, id.Generation)
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(payload)))
		buf = append(buf, payload...)
		buf = binary.BigEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf))

		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write %s: %w", id, err)
		}
	}

	return bw.Flush()
}

// Decode reads a MemKeep written by Encode. A positive capacity is a hard limit
// for the indices found in r. Otherwise DefaultCapacity is used and grown as needed,
// up to MaxCapacity.
//
// Decode buffers its input. To read further data from the same stream after Decode
// returns, pass a *bufio.Reader.
func Decode[T any](r io.Reader, capacity int, codec Codec) (*MemKeep[T], error) {
	br := bufio.NewReader(r)

	var prefix [5]byte
	if _, err := io.ReadFull(br, prefix[:]); err != nil {
		return nil, corruptOrErr(-1, "read header", err)
	}

	if [4]byte(prefix[:4]) != magic {
		return nil, &CorruptError{Record: -1, Reason: "bad magic"}
	}

	name := make([]byte, prefix[4])
	if _, err := io.ReadFull(br, name); err != nil {
		return nil, corruptOrErr(-1, "read codec name", err)
	}

	if string(name) != codec.Name() {
		return nil, &CorruptError{Record: -1, Reason: fmt.Sprintf("written with codec %q, expected %q", name, codec.Name())}
	}

	var countBuf [4]byte
	if _, err := io.ReadFull(br, countBuf[:]); err != nil {
		return nil, corruptOrErr(-1, "read count", err)
	}

	count := binary.BigEndian.Uint32(countBuf[:])
	if capacity > 0 && uint64(count) > uint64(capacity) {
		return nil, &CorruptError{Record: -1, Reason: fmt.Sprintf("%d records exceed capacity %d", count, capacity)}
	}

	limit := capacity
	if limit <= 0 {
		limit = MaxCapacity
	}

	var ids []Id
	var values []T

	for record := 0; record < int(count); record++ {
		var head [12]byte
		if _, err := io.ReadFull(br, head[:]); err != nil {
			return nil, corruptOrErr(record, "read record header", err)
		}

		id := Id{
			Index:      binary.BigEndian.Uint32(head[0:4]),
			Generation: binary.BigEndian.Uint32(head[4:8]),
		}

		if err := checkIndex(record, id, limit); err != nil {
			return nil, err
		}

		payloadLen := binary.BigEndian.Uint32(head[8:12])
		if payloadLen > maxPayload {
			return nil, &CorruptError{Record: record, Reason: fmt.Sprintf("payload of %d bytes too large", payloadLen)}
		}

		// payload followed by the checksum
		body := make([]byte, int(payloadLen)+4)
		if _, err := io.ReadFull(br, body); err != nil {
			return nil, corruptOrErr(record, "read record payload", err)
		}

		payload := body[:payloadLen]

		checksum := crc32.NewIEEE()
		_, _ = checksum.Write(head[:])
		_, _ = checksum.Write(payload)

		if checksum.Sum32() != binary.BigEndian.Uint32(body[payloadLen:]) {
			return nil, &CorruptError{Record: record, Reason: "checksum mismatch"}
		}

		var value T
		if err := codec.Unmarshal(payload, &value); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", id, err)
		}

		ids = append(ids, id)
		values = append(values, value)
	}

	required := requiredCapacity(ids)

	switch {
	case capacity <= 0:
		capacity = max(DefaultCapacity, required)

	case required > capacity:
		return nil, &CorruptError{Record: -1, Reason: fmt.Sprintf("index %d exceeds capacity %d", required-1, capacity)}
	}

	return load(capacity, ids, values)
}

func corruptOrErr(record int, what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &CorruptError{Record: record, Reason: what + ": truncated"}
	}

	return fmt.Errorf("%s: %w", what, err)
}
