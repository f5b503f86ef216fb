// Package persist serializes idkit collections to self-describing
// binary snapshots.
//
// A snapshot is produced from the collection's ascending-order
// iteration and rebuilt via repeated inserts, so a round-trip preserves
// the (key, value) pairs and the live count but not the internal
// capacity. Bodies can be LZ4- or ZSTD-compressed and are always
// checksummed.
package persist

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/idkit"
	"github.com/hupe1980/idkit/codec"
	"github.com/hupe1980/idkit/identifier"
)

// SaveMap writes a snapshot of the map to w.
//
// Body format: [Count uvarint] then per entry
// [Index uvarint] [ValueLen uvarint] [Value bytes], ascending by index.
func SaveMap[K any, V any](w io.Writer, m *idkit.Map[K, V], optFns ...func(*Options)) error {
	opts := applyOptions(optFns)
	trait := m.Trait()

	body := binary.AppendUvarint(nil, uint64(m.Len()))
	for k, v := range m.All() {
		data, err := opts.Codec.Marshal(v)
		if err != nil {
			return fmt.Errorf("persist: encode value at index %d: %w", trait.Index(k), err)
		}
		body = binary.AppendUvarint(body, trait.Index(k))
		body = binary.AppendUvarint(body, uint64(len(data)))
		body = append(body, data...)
	}

	if err := writeSnapshot(w, kindMap, opts.Codec.Name(), opts.Compression, body); err != nil {
		return err
	}

	opts.Logger.WithCount(m.Len()).WithCodec(opts.Codec.Name()).Debug("map snapshot saved")
	return nil
}

// LoadMap reads a map snapshot from r and rebuilds the map over the
// given trait. Indices outside the trait's valid range fail with the
// trait's out-of-range error.
func LoadMap[K any, V any](r io.Reader, trait identifier.Trait[K], optFns ...func(*Options)) (*idkit.Map[K, V], error) {
	opts := applyOptions(optFns)

	codecName, body, err := readSnapshot(r, kindMap)
	if err != nil {
		return nil, err
	}
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, codecName)
	}

	count, body, err := readUvarint(body)
	if err != nil {
		return nil, err
	}

	m := idkit.NewMap[K, V](trait)
	for i := uint64(0); i < count; i++ {
		var idx, valueLen uint64
		if idx, body, err = readUvarint(body); err != nil {
			return nil, err
		}
		if valueLen, body, err = readUvarint(body); err != nil {
			return nil, err
		}
		if uint64(len(body)) < valueLen {
			return nil, fmt.Errorf("%w: truncated value at index %d", ErrCorrupt, idx)
		}

		k, err := trait.FromIndex(idx)
		if err != nil {
			return nil, fmt.Errorf("persist: snapshot index %d: %w", idx, err)
		}
		var v V
		if err := c.Unmarshal(body[:valueLen], &v); err != nil {
			return nil, fmt.Errorf("persist: decode value at index %d: %w", idx, err)
		}
		body = body[valueLen:]

		m.Insert(k, v)
	}

	opts.Logger.WithCount(m.Len()).WithCodec(codecName).Debug("map snapshot loaded")
	return m, nil
}

// readUvarint consumes one uvarint from the front of body.
func readUvarint(body []byte) (uint64, []byte, error) {
	v, n := binary.Uvarint(body)
	if n <= 0 {
		return 0, nil, ErrCorrupt
	}
	return v, body[n:], nil
}
