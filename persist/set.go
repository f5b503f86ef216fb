package persist

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/idkit"
	"github.com/hupe1980/idkit/identifier"
)

// SaveSet writes a snapshot of the set to w.
//
// Body format: [Count uvarint] then one [Index uvarint] per member,
// ascending. Sets carry no values, so no codec name is recorded.
func SaveSet[K any](w io.Writer, s *idkit.Set[K], optFns ...func(*Options)) error {
	opts := applyOptions(optFns)
	trait := s.Trait()

	body := binary.AppendUvarint(nil, uint64(s.Len()))
	for k := range s.All() {
		body = binary.AppendUvarint(body, trait.Index(k))
	}

	if err := writeSnapshot(w, kindSet, "", opts.Compression, body); err != nil {
		return err
	}

	opts.Logger.WithCount(s.Len()).Debug("set snapshot saved")
	return nil
}

// LoadSet reads a set snapshot from r and rebuilds the set over the
// given trait.
func LoadSet[K any](r io.Reader, trait identifier.Trait[K], optFns ...func(*Options)) (*idkit.Set[K], error) {
	opts := applyOptions(optFns)

	_, body, err := readSnapshot(r, kindSet)
	if err != nil {
		return nil, err
	}

	count, body, err := readUvarint(body)
	if err != nil {
		return nil, err
	}

	s := idkit.NewSet[K](trait)
	for i := uint64(0); i < count; i++ {
		var idx uint64
		if idx, body, err = readUvarint(body); err != nil {
			return nil, err
		}
		k, err := trait.FromIndex(idx)
		if err != nil {
			return nil, fmt.Errorf("persist: snapshot index %d: %w", idx, err)
		}
		s.Insert(k)
	}

	opts.Logger.WithCount(s.Len()).Debug("set snapshot loaded")
	return s, nil
}
