package partition

import (
	"bytes"
	"context"
	"io"

	"github.com/hit-leiden/internal/graph"
	"github.com/hit-leiden/internal/storage"
	"github.com/hit-leiden/pkg/errors"
)

// ============================================================================
// Partition snapshot codec - host-local little-endian streams
// ============================================================================
//
// Layout: level count; seeded supergraph count; each supergraph as a CSR
// stream; then per level the four mapping arrays as flat u64 streams. No
// endianness conversion: persistence is host-local.

// Encode writes the state to w.
func (s *State) Encode(w io.Writer) error {
	if err := graph.WriteUint64(w, uint64(s.Levels)); err != nil {
		return err
	}

	seeded := 0
	for _, g := range s.Supergraphs {
		if g != nil {
			seeded++
		} else {
			break
		}
	}
	if err := graph.WriteUint64(w, uint64(seeded)); err != nil {
		return err
	}
	for p := 0; p < seeded; p++ {
		if err := s.Supergraphs[p].Encode(w); err != nil {
			return err
		}
	}

	for p := 0; p < s.Levels; p++ {
		for _, m := range [][]int{
			s.CommunityMapping[p],
			s.RefinedMapping[p],
			s.PrevSubcommunity[p],
			s.CurrSubcommunity[p],
		} {
			if err := graph.WriteIntStream(w, m); err != nil {
				return err
			}
		}
	}
	return nil
}

// Decode reads a state previously written by Encode.
func Decode(r io.Reader) (*State, error) {
	levels, err := graph.ReadUint64(r)
	if err != nil {
		return nil, err
	}
	s := &State{
		Levels:           int(levels),
		Supergraphs:      make([]*graph.CSR, int(levels)),
		CommunityMapping: make([][]int, int(levels)),
		RefinedMapping:   make([][]int, int(levels)),
		PrevSubcommunity: make([][]int, int(levels)),
		CurrSubcommunity: make([][]int, int(levels)),
	}

	seeded, err := graph.ReadUint64(r)
	if err != nil {
		return nil, err
	}
	for p := 0; p < int(seeded); p++ {
		g, err := graph.DecodeCSR(r)
		if err != nil {
			return nil, err
		}
		if p < s.Levels {
			s.Supergraphs[p] = g
		}
	}

	for p := 0; p < s.Levels; p++ {
		if s.CommunityMapping[p], err = graph.ReadIntStream(r); err != nil {
			return nil, err
		}
		if s.RefinedMapping[p], err = graph.ReadIntStream(r); err != nil {
			return nil, err
		}
		if s.PrevSubcommunity[p], err = graph.ReadIntStream(r); err != nil {
			return nil, err
		}
		if s.CurrSubcommunity[p], err = graph.ReadIntStream(r); err != nil {
			return nil, err
		}
	}

	s.NodeToCommunity = make([]int, len(s.CommunityMapping[0]))
	copy(s.NodeToCommunity, s.CommunityMapping[0])

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save persists the state under the given storage key.
func Save(ctx context.Context, store storage.Storage, key string, s *State) error {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return errors.Wrap(errors.CodeStorage, "failed to encode partition snapshot", err)
	}
	if err := store.Upload(ctx, key, &buf); err != nil {
		return errors.Wrap(errors.CodeStorage, "failed to upload partition snapshot", err)
	}
	return nil
}

// Load restores a state from the given storage key.
func Load(ctx context.Context, store storage.Storage, key string) (*State, error) {
	body, err := store.Download(ctx, key)
	if err != nil {
		return nil, errors.Wrap(errors.CodeStorage, "failed to fetch partition snapshot", err)
	}
	defer body.Close()

	s, err := Decode(body)
	if err != nil {
		return nil, errors.Wrap(errors.CodeStorage, "failed to decode partition snapshot", err)
	}
	return s, nil
}
