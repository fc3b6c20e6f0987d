package graph

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ============================================================================
// CSR binary codec - host-local little-endian streams
// ============================================================================

// WriteUint64 writes one little-endian u64.
func WriteUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadUint64 reads one little-endian u64.
func ReadUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// WriteFloat64 writes one little-endian f64.
func WriteFloat64(w io.Writer, v float64) error {
	return WriteUint64(w, math.Float64bits(v))
}

// ReadFloat64 reads one little-endian f64.
func ReadFloat64(r io.Reader) (float64, error) {
	bits, err := ReadUint64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// WriteIntStream writes a length-prefixed stream of ints as u64.
func WriteIntStream(w io.Writer, vs []int) error {
	if err := WriteUint64(w, uint64(len(vs))); err != nil {
		return err
	}
	for _, v := range vs {
		if err := WriteUint64(w, uint64(v)); err != nil {
			return err
		}
	}
	return nil
}

// ReadIntStream reads a length-prefixed stream of ints.
func ReadIntStream(r io.Reader) ([]int, error) {
	n, err := ReadUint64(r)
	if err != nil {
		return nil, err
	}
	vs := make([]int, n)
	for i := range vs {
		u, err := ReadUint64(r)
		if err != nil {
			return nil, err
		}
		vs[i] = int(u)
	}
	return vs, nil
}

// WriteFloatStream writes a length-prefixed stream of f64.
func WriteFloatStream(w io.Writer, vs []float64) error {
	if err := WriteUint64(w, uint64(len(vs))); err != nil {
		return err
	}
	for _, v := range vs {
		if err := WriteFloat64(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadFloatStream reads a length-prefixed stream of f64.
func ReadFloatStream(r io.Reader) ([]float64, error) {
	n, err := ReadUint64(r)
	if err != nil {
		return nil, err
	}
	vs := make([]float64, n)
	for i := range vs {
		f, err := ReadFloat64(r)
		if err != nil {
			return nil, err
		}
		vs[i] = f
	}
	return vs, nil
}

// Encode writes the graph as node count, offsets, neighbors and weights.
func (g *CSR) Encode(w io.Writer) error {
	if err := WriteUint64(w, uint64(g.nodeCount)); err != nil {
		return err
	}
	if err := WriteIntStream(w, g.offsets); err != nil {
		return err
	}
	if err := WriteIntStream(w, g.neighbors); err != nil {
		return err
	}
	return WriteFloatStream(w, g.weights)
}

// DecodeCSR reads a graph previously written by Encode and rebuilds the
// derived degree and total-weight caches.
func DecodeCSR(r io.Reader) (*CSR, error) {
	nodeCount, err := ReadUint64(r)
	if err != nil {
		return nil, err
	}
	offsets, err := ReadIntStream(r)
	if err != nil {
		return nil, err
	}
	neighbors, err := ReadIntStream(r)
	if err != nil {
		return nil, err
	}
	weights, err := ReadFloatStream(r)
	if err != nil {
		return nil, err
	}

	n := int(nodeCount)
	if len(offsets) != n+1 || len(neighbors) != len(weights) {
		return nil, fmt.Errorf("corrupt csr stream: %d offsets, %d neighbors, %d weights", len(offsets), len(neighbors), len(weights))
	}

	degrees := make([]int, n)
	weightedDegrees := make([]float64, n)
	var weightSum float64
	for v := 0; v < n; v++ {
		degrees[v] = offsets[v+1] - offsets[v]
		var d float64
		for i := offsets[v]; i < offsets[v+1]; i++ {
			d += weights[i]
		}
		weightedDegrees[v] = d
		weightSum += d
	}

	return &CSR{
		nodeCount:       n,
		offsets:         offsets,
		neighbors:       neighbors,
		weights:         weights,
		degrees:         degrees,
		weightedDegrees: weightedDegrees,
		totalWeight:     weightSum / 2.0,
	}, nil
}
