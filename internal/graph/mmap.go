package graph

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"

	"github.com/hit-leiden/pkg/model"
)

// ============================================================================
// Mmap backend - file-backed CSR arrays for graphs larger than RAM
// ============================================================================
//
// The mmap backend keeps the CSR adjacency arrays in memory-mapped temp
// files so the OS manages paging and the Go heap stays small. The solver
// sees the same *CSR it gets from the in-memory backend; only the backing
// store differs, so the observable partition is identical.

// mmapRegion is one file-backed mapping.
type mmapRegion struct {
	file *os.File
	data []byte
}

// newMmapRegion creates a temp-file-backed mapping of at least size bytes.
func newMmapRegion(name string, size int) (*mmapRegion, error) {
	file, err := os.CreateTemp("", name+"_*.mmap")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	pageSize := os.Getpagesize()
	fileSize := ((size + pageSize - 1) / pageSize) * pageSize
	if fileSize < pageSize {
		fileSize = pageSize
	}

	if err := file.Truncate(int64(fileSize)); err != nil {
		file.Close()
		os.Remove(file.Name())
		return nil, fmt.Errorf("failed to truncate file: %w", err)
	}

	data, err := syscall.Mmap(int(file.Fd()), 0, fileSize,
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		file.Close()
		os.Remove(file.Name())
		return nil, fmt.Errorf("failed to mmap: %w", err)
	}

	return &mmapRegion{file: file, data: data}, nil
}

// close unmaps and deletes the backing file.
func (r *mmapRegion) close() error {
	var firstErr error
	if err := syscall.Munmap(r.data); err != nil {
		firstErr = fmt.Errorf("munmap: %w", err)
	}
	name := r.file.Name()
	if err := r.file.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close: %w", err)
	}
	if err := os.Remove(name); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("remove: %w", err)
	}
	return firstErr
}

// mmapSlice copies src into a new region and returns a typed view over it.
func mmapSlice[T any](name string, src []T) ([]T, *mmapRegion, error) {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	region, err := newMmapRegion(name, len(src)*elemSize)
	if err != nil {
		return nil, nil, err
	}
	if len(src) == 0 {
		return nil, region, nil
	}
	view := unsafe.Slice((*T)(unsafe.Pointer(&region.data[0])), len(src))
	copy(view, src)
	return view, region, nil
}

// MmapGraph is a CSR graph whose adjacency arrays live in memory-mapped
// temp files. Close releases the mappings and deletes the files.
type MmapGraph struct {
	*CSR
	regions []*mmapRegion
}

// NewMmapGraph builds a CSR graph from an input graph with mmap-backed
// offsets, neighbors and weights arrays.
func NewMmapGraph(in *model.GraphInput) (*MmapGraph, error) {
	base := FromInput(in)

	offsets, r1, err := mmapSlice("offsets", base.offsets)
	if err != nil {
		return nil, err
	}
	neighbors, r2, err := mmapSlice("neighbors", base.neighbors)
	if err != nil {
		r1.close()
		return nil, err
	}
	weights, r3, err := mmapSlice("weights", base.weights)
	if err != nil {
		r1.close()
		r2.close()
		return nil, err
	}

	base.offsets = offsets
	base.neighbors = neighbors
	base.weights = weights

	return &MmapGraph{
		CSR:     base,
		regions: []*mmapRegion{r1, r2, r3},
	}, nil
}

// Close unmaps the adjacency arrays and deletes the backing files.
func (g *MmapGraph) Close() error {
	var firstErr error
	for _, r := range g.regions {
		if err := r.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	g.regions = nil
	return firstErr
}
