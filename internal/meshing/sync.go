package meshing

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Mokuzzai/block-game/internal/profiling"
	"github.com/Mokuzzai/block-game/internal/registry"
	"github.com/Mokuzzai/block-game/internal/world"
	"github.com/Mokuzzai/block-game/pkg/geometry"
)

// Handle identifies a renderable owned by a Sink.
type Handle uint32

// Sink receives rebuilt chunk meshes. Publish replaces whatever was previously
// published under handle.
type Sink interface {
	Publish(handle Handle, mesh geometry.Mesh) error
}

// Releaser is implemented by sinks that hold resources per handle. Release is
// called once the handle's chunk has been unloaded.
type Releaser interface {
	Release(handle Handle)
}

// Binding pairs a chunk with the renderable showing its mesh.
type Binding struct {
	Chunk  *world.Chunk
	Handle Handle
}

// TickStats summarises the last Tick.
type TickStats struct {
	Dirty     int
	Published int
	Failed    int
	Vertices  int
	Triangles int
	Duration  time.Duration
}

// System rebuilds and republishes the meshes of dirty chunks once per tick.
type System struct {
	templates *registry.Templates
	sink      Sink
	pool      *WorkerPool
	cull      bool
	last      TickStats
}

// NewSystem creates a sync system reading templates and publishing to sink.
func NewSystem(templates *registry.Templates, sink Sink) *System {
	return &System{templates: templates, sink: sink}
}

// SetPool makes Tick build dirty chunks in parallel on p. Publishing still
// happens on the goroutine calling Tick.
func (s *System) SetPool(p *WorkerPool) { s.pool = p }

// SetCullHiddenFaces toggles dropping faces shared by two solid voxels.
func (s *System) SetCullHiddenFaces(on bool) { s.cull = on }

// LastTick returns the stats of the most recent Tick.
func (s *System) LastTick() TickStats { return s.last }

// Tick rebuilds every dirty chunk in bindings, publishes the result under its
// handle and marks the chunk clean. A chunk whose build or publish fails stays
// dirty and keeps its previously published mesh; the other bindings are still
// processed and all failures are returned joined.
func (s *System) Tick(bindings []Binding) error {
	defer profiling.Track("meshing.Tick")()
	start := time.Now()

	dirty := make([]Binding, 0, len(bindings))
	for _, b := range bindings {
		if b.Chunk != nil && b.Chunk.IsDirty() {
			dirty = append(dirty, b)
		}
	}
	stats := TickStats{Dirty: len(dirty)}

	results := s.build(dirty)

	var errs []error
	for i, b := range dirty {
		res := results[i]
		if res.Error != nil {
			stats.Failed++
			log.Printf("mesh rebuild failed for chunk %v: %v", b.Chunk.Coord, res.Error)
			errs = append(errs, fmt.Errorf("chunk %v: %w", b.Chunk.Coord, res.Error))
			continue
		}
		mesh := res.Buffer.Mesh()
		if err := s.sink.Publish(b.Handle, mesh); err != nil {
			stats.Failed++
			log.Printf("mesh publish failed for chunk %v handle %d: %v", b.Chunk.Coord, b.Handle, err)
			errs = append(errs, fmt.Errorf("chunk %v handle %d: %w", b.Chunk.Coord, b.Handle, err))
			continue
		}
		b.Chunk.SetClean()
		stats.Published++
		stats.Vertices += mesh.VertexCount()
		stats.Triangles += mesh.TriangleCount()
	}

	stats.Duration = time.Since(start)
	s.last = stats
	return errors.Join(errs...)
}

// build returns one result per binding, in binding order.
func (s *System) build(dirty []Binding) []MeshResult {
	results := make([]MeshResult, len(dirty))
	if s.pool == nil || len(dirty) < 2 {
		for i, b := range dirty {
			results[i] = s.buildOne(i, b.Chunk)
		}
		return results
	}

	ch := make(chan MeshResult, len(dirty))
	pending := 0
	for i, b := range dirty {
		job := MeshJob{Seq: i, Chunk: b.Chunk, Templates: s.templates, CullFaces: s.cull, ResultChan: ch}
		if s.pool.SubmitJobBlocking(job) {
			pending++
		} else {
			results[i] = s.buildOne(i, b.Chunk)
		}
	}
	for ; pending > 0; pending-- {
		res := <-ch
		results[res.Seq] = res
	}
	return results
}

func (s *System) buildOne(seq int, c *world.Chunk) MeshResult {
	defer profiling.Track("meshing.BuildChunkMesh")()
	return runJob(MeshJob{Seq: seq, Chunk: c, Templates: s.templates, CullFaces: s.cull})
}
