package game

import (
	"github.com/Mokuzzai/block-game/internal/meshing"
	"github.com/Mokuzzai/block-game/internal/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
)

// ChunkRef links an entity to the chunk it displays.
type ChunkRef struct {
	Chunk *world.Chunk
}

// Renderable is the sink handle of an entity plus where to draw it.
type Renderable struct {
	Handle meshing.Handle
	Origin mgl32.Vec3
	Size   int
}

// Scene hosts one entity per loaded chunk. Each entity owns a unique handle
// for the lifetime of the scene; handles are never reused.
type Scene struct {
	ecsWorld   *ecs.World
	byCoord    map[world.ChunkCoord]ecs.Entity
	nextHandle meshing.Handle
}

func NewScene() *Scene {
	return &Scene{
		ecsWorld:   ecs.NewWorld(),
		byCoord:    make(map[world.ChunkCoord]ecs.Entity),
		nextHandle: 1,
	}
}

// Spawn creates the entity for c and returns its handle. Spawning a chunk
// whose coordinate already has an entity rebinds it to c and keeps the handle.
func (s *Scene) Spawn(c *world.Chunk) meshing.Handle {
	mapper := ecs.NewMap2[ChunkRef, Renderable](s.ecsWorld)
	if e, ok := s.byCoord[c.Coord]; ok {
		ref, r := mapper.Get(e)
		ref.Chunk = c
		return r.Handle
	}

	n := c.Size()
	r := Renderable{
		Handle: s.nextHandle,
		Origin: mgl32.Vec3{float32(c.Coord.X * n), float32(c.Coord.Y * n), float32(c.Coord.Z * n)},
		Size:   n,
	}
	s.nextHandle++
	s.byCoord[c.Coord] = mapper.NewEntity(&ChunkRef{Chunk: c}, &r)
	return r.Handle
}

// Despawn removes the entity at coord and returns the handle it held.
func (s *Scene) Despawn(coord world.ChunkCoord) (meshing.Handle, bool) {
	e, ok := s.byCoord[coord]
	if !ok {
		return 0, false
	}
	mapper := ecs.NewMap2[ChunkRef, Renderable](s.ecsWorld)
	_, r := mapper.Get(e)
	h := r.Handle
	s.ecsWorld.RemoveEntity(e)
	delete(s.byCoord, coord)
	return h, true
}

// Bindings returns the chunk/handle pairs for coords, in the given order.
// Coordinates without an entity are skipped.
func (s *Scene) Bindings(coords []world.ChunkCoord) []meshing.Binding {
	mapper := ecs.NewMap2[ChunkRef, Renderable](s.ecsWorld)
	out := make([]meshing.Binding, 0, len(coords))
	for _, coord := range coords {
		e, ok := s.byCoord[coord]
		if !ok {
			continue
		}
		ref, r := mapper.Get(e)
		out = append(out, meshing.Binding{Chunk: ref.Chunk, Handle: r.Handle})
	}
	return out
}

// Each calls fn for every entity.
func (s *Scene) Each(fn func(c *world.Chunk, r Renderable)) {
	filter := ecs.NewFilter2[ChunkRef, Renderable](s.ecsWorld)
	query := filter.Query()
	for query.Next() {
		ref, r := query.Get()
		fn(ref.Chunk, *r)
	}
}

// Len returns the number of chunk entities.
func (s *Scene) Len() int {
	return len(s.byCoord)
}
