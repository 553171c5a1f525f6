package game

import (
	"testing"

	"github.com/Mokuzzai/block-game/internal/world"
	"github.com/go-gl/mathgl/mgl32"
)

func TestSceneSpawnAssignsUniqueHandles(t *testing.T) {
	s := NewScene()
	a := world.NewChunk(world.ChunkCoord{X: 0})
	b := world.NewChunk(world.ChunkCoord{X: 1, Y: -1})

	ha := s.Spawn(a)
	hb := s.Spawn(b)
	if ha == hb || ha == 0 || hb == 0 {
		t.Fatalf("handles must be unique and non-zero: %d %d", ha, hb)
	}
	if again := s.Spawn(a); again != ha {
		t.Errorf("respawn changed handle: %d -> %d", ha, again)
	}
	if s.Len() != 2 {
		t.Errorf("len: got %d", s.Len())
	}

	var origin mgl32.Vec3
	s.Each(func(c *world.Chunk, r Renderable) {
		if c == b {
			origin = r.Origin
		}
	})
	if origin != (mgl32.Vec3{16, -16, 0}) {
		t.Errorf("origin of chunk (1,-1,0): %v", origin)
	}
}

func TestSceneBindingsFollowCoordOrder(t *testing.T) {
	s := NewScene()
	chunks := []*world.Chunk{
		world.NewChunk(world.ChunkCoord{X: 0}),
		world.NewChunk(world.ChunkCoord{X: 1}),
		world.NewChunk(world.ChunkCoord{X: 2}),
	}
	for _, c := range chunks {
		s.Spawn(c)
	}

	coords := []world.ChunkCoord{{X: 2}, {X: 9}, {X: 0}}
	got := s.Bindings(coords)
	if len(got) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(got))
	}
	if got[0].Chunk != chunks[2] || got[1].Chunk != chunks[0] {
		t.Errorf("bindings out of order")
	}
}

func TestSceneDespawn(t *testing.T) {
	s := NewScene()
	c := world.NewChunk(world.ChunkCoord{Z: 3})
	h := s.Spawn(c)

	got, ok := s.Despawn(c.Coord)
	if !ok || got != h {
		t.Fatalf("despawn: got %d %v", got, ok)
	}
	if _, ok := s.Despawn(c.Coord); ok {
		t.Errorf("second despawn should fail")
	}
	if next := s.Spawn(c); next == h {
		t.Errorf("handle %d reused after despawn", h)
	}
}
