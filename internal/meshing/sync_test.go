package meshing

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Mokuzzai/block-game/internal/registry"
	"github.com/Mokuzzai/block-game/internal/world"
	"github.com/Mokuzzai/block-game/pkg/geometry"
)

var errSinkFull = errors.New("sink full")

type fakeSink struct {
	meshes map[Handle]geometry.Mesh
	calls  []Handle
	failOn map[Handle]bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{meshes: make(map[Handle]geometry.Mesh), failOn: make(map[Handle]bool)}
}

func (s *fakeSink) Publish(h Handle, m geometry.Mesh) error {
	s.calls = append(s.calls, h)
	if s.failOn[h] {
		return errSinkFull
	}
	s.meshes[h] = m
	return nil
}

func TestTickPublishesAndCleans(t *testing.T) {
	reg, cube := loadCube(t)
	sink := newFakeSink()
	sys := NewSystem(reg, sink)

	c := world.NewChunk(world.ChunkCoord{})
	_ = c.Set(0, 0, 0, solid(0))

	if err := sys.Tick([]Binding{{Chunk: c, Handle: 7}}); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if c.IsDirty() {
		t.Errorf("chunk should be clean after publish")
	}
	m, ok := sink.meshes[7]
	if !ok || m.VertexCount() != cube.VertexCount() {
		t.Fatalf("handle 7 not published correctly: %+v", m)
	}
	stats := sys.LastTick()
	if stats.Dirty != 1 || stats.Published != 1 || stats.Failed != 0 || stats.Triangles != cube.TriangleCount() {
		t.Errorf("unexpected stats %+v", stats)
	}

	// Clean chunks are skipped.
	if err := sys.Tick([]Binding{{Chunk: c, Handle: 7}}); err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if len(sink.calls) != 1 {
		t.Errorf("clean chunk was republished: %v", sink.calls)
	}
}

func TestTickEmptyChunkPublishesEmptyMesh(t *testing.T) {
	reg, _ := loadCube(t)
	sink := newFakeSink()
	sys := NewSystem(reg, sink)
	c := world.NewChunk(world.ChunkCoord{})

	if err := sys.Tick([]Binding{{Chunk: c, Handle: 1}}); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if m, ok := sink.meshes[1]; !ok || !m.Empty() {
		t.Errorf("expected an empty mesh on handle 1")
	}
	if c.IsDirty() {
		t.Errorf("empty chunk should be clean")
	}
}

func TestTickBuildFailureKeepsPreviousMesh(t *testing.T) {
	reg, cube := loadCube(t)
	sink := newFakeSink()
	sys := NewSystem(reg, sink)

	bad := world.NewChunk(world.ChunkCoord{X: 0})
	good := world.NewChunk(world.ChunkCoord{X: 1})
	_ = bad.Set(0, 0, 0, solid(0))
	_ = good.Set(0, 0, 0, solid(0))
	bindings := []Binding{{Chunk: bad, Handle: 1}, {Chunk: good, Handle: 2}}
	if err := sys.Tick(bindings); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	previous := sink.meshes[1]

	_ = bad.Set(1, 0, 0, solid(5))
	_ = good.Set(1, 0, 0, solid(0))
	err := sys.Tick(bindings)
	if !errors.Is(err, registry.ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
	if !bad.IsDirty() {
		t.Errorf("failed chunk must stay dirty")
	}
	if !reflect.DeepEqual(sink.meshes[1], previous) {
		t.Errorf("failed chunk's mesh was replaced")
	}
	if good.IsDirty() || sink.meshes[2].VertexCount() != 2*cube.VertexCount() {
		t.Errorf("healthy chunk was not rebuilt")
	}
	if s := sys.LastTick(); s.Failed != 1 || s.Published != 1 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestTickPublishFailureKeepsDirty(t *testing.T) {
	reg, _ := loadCube(t)
	sink := newFakeSink()
	sink.failOn[3] = true
	sys := NewSystem(reg, sink)

	a := world.NewChunk(world.ChunkCoord{X: 0})
	b := world.NewChunk(world.ChunkCoord{X: 1})
	err := sys.Tick([]Binding{{Chunk: a, Handle: 3}, {Chunk: b, Handle: 4}})
	if !errors.Is(err, errSinkFull) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if !a.IsDirty() {
		t.Errorf("chunk with failed publish must stay dirty")
	}
	if b.IsDirty() {
		t.Errorf("other chunk should still be published")
	}

	delete(sink.failOn, 3)
	if err := sys.Tick([]Binding{{Chunk: a, Handle: 3}, {Chunk: b, Handle: 4}}); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if a.IsDirty() {
		t.Errorf("retry should clean the chunk")
	}
}

func TestTickWithPoolMatchesSequential(t *testing.T) {
	reg, _ := loadCube(t)
	gen, err := world.NewGenerator(world.GenTerrain, 7)
	if err != nil {
		t.Fatal(err)
	}

	makeBindings := func() []Binding {
		var out []Binding
		for i := 0; i < 6; i++ {
			c := world.NewChunk(world.ChunkCoord{X: i % 3, Z: i / 3})
			gen.Populate(c, 0)
			out = append(out, Binding{Chunk: c, Handle: Handle(i + 1)})
		}
		return out
	}

	seqSink := newFakeSink()
	seq := NewSystem(reg, seqSink)
	if err := seq.Tick(makeBindings()); err != nil {
		t.Fatalf("sequential tick: %v", err)
	}

	pool := NewWorkerPool(3, 2)
	defer pool.Shutdown()
	parSink := newFakeSink()
	par := NewSystem(reg, parSink)
	par.SetPool(pool)
	if err := par.Tick(makeBindings()); err != nil {
		t.Fatalf("pooled tick: %v", err)
	}

	if !reflect.DeepEqual(seqSink.calls, parSink.calls) {
		t.Errorf("publish order differs: %v vs %v", seqSink.calls, parSink.calls)
	}
	for h, m := range seqSink.meshes {
		if !reflect.DeepEqual(m, parSink.meshes[h]) {
			t.Errorf("handle %d: pooled mesh differs from sequential", h)
		}
	}
}

func TestTickCullHiddenFaces(t *testing.T) {
	reg, cube := loadCube(t)
	sink := newFakeSink()
	sys := NewSystem(reg, sink)
	sys.SetCullHiddenFaces(true)

	c := world.NewChunk(world.ChunkCoord{})
	_ = c.Set(0, 0, 0, solid(0))
	_ = c.Set(0, 1, 0, solid(0))
	if err := sys.Tick([]Binding{{Chunk: c, Handle: 1}}); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if got := sink.meshes[1].VertexCount(); got >= 2*cube.VertexCount() {
		t.Errorf("expected hidden faces culled, got %d vertices", got)
	}
}
