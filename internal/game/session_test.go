package game

import (
	"errors"
	"testing"

	"github.com/Mokuzzai/block-game/internal/config"
	"github.com/Mokuzzai/block-game/internal/meshing"
	"github.com/Mokuzzai/block-game/internal/registry"
	"github.com/Mokuzzai/block-game/internal/world"
	"github.com/Mokuzzai/block-game/pkg/blockmodel"
	"github.com/Mokuzzai/block-game/pkg/geometry"
)

type recordingSink struct {
	meshes map[meshing.Handle]geometry.Mesh
}

func (r *recordingSink) Publish(h meshing.Handle, m geometry.Mesh) error {
	r.meshes[h] = m
	return nil
}

func testConfig(t *testing.T, generator string, workers int) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.AssetsDir = "../../assets/blocks"
	cfg.World.Generator = generator
	cfg.World.Chunks = [][3]int{{0, 0, 0}, {1, 0, 0}}
	cfg.Meshing.Workers = workers
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func newTestSession(t *testing.T, generator string, workers int) (*Session, *recordingSink) {
	t.Helper()
	sink := &recordingSink{meshes: make(map[meshing.Handle]geometry.Mesh)}
	s, err := NewSession(testConfig(t, generator, workers), sink)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(s.Close)
	return s, sink
}

func TestSessionFirstUpdatePublishesEveryChunk(t *testing.T) {
	s, sink := newTestSession(t, world.GenDiagonal, 0)

	if err := s.Update(); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(sink.meshes) != 2 {
		t.Fatalf("expected 2 published meshes, got %d", len(sink.meshes))
	}
	cube, _ := s.Templates.Get(0)
	for h, m := range sink.meshes {
		if m.VertexCount() != world.ChunkSize*cube.VertexCount() {
			t.Errorf("handle %d: %d vertices", h, m.VertexCount())
		}
	}
	if st := s.Stats(); st.Dirty != 0 || st.Chunks != 2 || st.LastTick.Published != 2 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestSessionEditRebuildsOnlyThatChunk(t *testing.T) {
	s, sink := newTestSession(t, world.GenEmpty, 2)
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}

	if err := s.SetVoxel(17, 0, 0, true); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if st := s.Stats(); st.LastTick.Dirty != 1 || st.LastTick.Published != 1 {
		t.Errorf("expected one rebuild, got %+v", st.LastTick)
	}

	h := s.Scene.Bindings([]world.ChunkCoord{{X: 1}})[0].Handle
	if sink.meshes[h].Empty() {
		t.Errorf("edited chunk published an empty mesh")
	}
}

func TestSessionEditOutsideCreatesEntity(t *testing.T) {
	s, sink := newTestSession(t, world.GenEmpty, 0)
	if err := s.SetVoxel(-1, 40, 5, true); err != nil {
		t.Fatal(err)
	}
	if s.Scene.Len() != 3 {
		t.Fatalf("expected a new chunk entity, have %d", s.Scene.Len())
	}
	if err := s.RebuildAll(); err != nil {
		t.Fatal(err)
	}
	if len(sink.meshes) != 3 {
		t.Errorf("expected 3 meshes, got %d", len(sink.meshes))
	}
}

func TestSessionCullToggleRequeues(t *testing.T) {
	s, sink := newTestSession(t, world.GenSolid, 0)
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	full := sink.meshes[1].VertexCount()

	s.SetCullHiddenFaces(true)
	if s.Stats().Dirty != 2 {
		t.Fatalf("toggle should requeue all chunks")
	}
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if culled := sink.meshes[1].VertexCount(); culled >= full {
		t.Errorf("culling did not shrink the mesh: %d >= %d", culled, full)
	}
}

func TestSessionRegenerate(t *testing.T) {
	s, _ := newTestSession(t, world.GenTerrain, 0)
	if err := s.RebuildAll(); err != nil {
		t.Fatal(err)
	}
	if err := s.Regenerate(99); err != nil {
		t.Fatal(err)
	}
	if s.Stats().Dirty != 2 {
		t.Errorf("regenerate should dirty every chunk")
	}
}

func TestSessionMissingTemplate(t *testing.T) {
	cfg := testConfig(t, world.GenSolid, 0)
	cfg.Templates = append(cfg.Templates, config.TemplateSpec{Name: "ghost", Model: "ghost.obj"})
	_, err := NewSession(cfg, &recordingSink{meshes: make(map[meshing.Handle]geometry.Mesh)})
	if !errors.Is(err, blockmodel.ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}

	cfg = testConfig(t, world.GenSolid, 0)
	cfg.World.Template = "ghost"
	_, err = NewSession(cfg, &recordingSink{meshes: make(map[meshing.Handle]geometry.Mesh)})
	if !errors.Is(err, registry.ErrUnknownTemplate) {
		t.Errorf("expected ErrUnknownTemplate, got %v", err)
	}
}

type releasingSink struct {
	recordingSink
	released []meshing.Handle
}

func (r *releasingSink) Release(h meshing.Handle) {
	delete(r.meshes, h)
	r.released = append(r.released, h)
}

func TestSessionUnloadReleasesHandle(t *testing.T) {
	sink := &releasingSink{recordingSink: recordingSink{meshes: make(map[meshing.Handle]geometry.Mesh)}}
	s, err := NewSession(testConfig(t, world.GenDiagonal, 0), sink)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}

	coord := world.ChunkCoord{X: 1}
	h := s.Scene.Bindings([]world.ChunkCoord{coord})[0].Handle
	if !s.Unload(coord) {
		t.Fatalf("unload reported no chunk")
	}
	if s.Store.GetChunk(coord, false) != nil || s.Scene.Len() != 1 {
		t.Errorf("chunk still loaded: store %d, scene %d", s.Store.Len(), s.Scene.Len())
	}
	if len(sink.released) != 1 || sink.released[0] != h {
		t.Errorf("expected handle %d released, got %v", h, sink.released)
	}
	if _, ok := sink.meshes[h]; ok {
		t.Errorf("released mesh still held")
	}
	if s.Unload(coord) {
		t.Errorf("second unload should report nothing loaded")
	}

	// A plain sink without Release is fine.
	plain, _ := newTestSession(t, world.GenEmpty, 0)
	if !plain.Unload(world.ChunkCoord{}) {
		t.Errorf("unload on plain sink failed")
	}
}
