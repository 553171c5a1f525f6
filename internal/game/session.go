package game

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Mokuzzai/block-game/internal/config"
	"github.com/Mokuzzai/block-game/internal/meshing"
	"github.com/Mokuzzai/block-game/internal/profiling"
	"github.com/Mokuzzai/block-game/internal/registry"
	"github.com/Mokuzzai/block-game/internal/world"
	"github.com/Mokuzzai/block-game/pkg/blockmodel"
)

// Session owns the world, its chunk entities and the meshing system for one
// run. It has no GL dependency; the caller supplies the sink.
type Session struct {
	Config    config.Config
	Templates *registry.Templates
	Store     *world.ChunkStore
	Scene     *Scene
	Meshing   *meshing.System

	sink      meshing.Sink
	pool      *meshing.WorkerPool
	generator *world.Generator
	template  uint32
	cull      bool
}

// NewSession loads the template manifest, generates the configured chunks and
// wires the meshing system to sink. Nothing is meshed until the first Update.
func NewSession(cfg config.Config, sink meshing.Sink) (*Session, error) {
	templates := registry.NewTemplates()
	loader := blockmodel.NewLoader(cfg.AssetsDir, nil)
	if err := templates.LoadManifest(loader, cfg.Entries()); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	tmpl, ok := templates.Lookup(cfg.World.Template)
	if !ok {
		return nil, fmt.Errorf("world template %q: %w", cfg.World.Template, registry.ErrUnknownTemplate)
	}
	gen, err := world.NewGenerator(cfg.World.Generator, cfg.World.Seed)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Config:    cfg,
		Templates: templates,
		Store:     world.NewChunkStore(),
		Scene:     NewScene(),
		Meshing:   meshing.NewSystem(templates, sink),
		sink:      sink,
		generator: gen,
		template:  tmpl,
		cull:      cfg.Meshing.CullHiddenFaces,
	}
	s.Meshing.SetCullHiddenFaces(s.cull)
	if cfg.Meshing.Workers > 0 {
		s.pool = meshing.NewWorkerPool(cfg.Meshing.Workers, cfg.Meshing.Workers*4)
		s.Meshing.SetPool(s.pool)
	}

	for _, coord := range cfg.ChunkCoords() {
		c := s.Store.GetChunk(coord, true)
		gen.Populate(c, tmpl)
		s.Scene.Spawn(c)
	}
	log.Printf("session: %d templates, %d chunks, generator %s, workers %d",
		templates.Len(), s.Store.Len(), cfg.World.Generator, cfg.Meshing.Workers)
	return s, nil
}

// Update rebuilds and publishes every dirty chunk.
func (s *Session) Update() error {
	defer profiling.Track("session.Update")()
	bindings := s.Scene.Bindings(s.Store.DirtyCoords())
	if len(bindings) == 0 {
		return nil
	}
	return s.Meshing.Tick(bindings)
}

// SetCullHiddenFaces switches face culling and queues every chunk for a rebuild.
func (s *Session) SetCullHiddenFaces(on bool) {
	if on == s.cull {
		return
	}
	s.cull = on
	s.Meshing.SetCullHiddenFaces(on)
	for _, c := range s.Store.Chunks() {
		c.MarkDirty()
	}
}

// CullHiddenFaces reports whether face culling is on.
func (s *Session) CullHiddenFaces() bool { return s.cull }

// SetVoxel edits one voxel in world coordinates. Editing outside the loaded
// chunks creates a new chunk entity.
func (s *Session) SetVoxel(wx, wy, wz int, solid bool) error {
	v := world.Voxel{}
	if solid {
		v = world.Voxel{Template: s.template, Solid: true}
	}
	coord, _, _, _ := world.SplitCoords(wx, wy, wz)
	fresh := s.Store.GetChunk(coord, false) == nil
	if err := s.Store.SetVoxel(wx, wy, wz, v); err != nil {
		return err
	}
	if fresh {
		s.Scene.Spawn(s.Store.GetChunk(coord, false))
	}
	return nil
}

// Unload drops the chunk at coord, despawns its entity and releases its
// handle on the sink. It reports whether a chunk was loaded there.
func (s *Session) Unload(coord world.ChunkCoord) bool {
	if s.Store.GetChunk(coord, false) == nil {
		return false
	}
	s.Store.Remove(coord)
	h, ok := s.Scene.Despawn(coord)
	if ok {
		if r, canRelease := s.sink.(meshing.Releaser); canRelease {
			r.Release(h)
		}
	}
	log.Printf("session: unloaded chunk %v", coord)
	return true
}

// Regenerate refills every chunk with a generator built from seed.
func (s *Session) Regenerate(seed int64) error {
	gen, err := world.NewGenerator(s.Config.World.Generator, seed)
	if err != nil {
		return err
	}
	s.generator = gen
	for _, c := range s.Store.Chunks() {
		gen.Populate(c, s.template)
	}
	log.Printf("session: regenerated %d chunks with seed %d", s.Store.Len(), seed)
	return nil
}

// SurfaceHeight returns the generator's surface height at world X,Z.
func (s *Session) SurfaceHeight(wx, wz int) int {
	return s.generator.HeightAt(wx, wz)
}

// Stats summarises the scene and the last meshing tick.
type Stats struct {
	Chunks    int
	Dirty     int
	LastTick  meshing.TickStats
	Templates int
}

func (s *Session) Stats() Stats {
	return Stats{
		Chunks:    s.Scene.Len(),
		Dirty:     len(s.Store.DirtyCoords()),
		LastTick:  s.Meshing.LastTick(),
		Templates: s.Templates.Len(),
	}
}

// Lines formats the stats for the HUD.
func (st Stats) Lines(cull bool, fps float64) []string {
	return []string{
		fmt.Sprintf("fps %.0f", fps),
		fmt.Sprintf("chunks %d (dirty %d)", st.Chunks, st.Dirty),
		fmt.Sprintf("last rebuild %d ok, %d failed in %v", st.LastTick.Published, st.LastTick.Failed, st.LastTick.Duration.Round(time.Microsecond)),
		fmt.Sprintf("vertices %d triangles %d", st.LastTick.Vertices, st.LastTick.Triangles),
		fmt.Sprintf("cull hidden faces %v", cull),
	}
}

// RebuildAll runs Update until nothing is dirty or an attempt fails.
func (s *Session) RebuildAll() error {
	for {
		before := len(s.Store.DirtyCoords())
		if before == 0 {
			return nil
		}
		if err := s.Update(); err != nil {
			return err
		}
		if len(s.Store.DirtyCoords()) >= before {
			return errors.New("rebuild made no progress")
		}
	}
}

// Close stops the worker pool.
func (s *Session) Close() {
	if s.pool != nil {
		s.pool.Shutdown()
		s.pool = nil
	}
}
