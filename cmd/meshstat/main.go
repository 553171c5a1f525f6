// Command meshstat builds the meshes of the configured demo chunks without a
// window and prints per-chunk vertex and triangle counts.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/Mokuzzai/block-game/internal/config"
	"github.com/Mokuzzai/block-game/internal/game"
	"github.com/Mokuzzai/block-game/internal/meshing"
	"github.com/Mokuzzai/block-game/internal/profiling"
	"github.com/Mokuzzai/block-game/internal/world"
	"github.com/Mokuzzai/block-game/pkg/geometry"
)

// countingSink keeps the counts of the last mesh per handle.
type countingSink struct {
	vertices  map[meshing.Handle]int
	triangles map[meshing.Handle]int
}

func (s *countingSink) Publish(h meshing.Handle, m geometry.Mesh) error {
	if err := validate(m); err != nil {
		return err
	}
	s.vertices[h] = m.VertexCount()
	s.triangles[h] = m.TriangleCount()
	return nil
}

func validate(m geometry.Mesh) error {
	n := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("index %d at %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

func main() {
	configPath := flag.String("config", "configs/block-game.yaml", "path to the YAML config")
	cull := flag.Bool("cull", false, "drop faces shared by two solid voxels")
	workers := flag.Int("workers", -1, "override meshing.workers (-1 keeps the config value)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *cull {
		cfg.Meshing.CullHiddenFaces = true
	}
	if *workers >= 0 {
		cfg.Meshing.Workers = *workers
	}

	sink := &countingSink{vertices: make(map[meshing.Handle]int), triangles: make(map[meshing.Handle]int)}
	session, err := game.NewSession(cfg, sink)
	if err != nil {
		log.Fatalf("session: %v", err)
	}
	defer session.Close()

	profiling.ResetFrame()
	start := time.Now()
	if err := session.Update(); err != nil {
		log.Printf("some chunks failed: %v", err)
	}
	elapsed := time.Since(start)

	type row struct {
		coord  world.ChunkCoord
		handle meshing.Handle
		solid  int
	}
	var rows []row
	session.Scene.Each(func(c *world.Chunk, r game.Renderable) {
		rows = append(rows, row{coord: c.Coord, handle: r.Handle, solid: c.SolidCount()})
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].handle < rows[j].handle })

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "chunk\thandle\tsolid\tvertices\ttriangles")
	for _, r := range rows {
		fmt.Fprintf(tw, "%v\t%d\t%d\t%d\t%d\n", r.coord, r.handle, r.solid, sink.vertices[r.handle], sink.triangles[r.handle])
	}
	tw.Flush()

	st := session.Stats()
	fmt.Printf("\n%d chunks, %d published, %d failed, %d vertices, %d triangles in %v (cull=%v, workers=%d)\n",
		st.Chunks, st.LastTick.Published, st.LastTick.Failed, st.LastTick.Vertices, st.LastTick.Triangles,
		elapsed.Round(time.Microsecond), cfg.Meshing.CullHiddenFaces, cfg.Meshing.Workers)
	fmt.Printf("timings: %s\n", profiling.TopN(3))
	if st.LastTick.Failed > 0 {
		os.Exit(1)
	}
}
