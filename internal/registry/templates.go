package registry

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Mokuzzai/block-game/pkg/blockmodel"
)

// ErrUnknownTemplate is returned for a template index that was never registered.
var ErrUnknownTemplate = errors.New("unknown template")

// Templates is the ordered, append-only set of block face templates. A
// voxel refers to its template by the index returned from Register.
type Templates struct {
	mu     sync.RWMutex
	list   []*blockmodel.FaceTemplate
	byName map[string]uint32
}

// NewTemplates returns an empty registry.
func NewTemplates() *Templates {
	return &Templates{byName: make(map[string]uint32)}
}

// Register appends t and returns its stable index.
func (r *Templates) Register(t *blockmodel.FaceTemplate) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := uint32(len(r.list))
	r.list = append(r.list, t)
	if t != nil && t.Name != "" {
		if _, exists := r.byName[t.Name]; !exists {
			r.byName[t.Name] = idx
		}
	}
	return idx
}

// Get returns the template at index.
func (r *Templates) Get(index uint32) (*blockmodel.FaceTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(index) >= len(r.list) {
		return nil, fmt.Errorf("%w: index %d (have %d)", ErrUnknownTemplate, index, len(r.list))
	}
	return r.list[index], nil
}

// Lookup returns the index of the first template registered under name.
func (r *Templates) Lookup(name string) (uint32, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byName[name]
	return idx, ok
}

// Len returns the number of registered templates.
func (r *Templates) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.list)
}

// Entry names a template and the model file it is loaded from.
type Entry struct {
	Name  string
	Model string
}

// LoadManifest loads every entry in order and registers it under its name.
// The first failure aborts; templates registered before it stay registered,
// but the caller must not start meshing with a partial set.
func (r *Templates) LoadManifest(loader *blockmodel.Loader, entries []Entry) error {
	for _, e := range entries {
		t, err := loader.Load(e.Model)
		if err != nil {
			return fmt.Errorf("template %q: %w", e.Name, err)
		}
		if e.Name != "" && e.Name != t.Name {
			// The loader caches by path, so a model shared by two names
			// gets a shallow copy carrying the manifest name.
			named := *t
			named.Name = e.Name
			t = &named
		}
		idx := r.Register(t)
		log.Printf("registered template %q (%s) as %d: %d vertices, %d triangles",
			e.Name, e.Model, idx, t.VertexCount(), t.TriangleCount())
	}
	return nil
}
