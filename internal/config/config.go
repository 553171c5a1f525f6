package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Mokuzzai/block-game/internal/registry"
	"github.com/Mokuzzai/block-game/internal/world"
)

// Config is the on-disk description of a block-game session.
type Config struct {
	AssetsDir string         `yaml:"assets_dir"`
	Templates []TemplateSpec `yaml:"templates"`
	Meshing   MeshingSpec    `yaml:"meshing"`
	World     WorldSpec      `yaml:"world"`
	Window    WindowSpec     `yaml:"window"`
	Texture   string         `yaml:"texture,omitempty"`
}

type TemplateSpec struct {
	Name  string `yaml:"name"`
	Model string `yaml:"model"`
}

type MeshingSpec struct {
	Workers         int  `yaml:"workers"`
	CullHiddenFaces bool `yaml:"cull_hidden_faces"`
}

type WorldSpec struct {
	Generator string   `yaml:"generator"`
	Seed      int64    `yaml:"seed"`
	Template  string   `yaml:"template,omitempty"`
	Chunks    [][3]int `yaml:"chunks"`
}

type WindowSpec struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Title    string `yaml:"title"`
	FPSLimit int    `yaml:"fps_limit"`
}

// Load reads path over the defaults. An empty path returns the defaults.
// Relative asset and texture paths are resolved against the config's directory.
func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	cfg.resolvePaths(filepath.Dir(path))
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		AssetsDir: "assets/blocks",
		Templates: []TemplateSpec{{Name: "cube", Model: "cube.obj"}},
		Meshing:   MeshingSpec{Workers: 0},
		World: WorldSpec{
			Generator: world.GenTerrain,
			Seed:      1,
			Chunks:    [][3]int{{0, 0, 0}},
		},
		Window: WindowSpec{
			Width:    1280,
			Height:   720,
			Title:    "block-game",
			FPSLimit: 60,
		},
	}
}

func (c *Config) resolvePaths(dir string) {
	if c.AssetsDir != "" && !filepath.IsAbs(c.AssetsDir) {
		c.AssetsDir = filepath.Join(dir, c.AssetsDir)
	}
	if c.Texture != "" && !filepath.IsAbs(c.Texture) {
		c.Texture = filepath.Join(dir, c.Texture)
	}
}

// Normalize trims names and fills in values left empty.
func (c *Config) Normalize() {
	c.AssetsDir = strings.TrimSpace(c.AssetsDir)
	for i := range c.Templates {
		t := &c.Templates[i]
		t.Name = strings.TrimSpace(t.Name)
		t.Model = strings.TrimSpace(t.Model)
		if t.Name == "" && t.Model != "" {
			base := filepath.Base(t.Model)
			t.Name = strings.TrimSuffix(base, filepath.Ext(base))
		}
	}
	if c.Meshing.Workers < 0 {
		c.Meshing.Workers = 0
	}
	c.World.Generator = strings.ToLower(strings.TrimSpace(c.World.Generator))
	if c.World.Generator == "" {
		c.World.Generator = world.GenTerrain
	}
	c.World.Template = strings.TrimSpace(c.World.Template)
	if c.World.Template == "" && len(c.Templates) > 0 {
		c.World.Template = c.Templates[0].Name
	}
	if strings.TrimSpace(c.Window.Title) == "" {
		c.Window.Title = "block-game"
	}
	if c.Window.FPSLimit < 0 {
		c.Window.FPSLimit = 0
	}
}

// Validate reports every problem found, joined.
func (c Config) Validate() error {
	var errs []error
	if c.AssetsDir == "" {
		errs = append(errs, errors.New("assets_dir is empty"))
	}
	if len(c.Templates) == 0 {
		errs = append(errs, errors.New("no templates"))
	}
	seen := make(map[string]bool, len(c.Templates))
	for i, t := range c.Templates {
		if t.Model == "" {
			errs = append(errs, fmt.Errorf("templates[%d]: model is empty", i))
		}
		if seen[t.Name] {
			errs = append(errs, fmt.Errorf("templates[%d]: duplicate name %q", i, t.Name))
		}
		seen[t.Name] = true
	}
	switch c.World.Generator {
	case world.GenEmpty, world.GenDiagonal, world.GenSolid, world.GenTerrain:
	default:
		errs = append(errs, fmt.Errorf("world.generator: unknown %q", c.World.Generator))
	}
	if c.World.Template != "" && len(c.Templates) > 0 && !seen[c.World.Template] {
		errs = append(errs, fmt.Errorf("world.template: %q is not a template", c.World.Template))
	}
	chunks := make(map[[3]int]bool, len(c.World.Chunks))
	for _, ch := range c.World.Chunks {
		if chunks[ch] {
			errs = append(errs, fmt.Errorf("world.chunks: duplicate %v", ch))
		}
		chunks[ch] = true
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: invalid size %dx%d", c.Window.Width, c.Window.Height))
	}
	return errors.Join(errs...)
}

// Entries converts the template list into registry manifest entries.
func (c Config) Entries() []registry.Entry {
	out := make([]registry.Entry, len(c.Templates))
	for i, t := range c.Templates {
		out[i] = registry.Entry{Name: t.Name, Model: t.Model}
	}
	return out
}

// ChunkCoords returns the configured demo chunks.
func (c Config) ChunkCoords() []world.ChunkCoord {
	out := make([]world.ChunkCoord, len(c.World.Chunks))
	for i, ch := range c.World.Chunks {
		out[i] = world.ChunkCoord{X: ch[0], Y: ch[1], Z: ch[2]}
	}
	return out
}
