package main

import (
	"log"
	"time"

	"github.com/Mokuzzai/block-game/internal/config"
	"github.com/Mokuzzai/block-game/internal/game"
	"github.com/Mokuzzai/block-game/internal/graphics"
	"github.com/Mokuzzai/block-game/internal/input"
	"github.com/Mokuzzai/block-game/internal/profiling"
	"github.com/Mokuzzai/block-game/internal/world"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	orbitSpeed = 90.0 // degrees per second
	zoomSpeed  = 1.5  // distance factor per second
)

type app struct {
	window   *glfw.Window
	input    *input.InputManager
	session  *game.Session
	renderer *graphics.Renderer
	hud      *graphics.HUD
	limiter  *game.FPSLimiter

	seed     int64
	cursor   [3]int // world voxel edited by place/remove
	lastTime time.Time
	frames   int
	fps      float64
	fpsSince time.Time
}

func newApp(window *glfw.Window, cfg config.Config) (*app, error) {
	width, height := window.GetFramebufferSize()
	r, err := graphics.NewRenderer(width, height, cfg.Texture)
	if err != nil {
		return nil, err
	}
	hud, err := graphics.NewHUD(16)
	if err != nil {
		r.Dispose()
		return nil, err
	}
	session, err := game.NewSession(cfg, r.Sink())
	if err != nil {
		hud.Dispose()
		r.Dispose()
		return nil, err
	}

	a := &app{
		window:   window,
		input:    input.NewInputManager(),
		session:  session,
		renderer: r,
		hud:      hud,
		limiter:  game.NewFPSLimiter(config.GetFPSLimit),
		seed:     cfg.World.Seed,
		lastTime: time.Now(),
		fpsSince: time.Now(),
	}
	a.focusCamera()
	a.input.Attach(window)
	window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		a.renderer.UpdateViewport(fbWidth, fbHeight)
	})
	return a, nil
}

// focusCamera aims at the middle of the loaded chunks, at surface height.
func (a *app) focusCamera() {
	var sum mgl32.Vec3
	n := 0
	a.session.Scene.Each(func(c *world.Chunk, r game.Renderable) {
		half := float32(r.Size) / 2
		sum = sum.Add(r.Origin.Add(mgl32.Vec3{half, 0, half}))
		n++
	})
	if n == 0 {
		return
	}
	center := sum.Mul(1 / float32(n))
	cx, cz := int(center.X()), int(center.Z())
	center[1] = float32(a.session.SurfaceHeight(cx, cz))
	a.renderer.Camera().Target = center
	a.cursor = [3]int{cx, int(center.Y()), cz}
}

func (a *app) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
}

func (a *app) tick() {
	profiling.ResetFrame()
	start := time.Now()
	dt := float32(start.Sub(a.lastTime).Seconds())
	a.lastTime = start

	glfw.PollEvents()
	a.handleInput(dt)

	// Failures are logged by the meshing system and retried next frame.
	_ = a.session.Update()

	items := a.drawItems()
	a.renderer.Render(items)
	a.updateHUD()
	w, h := a.window.GetFramebufferSize()
	a.hud.Render(w, h)
	a.window.SwapBuffers()

	if d := time.Since(start); d > 16*time.Millisecond {
		log.Printf("slow frame: %v. top tasks: %s", d, profiling.TopN(5))
	}

	a.input.PostUpdate()
	a.limiter.Wait()
}

func (a *app) handleInput(dt float32) {
	im := a.input
	cam := a.renderer.Camera()

	if im.JustPressed(input.ActionQuit) {
		a.window.SetShouldClose(true)
	}
	if im.IsActive(input.ActionOrbitLeft) {
		cam.Orbit(-orbitSpeed*dt, 0)
	}
	if im.IsActive(input.ActionOrbitRight) {
		cam.Orbit(orbitSpeed*dt, 0)
	}
	if im.IsActive(input.ActionOrbitUp) {
		cam.Orbit(0, orbitSpeed*dt)
	}
	if im.IsActive(input.ActionOrbitDown) {
		cam.Orbit(0, -orbitSpeed*dt)
	}
	if im.IsActive(input.ActionZoomIn) {
		cam.Zoom(1 / (1 + zoomSpeed*dt))
	}
	if im.IsActive(input.ActionZoomOut) {
		cam.Zoom(1 + zoomSpeed*dt)
	}
	if s := im.Scroll(); s != 0 {
		cam.Zoom(1 - float32(s)*0.1)
	}

	if im.JustPressed(input.ActionToggleCull) {
		on := !a.session.CullHiddenFaces()
		config.SetCullHiddenFaces(on)
		a.session.SetCullHiddenFaces(on)
		log.Printf("cull hidden faces: %v", on)
	}
	if im.JustPressed(input.ActionToggleWireframe) {
		a.renderer.Wireframe = config.ToggleWireframe()
	}
	if im.JustPressed(input.ActionToggleStats) {
		a.hud.Visible = !a.hud.Visible
	}
	if im.JustPressed(input.ActionRegenerate) {
		a.seed++
		if err := a.session.Regenerate(a.seed); err != nil {
			log.Printf("regenerate: %v", err)
		}
	}
	if im.JustPressed(input.ActionPlaceVoxel) {
		a.editAtCursor(true)
	}
	if im.JustPressed(input.ActionRemoveVoxel) {
		a.editAtCursor(false)
	}
	if im.JustPressed(input.ActionUnloadChunk) {
		coord, _, _, _ := world.SplitCoords(a.cursor[0], a.cursor[1]-1, a.cursor[2])
		if !a.session.Unload(coord) {
			log.Printf("no chunk loaded at %v", coord)
		}
	}
}

// editAtCursor stacks or removes voxels in a column above the camera target.
func (a *app) editAtCursor(place bool) {
	x, y, z := a.cursor[0], a.cursor[1], a.cursor[2]
	if !place {
		y--
	}
	if err := a.session.SetVoxel(x, y, z, place); err != nil {
		log.Printf("edit (%d,%d,%d): %v", x, y, z, err)
		return
	}
	if place {
		a.cursor[1]++
	} else {
		a.cursor[1]--
	}
}

func (a *app) drawItems() []graphics.DrawItem {
	items := make([]graphics.DrawItem, 0, a.session.Scene.Len())
	a.session.Scene.Each(func(c *world.Chunk, r game.Renderable) {
		items = append(items, graphics.DrawItem{Handle: r.Handle, Origin: r.Origin, Size: r.Size})
	})
	return items
}

func (a *app) updateHUD() {
	a.frames++
	if since := time.Since(a.fpsSince); since >= time.Second {
		a.fps = float64(a.frames) / since.Seconds()
		a.frames = 0
		a.fpsSince = time.Now()
	}
	lines := a.session.Stats().Lines(a.session.CullHiddenFaces(), a.fps)
	lines = append(lines, "[wasd] orbit [q/e] zoom [c] cull [f] wire [r] regen [space/bksp] edit")
	a.hud.SetLines(lines)
}

func (a *app) Close() {
	a.session.Close()
	a.hud.Dispose()
	a.renderer.Dispose()
}
