package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/Mokuzzai/block-game/internal/config"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GL and GLFW calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "configs/block-game.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	config.Apply(cfg)

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg.Window)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	app, err := newApp(window, cfg)
	if err != nil {
		log.Fatalf("start: %v", err)
	}
	defer app.Close()

	app.Run()
}
