package main

import (
	"errors"
	"flag"
	"log"
	"runtime"

	"ranger/internal/config"
	"ranger/internal/engine"
	"ranger/internal/fault"
	"ranger/internal/game"
	"ranger/internal/input"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

// splashDuration is how long the splash scene stays up, in ms
const splashDuration = 2000

func init() { runtime.LockOSThread() }

func main() {
	configPath := flag.String("config", "config.json", "path to the configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		panic(err)
	}
	closer.Bind(func() {
		if err := cfg.Flush(); err != nil {
			log.Printf("ranger: %v", err)
		}
		log.Printf("ranger: bye")
	})
	defer closer.Close()

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	eng := engine.New()
	defer eng.Destroy()

	if err := eng.Configure(cfg, setupDemo); err != nil {
		panic(err)
	}
	if err := eng.Start(); err != nil {
		log.Printf("ranger: %v", err)
	}
}

// loadConfig reads path, or writes the defaults there when it doesn't exist.
func loadConfig(path string) (*config.Configuration, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fault.ErrInvalidArgument) {
		return nil, err
	}

	log.Printf("ranger: %v, writing defaults", err)
	cfg = config.Default()
	if err := cfg.Save(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupDemo(e *engine.Engine) error {
	res := e.Config().Window.VirtualRes
	d := game.NewDirector(e, game.Bounds(res.Width, res.Height))

	e.OnAction(func(a input.Action) {
		switch a {
		case input.ActionTogglePause:
			d.TogglePause()
		case input.ActionToggleSlowMotion:
			d.ToggleSlowMotion()
		case input.ActionNextScene:
			d.NextScene()
		case input.ActionPreviousScene:
			d.PreviousScene()
		}
	})

	return d.Start(splashDuration)
}
