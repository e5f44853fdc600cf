//go:build ebiten

package main

import (
	"errors"
	"flag"

	"rmmv-tiles/internal/app"
	"rmmv-tiles/internal/config"
	"rmmv-tiles/internal/render"
	_ "rmmv-tiles/internal/samples/lake"
	_ "rmmv-tiles/internal/samples/town"
	"rmmv-tiles/internal/tilemap"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

const hudWidth = 260

func main() {
	cfg := config.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()
	if err := cfg.Apply(flag.CommandLine); err != nil {
		logrus.Fatal(err)
	}
	log, err := cfg.Logger()
	if err != nil {
		logrus.Fatal(err)
	}

	src, err := cfg.Source(log)
	if err != nil {
		log.Fatal(err)
	}
	tm := tilemap.NewShaderTilemap(cfg.Options(render.NewLayer, log))
	cfg.Install(tm, src, render.EbitenPages)

	game, err := app.New(app.Options{
		Tilemap:      tm,
		ScreenWidth:  cfg.ScreenWidth,
		ScreenHeight: cfg.ScreenHeight,
		ScrollSpeed:  cfg.ScrollSpeed,
		TPS:          cfg.TPS,
		HUDWidth:     hudWidth,
		Logger:       log,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowTitle("rmmv-tiles: " + src.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize((cfg.ScreenWidth+hudWidth)*cfg.Scale, cfg.ScreenHeight*cfg.Scale)

	log.WithFields(logrus.Fields{"map": src.Name(), "tps": cfg.TPS}).Info("viewer started")
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
