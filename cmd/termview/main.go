package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"

	"rmmv-tiles/internal/config"
	"rmmv-tiles/internal/render"
	_ "rmmv-tiles/internal/samples/lake"
	_ "rmmv-tiles/internal/samples/town"
	"rmmv-tiles/internal/termview"
	"rmmv-tiles/internal/tilemap"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
)

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
	cfg.Install(tm, src, nil)

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	if cfg.LogFile == "" {
		// stderr shares the terminal with the screen
		log.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	view := termview.New(screen, tm, src.Name(), cfg.TPS, log)
	view.Speed = cfg.ScrollSpeed
	err = view.Run(ctx)
	screen.Fini()
	if err != nil && ctx.Err() == nil {
		logrus.Fatal(err)
	}
	log.WithField("frames", view.Frames()).Info("terminal view closed")
}
