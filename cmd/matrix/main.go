package main

import (
	"flag"
	"image"
	"image/color"
	"image/draw"
	"os"
	"time"

	"github.com/fkcurrie/xclock-led-golang/internal/config"
	"github.com/fkcurrie/xclock-led-golang/internal/logger"
	"github.com/fkcurrie/xclock-led-golang/internal/sink"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	sinkName := flag.String("sink", "", "override the configured sink")
	hold := flag.Duration("hold", 2*time.Second, "how long each pattern is shown")
	flag.Parse()

	log := logger.New(logger.LevelNormal, os.Stderr)

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Warn("Failed to load config from %s: %v", *configPath, err)
			log.Warn("Using default configuration")
		} else {
			cfg = loaded
		}
	}
	if *sinkName != "" {
		cfg.Sink = *sinkName
	}

	matrix, err := sink.Open(cfg, log)
	if err != nil {
		log.Error("Failed to create matrix: %v", err)
		os.Exit(1)
	}
	defer matrix.Close()

	w, h := matrix.Size()
	for _, p := range patterns(w, h) {
		log.Info("Showing %s", p.name)
		if err := matrix.Draw(p.img); err != nil {
			log.Error("Failed to draw %s: %v", p.name, err)
			return
		}
		time.Sleep(*hold)
	}

	log.Info("Clearing matrix")
	if err := matrix.Clear(); err != nil {
		log.Error("Failed to clear matrix: %v", err)
		return
	}
	log.Info("Test completed successfully")
}

type pattern struct {
	name string
	img  *image.RGBA
}

func patterns(w, h int) []pattern {
	solid := func(c color.RGBA) *image.RGBA {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
		return img
	}

	checker := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/4+y/4)%2 == 0 {
				checker.SetRGBA(x, y, color.RGBA{R: 0xff, G: 0xff, A: 0xff})
			} else {
				checker.SetRGBA(x, y, color.RGBA{A: 0xff})
			}
		}
	}

	return []pattern{
		{name: "red", img: solid(color.RGBA{R: 0xff, A: 0xff})},
		{name: "green", img: solid(color.RGBA{G: 0xff, A: 0xff})},
		{name: "blue", img: solid(color.RGBA{B: 0xff, A: 0xff})},
		{name: "checkerboard", img: checker},
	}
}
