package main

import (
	"flag"

	"github.com/EngoEngine/engo"
	"github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"

	"github.com/ScottBrooks/sweepselect"
)

func main() {
	width := flag.Int("width", 1024, "window width")
	height := flag.Int("height", 768, "window height")
	layoutPath := flag.String("layout", "", "unit layout file (overrides SWEEPSELECT_LAYOUT)")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{ForceColors: true})
	log.SetOutput(colorable.NewColorableStdout())

	cfg, err := sweepselect.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	log.SetLevel(cfg.Level())
	sweepselect.SetLogger(log.NewEntry(log.StandardLogger()))

	if *layoutPath != "" {
		cfg.Layout = *layoutPath
	}
	layout := sweepselect.DefaultLayout()
	if cfg.Layout != "" {
		layout, err = sweepselect.LoadLayout(cfg.Layout)
		if err != nil {
			log.Fatalf("Error loading layout: %v", err)
		}
	}
	log.Printf("Loaded %d units, %d surfaces", len(layout.Units), len(layout.Surfaces))

	opts := engo.RunOptions{
		Title:          "SweepSelect",
		Width:          *width,
		Height:         *height,
		StandardInputs: true,
		FPSLimit:       60,
	}
	engo.Run(opts, &sweepselect.Scene{Config: cfg, Layout: layout, Width: *width, Height: *height})
}
