package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fkcurrie/xclock-led-golang/internal/logger"
	"github.com/fkcurrie/xclock-led-golang/pkg/gpio"
)

func main() {
	chip := flag.String("chip", "gpiochip0", "GPIO chip")
	pin := flag.Int("pin", 25, "line of the show-IP switch")
	flag.Parse()

	log := logger.New(logger.LevelNormal, os.Stderr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info("Starting GPIO test...")

	sw, err := gpio.OpenSwitch(*chip, *pin)
	if err != nil {
		log.Error("Failed to request line: %v", err)
		os.Exit(1)
	}
	defer sw.Close()

	log.Info("Successfully requested GPIO line %d, reading every second", *pin)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	last := -1
	for {
		select {
		case <-sigChan:
			log.Info("Shutting down...")
			return
		case <-ticker.C:
			active, err := sw.Active()
			if err != nil {
				log.Warn("Failed to read switch: %v", err)
				continue
			}
			state := 0
			if active {
				state = 1
			}
			if state != last {
				log.Info("Switch active: %v", active)
				last = state
			}
		}
	}
}
