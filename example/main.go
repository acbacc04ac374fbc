package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/tetsui/go-csi2rx"
)

// fixedSource stands in for a camera driver. It reports a static pixel
// clock and leaves starting the transmitter to the sensor's own tools.
type fixedSource struct {
	pixelRate uint64
}

func (s fixedSource) PixelRate() (uint64, error) { return s.pixelRate, nil }
func (s fixedSource) ActiveLanes() (uint, error) { return 0, nil }
func (s fixedSource) SetStreaming(on bool) error { return nil }

func main() {

	mem := flag.String("m", "/dev/mem", "Path to physical memory device")
	base := flag.Uint64("a", 0xfea80000, "Physical base address of the register block")
	model := flag.String("s", "r8a7795", "SoC model")
	revision := flag.String("r", "", "SoC revision, e.g. ES2.0")
	lanes := flag.Uint("l", 4, "Number of data lanes")
	rate := flag.Uint64("p", 148500000, "Source pixel rate in Hz")
	flag.Parse()

	// Map the receiver register block
	bus, err := csi2rx.NewDevMemBus(*mem, *base, 0x10000)

	if err != nil {
		log.Fatal(err)
	}

	defer bus.Close()

	// create new receiver instance
	rx, err := csi2rx.New(bus, csi2rx.Config{
		Model:    *model,
		Revision: *revision,
		Medium:   csi2rx.MediumDPHY,
		Lanes:    *lanes,
		Source:   fixedSource{pixelRate: *rate},
	})

	if err != nil {
		log.Fatal(err)
	}

	defer rx.Close()

	rx.SetFormat(csi2rx.FrameFormat{
		Code:   csi2rx.FormatUYVY8_1X16,
		Width:  1920,
		Height: 1080,
		Field:  csi2rx.FieldProgressive,
	})

	// Bring the link up
	if err := rx.Start(); err != nil {
		log.Fatalf("Start failed: %v", err)
	}

	fmt.Printf("Receiver state: %s\n", rx.State())

	// Service interrupt conditions for a while. On a real system this
	// would be driven by the interrupt line instead of a timer.
	for i := 0; i < 10; i++ {

		fault, err := rx.Interrupt()

		if err != nil {
			log.Printf("Interrupt error: %v", err)
		} else if fault {
			log.Printf("Transfer fault detected, receiver restarting")
		}

		time.Sleep(200 * time.Millisecond)
	}

	// Shut the link down
	rx.Stop()

	fmt.Printf("Receiver state: %s\n", rx.State())
}
