package csi2rx

import "fmt"

// Medium is the physical signalling scheme of the link.
type Medium int

const (
	// MediumDPHY is the differential two-wire-per-lane scheme.
	MediumDPHY Medium = iota
	// MediumCPHY is the three-wire-per-lane trio scheme.
	MediumCPHY
)

// Source is the upstream pixel source feeding the receiver. It is
// queried at bring-up time for the negotiated pixel clock and active
// lane count, and told to start or stop transmitting around the
// receiver's own bring-up.
type Source interface {
	// PixelRate returns the pixel clock in Hz. Returning 0 selects the
	// fallback link rate.
	PixelRate() (uint64, error)

	// ActiveLanes returns the number of lanes the source currently
	// drives. Returning 0 means not reported; the statically
	// configured lane count is used instead.
	ActiveLanes() (uint, error)

	// SetStreaming starts or stops the source's transmitter.
	SetStreaming(enable bool) error
}

// Config is the static per-board receiver description. It is validated
// once, before any hardware access.
type Config struct {
	// Model is the SoC identifier selecting the hardware variant,
	// e.g. "r8a7795". Revision further differentiates silicon
	// revisions where needed (e.g. "ES1.1").
	Model    string
	Revision string

	// Medium selects D-PHY or C-PHY signalling. Lanes must be 1, 2 or
	// 4 for D-PHY and exactly 3 for C-PHY.
	Medium Medium
	Lanes  uint

	// LaneSwap maps each logical lane to the 1-based physical lane
	// wired to it. Leave nil for identity. The mapping must be a
	// permutation: no duplicates, values in 1..4.
	LaneSwap []uint8

	// HSReceiveEq holds the per-lane receive equalization codes for
	// C-PHY connections. Leave nil for the default code 0x4.
	HSReceiveEq []uint8

	// PinSwap enables the C-PHY trio pin-swap register patches;
	// PinSwapRXOrder gives the wire order code per trio (OrderABC..
	// OrderBCA). Leave nil for ABC on every trio.
	PinSwap        bool
	PinSwapRXOrder []uint8

	// Collaborators. Source may be nil only for variants with a fixed
	// fallback link rate; Reset and Power default to no-ops.
	Source Source
	Reset  ResetControl
	Power  PowerControl
}

const maxLanes = 4

// validate rejects configurations that can never bring up the hardware,
// and fills in the documented defaults.
func (c *Config) validate() error {

	switch c.Medium {
	case MediumDPHY:
		if c.Lanes != 1 && c.Lanes != 2 && c.Lanes != 4 {
			return fmt.Errorf("%w: unsupported number of data lanes %d for D-PHY",
				ErrInvalidConfig, c.Lanes)
		}
	case MediumCPHY:
		if c.Lanes != 3 {
			return fmt.Errorf("%w: unsupported number of data lanes %d for C-PHY",
				ErrInvalidConfig, c.Lanes)
		}
	default:
		return fmt.Errorf("%w: unknown physical medium %d", ErrInvalidConfig, c.Medium)
	}

	if c.LaneSwap == nil {
		c.LaneSwap = []uint8{1, 2, 3, 4}[:c.Lanes]
	}

	if uint(len(c.LaneSwap)) != c.Lanes {
		return fmt.Errorf("%w: lane-swap maps %d lanes, %d configured",
			ErrInvalidConfig, len(c.LaneSwap), c.Lanes)
	}

	var seen [maxLanes + 1]bool

	for _, phys := range c.LaneSwap {
		if phys < 1 || phys > maxLanes {
			return fmt.Errorf("%w: lane-swap entries must be in 1-%d range",
				ErrInvalidConfig, maxLanes)
		}
		if seen[phys] {
			return fmt.Errorf("%w: duplicate physical lane %d in lane-swap",
				ErrInvalidConfig, phys)
		}
		seen[phys] = true
	}

	if c.HSReceiveEq == nil {
		c.HSReceiveEq = make([]uint8, c.Lanes)
		for i := range c.HSReceiveEq {
			c.HSReceiveEq[i] = 0x4
		}
	}

	if uint(len(c.HSReceiveEq)) != c.Lanes {
		return fmt.Errorf("%w: hs-receive-eq lists %d lanes, %d configured",
			ErrInvalidConfig, len(c.HSReceiveEq), c.Lanes)
	}

	if c.PinSwapRXOrder == nil {
		c.PinSwapRXOrder = make([]uint8, c.Lanes)
	}

	if uint(len(c.PinSwapRXOrder)) != c.Lanes {
		return fmt.Errorf("%w: pin-swap-rx-order lists %d lanes, %d configured",
			ErrInvalidConfig, len(c.PinSwapRXOrder), c.Lanes)
	}

	for _, order := range c.PinSwapRXOrder {
		if order > OrderBCA {
			return fmt.Errorf("%w: unknown trio order code %#x", ErrInvalidConfig, order)
		}
	}

	if c.Reset == nil {
		c.Reset = nopReset{}
	}

	if c.Power == nil {
		c.Power = nopPower{}
	}

	return nil
}
