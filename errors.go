package csi2rx

import "errors"

var (
	// ErrUnsupportedSpeed is returned when the computed link speed is
	// above the range of every calibration table configured for the
	// selected hardware variant. No register is touched in that case.
	ErrUnsupportedSpeed = errors.New("unsupported PHY link speed")

	// ErrTimeout is returned when a bounded polling loop never observed
	// the expected hardware condition (indirect write acknowledge,
	// calibration ready, lane stop state).
	ErrTimeout = errors.New("timeout waiting for hardware")

	// ErrInvalidConfig is returned for configurations rejected before
	// any hardware access: lane counts incompatible with the physical
	// medium, broken lane-swap permutations, or an unknown hardware
	// model.
	ErrInvalidConfig = errors.New("invalid receiver configuration")

	// ErrNoSource is returned by Start when the variant requires a
	// bound pixel source and none was configured.
	ErrNoSource = errors.New("no pixel source bound")
)
