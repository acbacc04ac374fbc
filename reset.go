package csi2rx

import "github.com/platinasystems/gpio"

// ResetControl drives the receiver's reset line. The zero-value
// collaborator is a no-op for boards where the reset domain is managed
// elsewhere.
type ResetControl interface {
	Assert() error
	Deassert() error
}

// PowerControl holds and releases the receiver's power/clock domain
// around bring-up and teardown.
type PowerControl interface {
	PowerOn() error
	PowerOff()
}

type nopReset struct{}

func (nopReset) Assert() error   { return nil }
func (nopReset) Deassert() error { return nil }

type nopPower struct{}

func (nopPower) PowerOn() error { return nil }
func (nopPower) PowerOff()      {}

// GPIOReset is a ResetControl backed by a GPIO pin wired to the
// receiver's reset input.
type GPIOReset struct {
	Pin gpio.Pin

	// ActiveLow inverts the drive: the reset is asserted by pulling
	// the line low.
	ActiveLow bool
}

func (r GPIOReset) Assert() error {
	return r.Pin.SetValue(!r.ActiveLow)
}

func (r GPIOReset) Deassert() error {
	return r.Pin.SetValue(r.ActiveLow)
}
