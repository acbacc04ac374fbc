package csi2rx

import (
	"fmt"

	"github.com/swdee/go-i2c"
)

// I2CBus accesses the receiver register block through an I2C register
// aperture, as exposed by bridge chips and board controllers that
// forward MMIO over I2C. Each transaction carries a 4-byte big-endian
// register offset followed by the value.
type I2CBus struct {
	bus *i2c.Options
}

// NewI2CBus returns a register bus backed by the given I2C device.
func NewI2CBus(i2c *i2c.Options) (*I2CBus, error) {

	addr := i2c.GetAddr()

	if addr == 0 {
		return nil, fmt.Errorf("I2C device is not initiated")
	}

	return &I2CBus{bus: i2c}, nil
}

func (b *I2CBus) Read(reg uint32) (uint32, error) {

	addr := []byte{byte(reg >> 24), byte(reg >> 16), byte(reg >> 8), byte(reg)}

	if _, err := b.bus.WriteBytes(addr); err != nil {
		return 0, err
	}

	buf := make([]byte, 4)
	n, err := b.bus.ReadBytes(buf)

	if err != nil {
		return 0, err
	}

	if n < 4 {
		return 0, fmt.Errorf("read reg %#x: insufficient data", reg)
	}

	return uint32(buf[0])<<24 | uint32(buf[1])<<16 |
		uint32(buf[2])<<8 | uint32(buf[3]), nil
}

func (b *I2CBus) Write(reg uint32, val uint32) error {

	buf := []byte{
		byte(reg >> 24), byte(reg >> 16), byte(reg >> 8), byte(reg),
		byte(val >> 24), byte(val >> 16), byte(val >> 8), byte(val),
	}

	if _, err := b.bus.WriteBytes(buf); err != nil {
		return err
	}

	return nil
}

func (b *I2CBus) Read16(reg uint32) (uint16, error) {

	addr := []byte{byte(reg >> 24), byte(reg >> 16), byte(reg >> 8), byte(reg)}

	if _, err := b.bus.WriteBytes(addr); err != nil {
		return 0, err
	}

	buf := make([]byte, 2)
	n, err := b.bus.ReadBytes(buf)

	if err != nil {
		return 0, err
	}

	if n < 2 {
		return 0, fmt.Errorf("read reg %#x: insufficient data", reg)
	}

	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

func (b *I2CBus) Write16(reg uint32, val uint16) error {

	buf := []byte{
		byte(reg >> 24), byte(reg >> 16), byte(reg >> 8), byte(reg),
		byte(val >> 8), byte(val),
	}

	if _, err := b.bus.WriteBytes(buf); err != nil {
		return err
	}

	return nil
}
