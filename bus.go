package csi2rx

// RegisterBus is the access path to the receiver's register space. The
// production implementations are DevMemBus (memory mapped) and I2CBus
// (register aperture bridge); tests substitute a simulated space.
//
// The classic link registers are 32 bits wide, the V4H PHY APB space is
// 16 bits wide, so both widths are part of the contract.
type RegisterBus interface {
	Read(reg uint32) (uint32, error)
	Write(reg uint32, val uint32) error
	Read16(reg uint32) (uint16, error)
	Write16(reg uint32, val uint16) error
}

func (v *CSI2RX) readReg(reg uint32) (uint32, error) {
	return v.bus.Read(reg)
}

func (v *CSI2RX) writeReg(reg uint32, val uint32) error {
	return v.bus.Write(reg, val)
}

// modifyReg updates the masked bits of a 32-bit register, leaving the
// remainder untouched.
func (v *CSI2RX) modifyReg(reg uint32, data, mask uint32) error {

	val, err := v.readReg(reg)

	if err != nil {
		return err
	}

	val &^= mask
	val |= data

	return v.writeReg(reg, val)
}

// setRegBits reads a 32-bit register and sets the given bits.
func (v *CSI2RX) setRegBits(reg uint32, bits uint32) error {

	val, err := v.readReg(reg)

	if err != nil {
		return err
	}

	return v.writeReg(reg, val|bits)
}

// clearRegBits reads a 32-bit register and clears the given bits.
func (v *CSI2RX) clearRegBits(reg uint32, bits uint32) error {

	val, err := v.readReg(reg)

	if err != nil {
		return err
	}

	return v.writeReg(reg, val&^bits)
}

func (v *CSI2RX) readReg16(reg uint32) (uint16, error) {
	return v.bus.Read16(reg)
}

func (v *CSI2RX) writeReg16(reg uint32, val uint16) error {
	return v.bus.Write16(reg, val)
}

// modifyReg16 updates the masked bits of a 16-bit register.
func (v *CSI2RX) modifyReg16(reg uint32, data, mask uint16) error {

	val, err := v.readReg16(reg)

	if err != nil {
		return err
	}

	val &^= mask
	val |= data

	return v.writeReg16(reg, val)
}
