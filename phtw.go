package csi2rx

import "fmt"

// phtwValue is one (data, code) pair of a PHY test interface register
// program. The magic values come from the hardware manual and lack
// further documentation.
type phtwValue struct {
	data uint16
	code uint16
}

// phtwAckTries bounds the wait for the test interface to acknowledge a
// write by clearing both enable bits.
const phtwAckTries = 21

// phtwWrite pushes one calibration value through the PHY test
// interface: data and code are packed into the control register with
// the data and code write enables set, then the enables are polled
// until the hardware clears them.
func (v *CSI2RX) phtwWrite(data, code uint16) error {

	err := v.writeReg(PHTW_REG,
		PHTW_DWEN|phtwDinData(uint32(data))|
			PHTW_CWEN|phtwDinCode(uint32(code)))

	if err != nil {
		return err
	}

	// The X5H controller acknowledges immediately.
	if v.info.gen == genX5H {
		return nil
	}

	err = v.poll(phtwAckTries, func() (bool, error) {
		val, err := v.readReg(PHTW_REG)

		if err != nil {
			return false, err
		}

		return val&(PHTW_DWEN|PHTW_CWEN) == 0, nil
	})

	if err != nil {
		return fmt.Errorf("%w: PHTW_DWEN and/or PHTW_CWEN not cleared", err)
	}

	return nil
}

// phtwWriteArray writes a register program in order, aborting on the
// first pair that is not acknowledged.
func (v *CSI2RX) phtwWriteArray(values []phtwValue) error {

	for _, value := range values {
		if err := v.phtwWrite(value.data, value.code); err != nil {
			return err
		}
	}

	return nil
}

// phtwWriteMbps looks up the calibration value nearest the link speed
// and writes it under the given test interface code.
func (v *CSI2RX) phtwWriteMbps(table []mbpsReg, mbps int, code uint16) error {

	reg, err := v.lookupMbpsReg(table, mbps)

	if err != nil {
		return err
	}

	return v.phtwWrite(reg, code)
}
