package csi2rx

import (
	"fmt"
	"strings"
)

// generation selects which receiver bring-up sequence applies.
type generation int

const (
	genClassic generation = iota
	genV4H
	genV4M
	genX5H
)

// variantInfo bundles the per-SoC capabilities: which bring-up
// generation to run, the calibration hooks and lookup tables, and the
// feature flags that gate individual configuration steps.
type variantInfo struct {
	gen         generation
	initPHTW    func(v *CSI2RX, mbps int) error
	phyPostInit func(v *CSI2RX) error

	hsFreqRange   []mbpsReg
	oscFreqTarget []mbpsReg

	csi0ClkFreqRange uint32
	numChannels      int

	clearULPS bool
	noUseVCDT bool
	hasPHYFRX bool
}

var variantH3 = variantInfo{
	initPHTW:         initPHTWH3V3HM3N,
	hsFreqRange:      hsFreqRangeH3V3HM3N,
	csi0ClkFreqRange: 0x20,
	numChannels:      4,
	clearULPS:        true,
}

var variantH3ES1 = variantInfo{
	hsFreqRange: hsFreqRangeM3WH3ES1,
	numChannels: 4,
}

var variantH3ES2 = variantInfo{
	initPHTW:         initPHTWH3ES2,
	hsFreqRange:      hsFreqRangeH3V3HM3N,
	csi0ClkFreqRange: 0x20,
	numChannels:      4,
	clearULPS:        true,
}

var variantM3W = variantInfo{
	hsFreqRange: hsFreqRangeM3WH3ES1,
	numChannels: 4,
}

var variantM3N = variantInfo{
	initPHTW:         initPHTWH3V3HM3N,
	hsFreqRange:      hsFreqRangeH3V3HM3N,
	csi0ClkFreqRange: 0x20,
	numChannels:      4,
	clearULPS:        true,
}

var variantV3M = variantInfo{
	initPHTW:    initPHTWV3ME3,
	phyPostInit: phyPostInitV3ME3,
	numChannels: 4,
}

var variantV3H = variantInfo{
	initPHTW:         initPHTWH3V3HM3N,
	hsFreqRange:      hsFreqRangeH3V3HM3N,
	csi0ClkFreqRange: 0x20,
	numChannels:      4,
	clearULPS:        true,
}

var variantE3 = variantInfo{
	initPHTW:    initPHTWV3ME3,
	phyPostInit: phyPostInitV3ME3,
	numChannels: 2,
}

var variantV3U = variantInfo{
	initPHTW:         initPHTWV3U,
	hsFreqRange:      hsFreqRangeV3U,
	csi0ClkFreqRange: 0x20,
	numChannels:      4,
	clearULPS:        true,
	noUseVCDT:        true,
	hasPHYFRX:        true,
}

var variantV4H = variantInfo{
	gen:         genV4H,
	numChannels: 16,
}

var variantV4M = variantInfo{
	gen:              genV4M,
	initPHTW:         initPHTWV4M,
	hsFreqRange:      hsFreqRangeV4M,
	oscFreqTarget:    oscFreqTargetV4M,
	csi0ClkFreqRange: 0x0c,
	numChannels:      16,
}

var variantX5H = variantInfo{
	gen:              genX5H,
	initPHTW:         initPHTWV3U,
	hsFreqRange:      hsFreqRangeV3U,
	csi0ClkFreqRange: 0x20,
	numChannels:      4,
	clearULPS:        true,
	noUseVCDT:        true,
	hasPHYFRX:        true,
}

// variants maps the SoC model identifier to its capability bundle.
// RZ/G2 parts reuse the matching R-Car silicon.
var variants = map[string]*variantInfo{
	"r8a774a1": &variantM3W,
	"r8a774b1": &variantM3N,
	"r8a774c0": &variantE3,
	"r8a774e1": &variantH3,
	"r8a7795":  &variantH3,
	"r8a7796":  &variantM3W,
	"r8a77961": &variantM3W,
	"r8a77965": &variantM3N,
	"r8a77970": &variantV3M,
	"r8a77980": &variantV3H,
	"r8a77990": &variantE3,
	"r8a779a0": &variantV3U,
	"r8a779g0": &variantV4H,
	"r8a779h0": &variantV4M,
	"r8a78000": &variantX5H,
}

// lookupVariant resolves the model, and for H3 the silicon revision,
// to the capability bundle. The H3 ES revisions share a model string
// but need different calibration sequences.
func lookupVariant(model, revision string) (*variantInfo, error) {

	info, ok := variants[model]

	if !ok {
		return nil, fmt.Errorf("%w: unknown model %q", ErrInvalidConfig, model)
	}

	if model == "r8a7795" {
		switch {
		case strings.HasPrefix(revision, "ES1"):
			info = &variantH3ES1
		case strings.HasPrefix(revision, "ES2"):
			info = &variantH3ES2
		}
	}

	return info, nil
}

// PHY test interface calibration sequences. The magic values are from
// the hardware manual and lack documentation.

func initPHTWH3Common(v *CSI2RX, mbps int) error {

	step1 := []phtwValue{
		{data: 0xcc, code: 0xe2},
		{data: 0x01, code: 0xe3},
		{data: 0x11, code: 0xe4},
		{data: 0x01, code: 0xe5},
		{data: 0x10, code: 0x04},
	}

	step2 := []phtwValue{
		{data: 0x38, code: 0x08},
		{data: 0x01, code: 0x00},
		{data: 0x4b, code: 0xac},
		{data: 0x03, code: 0x00},
		{data: 0x80, code: 0x07},
	}

	if err := v.phtwWriteArray(step1); err != nil {
		return err
	}

	if mbps != 0 && mbps <= 250 {
		if err := v.phtwWrite(0x39, 0x05); err != nil {
			return err
		}

		err := v.phtwWriteMbps(phtwMbpsH3V3HM3N, mbps, 0xf1)

		if err != nil {
			return err
		}
	}

	return v.phtwWriteArray(step2)
}

func initPHTWH3V3HM3N(v *CSI2RX, mbps int) error {
	return initPHTWH3Common(v, mbps)
}

func initPHTWH3ES2(v *CSI2RX, mbps int) error {
	return initPHTWH3Common(v, 0)
}

func initPHTWV3ME3(v *CSI2RX, mbps int) error {
	return v.phtwWriteMbps(phtwMbpsV3ME3, mbps, 0x44)
}

func phyPostInitV3ME3(v *CSI2RX) error {

	step1 := []phtwValue{
		{data: 0xee, code: 0x34},
		{data: 0xee, code: 0x44},
		{data: 0xee, code: 0x54},
		{data: 0xee, code: 0x84},
		{data: 0xee, code: 0x94},
	}

	return v.phtwWriteArray(step1)
}

func initPHTWV3U(v *CSI2RX, mbps int) error {

	// 1500 Mbps or less
	step1 := []phtwValue{
		{data: 0xcc, code: 0xe2},
	}

	step2 := []phtwValue{
		{data: 0x01, code: 0xe3},
		{data: 0x11, code: 0xe4},
		{data: 0x01, code: 0xe5},
	}

	// 1500 Mbps or less
	step3 := []phtwValue{
		{data: 0x38, code: 0x08},
	}

	step4 := []phtwValue{
		{data: 0x01, code: 0x00},
		{data: 0x4b, code: 0xac},
		{data: 0x03, code: 0x00},
		{data: 0x80, code: 0x07},
	}

	var err error

	if mbps != 0 && mbps <= 1500 {
		err = v.phtwWriteArray(step1)
	} else {
		err = v.phtwWriteMbps(phtwMbpsV3U, mbps, 0xe2)
	}

	if err != nil {
		return err
	}

	if err := v.phtwWriteArray(step2); err != nil {
		return err
	}

	if mbps != 0 && mbps <= 1500 {
		if err := v.phtwWriteArray(step3); err != nil {
			return err
		}
	}

	return v.phtwWriteArray(step4)
}

func initPHTWV4M(v *CSI2RX, mbps int) error {

	// pp = oscFreq[7:0], q = oscFreq[11:8]
	step32 := []phtwValue{
		{data: 0x00, code: 0x00},
		{data: 0x00, code: 0xe2},
		{data: 0x00, code: 0xe3},
		{data: 0x01, code: 0xe4},
	}

	// 1500 Mbps or less
	step33 := []phtwValue{
		{data: 0x00, code: 0x00},
		{data: 0x3c, code: 0x08},
	}

	// higher than 1500 Mbps
	step36 := []phtwValue{
		{data: 0x00, code: 0x00},
		{data: 0x80, code: 0xe0},
		{data: 0x01, code: 0xe1},
		{data: 0x06, code: 0x00},
		{data: 0x0f, code: 0x11},
		{data: 0x08, code: 0x00},
		{data: 0x0f, code: 0x11},
		{data: 0x0a, code: 0x00},
		{data: 0x0f, code: 0x11},
		{data: 0x0c, code: 0x00},
		{data: 0x0f, code: 0x11},
		{data: 0x01, code: 0x00},
		{data: 0x31, code: 0xaa},
		{data: 0x05, code: 0x00},
		{data: 0x05, code: 0x09},
		{data: 0x07, code: 0x00},
		{data: 0x05, code: 0x09},
		{data: 0x09, code: 0x00},
		{data: 0x05, code: 0x09},
		{data: 0x0b, code: 0x00},
		{data: 0x05, code: 0x09},
	}

	// T3-1: PHYPLL frequency range
	if v.info.hsFreqRange != nil {
		if err := v.setPHYPLL(mbps); err != nil {
			return err
		}
	}

	// T3-2: DDL target oscillation frequency
	var oscFreq uint16

	if v.info.oscFreqTarget != nil {
		var err error

		oscFreq, err = v.lookupMbpsReg(v.info.oscFreqTarget, mbps)

		if err != nil {
			return err
		}
	}

	for _, value := range step32 {
		var err error

		switch value.code {
		case 0xe2:
			err = v.phtwWrite(uint16(v4mPHTWDinDataPP(uint32(oscFreq))), value.code)
		case 0xe3:
			err = v.phtwWrite(uint16(v4mPHTWDinDataD(uint32(oscFreq))), value.code)
		default:
			err = v.phtwWrite(value.data, value.code)
		}

		if err != nil {
			return err
		}
	}

	// T3-3: only for 1.5 Gbps or less
	if mbps != 0 && mbps <= 1500 {
		if err := v.phtwWriteArray(step33); err != nil {
			return err
		}
	}

	// T3-4: CSI0CLKFCPR frequency range preset
	if v.info.csi0ClkFreqRange != 0 {
		err := v.writeReg(V4M_CSI0CLKFCPR,
			v4mCSI0ClkFreqRange(v.info.csi0ClkFreqRange))

		if err != nil {
			return err
		}
	}

	// T3-5: enable the clock and data lanes
	err := v.setRegBits(PHY_EN,
		PHY_ENABLE_DCK|PHY_ENABLE_0|PHY_ENABLE_1|PHY_ENABLE_2)

	if err != nil {
		return err
	}

	// T3-6: only for speeds above 1.5 Gbps
	if mbps != 0 && mbps > 1500 {
		if err := v.phtwWriteArray(step36); err != nil {
			return err
		}
	}

	return nil
}
