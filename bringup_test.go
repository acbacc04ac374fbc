package csi2rx

import (
	"errors"
	"testing"
)

func startedReceiver(t *testing.T, bus *fakeBus, cfg Config, mf FrameFormat) *CSI2RX {
	t.Helper()

	v := testReceiver(t, bus, cfg)
	v.SetFormat(mf)

	if err := v.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	return v
}

func TestChannelRouting(t *testing.T) {

	bus := newFakeBus()
	src := &testSource{pixelRate: 148500000}

	startedReceiver(t, bus, dphyConfig(src), FrameFormat{
		Code:   FormatUYVY8_1X16,
		Width:  1920,
		Height: 1080,
		Field:  FieldProgressive,
	})

	// All four channels matched on YUV422 8-bit (0x1e), channels 0 and
	// 1 packed into VCDT, 2 and 3 into VCDT2.
	if got := bus.reg(VCDT_REG); got != 0x815e805e {
		t.Fatalf("VCDT = %#x, want 0x815e805e", got)
	}

	if got := bus.reg(VCDT2_REG); got != 0x835e825e {
		t.Fatalf("VCDT2 = %#x, want 0x835e825e", got)
	}
}

func TestLaneSwapProgramming(t *testing.T) {

	bus := newFakeBus()
	src := &testSource{pixelRate: 148500000}

	cfg := dphyConfig(src)
	cfg.LaneSwap = []uint8{4, 1, 3, 2}

	startedReceiver(t, bus, cfg, FrameFormat{
		Code:  FormatUYVY8_1X16,
		Width: 1920, Height: 1080,
	})

	// Physical lanes are zero indexed in the register.
	if got := bus.reg(LSWAP_REG); got != 0x63 {
		t.Fatalf("LSWAP = %#x, want 0x63", got)
	}
}

func TestFieldDetectProgramming(t *testing.T) {

	cases := []struct {
		name   string
		height uint32
		field  FieldMode
		want   uint32
	}{
		{"progressive", 1080, FieldProgressive, 0},
		{"ntsc", 240, FieldAlternate,
			fldDetSel(1) | FLD_FLD_EN4 | FLD_FLD_EN3 | FLD_FLD_EN2 |
				FLD_FLD_EN | fldNum(0)},
		{"pal", 288, FieldAlternate,
			fldDetSel(1) | FLD_FLD_EN4 | FLD_FLD_EN3 | FLD_FLD_EN2 |
				FLD_FLD_EN | fldNum(1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bus := newFakeBus()
			src := &testSource{pixelRate: 148500000}

			startedReceiver(t, bus, dphyConfig(src), FrameFormat{
				Code:   FormatUYVY8_1X16,
				Width:  720,
				Height: tc.height,
				Field:  tc.field,
			})

			if got := bus.reg(FLD_REG); got != tc.want {
				t.Fatalf("FLD = %#x, want %#x", got, tc.want)
			}
		})
	}
}

func TestPHYEnableSequence(t *testing.T) {

	bus := newFakeBus()
	src := &testSource{pixelRate: 148500000}

	startedReceiver(t, bus, dphyConfig(src), FrameFormat{
		Code:  FormatUYVY8_1X16,
		Width: 1920, Height: 1080,
	})

	want := PHYCNT_ENABLECLK | 0xf | PHYCNT_SHUTDOWNZ | PHYCNT_RSTZ

	if got := bus.reg(PHYCNT_REG); got != want {
		t.Fatalf("PHYCNT = %#x, want %#x", got, want)
	}

	if got := bus.reg(CSI0CLKFCPR_REG); got != csi0ClkFreqRange(0x20) {
		t.Fatalf("CSI0CLKFCPR = %#x, want %#x", got, csi0ClkFreqRange(0x20))
	}
}

func TestCalcMbps(t *testing.T) {

	src := &testSource{pixelRate: 148500000}
	v := testReceiver(t, newFakeBus(), dphyConfig(src))

	// 148.5 MHz * 16 bpp / 4 lanes
	mbps, err := v.calcMbps(16, 4)

	if err != nil {
		t.Fatalf("calcMbps: %v", err)
	}

	if mbps != 594 {
		t.Fatalf("mbps = %d, want 594", mbps)
	}

	// An unreported pixel rate selects the fallback link rate.
	src.pixelRate = 0

	mbps, err = v.calcMbps(16, 4)

	if err != nil {
		t.Fatalf("calcMbps: %v", err)
	}

	if mbps != 1855 {
		t.Fatalf("mbps = %d, want fallback 1855", mbps)
	}
}

func TestActiveLanesBounds(t *testing.T) {

	src := &testSource{pixelRate: 148500000, lanes: 2}
	v := testReceiver(t, newFakeBus(), dphyConfig(src))

	lanes, err := v.activeLanes()

	if err != nil {
		t.Fatalf("activeLanes: %v", err)
	}

	if lanes != 2 {
		t.Fatalf("lanes = %d, want source reported 2", lanes)
	}

	src.lanes = 0

	if lanes, _ = v.activeLanes(); lanes != 4 {
		t.Fatalf("lanes = %d, want configured 4", lanes)
	}

	src.lanes = 5

	if _, err := v.activeLanes(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestStartWithoutSourceFails(t *testing.T) {

	cfg := dphyConfig(nil)
	v := testReceiver(t, newFakeBus(), cfg)

	if err := v.Start(); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}

	if v.State() != StateStandby {
		t.Fatalf("state = %s, want standby", v.State())
	}
}

func TestV4HCPHYBringup(t *testing.T) {

	bus := newFakeBus()
	src := &testSource{pixelRate: 300000000}

	cfg := Config{
		Model:  "r8a779g0",
		Medium: MediumCPHY,
		Lanes:  3,
		Source: src,
	}

	startedReceiver(t, bus, cfg, FrameFormat{
		Code:  FormatUYVY8_1X16,
		Width: 1920, Height: 1080,
	})

	if got := bus.reg(N_LANES); got != 2 {
		t.Fatalf("N_LANES = %#x, want 2", got)
	}

	if got := bus.reg(CSI2_RESETN); got != 1 {
		t.Fatalf("CSI2_RESETN = %#x, want released", got)
	}

	if got := bus.reg16(coreDigRWCommon(7)); got != 0x0155 {
		t.Fatalf("CORE_DIG_RW_COMMON(7) = %#x, want 0x0155", got)
	}

	// The low-power threshold is reprogrammed after the static setup.
	if got := bus.reg16(CORE_DIG_CLANE_0_RW_LP_0); got != 0x163c {
		t.Fatalf("CLANE_0_RW_LP_0 = %#x, want 0x163c", got)
	}

	// Forced RX mode released once the source is up.
	if got := bus.reg(FRXM); got != 0 {
		t.Fatalf("FRXM = %#x, want deasserted", got)
	}

	if got := bus.reg(PHY_SHUTDOWNZ); got != 1 {
		t.Fatalf("PHY_SHUTDOWNZ = %#x, want released", got)
	}
}

func TestV4HCPHYPinSwap(t *testing.T) {

	bus := newFakeBus()
	src := &testSource{pixelRate: 300000000}

	cfg := Config{
		Model:          "r8a779g0",
		Medium:         MediumCPHY,
		Lanes:          3,
		Source:         src,
		PinSwap:        true,
		PinSwapRXOrder: []uint8{OrderBAC, OrderCBA, OrderACB},
	}

	startedReceiver(t, bus, cfg, FrameFormat{
		Code:  FormatUYVY8_1X16,
		Width: 1920, Height: 1080,
	})

	if got := bus.reg16(CORE_DIG_CLANE_1_RW_HS_TX_6); got != 0x5000 {
		t.Fatalf("CLANE_1_RW_HS_TX_6 = %#x, want 0x5000", got)
	}

	// Per-trio wire order lands in bits 3:0 of the trio's CFG_0
	// register: BAC is 0x4 with bit 3 set, CBA is 0x1 with bit 3 set
	// patched into the fixed 0xf5 value, ACB is 0x2 with bit 3 set.
	if got := bus.reg16(CORE_DIG_CLANE_0_RW_CFG_0); got != 0x000c {
		t.Fatalf("CLANE_0_RW_CFG_0 = %#x, want 0xc", got)
	}

	if got := bus.reg16(CORE_DIG_CLANE_1_RW_CFG_0); got != 0x00f9 {
		t.Fatalf("CLANE_1_RW_CFG_0 = %#x, want 0xf9", got)
	}

	if got := bus.reg16(CORE_DIG_CLANE_2_RW_CFG_0); got != 0x000a {
		t.Fatalf("CLANE_2_RW_CFG_0 = %#x, want 0xa", got)
	}

	// The bit 8 patches come from the first three swap table rows in
	// trio order, not from the configured wire order. Trio 1 patches
	// the lane 2 register and trio 2 patches the lane 3 register.
	if got := bus.reg16(coreDigIOCtrlRWAFELane0Ctrl2(9)); got&0x100 != 0 {
		t.Fatalf("AFE_LANE0_CTRL_2(9) = %#x, want bit 8 clear", got)
	}

	if got := bus.reg16(coreDigIOCtrlRWAFELane2Ctrl2(9)); got&0x100 == 0 {
		t.Fatalf("AFE_LANE2_CTRL_2(9) = %#x, want bit 8 set", got)
	}

	if got := bus.reg16(coreDigIOCtrlRWAFELane3Ctrl2(9)); got != 0x100 {
		t.Fatalf("AFE_LANE3_CTRL_2(9) = %#x, want 0x100", got)
	}
}

func TestV4MBringup(t *testing.T) {

	bus := newFakeBus()
	src := &testSource{pixelRate: 150000000}

	cfg := Config{
		Model:  "r8a779h0",
		Medium: MediumDPHY,
		Lanes:  4,
		Source: src,
	}

	startedReceiver(t, bus, cfg, FrameFormat{
		Code:  FormatRGB888_1X24,
		Width: 1920, Height: 1080,
	})

	// 150 MHz * 24 bpp / 4 lanes = 900 Mbps, row 0x29 of the V4M
	// frequency range table.
	if got := bus.reg(V4M_PHYPLL); got != phyPLLHSFreqRange(0x29) {
		t.Fatalf("V4M_PHYPLL = %#x, want %#x", got, phyPLLHSFreqRange(0x29))
	}

	if got := bus.reg(V4M_CSI0CLKFCPR); got != v4mCSI0ClkFreqRange(0x0c) {
		t.Fatalf("V4M_CSI0CLKFCPR = %#x, want %#x", got, v4mCSI0ClkFreqRange(0x0c))
	}

	want := PHY_ENABLE_DCK | PHY_ENABLE_0 | PHY_ENABLE_1 | PHY_ENABLE_2

	if got := bus.reg(PHY_EN); got != want {
		t.Fatalf("PHY_EN = %#x, want %#x", got, want)
	}
}

func TestV4MRejectsCPHY(t *testing.T) {

	src := &testSource{pixelRate: 150000000}

	cfg := Config{
		Model:  "r8a779h0",
		Medium: MediumCPHY,
		Lanes:  3,
		Source: src,
	}

	v := testReceiver(t, newFakeBus(), cfg)

	if err := v.Start(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestX5HBringup(t *testing.T) {

	bus := newFakeBus()

	cfg := Config{
		Model:  "r8a78000",
		Medium: MediumDPHY,
		Lanes:  4,
	}

	startedReceiver(t, bus, cfg, FrameFormat{
		Code:  FormatUYVY8_1X16,
		Width: 1920, Height: 1080,
	})

	if got := bus.reg(PWR_UP); got&PWR_UP_BIT == 0 {
		t.Fatalf("PWR_UP = %#x, controller not woken", got)
	}

	if got := bus.reg(SDI_CFG); got&SDI_ENABLE == 0 {
		t.Fatalf("SDI_CFG = %#x, SDI not enabled", got)
	}
}
