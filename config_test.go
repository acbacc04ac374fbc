package csi2rx

import (
	"errors"
	"testing"
)

func TestValidateLaneCounts(t *testing.T) {

	cases := []struct {
		name   string
		medium Medium
		lanes  uint
		ok     bool
	}{
		{"dphy-1", MediumDPHY, 1, true},
		{"dphy-2", MediumDPHY, 2, true},
		{"dphy-3", MediumDPHY, 3, false},
		{"dphy-4", MediumDPHY, 4, true},
		{"dphy-5", MediumDPHY, 5, false},
		{"cphy-3", MediumCPHY, 3, true},
		{"cphy-4", MediumCPHY, 4, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{Medium: tc.medium, Lanes: tc.lanes}

			err := cfg.validate()

			if tc.ok && err != nil {
				t.Fatalf("validate: %v", err)
			}

			if !tc.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestValidateLaneSwap(t *testing.T) {

	cases := []struct {
		name string
		swap []uint8
		ok   bool
	}{
		{"identity", []uint8{1, 2, 3, 4}, true},
		{"permutation", []uint8{4, 1, 3, 2}, true},
		{"duplicate", []uint8{1, 1, 3, 4}, false},
		{"zero", []uint8{0, 2, 3, 4}, false},
		{"out-of-range", []uint8{1, 2, 3, 5}, false},
		{"short", []uint8{1, 2}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{Medium: MediumDPHY, Lanes: 4, LaneSwap: tc.swap}

			err := cfg.validate()

			if tc.ok && err != nil {
				t.Fatalf("validate: %v", err)
			}

			if !tc.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestValidateTrioOrderCodes(t *testing.T) {

	cfg := Config{
		Medium:         MediumCPHY,
		Lanes:          3,
		PinSwap:        true,
		PinSwapRXOrder: []uint8{OrderABC, OrderBCA, OrderCAB},
	}

	if err := cfg.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	cfg = Config{
		Medium:         MediumCPHY,
		Lanes:          3,
		PinSwap:        true,
		PinSwapRXOrder: []uint8{OrderABC, 0x6, OrderCAB},
	}

	if !errors.Is(cfg.validate(), ErrInvalidConfig) {
		t.Fatal("expected ErrInvalidConfig for unknown order code")
	}
}

func TestSetFormatFallsBackToDefault(t *testing.T) {

	v := testReceiver(t, newFakeBus(), dphyConfig(&testSource{pixelRate: 1}))

	mf := v.SetFormat(FrameFormat{Code: 0xdead, Width: 640, Height: 480})

	if mf.Code != formats[0].code {
		t.Fatalf("code = %#x, want default %#x", mf.Code, formats[0].code)
	}

	if got := v.Format(); got.Code != formats[0].code || got.Width != 640 {
		t.Fatalf("Format() = %+v, 640x480 default code expected", got)
	}
}

func TestSetFormatKeepsKnownCode(t *testing.T) {

	v := testReceiver(t, newFakeBus(), dphyConfig(&testSource{pixelRate: 1}))

	mf := v.SetFormat(FrameFormat{Code: FormatRGB888_1X24, Width: 1280, Height: 720})

	if mf.Code != FormatRGB888_1X24 {
		t.Fatalf("code = %#x, want %#x", mf.Code, FormatRGB888_1X24)
	}
}
