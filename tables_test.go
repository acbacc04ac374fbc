package csi2rx

import (
	"errors"
	"strings"
	"testing"
)

var lookupTable = []mbpsReg{
	{90, 0x10},
	{100, 0x20},
	{110, 0x30},
}

func TestLookupMbpsRegExact(t *testing.T) {

	v := &CSI2RX{}
	v.log, _ = newTestLogger()

	reg, err := v.lookupMbpsReg(lookupTable, 100)

	if err != nil {
		t.Fatalf("lookupMbpsReg: %v", err)
	}

	if reg != 0x20 {
		t.Fatalf("reg = %#x, want 0x20", reg)
	}
}

// A speed equidistant between two rows resolves to the lower row.
func TestLookupMbpsRegTieBreaksLow(t *testing.T) {

	v := &CSI2RX{}
	v.log, _ = newTestLogger()

	reg, err := v.lookupMbpsReg(lookupTable, 95)

	if err != nil {
		t.Fatalf("lookupMbpsReg: %v", err)
	}

	if reg != 0x10 {
		t.Fatalf("reg = %#x, want 0x10", reg)
	}
}

func TestLookupMbpsRegNearest(t *testing.T) {

	v := &CSI2RX{}
	v.log, _ = newTestLogger()

	reg, err := v.lookupMbpsReg(lookupTable, 104)

	if err != nil {
		t.Fatalf("lookupMbpsReg: %v", err)
	}

	if reg != 0x20 {
		t.Fatalf("reg = %#x, want 0x20", reg)
	}
}

func TestLookupMbpsRegBelowMinWarns(t *testing.T) {

	v := &CSI2RX{}

	var logged func() string
	v.log, logged = newTestLogger()

	reg, err := v.lookupMbpsReg(lookupTable, 50)

	if err != nil {
		t.Fatalf("lookupMbpsReg: %v", err)
	}

	if reg != 0x10 {
		t.Fatalf("reg = %#x, want first row 0x10", reg)
	}

	if !strings.Contains(logged(), "less than min") {
		t.Fatal("expected a warning about the minimum supported speed")
	}
}

func TestLookupMbpsRegAboveMax(t *testing.T) {

	v := &CSI2RX{}
	v.log, _ = newTestLogger()

	_, err := v.lookupMbpsReg(lookupTable, 200)

	if !errors.Is(err, ErrUnsupportedSpeed) {
		t.Fatalf("expected ErrUnsupportedSpeed, got %v", err)
	}
}

// The C-PHY table selects the first row strictly above the symbol
// rate, not the nearest one.
func TestLookupCPHYSetting(t *testing.T) {

	v := &CSI2RX{}
	v.log, _ = newTestLogger()

	setting, err := v.lookupCPHYSetting(2500)

	if err != nil {
		t.Fatalf("lookupCPHYSetting: %v", err)
	}

	if setting.msps != 2600 {
		t.Fatalf("msps = %d, want 2600", setting.msps)
	}

	setting, err = v.lookupCPHYSetting(0)

	if err != nil {
		t.Fatalf("lookupCPHYSetting: %v", err)
	}

	if setting.msps != 80 {
		t.Fatalf("msps = %d, want first row 80", setting.msps)
	}

	if _, err := v.lookupCPHYSetting(3500); !errors.Is(err, ErrUnsupportedSpeed) {
		t.Fatalf("expected ErrUnsupportedSpeed, got %v", err)
	}
}
