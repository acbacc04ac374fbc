package csi2rx

import (
	"errors"
	"testing"
	"time"
)

func TestStartStopRefcount(t *testing.T) {

	bus := newFakeBus()
	src := &testSource{pixelRate: 148500000}
	v := testReceiver(t, bus, dphyConfig(src))

	for i := 0; i < 3; i++ {
		if err := v.Start(); err != nil {
			t.Fatalf("Start %d: %v", i, err)
		}
	}

	if starts, _ := src.counts(); starts != 1 {
		t.Fatalf("source started %d times, want 1", starts)
	}

	if v.StreamCount() != 3 {
		t.Fatalf("StreamCount = %d, want 3", v.StreamCount())
	}

	if v.State() != StateStreaming {
		t.Fatalf("state = %s, want streaming", v.State())
	}

	v.Stop()
	v.Stop()

	if _, stops := src.counts(); stops != 0 {
		t.Fatalf("source stopped %d times with streams active, want 0", stops)
	}

	if v.State() != StateStreaming {
		t.Fatalf("state = %s after partial stop, want streaming", v.State())
	}

	v.Stop()

	if _, stops := src.counts(); stops != 1 {
		t.Fatalf("source stopped %d times, want 1", stops)
	}

	if v.State() != StateStandby {
		t.Fatalf("state = %s, want standby", v.State())
	}

	if v.StreamCount() != 0 {
		t.Fatalf("StreamCount = %d, want 0", v.StreamCount())
	}
}

func TestStopWithoutStartIsNoOp(t *testing.T) {

	src := &testSource{pixelRate: 148500000}
	v := testReceiver(t, newFakeBus(), dphyConfig(src))

	v.Stop()

	if v.StreamCount() != 0 {
		t.Fatalf("StreamCount = %d, want 0", v.StreamCount())
	}

	if _, stops := src.counts(); stops != 0 {
		t.Fatal("source stopped on a stopped receiver")
	}
}

func TestStartFailureRestoresStandby(t *testing.T) {

	bus := newFakeBus()
	bus.setFailWrite(TREF_REG, errors.New("bus fault"))

	src := &testSource{pixelRate: 148500000}
	v := testReceiver(t, bus, dphyConfig(src))

	if err := v.Start(); err == nil {
		t.Fatal("expected Start to fail")
	}

	if v.State() != StateStandby {
		t.Fatalf("state = %s, want standby", v.State())
	}

	if v.StreamCount() != 0 {
		t.Fatalf("StreamCount = %d, want 0", v.StreamCount())
	}

	// The PHY was shut down on the way out.
	if got := bus.reg(PHYCNT_REG); got != 0 {
		t.Fatalf("PHYCNT = %#x after failed start, want 0", got)
	}
}

func TestSourceFailureRestoresStandby(t *testing.T) {

	src := &testSource{pixelRate: 148500000, failStart: true}
	v := testReceiver(t, newFakeBus(), dphyConfig(src))

	if err := v.Start(); err == nil {
		t.Fatal("expected Start to fail")
	}

	if v.State() != StateStandby {
		t.Fatalf("state = %s, want standby", v.State())
	}
}

func TestForcedRXModeDeassertFailureUnwinds(t *testing.T) {

	bus := newFakeBus()

	// The first forced RX mode write asserts it during bring-up, the
	// second is the final deassert after the source has started.
	bus.setFailWriteAfter(FRXM, 1, errors.New("bus fault"))

	src := &testSource{pixelRate: 300000000}
	rst := &recordingReset{}

	v := testReceiver(t, bus, Config{
		Model:  "r8a779g0",
		Medium: MediumCPHY,
		Lanes:  3,
		Source: src,
		Reset:  rst,
	})

	if err := v.Start(); err == nil {
		t.Fatal("expected Start to fail")
	}

	// The source was started before the deassert, so it must be
	// stopped again on the way out.
	if starts, stops := src.counts(); starts != 1 || stops != 1 {
		t.Fatalf("source starts/stops = %d/%d, want 1/1", starts, stops)
	}

	// The reset line was asserted again to tear the PHY down.
	if asserts, deasserts := rst.counts(); asserts != 1 || deasserts != 1 {
		t.Fatalf("reset asserts/deasserts = %d/%d, want 1/1", asserts, deasserts)
	}

	if v.State() != StateStandby {
		t.Fatalf("state = %s, want standby", v.State())
	}

	if v.StreamCount() != 0 {
		t.Fatalf("StreamCount = %d, want 0", v.StreamCount())
	}
}

func triggerFault(t *testing.T, bus *fakeBus, v *CSI2RX) {
	t.Helper()

	bus.setReg(INTSTATE_REG, 0x8)
	bus.setReg(INTERRSTATE_REG, 0x10)

	fault, err := v.Interrupt()

	if err != nil {
		t.Fatalf("Interrupt: %v", err)
	}

	if !fault {
		t.Fatal("Interrupt did not report a fault")
	}
}

func TestFaultTriggersRestart(t *testing.T) {

	bus := newFakeBus()
	src := &testSource{pixelRate: 148500000}
	v := testReceiver(t, bus, dphyConfig(src))

	if err := v.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	triggerFault(t, bus, v)

	waitFor(t, "receiver restart", func() bool {
		starts, stops := src.counts()
		return starts == 2 && stops == 1 && v.State() == StateStreaming
	})

	if v.StreamCount() != 1 {
		t.Fatalf("StreamCount = %d after restart, want 1", v.StreamCount())
	}
}

func TestFaultAfterStopIsIgnored(t *testing.T) {

	bus := newFakeBus()
	src := &testSource{pixelRate: 148500000}
	v := testReceiver(t, bus, dphyConfig(src))

	if err := v.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	v.Stop()
	triggerFault(t, bus, v)

	time.Sleep(50 * time.Millisecond)

	if starts, _ := src.counts(); starts != 1 {
		t.Fatalf("source started %d times, restart ran on stopped receiver", starts)
	}

	if v.State() != StateStandby {
		t.Fatalf("state = %s, want standby", v.State())
	}
}

func TestFailedRestartEntersStandby(t *testing.T) {

	bus := newFakeBus()
	src := &testSource{pixelRate: 148500000}
	v := testReceiver(t, bus, dphyConfig(src))

	if err := v.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	bus.setFailWrite(TREF_REG, errors.New("bus fault"))
	triggerFault(t, bus, v)

	waitFor(t, "failed restart", func() bool {
		return v.State() == StateStandby
	})
}

func TestInterruptWithoutErrorIsNotAFault(t *testing.T) {

	bus := newFakeBus()
	src := &testSource{pixelRate: 148500000}
	v := testReceiver(t, bus, dphyConfig(src))

	// Status set, error status clear: acknowledge only.
	bus.setReg(INTSTATE_REG, 0x8)

	fault, err := v.Interrupt()

	if err != nil {
		t.Fatalf("Interrupt: %v", err)
	}

	if fault {
		t.Fatal("fault reported without an error condition")
	}

	if got := bus.reg(INTSTATE_REG); got != 0 {
		t.Fatalf("INTSTATE = %#x, want acknowledged", got)
	}
}
