// go-csi2rx is a driver for the MIPI CSI-2 receiver found in Renesas
// R-Car SoCs. It brings up the link PHY for the configured data rate,
// routes the virtual channels, and restarts the receiver when the
// hardware flags a transfer error.
package csi2rx

import (
	"io"
	"log"
	"sync"
)

// ReceiverState is the externally observable lifecycle state of the
// receiver.
type ReceiverState int

const (
	// StateStandby means the PHY is shut down and no stream is active.
	StateStandby ReceiverState = iota
	// StateBringingUp means the bring-up sequence is running.
	StateBringingUp
	// StateStreaming means the link is up and at least one stream
	// holds a reference.
	StateStreaming
	// StateTearingDown means the last stream is being stopped.
	StateTearingDown
	// StateFaulted means a transfer error was detected and the
	// receiver is being restarted.
	StateFaulted
)

func (s ReceiverState) String() string {
	switch s {
	case StateStandby:
		return "standby"
	case StateBringingUp:
		return "bringing-up"
	case StateStreaming:
		return "streaming"
	case StateTearingDown:
		return "tearing-down"
	case StateFaulted:
		return "faulted"
	}
	return "unknown"
}

// CSI2RX represents a single CSI-2 receiver instance.
type CSI2RX struct {
	// bus is the register access interface
	bus RegisterBus

	info *variantInfo
	cfg  Config

	source Source
	rstc   ResetControl
	pwr    PowerControl

	// mu serializes every streaming state transition, including the
	// restart triggered by the fault worker.
	mu          sync.Mutex
	state       ReceiverState
	streamCount int
	mf          FrameFormat

	// faults coalesces transfer error notifications for the worker.
	faults    chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// log logger for debugging
	log *log.Logger
}

// New returns a new receiver instance for the given register bus and
// board configuration.
func New(bus RegisterBus, cfg Config) (*CSI2RX, error) {

	v, err := newReceiver(bus, cfg)

	if err != nil {
		return nil, err
	}

	// create null logger
	v.log = log.New(io.Discard, "", log.LstdFlags)

	v.setup()

	return v, nil
}

// NewWithLog returns a new receiver instance with a logger to be used
// for debugging.
func NewWithLog(bus RegisterBus, cfg Config, log *log.Logger) (*CSI2RX, error) {

	v, err := newReceiver(bus, cfg)

	if err != nil {
		return nil, err
	}

	// set logger
	v.log = log

	v.setup()

	return v, nil
}

// newReceiver validates the configuration and resolves the hardware
// variant.
func newReceiver(bus RegisterBus, cfg Config) (*CSI2RX, error) {

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	info, err := lookupVariant(cfg.Model, cfg.Revision)

	if err != nil {
		return nil, err
	}

	v := &CSI2RX{
		bus:    bus,
		info:   info,
		cfg:    cfg,
		source: cfg.Source,
		rstc:   cfg.Reset,
		pwr:    cfg.Power,
		state:  StateStandby,
		mf: FrameFormat{
			Code:   formats[0].code,
			Width:  1920,
			Height: 1080,
			Field:  FieldProgressive,
		},
		faults: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	return v, nil
}

// setup completes instance creation and is a common function for New()
// and NewWithLog()
func (v *CSI2RX) setup() {
	go v.faultWorker()
}

// Close stops the fault worker. The receiver must already be stopped.
func (v *CSI2RX) Close() {
	v.closeOnce.Do(func() {
		close(v.done)
	})
}

// State returns the current lifecycle state.
func (v *CSI2RX) State() ReceiverState {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.state
}

// StreamCount returns the number of active stream references.
func (v *CSI2RX) StreamCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.streamCount
}
