package csi2rx

import "time"

// Interrupt services the receiver's interrupt condition. It only
// acknowledges status registers and never blocks, so it is safe to
// call from a tight event loop. It returns true when a transfer error
// was detected and a restart has been queued.
func (v *CSI2RX) Interrupt() (bool, error) {

	status, err := v.readReg(INTSTATE_REG)

	if err != nil {
		return false, err
	}

	if status == 0 {
		return false, nil
	}

	if err := v.writeReg(INTSTATE_REG, status); err != nil {
		return false, err
	}

	errStatus, err := v.readReg(INTERRSTATE_REG)

	if err != nil {
		return false, err
	}

	if errStatus == 0 {
		return false, nil
	}

	if err := v.writeReg(INTERRSTATE_REG, errStatus); err != nil {
		return false, err
	}

	v.log.Printf("transfer error, restarting receiver")

	// Queue the restart. A notification already pending covers this
	// fault too, the worker restarts from scratch either way.
	select {
	case v.faults <- struct{}{}:
	default:
	}

	return true, nil
}

// faultWorker runs the blocking restart work that Interrupt cannot do
// itself. One worker is started per receiver instance.
func (v *CSI2RX) faultWorker() {
	for {
		select {
		case <-v.done:
			return
		case <-v.faults:
			v.restart()
		}
	}
}

// restart tears the receiver down and brings it back up after a
// transfer error. A fault that arrives after the last stream stopped
// is ignored.
func (v *CSI2RX) restart() {

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.streamCount == 0 {
		return
	}

	v.state = StateFaulted
	v.stopHW()

	time.Sleep(pollInterval().Duration())

	if err := v.start(); err != nil {
		v.log.Printf("failed to restart receiver: %v", err)
		v.state = StateStandby
		return
	}

	v.state = StateStreaming
}
