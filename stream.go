package csi2rx

// Start takes a stream reference. The first reference runs the full
// bring-up sequence; further references only bump the count, and every
// successful Start must be paired with a Stop.
func (v *CSI2RX) Start() error {

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.streamCount == 0 {
		v.state = StateBringingUp

		if err := v.start(); err != nil {
			v.state = StateStandby
			return err
		}
	}

	v.streamCount++
	v.state = StateStreaming

	return nil
}

// Stop drops a stream reference. The last reference shuts the
// receiver down. Stopping an already stopped receiver is a no-op.
func (v *CSI2RX) Stop() {

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.streamCount == 0 {
		v.log.Printf("stop with no active stream")
		return
	}

	if v.streamCount == 1 {
		v.state = StateTearingDown
		v.stopHW()
		v.state = StateStandby
	}

	v.streamCount--
}

// SetFormat selects the frame format used at the next bring-up. An
// unknown media bus code falls back to the first supported format.
func (v *CSI2RX) SetFormat(mf FrameFormat) FrameFormat {

	v.mu.Lock()
	defer v.mu.Unlock()

	if codeToFormat(mf.Code) == nil {
		mf.Code = formats[0].code
	}

	v.mf = mf

	return mf
}

// Format returns the currently selected frame format.
func (v *CSI2RX) Format() FrameFormat {

	v.mu.Lock()
	defer v.mu.Unlock()

	return v.mf
}
