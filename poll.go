package csi2rx

import (
	"time"

	"github.com/jpillora/backoff"
)

// pollInterval returns the sleep source used between iterations of the
// bounded hardware polling loops: jittered between 1 and 2 ms.
func pollInterval() *backoff.Backoff {
	return &backoff.Backoff{
		Min:    time.Millisecond,
		Max:    2 * time.Millisecond,
		Jitter: true,
	}
}

// poll runs cond up to tries times, sleeping between iterations, until
// it reports the awaited hardware condition. Every polling loop in the
// bring-up sequence is bounded this way; there is no unbounded wait on
// hardware state.
func (v *CSI2RX) poll(tries int, cond func() (bool, error)) error {

	b := pollInterval()

	for i := 0; i < tries; i++ {

		ok, err := cond()

		if err != nil {
			return err
		}

		if ok {
			return nil
		}

		time.Sleep(b.Duration())
	}

	return ErrTimeout
}
