package tui

import (
	"errors"
	"time"
)

// ErrPollTimeout is returned when the condition never became true
// within the attempt budget.
var ErrPollTimeout = errors.New("condition not met before timeout")

// Poll retries fn at a fixed interval until it reports done, fails, or
// the attempt budget runs out. It is a defensive bound for UI wiring,
// not a correctness-critical timeout.
func Poll(interval time.Duration, attempts int, fn func() (bool, error)) error {
	for i := 0; i < attempts; i++ {
		done, err := fn()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(interval)
		}
	}
	return ErrPollTimeout
}
