package rabbit

import (
	"context"
	"errors"
	"time"

	"github.com/Temutjin2k/miletracker/pkg/rabbit"
)

var retryDelay = 200 * time.Millisecond

// retry calls fn up to n times. A closed client is not retried.
func retry(ctx context.Context, n int, sleep time.Duration, fn func() error) error {
	var err error
	for i := range n {
		if err = fn(); err == nil || oneOf(err, rabbit.ErrClosed, context.Canceled, context.DeadlineExceeded) {
			return err
		}
		if i == n-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
	return err
}

func oneOf(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
