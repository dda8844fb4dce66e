package harness

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrTimeout = errors.New("time limit exceeded")

// Guard calls f and returns its error, giving up with ErrTimeout if f
// hasn't returned within limit or before ctx is canceled. A limit of
// zero or less disables the time limit and calls f directly.
//
// When Guard gives up, f is left running in the background and anything
// it was operating on must no longer be used.
func Guard(ctx context.Context, limit time.Duration, f func() error) error {
	if limit <= 0 {
		return f()
	}

	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	err, werr := Go(f).Wait(ctx)
	if werr != nil {
		if errors.Is(werr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrTimeout, limit)
		}
		return werr
	}
	return err
}
