package services

import (
	"context"
	"time"
)

// Progress is a status line plus a completion percentage in [0, 100].
type Progress struct {
	Message string
	Percent int
}

// Reporter receives progress updates. A nil Reporter discards them.
type Reporter func(Progress)

func (r Reporter) report(msg string, percent int) {
	if r != nil {
		r(Progress{Message: msg, Percent: percent})
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
