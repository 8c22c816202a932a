// Package offer keeps the last follow-up offered to each conversation so a
// bare "yes" on the next turn can be resolved against it.
//
// Each session holds at most one pending offer. Put always overwrites, and Take
// reads and clears in one step, so an offer is confirmed at most once.
package offer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Store interface {
	// Put records text as the session's pending offer, replacing any previous one.
	Put(session, text string) error
	// Take returns and clears the session's pending offer. ok is false when
	// there is none or it has expired.
	Take(session string) (text string, ok bool, err error)
	// Peek returns the pending offer without clearing it.
	Peek(session string) (text string, ok bool, err error)
	// Cleanup drops offers older than maxAge.
	Cleanup(maxAge time.Duration) (int, error)
	Close() error
}

// Sweep calls s.Cleanup every interval until ctx is done.
func Sweep(ctx context.Context, s Store, interval, maxAge time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Cleanup(maxAge)
			if err != nil {
				logger.Warn("offer cleanup failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("expired offers removed", zap.Int("count", n))
			}
		}
	}
}
