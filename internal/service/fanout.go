package service

import (
	"context"
	"sync"

	"github.com/vhvplatform/go-clinic-lifecycle/internal/shared/logger"
)

// Dispatch is one independent notification attempt within a fan-out.
type Dispatch func(ctx context.Context) error

// FanOut runs every dispatch concurrently and returns once all attempts have
// completed. Each dispatch is isolated: an error or panic in one cannot
// cancel its siblings or reach the caller. Failures are logged and swallowed.
func FanOut(ctx context.Context, log *logger.Logger, dispatches ...Dispatch) {
	var wg sync.WaitGroup
	wg.Add(len(dispatches))

	for _, dispatch := range dispatches {
		go func(d Dispatch) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Error("Recovered panic in notification dispatch", "panic", r)
				}
			}()

			if err := d(ctx); err != nil {
				log.Warn("Notification dispatch failed", "error", err)
			}
		}(dispatch)
	}

	wg.Wait()
}
