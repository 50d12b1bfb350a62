package utils

import (
	"context"
	"log"
	"runtime/debug"

	"stock-advisor/pkg/logger"
)

// GoSafe runs fn in a goroutine and recovers panics so one failing job cannot
// take down the process.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether ctx is still live, logging once when it is
// not. Loops over work items use it as their break condition.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Info("Context cancelled, stopping work", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}
