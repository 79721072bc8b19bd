package common

import (
	"context"
	"os/signal"
	"syscall"
)

// CreateContextWithShutdown returns a context that is cancelled when the
// process receives SIGINT or SIGTERM, so a run can stop at the next operation
// boundary instead of being killed mid-write.
func CreateContextWithShutdown() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}
