package httpapi

import (
	"context"
)

// serverBaseCtx is a process-level context canceled on shutdown. Defaults to
// Background when main never installs one.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level base context used by handlers whose
// work should stop on shutdown (reload's artifact fetch, notably).
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts returns a context canceled when either a or b is done. The
// cancel func must be called when the handler ends to release the goroutine.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-a.Done():
			cancel()
		case <-b.Done():
			cancel()
		}
	}()
	return ctx, cancel
}
