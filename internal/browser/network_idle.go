package browser

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// networkIdleWatcher tracks in-flight network requests on a tab so a
// render can wait for images and fonts referenced by the document.
type networkIdleWatcher struct {
	mu         sync.Mutex
	inflight   map[network.RequestID]struct{}
	lastChange time.Time
}

func newNetworkIdleWatcher(ctx context.Context) *networkIdleWatcher {
	w := &networkIdleWatcher{
		inflight:   make(map[network.RequestID]struct{}),
		lastChange: time.Now(),
	}
	chromedp.ListenTarget(ctx, w.handle)
	return w
}

func (w *networkIdleWatcher) handle(ev any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		w.inflight[e.RequestID] = struct{}{}
	case *network.EventLoadingFinished:
		delete(w.inflight, e.RequestID)
	case *network.EventLoadingFailed:
		delete(w.inflight, e.RequestID)
	default:
		return
	}
	w.lastChange = time.Now()
}

func (w *networkIdleWatcher) idleSince() (int, time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.inflight), w.lastChange
}

// wait blocks until no request has been in flight for the idle interval,
// or until max elapses. Hitting max is not an error; rendering proceeds
// with whatever resources have loaded.
func (w *networkIdleWatcher) wait(idle, max time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		deadline := time.Now().Add(max)
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			pending, last := w.idleSince()
			if pending == 0 && time.Since(last) >= idle {
				return nil
			}
			if time.Now().After(deadline) {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	})
}
