package notifier

import (
	"context"
	"sync"

	"fulfillment/internal/core/ports"
)

// Async hands notifications to a background goroutine so the caller never
// waits on the alert store or the broker.
type Async struct {
	next ports.Notifier
	wg   sync.WaitGroup
}

func NewAsync(next ports.Notifier) *Async {
	return &Async{next: next}
}

func (a *Async) Notify(ctx context.Context, n ports.Notification) {
	if n.Err == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.next.Notify(ctx, n)
	}()
}

// Wait blocks until every dispatched notification has been handled.
func (a *Async) Wait() {
	a.wg.Wait()
}
