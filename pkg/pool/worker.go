package pool

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/modelmesh-lang/modelmesh/pkg/events"
)

// worker is a single goroutine synchronously draining the pool
// queue.
type worker struct {
	pool   *pool
	logger *zap.SugaredLogger
}

func newWorker(p *pool, number int) *worker {
	return &worker{
		pool:   p,
		logger: p.logger.With("worker", number),
	}
}

func (w *worker) Run(ctx context.Context) {
	w.logger.Debugw("starting worker")
	defer w.logger.Debugw("exit worker")

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-w.pool.queue:
			w.deliver(e)
		}
	}
}

// deliver shields the worker loop from panicking handlers.
func (w *worker) deliver(e events.ObjectEvent) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Errorw("handler panic", "id", e.Id, "error", fmt.Sprintf("%v", r))
		}
	}()
	w.pool.sink.HandleEvent(e)
}
