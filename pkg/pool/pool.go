package pool

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/modelmesh-lang/modelmesh/pkg/events"
)

// Pool decouples event production from handler execution: it is
// registered as an event handler, queues incoming object events and
// delivers them to its sink from a set of workers. Delivery order
// across workers is not guaranteed.
type Pool interface {
	events.EventHandler

	Start(ctx context.Context)
	// Wait blocks until all workers have terminated after the start
	// context was cancelled.
	Wait()
}

type pool struct {
	name   string
	size   int
	sink   events.EventHandler
	queue  chan events.ObjectEvent
	wg     sync.WaitGroup
	logger *zap.SugaredLogger
}

var _ Pool = (*pool)(nil)

// queueSize bounds the number of undelivered events per pool.
const queueSize = 1024

func NewPool(name string, size int, sink events.EventHandler, logger ...*zap.Logger) Pool {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &pool{
		name:   name,
		size:   size,
		sink:   sink,
		queue:  make(chan events.ObjectEvent, queueSize),
		logger: l.Sugar().With("pool", name),
	}
}

// HandleEvent queues an event for asynchronous delivery. When the
// queue is full the event is dropped; the sink sees the next change
// of the object instead.
func (p *pool) HandleEvent(e events.ObjectEvent) {
	select {
	case p.queue <- e:
	default:
		p.logger.Debugw("queue full, discarding event", "id", e.Id)
	}
}

func (p *pool) Start(ctx context.Context) {
	p.logger.Infow("starting dispatch pool", "workers", p.size)
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func(number int) {
			defer p.wg.Done()
			newWorker(p, number).Run(ctx)
		}(i)
	}
}

func (p *pool) Wait() {
	p.wg.Wait()
}
