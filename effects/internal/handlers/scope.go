package handlers

import (
	"sync"

	"github.com/google/uuid"
)

// effectScope ties a queue to its identity and teardown.
// Close may be called more than once and from any goroutine but the
// scope's own worker. It returns after the worker has stopped.
type effectScope[T any] struct {
	EffectId string
	queue    Queue[T]
	closeFn  func()
	once     sync.Once
}

func (es *effectScope[T]) Close() {
	es.once.Do(es.closeFn)
}

// Done is closed once the scope's worker has stopped.
func (es *effectScope[T]) Done() <-chan struct{} {
	return es.queue.Done()
}

func newEffectScope[T any](
	queue Queue[T],
	teardown func(),
) *effectScope[T] {
	return &effectScope[T]{
		EffectId: uuid.New().String(),
		queue:    queue,
		closeFn:  teardown,
	}
}
