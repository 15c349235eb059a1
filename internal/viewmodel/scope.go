package viewmodel

import (
	"context"
	"sync"

	"jetnotes/internal/dispatch"
	"jetnotes/internal/logs"
)

// task runs off the UI goroutine. The returned continuation, if any, is
// posted back to the UI goroutine.
type task func(ctx context.Context) (func(), error)

// scope owns the background tasks of a view-model. Cancelling it abandons
// work in flight; continuations of abandoned tasks never run.
type scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	disp   dispatch.Dispatcher

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup

	onError func(op string, err error)
}

func newScope(disp dispatch.Dispatcher, onError func(op string, err error)) *scope {
	ctx, cancel := context.WithCancel(context.Background())
	return &scope{
		ctx:     ctx,
		cancel:  cancel,
		disp:    disp,
		onError: onError,
	}
}

func (s *scope) launch(op string, work task) {
	s.launchSettled(op, work, nil)
}

// launchSettled is launch with settled run on the UI goroutine once the task
// has finished, after the continuation or the error report.
func (s *scope) launchSettled(op string, work task, settled func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		cont, err := work(s.ctx)
		if s.ctx.Err() != nil {
			return
		}
		if err != nil {
			logs.Logger.Printf("ViewModel: %s failed: %v", op, err)
			s.post(func() {
				s.onError(op, err)
				if settled != nil {
					settled()
				}
			})
			return
		}
		if cont != nil || settled != nil {
			s.post(func() {
				if cont != nil {
					cont()
				}
				if settled != nil {
					settled()
				}
			})
		}
	}()
}

func (s *scope) post(fn func()) {
	s.disp.Post(func() {
		if s.ctx.Err() != nil {
			return
		}
		fn()
	})
}

func (s *scope) wait() {
	s.wg.Wait()
}

func (s *scope) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
