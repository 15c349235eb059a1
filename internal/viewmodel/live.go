package viewmodel

import (
	"context"
	"sync/atomic"

	"jetnotes/internal/observable"
)

// liveList keeps an observable in sync with a repository query. Each
// refresh is numbered; a result older than the one already applied is
// dropped.
type liveList[T any] struct {
	name      string
	value     *observable.Value[[]T]
	query     func(ctx context.Context) ([]T, error)
	requested atomic.Int64
	applied   int64 // UI goroutine only
}

func newLiveList[T any](name string, query func(ctx context.Context) ([]T, error)) *liveList[T] {
	return &liveList[T]{
		name:  name,
		value: observable.NewValue[[]T](nil),
		query: query,
	}
}

func (l *liveList[T]) refresh(s *scope) {
	seq := l.requested.Add(1)
	s.launch("load "+l.name, func(ctx context.Context) (func(), error) {
		items, err := l.query(ctx)
		if err != nil {
			return nil, err
		}
		return func() {
			if seq <= l.applied {
				return
			}
			l.applied = seq
			l.value.Set(items)
		}, nil
	})
}
