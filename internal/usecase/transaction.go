package usecase

import (
	"context"
	"fmt"
)

// Transaction runs operations in order. When one fails, the compensations
// registered for the operations that already succeeded run in reverse order.
type Transaction struct {
	steps               []step
	onCompensationError func(name string, err error)
}

type step struct {
	name       string
	fn         func(context.Context) error
	compensate func(context.Context) error
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

// AddOperation appends an operation. compensate may be nil.
func (t *Transaction) AddOperation(name string, fn, compensate func(context.Context) error) {
	t.steps = append(t.steps, step{name: name, fn: fn, compensate: compensate})
}

// OnCompensationError registers a hook for compensations that fail; those
// leave the data inconsistent and must be surfaced.
func (t *Transaction) OnCompensationError(fn func(name string, err error)) {
	t.onCompensationError = fn
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, s := range t.steps {
		if err := s.fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", s.name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAt int) {
	for i := failedAt - 1; i >= 0; i-- {
		s := t.steps[i]
		if s.compensate == nil {
			continue
		}
		if err := s.compensate(ctx); err != nil && t.onCompensationError != nil {
			t.onCompensationError(s.name, err)
		}
	}
}
