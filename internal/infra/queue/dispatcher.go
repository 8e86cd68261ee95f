package queue

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Integration forwards a lead to one external system.
type Integration interface {
	Name() string
	Forward(ctx context.Context, payload LeadPayload) error
}

// Dispatcher fans a lead out to every integration. A failing integration does
// not stop the others; all failures are joined into the returned error.
type Dispatcher struct {
	integrations []Integration
	logger       *zap.Logger
	onError      func(service string)
}

func NewDispatcher(logger *zap.Logger, integrations ...Integration) *Dispatcher {
	return &Dispatcher{integrations: integrations, logger: logger}
}

// OnError registers a callback invoked with the integration name on failure.
func (d *Dispatcher) OnError(fn func(service string)) {
	d.onError = fn
}

func (d *Dispatcher) Len() int {
	return len(d.integrations)
}

func (d *Dispatcher) Dispatch(ctx context.Context, payload LeadPayload) error {
	var errs []error
	for _, in := range d.integrations {
		if err := in.Forward(ctx, payload); err != nil {
			d.logger.Error("integration failed",
				zap.String("integration", in.Name()),
				zap.String("contact_id", payload.ContactID),
				zap.Error(err),
			)
			if d.onError != nil {
				d.onError(in.Name())
			}
			errs = append(errs, fmt.Errorf("%s: %w", in.Name(), err))
			continue
		}
		d.logger.Info("lead forwarded",
			zap.String("integration", in.Name()),
			zap.String("contact_id", payload.ContactID),
		)
	}
	return errors.Join(errs...)
}
