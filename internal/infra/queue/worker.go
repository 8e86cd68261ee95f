package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer is the subset of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel    Consumer
	Dispatcher *Dispatcher
	Logger     *zap.Logger
}

func NewWorker(ch Consumer, d *Dispatcher, logger *zap.Logger) *Worker {
	return &Worker{Channel: ch, Dispatcher: d, Logger: logger}
}

var ErrDeliveriesClosed = errors.New("delivery channel closed")

// Start consumes queueName until ctx is done or the broker closes the
// channel. Messages are acknowledged manually.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Logger.Info("worker waiting for leads", zap.String("queue", queueName))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return ErrDeliveriesClosed
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload LeadPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		w.Logger.Error("invalid lead payload", zap.Error(err))
		d.Nack(false, false)
		return
	}

	if err := w.Dispatcher.Dispatch(ctx, payload); err != nil {
		// dead-lettered for manual replay
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}
