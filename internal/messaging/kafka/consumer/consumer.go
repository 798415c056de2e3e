package consumer

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Jkrlos982/wl-soccer-school-sub000/internal/shared/apperror"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader a consumer loop needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// HandlerFunc processes one message. Returning a permanent error commits
// the message anyway; any other error retries the same message.
type HandlerFunc func(ctx context.Context, msg kafkago.Message) error

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as one that redelivery cannot fix.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// IsPermanent reports whether err was marked Permanent or is a client side
// application error.
func IsPermanent(err error) bool {
	var p permanentError
	if errors.As(err, &p) {
		return true
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus >= http.StatusBadRequest && appErr.HTTPStatus < http.StatusInternalServerError
	}
	return false
}

const (
	DefaultRetryBackoff    = time.Second
	DefaultMaxRetryBackoff = 30 * time.Second
)

type options struct {
	backoff    time.Duration
	maxBackoff time.Duration
}

type Option func(*options)

// WithRetryBackoff sets the first wait between attempts on a transient
// error and the cap it doubles up to.
func WithRetryBackoff(initial, ceiling time.Duration) Option {
	return func(o *options) {
		o.backoff = initial
		o.maxBackoff = ceiling
	}
}

// Run fetches messages until ctx is cancelled. A message is committed once
// it is handled or fails permanently. Transient failures retry the same
// message, since committing a later offset would skip it.
func Run(ctx context.Context, reader MessageReader, name string, handle HandlerFunc, logger *zap.Logger, opts ...Option) {
	o := options{backoff: DefaultRetryBackoff, maxBackoff: DefaultMaxRetryBackoff}
	for _, opt := range opts {
		opt(&o)
	}

	log := logger.Named("kafka.consumer." + name)
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if !handleWithRetry(ctx, msg, handle, o, log) {
			log.Info("consumer stopped")
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Error(err))
		}
	}
}

// handleWithRetry returns false when ctx ends before msg is settled.
func handleWithRetry(ctx context.Context, msg kafkago.Message, handle HandlerFunc, o options, log *zap.Logger) bool {
	wait := o.backoff
	for attempt := 1; ; attempt++ {
		err := handle(ctx, msg)
		if err == nil {
			return true
		}
		if IsPermanent(err) {
			log.Warn("skipping message",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			return true
		}

		log.Error("handle message failed",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		if wait *= 2; wait > o.maxBackoff {
			wait = o.maxBackoff
		}
	}
}
