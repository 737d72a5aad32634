package sqltrail

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sink receives the records derived from one statement, outer statement first,
// and is responsible for assigning identities and persisting them.
type Sink interface {
	Write(ctx context.Context, records []*Metadata) error
}

// SinkFunc adapts an ordinary function to Sink.
type SinkFunc func(ctx context.Context, records []*Metadata) error

func (f SinkFunc) Write(ctx context.Context, records []*Metadata) error { return f(ctx, records) }

type discard struct{}

func (discard) Write(context.Context, []*Metadata) error { return nil }

// LogSink writes one structured log entry per record.
func LogSink(logger *zap.Logger) Sink {
	return SinkFunc(func(_ context.Context, records []*Metadata) error {
		for _, m := range records {
			logger.Info("sqltrail: statement",
				zap.String("id", m.ID()),
				zap.String("operation", string(m.Operation())),
				zap.Strings("tables", m.Tables()),
				zap.String("operator_name", m.Operator().Name),
				zap.String("operator_address", m.Operator().Address),
				zap.Time("operated_at", m.Time()),
			)
		}
		return nil
	})
}

// MultiSink writes to every sink concurrently. Each sink sees the records in order;
// the errors of all failing sinks are joined.
func MultiSink(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, records []*Metadata) error {
		errs := make([]error, len(sinks))
		var g errgroup.Group
		for i, s := range sinks {
			g.Go(func() error {
				errs[i] = s.Write(ctx, records)
				return nil
			})
		}
		_ = g.Wait()
		return errors.Join(errs...)
	})
}
