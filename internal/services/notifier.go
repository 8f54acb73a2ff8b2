package services

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/soniarr234/fitlover-back/internal/events"
	"github.com/soniarr234/fitlover-back/internal/observability"
)

// notifier publishes committed routine changes and records operation metrics.
// Delivery failures are logged and counted; the mutation has already
// committed and is not undone.
type notifier struct {
	publisher events.Publisher
	logger    logrus.FieldLogger
	now       func() time.Time
}

func newNotifier(publisher events.Publisher, logger logrus.FieldLogger) notifier {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return notifier{publisher: publisher, logger: orDiscard(logger), now: time.Now}
}

func orDiscard(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger != nil {
		return logger
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return discard
}

func (n notifier) emit(ctx context.Context, event events.RoutineEvent) {
	event.OccurredAt = n.now().UTC()
	observability.RecordRoutineMutation(event.OccurredAt)

	if err := n.publisher.Publish(ctx, event); err != nil {
		observability.RecordEventPublishFailure(string(event.Type))
		n.logger.WithFields(logrus.Fields{
			"event":      event.Type,
			"user_id":    event.UserID,
			"routine_id": event.RoutineID,
		}).WithError(err).Warn("routine event delivery failed")
	}
}

func (n notifier) observe(operation string, start time.Time, err *error) {
	observability.RecordOperation(operation, outcome(*err), time.Since(start))
}
