// Package events carries routine change notifications to Kafka and to live
// websocket sessions of the owning user.
package events

import (
	"context"
	"errors"
	"time"
)

type Type string

const (
	RoutineCreated    Type = "routine.created"
	RoutineRenamed    Type = "routine.renamed"
	RoutineDeleted    Type = "routine.deleted"
	RoutinesReordered Type = "routine.reordered"
	EntryAdded        Type = "routine.entry_added"
	EntryRemoved      Type = "routine.entry_removed"
	EntriesReordered  Type = "routine.entries_reordered"
)

// RoutineEvent is emitted after a routine mutation has committed.
type RoutineEvent struct {
	Type       Type      `json:"type"`
	UserID     int64     `json:"user_id"`
	RoutineID  int64     `json:"routine_id,omitempty"`
	ExerciseID int64     `json:"exercise_id,omitempty"`
	Position   int       `json:"position,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event RoutineEvent) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, RoutineEvent) error { return nil }

// MultiPublisher delivers to every publisher and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, event RoutineEvent) error {
	var errs []error
	for _, publisher := range m {
		if publisher == nil {
			continue
		}
		if err := publisher.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
