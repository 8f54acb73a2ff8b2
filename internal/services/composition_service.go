package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/soniarr234/fitlover-back/internal/events"
	"github.com/soniarr234/fitlover-back/internal/models"
	"github.com/soniarr234/fitlover-back/internal/repository"
)

type exerciseChecker interface {
	Exists(ctx context.Context, exerciseID int64) (bool, error)
}

// CompositionService owns the ordered exercise entries of a routine.
//
// Every rank-mutating operation locks the parent routine row, filtered by
// owner, before reading or writing positions. The lock serializes writers on
// the same routine and an unowned routine is indistinguishable from a missing
// one. Positions are unique per routine at commit; removals leave gaps.
type CompositionService struct {
	store   repository.Store
	catalog exerciseChecker
	notifier
}

func NewCompositionService(
	store repository.Store,
	catalog exerciseChecker,
	publisher events.Publisher,
	logger logrus.FieldLogger,
) *CompositionService {
	return &CompositionService{store: store, catalog: catalog, notifier: newNotifier(publisher, logger)}
}

// AddEntry appends the exercise at max(position)+1. Adding an exercise that
// is already part of the routine is a conflict, so retries are not idempotent.
func (s *CompositionService) AddEntry(ctx context.Context, userID, routineID, exerciseID int64) (entry *models.RoutineEntry, err error) {
	defer s.observe("add_entry", time.Now(), &err)

	if routineID <= 0 || exerciseID <= 0 {
		return nil, ErrInvalidInput
	}

	// The foreign key still rejects an exercise deleted after this check.
	exists, err := s.catalog.Exists(ctx, exerciseID)
	if err != nil {
		return nil, translateStoreError("add routine entry", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	err = s.store.InTx(ctx, func(tx repository.Tx) error {
		routine, err := tx.Routines().GetByIDForUpdate(ctx, userID, routineID)
		if err != nil {
			return err
		}

		entries := tx.Entries()
		member, err := entries.Exists(ctx, routineID, exerciseID)
		if err != nil {
			return err
		}
		if member {
			return ErrConflict
		}

		maxPosition, err := entries.MaxPosition(ctx, routineID)
		if err != nil {
			return err
		}

		entry, err = entries.Create(ctx, repository.CreateRoutineEntryInput{
			RoutineID:  routineID,
			ExerciseID: exerciseID,
			UserID:     routine.UserID,
			Position:   maxPosition + 1,
		})
		return err
	})
	if err != nil {
		return nil, translateStoreError("add routine entry", err)
	}

	s.emit(ctx, events.RoutineEvent{
		Type:       events.EntryAdded,
		UserID:     userID,
		RoutineID:  routineID,
		ExerciseID: exerciseID,
		Position:   entry.Position,
	})
	return entry, nil
}

// RemoveEntry deletes the entry without renumbering the ones after it.
func (s *CompositionService) RemoveEntry(ctx context.Context, userID, routineID, exerciseID int64) (err error) {
	defer s.observe("remove_entry", time.Now(), &err)

	err = s.store.InTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.Routines().GetByIDForUpdate(ctx, userID, routineID); err != nil {
			return err
		}
		return tx.Entries().Delete(ctx, userID, routineID, exerciseID)
	})
	if err != nil {
		return translateStoreError("remove routine entry", err)
	}

	s.emit(ctx, events.RoutineEvent{
		Type:       events.EntryRemoved,
		UserID:     userID,
		RoutineID:  routineID,
		ExerciseID: exerciseID,
	})
	return nil
}

// ReorderEntries applies the whole batch or nothing. An assignment for an
// exercise outside the routine fails with ErrNotFound; a batch that leaves
// two entries on one position fails with ErrConflict when it commits.
func (s *CompositionService) ReorderEntries(ctx context.Context, userID, routineID int64, order EntryOrder) (err error) {
	defer s.observe("reorder_entries", time.Now(), &err)

	if err := order.Validate(); err != nil {
		return err
	}

	err = s.store.InTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.Routines().GetByIDForUpdate(ctx, userID, routineID); err != nil {
			return err
		}

		entries := tx.Entries()
		for _, assignment := range order {
			if err := entries.UpdatePosition(ctx, routineID, assignment.ExerciseID, assignment.Position); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translateStoreError("reorder routine entries", err)
	}

	s.emit(ctx, events.RoutineEvent{Type: events.EntriesReordered, UserID: userID, RoutineID: routineID})
	return nil
}

// MoveEntry moves one exercise to position (clamped to the entry count) and
// shifts the others, renumbering the routine densely from 1.
func (s *CompositionService) MoveEntry(ctx context.Context, userID, routineID, exerciseID int64, position int) (err error) {
	defer s.observe("move_entry", time.Now(), &err)

	var placed int
	if exerciseID <= 0 || position < 1 {
		return ErrInvalidInput
	}

	err = s.store.InTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.Routines().GetByIDForUpdate(ctx, userID, routineID); err != nil {
			return err
		}

		entries := tx.Entries()
		current, err := entries.ListDetailedByRoutineID(ctx, routineID)
		if err != nil {
			return err
		}

		ordered := make([]int64, 0, len(current))
		found := false
		for _, detail := range current {
			if detail.ExerciseID == exerciseID {
				found = true
				continue
			}
			ordered = append(ordered, detail.ExerciseID)
		}
		if !found {
			return ErrNotFound
		}

		index := min(position, len(ordered)+1) - 1
		placed = index + 1
		ordered = append(ordered[:index], append([]int64{exerciseID}, ordered[index:]...)...)

		for i, id := range ordered {
			if err := entries.UpdatePosition(ctx, routineID, id, i+1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translateStoreError("move routine entry", err)
	}

	s.emit(ctx, events.RoutineEvent{
		Type:       events.EntriesReordered,
		UserID:     userID,
		RoutineID:  routineID,
		ExerciseID: exerciseID,
		Position:   placed,
	})
	return nil
}

// ListEntries returns the routine's entries with exercise details in
// position order. Reads take no lock.
func (s *CompositionService) ListEntries(ctx context.Context, userID, routineID int64) (entries []models.RoutineEntryDetail, err error) {
	defer s.observe("list_entries", time.Now(), &err)

	if _, err := s.store.Routines().GetByID(ctx, userID, routineID); err != nil {
		return nil, translateStoreError("list routine entries", err)
	}

	entries, err = s.store.Entries().ListDetailedByRoutineID(ctx, routineID)
	if err != nil {
		return nil, translateStoreError("list routine entries", err)
	}
	if entries == nil {
		entries = []models.RoutineEntryDetail{}
	}
	return entries, nil
}
