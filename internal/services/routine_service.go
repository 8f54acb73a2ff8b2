package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/soniarr234/fitlover-back/internal/events"
	"github.com/soniarr234/fitlover-back/internal/models"
	"github.com/soniarr234/fitlover-back/internal/repository"
)

const maxRoutineNameLength = 100

// RoutineService is the routine registry: lifecycle and display order of a
// user's routines. Display order changes for one user are serialized by a
// per-user lock held for the whole transaction.
type RoutineService struct {
	store repository.Store
	notifier
}

func NewRoutineService(store repository.Store, publisher events.Publisher, logger logrus.FieldLogger) *RoutineService {
	return &RoutineService{store: store, notifier: newNotifier(publisher, logger)}
}

func (s *RoutineService) Create(ctx context.Context, userID int64, name string) (routine *models.Routine, err error) {
	defer s.observe("create_routine", time.Now(), &err)

	name, err = normalizeRoutineName(name)
	if err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, ErrInvalidInput
	}

	err = s.store.InTx(ctx, func(tx repository.Tx) error {
		routines := tx.Routines()
		if err := routines.LockUser(ctx, userID); err != nil {
			return err
		}

		taken, err := routines.ExistsByName(ctx, userID, name, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}

		maxOrder, err := routines.MaxDisplayOrder(ctx, userID)
		if err != nil {
			return err
		}

		routine, err = routines.Create(ctx, repository.CreateRoutineInput{
			UserID:       userID,
			Name:         name,
			DisplayOrder: maxOrder + 1,
		})
		return err
	})
	if err != nil {
		return nil, translateStoreError("create routine", err)
	}

	s.emit(ctx, events.RoutineEvent{Type: events.RoutineCreated, UserID: userID, RoutineID: routine.ID})
	return routine, nil
}

func (s *RoutineService) List(ctx context.Context, userID int64) (routines []models.Routine, err error) {
	defer s.observe("list_routines", time.Now(), &err)

	routines, err = s.store.Routines().ListByUserID(ctx, userID)
	if err != nil {
		return nil, translateStoreError("list routines", err)
	}
	if routines == nil {
		routines = []models.Routine{}
	}
	return routines, nil
}

func (s *RoutineService) Get(ctx context.Context, userID, routineID int64) (routine *models.Routine, err error) {
	defer s.observe("get_routine", time.Now(), &err)

	routine, err = s.store.Routines().GetByID(ctx, userID, routineID)
	if err != nil {
		return nil, translateStoreError("get routine", err)
	}
	return routine, nil
}

func (s *RoutineService) Rename(ctx context.Context, userID, routineID int64, name string) (routine *models.Routine, err error) {
	defer s.observe("rename_routine", time.Now(), &err)

	name, err = normalizeRoutineName(name)
	if err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx repository.Tx) error {
		routines := tx.Routines()
		if err := routines.LockUser(ctx, userID); err != nil {
			return err
		}
		if _, err := routines.GetByIDForUpdate(ctx, userID, routineID); err != nil {
			return err
		}

		taken, err := routines.ExistsByName(ctx, userID, name, routineID)
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}

		routine, err = routines.UpdateName(ctx, userID, routineID, name)
		return err
	})
	if err != nil {
		return nil, translateStoreError("rename routine", err)
	}

	s.emit(ctx, events.RoutineEvent{Type: events.RoutineRenamed, UserID: userID, RoutineID: routineID})
	return routine, nil
}

// Delete removes the routine and its entries in one transaction. Display
// orders of the remaining routines are left as they are.
func (s *RoutineService) Delete(ctx context.Context, userID, routineID int64) (err error) {
	defer s.observe("delete_routine", time.Now(), &err)

	err = s.store.InTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.Routines().GetByIDForUpdate(ctx, userID, routineID); err != nil {
			return err
		}
		if _, err := tx.Entries().DeleteByRoutineID(ctx, routineID); err != nil {
			return err
		}
		return tx.Routines().Delete(ctx, userID, routineID)
	})
	if err != nil {
		return translateStoreError("delete routine", err)
	}

	s.emit(ctx, events.RoutineEvent{Type: events.RoutineDeleted, UserID: userID, RoutineID: routineID})
	return nil
}

// Reorder assigns display order i+1 to order[i]. Ids the user does not own
// are skipped; the count of routines actually updated is returned.
func (s *RoutineService) Reorder(ctx context.Context, userID int64, order RoutineOrder) (updated int, err error) {
	defer s.observe("reorder_routines", time.Now(), &err)

	if err := order.Validate(); err != nil {
		return 0, err
	}
	if len(order) == 0 {
		return 0, nil
	}

	err = s.store.InTx(ctx, func(tx repository.Tx) error {
		routines := tx.Routines()
		if err := routines.LockUser(ctx, userID); err != nil {
			return err
		}

		updated = 0
		for i, routineID := range order {
			if routineID <= 0 {
				continue
			}
			ok, err := routines.UpdateDisplayOrder(ctx, userID, routineID, i+1)
			if err != nil {
				return err
			}
			if ok {
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return 0, translateStoreError("reorder routines", err)
	}

	if updated > 0 {
		s.emit(ctx, events.RoutineEvent{Type: events.RoutinesReordered, UserID: userID})
	}
	return updated, nil
}

func normalizeRoutineName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxRoutineNameLength {
		return "", ErrInvalidInput
	}
	return name, nil
}
