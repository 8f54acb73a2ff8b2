package memory

import (
	"context"

	"github.com/soniarr234/fitlover-back/internal/models"
	"github.com/soniarr234/fitlover-back/internal/repository"
)

func run[T any](ctx context.Context, s *Store, fn func(v view) (T, error)) (T, error) {
	var out T
	err := s.autocommit(ctx, func(v view) error {
		var err error
		out, err = fn(v)
		return err
	})
	return out, err
}

type userStore struct{ store *Store }

func (u userStore) CreateUser(ctx context.Context, user *models.User) error {
	return u.store.autocommit(ctx, func(v view) error { return v.CreateUser(ctx, user) })
}

func (u userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return run(ctx, u.store, func(v view) (*models.User, error) { return v.GetByEmail(ctx, email) })
}

func (u userStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return run(ctx, u.store, func(v view) (*models.User, error) { return v.GetByID(ctx, id) })
}

type exerciseStore struct{ store *Store }

func (e exerciseStore) List(ctx context.Context, limit, offset int) ([]models.Exercise, error) {
	return run(ctx, e.store, func(v view) ([]models.Exercise, error) {
		return exerciseView(v).List(ctx, limit, offset)
	})
}

func (e exerciseStore) Count(ctx context.Context) (int, error) {
	return run(ctx, e.store, func(v view) (int, error) { return exerciseView(v).Count(ctx) })
}

func (e exerciseStore) GetByID(ctx context.Context, id int64) (*models.Exercise, error) {
	return run(ctx, e.store, func(v view) (*models.Exercise, error) { return exerciseView(v).GetByID(ctx, id) })
}

func (e exerciseStore) Exists(ctx context.Context, id int64) (bool, error) {
	return run(ctx, e.store, func(v view) (bool, error) { return exerciseView(v).Exists(ctx, id) })
}

func (e exerciseStore) Create(ctx context.Context, input repository.CreateExerciseInput) (*models.Exercise, error) {
	return run(ctx, e.store, func(v view) (*models.Exercise, error) { return exerciseView(v).Create(ctx, input) })
}

func (e exerciseStore) UpdateNotes(ctx context.Context, id int64, notes *string) (*models.Exercise, error) {
	return run(ctx, e.store, func(v view) (*models.Exercise, error) {
		return exerciseView(v).UpdateNotes(ctx, id, notes)
	})
}

func (e exerciseStore) UpdateMediaURL(ctx context.Context, id int64, mediaURL string) (*models.Exercise, error) {
	return run(ctx, e.store, func(v view) (*models.Exercise, error) {
		return exerciseView(v).UpdateMediaURL(ctx, id, mediaURL)
	})
}

func (e exerciseStore) Delete(ctx context.Context, id int64) error {
	return e.store.autocommit(ctx, func(v view) error { return exerciseView(v).Delete(ctx, id) })
}

type routineStore struct{ store *Store }

func (r routineStore) LockUser(context.Context, int64) error { return nil }

func (r routineStore) Create(ctx context.Context, input repository.CreateRoutineInput) (*models.Routine, error) {
	return run(ctx, r.store, func(v view) (*models.Routine, error) { return routineView(v).Create(ctx, input) })
}

func (r routineStore) ExistsByName(ctx context.Context, userID int64, name string, excludeID int64) (bool, error) {
	return run(ctx, r.store, func(v view) (bool, error) {
		return routineView(v).ExistsByName(ctx, userID, name, excludeID)
	})
}

func (r routineStore) MaxDisplayOrder(ctx context.Context, userID int64) (int, error) {
	return run(ctx, r.store, func(v view) (int, error) { return routineView(v).MaxDisplayOrder(ctx, userID) })
}

func (r routineStore) ListByUserID(ctx context.Context, userID int64) ([]models.Routine, error) {
	return run(ctx, r.store, func(v view) ([]models.Routine, error) { return routineView(v).ListByUserID(ctx, userID) })
}

func (r routineStore) GetByID(ctx context.Context, userID, routineID int64) (*models.Routine, error) {
	return run(ctx, r.store, func(v view) (*models.Routine, error) {
		return routineView(v).GetByID(ctx, userID, routineID)
	})
}

func (r routineStore) GetByIDForUpdate(ctx context.Context, userID, routineID int64) (*models.Routine, error) {
	return r.GetByID(ctx, userID, routineID)
}

func (r routineStore) UpdateName(ctx context.Context, userID, routineID int64, name string) (*models.Routine, error) {
	return run(ctx, r.store, func(v view) (*models.Routine, error) {
		return routineView(v).UpdateName(ctx, userID, routineID, name)
	})
}

func (r routineStore) UpdateDisplayOrder(ctx context.Context, userID, routineID int64, displayOrder int) (bool, error) {
	return run(ctx, r.store, func(v view) (bool, error) {
		return routineView(v).UpdateDisplayOrder(ctx, userID, routineID, displayOrder)
	})
}

func (r routineStore) Delete(ctx context.Context, userID, routineID int64) error {
	return r.store.autocommit(ctx, func(v view) error { return routineView(v).Delete(ctx, userID, routineID) })
}

type entryStore struct{ store *Store }

func (e entryStore) Exists(ctx context.Context, routineID, exerciseID int64) (bool, error) {
	return run(ctx, e.store, func(v view) (bool, error) { return entryView(v).Exists(ctx, routineID, exerciseID) })
}

func (e entryStore) MaxPosition(ctx context.Context, routineID int64) (int, error) {
	return run(ctx, e.store, func(v view) (int, error) { return entryView(v).MaxPosition(ctx, routineID) })
}

func (e entryStore) Create(ctx context.Context, input repository.CreateRoutineEntryInput) (*models.RoutineEntry, error) {
	return run(ctx, e.store, func(v view) (*models.RoutineEntry, error) { return entryView(v).Create(ctx, input) })
}

func (e entryStore) Delete(ctx context.Context, userID, routineID, exerciseID int64) error {
	return e.store.autocommit(ctx, func(v view) error {
		return entryView(v).Delete(ctx, userID, routineID, exerciseID)
	})
}

func (e entryStore) DeleteByRoutineID(ctx context.Context, routineID int64) (int64, error) {
	return run(ctx, e.store, func(v view) (int64, error) { return entryView(v).DeleteByRoutineID(ctx, routineID) })
}

func (e entryStore) UpdatePosition(ctx context.Context, routineID, exerciseID int64, position int) error {
	return e.store.autocommit(ctx, func(v view) error {
		return entryView(v).UpdatePosition(ctx, routineID, exerciseID, position)
	})
}

func (e entryStore) ListDetailedByRoutineID(ctx context.Context, routineID int64) ([]models.RoutineEntryDetail, error) {
	return run(ctx, e.store, func(v view) ([]models.RoutineEntryDetail, error) {
		return entryView(v).ListDetailedByRoutineID(ctx, routineID)
	})
}
