// Package memory provides an in-process repository.Store for local
// development and tests. Every transaction runs behind one mutex and is rolled
// back by restoring a snapshot, so the Postgres guarantees the services rely on
// (row locks, deferred uniqueness, cascades) hold here as well.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/soniarr234/fitlover-back/internal/models"
	"github.com/soniarr234/fitlover-back/internal/repository"
)

type state struct {
	nextID    int64
	users     map[int64]models.User
	exercises map[int64]models.Exercise
	routines  map[int64]models.Routine
	entries   map[int64]models.RoutineEntry
}

func newState() *state {
	return &state{
		users:     make(map[int64]models.User),
		exercises: make(map[int64]models.Exercise),
		routines:  make(map[int64]models.Routine),
		entries:   make(map[int64]models.RoutineEntry),
	}
}

func (s *state) clone() *state {
	out := &state{
		nextID:    s.nextID,
		users:     make(map[int64]models.User, len(s.users)),
		exercises: make(map[int64]models.Exercise, len(s.exercises)),
		routines:  make(map[int64]models.Routine, len(s.routines)),
		entries:   make(map[int64]models.RoutineEntry, len(s.entries)),
	}
	for id, user := range s.users {
		out.users[id] = user
	}
	for id, exercise := range s.exercises {
		exercise.Muscles = append([]string(nil), exercise.Muscles...)
		out.exercises[id] = exercise
	}
	for id, routine := range s.routines {
		out.routines[id] = routine
	}
	for id, entry := range s.entries {
		out.entries[id] = entry
	}
	return out
}

func (s *state) newID() int64 {
	s.nextID++
	return s.nextID
}

// Store implements repository.Store.
type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

func (s *Store) InTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(view{state: working}); err != nil {
		return err
	}
	if err := working.checkDeferred(); err != nil {
		return err
	}
	s.state = working
	return nil
}

func (s *Store) Users() repository.UserStore {
	return userStore{store: s}
}

func (s *Store) Exercises() repository.ExerciseStore {
	return exerciseStore{store: s}
}

func (s *Store) Routines() repository.RoutineStore {
	return routineStore{store: s}
}

func (s *Store) Entries() repository.RoutineEntryStore {
	return entryStore{store: s}
}

// autocommit runs fn as a single statement transaction.
func (s *Store) autocommit(ctx context.Context, fn func(v view) error) error {
	return s.InTx(ctx, func(tx repository.Tx) error {
		return fn(tx.(view))
	})
}

// checkDeferred mirrors the DEFERRABLE unique constraint on
// routine_exercises (routine_id, position).
func (s *state) checkDeferred() error {
	seen := make(map[[2]int64]struct{}, len(s.entries))
	for _, entry := range s.entries {
		key := [2]int64{entry.RoutineID, int64(entry.Position)}
		if _, dup := seen[key]; dup {
			return uniqueViolation("routine_exercises_routine_position_key")
		}
		seen[key] = struct{}{}
	}
	return nil
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{
		Code:           repository.UniqueViolation,
		ConstraintName: constraint,
		Message:        fmt.Sprintf("duplicate key value violates unique constraint %q", constraint),
	}
}

func foreignKeyViolation(constraint string) error {
	return &pgconn.PgError{
		Code:           repository.ForeignKeyViolation,
		ConstraintName: constraint,
		Message:        fmt.Sprintf("insert or update violates foreign key constraint %q", constraint),
	}
}

// view is a transaction-scoped handle over a working copy of the state.
type view struct {
	state *state
}

func (v view) Users() repository.UserStore { return v }
func (v view) Exercises() repository.ExerciseStore { return exerciseView(v) }
func (v view) Routines() repository.RoutineStore { return routineView(v) }
func (v view) Entries() repository.RoutineEntryStore { return entryView(v) }

func now() time.Time {
	return time.Now().UTC()
}

// users

func (v view) CreateUser(_ context.Context, user *models.User) error {
	for _, existing := range v.state.users {
		if existing.Email == user.Email {
			return uniqueViolation("users_email_key")
		}
	}
	user.ID = v.state.newID()
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	v.state.users[user.ID] = *user
	return nil
}

func (v view) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range v.state.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (v view) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := v.state.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

// exercises

type exerciseView view

func (v exerciseView) List(_ context.Context, limit, offset int) ([]models.Exercise, error) {
	all := make([]models.Exercise, 0, len(v.state.exercises))
	for _, exercise := range v.state.exercises {
		all = append(all, exercise)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	if offset >= len(all) {
		return []models.Exercise{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (v exerciseView) Count(_ context.Context) (int, error) {
	return len(v.state.exercises), nil
}

func (v exerciseView) GetByID(_ context.Context, id int64) (*models.Exercise, error) {
	exercise, ok := v.state.exercises[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &exercise, nil
}

func (v exerciseView) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := v.state.exercises[id]
	return ok, nil
}

func (v exerciseView) Create(_ context.Context, input repository.CreateExerciseInput) (*models.Exercise, error) {
	exercise := models.Exercise{
		ID:          v.state.newID(),
		Name:        input.Name,
		Muscles:     repository.DecodeMuscles(repository.EncodeMuscles(input.Muscles)),
		Description: input.Description,
		Notes:       input.Notes,
		MediaURL:    input.MediaURL,
		CreatedAt:   now(),
	}
	v.state.exercises[exercise.ID] = exercise
	return &exercise, nil
}

func (v exerciseView) UpdateNotes(_ context.Context, id int64, notes *string) (*models.Exercise, error) {
	exercise, ok := v.state.exercises[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	exercise.Notes = notes
	v.state.exercises[id] = exercise
	return &exercise, nil
}

func (v exerciseView) UpdateMediaURL(_ context.Context, id int64, mediaURL string) (*models.Exercise, error) {
	exercise, ok := v.state.exercises[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	exercise.MediaURL = &mediaURL
	v.state.exercises[id] = exercise
	return &exercise, nil
}

func (v exerciseView) Delete(_ context.Context, id int64) error {
	if _, ok := v.state.exercises[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(v.state.exercises, id)
	for entryID, entry := range v.state.entries {
		if entry.ExerciseID == id {
			delete(v.state.entries, entryID)
		}
	}
	return nil
}

// routines

type routineView view

// LockUser is a no-op: the store mutex already serializes transactions.
func (v routineView) LockUser(context.Context, int64) error { return nil }

func (v routineView) Create(_ context.Context, input repository.CreateRoutineInput) (*models.Routine, error) {
	for _, existing := range v.state.routines {
		if existing.UserID == input.UserID && existing.Name == input.Name {
			return nil, uniqueViolation("routines_user_id_name_key")
		}
	}
	routine := models.Routine{
		ID:           v.state.newID(),
		UserID:       input.UserID,
		Name:         input.Name,
		DisplayOrder: input.DisplayOrder,
		CreatedAt:    now(),
	}
	v.state.routines[routine.ID] = routine
	return &routine, nil
}

func (v routineView) ExistsByName(_ context.Context, userID int64, name string, excludeID int64) (bool, error) {
	for _, routine := range v.state.routines {
		if routine.UserID == userID && routine.Name == name && routine.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (v routineView) MaxDisplayOrder(_ context.Context, userID int64) (int, error) {
	maxOrder := 0
	for _, routine := range v.state.routines {
		if routine.UserID == userID && routine.DisplayOrder > maxOrder {
			maxOrder = routine.DisplayOrder
		}
	}
	return maxOrder, nil
}

func (v routineView) ListByUserID(_ context.Context, userID int64) ([]models.Routine, error) {
	routines := make([]models.Routine, 0)
	for _, routine := range v.state.routines {
		if routine.UserID == userID {
			routines = append(routines, routine)
		}
	}
	sort.Slice(routines, func(i, j int) bool {
		if routines[i].DisplayOrder != routines[j].DisplayOrder {
			return routines[i].DisplayOrder < routines[j].DisplayOrder
		}
		return routines[i].ID < routines[j].ID
	})
	return routines, nil
}

func (v routineView) GetByID(_ context.Context, userID, routineID int64) (*models.Routine, error) {
	routine, ok := v.state.routines[routineID]
	if !ok || routine.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	return &routine, nil
}

func (v routineView) GetByIDForUpdate(ctx context.Context, userID, routineID int64) (*models.Routine, error) {
	return v.GetByID(ctx, userID, routineID)
}

func (v routineView) UpdateName(_ context.Context, userID, routineID int64, name string) (*models.Routine, error) {
	routine, ok := v.state.routines[routineID]
	if !ok || routine.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	for _, existing := range v.state.routines {
		if existing.ID != routineID && existing.UserID == userID && existing.Name == name {
			return nil, uniqueViolation("routines_user_id_name_key")
		}
	}
	routine.Name = name
	v.state.routines[routineID] = routine
	return &routine, nil
}

func (v routineView) UpdateDisplayOrder(_ context.Context, userID, routineID int64, displayOrder int) (bool, error) {
	routine, ok := v.state.routines[routineID]
	if !ok || routine.UserID != userID {
		return false, nil
	}
	routine.DisplayOrder = displayOrder
	v.state.routines[routineID] = routine
	return true, nil
}

func (v routineView) Delete(_ context.Context, userID, routineID int64) error {
	routine, ok := v.state.routines[routineID]
	if !ok || routine.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(v.state.routines, routineID)
	for entryID, entry := range v.state.entries {
		if entry.RoutineID == routineID {
			delete(v.state.entries, entryID)
		}
	}
	return nil
}

// routine entries

type entryView view

func (v entryView) Exists(_ context.Context, routineID, exerciseID int64) (bool, error) {
	_, ok := v.find(routineID, exerciseID)
	return ok, nil
}

func (v entryView) MaxPosition(_ context.Context, routineID int64) (int, error) {
	maxPosition := 0
	for _, entry := range v.state.entries {
		if entry.RoutineID == routineID && entry.Position > maxPosition {
			maxPosition = entry.Position
		}
	}
	return maxPosition, nil
}

func (v entryView) Create(_ context.Context, input repository.CreateRoutineEntryInput) (*models.RoutineEntry, error) {
	if _, ok := v.find(input.RoutineID, input.ExerciseID); ok {
		return nil, uniqueViolation("routine_exercises_routine_id_exercise_id_key")
	}
	if _, ok := v.state.routines[input.RoutineID]; !ok {
		return nil, foreignKeyViolation("routine_exercises_routine_id_fkey")
	}
	if _, ok := v.state.exercises[input.ExerciseID]; !ok {
		return nil, foreignKeyViolation("routine_exercises_exercise_id_fkey")
	}
	entry := models.RoutineEntry{
		ID:         v.state.newID(),
		RoutineID:  input.RoutineID,
		ExerciseID: input.ExerciseID,
		UserID:     input.UserID,
		Position:   input.Position,
		CreatedAt:  now(),
	}
	v.state.entries[entry.ID] = entry
	return &entry, nil
}

func (v entryView) Delete(_ context.Context, userID, routineID, exerciseID int64) error {
	entry, ok := v.find(routineID, exerciseID)
	if !ok || entry.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(v.state.entries, entry.ID)
	return nil
}

func (v entryView) DeleteByRoutineID(_ context.Context, routineID int64) (int64, error) {
	var removed int64
	for entryID, entry := range v.state.entries {
		if entry.RoutineID == routineID {
			delete(v.state.entries, entryID)
			removed++
		}
	}
	return removed, nil
}

func (v entryView) UpdatePosition(_ context.Context, routineID, exerciseID int64, position int) error {
	entry, ok := v.find(routineID, exerciseID)
	if !ok {
		return pgx.ErrNoRows
	}
	entry.Position = position
	v.state.entries[entry.ID] = entry
	return nil
}

func (v entryView) ListDetailedByRoutineID(_ context.Context, routineID int64) ([]models.RoutineEntryDetail, error) {
	details := make([]models.RoutineEntryDetail, 0)
	for _, entry := range v.state.entries {
		if entry.RoutineID != routineID {
			continue
		}
		exercise, ok := v.state.exercises[entry.ExerciseID]
		if !ok {
			continue
		}
		details = append(details, models.RoutineEntryDetail{RoutineEntry: entry, Exercise: exercise})
	}
	sort.Slice(details, func(i, j int) bool {
		if details[i].Position != details[j].Position {
			return details[i].Position < details[j].Position
		}
		return details[i].ID < details[j].ID
	})
	return details, nil
}

func (v entryView) find(routineID, exerciseID int64) (models.RoutineEntry, bool) {
	for _, entry := range v.state.entries {
		if entry.RoutineID == routineID && entry.ExerciseID == exerciseID {
			return entry, true
		}
	}
	return models.RoutineEntry{}, false
}

// Seed loads a starter catalog so a fresh dev server has something to add.
func (s *Store) Seed(ctx context.Context, exercises []repository.CreateExerciseInput) error {
	return s.autocommit(ctx, func(v view) error {
		for _, input := range exercises {
			input.Name = strings.TrimSpace(input.Name)
			if _, err := exerciseView(v).Create(ctx, input); err != nil {
				return err
			}
		}
		return nil
	})
}
