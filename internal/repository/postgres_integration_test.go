//go:build integration

package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/soniarr234/fitlover-back/internal/models"
	"github.com/soniarr234/fitlover-back/internal/repository"
	"github.com/soniarr234/fitlover-back/internal/services"
)

type pgFixture struct {
	store       *repository.PgStore
	routines    *services.RoutineService
	composition *services.CompositionService
	catalog     *services.CatalogService
	userID      int64
	exercises   []int64
}

func newPgFixture(t *testing.T) *pgFixture {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("fitlover"),
		postgrescontainer.WithUsername("fitlover"),
		postgrescontainer.WithPassword("fitlover"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile(migrationPath(t, "000001_init_schema.up.sql"))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	store := repository.NewPgStore(pool)
	user := &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x"}
	require.NoError(t, store.Users().CreateUser(ctx, user))

	catalog := services.NewCatalogService(store.Exercises(), nil, nil)
	fx := &pgFixture{
		store:       store,
		routines:    services.NewRoutineService(store, nil, nil),
		composition: services.NewCompositionService(store, catalog, nil, nil),
		catalog:     catalog,
		userID:      user.ID,
	}
	for _, name := range []string{"Sentadilla", "Press banca", "Remo", "Plancha"} {
		exercise, err := catalog.Create(ctx, services.CreateExerciseInput{Name: name, Muscles: []string{"core"}})
		require.NoError(t, err)
		fx.exercises = append(fx.exercises, exercise.ID)
	}
	return fx
}

func migrationPath(t *testing.T, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations", name)
}

func positions(t *testing.T, fx *pgFixture, routineID int64) map[int64]int {
	t.Helper()
	entries, err := fx.composition.ListEntries(context.Background(), fx.userID, routineID)
	require.NoError(t, err)
	out := make(map[int64]int, len(entries))
	for _, entry := range entries {
		out[entry.ExerciseID] = entry.Position
	}
	return out
}

func TestPostgresSwapCommitsThroughDeferredConstraint(t *testing.T) {
	fx := newPgFixture(t)
	ctx := context.Background()

	routine, err := fx.routines.Create(ctx, fx.userID, "Lunes")
	require.NoError(t, err)
	a, b := fx.exercises[0], fx.exercises[1]
	_, err = fx.composition.AddEntry(ctx, fx.userID, routine.ID, a)
	require.NoError(t, err)
	_, err = fx.composition.AddEntry(ctx, fx.userID, routine.ID, b)
	require.NoError(t, err)

	err = fx.composition.ReorderEntries(ctx, fx.userID, routine.ID, services.EntryOrder{
		{ExerciseID: a, Position: 2},
		{ExerciseID: b, Position: 1},
	})
	require.NoError(t, err)
	require.Equal(t, map[int64]int{a: 2, b: 1}, positions(t, fx, routine.ID))
}

func TestPostgresCollidingReorderRollsBack(t *testing.T) {
	fx := newPgFixture(t)
	ctx := context.Background()

	routine, err := fx.routines.Create(ctx, fx.userID, "Martes")
	require.NoError(t, err)
	a, b, c := fx.exercises[0], fx.exercises[1], fx.exercises[2]
	for _, id := range []int64{a, b, c} {
		_, err = fx.composition.AddEntry(ctx, fx.userID, routine.ID, id)
		require.NoError(t, err)
	}

	// a moves onto c's position while c keeps it.
	err = fx.composition.ReorderEntries(ctx, fx.userID, routine.ID, services.EntryOrder{
		{ExerciseID: a, Position: 3},
	})
	require.ErrorIs(t, err, services.ErrConflict)
	require.Equal(t, map[int64]int{a: 1, b: 2, c: 3}, positions(t, fx, routine.ID))
}

func TestPostgresConcurrentAddsGetDistinctPositions(t *testing.T) {
	fx := newPgFixture(t)
	ctx := context.Background()

	routine, err := fx.routines.Create(ctx, fx.userID, "Miercoles")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, len(fx.exercises))
	for _, id := range fx.exercises {
		wg.Add(1)
		go func(exerciseID int64) {
			defer wg.Done()
			_, err := fx.composition.AddEntry(ctx, fx.userID, routine.ID, exerciseID)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	seen := map[int]bool{}
	for _, position := range positions(t, fx, routine.ID) {
		require.False(t, seen[position], "duplicate position %d", position)
		seen[position] = true
	}
	for want := 1; want <= len(fx.exercises); want++ {
		require.True(t, seen[want], "missing position %d", want)
	}
}

func TestPostgresDeleteCascadesEntries(t *testing.T) {
	fx := newPgFixture(t)
	ctx := context.Background()

	routine, err := fx.routines.Create(ctx, fx.userID, "Jueves")
	require.NoError(t, err)
	_, err = fx.composition.AddEntry(ctx, fx.userID, routine.ID, fx.exercises[0])
	require.NoError(t, err)
	_, err = fx.composition.AddEntry(ctx, fx.userID, routine.ID, fx.exercises[1])
	require.NoError(t, err)

	require.NoError(t, fx.catalog.Delete(ctx, fx.exercises[0]))
	require.Equal(t, map[int64]int{fx.exercises[1]: 2}, positions(t, fx, routine.ID))

	require.NoError(t, fx.routines.Delete(ctx, fx.userID, routine.ID))
	_, err = fx.composition.ListEntries(ctx, fx.userID, routine.ID)
	require.ErrorIs(t, err, services.ErrNotFound)
}

func TestPostgresDuplicateNamesAndMembershipConflict(t *testing.T) {
	fx := newPgFixture(t)
	ctx := context.Background()

	routine, err := fx.routines.Create(ctx, fx.userID, "Viernes")
	require.NoError(t, err)
	_, err = fx.routines.Create(ctx, fx.userID, "Viernes")
	require.ErrorIs(t, err, services.ErrConflict)

	_, err = fx.composition.AddEntry(ctx, fx.userID, routine.ID, fx.exercises[0])
	require.NoError(t, err)
	_, err = fx.composition.AddEntry(ctx, fx.userID, routine.ID, fx.exercises[0])
	require.ErrorIs(t, err, services.ErrConflict)

	_, err = fx.composition.AddEntry(ctx, fx.userID, routine.ID, 999999)
	require.True(t, errors.Is(err, services.ErrNotFound), "got %v", err)
}
