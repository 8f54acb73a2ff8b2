package services

import (
	"context"
	"strings"
	"testing"

	"github.com/soniarr234/fitlover-back/internal/events"
	"github.com/soniarr234/fitlover-back/internal/models"
	"github.com/stretchr/testify/require"
)

func routineNames(routines []models.Routine) []string {
	names := make([]string, 0, len(routines))
	for _, routine := range routines {
		names = append(names, routine.Name)
	}
	return names
}

func TestCreateRoutineAppendsDisplayOrderPerUser(t *testing.T) {
	f := newFixture(t)

	first := f.routine(t, ownerID, "  Lunes ")
	second := f.routine(t, ownerID, "Martes")
	other := f.routine(t, strangerID, "Lunes")

	require.Equal(t, "Lunes", first.Name)
	require.Equal(t, 1, first.DisplayOrder)
	require.Equal(t, 2, second.DisplayOrder)
	require.Equal(t, 1, other.DisplayOrder)
}

func TestCreateRoutineRejectsDuplicateAndBlankNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.routine(t, ownerID, "Lunes")

	_, err := f.routines.Create(ctx, ownerID, "Lunes")
	require.ErrorIs(t, err, ErrConflict)

	_, err = f.routines.Create(ctx, ownerID, "   ")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.routines.Create(ctx, ownerID, strings.Repeat("x", maxRoutineNameLength+1))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetRoutineOfAnotherUserIsNotFound(t *testing.T) {
	f := newFixture(t)
	routine := f.routine(t, ownerID, "Mía")

	_, err := f.routines.Get(context.Background(), strangerID, routine.ID)
	require.ErrorIs(t, err, ErrNotFound)

	got, err := f.routines.Get(context.Background(), ownerID, routine.ID)
	require.NoError(t, err)
	require.Equal(t, routine.ID, got.ID)
}

func TestReorderRoutinesSkipsForeignIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.routine(t, ownerID, "A")
	b := f.routine(t, ownerID, "B")
	c := f.routine(t, ownerID, "C")
	foreign := f.routine(t, strangerID, "Ajena")

	updated, err := f.routines.Reorder(ctx, ownerID, RoutineOrder{c.ID, foreign.ID, a.ID, 424242, b.ID})
	require.NoError(t, err)
	require.Equal(t, 3, updated)

	list, err := f.routines.List(ctx, ownerID)
	require.NoError(t, err)
	require.Equal(t, []string{"C", "A", "B"}, routineNames(list))

	untouched, err := f.routines.Get(ctx, strangerID, foreign.ID)
	require.NoError(t, err)
	require.Equal(t, 1, untouched.DisplayOrder)

	_, err = f.routines.Reorder(ctx, ownerID, RoutineOrder{a.ID, a.ID})
	require.ErrorIs(t, err, ErrInvalidInput)

	updated, err = f.routines.Reorder(ctx, ownerID, RoutineOrder{})
	require.NoError(t, err)
	require.Zero(t, updated)
}

func TestReorderRoutinesSkipsNonPositiveIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.routine(t, ownerID, "A")
	b := f.routine(t, ownerID, "B")

	updated, err := f.routines.Reorder(ctx, ownerID, RoutineOrder{0, b.ID, -7, a.ID, 0})
	require.NoError(t, err)
	require.Equal(t, 2, updated)

	list, err := f.routines.List(ctx, ownerID)
	require.NoError(t, err)
	require.Equal(t, []string{"B", "A"}, routineNames(list))
	require.Equal(t, 2, list[0].DisplayOrder)
	require.Equal(t, 4, list[1].DisplayOrder)

	updated, err = f.routines.Reorder(ctx, ownerID, RoutineOrder{0, -1})
	require.NoError(t, err)
	require.Zero(t, updated)
}

func TestRenameRoutine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.routine(t, ownerID, "A")
	f.routine(t, ownerID, "B")

	renamed, err := f.routines.Rename(ctx, ownerID, a.ID, "Pecho")
	require.NoError(t, err)
	require.Equal(t, "Pecho", renamed.Name)
	require.Equal(t, a.DisplayOrder, renamed.DisplayOrder)

	_, err = f.routines.Rename(ctx, ownerID, a.ID, "B")
	require.ErrorIs(t, err, ErrConflict)

	_, err = f.routines.Rename(ctx, ownerID, a.ID, "Pecho")
	require.NoError(t, err)

	_, err = f.routines.Rename(ctx, strangerID, a.ID, "Robada")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRoutineKeepsOtherDisplayOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.routine(t, ownerID, "A")
	b := f.routine(t, ownerID, "B")
	c := f.routine(t, ownerID, "C")

	require.ErrorIs(t, f.routines.Delete(ctx, strangerID, b.ID), ErrNotFound)
	require.NoError(t, f.routines.Delete(ctx, ownerID, b.ID))
	require.ErrorIs(t, f.routines.Delete(ctx, ownerID, b.ID), ErrNotFound)

	list, err := f.routines.List(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, a.DisplayOrder, list[0].DisplayOrder)
	require.Equal(t, c.DisplayOrder, list[1].DisplayOrder)

	next := f.routine(t, ownerID, "D")
	require.Equal(t, 4, next.DisplayOrder)
}

func TestRoutineEventsCarryTheOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	routine := f.routine(t, ownerID, "A")

	_, err := f.routines.Reorder(ctx, ownerID, RoutineOrder{routine.ID})
	require.NoError(t, err)
	_, err = f.routines.Reorder(ctx, strangerID, RoutineOrder{routine.ID})
	require.NoError(t, err)
	require.NoError(t, f.routines.Delete(ctx, ownerID, routine.ID))

	require.Equal(t, []events.Type{events.RoutineCreated, events.RoutinesReordered, events.RoutineDeleted}, f.publisher.types())
	for _, event := range f.publisher.events {
		require.Equal(t, ownerID, event.UserID)
	}
}

func TestListRoutinesEmptyIsNotNil(t *testing.T) {
	f := newFixture(t)

	list, err := f.routines.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}
