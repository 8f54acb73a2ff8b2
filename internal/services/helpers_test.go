package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/soniarr234/fitlover-back/internal/events"
	"github.com/soniarr234/fitlover-back/internal/models"
	"github.com/soniarr234/fitlover-back/internal/repository"
	"github.com/soniarr234/fitlover-back/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

const (
	ownerID    int64 = 1
	strangerID int64 = 2
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.RoutineEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.RoutineEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]events.Type, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.Type)
	}
	return types
}

type fixture struct {
	store       *memory.Store
	publisher   *recordingPublisher
	routines    *RoutineService
	composition *CompositionService
	catalog     *CatalogService
	exercises   []models.Exercise
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	ctx := context.Background()

	var seeded []models.Exercise
	for _, input := range []repository.CreateExerciseInput{
		{Name: "Sentadilla", Muscles: []string{"quadriceps", "glutes"}},
		{Name: "Press banca", Muscles: []string{"chest", "triceps"}},
		{Name: "Dominadas", Muscles: []string{"back", "biceps"}},
		{Name: "Plancha", Muscles: []string{"core"}},
	} {
		exercise, err := store.Exercises().Create(ctx, input)
		require.NoError(t, err)
		seeded = append(seeded, *exercise)
	}

	publisher := &recordingPublisher{}
	catalog := NewCatalogService(store.Exercises(), nil, nil)
	return &fixture{
		store:       store,
		publisher:   publisher,
		routines:    NewRoutineService(store, publisher, nil),
		composition: NewCompositionService(store, catalog, publisher, nil),
		catalog:     catalog,
		exercises:   seeded,
	}
}

func (f *fixture) routine(t *testing.T, userID int64, name string) *models.Routine {
	t.Helper()
	routine, err := f.routines.Create(context.Background(), userID, name)
	require.NoError(t, err)
	return routine
}

func (f *fixture) exerciseID(i int) int64 {
	return f.exercises[i].ID
}

func positions(entries []models.RoutineEntryDetail) map[int64]int {
	byExercise := make(map[int64]int, len(entries))
	for _, entry := range entries {
		byExercise[entry.ExerciseID] = entry.Position
	}
	return byExercise
}

func exerciseOrder(entries []models.RoutineEntryDetail) []int64 {
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ExerciseID)
	}
	return ids
}

type failingStore struct {
	repository.Store
	err error
}

func (s failingStore) InTx(context.Context, func(tx repository.Tx) error) error {
	return s.err
}

var errBoom = errors.New("connection reset")
