package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/soniarr234/fitlover-back/internal/models"
)

// UniqueViolation is the Postgres SQLSTATE raised by unique and exclusion
// constraints, including deferred ones checked at commit.
const UniqueViolation = "23505"

// ForeignKeyViolation is raised when a referenced row is missing, e.g. an
// exercise deleted between the catalog check and the entry insert.
const ForeignKeyViolation = "23503"

type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type ExerciseStore interface {
	List(ctx context.Context, limit, offset int) ([]models.Exercise, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (*models.Exercise, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, input CreateExerciseInput) (*models.Exercise, error)
	UpdateNotes(ctx context.Context, id int64, notes *string) (*models.Exercise, error)
	UpdateMediaURL(ctx context.Context, id int64, mediaURL string) (*models.Exercise, error)
	Delete(ctx context.Context, id int64) error
}

type RoutineStore interface {
	LockUser(ctx context.Context, userID int64) error
	Create(ctx context.Context, input CreateRoutineInput) (*models.Routine, error)
	ExistsByName(ctx context.Context, userID int64, name string, excludeID int64) (bool, error)
	MaxDisplayOrder(ctx context.Context, userID int64) (int, error)
	ListByUserID(ctx context.Context, userID int64) ([]models.Routine, error)
	GetByID(ctx context.Context, userID, routineID int64) (*models.Routine, error)
	GetByIDForUpdate(ctx context.Context, userID, routineID int64) (*models.Routine, error)
	UpdateName(ctx context.Context, userID, routineID int64, name string) (*models.Routine, error)
	UpdateDisplayOrder(ctx context.Context, userID, routineID int64, displayOrder int) (bool, error)
	Delete(ctx context.Context, userID, routineID int64) error
}

type RoutineEntryStore interface {
	Exists(ctx context.Context, routineID, exerciseID int64) (bool, error)
	MaxPosition(ctx context.Context, routineID int64) (int, error)
	Create(ctx context.Context, input CreateRoutineEntryInput) (*models.RoutineEntry, error)
	Delete(ctx context.Context, userID, routineID, exerciseID int64) error
	DeleteByRoutineID(ctx context.Context, routineID int64) (int64, error)
	UpdatePosition(ctx context.Context, routineID, exerciseID int64, position int) error
	ListDetailedByRoutineID(ctx context.Context, routineID int64) ([]models.RoutineEntryDetail, error)
}

// Tx exposes every store bound to the same connection or transaction.
type Tx interface {
	Users() UserStore
	Exercises() ExerciseStore
	Routines() RoutineStore
	Entries() RoutineEntryStore
}

// Store is a Tx backed by the pool that can also open transactions. fn runs
// inside one transaction; a non-nil error rolls it back.
type Store interface {
	Tx
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

type repositories struct {
	users     *UserRepository
	exercises *ExerciseRepository
	routines  *RoutineRepository
	entries   *RoutineEntryRepository
}

func newRepositories(db DBTX) repositories {
	return repositories{
		users:     NewUserRepository(db),
		exercises: NewExerciseRepository(db),
		routines:  NewRoutineRepository(db),
		entries:   NewRoutineEntryRepository(db),
	}
}

func (r repositories) Users() UserStore { return r.users }
func (r repositories) Exercises() ExerciseStore { return r.exercises }
func (r repositories) Routines() RoutineStore { return r.routines }
func (r repositories) Entries() RoutineEntryStore { return r.entries }

type PgStore struct {
	repositories
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{repositories: newRepositories(pool), pool: pool}
}

func (s *PgStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
