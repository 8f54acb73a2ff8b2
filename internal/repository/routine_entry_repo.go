package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/soniarr234/fitlover-back/internal/models"
)

type CreateRoutineEntryInput struct {
	RoutineID  int64
	ExerciseID int64
	UserID     int64
	Position   int
}

type RoutineEntryRepository struct {
	db DBTX
}

func NewRoutineEntryRepository(db DBTX) *RoutineEntryRepository {
	return &RoutineEntryRepository{db: db}
}

func (r *RoutineEntryRepository) Exists(ctx context.Context, routineID, exerciseID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM routine_exercises
			WHERE routine_id = $1 AND exercise_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, routineID, exerciseID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *RoutineEntryRepository) MaxPosition(ctx context.Context, routineID int64) (int, error) {
	var maxPosition int
	err := r.db.QueryRow(
		ctx,
		`SELECT COALESCE(MAX(position), 0) FROM routine_exercises WHERE routine_id = $1`,
		routineID,
	).Scan(&maxPosition)
	if err != nil {
		return 0, err
	}
	return maxPosition, nil
}

func (r *RoutineEntryRepository) Create(ctx context.Context, input CreateRoutineEntryInput) (*models.RoutineEntry, error) {
	query := `
		INSERT INTO routine_exercises (routine_id, exercise_id, user_id, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, routine_id, exercise_id, user_id, position, created_at
	`
	var entry models.RoutineEntry
	err := r.db.QueryRow(ctx, query, input.RoutineID, input.ExerciseID, input.UserID, input.Position).Scan(
		&entry.ID,
		&entry.RoutineID,
		&entry.ExerciseID,
		&entry.UserID,
		&entry.Position,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *RoutineEntryRepository) Delete(ctx context.Context, userID, routineID, exerciseID int64) error {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM routine_exercises WHERE routine_id = $1 AND exercise_id = $2 AND user_id = $3`,
		routineID,
		exerciseID,
		userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *RoutineEntryRepository) DeleteByRoutineID(ctx context.Context, routineID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM routine_exercises WHERE routine_id = $1`, routineID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *RoutineEntryRepository) UpdatePosition(ctx context.Context, routineID, exerciseID int64, position int) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE routine_exercises SET position = $3 WHERE routine_id = $1 AND exercise_id = $2`,
		routineID,
		exerciseID,
		position,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *RoutineEntryRepository) ListDetailedByRoutineID(
	ctx context.Context,
	routineID int64,
) ([]models.RoutineEntryDetail, error) {
	query := `
		SELECT re.id, re.routine_id, re.exercise_id, re.user_id, re.position, re.created_at,
			e.id, e.name, e.muscles, e.description, e.notes, e.media_url, e.created_at
		FROM routine_exercises re
		INNER JOIN exercises e ON e.id = re.exercise_id
		WHERE re.routine_id = $1
		ORDER BY re.position ASC, re.id ASC
	`
	rows, err := r.db.Query(ctx, query, routineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.RoutineEntryDetail, 0)
	for rows.Next() {
		var (
			entry   models.RoutineEntryDetail
			muscles string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.RoutineID,
			&entry.ExerciseID,
			&entry.UserID,
			&entry.Position,
			&entry.CreatedAt,
			&entry.Exercise.ID,
			&entry.Exercise.Name,
			&muscles,
			&entry.Exercise.Description,
			&entry.Exercise.Notes,
			&entry.Exercise.MediaURL,
			&entry.Exercise.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry.Exercise.Muscles = DecodeMuscles(muscles)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
