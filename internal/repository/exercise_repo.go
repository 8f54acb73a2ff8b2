package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/soniarr234/fitlover-back/internal/models"
)

const muscleSeparator = ","

type CreateExerciseInput struct {
	Name        string
	Muscles     []string
	Description string
	Notes       *string
	MediaURL    *string
}

type ExerciseRepository struct {
	db DBTX
}

func NewExerciseRepository(db DBTX) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

func (r *ExerciseRepository) List(ctx context.Context, limit, offset int) ([]models.Exercise, error) {
	query := `
		SELECT id, name, muscles, description, notes, media_url, created_at
		FROM exercises
		ORDER BY name ASC, id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]models.Exercise, 0)
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, *exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

func (r *ExerciseRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *ExerciseRepository) GetByID(ctx context.Context, id int64) (*models.Exercise, error) {
	query := `
		SELECT id, name, muscles, description, notes, media_url, created_at
		FROM exercises
		WHERE id = $1
	`
	return scanExercise(r.db.QueryRow(ctx, query, id))
}

func (r *ExerciseRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM exercises WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ExerciseRepository) Create(ctx context.Context, input CreateExerciseInput) (*models.Exercise, error) {
	query := `
		INSERT INTO exercises (name, muscles, description, notes, media_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, muscles, description, notes, media_url, created_at
	`
	return scanExercise(r.db.QueryRow(
		ctx,
		query,
		input.Name,
		EncodeMuscles(input.Muscles),
		input.Description,
		input.Notes,
		input.MediaURL,
	))
}

func (r *ExerciseRepository) UpdateNotes(ctx context.Context, id int64, notes *string) (*models.Exercise, error) {
	query := `
		UPDATE exercises
		SET notes = $2
		WHERE id = $1
		RETURNING id, name, muscles, description, notes, media_url, created_at
	`
	return scanExercise(r.db.QueryRow(ctx, query, id, notes))
}

func (r *ExerciseRepository) UpdateMediaURL(ctx context.Context, id int64, mediaURL string) (*models.Exercise, error) {
	query := `
		UPDATE exercises
		SET media_url = $2
		WHERE id = $1
		RETURNING id, name, muscles, description, notes, media_url, created_at
	`
	return scanExercise(r.db.QueryRow(ctx, query, id, mediaURL))
}

func (r *ExerciseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanExercise(row pgx.Row) (*models.Exercise, error) {
	var (
		exercise models.Exercise
		muscles  string
	)
	if err := row.Scan(
		&exercise.ID,
		&exercise.Name,
		&muscles,
		&exercise.Description,
		&exercise.Notes,
		&exercise.MediaURL,
		&exercise.CreatedAt,
	); err != nil {
		return nil, err
	}
	exercise.Muscles = DecodeMuscles(muscles)
	return &exercise, nil
}

// EncodeMuscles flattens a muscle list into the comma separated column value.
func EncodeMuscles(muscles []string) string {
	cleaned := make([]string, 0, len(muscles))
	for _, muscle := range muscles {
		trimmed := strings.TrimSpace(strings.ReplaceAll(muscle, muscleSeparator, " "))
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, muscleSeparator)
}

func DecodeMuscles(value string) []string {
	muscles := make([]string, 0)
	for _, part := range strings.Split(value, muscleSeparator) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			muscles = append(muscles, trimmed)
		}
	}
	return muscles
}
