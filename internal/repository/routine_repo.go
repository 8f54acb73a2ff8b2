package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/soniarr234/fitlover-back/internal/models"
)

type CreateRoutineInput struct {
	UserID       int64
	Name         string
	DisplayOrder int
}

type RoutineRepository struct {
	db DBTX
}

func NewRoutineRepository(db DBTX) *RoutineRepository {
	return &RoutineRepository{db: db}
}

// LockUser serializes display-order changes for one user until the
// surrounding transaction ends.
func (r *RoutineRepository) LockUser(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", userID)
	return err
}

func (r *RoutineRepository) Create(ctx context.Context, input CreateRoutineInput) (*models.Routine, error) {
	query := `
		INSERT INTO routines (user_id, name, display_order)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, display_order, created_at
	`
	return scanRoutine(r.db.QueryRow(ctx, query, input.UserID, input.Name, input.DisplayOrder))
}

func (r *RoutineRepository) ExistsByName(ctx context.Context, userID int64, name string, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM routines
			WHERE user_id = $1 AND name = $2 AND id <> $3
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, name, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *RoutineRepository) MaxDisplayOrder(ctx context.Context, userID int64) (int, error) {
	var maxOrder int
	err := r.db.QueryRow(
		ctx,
		`SELECT COALESCE(MAX(display_order), 0) FROM routines WHERE user_id = $1`,
		userID,
	).Scan(&maxOrder)
	if err != nil {
		return 0, err
	}
	return maxOrder, nil
}

func (r *RoutineRepository) ListByUserID(ctx context.Context, userID int64) ([]models.Routine, error) {
	query := `
		SELECT id, user_id, name, display_order, created_at
		FROM routines
		WHERE user_id = $1
		ORDER BY display_order ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routines := make([]models.Routine, 0)
	for rows.Next() {
		routine, err := scanRoutine(rows)
		if err != nil {
			return nil, err
		}
		routines = append(routines, *routine)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return routines, nil
}

func (r *RoutineRepository) GetByID(ctx context.Context, userID, routineID int64) (*models.Routine, error) {
	query := `
		SELECT id, user_id, name, display_order, created_at
		FROM routines
		WHERE id = $1 AND user_id = $2
	`
	return scanRoutine(r.db.QueryRow(ctx, query, routineID, userID))
}

// GetByIDForUpdate locks the routine row; callers hold it as the critical
// section for every change to the routine's entry positions.
func (r *RoutineRepository) GetByIDForUpdate(ctx context.Context, userID, routineID int64) (*models.Routine, error) {
	query := `
		SELECT id, user_id, name, display_order, created_at
		FROM routines
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`
	return scanRoutine(r.db.QueryRow(ctx, query, routineID, userID))
}

func (r *RoutineRepository) UpdateName(ctx context.Context, userID, routineID int64, name string) (*models.Routine, error) {
	query := `
		UPDATE routines
		SET name = $3
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, display_order, created_at
	`
	return scanRoutine(r.db.QueryRow(ctx, query, routineID, userID, name))
}

func (r *RoutineRepository) UpdateDisplayOrder(ctx context.Context, userID, routineID int64, displayOrder int) (bool, error) {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE routines SET display_order = $3 WHERE id = $1 AND user_id = $2`,
		routineID,
		userID,
		displayOrder,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RoutineRepository) Delete(ctx context.Context, userID, routineID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM routines WHERE id = $1 AND user_id = $2`, routineID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanRoutine(row pgx.Row) (*models.Routine, error) {
	var routine models.Routine
	if err := row.Scan(
		&routine.ID,
		&routine.UserID,
		&routine.Name,
		&routine.DisplayOrder,
		&routine.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &routine, nil
}
