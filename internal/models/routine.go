package models

import "time"

type Routine struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// RoutineEntry is the membership of one exercise in a routine. UserID always
// mirrors the owner of the parent routine.
type RoutineEntry struct {
	ID         int64     `json:"id"`
	RoutineID  int64     `json:"routine_id"`
	ExerciseID int64     `json:"exercise_id"`
	UserID     int64     `json:"user_id"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

type RoutineEntryDetail struct {
	RoutineEntry
	Exercise Exercise `json:"exercise"`
}
