package services

// RoutineOrder is the caller's desired display order: the routine at index i
// receives display order i+1. Ids that cannot exist (<= 0) keep their slot
// but are skipped, like any other id the caller does not own.
type RoutineOrder []int64

func (o RoutineOrder) Validate() error {
	seen := make(map[int64]struct{}, len(o))
	for _, id := range o {
		if id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			return ErrInvalidInput
		}
		seen[id] = struct{}{}
	}
	return nil
}

// RankAssignment places one exercise of a routine at an explicit position.
type RankAssignment struct {
	ExerciseID int64 `json:"exercise_id"`
	Position   int   `json:"position"`
}

// EntryOrder is a batch of rank assignments applied atomically to one
// routine. Exercise ids and positions must each be unique within the batch.
type EntryOrder []RankAssignment

func (o EntryOrder) Validate() error {
	if len(o) == 0 {
		return ErrInvalidInput
	}
	exercises := make(map[int64]struct{}, len(o))
	positions := make(map[int]struct{}, len(o))
	for _, assignment := range o {
		if assignment.ExerciseID <= 0 || assignment.Position < 1 {
			return ErrInvalidInput
		}
		if _, dup := exercises[assignment.ExerciseID]; dup {
			return ErrInvalidInput
		}
		if _, dup := positions[assignment.Position]; dup {
			return ErrInvalidInput
		}
		exercises[assignment.ExerciseID] = struct{}{}
		positions[assignment.Position] = struct{}{}
	}
	return nil
}
