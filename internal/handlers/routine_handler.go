package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/soniarr234/fitlover-back/internal/models"
	"github.com/soniarr234/fitlover-back/internal/services"
)

type routineRegistry interface {
	Create(ctx context.Context, userID int64, name string) (*models.Routine, error)
	List(ctx context.Context, userID int64) ([]models.Routine, error)
	Get(ctx context.Context, userID, routineID int64) (*models.Routine, error)
	Rename(ctx context.Context, userID, routineID int64, name string) (*models.Routine, error)
	Delete(ctx context.Context, userID, routineID int64) error
	Reorder(ctx context.Context, userID int64, order services.RoutineOrder) (int, error)
}

type routineComposer interface {
	AddEntry(ctx context.Context, userID, routineID, exerciseID int64) (*models.RoutineEntry, error)
	RemoveEntry(ctx context.Context, userID, routineID, exerciseID int64) error
	ReorderEntries(ctx context.Context, userID, routineID int64, order services.EntryOrder) error
	MoveEntry(ctx context.Context, userID, routineID, exerciseID int64, position int) error
	ListEntries(ctx context.Context, userID, routineID int64) ([]models.RoutineEntryDetail, error)
}

type RoutineHandler struct {
	routines    routineRegistry
	composition routineComposer
	logger      logrus.FieldLogger
}

func NewRoutineHandler(routines routineRegistry, composition routineComposer, logger logrus.FieldLogger) *RoutineHandler {
	return &RoutineHandler{routines: routines, composition: composition, logger: logger}
}

type routineNameRequest struct {
	Name string `json:"name"`
}

type reorderRoutinesRequest struct {
	RoutineIDs []int64 `json:"routine_ids"`
}

type addEntryRequest struct {
	ExerciseID int64 `json:"exercise_id"`
}

type moveEntryRequest struct {
	Position int `json:"position"`
}

type reorderEntriesRequest struct {
	Entries []services.RankAssignment `json:"entries"`
}

var (
	routineErrors = errorMessages{
		notFound: "Routine not found",
		conflict: "A routine with that name already exists",
		invalid:  "Invalid routine request",
		failure:  "Failed to process routine request",
	}
	entryErrors = errorMessages{
		notFound: "Routine or exercise not found",
		conflict: "Exercise is already in the routine or the position is taken",
		invalid:  "Invalid routine exercise request",
		failure:  "Failed to process routine exercise request",
	}
)

func (h *RoutineHandler) CreateRoutine(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return invalidToken(c)
	}

	var req routineNameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	routine, err := h.routines.Create(c.Context(), userID, req.Name)
	if err != nil {
		return mapServiceError(c, h.logger, err, routineErrors)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"routine": routine})
}

func (h *RoutineHandler) ListRoutines(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return invalidToken(c)
	}

	routines, err := h.routines.List(c.Context(), userID)
	if err != nil {
		return mapServiceError(c, h.logger, err, routineErrors)
	}
	return c.JSON(fiber.Map{"routines": routines})
}

func (h *RoutineHandler) GetRoutine(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return invalidToken(c)
	}
	routineID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid routine id"})
	}

	routine, err := h.routines.Get(c.Context(), userID, routineID)
	if err != nil {
		return mapServiceError(c, h.logger, err, routineErrors)
	}
	return c.JSON(fiber.Map{"routine": routine})
}

func (h *RoutineHandler) RenameRoutine(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return invalidToken(c)
	}
	routineID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid routine id"})
	}

	var req routineNameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	routine, err := h.routines.Rename(c.Context(), userID, routineID, req.Name)
	if err != nil {
		return mapServiceError(c, h.logger, err, routineErrors)
	}
	return c.JSON(fiber.Map{"routine": routine})
}

func (h *RoutineHandler) DeleteRoutine(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return invalidToken(c)
	}
	routineID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid routine id"})
	}

	if err := h.routines.Delete(c.Context(), userID, routineID); err != nil {
		return mapServiceError(c, h.logger, err, routineErrors)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RoutineHandler) ReorderRoutines(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return invalidToken(c)
	}

	var req reorderRoutinesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updated, err := h.routines.Reorder(c.Context(), userID, services.RoutineOrder(req.RoutineIDs))
	if err != nil {
		return mapServiceError(c, h.logger, err, routineErrors)
	}
	return c.JSON(fiber.Map{"updated": updated})
}

func (h *RoutineHandler) ListEntries(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return invalidToken(c)
	}
	routineID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid routine id"})
	}

	return h.respondWithEntries(c, userID, routineID)
}

func (h *RoutineHandler) AddEntry(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return invalidToken(c)
	}
	routineID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid routine id"})
	}

	var req addEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.ExerciseID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "exercise_id must be a positive integer"})
	}

	entry, err := h.composition.AddEntry(c.Context(), userID, routineID, req.ExerciseID)
	if err != nil {
		return mapServiceError(c, h.logger, err, entryErrors)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"entry": entry})
}

func (h *RoutineHandler) RemoveEntry(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return invalidToken(c)
	}
	routineID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid routine id"})
	}
	exerciseID, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exercise id"})
	}

	if err := h.composition.RemoveEntry(c.Context(), userID, routineID, exerciseID); err != nil {
		return mapServiceError(c, h.logger, err, entryErrors)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RoutineHandler) MoveEntry(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return invalidToken(c)
	}
	routineID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid routine id"})
	}
	exerciseID, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exercise id"})
	}

	var req moveEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.composition.MoveEntry(c.Context(), userID, routineID, exerciseID, req.Position); err != nil {
		return mapServiceError(c, h.logger, err, entryErrors)
	}
	return h.respondWithEntries(c, userID, routineID)
}

func (h *RoutineHandler) ReorderEntries(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return invalidToken(c)
	}
	routineID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid routine id"})
	}

	var req reorderEntriesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.composition.ReorderEntries(c.Context(), userID, routineID, services.EntryOrder(req.Entries)); err != nil {
		return mapServiceError(c, h.logger, err, entryErrors)
	}
	return h.respondWithEntries(c, userID, routineID)
}

func (h *RoutineHandler) respondWithEntries(c *fiber.Ctx, userID, routineID int64) error {
	entries, err := h.composition.ListEntries(c.Context(), userID, routineID)
	if err != nil {
		return mapServiceError(c, h.logger, err, entryErrors)
	}
	return c.JSON(fiber.Map{"routine_id": routineID, "entries": entries})
}
