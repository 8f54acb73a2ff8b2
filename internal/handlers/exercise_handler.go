package handlers

import (
	"context"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/soniarr234/fitlover-back/internal/models"
	"github.com/soniarr234/fitlover-back/internal/services"
)

const maxMediaSizeBytes = 20 * 1024 * 1024

type exerciseCatalog interface {
	Get(ctx context.Context, exerciseID int64) (*models.Exercise, error)
	List(ctx context.Context, page, limit int) ([]models.Exercise, int, error)
	Create(ctx context.Context, input services.CreateExerciseInput) (*models.Exercise, error)
	UpdateNotes(ctx context.Context, exerciseID int64, notes *string) (*models.Exercise, error)
	Delete(ctx context.Context, exerciseID int64) error
	UploadMedia(ctx context.Context, exerciseID int64, content io.Reader, filename string) (*models.Exercise, error)
}

type ExerciseHandler struct {
	catalog exerciseCatalog
	logger  logrus.FieldLogger
}

func NewExerciseHandler(catalog exerciseCatalog, logger logrus.FieldLogger) *ExerciseHandler {
	return &ExerciseHandler{catalog: catalog, logger: logger}
}

type createExerciseRequest struct {
	Name        string   `json:"name"`
	Muscles     []string `json:"muscles"`
	Description string   `json:"description"`
	Notes       *string  `json:"notes"`
	MediaURL    *string  `json:"media_url"`
}

type updateNotesRequest struct {
	Notes *string `json:"notes"`
}

var exerciseErrors = errorMessages{
	notFound: "Exercise not found",
	conflict: "Exercise already exists",
	invalid:  "Invalid exercise request",
	failure:  "Failed to process exercise request",
}

func (h *ExerciseHandler) ListExercises(c *fiber.Ctx) error {
	page, limit, ok := parsePagination(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "page and limit must be positive integers"})
	}

	exercises, total, err := h.catalog.List(c.Context(), page, limit)
	if err != nil {
		return mapServiceError(c, h.logger, err, exerciseErrors)
	}

	return c.JSON(fiber.Map{
		"exercises":  exercises,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *ExerciseHandler) GetExercise(c *fiber.Ctx) error {
	exerciseID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exercise id"})
	}

	exercise, err := h.catalog.Get(c.Context(), exerciseID)
	if err != nil {
		return mapServiceError(c, h.logger, err, exerciseErrors)
	}
	return c.JSON(fiber.Map{"exercise": exercise})
}

func (h *ExerciseHandler) CreateExercise(c *fiber.Ctx) error {
	var req createExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	exercise, err := h.catalog.Create(c.Context(), services.CreateExerciseInput{
		Name:        req.Name,
		Muscles:     req.Muscles,
		Description: req.Description,
		Notes:       req.Notes,
		MediaURL:    req.MediaURL,
	})
	if err != nil {
		return mapServiceError(c, h.logger, err, exerciseErrors)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"exercise": exercise})
}

func (h *ExerciseHandler) UpdateNotes(c *fiber.Ctx) error {
	exerciseID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exercise id"})
	}

	var req updateNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	exercise, err := h.catalog.UpdateNotes(c.Context(), exerciseID, req.Notes)
	if err != nil {
		return mapServiceError(c, h.logger, err, exerciseErrors)
	}
	return c.JSON(fiber.Map{"exercise": exercise})
}

func (h *ExerciseHandler) DeleteExercise(c *fiber.Ctx) error {
	exerciseID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exercise id"})
	}

	if err := h.catalog.Delete(c.Context(), exerciseID); err != nil {
		return mapServiceError(c, h.logger, err, exerciseErrors)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ExerciseHandler) UploadMedia(c *fiber.Ctx) error {
	exerciseID, ok := parseIDParam(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid exercise id"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	if fileHeader.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is empty"})
	}
	if fileHeader.Size > maxMediaSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file exceeds 20MB limit"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to open file"})
	}
	defer file.Close()

	exercise, err := h.catalog.UploadMedia(c.Context(), exerciseID, file, fileHeader.Filename)
	if err != nil {
		return mapServiceError(c, h.logger, err, exerciseErrors)
	}
	return c.JSON(fiber.Map{"exercise": exercise})
}
