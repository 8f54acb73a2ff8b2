package services

import (
	"context"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/soniarr234/fitlover-back/internal/models"
	"github.com/soniarr234/fitlover-back/internal/repository"
)

const (
	exerciseMediaFolder = "exercises"
	maxExerciseName     = 120
)

var allowedMediaExtensions = map[string]struct{}{
	".gif": {}, ".jpg": {}, ".jpeg": {}, ".png": {}, ".webp": {}, ".mp4": {}, ".webm": {},
}

// CatalogService reads and maintains the shared exercise catalog. Routines
// only ever call Exists and Get.
type CatalogService struct {
	exercises repository.ExerciseStore
	storage   MediaStorage
	logger    logrus.FieldLogger
}

type CreateExerciseInput struct {
	Name        string
	Muscles     []string
	Description string
	Notes       *string
	MediaURL    *string
}

func NewCatalogService(exercises repository.ExerciseStore, storage MediaStorage, logger logrus.FieldLogger) *CatalogService {
	return &CatalogService{
		exercises: exercises,
		storage:   storage,
		logger:    orDiscard(logger),
	}
}

func (s *CatalogService) Exists(ctx context.Context, exerciseID int64) (bool, error) {
	if exerciseID <= 0 {
		return false, nil
	}
	exists, err := s.exercises.Exists(ctx, exerciseID)
	if err != nil {
		return false, translateStoreError("check exercise", err)
	}
	return exists, nil
}

func (s *CatalogService) Get(ctx context.Context, exerciseID int64) (*models.Exercise, error) {
	exercise, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, translateStoreError("get exercise", err)
	}
	return exercise, nil
}

// List returns one page of the catalog and the catalog size.
func (s *CatalogService) List(ctx context.Context, page, limit int) ([]models.Exercise, int, error) {
	if page < 1 || limit < 1 {
		return nil, 0, ErrInvalidInput
	}

	total, err := s.exercises.Count(ctx)
	if err != nil {
		return nil, 0, translateStoreError("count exercises", err)
	}

	exercises, err := s.exercises.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, translateStoreError("list exercises", err)
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	return exercises, total, nil
}

func (s *CatalogService) Create(ctx context.Context, input CreateExerciseInput) (*models.Exercise, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxExerciseName {
		return nil, ErrInvalidInput
	}

	mediaURL := trimOptional(input.MediaURL)
	if mediaURL != nil && !isExternalMediaURL(*mediaURL) {
		return nil, ErrInvalidInput
	}

	exercise, err := s.exercises.Create(ctx, repository.CreateExerciseInput{
		Name:        name,
		Muscles:     input.Muscles,
		Description: strings.TrimSpace(input.Description),
		Notes:       trimOptional(input.Notes),
		MediaURL:    mediaURL,
	})
	if err != nil {
		return nil, translateStoreError("create exercise", err)
	}
	return exercise, nil
}

// isExternalMediaURL accepts absolute http(s) links to an image or clip
// hosted elsewhere.
func isExternalMediaURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

// UpdateNotes replaces the free-form notes; nil or blank clears them.
func (s *CatalogService) UpdateNotes(ctx context.Context, exerciseID int64, notes *string) (*models.Exercise, error) {
	exercise, err := s.exercises.UpdateNotes(ctx, exerciseID, trimOptional(notes))
	if err != nil {
		return nil, translateStoreError("update exercise notes", err)
	}
	return exercise, nil
}

// Delete removes the exercise, and with it every routine entry that uses it.
func (s *CatalogService) Delete(ctx context.Context, exerciseID int64) error {
	exercise, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		return translateStoreError("delete exercise", err)
	}
	if err := s.exercises.Delete(ctx, exerciseID); err != nil {
		return translateStoreError("delete exercise", err)
	}

	if exercise.MediaURL != nil && s.storage != nil {
		s.removeMedia(ctx, exerciseID, *exercise.MediaURL)
	}
	return nil
}

// UploadMedia stores the file under a fresh object name and points the
// exercise at it. The previous object, if any, is removed afterwards.
func (s *CatalogService) UploadMedia(ctx context.Context, exerciseID int64, content io.Reader, filename string) (*models.Exercise, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if content == nil {
		return nil, ErrInvalidInput
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedMediaExtensions[ext]; !ok {
		return nil, ErrInvalidInput
	}

	current, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, translateStoreError("upload exercise media", err)
	}

	mediaURL, err := s.storage.Upload(ctx, content, uuid.NewString()+ext, exerciseMediaFolder)
	if err != nil {
		return nil, translateStoreError("upload exercise media", err)
	}

	updated, err := s.exercises.UpdateMediaURL(ctx, exerciseID, mediaURL)
	if err != nil {
		s.removeMedia(ctx, exerciseID, mediaURL)
		return nil, translateStoreError("upload exercise media", err)
	}

	if current.MediaURL != nil && *current.MediaURL != mediaURL {
		s.removeMedia(ctx, exerciseID, *current.MediaURL)
	}
	return updated, nil
}

func (s *CatalogService) removeMedia(ctx context.Context, exerciseID int64, mediaURL string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.storage.Delete(ctx, mediaURL); err != nil {
		s.logger.WithFields(logrus.Fields{
			"exercise_id": exerciseID,
			"media_url":   mediaURL,
		}).WithError(err).Warn("failed to remove exercise media")
	}
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
