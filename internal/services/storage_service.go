package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

const maxMediaBytes = 20 << 20

// MediaStorage keeps exercise media in an object store and hands back the
// public URL of each stored object.
type MediaStorage interface {
	Upload(ctx context.Context, content io.Reader, objectName, folder string) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

// SupabaseStorage talks to the Supabase storage REST API with a service key.
type SupabaseStorage struct {
	baseURL    string
	bucket     string
	serviceKey string
	httpClient *http.Client
}

func NewSupabaseStorage(baseURL, bucket, serviceKey string) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bucket:     bucket,
		serviceKey: serviceKey,
		httpClient: http.DefaultClient,
	}
}

func (s *SupabaseStorage) Upload(ctx context.Context, content io.Reader, objectName, folder string) (string, error) {
	body, err := io.ReadAll(io.LimitReader(content, maxMediaBytes+1))
	if err != nil {
		return "", fmt.Errorf("read media: %w", err)
	}
	if len(body) > maxMediaBytes {
		return "", fmt.Errorf("%w: media exceeds %d bytes", ErrInvalidInput, maxMediaBytes)
	}

	objectPath := path.Join(strings.Trim(folder, "/"), objectName)
	headers := map[string]string{
		"x-upsert":     "true",
		"Content-Type": http.DetectContentType(body),
	}
	if err := s.send(ctx, http.MethodPost, s.objectURL(objectPath), bytes.NewReader(body), headers, false); err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath), nil
}

// Delete treats an already missing object as deleted.
func (s *SupabaseStorage) Delete(ctx context.Context, fileURL string) error {
	objectPath, err := s.objectPathFromURL(fileURL)
	if err != nil {
		return err
	}
	if err := s.send(ctx, http.MethodDelete, s.objectURL(objectPath), nil, nil, true); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}

func (s *SupabaseStorage) objectURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, objectPath)
}

func (s *SupabaseStorage) send(
	ctx context.Context,
	method, target string,
	body io.Reader,
	headers map[string]string,
	allowNotFound bool,
) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if allowNotFound && resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

func (s *SupabaseStorage) objectPathFromURL(fileURL string) (string, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("parse media url: %w", err)
	}

	for _, prefix := range []string{
		"/storage/v1/object/public/" + s.bucket + "/",
		"/storage/v1/object/" + s.bucket + "/",
	} {
		if strings.HasPrefix(parsed.Path, prefix) {
			return strings.TrimPrefix(parsed.Path, prefix), nil
		}
	}
	return "", fmt.Errorf("media url does not belong to bucket %q", s.bucket)
}
