package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSupabaseStorageUploadAndDelete(t *testing.T) {
	var uploadedPath, uploadedBody, deletedPath, apiKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("apikey")
		switch r.Method {
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			uploadedPath = r.URL.Path
			uploadedBody = string(body)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			deletedPath = r.URL.Path
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	storage := NewSupabaseStorage(server.URL+"/", "media", "service-key")

	mediaURL, err := storage.Upload(context.Background(), strings.NewReader("frames"), "abc.gif", "/exercises/")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if uploadedPath != "/storage/v1/object/media/exercises/abc.gif" {
		t.Fatalf("unexpected upload path %q", uploadedPath)
	}
	if uploadedBody != "frames" || apiKey != "service-key" {
		t.Fatalf("unexpected upload body %q or key %q", uploadedBody, apiKey)
	}
	if mediaURL != server.URL+"/storage/v1/object/public/media/exercises/abc.gif" {
		t.Fatalf("unexpected media url %q", mediaURL)
	}

	if err := storage.Delete(context.Background(), mediaURL); err != nil {
		t.Fatalf("delete of missing object should succeed: %v", err)
	}
	if deletedPath != "/storage/v1/object/media/exercises/abc.gif" {
		t.Fatalf("unexpected delete path %q", deletedPath)
	}
}

func TestSupabaseStorageErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusBadRequest)
	}))
	defer server.Close()

	storage := NewSupabaseStorage(server.URL, "media", "key")

	_, err := storage.Upload(context.Background(), strings.NewReader("x"), "a.png", "exercises")
	if err == nil || !strings.Contains(err.Error(), "status 400") {
		t.Fatalf("expected status error, got %v", err)
	}

	if err := storage.Delete(context.Background(), "https://elsewhere.test/file.png"); err == nil {
		t.Fatal("expected error for url outside the bucket")
	}

	_, err = storage.Upload(context.Background(), strings.NewReader(strings.Repeat("x", maxMediaBytes+1)), "a.png", "exercises")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized media, got %v", err)
	}
}
