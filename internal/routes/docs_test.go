package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/soniarr234/fitlover-back/internal/config"
)

func TestRegisterDocsRoutesServesDocsPageAndSpec(t *testing.T) {
	app := fiber.New()
	cfg := &config.Config{AppEnv: "development", EnableDocs: true}

	if err := registerDocsRoutes(app, cfg); err != nil {
		t.Fatalf("registerDocsRoutes: %v", err)
	}

	pageResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil))
	if err != nil {
		t.Fatalf("app.Test docs page: %v", err)
	}
	defer pageResp.Body.Close()

	if pageResp.StatusCode != http.StatusOK {
		t.Fatalf("expected docs page status 200, got %d", pageResp.StatusCode)
	}
	if got := pageResp.Header.Get("Content-Security-Policy"); !strings.Contains(got, "default-src 'none'") {
		t.Fatalf("expected restrictive CSP, got %q", got)
	}

	specResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))
	if err != nil {
		t.Fatalf("app.Test docs spec: %v", err)
	}
	defer specResp.Body.Close()

	if got := specResp.Header.Get(fiber.HeaderContentType); !strings.Contains(got, "application/yaml") {
		t.Fatalf("expected yaml content type, got %q", got)
	}
	body, _ := io.ReadAll(specResp.Body)
	if !strings.Contains(string(body), "/api/v1/routines/{id}/exercises/order") {
		t.Fatal("expected spec to document the entry reorder route")
	}
}

func TestRegisterDocsRoutesSkipsWhenDisabled(t *testing.T) {
	app := fiber.New()
	cfg := &config.Config{AppEnv: "production", EnableDocs: true}

	if err := registerDocsRoutes(app, cfg); err != nil {
		t.Fatalf("registerDocsRoutes: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 when docs are not in development, got %d", resp.StatusCode)
	}
}

func TestDocumentedPathsCoversRegisteredRoutes(t *testing.T) {
	paths, err := documentedPaths(openAPISpec)
	if err != nil {
		t.Fatalf("documentedPaths: %v", err)
	}

	want := []string{
		"/health",
		"/api/v1/routines/order",
		"/api/v1/routines/{id}/exercises/{exerciseId}/position",
		"/api/v1/ws",
	}
	for _, path := range want {
		found := false
		for _, got := range paths {
			if got == path {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected %s in documented paths %v", path, paths)
		}
	}
	for _, got := range paths {
		if strings.Contains(got, "schemas") || !strings.HasPrefix(got, "/") {
			t.Fatalf("unexpected entry %q", got)
		}
	}
}

func TestDocumentedPathsRejectsDocumentWithoutPaths(t *testing.T) {
	if _, err := documentedPaths([]byte("openapi: 3.0.3\ninfo:\n  title: x\n")); err == nil {
		t.Fatal("expected error for a document without paths")
	}
	if _, err := documentedPaths([]byte("- a\n- b\n")); err == nil {
		t.Fatal("expected error for a non-mapping document")
	}
}
