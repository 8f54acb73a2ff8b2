package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type stubResolver struct {
	userID int64
	err    error
	token  string
}

func (r *stubResolver) Resolve(token string) (int64, error) {
	r.token = token
	return r.userID, r.err
}

func newAuthApp(resolver identityResolver) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthRequired(resolver), func(c *fiber.Ctx) error {
		userID, ok := UserID(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"user_id": userID})
	})
	return app
}

func TestAuthRequiredStoresUserID(t *testing.T) {
	resolver := &stubResolver{userID: 7}
	app := newAuthApp(resolver)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer abc.def")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resolver.token != "abc.def" {
		t.Fatalf("unexpected token %q", resolver.token)
	}
}

func TestAuthRequiredRejects(t *testing.T) {
	cases := map[string]struct {
		header   string
		resolver *stubResolver
	}{
		"missing header": {header: "", resolver: &stubResolver{userID: 7}},
		"wrong scheme":   {header: "Basic abc", resolver: &stubResolver{userID: 7}},
		"invalid token":  {header: "Bearer abc", resolver: &stubResolver{err: errors.New("expired")}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := newAuthApp(tc.resolver)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != fiber.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.StatusCode)
			}
		})
	}
}

func TestRateLimiterRejectsAfterBurst(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2, nil)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		SetUserID(c, 9)
		return c.Next()
	})
	app.Use(limiter.Handler())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, resp.StatusCode)
		}
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestRequestIDAssignsOrEchoes(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Fatalf("expected generated uuid, got %q", resp.Header.Get(RequestIDHeader))
	}

	supplied := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, supplied)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.Header.Get(RequestIDHeader) != supplied {
		t.Fatalf("expected echoed id %q, got %q", supplied, resp.Header.Get(RequestIDHeader))
	}
}
