package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestStreamDeadlineRejectsMalformedID(t *testing.T) {
	app := fiber.New()
	app.Get("/missions/:id/deadline/stream", streamDeadline(nil))

	testCases := []struct {
		name string
		id   string
	}{
		{name: "not a uuid", id: "not-a-uuid"},
		{name: "truncated uuid", id: "123e4567-e89b-12d3"},
		{name: "numeric id", id: "42"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/missions/"+tc.id+"/deadline/stream", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != fiber.StatusBadRequest {
				t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
			}
		})
	}
}
