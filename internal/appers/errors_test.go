package appers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"planner/internal/application/entity"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", fmt.Errorf("repo: %w", ErrEventNotFound), fiber.StatusNotFound, ErrEventNotFound.StatusDesc},
		{"validation", &ValidationError{Message: "필수 정보를 모두 입력해주세요."}, fiber.StatusBadRequest, "필수 정보를 모두 입력해주세요."},
		{"conflict", &ConflictError{Conflicts: []entity.Event{{ID: "1"}}}, fiber.StatusConflict, "일정이 겹칩니다"},
		{"internal", errors.New("boom"), fiber.StatusInternalServerError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return SanitizeError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}

			raw, _ := io.ReadAll(resp.Body)
			var body struct {
				Message   string         `json:"message"`
				Conflicts []entity.Event `json:"conflicts"`
			}
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Fatalf("decode %s: %v", raw, err)
			}
			if body.Message != tt.body {
				t.Fatalf("message = %q, want %q", body.Message, tt.body)
			}
			if tt.name == "conflict" && (len(body.Conflicts) != 1 || body.Conflicts[0].ID != "1") {
				t.Fatalf("conflicts = %+v", body.Conflicts)
			}
		})
	}
}
