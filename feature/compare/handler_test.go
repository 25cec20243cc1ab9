package compare

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"schema-compare/core/compare"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) *fiber.App {
	app := fiber.New()
	handler := NewHandler(newTestService(t, compare.Config{Workers: 2}, nil))
	handler.RegisterRoutes(app)
	return app
}

func decode(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHandleTasks(t *testing.T) {
	status, body := decode(t, setupTestApp(t), "GET", "/compare/tasks", "")
	assert.Equal(t, 200, status)
	assert.Len(t, body["tasks"], 4)

	sources := body["sources"].([]any)
	require.Len(t, sources, 2)
	first := sources[0].(map[string]any)
	assert.Equal(t, "primary", first["name"])
	assert.NotContains(t, first, "properties")
}

func TestHandleRunAll(t *testing.T) {
	status, body := decode(t, setupTestApp(t), "POST", "/compare/run", "")
	assert.Equal(t, 200, status)
	assert.Len(t, body["results"], 3)
	assert.NotContains(t, body, "report_error")
}

func TestHandleRunByName(t *testing.T) {
	app := setupTestApp(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"matched", "/compare/run/users", 200},
		{"unknown task", "/compare/run/nope", 404},
		{"extraction failure", "/compare/run/broken", 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := decode(t, app, "POST", tt.path, "")
			assert.Equal(t, tt.status, status)
			if tt.status == 200 {
				assert.Equal(t, true, body["fully_matched"])
				assert.Equal(t, "users", body["task_name"])
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestHandleCompareTables(t *testing.T) {
	app := setupTestApp(t)

	t.Run("drift", func(t *testing.T) {
		body := `{
			"source": {"name": "users", "system": "mysql", "columns": [
				{"name": "id", "type": "bigint"},
				{"name": "email", "type": "varchar", "nullable": true}
			]},
			"target": {"name": "users", "system": "tidb", "columns": [
				{"name": "id", "type": "bigint"}
			]},
			"task": {"name": "adhoc"}
		}`
		status, out := decode(t, app, "POST", "/compare/tables", body)
		assert.Equal(t, 200, status)
		assert.Equal(t, false, out["fully_matched"])
		diffs := out["column_differences"].([]any)
		require.Len(t, diffs, 1)
		assert.Equal(t, "email", diffs[0].(map[string]any)["column"])
	})

	t.Run("missing target", func(t *testing.T) {
		status, out := decode(t, app, "POST", "/compare/tables", `{"source": {"name": "a", "system": "mysql"}, "task": {"name": "x"}}`)
		assert.Equal(t, 400, status)
		assert.Contains(t, out["error"], "required")
	})

	t.Run("missing task name", func(t *testing.T) {
		status, _ := decode(t, app, "POST", "/compare/tables", `{"source": {"name": "a"}, "target": {"name": "a"}}`)
		assert.Equal(t, 400, status)
	})

	t.Run("invalid body", func(t *testing.T) {
		status, out := decode(t, app, "POST", "/compare/tables", `{"source": [`)
		assert.Equal(t, 400, status)
		assert.Contains(t, out["error"], "invalid request body")
	})
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, statusFor(compare.ErrTaskNotFound))
	assert.Equal(t, fiber.StatusBadRequest, statusFor(compare.ErrNilTable))
	assert.Equal(t, fiber.StatusInternalServerError, statusFor(assert.AnError))
}
