package compare

import (
	"errors"

	"schema-compare/core/compare"
	"schema-compare/core/logger"
	"schema-compare/core/schema"
	"schema-compare/feature/extract"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TablesRequest is the body of an ad hoc comparison.
type TablesRequest struct {
	Source *schema.TableStructure `json:"source"`
	Target *schema.TableStructure `json:"target"`
	Task   compare.TaskConfig     `json:"task"`
}

// RunResponse is the body returned after running every task.
type RunResponse struct {
	Results     []*schema.CompareResult `json:"results"`
	Report      Report                  `json:"report"`
	ReportError string                  `json:"report_error,omitempty"`
}

// Handler handles HTTP requests for comparisons.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the compare routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/compare")
	group.Get("/tasks", h.HandleTasks)
	group.Post("/run", h.HandleRunAll)
	group.Post("/run/:name", h.HandleRunByName)
	group.Post("/tables", h.HandleCompareTables)
}

// HandleTasks lists the configured tasks.
// @Summary List Compare Tasks
// @Description Lists every configured table pair and the data sources they read from. Connection properties are not returned.
// @Tags compare
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Tasks and data sources"
// @Router /compare/tasks [get]
func (h *Handler) HandleTasks(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"tasks":   h.service.Tasks(),
		"sources": h.service.Sources(),
	})
}

// HandleRunAll runs every configured task.
// @Summary Run All Comparisons
// @Description Extracts and compares every configured table pair. Failed pairs are logged and left out of the results. The report is logged and, when enabled, written to the markdown file and uploaded.
// @Tags compare
// @Accept json
// @Produce json
// @Success 200 {object} RunResponse "Results"
// @Router /compare/run [post]
func (h *Handler) HandleRunAll(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Running all comparisons")

	results := h.service.CompareAll(c.Context())
	resp := RunResponse{Results: results}
	rep, err := h.service.Report(c.Context(), results)
	if err != nil {
		l.Error("Report failed", zap.Error(err))
		resp.ReportError = err.Error()
	}
	resp.Report = rep
	return c.JSON(resp)
}

// HandleRunByName runs one configured comparison.
// @Summary Run Comparison By Name
// @Description Runs the first table pair of the named compare config.
// @Tags compare
// @Accept json
// @Produce json
// @Param name path string true "Compare config name"
// @Success 200 {object} schema.CompareResult "Result"
// @Failure 404 {object} map[string]string "Unknown task"
// @Failure 500 {object} map[string]string "Extraction or comparison failed"
// @Router /compare/run/{name} [post]
func (h *Handler) HandleRunByName(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	name := c.Params("name")

	result, err := h.service.CompareByName(c.Context(), name)
	if err != nil {
		l.Error("Comparison failed", zap.String("task", name), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// HandleCompareTables compares two structures from the request body.
// @Summary Compare Two Structures
// @Description Compares two table structures supplied in the body under the given task config. Nothing is extracted.
// @Tags compare
// @Accept json
// @Produce json
// @Param request body TablesRequest true "Structures and task config"
// @Success 200 {object} schema.CompareResult "Result"
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /compare/tables [post]
func (h *Handler) HandleCompareTables(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req TablesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body: " + err.Error()})
	}

	result, err := h.service.CompareTables(req.Source, req.Target, req.Task)
	if err != nil {
		l.Warn("Ad hoc comparison rejected", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, compare.ErrTaskNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, compare.ErrUnnamedTask), errors.Is(err, compare.ErrNilTable):
		return fiber.StatusBadRequest
	case errors.Is(err, extract.ErrUnknownSource):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
