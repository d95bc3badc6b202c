package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/technova/compintel/models"
)

// Runs returns recent pipeline audit rows, newest first. Optional query
// params: pipeline (type filter), limit (default 10, max 100).
func (h *Handler) Runs(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 100")
		}
		limit = n
	}

	var runs []models.PipelineRun
	q := h.db.NewSelect().
		Model(&runs).
		OrderExpr("pr.run_timestamp DESC").
		Limit(limit)

	if pt := c.QueryParam("pipeline"); pt != "" {
		q = q.Where("pr.pipeline_type = ?", pt)
	}

	if err := q.Scan(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, runs)
}

// Freshness returns the latest run per pipeline type, the data behind the
// dashboard's freshness indicator.
func (h *Handler) Freshness(c echo.Context) error {
	var runs []models.PipelineRun
	err := h.db.NewRaw(`
		SELECT DISTINCT ON (pipeline_type) *
		FROM pipeline_run_log
		ORDER BY pipeline_type, run_timestamp DESC`,
	).Scan(c.Request().Context(), &runs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, runs)
}
