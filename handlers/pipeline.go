package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/technova/compintel/models"
	"github.com/technova/compintel/pipeline"
)

// RunPipeline triggers one BLS ingestion run and responds with the completed
// run record, so the UI can show the outcome without a second storage query.
// Optional query params: year (survey-year override), source (trigger label,
// defaults to "manual"). Exactly one audit row is written per call whatever
// the outcome.
func (h *Handler) RunPipeline(c echo.Context) error {
	opts := pipeline.Options{TriggerSource: c.QueryParam("source")}

	if raw := c.QueryParam("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 2000 {
			return echo.NewHTTPError(http.StatusBadRequest, "year must be a four-digit survey year")
		}
		opts.Year = year
	}

	run, _ := h.runner.Run(c.Request().Context(), opts)

	// The run record is the contract either way; failures are expressed in
	// its status and error detail, not as a bare HTTP error.
	status := http.StatusOK
	if run.Status == models.RunFailed {
		status = http.StatusBadGateway
	}
	return c.JSON(status, run)
}
