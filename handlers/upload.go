package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/technova/compintel/ingest"
	"github.com/technova/compintel/models"
)

// UploadEmployees accepts technova_employees.csv as multipart field "file",
// validates it, and upserts the roster. A rejected file writes its audit row
// and returns 422 with the run record so the UI can show the errors.
func (h *Handler) UploadEmployees(c echo.Context) error {
	return h.uploadCSV(c, ingest.Employees)
}

// UploadJobGrades accepts technova_job_grades.csv as multipart field "file".
func (h *Handler) UploadJobGrades(c echo.Context) error {
	return h.uploadCSV(c, ingest.JobGrades)
}

func (h *Handler) uploadCSV(
	c echo.Context,
	load func(ctx context.Context, db *bun.DB, r io.Reader, log *zap.Logger) (*models.PipelineRun, error),
) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing multipart field \"file\"")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer f.Close()

	run, err := load(c.Request().Context(), h.db, f, zap.L())
	if err != nil {
		if errors.Is(err, ingest.ErrInvalidFile) {
			return c.JSON(http.StatusUnprocessableEntity, run)
		}
		return c.JSON(http.StatusInternalServerError, run)
	}

	return c.JSON(http.StatusOK, run)
}
