package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/technova/compintel/models"
)

// Benchmarks returns market wage rows, optionally filtered by soc, msa, and
// year. Without a year filter, only the latest survey year is returned.
func (h *Handler) Benchmarks(c echo.Context) error {
	var rows []models.WageObservation
	q := h.db.NewSelect().
		Model(&rows).
		OrderExpr("w.soc_code, w.msa_code, w.data_type")

	if soc := c.QueryParam("soc"); soc != "" {
		q = q.Where("w.soc_code = ?", soc)
	}
	if msa := c.QueryParam("msa"); msa != "" {
		q = q.Where("w.msa_code = ?", msa)
	}
	if raw := c.QueryParam("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "year must be numeric")
		}
		q = q.Where("w.reference_year = ?", year)
	} else {
		q = q.Where("w.reference_year = (SELECT MAX(reference_year) FROM bls_wage_data)")
	}

	if err := q.Scan(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, rows)
}

// Occupations returns the SOC reference table, query-scope codes first.
func (h *Handler) Occupations(c echo.Context) error {
	var socs []models.SOCCode
	err := h.db.NewSelect().
		Model(&socs).
		OrderExpr("sc.query_scope DESC, sc.soc_code ASC").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, socs)
}

type areaData struct {
	MSACode   string `bun:"msa_code" json:"msaCode"`
	MSAName   string `bun:"msa_name" json:"msaName"`
	Headcount int    `bun:"headcount" json:"headcount"`
}

// Areas returns the metro areas currently derivable from the employee
// roster, with headcount per area.
func (h *Handler) Areas(c echo.Context) error {
	var areas []areaData
	err := h.db.NewRaw(`
		SELECT msa_code, msa_name, COUNT(*) AS headcount
		FROM employees
		WHERE msa_code IS NOT NULL AND msa_code <> ''
		GROUP BY msa_code, msa_name
		ORDER BY msa_code`,
	).Scan(c.Request().Context(), &areas)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, areas)
}
