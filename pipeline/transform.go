package pipeline

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/technova/compintel/bls"
	"github.com/technova/compintel/models"
)

// ParseWage converts a BLS wage string to a float pointer. Suppression
// markers and non-numeric strings map to nil, an explicit missing value,
// never zero. The record carrying it is kept, not dropped.
func ParseWage(raw string) *float64 {
	v := strings.TrimSpace(raw)
	switch v {
	case "-", "**", "N/A", "NA", "":
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Transform maps one successful batch payload to wage observations using the
// request's descriptor map. Series whose ID does not decompose into a known
// (occupation, area, data type) combination are dropped with a warning;
// series with no data points are dropped silently; the survey publishes
// nothing for some combinations. Neither case is fatal to the batch.
func Transform(series []bls.Series, refs map[string]bls.SeriesRef, defaultYear int, log *zap.Logger) []models.WageObservation {
	observations := make([]models.WageObservation, 0, len(series))
	for _, s := range series {
		ref, known := refs[s.SeriesID]
		if !known {
			log.Warn("unknown series id in response, dropping", zap.String("series_id", s.SeriesID))
			continue
		}
		if len(s.Data) == 0 {
			log.Debug("no data for series", zap.String("series_id", s.SeriesID))
			continue
		}

		// A single survey year is requested; the first data point is the
		// most recent one.
		point := s.Data[0]
		year, err := strconv.Atoi(point.Year)
		if err != nil {
			year = defaultYear
		}

		observations = append(observations, models.WageObservation{
			SOCCode:       ref.SOCCode,
			SOCTitle:      ref.SOCTitle,
			MSACode:       ref.MSACode,
			MSAName:       ref.MSAName,
			ReferenceYear: year,
			DataType:      ref.DataType,
			Value:         ParseWage(point.Value),
			DataSource:    models.PipelineBLSOEWS,
		})
	}
	return observations
}
