package service

import (
	"math"

	"github.com/noah-isme/school-eval-api/internal/models"
)

// IndicatorProgress derives an indicator's progress and status from its checklist items.
// Progress is the rounded share of COMPLETED items; an indicator with no items stays NOT_STARTED at 0.
func IndicatorProgress(items []models.ChecklistItem) (int, models.Status) {
	if len(items) == 0 {
		return 0, models.StatusNotStarted
	}
	completed := 0
	started := false
	for _, item := range items {
		if item.Status == models.StatusCompleted {
			completed++
		}
		if item.Status != models.StatusNotStarted {
			started = true
		}
	}
	progress := int(math.Round(100 * float64(completed) / float64(len(items))))
	switch {
	case progress == 100:
		return progress, models.StatusCompleted
	case started:
		return progress, models.StatusInProgress
	default:
		return progress, models.StatusNotStarted
	}
}

// StandardStats summarises the indicators of one standard.
func StandardStats(indicators []models.IndicatorProgress) models.StandardStats {
	stats := models.StandardStats{Total: len(indicators)}
	if len(indicators) == 0 {
		return stats
	}
	sum := 0
	for _, indicator := range indicators {
		if indicator.Status == models.StatusCompleted {
			stats.Completed++
		}
		sum += indicator.Progress
	}
	stats.AvgProgress = int(math.Round(float64(sum) / float64(len(indicators))))
	return stats
}
