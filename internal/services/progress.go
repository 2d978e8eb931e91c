package services

import "github.com/terraincognita07/vitalcheck/internal/models"

const (
	progressScale    = 10
	progressComplete = 100
)

// BuildProgressPoint rescales a check-in's scores onto 0-100 for trend charts.
// Nothing is computed beyond the rescaling.
func BuildProgressPoint(checkIn models.CheckIn) models.ProgressPoint {
	point := models.ProgressPoint{
		UserID:          checkIn.UserID,
		Date:            checkIn.Date,
		MedicationScore: checkIn.AdherenceScore * progressScale,
		MoodScore:       recordedScale(checkIn.Mood) * progressScale,
		SleepScore:      recordedScale(checkIn.SleepQuality) * progressScale,
		OverallScore:    checkIn.OverallWellness * progressScale,
	}
	if checkIn.IsFinalized() {
		point.CheckInCompletion = progressComplete
	}
	if checkIn.ExerciseCompleted {
		point.ExerciseScore = progressComplete
	}
	return point
}
