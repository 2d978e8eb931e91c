package services

import (
	"math"

	"github.com/terraincognita07/vitalcheck/internal/models"
)

const (
	scaleMin     = 1
	scaleMax     = 10
	neutralScore = 5
)

// roundingEpsilon absorbs float error from the fixed weights so exact halves still round up.
const roundingEpsilon = 1e-9

const (
	recoveryPhysicalWeight  = 0.30
	recoveryMentalWeight    = 0.25
	recoveryAdherenceWeight = 0.30
	recoverySleepWeight     = 0.15
)

type WellnessScores struct {
	OverallWellness int `json:"overall_wellness"`
	PhysicalScore   int `json:"physical_score"`
	MentalScore     int `json:"mental_score"`
	AdherenceScore  int `json:"adherence_score"`
	RecoveryScore   int `json:"recovery_score"`
}

// ScoreCheckIn derives every 1-10 score of a check-in. Inputs left at 0 were not
// recorded and are skipped; anything else outside the scale is clamped.
func ScoreCheckIn(checkIn models.CheckIn) WellnessScores {
	physical := meanScore(
		invertedScale(checkIn.PainLevel),
		recordedScale(checkIn.EnergyLevel),
		recordedScale(checkIn.MobilityLevel),
		invertedScale(checkIn.FatigueLevel),
	)
	mental := meanScore(
		recordedScale(checkIn.Mood),
		invertedScale(checkIn.StressLevel),
		invertedScale(checkIn.AnxietyLevel),
		recordedScale(checkIn.MotivationLevel),
	)
	adherence := AdherenceScoreForCategory(checkIn.MedicationAdherence)

	sleep := float64(neutralScore)
	if value := recordedScale(checkIn.SleepQuality); value != 0 {
		sleep = float64(value)
	}
	recovery := clampScore(roundHalfUp(
		float64(physical)*recoveryPhysicalWeight +
			float64(mental)*recoveryMentalWeight +
			float64(adherence)*recoveryAdherenceWeight +
			sleep*recoverySleepWeight,
	))

	overall := meanScore(
		recordedScale(checkIn.EnergyLevel),
		recordedScale(checkIn.Mood),
		recordedScale(checkIn.SleepQuality),
		recordedScale(checkIn.HydrationLevel),
		recordedScale(checkIn.MobilityLevel),
	)

	return WellnessScores{
		OverallWellness: overall,
		PhysicalScore:   physical,
		MentalScore:     mental,
		AdherenceScore:  adherence,
		RecoveryScore:   recovery,
	}
}

func AdherenceScoreForCategory(category string) int {
	switch category {
	case models.AdherenceAll:
		return 10
	case models.AdherenceSome:
		return 6
	case models.AdherenceNone:
		return 2
	default:
		return neutralScore
	}
}

// invertedScale flips a recorded value so that higher always means better.
func invertedScale(raw int) int {
	value := recordedScale(raw)
	if value == 0 {
		return 0
	}
	return scaleMax + 1 - value
}

// meanScore averages the recorded values (0 means not recorded) into a 1-10 score.
func meanScore(values ...int) int {
	sum := 0
	count := 0
	for _, value := range values {
		if value == 0 {
			continue
		}
		sum += value
		count++
	}
	if count == 0 {
		return neutralScore
	}
	return clampScore(roundHalfUp(float64(sum) / float64(count)))
}

// ClampScale pins a raw self-report value into the 1-10 scale.
func ClampScale(value int) int {
	if value < scaleMin {
		return scaleMin
	}
	if value > scaleMax {
		return scaleMax
	}
	return value
}

func clampScore(value float64) int {
	return ClampScale(int(value))
}

func roundHalfUp(value float64) float64 {
	return math.Floor(value + 0.5 + roundingEpsilon)
}
