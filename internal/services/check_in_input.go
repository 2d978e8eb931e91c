package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/terraincognita07/vitalcheck/internal/models"
)

const (
	MaxCheckInNotesLength = 2000
	maxFreeTextItems      = 20
	maxFreeTextLength     = 500
)

var (
	ErrInvalidAdherenceCategory = errors.New("invalid adherence category")
	ErrInvalidMealPlanCategory  = errors.New("invalid meal plan category")
)

var symptomVocabulary = []string{
	"headache", "nausea", "dizziness", "fever", "chills", "cough", "shortness_of_breath",
	"chest_pain", "swelling", "bleeding", "rash", "fatigue", "insomnia", "constipation",
	"diarrhea", "loss_of_appetite",
}

var emotionalStateVocabulary = []string{
	"calm", "happy", "hopeful", "grateful", "anxious", "sad", "irritable", "overwhelmed",
	"lonely", "frustrated",
}

func SymptomVocabulary() []string {
	return append([]string(nil), symptomVocabulary...)
}

func EmotionalStateVocabulary() []string {
	return append([]string(nil), emotionalStateVocabulary...)
}

// DraftSection is one form step of a check-in. Sections only copy their own fields.
type DraftSection interface {
	applyTo(checkIn *models.CheckIn) error
}

type PhysicalInput struct {
	Symptoms      []string `json:"symptoms"`
	PainLevel     int      `json:"pain_level"`
	EnergyLevel   int      `json:"energy_level"`
	FatigueLevel  int      `json:"fatigue_level"`
	MobilityLevel int      `json:"mobility_level"`
}

func (input PhysicalInput) applyTo(checkIn *models.CheckIn) error {
	checkIn.Symptoms = NormalizeVocabulary(input.Symptoms, symptomVocabulary)
	checkIn.PainLevel = input.PainLevel
	checkIn.EnergyLevel = input.EnergyLevel
	checkIn.FatigueLevel = input.FatigueLevel
	checkIn.MobilityLevel = input.MobilityLevel
	return nil
}

type MentalInput struct {
	Mood            int      `json:"mood"`
	StressLevel     int      `json:"stress_level"`
	AnxietyLevel    int      `json:"anxiety_level"`
	MotivationLevel int      `json:"motivation_level"`
	EmotionalStates []string `json:"emotional_states"`
}

func (input MentalInput) applyTo(checkIn *models.CheckIn) error {
	checkIn.Mood = input.Mood
	checkIn.StressLevel = input.StressLevel
	checkIn.AnxietyLevel = input.AnxietyLevel
	checkIn.MotivationLevel = input.MotivationLevel
	checkIn.EmotionalStates = NormalizeVocabulary(input.EmotionalStates, emotionalStateVocabulary)
	return nil
}

type MedicationInput struct {
	Adherence          string             `json:"adherence"`
	Doses              []models.DoseEntry `json:"doses"`
	SideEffects        []string           `json:"side_effects"`
	SideEffectSeverity int                `json:"side_effect_severity"`
}

func (input MedicationInput) applyTo(checkIn *models.CheckIn) error {
	adherence := strings.ToLower(strings.TrimSpace(input.Adherence))
	if !IsValidAdherenceCategory(adherence) {
		return ErrInvalidAdherenceCategory
	}
	checkIn.MedicationAdherence = adherence
	checkIn.DoseEntries = normalizeDoseEntries(input.Doses)
	checkIn.SideEffects = NormalizeFreeText(input.SideEffects)
	checkIn.SideEffectSeverity = input.SideEffectSeverity
	return nil
}

type NutritionInput struct {
	MealPlanAdherence string `json:"meal_plan_adherence"`
	WaterIntake       *int   `json:"water_intake"`
	HydrationLevel    int    `json:"hydration_level"`
}

func (input NutritionInput) applyTo(checkIn *models.CheckIn) error {
	mealPlan := strings.ToLower(strings.TrimSpace(input.MealPlanAdherence))
	if !IsValidAdherenceCategory(mealPlan) {
		return ErrInvalidMealPlanCategory
	}
	checkIn.MealPlanAdherence = mealPlan
	checkIn.WaterIntake = nonNegativeInt(input.WaterIntake)
	checkIn.HydrationLevel = input.HydrationLevel
	return nil
}

type SleepInput struct {
	Quality       int      `json:"quality"`
	Hours         *float64 `json:"hours"`
	Interruptions int      `json:"interruptions"`
}

func (input SleepInput) applyTo(checkIn *models.CheckIn) error {
	checkIn.SleepQuality = input.Quality
	checkIn.SleepHours = nonNegativeFloat(input.Hours)
	checkIn.SleepInterruptions = max(input.Interruptions, 0)
	return nil
}

type ActivityInput struct {
	ExerciseCompleted bool `json:"exercise_completed"`
	ExerciseMinutes   int  `json:"exercise_minutes"`
}

func (input ActivityInput) applyTo(checkIn *models.CheckIn) error {
	checkIn.ExerciseCompleted = input.ExerciseCompleted
	checkIn.ExerciseMinutes = max(input.ExerciseMinutes, 0)
	return nil
}

type VitalsInput struct {
	Temperature *float64 `json:"temperature"`
}

func (input VitalsInput) applyTo(checkIn *models.CheckIn) error {
	if input.Temperature == nil {
		checkIn.Temperature = nil
		return nil
	}
	temperature := *input.Temperature
	checkIn.Temperature = &temperature
	return nil
}

type CareTeamInput struct {
	Notes               string   `json:"notes"`
	UrgentConcerns      []string `json:"urgent_concerns"`
	AppointmentRequests []string `json:"appointment_requests"`
}

func (input CareTeamInput) applyTo(checkIn *models.CheckIn) error {
	checkIn.Notes = TrimCheckInNotes(strings.TrimSpace(input.Notes))
	checkIn.UrgentConcerns = NormalizeUrgentConcerns(input.UrgentConcerns)
	checkIn.AppointmentRequests = NormalizeFreeText(input.AppointmentRequests)
	return nil
}

func IsValidAdherenceCategory(category string) bool {
	switch category {
	case "", models.AdherenceAll, models.AdherenceSome, models.AdherenceNone:
		return true
	default:
		return false
	}
}

// NormalizeVocabulary lower-cases entries, drops anything outside the vocabulary and
// removes duplicates keeping the first occurrence.
func NormalizeVocabulary(values []string, vocabulary []string) []string {
	known := lo.Filter(values, func(value string, _ int) bool {
		return lo.Contains(vocabulary, normalizeTag(value))
	})
	return lo.Uniq(lo.Map(known, func(value string, _ int) string {
		return normalizeTag(value)
	}))
}

// NormalizeFreeText trims entries, drops blanks and caps both item count and length in runes.
func NormalizeFreeText(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		cleaned = append(cleaned, TruncateRunes(trimmed, maxFreeTextLength))
		if len(cleaned) == maxFreeTextItems {
			break
		}
	}
	return cleaned
}

// NormalizeUrgentConcerns trims entries and drops blanks. Concerns are never cut:
// the emergency keyword scan has to see the whole text.
func NormalizeUrgentConcerns(values []string) []string {
	return lo.FilterMap(values, func(value string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(value)
		return trimmed, trimmed != ""
	})
}

func TrimCheckInNotes(value string) string {
	return TruncateRunes(value, MaxCheckInNotesLength)
}

// TruncateRunes cuts value to at most limit runes without splitting a character.
func TruncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	return string([]rune(value)[:limit])
}

func normalizeTag(value string) string {
	tag := strings.ToLower(strings.TrimSpace(value))
	return strings.ReplaceAll(tag, " ", "_")
}

func normalizeDoseEntries(entries []models.DoseEntry) []models.DoseEntry {
	normalized := make([]models.DoseEntry, 0, len(entries))
	for _, entry := range entries {
		name := strings.TrimSpace(entry.Medication)
		if name == "" {
			continue
		}
		normalized = append(normalized, models.DoseEntry{
			Medication: name,
			Time:       strings.TrimSpace(entry.Time),
			Taken:      entry.Taken,
		})
	}
	return normalized
}

func nonNegativeInt(value *int) *int {
	if value == nil {
		return nil
	}
	normalized := max(*value, 0)
	return &normalized
}

func nonNegativeFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	normalized := max(*value, 0)
	return &normalized
}
