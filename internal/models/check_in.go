package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CheckInStatusDraft     = "draft"
	CheckInStatusFinalized = "finalized"
)

const (
	AdherenceAll  = "all"
	AdherenceSome = "some"
	AdherenceNone = "none"
)

// DoseEntry is a self-reported dose inside a check-in, independent of scheduled DoseEvents.
type DoseEntry struct {
	Medication string `json:"medication"`
	Time       string `json:"time"`
	Taken      bool   `json:"taken"`
}

type CheckIn struct {
	ID          uuid.UUID  `gorm:"type:text;primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:uidx_check_in_user_date" json:"user_id"`
	Date        time.Time  `gorm:"type:date;not null;uniqueIndex:uidx_check_in_user_date" json:"date"`
	Status      string     `gorm:"not null;default:draft" json:"status"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`

	Symptoms      []string `gorm:"serializer:json" json:"symptoms"`
	PainLevel     int      `gorm:"not null;default:0" json:"pain_level"`
	EnergyLevel   int      `gorm:"not null;default:0" json:"energy_level"`
	FatigueLevel  int      `gorm:"not null;default:0" json:"fatigue_level"`
	MobilityLevel int      `gorm:"not null;default:0" json:"mobility_level"`

	Mood            int      `gorm:"not null;default:0" json:"mood"`
	StressLevel     int      `gorm:"not null;default:0" json:"stress_level"`
	AnxietyLevel    int      `gorm:"not null;default:0" json:"anxiety_level"`
	MotivationLevel int      `gorm:"not null;default:0" json:"motivation_level"`
	EmotionalStates []string `gorm:"serializer:json" json:"emotional_states"`

	MedicationAdherence string      `gorm:"not null;default:''" json:"medication_adherence"`
	DoseEntries         []DoseEntry `gorm:"serializer:json" json:"dose_entries"`
	SideEffects         []string    `gorm:"serializer:json" json:"side_effects"`
	SideEffectSeverity  int         `gorm:"not null;default:0" json:"side_effect_severity"`

	MealPlanAdherence string `gorm:"not null;default:''" json:"meal_plan_adherence"`
	WaterIntake       *int   `json:"water_intake"`
	HydrationLevel    int    `gorm:"not null;default:0" json:"hydration_level"`

	SleepQuality       int      `gorm:"not null;default:0" json:"sleep_quality"`
	SleepHours         *float64 `json:"sleep_hours"`
	SleepInterruptions int      `gorm:"not null;default:0" json:"sleep_interruptions"`

	ExerciseCompleted bool `gorm:"not null;default:false" json:"exercise_completed"`
	ExerciseMinutes   int  `gorm:"not null;default:0" json:"exercise_minutes"`

	Temperature *float64 `json:"temperature"`

	Notes               string   `json:"notes"`
	UrgentConcerns      []string `gorm:"serializer:json" json:"urgent_concerns"`
	AppointmentRequests []string `gorm:"serializer:json" json:"appointment_requests"`

	OverallWellness int      `gorm:"not null;default:0" json:"overall_wellness"`
	PhysicalScore   int      `gorm:"not null;default:0" json:"physical_score"`
	MentalScore     int      `gorm:"not null;default:0" json:"mental_score"`
	AdherenceScore  int      `gorm:"not null;default:0" json:"adherence_score"`
	RecoveryScore   int      `gorm:"not null;default:0" json:"recovery_score"`
	RedFlags        []string `gorm:"serializer:json" json:"red_flags"`
	YellowFlags     []string `gorm:"serializer:json" json:"yellow_flags"`
	Achievements    []string `gorm:"serializer:json" json:"achievements"`
	NeedsFollowUp   bool     `gorm:"not null;default:false" json:"needs_follow_up"`
	EmergencyAlert  bool     `gorm:"not null;default:false" json:"emergency_alert"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (checkIn *CheckIn) BeforeCreate(tx *gorm.DB) error {
	if checkIn.ID == uuid.Nil {
		checkIn.ID = uuid.New()
	}
	return nil
}

func (checkIn *CheckIn) IsFinalized() bool {
	return checkIn.Status == CheckInStatusFinalized
}
