package models

import "time"

// ProgressPoint is one day of a user's trend series, every score on a 0-100 scale.
type ProgressPoint struct {
	ID                uint      `gorm:"primaryKey" json:"-"`
	UserID            uint      `gorm:"not null;uniqueIndex:uidx_progress_user_date" json:"-"`
	Date              time.Time `gorm:"type:date;not null;uniqueIndex:uidx_progress_user_date" json:"date"`
	CheckInCompletion int       `gorm:"not null;default:0" json:"check_in_completion"`
	MedicationScore   int       `gorm:"not null;default:0" json:"medication_score"`
	ExerciseScore     int       `gorm:"not null;default:0" json:"exercise_score"`
	MoodScore         int       `gorm:"not null;default:0" json:"mood_score"`
	SleepScore        int       `gorm:"not null;default:0" json:"sleep_score"`
	OverallScore      int       `gorm:"not null;default:0" json:"overall_score"`
	UpdatedAt         time.Time `json:"-"`
}
