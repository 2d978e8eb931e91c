package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MedicationSchedule struct {
	ID        uuid.UUID                   `gorm:"type:text;primaryKey" json:"id"`
	UserID    uint                        `gorm:"not null;index" json:"user_id"`
	Name      string                      `gorm:"not null" json:"name"`
	Dosage    string                      `json:"dosage"`
	Times     datatypes.JSONSlice[string] `json:"times"` // sorted "HH:MM"
	StartDate time.Time                   `gorm:"type:date;not null" json:"start_date"`
	EndDate   *time.Time                  `gorm:"type:date" json:"end_date,omitempty"` // inclusive, nil if open-ended
	Active    bool                        `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func (schedule *MedicationSchedule) BeforeCreate(tx *gorm.DB) error {
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	return nil
}

type DoseEvent struct {
	ID            uuid.UUID  `gorm:"type:text;primaryKey" json:"id"`
	ScheduleID    uuid.UUID  `gorm:"type:text;not null;uniqueIndex:uidx_dose_schedule_day_time" json:"schedule_id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	Day           time.Time  `gorm:"type:date;not null;uniqueIndex:uidx_dose_schedule_day_time" json:"day"`
	ScheduledTime string     `gorm:"not null;uniqueIndex:uidx_dose_schedule_day_time" json:"scheduled_time"`
	ScheduledAt   time.Time  `gorm:"not null" json:"scheduled_at"`
	Taken         bool       `gorm:"not null;default:false" json:"taken"`
	TakenAt       *time.Time `json:"taken_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (event *DoseEvent) BeforeCreate(tx *gorm.DB) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return nil
}
