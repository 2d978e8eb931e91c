package services

import (
	"testing"

	"github.com/terraincognita07/vitalcheck/internal/models"
)

func TestClassifyFollowUp(t *testing.T) {
	normal := models.CheckIn{
		PainLevel:           2,
		Mood:                7,
		MedicationAdherence: models.AdherenceAll,
		SleepHours:          floatPtr(8),
	}

	tests := []struct {
		name          string
		mutate        func(checkIn *models.CheckIn)
		wantFollowUp  bool
		wantEmergency bool
	}{
		{name: "normal day", mutate: func(*models.CheckIn) {}},
		{
			name:          "emergency concern text",
			mutate:        func(c *models.CheckIn) { c.UrgentConcerns = []string{"possible emergency bleeding"} },
			wantFollowUp:  true,
			wantEmergency: true,
		},
		{
			name:          "urgent keyword is case-insensitive",
			mutate:        func(c *models.CheckIn) { c.UrgentConcerns = []string{"Need URGENT advice"} },
			wantFollowUp:  true,
			wantEmergency: true,
		},
		{
			name:         "plain concern",
			mutate:       func(c *models.CheckIn) { c.UrgentConcerns = []string{"rash on arm"} },
			wantFollowUp: true,
		},
		{
			name:         "appointment request",
			mutate:       func(c *models.CheckIn) { c.AppointmentRequests = []string{"physio"} },
			wantFollowUp: true,
		},
		{
			name:          "pain nine",
			mutate:        func(c *models.CheckIn) { c.PainLevel = 9 },
			wantFollowUp:  true,
			wantEmergency: true,
		},
		{
			name:         "pain eight is red but not emergency",
			mutate:       func(c *models.CheckIn) { c.PainLevel = 8 },
			wantFollowUp: true,
		},
		{
			name:          "very high fever",
			mutate:        func(c *models.CheckIn) { c.Temperature = floatPtr(102.5) },
			wantFollowUp:  true,
			wantEmergency: true,
		},
		{
			name:         "fever at emergency boundary",
			mutate:       func(c *models.CheckIn) { c.Temperature = floatPtr(102.0) },
			wantFollowUp: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkIn := normal
			tt.mutate(&checkIn)

			got := ClassifyFollowUp(checkIn, DetectFlags(checkIn))
			if got.NeedsFollowUp != tt.wantFollowUp {
				t.Fatalf("NeedsFollowUp = %v, want %v", got.NeedsFollowUp, tt.wantFollowUp)
			}
			if got.EmergencyAlert != tt.wantEmergency {
				t.Fatalf("EmergencyAlert = %v, want %v", got.EmergencyAlert, tt.wantEmergency)
			}
		})
	}
}
