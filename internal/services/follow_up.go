package services

import (
	"strings"

	"github.com/terraincognita07/vitalcheck/internal/models"
)

const (
	emergencyPainThreshold   = 9
	emergencyFeverFahrenheit = 102.0
)

// emergencyConcernKeywords are matched as plain substrings of lower-cased concern text.
// Recall matters more than precision here.
var emergencyConcernKeywords = []string{"emergency", "urgent"}

type FollowUp struct {
	NeedsFollowUp  bool `json:"needs_follow_up"`
	EmergencyAlert bool `json:"emergency_alert"`
}

func ClassifyFollowUp(checkIn models.CheckIn, flags FlagSet) FollowUp {
	needsFollowUp := len(flags.Red) > 0 ||
		len(checkIn.UrgentConcerns) > 0 ||
		len(checkIn.AppointmentRequests) > 0

	emergency := recordedScale(checkIn.PainLevel) >= emergencyPainThreshold
	if temperature := checkIn.Temperature; temperature != nil && *temperature > emergencyFeverFahrenheit {
		emergency = true
	}
	if !emergency {
		emergency = ConcernsMentionEmergency(checkIn.UrgentConcerns)
	}

	return FollowUp{
		NeedsFollowUp:  needsFollowUp,
		EmergencyAlert: emergency,
	}
}

func ConcernsMentionEmergency(concerns []string) bool {
	for _, concern := range concerns {
		lowered := strings.ToLower(concern)
		for _, keyword := range emergencyConcernKeywords {
			if strings.Contains(lowered, keyword) {
				return true
			}
		}
	}
	return false
}
