package services

import "github.com/terraincognita07/vitalcheck/internal/models"

const (
	severePainThreshold      = 8
	moderatePainThreshold    = 6
	managedPainThreshold     = 3
	veryLowMoodThreshold     = 3
	lowMoodThreshold         = 5
	positiveMoodThreshold    = 8
	highAnxietyThreshold     = 8
	lowEnergyThreshold       = 3
	restfulSleepQuality      = 7
	severeSleepHours         = 4.0
	shortSleepHours          = 6.0
	restfulSleepHours        = 8.0
	lowWaterIntake           = 6
	hydrationGoalIntake      = 8
	feverThresholdFahrenheit = 101.5
)

// Flag is a threshold hit. Code is stable for lookups and translation, Message is what gets stored.
type Flag struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type FlagSet struct {
	Red          []Flag `json:"red"`
	Yellow       []Flag `json:"yellow"`
	Achievements []Flag `json:"achievements"`
}

var (
	FlagSeverePain       = Flag{Code: "severe_pain", Message: "Severe pain reported"}
	FlagVeryLowMood      = Flag{Code: "very_low_mood", Message: "Very low mood reported"}
	FlagHighAnxiety      = Flag{Code: "high_anxiety", Message: "High anxiety reported"}
	FlagMedicationsNone  = Flag{Code: "medications_not_taken", Message: "Medications not taken"}
	FlagSevereSleepLoss  = Flag{Code: "severe_sleep_loss", Message: "Severely insufficient sleep"}
	FlagHighFever        = Flag{Code: "high_fever", Message: "High fever reported"}
	FlagUrgentConcerns   = Flag{Code: "urgent_concerns", Message: "Urgent concerns reported"}
	FlagModeratePain     = Flag{Code: "moderate_pain", Message: "Moderate pain reported"}
	FlagLowMood          = Flag{Code: "low_mood", Message: "Low mood reported"}
	FlagMedicationsSome  = Flag{Code: "medications_missed", Message: "Some medications missed"}
	FlagShortSleep       = Flag{Code: "short_sleep", Message: "Insufficient sleep"}
	FlagLowWater         = Flag{Code: "low_water_intake", Message: "Low water intake"}
	FlagLowEnergy        = Flag{Code: "low_energy", Message: "Low energy reported"}
	AchievementAdherence = Flag{Code: "perfect_adherence", Message: "Perfect medication adherence"}
	AchievementSleep     = Flag{Code: "restful_sleep", Message: "Restful night's sleep"}
	AchievementHydration = Flag{Code: "hydration_goal", Message: "Hydration goal reached"}
	AchievementExercise  = Flag{Code: "exercise_completed", Message: "Exercise completed"}
	AchievementMood      = Flag{Code: "positive_mood", Message: "Positive mood"}
	AchievementPain      = Flag{Code: "pain_managed", Message: "Pain well managed"}
)

// DetectFlags runs every threshold rule independently. Rules are appended in priority
// order (pain, mood, anxiety, adherence, sleep, vitals, concerns) and a value that was
// not recorded never triggers anything. A signal in the red range is not repeated as yellow.
func DetectFlags(checkIn models.CheckIn) FlagSet {
	flags := FlagSet{
		Red:          []Flag{},
		Yellow:       []Flag{},
		Achievements: []Flag{},
	}

	pain := recordedScale(checkIn.PainLevel)
	switch {
	case pain >= severePainThreshold:
		flags.Red = append(flags.Red, FlagSeverePain)
	case pain >= moderatePainThreshold:
		flags.Yellow = append(flags.Yellow, FlagModeratePain)
	}

	mood := recordedScale(checkIn.Mood)
	if mood != 0 {
		switch {
		case mood <= veryLowMoodThreshold:
			flags.Red = append(flags.Red, FlagVeryLowMood)
		case mood <= lowMoodThreshold:
			flags.Yellow = append(flags.Yellow, FlagLowMood)
		}
	}

	if recordedScale(checkIn.AnxietyLevel) >= highAnxietyThreshold {
		flags.Red = append(flags.Red, FlagHighAnxiety)
	}

	switch checkIn.MedicationAdherence {
	case models.AdherenceNone:
		flags.Red = append(flags.Red, FlagMedicationsNone)
	case models.AdherenceSome:
		flags.Yellow = append(flags.Yellow, FlagMedicationsSome)
	}

	if hours := checkIn.SleepHours; hours != nil {
		switch {
		case *hours < severeSleepHours:
			flags.Red = append(flags.Red, FlagSevereSleepLoss)
		case *hours < shortSleepHours:
			flags.Yellow = append(flags.Yellow, FlagShortSleep)
		}
	}

	if water := checkIn.WaterIntake; water != nil && *water < lowWaterIntake {
		flags.Yellow = append(flags.Yellow, FlagLowWater)
	}

	if energy := recordedScale(checkIn.EnergyLevel); energy != 0 && energy <= lowEnergyThreshold {
		flags.Yellow = append(flags.Yellow, FlagLowEnergy)
	}

	if temperature := checkIn.Temperature; temperature != nil && *temperature > feverThresholdFahrenheit {
		flags.Red = append(flags.Red, FlagHighFever)
	}

	if len(checkIn.UrgentConcerns) > 0 {
		flags.Red = append(flags.Red, FlagUrgentConcerns)
	}

	if checkIn.MedicationAdherence == models.AdherenceAll {
		flags.Achievements = append(flags.Achievements, AchievementAdherence)
	}
	if hours := checkIn.SleepHours; hours != nil && *hours >= restfulSleepHours && recordedScale(checkIn.SleepQuality) >= restfulSleepQuality {
		flags.Achievements = append(flags.Achievements, AchievementSleep)
	}
	if water := checkIn.WaterIntake; water != nil && *water >= hydrationGoalIntake {
		flags.Achievements = append(flags.Achievements, AchievementHydration)
	}
	if checkIn.ExerciseCompleted {
		flags.Achievements = append(flags.Achievements, AchievementExercise)
	}
	if mood >= positiveMoodThreshold {
		flags.Achievements = append(flags.Achievements, AchievementMood)
	}
	if pain != 0 && pain <= managedPainThreshold {
		flags.Achievements = append(flags.Achievements, AchievementPain)
	}

	return flags
}

func FlagMessages(flags []Flag) []string {
	messages := make([]string, 0, len(flags))
	for _, flag := range flags {
		messages = append(messages, flag.Message)
	}
	return messages
}

// recordedScale keeps 0 as "not recorded" and clamps everything else into the scale.
func recordedScale(raw int) int {
	if raw == 0 {
		return 0
	}
	return ClampScale(raw)
}
