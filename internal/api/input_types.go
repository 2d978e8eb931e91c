package api

type scheduleRequest struct {
	Name         string   `json:"name" validate:"required,max=120"`
	Dosage       string   `json:"dosage" validate:"max=120"`
	Times        []string `json:"times" validate:"required,min=1,max=12,dive,datetime=15:04"`
	StartDate    string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	DurationDays int      `json:"duration_days" validate:"gte=0,lte=3650"`
}

type doseTakenRequest struct {
	Taken *bool `json:"taken" validate:"required"`
}
