package db

import "gorm.io/gorm"

type Repositories struct {
	Users     *UserRepository
	CheckIns  *CheckInRepository
	Schedules *MedicationScheduleRepository
	Doses     *DoseEventRepository
	Progress  *ProgressRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(database),
		CheckIns:  NewCheckInRepository(database),
		Schedules: NewMedicationScheduleRepository(database),
		Doses:     NewDoseEventRepository(database),
		Progress:  NewProgressRepository(database),
	}
}
