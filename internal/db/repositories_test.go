package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/vitalcheck/internal/models"
)

func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	database := openSQLiteForMigrationBootstrapTest(t, filepath.Join(t.TempDir(), "vitalcheck-repos.db"))
	return NewRepositories(database)
}

func createTestUser(t *testing.T, repos *Repositories, email string) models.User {
	t.Helper()
	user, created, err := repos.Users.FindOrCreateByEmail(email, time.Now())
	require.NoError(t, err)
	require.True(t, created)
	return user
}

func TestUserRepositoryFindOrCreateByEmailIsCaseInsensitive(t *testing.T) {
	repos := newTestRepositories(t)

	first, created, err := repos.Users.FindOrCreateByEmail("  Patient@Example.COM ", time.Now())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "patient@example.com", first.Email)

	second, created, err := repos.Users.FindOrCreateByEmail("patient@example.com", time.Now())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	_, _, err = repos.Users.FindOrCreateByEmail("   ", time.Now())
	assert.Error(t, err)

	loaded, err := repos.Users.FindByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Email, loaded.Email)
}

func TestCheckInRepositoryRoundTripsDayRecord(t *testing.T) {
	repos := newTestRepositories(t)
	user := createTestUser(t, repos, "checkin@example.com")
	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	sleepHours := 6.5

	entry := models.CheckIn{
		UserID:     user.ID,
		Date:       day,
		Status:     models.CheckInStatusDraft,
		PainLevel:  4,
		Symptoms:   []string{"headache"},
		SleepHours: &sleepHours,
	}
	require.NoError(t, repos.CheckIns.Create(&entry))

	found, ok, err := repos.CheckIns.FindByUserAndDayRange(user.ID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.ID, found.ID)
	assert.Equal(t, []string{"headache"}, found.Symptoms)
	require.NotNil(t, found.SleepHours)
	assert.InDelta(t, 6.5, *found.SleepHours, 0.001)
	assert.Nil(t, found.Temperature)

	_, ok, err = repos.CheckIns.FindByUserAndDayRange(user.ID, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.False(t, ok)

	found.Status = models.CheckInStatusFinalized
	require.NoError(t, repos.CheckIns.Save(&found))

	listed, err := repos.CheckIns.ListByUserRange(user.ID, &day, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, models.CheckInStatusFinalized, listed[0].Status)

	duplicate := models.CheckIn{UserID: user.ID, Date: day, Status: models.CheckInStatusDraft}
	assert.Error(t, repos.CheckIns.Create(&duplicate), "one check-in per user and day")
}

func TestDoseEventRepositoryCreateMissingSkipsExistingSlots(t *testing.T) {
	repos := newTestRepositories(t)
	user := createTestUser(t, repos, "doses@example.com")
	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	schedule := models.MedicationSchedule{UserID: user.ID, Name: "Aspirin", Times: []string{"08:00", "20:00"}, StartDate: day, Active: true}
	require.NoError(t, repos.Schedules.Create(&schedule))

	slots := func() []models.DoseEvent {
		return []models.DoseEvent{
			{ScheduleID: schedule.ID, UserID: user.ID, Day: day, ScheduledTime: "08:00", ScheduledAt: day.Add(8 * time.Hour)},
			{ScheduleID: schedule.ID, UserID: user.ID, Day: day, ScheduledTime: "20:00", ScheduledAt: day.Add(20 * time.Hour)},
		}
	}
	require.NoError(t, repos.Doses.CreateMissing(slots()))
	require.NoError(t, repos.Doses.CreateMissing(slots()))

	stored, err := repos.Doses.ListByUserDayRange(user.ID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "08:00", stored[0].ScheduledTime)

	takenAt := day.Add(9 * time.Hour)
	stored[0].Taken = true
	stored[0].TakenAt = &takenAt
	require.NoError(t, repos.Doses.UpdateTaken(&stored[0]))

	reloaded, found, err := repos.Doses.FindByIDForUser(stored[0].ID, user.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, reloaded.Taken)
	require.NotNil(t, reloaded.TakenAt)

	_, found, err = repos.Doses.FindByIDForUser(stored[0].ID, user.ID+1)
	require.NoError(t, err)
	assert.False(t, found)

	pending, err := repos.Doses.ListPendingBetween(day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "20:00", pending[0].ScheduledTime)

	schedules, err := repos.Schedules.ListByIDs([]uuid.UUID{schedule.ID})
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, []string{"08:00", "20:00"}, []string(schedules[0].Times))
}

func TestMedicationScheduleRepositoryScopesByUser(t *testing.T) {
	repos := newTestRepositories(t)
	owner := createTestUser(t, repos, "owner@example.com")
	other := createTestUser(t, repos, "other@example.com")

	schedule := models.MedicationSchedule{UserID: owner.ID, Name: "Metformin", Times: []string{"08:00"}, StartDate: time.Now().UTC(), Active: true}
	require.NoError(t, repos.Schedules.Create(&schedule))

	_, found, err := repos.Schedules.FindByIDForUser(schedule.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, found)

	active, err := repos.Schedules.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, []string{"08:00"}, []string(active[0].Times))

	schedule.Active = false
	require.NoError(t, repos.Schedules.Save(&schedule))
	listed, err := repos.Schedules.ListByUser(owner.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.False(t, listed[0].Active)

	active, err = repos.Schedules.ListActive()
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestProgressRepositoryUpsertReplacesDayPoint(t *testing.T) {
	repos := newTestRepositories(t)
	user := createTestUser(t, repos, "progress@example.com")
	day := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repos.Progress.Upsert(&models.ProgressPoint{UserID: user.ID, Date: day, OverallScore: 40}))
	require.NoError(t, repos.Progress.Upsert(&models.ProgressPoint{UserID: user.ID, Date: day, OverallScore: 75}))
	require.NoError(t, repos.Progress.Upsert(&models.ProgressPoint{UserID: user.ID, Date: day.AddDate(0, 0, 1), OverallScore: 60}))

	from := day
	to := day.AddDate(0, 0, 2)
	points, err := repos.Progress.ListByUserRange(user.ID, &from, &to)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 75, points[0].OverallScore)
	assert.Equal(t, 60, points[1].OverallScore)
}
