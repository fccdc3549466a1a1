package schedule

import (
	"testing"
	"time"

	"office_climate/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIsWithinSchedule_Boundaries(t *testing.T) {
	t.Parallel()

	intervals := []models.Interval{{DayOfWeek: 1, StartTimeMinutes: 540, EndTimeMinutes: 1020}}

	cases := []struct {
		minute int
		want   bool
	}{
		{539, false},
		{540, true},
		{1019, true},
		{1020, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, IsWithinSchedule(intervals, 1, tc.minute), "minute %d", tc.minute)
	}
}

func TestIsWithinSchedule_OtherDayAndEmpty(t *testing.T) {
	t.Parallel()

	intervals := []models.Interval{{DayOfWeek: 1, StartTimeMinutes: 540, EndTimeMinutes: 1020}}
	assert.False(t, IsWithinSchedule(intervals, 0, 600))
	assert.False(t, IsWithinSchedule(intervals, 2, 600))
	assert.False(t, IsWithinSchedule(nil, 1, 600))
}

func TestIsWithinSchedule_OverlapIsSingleTrue(t *testing.T) {
	t.Parallel()

	intervals := []models.Interval{
		{DayOfWeek: 3, StartTimeMinutes: 480, EndTimeMinutes: 720},
		{DayOfWeek: 3, StartTimeMinutes: 600, EndTimeMinutes: 900},
	}
	assert.True(t, IsWithinSchedule(intervals, 3, 650))
	assert.True(t, IsWithinSchedule(intervals, 3, 500))
	assert.True(t, IsWithinSchedule(intervals, 3, 720))
	assert.False(t, IsWithinSchedule(intervals, 3, 900))
}

func TestIsWithinSchedule_EndOfDay(t *testing.T) {
	t.Parallel()

	intervals := []models.Interval{{DayOfWeek: 6, StartTimeMinutes: 1320, EndTimeMinutes: MinutesPerDay}}
	assert.True(t, IsWithinSchedule(intervals, 6, 1439))
	assert.False(t, IsWithinSchedule(intervals, 0, 0))
}

func TestWeekPosition_UsesUTC(t *testing.T) {
	t.Parallel()

	// 2024-01-01 is a Monday. 01:30 in UTC+3 is Sunday 22:30 UTC.
	loc := time.FixedZone("UTC+3", 3*60*60)
	day, minute := WeekPosition(time.Date(2024, 1, 1, 1, 30, 0, 0, loc))
	assert.Equal(t, 0, day)
	assert.Equal(t, 22*60+30, minute)

	day, minute = WeekPosition(time.Date(2024, 1, 1, 10, 0, 59, 0, time.UTC))
	assert.Equal(t, 1, day)
	assert.Equal(t, 600, minute)
}
