package manager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	helper "github.com/pkowalke/algohost/entities/signaler/strategy_helper"
)

func at(day, hour, min int) time.Time {
	return time.Date(2018, 6, day, hour, min, 0, 0, time.UTC)
}

func TestEveryDayFiresOncePerDayAfterOpen(t *testing.T) {
	s := newScheduleState(helper.ScheduleRule{Date: helper.EveryDay}, time.UTC)

	assert.False(t, s.Due(at(1, 9, 0)), "before the open")
	assert.True(t, s.Due(at(1, 9, 30)), "right at the open")
	s.MarkFired(at(1, 9, 30))

	assert.False(t, s.Due(at(1, 10, 30)), "already fired today")
	assert.False(t, s.Due(at(1, 16, 0)))
	assert.True(t, s.Due(at(2, 9, 30)), "fresh day")
}

func TestAfterOpenOffsetDelaysFiring(t *testing.T) {
	rule := helper.ScheduleRule{Date: helper.EveryDay, Time: helper.TimeRule{AfterOpenMinutes: 30}}
	s := newScheduleState(rule, time.UTC)

	assert.False(t, s.Due(at(1, 9, 45)))
	assert.True(t, s.Due(at(1, 10, 0)))
}

func TestMonthStartFiresOncePerMonth(t *testing.T) {
	s := newScheduleState(helper.ScheduleRule{Date: helper.MonthStart}, time.UTC)

	assert.True(t, s.Due(at(1, 9, 30)))
	s.MarkFired(at(1, 9, 30))

	assert.False(t, s.Due(at(15, 9, 30)), "same month")
	assert.False(t, s.Due(at(29, 9, 30)))

	july := time.Date(2018, 7, 2, 9, 30, 0, 0, time.UTC)
	assert.True(t, s.Due(july), "new month, even mid-week")
	s.MarkFired(july)
	assert.False(t, s.Due(july.AddDate(0, 0, 1)))
}

func TestMonthStartHonorsOpenTime(t *testing.T) {
	s := newScheduleState(helper.ScheduleRule{Date: helper.MonthStart}, time.UTC)
	assert.False(t, s.Due(at(1, 8, 0)), "first of month but pre-open")
}

func TestScheduleUsesExchangeTimezone(t *testing.T) {
	loc := exchangeLocation()
	s := newScheduleState(helper.ScheduleRule{Date: helper.EveryDay}, loc)

	// 13:00 UTC is 9:00 in New York during June: before the open
	utcMorning := time.Date(2018, 6, 1, 13, 0, 0, 0, time.UTC)
	if loc.String() == "America/New_York" {
		assert.False(t, s.Due(utcMorning))
		assert.True(t, s.Due(utcMorning.Add(time.Hour)))
	}
}
