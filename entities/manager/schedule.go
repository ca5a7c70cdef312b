package manager

import (
	"time"

	helper "github.com/pkowalke/algohost/entities/signaler/strategy_helper"
)

// equity market open, exchange-local
const (
	marketOpenHour   = 9
	marketOpenMinute = 30
)

// scheduleState tracks one ScheduleRule's firing history so each rule fires
// at most once per day (EveryDay) or per calendar month (MonthStart), and
// never before the open plus the rule's offset.
type scheduleState struct {
	rule      helper.ScheduleRule
	loc       *time.Location
	lastFired time.Time
}

func newScheduleState(rule helper.ScheduleRule, loc *time.Location) *scheduleState {
	return &scheduleState{rule: rule, loc: loc}
}

// target is the rule's firing moment for the day containing t.
func (s *scheduleState) target(t time.Time) time.Time {
	local := t.In(s.loc)
	open := time.Date(local.Year(), local.Month(), local.Day(), marketOpenHour, marketOpenMinute, 0, 0, s.loc)
	return open.Add(time.Duration(s.rule.Time.AfterOpenMinutes) * time.Minute)
}

// Due reports whether the rule should fire at time t.
func (s *scheduleState) Due(t time.Time) bool {
	local := t.In(s.loc)
	if local.Before(s.target(t)) {
		return false
	}
	if s.lastFired.IsZero() {
		return true
	}
	last := s.lastFired.In(s.loc)
	switch s.rule.Date {
	case helper.MonthStart:
		return last.Year() != local.Year() || last.Month() != local.Month()
	default: // EveryDay
		ly, lm, ld := last.Date()
		cy, cm, cd := local.Date()
		return ly != cy || lm != cm || ld != cd
	}
}

func (s *scheduleState) MarkFired(t time.Time) {
	s.lastFired = t
}

// exchangeLocation resolves the exchange timezone, falling back to UTC when
// the zone database is unavailable.
func exchangeLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}
