// Package market provides the exchange session clock used to decide when
// sell orders may execute: regular US equity hours, weekends and exchange
// holidays excluded.
package market

import (
	"time"
)

// Session hours in exchange-local time (America/New_York).
const (
	OpenHour    = 9
	OpenMinute  = 30
	CloseHour   = 16
	CloseMinute = 0
)

// Status describes the session at a point in time.
type Status struct {
	Open      bool      `json:"open"`
	At        time.Time `json:"at"`
	NextOpen  time.Time `json:"next_open"`
	NextClose time.Time `json:"next_close"`
}

// Clock answers session questions for the US equity market.
type Clock struct {
	loc      *time.Location
	holidays map[string]bool
}

// NewClock builds a Clock for America/New_York with the bundled holiday
// calendar.
func NewClock() *Clock {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// EST without DST. Wrong for half the year but keeps the
		// process alive on hosts with no tzdata.
		loc = time.FixedZone("EST", -5*3600)
	}
	c := &Clock{loc: loc, holidays: make(map[string]bool, len(usMarketHolidays))}
	for _, h := range usMarketHolidays {
		c.holidays[dateKey(time.Date(h.year, h.month, h.day, 0, 0, 0, 0, loc))] = true
	}
	return c
}

// IsOpen reports whether the regular session is trading at t.
func (c *Clock) IsOpen(t time.Time) bool {
	local := t.In(c.loc)
	if !c.IsTradingDay(local) {
		return false
	}
	hm := local.Hour()*60 + local.Minute()
	return hm >= OpenHour*60+OpenMinute && hm < CloseHour*60+CloseMinute
}

// IsTradingDay reports whether t falls on a weekday that is not a holiday.
func (c *Clock) IsTradingDay(t time.Time) bool {
	local := t.In(c.loc)
	wd := local.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !c.holidays[dateKey(local)]
}

// NextOpen returns the next session open at or after t. If t is before
// today's open on a trading day, today's open is returned.
func (c *Clock) NextOpen(t time.Time) time.Time {
	local := t.In(c.loc)

	todayOpen := time.Date(local.Year(), local.Month(), local.Day(), OpenHour, OpenMinute, 0, 0, c.loc)
	if local.Before(todayOpen) && c.IsTradingDay(local) {
		return todayOpen
	}

	d := local.AddDate(0, 0, 1)
	for i := 0; i < 14; i++ {
		if c.IsTradingDay(d) {
			return time.Date(d.Year(), d.Month(), d.Day(), OpenHour, OpenMinute, 0, 0, c.loc)
		}
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(local.Year(), local.Month(), local.Day()+1, OpenHour, OpenMinute, 0, 0, c.loc)
}

// NextClose returns the close of the session t belongs to, or of the next
// session when the market is closed at t.
func (c *Clock) NextClose(t time.Time) time.Time {
	local := t.In(c.loc)
	if c.IsOpen(local) {
		return time.Date(local.Year(), local.Month(), local.Day(), CloseHour, CloseMinute, 0, 0, c.loc)
	}
	open := c.NextOpen(local)
	return time.Date(open.Year(), open.Month(), open.Day(), CloseHour, CloseMinute, 0, 0, c.loc)
}

// Status snapshots the session state at t.
func (c *Clock) Status(t time.Time) Status {
	return Status{
		Open:      c.IsOpen(t),
		At:        t.UTC(),
		NextOpen:  c.NextOpen(t).UTC(),
		NextClose: c.NextClose(t).UTC(),
	}
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
