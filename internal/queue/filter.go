package queue

import (
	"fmt"
	"strings"
	"time"

	"garageQueue/models"
)

// Mode selects which part of the queue is shown.
type Mode string

const (
	// ModeLive shows same-day orders that are not held over.
	ModeLive Mode = "live"
	// ModeHoldover shows every held-over order regardless of date.
	ModeHoldover Mode = "holdover"
)

// View is the audience of a listing. Admins read the queue oldest first,
// customers newest first.
type View string

const (
	ViewAdmin View = "admin"
	ViewUser  View = "user"
)

// ParseMode accepts live/holdover and the LIVE/MENGINAP labels of the app.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "live":
		return ModeLive, nil
	case "holdover", "menginap":
		return ModeHoldover, nil
	}
	return "", fmt.Errorf("unknown queue mode %q", s)
}

// ParseView accepts admin or user; empty means user.
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "user":
		return ViewUser, nil
	case "admin":
		return ViewAdmin, nil
	}
	return "", fmt.Errorf("unknown queue view %q", s)
}

// Predicate is the read filter handed to the order store.
// Exactly one of Status / ExcludeStatus is set.
type Predicate struct {
	Status        *models.OrderStatus
	ExcludeStatus *models.OrderStatus
	// From and To are inclusive bounds on order_time, nil when unbounded.
	From      *time.Time
	To        *time.Time
	Ascending bool
}

// Filter builds the predicate for a queue listing. The reference date only
// matters in live mode; its time of day is ignored and the day boundaries
// are taken in loc (UTC when nil).
func Filter(mode Mode, date time.Time, view View, loc *time.Location) Predicate {
	holdover := models.OrderStatusHoldover
	p := Predicate{Ascending: view == ViewAdmin}
	if mode == ModeHoldover {
		p.Status = &holdover
		return p
	}
	start, end := DayBounds(date, loc)
	p.ExcludeStatus = &holdover
	p.From = &start
	p.To = &end
	return p
}

// DayBounds returns 00:00:00.000 and 23:59:59.999 of date's calendar day in loc.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end
}

// Matches evaluates the predicate against a single order in memory.
func (p Predicate) Matches(o models.Order) bool {
	if p.Status != nil && o.Status != *p.Status {
		return false
	}
	if p.ExcludeStatus != nil && o.Status == *p.ExcludeStatus {
		return false
	}
	if p.From != nil && o.OrderTime.Before(*p.From) {
		return false
	}
	if p.To != nil && o.OrderTime.After(*p.To) {
		return false
	}
	return true
}
