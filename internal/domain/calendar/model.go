package calendar

import (
	"errors"
	"time"
)

// Event types
const (
	TypeMeeting  = "meeting"
	TypeTask     = "task"
	TypeReminder = "reminder"
	TypeOther    = "other"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// UpcomingLimit caps the upcoming-events view.
const UpcomingLimit = 10

// ErrInvalidRange is returned when an event does not end after it starts.
var ErrInvalidRange = errors.New("endDate must be after startDate")

// Event is a calendar entry. StartDate is strictly before EndDate.
type Event struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Type        string    `json:"type"`
	Priority    string    `json:"priority"`
	IsAllDay    bool      `json:"isAllDay"`
	Location    string    `json:"location,omitempty"`
	Attendees   []string  `json:"attendees"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CheckRange truncates both ends to the whole seconds that are stored and
// enforces start < end on the result.
func (e *Event) CheckRange() error {
	e.StartDate = e.StartDate.Truncate(time.Second)
	e.EndDate = e.EndDate.Truncate(time.Second)
	if !e.StartDate.Before(e.EndDate) {
		return ErrInvalidRange
	}
	return nil
}

// Update carries a partial edit; nil fields are left unchanged
type Update struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Type        *string
	Priority    *string
	IsAllDay    *bool
	Location    *string
	Attendees   []string
	Notes       *string
}

// Apply merges u into e and checks the merged range.
func (e *Event) Apply(u Update) error {
	merged := *e
	if u.Title != nil {
		merged.Title = *u.Title
	}
	if u.Description != nil {
		merged.Description = *u.Description
	}
	if u.StartDate != nil {
		merged.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		merged.EndDate = *u.EndDate
	}
	if u.Type != nil {
		merged.Type = *u.Type
	}
	if u.Priority != nil {
		merged.Priority = *u.Priority
	}
	if u.IsAllDay != nil {
		merged.IsAllDay = *u.IsAllDay
	}
	if u.Location != nil {
		merged.Location = *u.Location
	}
	if u.Attendees != nil {
		merged.Attendees = u.Attendees
	}
	if u.Notes != nil {
		merged.Notes = *u.Notes
	}
	if err := merged.CheckRange(); err != nil {
		return err
	}
	*e = merged
	return nil
}

// Filter narrows an event listing; the date range applies to StartDate
type Filter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      string
	Priority  string
	Limit     int
}
