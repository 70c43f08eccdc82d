package dto

import (
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/domain/calendar"
)

// CreateEventRequest represents a new calendar event
type CreateEventRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description,omitempty" validate:"max=1000"`
	StartDate   string   `json:"startDate" validate:"required,isodate"`
	EndDate     string   `json:"endDate" validate:"required,isodate"`
	Type        string   `json:"type,omitempty" validate:"omitempty,oneof=meeting task reminder other"`
	Priority    string   `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	IsAllDay    bool     `json:"isAllDay"`
	Location    string   `json:"location,omitempty" validate:"max=200"`
	Attendees   []string `json:"attendees,omitempty" validate:"omitempty,dive,max=200"`
	Notes       string   `json:"notes,omitempty" validate:"max=2000"`
}

// ToEvent builds the domain record from validated dates
func (r CreateEventRequest) ToEvent(userID string, start, end time.Time) *calendar.Event {
	return &calendar.Event{
		UserID:      userID,
		Title:       r.Title,
		Description: r.Description,
		StartDate:   start,
		EndDate:     end,
		Type:        r.Type,
		Priority:    r.Priority,
		IsAllDay:    r.IsAllDay,
		Location:    r.Location,
		Attendees:   r.Attendees,
		Notes:       r.Notes,
	}
}

// UpdateEventRequest represents a partial event edit
type UpdateEventRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	StartDate   *string  `json:"startDate,omitempty" validate:"omitempty,isodate"`
	EndDate     *string  `json:"endDate,omitempty" validate:"omitempty,isodate"`
	Type        *string  `json:"type,omitempty" validate:"omitempty,oneof=meeting task reminder other"`
	Priority    *string  `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	IsAllDay    *bool    `json:"isAllDay,omitempty"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=200"`
	Attendees   []string `json:"attendees,omitempty" validate:"omitempty,dive,max=200"`
	Notes       *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ToUpdate builds the domain edit from parsed dates
func (r UpdateEventRequest) ToUpdate(start, end *time.Time) calendar.Update {
	return calendar.Update{
		Title:       r.Title,
		Description: r.Description,
		StartDate:   start,
		EndDate:     end,
		Type:        r.Type,
		Priority:    r.Priority,
		IsAllDay:    r.IsAllDay,
		Location:    r.Location,
		Attendees:   r.Attendees,
		Notes:       r.Notes,
	}
}
