package client

import (
	"context"
	"net/url"
)

// CalendarService handles calendar calls
type CalendarService struct {
	client *Client
}

// CreateEventRequest schedules an event
type CreateEventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Type        string   `json:"type,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	IsAllDay    bool     `json:"isAllDay"`
	Location    string   `json:"location,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// UpdateEventRequest is a partial edit; nil fields are left unchanged
type UpdateEventRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	StartDate   *string  `json:"startDate,omitempty"`
	EndDate     *string  `json:"endDate,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Priority    *string  `json:"priority,omitempty"`
	IsAllDay    *bool    `json:"isAllDay,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

// EventListOptions filters an event listing by start date, type and priority
type EventListOptions struct {
	StartDate string
	EndDate   string
	Type      string
	Priority  string
}

// List retrieves events ordered by start date
func (s *CalendarService) List(ctx context.Context, opts *EventListOptions) ([]Event, error) {
	query := url.Values{}
	if opts != nil {
		setIf(query, "startDate", opts.StartDate)
		setIf(query, "endDate", opts.EndDate)
		setIf(query, "type", opts.Type)
		setIf(query, "priority", opts.Priority)
	}

	var events []Event
	if err := s.client.doRequest(ctx, "GET", withQuery(apiPrefix+"/calendar", query), nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Get retrieves an event by ID
func (s *CalendarService) Get(ctx context.Context, id string) (*Event, error) {
	var event Event
	if err := s.client.doRequest(ctx, "GET", apiPrefix+"/calendar/"+url.PathEscape(id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create schedules a new event
func (s *CalendarService) Create(ctx context.Context, req CreateEventRequest) (*Event, error) {
	var event Event
	if err := s.client.doRequest(ctx, "POST", apiPrefix+"/calendar", req, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Update edits an existing event
func (s *CalendarService) Update(ctx context.Context, id string, req UpdateEventRequest) (*Event, error) {
	var event Event
	if err := s.client.doRequest(ctx, "PUT", apiPrefix+"/calendar/"+url.PathEscape(id), req, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Delete removes an event
func (s *CalendarService) Delete(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, "DELETE", apiPrefix+"/calendar/"+url.PathEscape(id), nil, nil)
}

// Upcoming returns the next events starting from now
func (s *CalendarService) Upcoming(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := s.client.doRequest(ctx, "GET", apiPrefix+"/calendar/upcoming", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Today returns the events starting today
func (s *CalendarService) Today(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := s.client.doRequest(ctx, "GET", apiPrefix+"/calendar/today", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}
