package services

import (
	"context"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/domain/calendar"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/metrics"
	"github.com/pratik-mahalle/bizlytic/internal/realtime"
)

// CalendarService implements calendar.Service
type CalendarService struct {
	repo      calendar.Repository
	publisher realtime.Publisher
	logger    *logger.Logger
}

// NewCalendarService creates a new calendar service
func NewCalendarService(repo calendar.Repository, publisher realtime.Publisher, log *logger.Logger) calendar.Service {
	return &CalendarService{
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

// Create stores an event after checking start < end
func (s *CalendarService) Create(ctx context.Context, e *calendar.Event) error {
	if e.Type == "" {
		e.Type = calendar.TypeOther
	}
	if e.Priority == "" {
		e.Priority = calendar.PriorityMedium
	}
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	if err := e.CheckRange(); err != nil {
		return fieldError("endDate", "gtfield", err.Error())
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create event")
		return err
	}

	metrics.RecordWrite("calendar_event", opCreate)
	s.publisher.Publish(e.UserID, realtime.EventCalendarAdded, e)
	s.logger.WithFields(map[string]interface{}{
		"user_id":  e.UserID,
		"event_id": e.ID,
	}).Info("Calendar event created")

	return nil
}

// Get retrieves an event owned by userID
func (s *CalendarService) Get(ctx context.Context, userID, id string) (*calendar.Event, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// List retrieves events ordered by start
func (s *CalendarService) List(ctx context.Context, userID string, filter calendar.Filter) ([]*calendar.Event, error) {
	return s.repo.List(ctx, userID, filter)
}

// Update applies a partial edit; the merged range must stay valid
func (s *CalendarService) Update(ctx context.Context, userID, id string, update calendar.Update) (*calendar.Event, error) {
	e, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := e.Apply(update); err != nil {
		return nil, fieldError("endDate", "gtfield", err.Error())
	}

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.ErrorWithErr(err, "Failed to update event")
		return nil, err
	}

	metrics.RecordWrite("calendar_event", opUpdate)
	s.publisher.Publish(userID, realtime.EventCalendarUpdated, e)
	s.logger.WithFields(map[string]interface{}{
		"user_id":  userID,
		"event_id": id,
	}).Info("Calendar event updated")

	return e, nil
}

// Delete removes an event
func (s *CalendarService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	metrics.RecordWrite("calendar_event", opDelete)
	s.publisher.Publish(userID, realtime.EventCalendarDeleted, deletedPayload{ID: id})
	s.logger.WithFields(map[string]interface{}{
		"user_id":  userID,
		"event_id": id,
	}).Info("Calendar event deleted")

	return nil
}

// Upcoming returns the next events starting at or after now
func (s *CalendarService) Upcoming(ctx context.Context, userID string, now time.Time) ([]*calendar.Event, error) {
	return s.repo.List(ctx, userID, calendar.Filter{StartDate: &now, Limit: calendar.UpcomingLimit})
}

// Today returns the events starting on now's calendar day
func (s *CalendarService) Today(ctx context.Context, userID string, now time.Time) ([]*calendar.Event, error) {
	local := now.In(time.Local)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return s.repo.List(ctx, userID, calendar.Filter{StartDate: &start, EndDate: &end})
}
