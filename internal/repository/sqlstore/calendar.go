package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/bizlytic/internal/domain/calendar"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
)

const eventColumns = `id, user_id, title, description, start_at, end_at, type, priority, is_all_day,
	location, attendees, notes, created_at, updated_at`

// CalendarRepository implements calendar.Repository
type CalendarRepository struct {
	db *DB
}

// NewCalendarRepository creates a new calendar repository
func NewCalendarRepository(db *DB) calendar.Repository {
	return &CalendarRepository{db: db}
}

// Create stores a new event
func (r *CalendarRepository) Create(ctx context.Context, e *calendar.Event) error {
	now := time.Now()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = now
	e.UpdatedAt = now

	query := `INSERT INTO calendar_events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.exec(ctx, "insert", "calendar_events", query,
		e.ID, e.UserID, e.Title, nullString(e.Description), e.StartDate.Unix(), e.EndDate.Unix(),
		e.Type, e.Priority, e.IsAllDay, nullString(e.Location), encodeList(e.Attendees), nullString(e.Notes),
		now.Unix(), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create event", err)
	}
	return nil
}

// GetByID retrieves an event owned by userID
func (r *CalendarRepository) GetByID(ctx context.Context, userID, id string) (*calendar.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE id = ? AND user_id = ?`

	e, err := scanEvent(r.db.queryRow(ctx, "calendar_events", query, id, userID))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Event")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get event", err)
	}
	return e, nil
}

// List retrieves events ordered by start ascending
func (r *CalendarRepository) List(ctx context.Context, userID string, filter calendar.Filter) ([]*calendar.Event, error) {
	var where conditions
	where.add("user_id = ?", userID)
	if filter.StartDate != nil {
		where.add("start_at >= ?", filter.StartDate.Unix())
	}
	if filter.EndDate != nil {
		where.add("start_at <= ?", filter.EndDate.Unix())
	}
	if filter.Type != "" {
		where.add("type = ?", filter.Type)
	}
	if filter.Priority != "" {
		where.add("priority = ?", filter.Priority)
	}

	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE ` + where.String() + `
		ORDER BY start_at ASC, id ASC`
	args := where.args
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.query(ctx, "calendar_events", query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list events", err)
	}
	defer rows.Close()

	events := []*calendar.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to list events", err)
	}
	return events, nil
}

// Update overwrites an event owned by e.UserID
func (r *CalendarRepository) Update(ctx context.Context, e *calendar.Event) error {
	e.UpdatedAt = time.Now()

	query := `
		UPDATE calendar_events
		SET title = ?, description = ?, start_at = ?, end_at = ?, type = ?, priority = ?, is_all_day = ?,
			location = ?, attendees = ?, notes = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.exec(ctx, "update", "calendar_events", query,
		e.Title, nullString(e.Description), e.StartDate.Unix(), e.EndDate.Unix(), e.Type, e.Priority, e.IsAllDay,
		nullString(e.Location), encodeList(e.Attendees), nullString(e.Notes), e.UpdatedAt.Unix(), e.ID, e.UserID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update event", err)
	}
	return expectOne(result, "Event")
}

// Delete removes an event owned by userID
func (r *CalendarRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.exec(ctx, "delete", "calendar_events", `DELETE FROM calendar_events WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return errors.DatabaseError("Failed to delete event", err)
	}
	return expectOne(result, "Event")
}

func scanEvent(s scanner) (*calendar.Event, error) {
	var out calendar.Event
	var startAt, endAt, createdAt, updatedAt int64
	var description, location, notes sql.NullString
	var attendees string

	err := s.Scan(
		&out.ID, &out.UserID, &out.Title, &description, &startAt, &endAt, &out.Type, &out.Priority, &out.IsAllDay,
		&location, &attendees, &notes, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	out.Description = description.String
	out.StartDate = time.Unix(startAt, 0)
	out.EndDate = time.Unix(endAt, 0)
	out.Location = location.String
	out.Attendees = decodeList(attendees)
	out.Notes = notes.String
	out.CreatedAt = time.Unix(createdAt, 0)
	out.UpdatedAt = time.Unix(updatedAt, 0)
	return &out, nil
}
