package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/bizlytic/internal/api/dto"
	"github.com/pratik-mahalle/bizlytic/internal/domain/calendar"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/utils"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/validator"
)

// CalendarHandler handles calendar event requests
type CalendarHandler struct {
	service   calendar.Service
	logger    *logger.Logger
	validator *validator.Validator
	now       func() time.Time
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(service calendar.Service, log *logger.Logger, val *validator.Validator) *CalendarHandler {
	return &CalendarHandler{
		service:   service,
		logger:    log,
		validator: val,
		now:       time.Now,
	}
}

// Create schedules an event
// @Summary Create a calendar event
// @Description startDate must be before endDate
// @Tags Calendar
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} calendar.Event
// @Failure 400 {object} utils.ErrorResponse "Validation error"
// @Security BearerAuth
// @Router /calendar [post]
func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	now := h.now()
	e := req.ToEvent(userID, parseDate(req.StartDate, now), parseDate(req.EndDate, now))
	if err := h.service.Create(r.Context(), e); err != nil {
		respondError(w, h.logger, err, "Failed to create event")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusCreated, "Event created successfully", e)
}

// List lists events
// @Summary List calendar events
// @Description Ordered by start ascending
// @Tags Calendar
// @Produce json
// @Param startDate query string false "Events starting on or after"
// @Param endDate query string false "Events starting on or before"
// @Param type query string false "meeting, task, reminder or other"
// @Param priority query string false "low, medium or high"
// @Success 200 {array} calendar.Event
// @Security BearerAuth
// @Router /calendar [get]
func (h *CalendarHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	start, end, ok := parseRange(w, r)
	if !ok {
		return
	}
	filter := calendar.Filter{
		StartDate: start,
		EndDate:   end,
		Type:      r.URL.Query().Get("type"),
		Priority:  r.URL.Query().Get("priority"),
	}

	events, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		respondError(w, h.logger, err, "Failed to list events")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, events)
}

// Get returns one event
// @Summary Get a calendar event
// @Tags Calendar
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} calendar.Event
// @Failure 404 {object} utils.ErrorResponse "Event not found"
// @Security BearerAuth
// @Router /calendar/{id} [get]
func (h *CalendarHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	e, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err, "Failed to get event")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, e)
}

// Update edits an event
// @Summary Update a calendar event
// @Description Partial edit; the merged range must keep startDate before endDate
// @Tags Calendar
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Fields to change"
// @Success 200 {object} calendar.Event
// @Failure 400 {object} utils.ErrorResponse "Validation error"
// @Failure 404 {object} utils.ErrorResponse "Event not found"
// @Security BearerAuth
// @Router /calendar/{id} [put]
func (h *CalendarHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	update := req.ToUpdate(parseOptionalDate(req.StartDate), parseOptionalDate(req.EndDate))
	e, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), update)
	if err != nil {
		respondError(w, h.logger, err, "Failed to update event")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Event updated successfully", e)
}

// Delete removes an event
// @Summary Delete a calendar event
// @Tags Calendar
// @Param id path string true "Event ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Event not found"
// @Security BearerAuth
// @Router /calendar/{id} [delete]
func (h *CalendarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, err, "Failed to delete event")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Event deleted successfully", nil)
}

// Upcoming returns the next events from now
// @Summary Upcoming events
// @Tags Calendar
// @Produce json
// @Success 200 {array} calendar.Event
// @Security BearerAuth
// @Router /calendar/upcoming [get]
func (h *CalendarHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	events, err := h.service.Upcoming(r.Context(), userID, h.now())
	if err != nil {
		respondError(w, h.logger, err, "Failed to list upcoming events")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, events)
}

// Today returns the events starting today
// @Summary Today's events
// @Tags Calendar
// @Produce json
// @Success 200 {array} calendar.Event
// @Security BearerAuth
// @Router /calendar/today [get]
func (h *CalendarHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	events, err := h.service.Today(r.Context(), userID, h.now())
	if err != nil {
		respondError(w, h.logger, err, "Failed to list today's events")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, events)
}
