package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pratik-mahalle/bizlytic/internal/api/middleware"
	"github.com/pratik-mahalle/bizlytic/internal/domain/report"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/utils"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/validator"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

var (
	openStart = time.Unix(0, 0)
	openEnd   = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
)

// requireUserID extracts the authenticated user ID, writing a 401 when absent
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Access token required"))
	}
	return userID, ok
}

// respondError writes err in the error envelope; internal failures are logged
func respondError(w http.ResponseWriter, log *logger.Logger, err error, msg string) {
	appErr := errors.From(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.ErrorWithErr(err, msg)
	}
	utils.WriteError(w, appErr)
}

// decodeAndValidate reads a JSON body into dst and runs struct validation
func decodeAndValidate(w http.ResponseWriter, r *http.Request, val *validator.Validator, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return false
	}
	if validationErrs := val.Validate(dst); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return false
	}
	return true
}

func validationFailed(w http.ResponseWriter, errs ...validator.ValidationError) {
	utils.WriteError(w, errors.ValidationError("Validation failed", errs))
}

// parseStart reads a range start; date-only values mean local midnight
func parseStart(field, raw string) (*time.Time, *validator.ValidationError) {
	if raw == "" {
		return nil, nil
	}
	t, err := validator.ParseDate(raw)
	if err != nil {
		fe := validator.Field(field, "isodate", field+" must be a valid ISO 8601 date")
		return nil, &fe
	}
	return &t, nil
}

// parseEnd reads a range end; date-only values cover the whole day
func parseEnd(field, raw string) (*time.Time, *validator.ValidationError) {
	t, fe := parseStart(field, raw)
	if t == nil || fe != nil {
		return t, fe
	}
	if validator.IsDateOnly(raw) {
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		t = &end
	}
	return t, nil
}

// parseDate reads an optional body date, defaulting to now
func parseDate(raw string, now time.Time) time.Time {
	if raw == "" {
		return now
	}
	t, err := validator.ParseDate(raw)
	if err != nil {
		return now
	}
	return t
}

// parseOptionalDate reads an optional partial-update date
func parseOptionalDate(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	t, err := validator.ParseDate(*raw)
	if err != nil {
		return nil
	}
	return &t
}

// parseRange reads startDate/endDate from the query string
func parseRange(w http.ResponseWriter, r *http.Request) (start, end *time.Time, ok bool) {
	q := r.URL.Query()
	var errs []validator.ValidationError
	start, fe := parseStart("startDate", q.Get("startDate"))
	if fe != nil {
		errs = append(errs, *fe)
	}
	end, fe = parseEnd("endDate", q.Get("endDate"))
	if fe != nil {
		errs = append(errs, *fe)
	}
	if len(errs) > 0 {
		validationFailed(w, errs...)
		return nil, nil, false
	}
	return start, end, true
}

// parseWindow builds an aggregation window. When required is false missing
// bounds are left open.
func parseWindow(w http.ResponseWriter, r *http.Request, userID string, required bool) (report.Window, bool) {
	if required {
		var errs []validator.ValidationError
		for _, field := range []string{"startDate", "endDate"} {
			if r.URL.Query().Get(field) == "" {
				errs = append(errs, validator.Field(field, "required", field+" is required"))
			}
		}
		if len(errs) > 0 {
			validationFailed(w, errs...)
			return report.Window{}, false
		}
	}

	start, end, ok := parseRange(w, r)
	if !ok {
		return report.Window{}, false
	}
	win := report.Window{UserID: userID, Start: openStart, End: openEnd}
	if start != nil {
		win.Start = *start
	}
	if end != nil {
		win.End = *end
	}
	return win, true
}
