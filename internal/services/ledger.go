package services

import (
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/validator"
)

// Write operations recorded in metrics
const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// deletedPayload is the realtime payload of a delete event
type deletedPayload struct {
	ID string `json:"id"`
}

func fieldError(field, tag, message string) *errors.AppError {
	return errors.ValidationError("Validation failed", []validator.ValidationError{
		validator.Field(field, tag, message),
	})
}
