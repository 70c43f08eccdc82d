package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/bizlytic/internal/api/dto"
	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/utils"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/validator"
)

// UserHandler handles account profile requests
type UserHandler struct {
	userService user.Service
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService user.Service, log *logger.Logger, val *validator.Validator) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      log,
		validator:   val,
	}
}

// UpdateProfile handles profile edits
// @Summary Update profile
// @Description Update name and business name; omitted fields are unchanged
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.UserDTO
// @Failure 400 {object} utils.ErrorResponse "Validation error"
// @Security BearerAuth
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	u, err := h.userService.UpdateProfile(r.Context(), userID, user.ProfileUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		BusinessName: req.BusinessName,
	})
	if err != nil {
		respondError(w, h.logger, err, "Failed to update profile")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Profile updated successfully", dto.NewUserDTO(u))
}

// ChangePassword handles password changes
// @Summary Change password
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse "Current password is incorrect"
// @Security BearerAuth
// @Router /users/password [put]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	if err := h.userService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(w, h.logger, err, "Failed to change password")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Password changed successfully", nil)
}
