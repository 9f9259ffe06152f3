package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-user-registration/internal/logger"
	"github.com/sbilibin2017/gw-user-registration/internal/models"
	"github.com/sbilibin2017/gw-user-registration/internal/services"
	"github.com/sbilibin2017/gw-user-registration/internal/validation"
)

//go:generate mockgen -source=register.go -destination=mock.go -package=handlers

// Response messages.
const (
	MsgUserCreated     = "User created successfully"
	MsgValidationError = "Validation error"
	MsgInternalError   = "Internal server error occurred"
)

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, req models.RegisterRequest) error
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account. Validates field formats, ensures unique username, email and mobile number, and hashes the password before storing.
// @Tags users
// @Accept json
// @Produce json
// @Param registerRequest body models.RegisterRequest true "User registration request"
// @Success 201 {object} models.RegisterResponse "User created"
// @Failure 400 {object} models.RegisterErrorResponse "Duplicate username, email or mobile number"
// @Failure 422 {array} validation.FieldError "Malformed field or request body"
// @Failure 500 {object} models.RegisterErrorResponse "Internal error"
// @Router /api/users/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, validation.FieldErrors{
				{
					Type:  "json_invalid",
					Loc:   []string{"body"},
					Msg:   "Invalid JSON body",
					Input: "",
				},
			})
			return
		}

		if err := svc.Register(r.Context(), req); err != nil {
			var fieldErrs validation.FieldErrors
			switch {
			case errors.As(err, &fieldErrs):
				writeJSON(w, http.StatusUnprocessableEntity, fieldErrs)
			case errors.Is(err, services.ErrUsernameExists):
				writeDuplicate(w, "Username already exists")
			case errors.Is(err, services.ErrEmailExists):
				writeDuplicate(w, "Email already registered")
			case errors.Is(err, services.ErrMobileExists):
				writeDuplicate(w, "Mobile number already registered")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, models.RegisterErrorResponse{
					Message:   MsgInternalError,
					ErrorInfo: &models.ErrorInfo{Detail: "Registration failed"},
				})
			}
			return
		}

		writeJSON(w, http.StatusCreated, models.RegisterResponse{
			Message: MsgUserCreated,
		})
	}
}

func writeDuplicate(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusBadRequest, models.RegisterErrorResponse{
		Message:   MsgValidationError,
		ErrorInfo: &models.ErrorInfo{Detail: detail},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
