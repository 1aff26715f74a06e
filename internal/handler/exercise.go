package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fitlog/exercise-tracker/internal/model"
	"github.com/fitlog/exercise-tracker/internal/server"
	"github.com/fitlog/exercise-tracker/internal/service"
	"github.com/fitlog/exercise-tracker/internal/validation"
)

// ExerciseHandler serves the tracker's four endpoints: create user, list
// users, add an exercise, and the log query.
type ExerciseHandler struct {
	Handler
	services *service.Services
}

// NewExerciseHandler constructs an ExerciseHandler.
func NewExerciseHandler(s *server.Server, services *service.Services) *ExerciseHandler {
	return &ExerciseHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// --- requests ---------------------------------------------------------------

// CreateUserRequest is the form payload of POST /new-user.
type CreateUserRequest struct {
	Username string `form:"username" validate:"required"`
}

func (r *CreateUserRequest) Validate() error {
	if batch := validation.Tags(r); len(batch) > 0 {
		return batch
	}
	return nil
}

// AddExerciseRequest is the form payload of POST /add. Duration and Date
// arrive as strings; the numeric and date-format rules are custom checks so
// every failure is reported in one batch.
type AddExerciseRequest struct {
	UserID      string `form:"userId" validate:"required"`
	Description string `form:"description" validate:"required"`
	Duration    string `form:"duration" validate:"required"`
	Date        string `form:"date"`
}

func (r *AddExerciseRequest) Validate() error {
	batch := validation.Tags(r)

	if r.Duration != "" {
		if _, err := strconv.ParseFloat(r.Duration, 64); err != nil {
			batch = append(batch, validation.CustomValidationError{
				Field:   "duration",
				Message: "must be a number",
			})
		}
	}
	if r.Date != "" {
		if _, err := time.Parse(model.DateLayout, r.Date); err != nil {
			batch = append(batch, validation.CustomValidationError{
				Field:   "date",
				Message: "must be a date in YYYY-MM-DD format",
			})
		}
	}

	if len(batch) > 0 {
		return batch
	}
	return nil
}

// DurationMinutes returns the parsed duration. Call only after Validate.
func (r *AddExerciseRequest) DurationMinutes() float64 {
	d, _ := strconv.ParseFloat(r.Duration, 64)
	return d
}

// DateValue returns the parsed date, or nil when the field was omitted.
func (r *AddExerciseRequest) DateValue() *time.Time {
	if r.Date == "" {
		return nil
	}
	d, err := time.Parse(model.DateLayout, r.Date)
	if err != nil {
		return nil
	}
	return &d
}

// GetLogRequest is the query payload of GET /log. The date window rule is
// interdependent: from and to must be supplied together or not at all.
type GetLogRequest struct {
	UserID string `query:"userId" validate:"required"`
	From   string `query:"from"`
	To     string `query:"to"`
	Limit  string `query:"limit"`
}

func (r *GetLogRequest) Validate() error {
	batch := validation.Tags(r)

	if r.From != "" && r.To == "" {
		batch = append(batch, validation.CustomValidationError{
			Field:   "to",
			Message: "a `to` value must be supplied if a `from` value is supplied",
		})
	}
	if r.To != "" && r.From == "" {
		batch = append(batch, validation.CustomValidationError{
			Field:   "from",
			Message: "a `from` value must be supplied if a `to` value is supplied",
		})
	}

	for _, bound := range []struct{ field, value string }{
		{"from", r.From},
		{"to", r.To},
	} {
		if bound.value == "" {
			continue
		}
		if _, err := time.Parse(model.DateLayout, bound.value); err != nil {
			batch = append(batch, validation.CustomValidationError{
				Field:   bound.field,
				Message: "must be a date in YYYY-MM-DD format",
			})
		}
	}

	if len(batch) > 0 {
		return batch
	}
	return nil
}

// Window returns the parsed date bounds. Call only after Validate.
func (r *GetLogRequest) Window() (*time.Time, *time.Time) {
	if r.From == "" || r.To == "" {
		return nil, nil
	}
	from, err := time.Parse(model.DateLayout, r.From)
	if err != nil {
		return nil, nil
	}
	to, err := time.Parse(model.DateLayout, r.To)
	if err != nil {
		return nil, nil
	}
	return &from, &to
}

// LimitValue returns the parsed limit. A missing, unparseable, or
// non-positive limit means unlimited; the original behavior never rejected
// a malformed limit and this keeps that contract.
func (r *GetLogRequest) LimitValue() int {
	limit, err := strconv.Atoi(r.Limit)
	if err != nil || limit < 1 {
		return 0
	}
	return limit
}

// --- responses --------------------------------------------------------------

// AddExerciseResponse flattens the owning user with the entry just created.
type AddExerciseResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

// LogResponse is the answer to the log query.
type LogResponse struct {
	ID       string           `json:"id"`
	Username string           `json:"username"`
	Log      []model.LogEntry `json:"log"`
}

// --- endpoints --------------------------------------------------------------

// CreateUser handles POST /new-user.
func (h *ExerciseHandler) CreateUser(c echo.Context, req *CreateUserRequest) (*model.User, error) {
	return h.services.Exercise.CreateUser(c.Request().Context(), req.Username)
}

// ListUsers handles GET /users. No payload to validate, so it skips the
// typed pipeline.
func (h *ExerciseHandler) ListUsers(c echo.Context) error {
	users, err := h.services.Exercise.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []model.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// AddExercise handles POST /add.
func (h *ExerciseHandler) AddExercise(c echo.Context, req *AddExerciseRequest) (*AddExerciseResponse, error) {
	result, err := h.services.Exercise.AddExercise(
		c.Request().Context(),
		req.UserID,
		req.Description,
		req.DurationMinutes(),
		req.DateValue(),
	)
	if err != nil {
		return nil, err
	}

	return &AddExerciseResponse{
		ID:          result.User.ID,
		Username:    result.User.Username,
		Description: result.Entry.Description,
		Duration:    result.Entry.Duration,
		Date:        result.Entry.Date.Format(model.DateLayout),
	}, nil
}

// GetLog handles GET /log.
func (h *ExerciseHandler) GetLog(c echo.Context, req *GetLogRequest) (*LogResponse, error) {
	from, to := req.Window()

	result, err := h.services.Exercise.GetLog(c.Request().Context(), service.LogQuery{
		UserID: req.UserID,
		From:   from,
		To:     to,
		Limit:  req.LimitValue(),
	})
	if err != nil {
		return nil, err
	}

	entries := result.Entries
	if entries == nil {
		entries = []model.LogEntry{}
	}

	return &LogResponse{
		ID:       result.User.ID,
		Username: result.User.Username,
		Log:      entries,
	}, nil
}
