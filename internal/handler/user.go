package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/fitness-tracker/internal/model"
	"github.com/sakif/fitness-tracker/internal/service"
)

// UserHandler serves the per-user exercise log and the TDEE lookup.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type exerciseResponse struct {
	Message  string          `json:"message"`
	Exercise *model.Exercise `json:"exercise"`
}

type tdeeResponse struct {
	TDEE float64 `json:"tdee"`
}

// HandleListExercises returns the user's exercises grouped by day, newest first.
//
// HTTP: GET /api/users/{userId}/exercises
func (h *UserHandler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	days, err := h.users.ListExercisesAggregated(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// HandleAddExercise appends one exercise.
//
// HTTP: POST /api/users/{userId}/exercises
// REQUEST BODY: {"name", "calories", "duration", "dateTime"?, "steps"?, "distance"?}
func (h *UserHandler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	var req exerciseRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	ex, err := h.users.AddExercise(r.Context(), chi.URLParam(r, "userId"), service.ExerciseInput{
		Name:     deref(req.Name),
		Calories: deref(req.Calories),
		Duration: deref(req.Duration),
		DateTime: deref(req.DateTime),
		Steps:    deref(req.Steps),
		Distance: deref(req.Distance),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, exerciseResponse{
		Message:  "Exercise added successfully",
		Exercise: ex,
	})
}

// HTTP: DELETE /api/users/{userId}/exercises/{exerciseId}
func (h *UserHandler) HandleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	err := h.users.RemoveExercise(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "exerciseId"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Exercise deleted successfully"})
}

// HandleGetTDEE returns the TDEE stored at registration.
//
// HTTP: GET /api/tdee/user/{id}/tdee
func (h *UserHandler) HandleGetTDEE(w http.ResponseWriter, r *http.Request) {
	tdee, err := h.users.GetTDEE(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tdeeResponse{TDEE: tdee})
}
