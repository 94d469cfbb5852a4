package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/fitness-tracker/internal/model"
	"github.com/sakif/fitness-tracker/internal/service"
)

// MealHandler serves the meal catalog.
type MealHandler struct {
	meals  *service.MealService
	logger *slog.Logger
}

func NewMealHandler(meals *service.MealService, logger *slog.Logger) *MealHandler {
	return &MealHandler{meals: meals, logger: logger}
}

type mealResponse struct {
	Message string      `json:"message"`
	Meal    *model.Meal `json:"meal"`
}

type deletedMealResponse struct {
	Message     string      `json:"message"`
	DeletedMeal *model.Meal `json:"deletedMeal"`
}

// HTTP: POST /api/meals/add
func (h *MealHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	meal, err := h.meals.Create(r.Context(), service.MealInput{
		Name:     deref(req.Name),
		Calories: deref(req.Calories),
		Protein:  deref(req.Protein),
		Fat:      deref(req.Fat),
		Category: model.MealCategory(deref(req.Category)),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, mealResponse{Message: "Meal added successfully", Meal: meal})
}

// HTTP: GET /api/meals
func (h *MealHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	meals, err := h.meals.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, meals)
}

// HandleUpdate applies a partial update; fields missing from the body keep
// their stored values.
//
// HTTP: PUT /api/meals/{id}
func (h *MealHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req mealPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	patch := service.MealPatch{
		Name:     req.Name,
		Calories: req.Calories,
		Protein:  req.Protein,
		Fat:      req.Fat,
	}
	if req.Category != nil {
		c := model.MealCategory(*req.Category)
		patch.Category = &c
	}

	meal, err := h.meals.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, mealResponse{Message: "Meal updated successfully", Meal: meal})
}

// HTTP: DELETE /api/meals/{id}
func (h *MealHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	meal, err := h.meals.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, deletedMealResponse{Message: "Meal deleted successfully", DeletedMeal: meal})
}
