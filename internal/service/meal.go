package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/fitness-tracker/internal/apperror"
	"github.com/sakif/fitness-tracker/internal/model"
	"github.com/sakif/fitness-tracker/internal/repository"
)

// MealService manages the meal catalog.
type MealService struct {
	repo   repository.MealRepository
	logger *slog.Logger
}

func NewMealService(repo repository.MealRepository, logger *slog.Logger) *MealService {
	return &MealService{
		repo:   repo,
		logger: logger,
	}
}

type MealInput struct {
	Name     string
	Calories float64
	Protein  float64
	Fat      float64
	Category model.MealCategory
}

// MealPatch is a partial update. Nil fields are left unchanged.
type MealPatch struct {
	Name     *string
	Calories *float64
	Protein  *float64
	Fat      *float64
	Category *model.MealCategory
}

func (s *MealService) Create(ctx context.Context, in MealInput) (*model.Meal, error) {
	meal := &model.Meal{
		Name:     strings.TrimSpace(in.Name),
		Calories: in.Calories,
		Protein:  in.Protein,
		Fat:      in.Fat,
		Category: in.Category,
	}
	if err := validateMeal(meal); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, meal); err != nil {
		s.logger.Error("failed to create meal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/meal: creating meal: %w", err)
	}

	s.logger.Info("meal created", slog.String("id", meal.ID), slog.String("name", meal.Name))
	return meal, nil
}

func (s *MealService) List(ctx context.Context) ([]model.Meal, error) {
	meals, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/meal: listing meals: %w", err)
	}
	return meals, nil
}

// Update applies patch to the stored meal and saves the result.
func (s *MealService) Update(ctx context.Context, id string, patch MealPatch) (*model.Meal, error) {
	meal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		meal.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Calories != nil {
		meal.Calories = *patch.Calories
	}
	if patch.Protein != nil {
		meal.Protein = *patch.Protein
	}
	if patch.Fat != nil {
		meal.Fat = *patch.Fat
	}
	if patch.Category != nil {
		meal.Category = *patch.Category
	}
	if err := validateMeal(meal); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, meal); err != nil {
		return nil, err
	}

	s.logger.Info("meal updated", slog.String("id", meal.ID))
	return meal, nil
}

// Delete removes the meal and returns it.
func (s *MealService) Delete(ctx context.Context, id string) (*model.Meal, error) {
	meal, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("meal deleted", slog.String("id", id))
	return meal, nil
}

func validateMeal(meal *model.Meal) error {
	if meal.Name == "" {
		return apperror.ValidationFailed("name", "name is required")
	}
	if !meal.Category.Valid() {
		return apperror.ValidationFailed("category",
			fmt.Sprintf("category must be one of %s", categoryList()))
	}
	return nil
}

func categoryList() string {
	names := make([]string, len(model.MealCategories))
	for i, c := range model.MealCategories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
