package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/fitness-tracker/internal/apperror"
	"github.com/sakif/fitness-tracker/internal/model"
)

func newTestMealService() (*MealService, *fakeMealRepo) {
	repo := newFakeMealRepo()
	return NewMealService(repo, discardLogger()), repo
}

func validMeal() MealInput {
	return MealInput{Name: "Greek salad", Calories: 320, Protein: 9, Fat: 24, Category: model.CategoryHealthySalad}
}

func TestMealCreate(t *testing.T) {
	svc, repo := newTestMealService()

	meal, err := svc.Create(context.Background(), validMeal())
	require.NoError(t, err)
	assert.NotEmpty(t, meal.ID)
	assert.Len(t, repo.meals, 1)
}

func TestMealCreate_Validation(t *testing.T) {
	svc, repo := newTestMealService()

	badCategory := validMeal()
	badCategory.Category = "dessert"
	_, err := svc.Create(context.Background(), badCategory)
	require.ErrorIs(t, err, apperror.ErrValidation)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "category", appErr.Field)
	assert.Contains(t, appErr.Message, "healthy-salad, low-calorie, high-protein")

	noName := validMeal()
	noName.Name = " "
	_, err = svc.Create(context.Background(), noName)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	assert.Empty(t, repo.meals)
}

func TestMealUpdate_Partial(t *testing.T) {
	svc, _ := newTestMealService()
	meal, err := svc.Create(context.Background(), validMeal())
	require.NoError(t, err)

	fat := 12.0
	updated, err := svc.Update(context.Background(), meal.ID, MealPatch{Fat: &fat})
	require.NoError(t, err)

	assert.Equal(t, 12.0, updated.Fat)
	assert.Equal(t, "Greek salad", updated.Name)
	assert.Equal(t, model.CategoryHealthySalad, updated.Category)
}

func TestMealUpdate_Errors(t *testing.T) {
	svc, _ := newTestMealService()
	meal, err := svc.Create(context.Background(), validMeal())
	require.NoError(t, err)

	bad := model.MealCategory("keto")
	_, err = svc.Update(context.Background(), meal.ID, MealPatch{Category: &bad})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	stored, _ := svc.List(context.Background())
	assert.Equal(t, model.CategoryHealthySalad, stored[0].Category)

	_, err = svc.Update(context.Background(), "missing", MealPatch{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestMealDelete(t *testing.T) {
	svc, _ := newTestMealService()
	meal, err := svc.Create(context.Background(), validMeal())
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), meal.ID)
	require.NoError(t, err)
	assert.Equal(t, meal.ID, deleted.ID)

	_, err = svc.Delete(context.Background(), meal.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestMealList_StorageFailure(t *testing.T) {
	svc, repo := newTestMealService()
	repo.failOn = "List"

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, errBackend)
}
