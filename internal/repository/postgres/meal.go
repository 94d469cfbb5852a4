package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"

	"github.com/sakif/fitness-tracker/internal/apperror"
	"github.com/sakif/fitness-tracker/internal/model"
	"github.com/sakif/fitness-tracker/internal/repository"
)

var _ repository.MealRepository = (*MealStore)(nil)

type MealStore struct {
	pool *pgxpool.Pool
}

const mealColumns = `id, name, calories, protein, fat, category`

func (s *MealStore) Create(ctx context.Context, meal *model.Meal) error {
	meal.ID = xid.New().String()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO meals (`+mealColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		meal.ID, meal.Name, meal.Calories, meal.Protein, meal.Fat, string(meal.Category),
	)
	if err != nil {
		return fmt.Errorf("postgres: create meal: %w", err)
	}
	return nil
}

func (s *MealStore) GetByID(ctx context.Context, id string) (*model.Meal, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+mealColumns+` FROM meals WHERE id = $1`, id)
	return scanMeal(row, id)
}

func (s *MealStore) List(ctx context.Context) ([]model.Meal, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+mealColumns+` FROM meals ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list meals: %w", err)
	}
	defer rows.Close()

	meals := []model.Meal{}
	for rows.Next() {
		var (
			meal     model.Meal
			category string
		)
		if err := rows.Scan(&meal.ID, &meal.Name, &meal.Calories, &meal.Protein, &meal.Fat, &category); err != nil {
			return nil, fmt.Errorf("postgres: scan meal: %w", err)
		}
		meal.Category = model.MealCategory(category)
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate meals: %w", err)
	}
	return meals, nil
}

func (s *MealStore) Update(ctx context.Context, meal *model.Meal) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE meals SET name = $1, calories = $2, protein = $3, fat = $4, category = $5
		 WHERE id = $6`,
		meal.Name, meal.Calories, meal.Protein, meal.Fat, string(meal.Category), meal.ID,
	)
	if err != nil {
		return fmt.Errorf("postgres: update meal %s: %w", meal.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("meal", meal.ID)
	}
	return nil
}

func (s *MealStore) Delete(ctx context.Context, id string) (*model.Meal, error) {
	row := s.pool.QueryRow(ctx,
		`DELETE FROM meals WHERE id = $1 RETURNING `+mealColumns, id)
	return scanMeal(row, id)
}

func scanMeal(row pgx.Row, id string) (*model.Meal, error) {
	var (
		meal     model.Meal
		category string
	)
	err := row.Scan(&meal.ID, &meal.Name, &meal.Calories, &meal.Protein, &meal.Fat, &category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("meal", id)
		}
		return nil, fmt.Errorf("postgres: meal %s: %w", id, err)
	}
	meal.Category = model.MealCategory(category)
	return &meal, nil
}
