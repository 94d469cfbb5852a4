package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"

	"github.com/sakif/fitness-tracker/internal/apperror"
	"github.com/sakif/fitness-tracker/internal/model"
	"github.com/sakif/fitness-tracker/internal/repository"
)

var _ repository.MealRepository = (*MealDB)(nil)

// MealDB stores the meal catalog.
type MealDB struct {
	conn *sql.DB
}

func (m *MealDB) Create(ctx context.Context, meal *model.Meal) error {
	meal.ID = xid.New().String()

	_, err := m.conn.ExecContext(ctx,
		`INSERT INTO meals (id, name, calories, protein, fat, category)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		meal.ID, meal.Name, meal.Calories, meal.Protein, meal.Fat, string(meal.Category),
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating meal: %w", err)
	}
	return nil
}

func (m *MealDB) GetByID(ctx context.Context, id string) (*model.Meal, error) {
	var meal model.Meal
	err := m.conn.QueryRowContext(ctx,
		`SELECT id, name, calories, protein, fat, category FROM meals WHERE id = ?`, id,
	).Scan(&meal.ID, &meal.Name, &meal.Calories, &meal.Protein, &meal.Fat, &meal.Category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("meal", id)
		}
		return nil, fmt.Errorf("sqlite: getting meal %s: %w", id, err)
	}
	return &meal, nil
}

// List returns every meal in insertion order.
func (m *MealDB) List(ctx context.Context) ([]model.Meal, error) {
	rows, err := m.conn.QueryContext(ctx,
		`SELECT id, name, calories, protein, fat, category FROM meals ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing meals: %w", err)
	}
	defer rows.Close()

	meals := []model.Meal{}
	for rows.Next() {
		var meal model.Meal
		if err := rows.Scan(&meal.ID, &meal.Name, &meal.Calories, &meal.Protein, &meal.Fat, &meal.Category); err != nil {
			return nil, fmt.Errorf("sqlite: scanning meal row: %w", err)
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating meals: %w", err)
	}

	return meals, nil
}

// Update overwrites every column of the meal. RowsAffected == 0 means the id
// does not exist.
func (m *MealDB) Update(ctx context.Context, meal *model.Meal) error {
	result, err := m.conn.ExecContext(ctx,
		`UPDATE meals
		 SET name = ?, calories = ?, protein = ?, fat = ?, category = ?
		 WHERE id = ?`,
		meal.Name, meal.Calories, meal.Protein, meal.Fat, string(meal.Category), meal.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating meal %s: %w", meal.ID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("meal", meal.ID)
	}
	return nil
}

// Delete removes the meal and returns its last state.
func (m *MealDB) Delete(ctx context.Context, id string) (*model.Meal, error) {
	var meal model.Meal
	err := m.conn.QueryRowContext(ctx,
		`DELETE FROM meals WHERE id = ?
		 RETURNING id, name, calories, protein, fat, category`, id,
	).Scan(&meal.ID, &meal.Name, &meal.Calories, &meal.Protein, &meal.Fat, &meal.Category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("meal", id)
		}
		return nil, fmt.Errorf("sqlite: deleting meal %s: %w", id, err)
	}
	return &meal, nil
}
