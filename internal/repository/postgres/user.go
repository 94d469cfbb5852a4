package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"

	"github.com/sakif/fitness-tracker/internal/apperror"
	"github.com/sakif/fitness-tracker/internal/model"
	"github.com/sakif/fitness-tracker/internal/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

// UserStore provides Postgres-backed persistence for users and exercises.
type UserStore struct {
	pool *pgxpool.Pool
}

const userColumns = `id, name, email, password_hash, age, weight, height, gender, bmi, bmr, tdee, created_at`

func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()
	if user.Exercises == nil {
		user.Exercises = []model.Exercise{}
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Age,
		user.Weight, user.Height, user.Gender, user.BMI, user.BMR, user.TDEE,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create user: %w", err)
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return s.load(ctx, row, id)
}

// GetByEmail returns the earliest-created user with this email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 ORDER BY seq LIMIT 1`, email)
	return s.load(ctx, row, email)
}

func (s *UserStore) load(ctx context.Context, row pgx.Row, key string) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Age,
		&user.Weight, &user.Height, &user.Gender, &user.BMI, &user.BMR, &user.TDEE,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("user", key)
		}
		return nil, fmt.Errorf("postgres: get user %s: %w", key, err)
	}
	user.CreatedAt = user.CreatedAt.UTC()

	if user.Exercises, err = s.exercises(ctx, user.ID); err != nil {
		return nil, err
	}
	return &user, nil
}

// AddExercise inserts the exercise only if the user row exists, in one statement.
func (s *UserStore) AddExercise(ctx context.Context, userID string, ex *model.Exercise) error {
	ex.ID = xid.New().String()

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO exercises (id, user_id, name, calories, duration, date_time, steps, distance)
		 SELECT $1, id, $2, $3, $4, $5, $6, $7 FROM users WHERE id = $8`,
		ex.ID, ex.Name, ex.Calories, ex.Duration, ex.DateTime.UTC(), ex.Steps, ex.Distance, userID,
	)
	if err != nil {
		return fmt.Errorf("postgres: add exercise for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("user", userID)
	}
	return nil
}

func (s *UserStore) RemoveExercise(ctx context.Context, userID, exerciseID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM exercises WHERE id = $1 AND user_id = $2`, exerciseID, userID)
	if err != nil {
		return fmt.Errorf("postgres: remove exercise %s: %w", exerciseID, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	return apperror.NotFound("exercise", exerciseID)
}

func (s *UserStore) ListExercises(ctx context.Context, userID string) ([]model.Exercise, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.exercises(ctx, userID)
}

func (s *UserStore) ensureUser(ctx context.Context, userID string) error {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("postgres: check user %s: %w", userID, err)
	}
	if !exists {
		return apperror.NotFound("user", userID)
	}
	return nil
}

func (s *UserStore) exercises(ctx context.Context, userID string) ([]model.Exercise, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, calories, duration, date_time, steps, distance
		 FROM exercises WHERE user_id = $1 ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list exercises for user %s: %w", userID, err)
	}
	defer rows.Close()

	exercises := []model.Exercise{}
	for rows.Next() {
		var ex model.Exercise
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.Calories, &ex.Duration,
			&ex.DateTime, &ex.Steps, &ex.Distance); err != nil {
			return nil, fmt.Errorf("postgres: scan exercise: %w", err)
		}
		ex.DateTime = ex.DateTime.UTC()
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate exercises: %w", err)
	}
	return exercises, nil
}
