package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/fitness-tracker/internal/apperror"
	"github.com/sakif/fitness-tracker/internal/model"
	"github.com/sakif/fitness-tracker/internal/repository"
)

var _ repository.UserRepository = (*UserDB)(nil)

// UserDB stores users and their exercises.
type UserDB struct {
	conn *sql.DB
}

const userColumns = `id, name, email, password_hash, age, weight, height, gender, bmi, bmr, tdee, created_at`

// Create inserts a new user and fills in user.ID and user.CreatedAt.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()
	if user.Exercises == nil {
		user.Exercises = []model.Exercise{}
	}

	_, err := u.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Age,
		user.Weight,
		user.Height,
		user.Gender,
		user.BMI,
		user.BMR,
		user.TDEE,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetByID returns the user with its exercises, or apperror.ErrNotFound.
func (u *UserDB) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := u.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	if user.Exercises, err = u.exercises(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail returns the earliest-created user with this email.
// Emails are not unique, so rowid order decides.
func (u *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? ORDER BY rowid LIMIT 1`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}

	if user.Exercises, err = u.exercises(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// AddExercise appends an exercise to the user's log.
//
// INSERT … SELECT … FROM users makes the existence check and the write one
// statement: if the user is gone, zero rows are inserted.
func (u *UserDB) AddExercise(ctx context.Context, userID string, ex *model.Exercise) error {
	ex.ID = xid.New().String()

	result, err := u.conn.ExecContext(ctx,
		`INSERT INTO exercises (id, user_id, name, calories, duration, date_time, steps, distance)
		 SELECT ?, id, ?, ?, ?, ?, ?, ? FROM users WHERE id = ?`,
		ex.ID,
		ex.Name,
		ex.Calories,
		ex.Duration,
		ex.DateTime.UTC(),
		ex.Steps,
		ex.Distance,
		userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding exercise for user %s: %w", userID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("user", userID)
	}
	return nil
}

// RemoveExercise deletes one exercise. A missing user and a missing exercise
// are both NotFound, with the resource named in the message.
func (u *UserDB) RemoveExercise(ctx context.Context, userID, exerciseID string) error {
	result, err := u.conn.ExecContext(ctx,
		`DELETE FROM exercises WHERE id = ? AND user_id = ?`,
		exerciseID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing exercise %s: %w", exerciseID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	if err := u.ensureUser(ctx, userID); err != nil {
		return err
	}
	return apperror.NotFound("exercise", exerciseID)
}

// ListExercises returns the user's exercises in insertion order.
func (u *UserDB) ListExercises(ctx context.Context, userID string) ([]model.Exercise, error) {
	if err := u.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return u.exercises(ctx, userID)
}

func (u *UserDB) ensureUser(ctx context.Context, userID string) error {
	var one int
	err := u.conn.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("user", userID)
		}
		return fmt.Errorf("sqlite: checking user %s: %w", userID, err)
	}
	return nil
}

func (u *UserDB) exercises(ctx context.Context, userID string) ([]model.Exercise, error) {
	rows, err := u.conn.QueryContext(ctx,
		`SELECT id, name, calories, duration, date_time, steps, distance
		 FROM exercises
		 WHERE user_id = ?
		 ORDER BY seq`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing exercises for user %s: %w", userID, err)
	}
	defer rows.Close()

	exercises := []model.Exercise{}
	for rows.Next() {
		var ex model.Exercise
		if err := rows.Scan(
			&ex.ID, &ex.Name, &ex.Calories, &ex.Duration,
			&ex.DateTime, &ex.Steps, &ex.Distance,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning exercise row: %w", err)
		}
		ex.DateTime = ex.DateTime.UTC()
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating exercises: %w", err)
	}

	return exercises, nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Age,
		&user.Weight,
		&user.Height,
		&user.Gender,
		&user.BMI,
		&user.BMR,
		&user.TDEE,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}
