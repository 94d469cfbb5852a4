// Package repository declares the persistence contracts implemented by the
// sqlite, postgres and mongo backends.
//
// Every method takes the request context. Missing records are reported as
// apperror.NotFound; any other failure is a wrapped backend error.
package repository

import (
	"context"

	"github.com/sakif/fitness-tracker/internal/model"
)

// UserRepository persists users and the exercises they own.
//
// AddExercise and RemoveExercise change one exercise in a single storage
// operation, so concurrent writers on the same user cannot lose each
// other's updates.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByEmail returns the earliest-created user with this email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	AddExercise(ctx context.Context, userID string, exercise *model.Exercise) error
	RemoveExercise(ctx context.Context, userID, exerciseID string) error
	// ListExercises returns the user's exercises in insertion order.
	ListExercises(ctx context.Context, userID string) ([]model.Exercise, error)
}

type MealRepository interface {
	Create(ctx context.Context, meal *model.Meal) error
	GetByID(ctx context.Context, id string) (*model.Meal, error)
	List(ctx context.Context) ([]model.Meal, error)
	Update(ctx context.Context, meal *model.Meal) error
	// Delete removes the meal and returns what was removed.
	Delete(ctx context.Context, id string) (*model.Meal, error)
}

// Store is an open backend. It owns the connection pool; Close releases it.
type Store interface {
	Users() UserRepository
	Meals() MealRepository
	Close() error
}
