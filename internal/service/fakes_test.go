package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/sakif/fitness-tracker/internal/apperror"
	"github.com/sakif/fitness-tracker/internal/model"
)

// =========================================================================
// IN-MEMORY REPOSITORIES
// =========================================================================
//
// fakeUserRepo and fakeMealRepo implement the repository interfaces on maps
// so the services can be tested without a database. Stored values are
// copies, so a test cannot mutate them through a returned pointer.

var errBackend = errors.New("backend unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  []*model.User
	nextID int
	failOn string // method name that returns errBackend
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{}
}

func (f *fakeUserRepo) fail(method string) error {
	if f.failOn == method {
		return errBackend
	}
	return nil
}

func (f *fakeUserRepo) find(id string) *model.User {
	for _, u := range f.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("Create"); err != nil {
		return err
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.Exercises = []model.Exercise{}
	stored := *user
	f.users = append(f.users, &stored)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GetByID"); err != nil {
		return nil, err
	}
	u := f.find(id)
	if u == nil {
		return nil, apperror.NotFound("user", id)
	}
	out := *u
	out.Exercises = append([]model.Exercise{}, u.Exercises...)
	return &out, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GetByEmail"); err != nil {
		return nil, err
	}
	for _, u := range f.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) AddExercise(_ context.Context, userID string, ex *model.Exercise) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("AddExercise"); err != nil {
		return err
	}
	u := f.find(userID)
	if u == nil {
		return apperror.NotFound("user", userID)
	}
	f.nextID++
	ex.ID = fmt.Sprintf("ex-%d", f.nextID)
	u.Exercises = append(u.Exercises, *ex)
	return nil
}

func (f *fakeUserRepo) RemoveExercise(_ context.Context, userID, exerciseID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.find(userID)
	if u == nil {
		return apperror.NotFound("user", userID)
	}
	for i, ex := range u.Exercises {
		if ex.ID == exerciseID {
			u.Exercises = append(u.Exercises[:i], u.Exercises[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("exercise", exerciseID)
}

func (f *fakeUserRepo) ListExercises(_ context.Context, userID string) ([]model.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.find(userID)
	if u == nil {
		return nil, apperror.NotFound("user", userID)
	}
	return append([]model.Exercise{}, u.Exercises...), nil
}

type fakeMealRepo struct {
	mu     sync.Mutex
	meals  []model.Meal
	nextID int
	failOn string
}

func newFakeMealRepo() *fakeMealRepo {
	return &fakeMealRepo{}
}

func (f *fakeMealRepo) index(id string) int {
	for i, m := range f.meals {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeMealRepo) Create(_ context.Context, meal *model.Meal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "Create" {
		return errBackend
	}
	f.nextID++
	meal.ID = fmt.Sprintf("meal-%d", f.nextID)
	f.meals = append(f.meals, *meal)
	return nil
}

func (f *fakeMealRepo) GetByID(_ context.Context, id string) (*model.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return nil, apperror.NotFound("meal", id)
	}
	out := f.meals[i]
	return &out, nil
}

func (f *fakeMealRepo) List(_ context.Context) ([]model.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "List" {
		return nil, errBackend
	}
	return append([]model.Meal{}, f.meals...), nil
}

func (f *fakeMealRepo) Update(_ context.Context, meal *model.Meal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(meal.ID)
	if i < 0 {
		return apperror.NotFound("meal", meal.ID)
	}
	f.meals[i] = *meal
	return nil
}

func (f *fakeMealRepo) Delete(_ context.Context, id string) (*model.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return nil, apperror.NotFound("meal", id)
	}
	out := f.meals[i]
	f.meals = append(f.meals[:i], f.meals[i+1:]...)
	return &out, nil
}
