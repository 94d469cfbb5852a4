// Package service contains the business logic layer of the application.
//
//	Handler (HTTP layer)     → decodes requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the configured backend
//
// Services take repository interfaces, never a concrete backend, so the same
// code runs on SQLite, PostgreSQL, MongoDB or an in-memory fake in tests.
// They return apperror values; only the handler knows about status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/sakif/fitness-tracker/internal/apperror"
	"github.com/sakif/fitness-tracker/internal/auth"
	"github.com/sakif/fitness-tracker/internal/model"
	"github.com/sakif/fitness-tracker/internal/repository"
)

// invalidCredentials is the single message for every failed login, so a
// caller cannot tell an unknown email from a wrong password.
const invalidCredentials = "invalid email or password"

// UserService handles registration, login and the exercise log.
//
// DEPENDENCIES (injected via NewUserService):
//   - users      repository.UserRepository → user and exercise persistence
//   - passwords  *auth.PasswordService     → bcrypt hashing
//   - tokens     *auth.TokenService        → optional; nil disables login tokens
//   - logger     *slog.Logger
type UserService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
	now       func() time.Time
}

func NewUserService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterInput is the registration survey. BMI, BMR and TDEE are computed
// by the client and stored unchanged.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      int
	Weight   float64
	Height   float64
	Gender   string
	BMI      float64
	BMR      float64
	TDEE     float64
}

// Register hashes the password and persists a new user. Emails are not
// checked for uniqueness.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if in.Password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password",
				fmt.Sprintf("password must be %d bytes or fewer", auth.MaxPasswordBytes))
		}
		return nil, fmt.Errorf("service/user: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Age:          in.Age,
		Weight:       in.Weight,
		Height:       in.Height,
		Gender:       strings.TrimSpace(in.Gender),
		BMI:          in.BMI,
		BMR:          in.BMR,
		TDEE:         in.TDEE,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/user: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))
	return user, nil
}

// LoginResult bundles the authenticated user with an access token. Token is
// empty when no TokenService is configured.
type LoginResult struct {
	User  *model.User
	Token string
}

// Login checks the credentials. Unknown email and wrong password fail with
// the same Unauthorized error, and the unknown-email path still runs one
// bcrypt comparison so both take the same time.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.Unauthorized(invalidCredentials)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.passwords.Equalize(password)
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		return nil, fmt.Errorf("service/user: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrMismatch) {
			return nil, apperror.Unauthorized(invalidCredentials)
		}
		return nil, fmt.Errorf("service/user: verifying password: %w", err)
	}

	result := &LoginResult{User: user}
	if s.tokens != nil {
		token, err := s.tokens.Generate(user.ID)
		if err != nil {
			return nil, fmt.Errorf("service/user: generating token for user %s: %w", user.ID, err)
		}
		result.Token = token
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return result, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetTDEE returns the stored TDEE without recomputing it.
func (s *UserService) GetTDEE(ctx context.Context, userID string) (float64, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.TDEE, nil
}

// ExerciseInput is a new log entry as received from the client. Calories and
// Duration arrive as arbitrary numbers and are normalised to integers.
type ExerciseInput struct {
	Name     string
	Calories float64
	Duration float64
	DateTime string // optional
	Steps    float64
	Distance float64
}

// AddExercise normalises the input and appends it to the user's log.
//
//   - calories: rounded half-up to an integer
//   - duration, steps: truncated to whole numbers
//   - calories, duration, steps: must fit a 32-bit integer
//   - dateTime: parsed, or the current time when empty
func (s *UserService) AddExercise(ctx context.Context, userID string, in ExerciseInput) (*model.Exercise, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}

	at, err := parseDateTime(in.DateTime, s.now)
	if err != nil {
		return nil, err
	}

	calories, err := wholeNumber("calories", math.Floor(in.Calories+0.5))
	if err != nil {
		return nil, err
	}
	duration, err := wholeNumber("duration", math.Trunc(in.Duration))
	if err != nil {
		return nil, err
	}
	steps, err := wholeNumber("steps", math.Trunc(in.Steps))
	if err != nil {
		return nil, err
	}
	if math.IsNaN(in.Distance) || math.IsInf(in.Distance, 0) {
		return nil, apperror.ValidationFailed("distance", "distance must be a finite number")
	}

	ex := &model.Exercise{
		Name:     name,
		Calories: calories,
		Duration: duration,
		DateTime: at,
		Steps:    steps,
		Distance: in.Distance,
	}
	if err := s.users.AddExercise(ctx, userID, ex); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/user: adding exercise: %w", err)
	}

	s.logger.Info("exercise added",
		slog.String("userID", userID),
		slog.String("exerciseID", ex.ID),
	)
	return ex, nil
}

func (s *UserService) RemoveExercise(ctx context.Context, userID, exerciseID string) error {
	if err := s.users.RemoveExercise(ctx, userID, exerciseID); err != nil {
		return err
	}
	s.logger.Info("exercise removed",
		slog.String("userID", userID),
		slog.String("exerciseID", exerciseID),
	)
	return nil
}

// ListExercisesAggregated returns the user's log grouped by UTC day, newest first.
func (s *UserService) ListExercisesAggregated(ctx context.Context, userID string) ([]model.DayAggregate, error) {
	exercises, err := s.users.ListExercises(ctx, userID)
	if err != nil {
		return nil, err
	}
	return AggregateByDay(exercises), nil
}

// wholeNumber converts an already rounded value to int. Values must fit the
// 32-bit INTEGER columns used by the Postgres backend.
func wholeNumber(field string, x float64) (int, error) {
	if math.IsNaN(x) || x < math.MinInt32 || x > math.MaxInt32 {
		return 0, apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be a number between %d and %d", field, math.MinInt32, math.MaxInt32))
	}
	return int(x), nil
}

// Accepted dateTime layouts, tried in order. Values without a zone are UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func parseDateTime(raw string, now func() time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now().UTC(), nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperror.ValidationFailed("dateTime",
		"dateTime must be an ISO 8601 timestamp or a YYYY-MM-DD date")
}
