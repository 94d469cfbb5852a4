package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sakif/fitness-tracker/internal/apperror"
	"github.com/sakif/fitness-tracker/internal/model"
)

// newTestDB returns a fresh in-memory database that is closed when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$04$notarealhash",
		Age:          30,
		Weight:       70,
		Height:       175,
		Gender:       "female",
		BMI:          22.9,
		BMR:          1500,
		TDEE:         2100.5,
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func addTestExercise(t *testing.T, db *DB, userID, name string, at time.Time) *model.Exercise {
	t.Helper()
	ex := &model.Exercise{Name: name, Calories: 100, Duration: 30, DateTime: at}
	if err := db.Users().AddExercise(context.Background(), userID, ex); err != nil {
		t.Fatalf("failed to add exercise: %v", err)
	}
	return ex
}

// =========================================================================
// USERS
// =========================================================================

func TestUserCreateAndGetByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "a@example.com")

	if created.ID == "" {
		t.Fatal("Create() did not set user.ID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}

	found, err := db.Users().GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if found.Email != "a@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "a@example.com")
	}
	if found.TDEE != 2100.5 {
		t.Errorf("TDEE = %v, want 2100.5", found.TDEE)
	}
	if found.PasswordHash != created.PasswordHash {
		t.Errorf("PasswordHash was not persisted")
	}
	if found.Exercises == nil || len(found.Exercises) != 0 {
		t.Errorf("Exercises = %v, want empty non-nil slice", found.Exercises)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetByID(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByEmail_ReturnsEarliest(t *testing.T) {
	db := newTestDB(t)
	first := createTestUser(t, db, "dup@example.com")
	createTestUser(t, db, "dup@example.com")

	found, err := db.Users().GetByEmail(context.Background(), "dup@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found.ID != first.ID {
		t.Errorf("GetByEmail() ID = %q, want earliest %q", found.ID, first.ID)
	}
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// EXERCISES
// =========================================================================

func TestAddExercise_PreservesInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ex@example.com")

	day := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	a := addTestExercise(t, db, user.ID, "run", day.Add(2*time.Hour))
	b := addTestExercise(t, db, user.ID, "swim", day)

	if a.ID == "" || b.ID == "" {
		t.Fatal("AddExercise() did not set exercise IDs")
	}

	list, err := db.Users().ListExercises(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListExercises() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != a.ID || list[1].ID != b.ID {
		t.Errorf("order = [%s %s], want [%s %s]", list[0].ID, list[1].ID, a.ID, b.ID)
	}
	if !list[1].DateTime.Equal(day) {
		t.Errorf("DateTime = %v, want %v", list[1].DateTime, day)
	}
}

func TestAddExercise_UnknownUser(t *testing.T) {
	db := newTestDB(t)

	ex := &model.Exercise{Name: "run", Calories: 1, Duration: 1, DateTime: time.Now()}
	err := db.Users().AddExercise(context.Background(), "missing", ex)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("AddExercise() error = %v, want ErrNotFound", err)
	}
}

// Concurrent appends on the same user must all land.
func TestAddExercise_ConcurrentAppendsAreNotLost(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "race@example.com")

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ex := &model.Exercise{Name: "walk", Calories: 10, Duration: 5, DateTime: time.Now()}
			errs <- db.Users().AddExercise(context.Background(), user.ID, ex)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("AddExercise() error = %v", err)
		}
	}

	list, err := db.Users().ListExercises(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListExercises() error = %v", err)
	}
	if len(list) != writers {
		t.Errorf("len = %d, want %d", len(list), writers)
	}
}

// A file database hands out several pooled connections, so writers really
// contend for the lock here, unlike on ":memory:".
func TestAddExercise_ConcurrentAppendsOnFileDB(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "fitness.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	user := createTestUser(t, db, "file-race@example.com")

	const writers = 50
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ex := &model.Exercise{Name: "walk", Calories: 10, Duration: 5, DateTime: time.Now()}
			errs <- db.Users().AddExercise(context.Background(), user.ID, ex)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("AddExercise() error = %v", err)
		}
	}

	list, err := db.Users().ListExercises(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListExercises() error = %v", err)
	}
	if len(list) != writers {
		t.Fatalf("len = %d, want %d", len(list), writers)
	}
	seen := make(map[string]bool, writers)
	for _, ex := range list {
		if seen[ex.ID] {
			t.Errorf("duplicate exercise ID %q", ex.ID)
		}
		seen[ex.ID] = true
	}
}

func TestNew_FileDBEnforcesForeignKeysOnEveryConnection(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "fk.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Hold several connections open at once so the pool has to dial new ones.
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		c, err := db.conn.Conn(ctx)
		if err != nil {
			t.Fatalf("Conn() error = %v", err)
		}
		defer c.Close()

		var fk, timeout int
		if err := c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("PRAGMA foreign_keys error = %v", err)
		}
		if err := c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
			t.Fatalf("PRAGMA busy_timeout error = %v", err)
		}
		if fk != 1 || timeout != 5000 {
			t.Errorf("conn %d: foreign_keys = %d, busy_timeout = %d, want 1 and 5000", i, fk, timeout)
		}
	}
}

func TestDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/fitness.db", "data/fitness.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"},
		{"file:x.db?mode=rwc", "file:x.db?mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"},
	}
	for _, tt := range tests {
		if got := dsn(tt.path); got != tt.want {
			t.Errorf("dsn(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRemoveExercise(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "rm@example.com")
	ex := addTestExercise(t, db, user.ID, "row", time.Now())

	if err := db.Users().RemoveExercise(context.Background(), user.ID, ex.ID); err != nil {
		t.Fatalf("RemoveExercise() error = %v", err)
	}

	list, _ := db.Users().ListExercises(context.Background(), user.ID)
	if len(list) != 0 {
		t.Errorf("len after remove = %d, want 0", len(list))
	}
}

func TestRemoveExercise_NotFound(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "rm404@example.com")
	other := createTestUser(t, db, "other@example.com")
	foreign := addTestExercise(t, db, other.ID, "bike", time.Now())

	tests := []struct {
		name       string
		userID     string
		exerciseID string
	}{
		{"missing exercise on existing user", user.ID, "missing"},
		{"missing user", "missing", foreign.ID},
		{"exercise owned by someone else", user.ID, foreign.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := db.Users().RemoveExercise(context.Background(), tt.userID, tt.exerciseID)
			if !errors.Is(err, apperror.ErrNotFound) {
				t.Errorf("RemoveExercise() error = %v, want ErrNotFound", err)
			}
		})
	}

	// The foreign exercise must still be there.
	list, _ := db.Users().ListExercises(context.Background(), other.ID)
	if len(list) != 1 {
		t.Errorf("other user's exercises = %d, want 1", len(list))
	}
}

func TestListExercises_UnknownUser(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().ListExercises(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ListExercises() error = %v, want ErrNotFound", err)
	}
}
