package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor (2^12 rounds, roughly 250ms).
const defaultCost = 12

// MaxPasswordBytes is the bcrypt input limit. Longer passwords are rejected
// rather than silently truncated.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by Hash for inputs over MaxPasswordBytes.
var ErrPasswordTooLong = errors.New("auth: password must be 72 bytes or fewer")

// ErrMismatch is returned by Verify when the password does not match.
var ErrMismatch = errors.New("auth: invalid password")

// PasswordService provides bcrypt hashing and verification.
//
// The hash format is self-describing:
//
//	$2a$12$<22-char salt><31-char hash>
//
// so the cost and salt never need their own columns.
type PasswordService struct {
	cost      int
	dummyHash []byte
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return newPasswordServiceWithCost(defaultCost)
}

// NewPasswordServiceForTest creates a PasswordService with a custom cost.
// Other packages' tests pass bcrypt.MinCost (4) to keep runs fast.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return newPasswordServiceWithCost(cost)
}

func newPasswordServiceWithCost(cost int) *PasswordService {
	// The dummy hash is compared against on the unknown-user login path so
	// that path does the same bcrypt work as a real mismatch.
	dummy, err := bcrypt.GenerateFromPassword([]byte("fitness-tracker-dummy"), cost)
	if err != nil {
		panic(fmt.Sprintf("auth: generating dummy hash: %v", err))
	}
	return &PasswordService{cost: cost, dummyHash: dummy}
}

// Hash hashes the given plaintext password with bcrypt.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
// It returns ErrMismatch for a wrong password and a wrapped error for a
// malformed hash. The comparison is constant-time.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}

// Equalize burns the same bcrypt work as Verify against a hash that never
// matches. Call it when the account lookup failed.
func (p *PasswordService) Equalize(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(p.dummyHash, []byte(plaintext))
}
