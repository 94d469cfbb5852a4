// Package model defines the data structures used throughout the application.
package model

import "time"

// User is a registered account together with the body metrics captured by
// the registration survey. BMI, BMR and TDEE are computed by the client and
// stored as-is.
//
// PasswordHash is tagged json:"-" so a User can be written to a response
// without leaking the hash.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Age          int        `json:"age"`
	Weight       float64    `json:"weight"`
	Height       float64    `json:"height"`
	Gender       string     `json:"gender"`
	BMI          float64    `json:"bmi"`
	BMR          float64    `json:"bmr"`
	TDEE         float64    `json:"tdee"`
	Exercises    []Exercise `json:"exercises"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// LoginView is the subset of a user returned by a successful login.
type LoginView struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Age   int     `json:"age"`
	TDEE  float64 `json:"tdee"`
}

// LoginView returns the login projection of u.
func (u *User) LoginView() LoginView {
	return LoginView{
		ID:    u.ID,
		Email: u.Email,
		Age:   u.Age,
		TDEE:  u.TDEE,
	}
}
