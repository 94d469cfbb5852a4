package model

import "time"

// Exercise is one logged activity. It belongs to exactly one user and is
// never edited after it is written.
type Exercise struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Calories int       `json:"calories"`
	Duration int       `json:"duration"` // minutes
	DateTime time.Time `json:"dateTime"`
	Steps    int       `json:"steps"`
	Distance float64   `json:"distance"`
}

// DayAggregate sums every exercise logged on one UTC calendar day.
type DayAggregate struct {
	Name       string     `json:"name"`
	Calories   int        `json:"calories"`
	Duration   int        `json:"duration"`
	Steps      int        `json:"steps"`
	Distance   float64    `json:"distance"`
	DateTime   time.Time  `json:"dateTime"`
	Activities []Exercise `json:"activities"`
}
