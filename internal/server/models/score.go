package models

import "time"

// Score is one recorded practice run.
type Score struct {
	ID         string
	UserID     string
	WPM        float64
	Accuracy   float64
	DurationMs int64
	CreatedAt  time.Time
}
