package models

import "time"

// Stats are the aggregated practice results of a user.
type Stats struct {
	TestsTaken      int
	BestWPM         float64
	AverageWPM      float64
	AverageAccuracy float64
}

type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash []byte
	PasswordSalt []byte
	Premium      bool
	AvatarKey    string
	Stats        Stats
	CreatedAt    time.Time
}
