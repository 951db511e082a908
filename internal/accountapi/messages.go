package accountapi

import "time"

// Stats are the aggregated typing statistics kept on a profile.
type Stats struct {
	TestsTaken      int     `json:"testsTaken"`
	BestWPM         float64 `json:"bestWpm"`
	AverageWPM      float64 `json:"averageWpm"`
	AverageAccuracy float64 `json:"averageAccuracy"`
}

// Profile is the account record shown to the signed-in user.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Stats     Stats     `json:"stats"`
	Premium   bool      `json:"premium"`
	AvatarKey string    `json:"avatarKey,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// PracticeResult is one finished typing run.
type PracticeResult struct {
	WPM        float64 `json:"wpm"`
	Accuracy   float64 `json:"accuracy"`
	DurationMs int64   `json:"durationMs"`
}

// UpdateProfileRequest is a partial update: nil fields are left untouched.
type UpdateProfileRequest struct {
	Name      *string         `json:"name,omitempty"`
	AvatarKey *string         `json:"avatarKey,omitempty"`
	Result    *PracticeResult `json:"result,omitempty"`
}

type LeaderboardRequest struct {
	Limit int `json:"limit"`
}

// Empty is the request body of parameterless calls.
type Empty struct{}

// AuthPayload is returned by Login and Register.
type AuthPayload struct {
	Profile Profile `json:"profile"`
	Token   string  `json:"token"`
}

type ProfilePayload struct {
	Profile Profile `json:"profile"`
}

// AvatarUpload is a presigned PUT target for a new avatar image.
type AvatarUpload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type LeaderboardEntry struct {
	Rank    int     `json:"rank"`
	UserID  string  `json:"userId"`
	Name    string  `json:"name"`
	BestWPM float64 `json:"bestWpm"`
}

type LeaderboardPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}
