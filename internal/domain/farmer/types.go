package farmer

import (
	"time"

	"github.com/yanqian/agri-advisor/internal/domain/advisory"
)

// Config drives farmer sessions.
type Config struct {
	Secret   string
	TokenTTL time.Duration
}

// SupportedLanguages lists the locales the product ships translations for.
var SupportedLanguages = []string{"en", "hi", "ta", "te", "mr", "kn", "bn"}

// StatusProcessing marks a submission accepted for advisory generation.
const StatusProcessing = "processing"

// Profile is a registered farmer.
type Profile struct {
	UserID      string    `json:"userId"`
	Language    string    `json:"language"`
	ContactMode string    `json:"contactMode"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RegisterRequest captures the registration payload.
type RegisterRequest struct {
	UserID      string `json:"userId"`
	Language    string `json:"language"`
	ContactMode string `json:"contactMode"`
	// SessionUserID is the subject of the caller's bearer token, if any.
	SessionUserID string `json:"-"`
}

// Registration is returned after a successful registration.
type Registration struct {
	Profile
	Token          string    `json:"token"`
	TokenExpiresAt time.Time `json:"tokenExpiresAt"`
}

// InputRequest is a farmer form submission.
type InputRequest struct {
	UserID string `json:"userId"`
	advisory.FarmerInput
}

// Submission is a stored form submission.
type Submission struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	advisory.FarmerInput
	SubmittedAt time.Time `json:"submittedAt"`
	Status      string    `json:"status"`
}

// History is a farmer's profile, when registered, and stored submissions, oldest first.
type History struct {
	Profile     *Profile     `json:"profile,omitempty"`
	Submissions []Submission `json:"submissions"`
}

// Claims are extracted from a session token.
type Claims struct {
	UserID    string
	Language  string
	ExpiresAt time.Time
}
