package farmer

import "context"

// Repository abstracts farmer persistence.
type Repository interface {
	// SaveProfile inserts or updates a profile and returns the stored row.
	// CreatedAt of an existing profile is preserved.
	SaveProfile(ctx context.Context, profile Profile) (Profile, error)
	GetProfile(ctx context.Context, userID string) (Profile, bool, error)
	SaveSubmission(ctx context.Context, submission Submission) error
	ListSubmissions(ctx context.Context, userID string) ([]Submission, error)
}
