package farmerrepo

import (
	"context"
	"sync"

	"github.com/yanqian/agri-advisor/internal/domain/farmer"
)

// MemoryRepository provides an in-memory farmer store for tests/dev.
type MemoryRepository struct {
	mu          sync.RWMutex
	profiles    map[string]farmer.Profile
	submissions map[string][]farmer.Submission
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		profiles:    make(map[string]farmer.Profile),
		submissions: make(map[string][]farmer.Submission),
	}
}

// SaveProfile upserts the profile, keeping the original creation time.
func (r *MemoryRepository) SaveProfile(_ context.Context, profile farmer.Profile) (farmer.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.profiles[profile.UserID]; ok {
		profile.CreatedAt = existing.CreatedAt
	}
	r.profiles[profile.UserID] = profile
	return profile, nil
}

// GetProfile returns a profile by user id.
func (r *MemoryRepository) GetProfile(_ context.Context, userID string) (farmer.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[userID]
	return profile, ok, nil
}

// SaveSubmission appends a form submission.
func (r *MemoryRepository) SaveSubmission(_ context.Context, submission farmer.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions[submission.UserID] = append(r.submissions[submission.UserID], submission)
	return nil
}

// ListSubmissions returns the user's submissions, oldest first.
func (r *MemoryRepository) ListSubmissions(_ context.Context, userID string) ([]farmer.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.submissions[userID]
	out := make([]farmer.Submission, len(stored))
	copy(out, stored)
	return out, nil
}

var _ farmer.Repository = (*MemoryRepository)(nil)
