package farmerrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/agri-advisor/internal/domain/advisory"
	"github.com/yanqian/agri-advisor/internal/domain/farmer"
)

// PostgresRepository persists farmers in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// SaveProfile upserts a farmer row.
func (r *PostgresRepository) SaveProfile(ctx context.Context, profile farmer.Profile) (farmer.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO farmers (user_id, language, contact_mode, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET language = EXCLUDED.language, contact_mode = EXCLUDED.contact_mode
		RETURNING user_id, language, contact_mode, created_at
	`, profile.UserID, profile.Language, profile.ContactMode, profile.CreatedAt)
	return scanProfile(row)
}

// GetProfile fetches a farmer by user id.
func (r *PostgresRepository) GetProfile(ctx context.Context, userID string) (farmer.Profile, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, language, contact_mode, created_at
		FROM farmers
		WHERE user_id = $1
		LIMIT 1
	`, userID)
	if err != nil {
		return farmer.Profile{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return farmer.Profile{}, false, rows.Err()
	}
	profile, err := scanProfile(rows)
	if err != nil {
		return farmer.Profile{}, false, err
	}
	return profile, true, rows.Err()
}

// SaveSubmission stores a form submission with its inputs as jsonb.
func (r *PostgresRepository) SaveSubmission(ctx context.Context, submission farmer.Submission) error {
	payload, err := json.Marshal(submission.FarmerInput)
	if err != nil {
		return fmt.Errorf("encode farmer input: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO farmer_submissions (id, user_id, input, submitted_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`, submission.ID, submission.UserID, payload, submission.SubmittedAt, submission.Status)
	return err
}

// ListSubmissions returns the user's submissions, oldest first.
func (r *PostgresRepository) ListSubmissions(ctx context.Context, userID string) ([]farmer.Submission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, input, submitted_at, status
		FROM farmer_submissions
		WHERE user_id = $1
		ORDER BY submitted_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []farmer.Submission
	for rows.Next() {
		var (
			sub       farmer.Submission
			payload   []byte
			submitted time.Time
		)
		if err := rows.Scan(&sub.ID, &sub.UserID, &payload, &submitted, &sub.Status); err != nil {
			return nil, err
		}
		var in advisory.FarmerInput
		if err := json.Unmarshal(payload, &in); err != nil {
			return nil, fmt.Errorf("decode farmer input: %w", err)
		}
		sub.FarmerInput = in
		sub.SubmittedAt = submitted.UTC()
		out = append(out, sub)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (farmer.Profile, error) {
	var profile farmer.Profile
	var created time.Time
	if err := row.Scan(&profile.UserID, &profile.Language, &profile.ContactMode, &created); err != nil {
		return farmer.Profile{}, err
	}
	profile.CreatedAt = created.UTC()
	return profile, nil
}

var _ farmer.Repository = (*PostgresRepository)(nil)
