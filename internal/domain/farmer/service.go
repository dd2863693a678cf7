package farmer

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/yanqian/agri-advisor/pkg/errors"
)

const defaultTokenTTL = 24 * time.Hour

// Service exposes farmer registration and form intake.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (Registration, error)
	SubmitInput(ctx context.Context, req InputRequest) (Submission, error)
	History(ctx context.Context, userID string) (History, error)
	ValidateSession(ctx context.Context, token string) (Claims, error)
}

type service struct {
	cfg    Config
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// NewService constructs a Service instance.
func NewService(cfg Config, repo Repository, logger *slog.Logger) Service {
	logger = logger.With("component", "farmer.service")
	if strings.TrimSpace(cfg.Secret) == "" {
		cfg.Secret = processSecret()
		logger.Warn("no session secret configured, tokens are signed with a per-process key and expire on restart")
	}
	return &service{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (Registration, error) {
	userID := strings.TrimSpace(req.UserID)
	language := strings.ToLower(strings.TrimSpace(req.Language))
	contact := strings.TrimSpace(req.ContactMode)
	if userID == "" || language == "" || contact == "" {
		return Registration{}, apperrors.Wrap(apperrors.CodeInvalidInput, "Missing required fields: userId, language, contactMode", nil)
	}
	if !slices.Contains(SupportedLanguages, language) {
		return Registration{}, apperrors.Wrap(apperrors.CodeInvalidInput, "unsupported language: "+language, nil)
	}

	existing, registered, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return Registration{}, apperrors.Wrap(apperrors.CodeRepository, "failed to load farmer profile", err)
	}
	// an existing profile is only updated by its owner's session
	if registered && strings.TrimSpace(req.SessionUserID) != existing.UserID {
		return Registration{}, apperrors.Wrap(apperrors.CodeConflict, "farmer already registered", nil)
	}

	profile, err := s.repo.SaveProfile(ctx, Profile{
		UserID:      userID,
		Language:    language,
		ContactMode: contact,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return Registration{}, apperrors.Wrap(apperrors.CodeRepository, "failed to save farmer profile", err)
	}

	token, expiresAt, err := s.issueToken(profile)
	if err != nil {
		return Registration{}, err
	}
	s.logger.Info("farmer registered", "userId", userID, "language", language)
	return Registration{Profile: profile, Token: token, TokenExpiresAt: expiresAt}, nil
}

func (s *service) SubmitInput(ctx context.Context, req InputRequest) (Submission, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" || req.Location == nil || req.LandArea == nil {
		return Submission{}, apperrors.Wrap(apperrors.CodeInvalidInput, "Missing required fields", nil)
	}

	submission := Submission{
		ID:          s.newID(),
		UserID:      userID,
		FarmerInput: req.FarmerInput,
		SubmittedAt: s.now().UTC(),
		Status:      StatusProcessing,
	}
	if err := s.repo.SaveSubmission(ctx, submission); err != nil {
		return Submission{}, apperrors.Wrap(apperrors.CodeRepository, "failed to save farmer input", err)
	}
	s.logger.Info("farmer input stored", "userId", userID, "submissionId", submission.ID)
	return submission, nil
}

func (s *service) History(ctx context.Context, userID string) (History, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return History{}, apperrors.Wrap(apperrors.CodeInvalidInput, "Missing required parameter: userId", nil)
	}
	history := History{Submissions: []Submission{}}
	profile, ok, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return History{}, apperrors.Wrap(apperrors.CodeRepository, "failed to load farmer profile", err)
	}
	if ok {
		history.Profile = &profile
	}
	subs, err := s.repo.ListSubmissions(ctx, userID)
	if err != nil {
		return History{}, apperrors.Wrap(apperrors.CodeRepository, "failed to load farmer inputs", err)
	}
	history.Submissions = append(history.Submissions, subs...)
	return history, nil
}

func (s *service) ValidateSession(ctx context.Context, token string) (Claims, error) {
	if strings.TrimSpace(token) == "" {
		return Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token missing", nil)
	}
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token invalid", nil)
	}
	if claims.ExpiresAt == nil {
		return Claims{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token missing expiry", nil)
	}
	return Claims{
		UserID:    claims.Subject,
		Language:  claims.Language,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *service) issueToken(profile Profile) (string, time.Time, error) {
	ttl := s.cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := s.now()
	expiresAt := now.Add(ttl).UTC().Truncate(time.Second)
	claims := sessionClaims{
		Language: profile.Language,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.UserID,
			ID:        s.newID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(apperrors.CodeTokenIssue, "failed to sign session token", err)
	}
	return signed, expiresAt, nil
}

func processSecret() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Language string `json:"lang"`
}
